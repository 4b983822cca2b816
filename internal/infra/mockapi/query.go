package mockapi

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

const defaultPageLimit = 20

// ListTasks filters, sorts and paginates the owner's tasks. Pagination
// totals are computed from the filtered set.
func (s *Store) ListTasks(
	ctx context.Context,
	owner string,
	q domain.TaskQuery,
) (*domain.TaskPage, error) {
	if err := s.simulate(ctx, "listTasks"); err != nil {
		return nil, err
	}
	if err := s.ensureSeed(ctx, owner); err != nil {
		return nil, err
	}

	tasks, err := s.loadTasks(ctx, owner)
	if err != nil {
		return nil, err
	}

	filtered := s.filterTasks(tasks, q)
	sortTasks(filtered, q.SortBy, q.SortOrder)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &domain.TaskPage{
		Tasks: filtered[start:end],
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *Store) filterTasks(tasks []domain.Task, q domain.TaskQuery) []domain.Task {
	now := s.now()
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if q.CategoryID != "" && t.CategoryID != q.CategoryID {
			continue
		}
		if q.Search != "" && !matchesSubstring(t, q.Search) {
			continue
		}
		if q.Due != "" && !inDueBucket(t, q.Due, now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSubstring(t domain.Task, query string) bool {
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func inDueBucket(t domain.Task, bucket domain.DueBucket, now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	due := *t.DueDate
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch bucket {
	case domain.DueToday:
		return !due.Before(dayStart) && due.Before(dayStart.Add(24*time.Hour))
	case domain.DueThisWeek:
		return !due.Before(dayStart) && due.Before(dayStart.Add(7*24*time.Hour))
	case domain.DueOverdue:
		return due.Before(now) && !t.Completed
	}
	return false
}

var priorityRank = map[domain.Priority]int{
	domain.PriorityLow:    0,
	domain.PriorityMedium: 1,
	domain.PriorityHigh:   2,
}

// sortTasks orders tasks newest-created-first unless a sort key is
// given.
func sortTasks(tasks []domain.Task, sortBy string, order domain.SortOrder) {
	less := func(a, b domain.Task) bool { return a.CreatedAt.After(b.CreatedAt) }

	switch sortBy {
	case "", "createdAt":
		if sortBy != "" && order == domain.SortAsc {
			less = func(a, b domain.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
		}
	case "title":
		less = func(a, b domain.Task) bool { return a.Title < b.Title }
	case "priority":
		less = func(a, b domain.Task) bool { return priorityRank[a.Priority] < priorityRank[b.Priority] }
	case "dueDate":
		less = func(a, b domain.Task) bool {
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		}
	}

	if sortBy != "" && sortBy != "createdAt" && order == domain.SortDesc {
		base := less
		less = func(a, b domain.Task) bool { return base(b, a) }
	}

	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

// SearchTasks is an unpaginated substring search over title and
// description. With fuzzy enabled, a query also matches when its
// characters appear in order.
func (s *Store) SearchTasks(
	ctx context.Context,
	owner, query string,
	fuzzy bool,
) (*domain.SearchResult, error) {
	if err := s.simulate(ctx, "searchTasks"); err != nil {
		return nil, err
	}

	tasks, err := s.loadTasks(ctx, owner)
	if err != nil {
		return nil, err
	}

	var hits []domain.Task
	for _, t := range tasks {
		if matchesSubstring(t, query) || (fuzzy && matchesSubsequence(t, query)) {
			hits = append(hits, t)
		}
	}
	sortTasks(hits, "", "")
	return &domain.SearchResult{Tasks: hits, Total: len(hits)}, nil
}

func matchesSubsequence(t domain.Task, query string) bool {
	return isSubsequence(strings.ToLower(query), strings.ToLower(t.Title)) ||
		isSubsequence(strings.ToLower(query), strings.ToLower(t.Description))
}

func isSubsequence(needle, haystack string) bool {
	if needle == "" {
		return true
	}
	i := 0
	for _, r := range haystack {
		if rune(needle[i]) == r {
			i++
			if i == len(needle) {
				return true
			}
		}
	}
	return false
}

// Analytics summarizes the owner's tasks as of now.
func (s *Store) Analytics(ctx context.Context, owner string) (*domain.Analytics, error) {
	if err := s.simulate(ctx, "getAnalytics"); err != nil {
		return nil, err
	}

	tasks, err := s.loadTasks(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &domain.Analytics{ByPriority: map[domain.Priority]int{}}
	for _, t := range tasks {
		a.Total++
		a.ByPriority[t.Priority]++
		if t.Completed {
			a.Completed++
		} else {
			a.Pending++
			if t.DueDate != nil && t.DueDate.Before(now) {
				a.Overdue++
			}
		}
	}
	if a.Total > 0 {
		a.CompletionRate = float64(a.Completed) / float64(a.Total)
	}
	return a, nil
}
