package domain

import "time"

// Task is a single todo item owned by a user.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CategoryID  string     `json:"categoryId,omitempty"`
	// Category is the denormalized reference embedded at the gateway
	// boundary; the stores themselves only keep CategoryID.
	Category *CategoryRef `json:"category,omitempty"`
	OwnerID  string       `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CategoryRef is the embedded category shape on wire responses. Name
// and Color stay empty when the referenced category no longer exists.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DueBucket selects tasks by how their due date relates to now.
type DueBucket string

const (
	DueToday    DueBucket = "today"
	DueThisWeek DueBucket = "this-week"
	DueOverdue  DueBucket = "overdue"
)

// SortOrder controls list ordering direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskQuery describes a filtered, paginated task listing.
// Zero values mean "no filter"; Page/Limit of 0 fall back to defaults.
type TaskQuery struct {
	Page       int
	Limit      int
	Priority   Priority
	Completed  *bool
	CategoryID string
	Search     string
	Due        DueBucket
	SortBy     string
	SortOrder  SortOrder
}

// Pagination describes one page of a filtered result set.
// Total and TotalPages are computed from the filtered set, not the
// whole collection.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
