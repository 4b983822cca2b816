package mockapi

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
	"github.com/sourabhrustagi/taskgate/internal/infra/storage"
)

// Default categories seeded on first use of an empty store.
var seedCategories = []domain.CategoryParams{
	{Name: "Work", Color: "#4A90D9", Icon: "briefcase"},
	{Name: "Personal", Color: "#7ED321", Icon: "home"},
	{Name: "Shopping", Color: "#F5A623", Icon: "cart"},
	{Name: "Health", Color: "#D0021B", Icon: "heart"},
}

// ensureSeed populates the default categories exactly once: it is a
// no-op as soon as any category exists for the owner.
func (s *Store) ensureSeed(ctx context.Context, owner string) error {
	keys, err := s.kv.Keys(ctx, "categories:"+owner+":")
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return nil
	}
	now := s.now()
	for _, p := range seedCategories {
		c := domain.Category{
			ID:        "cat_" + uuid.New().String(),
			Name:      p.Name,
			Color:     p.Color,
			Icon:      p.Icon,
			OwnerID:   owner,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.put(ctx, categoryKey(owner, c.ID), c); err != nil {
			return err
		}
	}
	return nil
}

// ListCategories returns the owner's categories, oldest first.
func (s *Store) ListCategories(ctx context.Context, owner string) ([]domain.Category, error) {
	if err := s.simulate(ctx, "listCategories"); err != nil {
		return nil, err
	}
	if err := s.ensureSeed(ctx, owner); err != nil {
		return nil, err
	}

	keys, err := s.kv.Keys(ctx, "categories:"+owner+":")
	if err != nil {
		return nil, err
	}
	cats := make([]domain.Category, 0, len(keys))
	for _, k := range keys {
		var c domain.Category
		if err := s.get(ctx, k, &c); err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].CreatedAt.Equal(cats[j].CreatedAt) {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].CreatedAt.Before(cats[j].CreatedAt)
	})
	return cats, nil
}

// GetCategory returns one category or NotFoundError.
func (s *Store) GetCategory(ctx context.Context, owner, id string) (*domain.Category, error) {
	var c domain.Category
	if err := s.get(ctx, categoryKey(owner, id), &c); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, &domain.NotFoundError{Resource: "category", ID: id}
		}
		return nil, err
	}
	return &c, nil
}

// CreateCategory stores a new category.
func (s *Store) CreateCategory(
	ctx context.Context,
	owner string,
	p domain.CategoryParams,
) (*domain.Category, error) {
	if err := s.simulate(ctx, "createCategory"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSeed(ctx, owner); err != nil {
		return nil, err
	}

	now := s.now()
	c := domain.Category{
		ID:        "cat_" + uuid.New().String(),
		Name:      p.Name,
		Color:     p.Color,
		Icon:      p.Icon,
		OwnerID:   owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.put(ctx, categoryKey(owner, c.ID), c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCategory overwrites the mutable fields of a category.
func (s *Store) UpdateCategory(
	ctx context.Context,
	owner, id string,
	p domain.CategoryParams,
) (*domain.Category, error) {
	if err := s.simulate(ctx, "updateCategory"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c, err := s.GetCategory(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	c.Name = p.Name
	if p.Color != "" {
		c.Color = p.Color
	}
	if p.Icon != "" {
		c.Icon = p.Icon
	}
	c.UpdatedAt = s.touch(c.UpdatedAt)

	if err := s.put(ctx, categoryKey(owner, id), *c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category. Tasks referencing it keep their
// CategoryID; references are not cascaded or nulled.
func (s *Store) DeleteCategory(ctx context.Context, owner, id string) (*domain.Ack, error) {
	if err := s.simulate(ctx, "deleteCategory"); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, owner, id); err != nil {
		return nil, err
	}
	if err := s.kv.Delete(ctx, categoryKey(owner, id)); err != nil {
		return nil, err
	}
	return &domain.Ack{Success: true, Message: "category deleted"}, nil
}

// SubmitFeedback stores a feedback entry.
func (s *Store) SubmitFeedback(
	ctx context.Context,
	owner string,
	p domain.FeedbackParams,
) (*domain.Feedback, error) {
	if err := s.simulate(ctx, "submitFeedback"); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f := domain.Feedback{
		ID:        "fb_" + uuid.New().String(),
		Rating:    p.Rating,
		Comment:   p.Comment,
		Category:  p.Category,
		OwnerID:   owner,
		CreatedAt: s.now(),
	}
	if err := s.put(ctx, feedbackKey(owner, f.ID), f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFeedback returns the owner's feedback entries, newest first.
func (s *Store) ListFeedback(ctx context.Context, owner string) ([]domain.Feedback, error) {
	if err := s.simulate(ctx, "listFeedback"); err != nil {
		return nil, err
	}

	keys, err := s.kv.Keys(ctx, "feedback:"+owner+":")
	if err != nil {
		return nil, err
	}
	items := make([]domain.Feedback, 0, len(keys))
	for _, k := range keys {
		var f domain.Feedback
		if err := s.get(ctx, k, &f); err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, f)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

// GetSettings returns the owner's settings, creating defaults on first
// access.
func (s *Store) GetSettings(ctx context.Context, owner string) (*domain.Settings, error) {
	if err := s.simulate(ctx, "getSettings"); err != nil {
		return nil, err
	}

	var st domain.Settings
	err := s.get(ctx, settingsKey(owner), &st)
	if errors.Is(err, storage.ErrKeyNotFound) {
		st = domain.Settings{
			OwnerID:       owner,
			Theme:         "system",
			Notifications: true,
			DefaultView:   "list",
			UpdatedAt:     s.now(),
		}
		if err := s.put(ctx, settingsKey(owner), st); err != nil {
			return nil, err
		}
		return &st, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateSettings applies a partial settings update.
func (s *Store) UpdateSettings(
	ctx context.Context,
	owner string,
	p domain.SettingsParams,
) (*domain.Settings, error) {
	st, err := s.GetSettings(ctx, owner)
	if err != nil {
		return nil, err
	}
	if p.Theme != nil {
		st.Theme = *p.Theme
	}
	if p.Notifications != nil {
		st.Notifications = *p.Notifications
	}
	if p.DefaultView != nil {
		st.DefaultView = *p.DefaultView
	}
	st.UpdatedAt = s.touch(st.UpdatedAt)

	if err := s.put(ctx, settingsKey(owner), *st); err != nil {
		return nil, err
	}
	return st, nil
}
