package gateway

import (
	"context"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

// ListTasks returns a filtered, paginated task listing.
func (g *Gateway) ListTasks(ctx context.Context, q domain.TaskQuery) (*domain.TaskPage, error) {
	return call(ctx, g, "listTasks", true,
		func(ctx context.Context) (*domain.TaskPage, error) {
			owner := g.owner(ctx)
			page, err := g.mock.ListTasks(ctx, owner, q)
			if err != nil {
				return nil, err
			}
			refs := make([]*domain.Task, len(page.Tasks))
			for i := range page.Tasks {
				refs[i] = &page.Tasks[i]
			}
			g.denormalize(ctx, owner, refs)
			return page, nil
		},
		func(ctx context.Context) (*domain.TaskPage, error) {
			return g.real.ListTasks(ctx, q)
		},
	)
}

// GetTask returns one task or a NotFoundError.
func (g *Gateway) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return call(ctx, g, "getTask", true,
		func(ctx context.Context) (*domain.Task, error) {
			owner := g.owner(ctx)
			t, err := g.mock.GetTask(ctx, owner, id)
			if err != nil {
				return nil, err
			}
			g.denormalize(ctx, owner, []*domain.Task{t})
			return t, nil
		},
		func(ctx context.Context) (*domain.Task, error) {
			return g.real.GetTask(ctx, id)
		},
	)
}

// CreateTask validates and stores a new task. Validation failures are
// surfaced immediately, never retried.
func (g *Gateway) CreateTask(ctx context.Context, p domain.CreateTaskParams) (*domain.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return call(ctx, g, "createTask", true,
		func(ctx context.Context) (*domain.Task, error) {
			owner := g.owner(ctx)
			t, err := g.mock.CreateTask(ctx, owner, p)
			if err != nil {
				return nil, err
			}
			g.denormalize(ctx, owner, []*domain.Task{t})
			return t, nil
		},
		func(ctx context.Context) (*domain.Task, error) {
			return g.real.CreateTask(ctx, p)
		},
	)
}

// UpdateTask applies a partial update.
func (g *Gateway) UpdateTask(
	ctx context.Context,
	id string,
	p domain.UpdateTaskParams,
) (*domain.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return call(ctx, g, "updateTask", true,
		func(ctx context.Context) (*domain.Task, error) {
			owner := g.owner(ctx)
			t, err := g.mock.UpdateTask(ctx, owner, id, p)
			if err != nil {
				return nil, err
			}
			g.denormalize(ctx, owner, []*domain.Task{t})
			return t, nil
		},
		func(ctx context.Context) (*domain.Task, error) {
			return g.real.UpdateTask(ctx, id, p)
		},
	)
}

// CompleteTask marks a task done; completing twice is not an error.
func (g *Gateway) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return call(ctx, g, "completeTask", true,
		func(ctx context.Context) (*domain.Task, error) {
			return g.mock.CompleteTask(ctx, g.owner(ctx), id)
		},
		func(ctx context.Context) (*domain.Task, error) {
			return g.real.CompleteTask(ctx, id)
		},
	)
}

// DeleteTask removes a task permanently.
func (g *Gateway) DeleteTask(ctx context.Context, id string) (*domain.Ack, error) {
	return call(ctx, g, "deleteTask", true,
		func(ctx context.Context) (*domain.Ack, error) {
			return g.mock.DeleteTask(ctx, g.owner(ctx), id)
		},
		func(ctx context.Context) (*domain.Ack, error) {
			return g.real.DeleteTask(ctx, id)
		},
	)
}

// BulkOperation completes or deletes a set of tasks.
func (g *Gateway) BulkOperation(
	ctx context.Context,
	op domain.BulkOp,
	taskIDs []string,
) (*domain.BulkResult, error) {
	return call(ctx, g, "bulkOperation", true,
		func(ctx context.Context) (*domain.BulkResult, error) {
			return g.mock.BulkOperation(ctx, g.owner(ctx), op, taskIDs)
		},
		func(ctx context.Context) (*domain.BulkResult, error) {
			return g.real.BulkOperation(ctx, op, taskIDs)
		},
	)
}

// SearchTasks runs a substring (optionally fuzzy) search.
func (g *Gateway) SearchTasks(ctx context.Context, query string, fuzzy bool) (*domain.SearchResult, error) {
	return call(ctx, g, "searchTasks", true,
		func(ctx context.Context) (*domain.SearchResult, error) {
			return g.mock.SearchTasks(ctx, g.owner(ctx), query, fuzzy)
		},
		func(ctx context.Context) (*domain.SearchResult, error) {
			return g.real.SearchTasks(ctx, query, fuzzy)
		},
	)
}

// GetAnalytics summarizes the caller's tasks.
func (g *Gateway) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	return call(ctx, g, "getAnalytics", true,
		func(ctx context.Context) (*domain.Analytics, error) {
			return g.mock.Analytics(ctx, g.owner(ctx))
		},
		func(ctx context.Context) (*domain.Analytics, error) {
			return g.real.Analytics(ctx)
		},
	)
}

// ListCategories returns the caller's categories.
func (g *Gateway) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return call(ctx, g, "listCategories", true,
		func(ctx context.Context) ([]domain.Category, error) {
			return g.mock.ListCategories(ctx, g.owner(ctx))
		},
		func(ctx context.Context) ([]domain.Category, error) {
			return g.real.ListCategories(ctx)
		},
	)
}

// CreateCategory stores a new category.
func (g *Gateway) CreateCategory(ctx context.Context, p domain.CategoryParams) (*domain.Category, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return call(ctx, g, "createCategory", true,
		func(ctx context.Context) (*domain.Category, error) {
			return g.mock.CreateCategory(ctx, g.owner(ctx), p)
		},
		func(ctx context.Context) (*domain.Category, error) {
			return g.real.CreateCategory(ctx, p)
		},
	)
}

// UpdateCategory overwrites a category's mutable fields.
func (g *Gateway) UpdateCategory(
	ctx context.Context,
	id string,
	p domain.CategoryParams,
) (*domain.Category, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return call(ctx, g, "updateCategory", true,
		func(ctx context.Context) (*domain.Category, error) {
			return g.mock.UpdateCategory(ctx, g.owner(ctx), id, p)
		},
		func(ctx context.Context) (*domain.Category, error) {
			return g.real.UpdateCategory(ctx, id, p)
		},
	)
}

// DeleteCategory removes a category. Tasks that referenced it keep
// their CategoryID; no cascade.
func (g *Gateway) DeleteCategory(ctx context.Context, id string) (*domain.Ack, error) {
	return call(ctx, g, "deleteCategory", true,
		func(ctx context.Context) (*domain.Ack, error) {
			return g.mock.DeleteCategory(ctx, g.owner(ctx), id)
		},
		func(ctx context.Context) (*domain.Ack, error) {
			return g.real.DeleteCategory(ctx, id)
		},
	)
}

// SubmitFeedback stores a feedback entry.
func (g *Gateway) SubmitFeedback(ctx context.Context, p domain.FeedbackParams) (*domain.Feedback, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return call(ctx, g, "submitFeedback", true,
		func(ctx context.Context) (*domain.Feedback, error) {
			return g.mock.SubmitFeedback(ctx, g.owner(ctx), p)
		},
		func(ctx context.Context) (*domain.Feedback, error) {
			return g.real.SubmitFeedback(ctx, p)
		},
	)
}

// ListFeedback returns the caller's feedback entries, newest first.
func (g *Gateway) ListFeedback(ctx context.Context) ([]domain.Feedback, error) {
	return call(ctx, g, "listFeedback", true,
		func(ctx context.Context) ([]domain.Feedback, error) {
			return g.mock.ListFeedback(ctx, g.owner(ctx))
		},
		func(ctx context.Context) ([]domain.Feedback, error) {
			return g.real.ListFeedback(ctx)
		},
	)
}

// GetSettings returns the caller's settings.
func (g *Gateway) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return call(ctx, g, "getSettings", true,
		func(ctx context.Context) (*domain.Settings, error) {
			return g.mock.GetSettings(ctx, g.owner(ctx))
		},
		func(ctx context.Context) (*domain.Settings, error) {
			return g.real.GetSettings(ctx)
		},
	)
}

// UpdateSettings applies a partial settings update.
func (g *Gateway) UpdateSettings(ctx context.Context, p domain.SettingsParams) (*domain.Settings, error) {
	return call(ctx, g, "updateSettings", true,
		func(ctx context.Context) (*domain.Settings, error) {
			return g.mock.UpdateSettings(ctx, g.owner(ctx), p)
		},
		func(ctx context.Context) (*domain.Settings, error) {
			return g.real.UpdateSettings(ctx, p)
		},
	)
}
