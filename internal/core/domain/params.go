package domain

import "time"

// CreateTaskParams carries the caller-supplied fields of a new task.
type CreateTaskParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	CategoryID  string     `json:"categoryId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Validate checks field constraints. A nil return means the params are
// acceptable to both backends.
func (p CreateTaskParams) Validate() error {
	fields := map[string]string{}
	if len(p.Title) == 0 || len(p.Title) > 100 {
		fields["title"] = "must be 1-100 characters"
	}
	if len(p.Description) > 500 {
		fields["description"] = "must be at most 500 characters"
	}
	if p.Priority != "" && !p.Priority.Valid() {
		fields["priority"] = "must be low, medium or high"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// UpdateTaskParams is a partial task update; nil fields are left
// untouched.
type UpdateTaskParams struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Validate checks the fields that are present.
func (p UpdateTaskParams) Validate() error {
	fields := map[string]string{}
	if p.Title != nil && (len(*p.Title) == 0 || len(*p.Title) > 100) {
		fields["title"] = "must be 1-100 characters"
	}
	if p.Description != nil && len(*p.Description) > 500 {
		fields["description"] = "must be at most 500 characters"
	}
	if p.Priority != nil && !p.Priority.Valid() {
		fields["priority"] = "must be low, medium or high"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CategoryParams carries caller-supplied category fields.
type CategoryParams struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (p CategoryParams) Validate() error {
	if p.Name == "" {
		return &ValidationError{Fields: map[string]string{"name": "required"}}
	}
	return nil
}

// FeedbackParams carries a feedback submission.
type FeedbackParams struct {
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Category string `json:"category"`
}

func (p FeedbackParams) Validate() error {
	if p.Rating < 1 || p.Rating > 5 {
		return &ValidationError{Fields: map[string]string{"rating": "must be 1-5"}}
	}
	return nil
}

// SettingsParams is a partial settings update.
type SettingsParams struct {
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	DefaultView   *string `json:"defaultView,omitempty"`
}

// BulkOp names a bulk mutation applied to a set of task ids.
type BulkOp string

const (
	BulkComplete BulkOp = "complete"
	BulkDelete   BulkOp = "delete"
)

// TaskPage is one page of a filtered task listing.
type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// Analytics summarizes a user's tasks.
type Analytics struct {
	Total          int              `json:"total"`
	Completed      int              `json:"completed"`
	Pending        int              `json:"pending"`
	Overdue        int              `json:"overdue"`
	ByPriority     map[Priority]int `json:"byPriority"`
	CompletionRate float64          `json:"completionRate"`
}
