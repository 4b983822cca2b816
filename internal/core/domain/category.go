package domain

import "time"

// Category groups tasks. Deleting a category does not cascade to its
// tasks; Task.CategoryID may reference a category that no longer exists.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Feedback is a user-submitted rating with an optional comment.
type Feedback struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Category  string    `json:"category"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings holds per-user preferences mirrored by the backend.
type Settings struct {
	OwnerID       string    `json:"ownerId"`
	Theme         string    `json:"theme"`
	Notifications bool      `json:"notifications"`
	DefaultView   string    `json:"defaultView"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
