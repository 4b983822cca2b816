package domain

// SendCodeResult acknowledges a verification-code request.
type SendCodeResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ExpiresInSeconds int    `json:"expiresIn"`
}

// VerifyCodeResult reports a code check. A mismatch is a result with
// Success=false, not an error; the auth state stays at code-sent.
type VerifyCodeResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Session *Session `json:"session,omitempty"`
}

// Ack is the generic success/message response for logout and deletes.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BulkResult reports how many tasks a bulk operation touched.
type BulkResult struct {
	UpdatedCount int `json:"updatedCount"`
}

// SearchResult is an unpaginated search hit list.
type SearchResult struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}
