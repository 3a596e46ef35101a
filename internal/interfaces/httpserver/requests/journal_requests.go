// Package requests holds the JSON request bodies accepted by the API.
package requests

// LoginRequest opens a session for one of the two fixed roles.
type LoginRequest struct {
	Role   string `json:"role" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// LetterRequest creates a letter.
type LetterRequest struct {
	Date    string `json:"date" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// EventRequest creates a timeline event.
type EventRequest struct {
	Date        string `json:"date" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}
