// Package models contains data structures for the application
package models

// Identity represents the authenticated user's profile data.
// It is owned by the session store and replaced wholesale on
// login/logout/restore, never mutated in place.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// AttendanceRecord represents one check-in document.
// Date and Timestamp carry the same instant at creation time; Date drives
// day-bucketing, Timestamp drives time-of-day display and lateness.
type AttendanceRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// Valid reports whether the record carries all required fields.
// Records failing this are dropped during ingestion, never stored partially.
func (r AttendanceRecord) Valid() bool {
	return r.Name != "" && r.Email != "" && r.Date != "" && r.Timestamp != ""
}

// ScanPayload is the validated shape of a decoded QR code.
type ScanPayload struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// FeedbackKind tags scan feedback as success or error.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is a transient scan outcome message shown to the operator.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}
