// Package notes implements CRUD over the user note collection, persisted as
// one JSON array under the shared notes storage key.
package notes

// Note is a persisted study note. The user and lesson references are not
// validated against other entities. CreatedAt and UpdatedAt are RFC 3339
// timestamps; CreatedAt is set once, UpdatedAt refreshes on every update.
type Note struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	LessonID  string `json:"lessonId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateRequest carries the caller-owned fields of a new note.
type CreateRequest struct {
	UserID   string
	LessonID string
	Title    string
	Content  string
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Title    *string
	Content  *string
	LessonID *string
}
