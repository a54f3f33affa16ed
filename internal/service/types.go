package service

import "time"

// Task represents a single task item.
type Task struct {
	ID             string
	Name           string
	CreatedDate    time.Time
	CompletionDate time.Time // zero if unset
	Completed      bool
}

// TaskInput carries the editable fields of a task.
type TaskInput struct {
	Name           string
	CreatedDate    time.Time
	CompletionDate time.Time
}

// Profile is the user's display identity.
type Profile struct {
	Name     string
	ImageURL string // empty if no picture was uploaded
}

// UploadResult is the server's answer to a profile picture upload.
type UploadResult struct {
	Status   string // "success" on success
	Message  string
	ImageURL string
}

// OK reports whether the server accepted the upload.
func (r UploadResult) OK() bool {
	return r.Status == "success"
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string
	Password string
}

// Registration are the signup form fields.
type Registration struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// FilterTasks returns the tasks whose completion flag equals completed,
// preserving order. It splits a task list into the current and completed tabs.
func FilterTasks(tasks []Task, completed bool) []Task {
	var result []Task
	for _, t := range tasks {
		if t.Completed == completed {
			result = append(result, t)
		}
	}
	return result
}
