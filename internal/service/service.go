// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// ErrUnauthorized is matched (errors.Is) by backend errors when the server
// rejects the session token or the stored token cannot be used.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is matched by backend errors for missing resources.
var ErrNotFound = errors.New("not found")

// Service defines the interface for task backend operations.
// All REST API calls go through this interface.
// Commands never import the HTTP client directly.
type Service interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates an account and returns its session token.
	Register(ctx context.Context, reg Registration) (string, error)

	// ListTasks returns every task of the user in API order.
	// Results are not sorted or filtered client-side.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a new task.
	CreateTask(ctx context.Context, in TaskInput) error

	// UpdateTask replaces name and dates of a task.
	UpdateTask(ctx context.Context, taskID string, in TaskInput) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, taskID string) error

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, taskID string) error

	// Profile returns the user's profile.
	Profile(ctx context.Context) (Profile, error)

	// UploadProfilePicture replaces the user's profile picture.
	UploadProfilePicture(ctx context.Context, filename string, data []byte) (UploadResult, error)
}
