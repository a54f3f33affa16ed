// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"taskdash/internal/service"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// ErrBadCredentials is returned by Login for unknown users or wrong passwords.
var ErrBadCredentials = errors.New("invalid credentials")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	users  map[string]string // email -> password
	nextID int

	profile      service.Profile
	uploadResult service.UploadResult

	// Recorded calls
	ListTasksCalls int
	LastInput      service.TaskInput
	LastUpload     string // filename of the last upload

	// Error injection for testing
	LoginErr        error
	RegisterErr     error
	ListTasksErr    error
	CreateTaskErr   error
	UpdateTaskErr   error
	DeleteTaskErr   error
	CompleteTaskErr error
	ProfileErr      error
	UploadErr       error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:   make(map[string]string),
		nextID:  1,
		profile: service.Profile{Name: "User"},
		uploadResult: service.UploadResult{
			Status:   "success",
			Message:  "Profile picture uploaded successfully",
			ImageURL: "https://cdn.example.com/profile.png",
		},
	}
}

// AddUser registers credentials accepted by Login.
func (f *FakeService) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// AddTask appends a task and returns its id.
func (f *FakeService) AddTask(task service.Task) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == "" {
		task.ID = f.newID()
	}
	f.tasks = append(f.tasks, task)
	return task.ID
}

// Task returns a stored task by id.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// TaskCount returns the number of stored tasks.
func (f *FakeService) TaskCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// SetProfile sets the profile returned by Profile.
func (f *FakeService) SetProfile(p service.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = p
}

// SetUploadResult sets the result returned by UploadProfilePicture.
func (f *FakeService) SetUploadResult(r service.UploadResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadResult = r
}

func (f *FakeService) newID() string {
	id := strconv.Itoa(f.nextID)
	f.nextID++
	return id
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
		return "", ErrBadCredentials
	}
	return "token-" + creds.Email, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) (string, error) {
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[reg.Email]; exists {
		return "", errors.New("email already registered")
	}
	f.users[reg.Email] = reg.Password
	f.profile.Name = reg.Name
	return "token-" + reg.Email, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListTasksCalls++
	f.mu.Unlock()

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastInput = in
	f.tasks = append(f.tasks, service.Task{
		ID:             f.newID(),
		Name:           strings.TrimSpace(in.Name),
		CreatedDate:    in.CreatedDate,
		CompletionDate: in.CompletionDate,
	})
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, taskID string, in service.TaskInput) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastInput = in
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].Name = in.Name
			f.tasks[i].CreatedDate = in.CreatedDate
			f.tasks[i].CompletionDate = in.CompletionDate
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, taskID string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks[i].Completed = true
			return nil
		}
	}
	return ErrNotFound
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.Profile, error) {
	if f.ProfileErr != nil {
		return service.Profile{}, f.ProfileErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile, nil
}

// UploadProfilePicture implements service.Service.
func (f *FakeService) UploadProfilePicture(ctx context.Context, filename string, data []byte) (service.UploadResult, error) {
	if f.UploadErr != nil {
		return service.UploadResult{}, f.UploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpload = filename
	if f.uploadResult.OK() {
		f.profile.ImageURL = f.uploadResult.ImageURL
	}
	return f.uploadResult, nil
}
