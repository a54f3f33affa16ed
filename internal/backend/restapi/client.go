// Package restapi implements the service.Service interface over the task REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"taskdash/internal/config"
	"taskdash/internal/service"
)

const (
	// APITimeout is the timeout for API calls when none is configured.
	APITimeout = config.DefaultTimeout

	// RequestIDHeader carries a fresh id on every request.
	RequestIDHeader = "X-Request-ID"
)

// Fallback messages used when an error response carries no message.
const (
	msgLogin          = "Login failed"
	msgRegister       = "Registration failed"
	msgListTasks      = "Failed to fetch tasks"
	msgCreateTask     = "Failed to create task"
	msgUpdateTask     = "Failed to update task"
	msgDeleteTask     = "Failed to delete task"
	msgCompleteTask   = "Failed to mark task as complete"
	msgProfile        = "Failed to fetch profile info"
	msgUploadPicture  = "Failed to upload profile picture"
	maxErrorBodyBytes = 64 << 10
)

// Client implements service.Service using the task REST API.
type Client struct {
	baseURL *url.URL
	anon    *http.Client // login and register
	authed  *http.Client // every other call, bearer token attached
	timeout time.Duration
}

// New creates a client for cfg.APIURL. The session token is read from the
// config directory when a request is made, so New succeeds without one.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	return NewWithTokenSource(cfg.APIURL, cfg.TokenSource(), http.DefaultClient, cfg.Timeout)
}

// NewWithTokenSource creates a client with an explicit token source and base
// HTTP client (for testing). A zero timeout means APITimeout.
func NewWithTokenSource(baseURL string, ts oauth2.TokenSource, base *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}
	if base == nil {
		base = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = APITimeout
	}

	authed := &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   base.Transport,
		},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}

	return &Client{
		baseURL: u,
		anon:    base,
		authed:  authed,
		timeout: timeout,
	}, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (string, error) {
	req := loginRequest{Email: creds.Email, Password: creds.Password}
	var resp tokenResponse
	if err := c.doJSON(ctx, c.anon, http.MethodPost, "/login", req, &resp, msgLogin); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%s: no token in response", msgLogin)
	}
	return resp.Token, nil
}

// Register creates an account and returns its session token.
func (c *Client) Register(ctx context.Context, reg service.Registration) (string, error) {
	req := registerRequest{
		Name:                 reg.Name,
		Email:                reg.Email,
		Password:             reg.Password,
		PasswordConfirmation: reg.PasswordConfirmation,
	}
	var resp tokenResponse
	if err := c.doJSON(ctx, c.anon, http.MethodPost, "/register", req, &resp, msgRegister); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%s: no token in response", msgRegister)
	}
	return resp.Token, nil
}

// ListTasks returns every task of the user in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var resources []taskResource
	if err := c.doJSON(ctx, c.authed, http.MethodGet, "/tasks", nil, &resources, msgListTasks); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(resources))
	for _, r := range resources {
		task, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", msgListTasks, err)
		}
		result = append(result, task)
	}
	return result, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) error {
	return c.doJSON(ctx, c.authed, http.MethodPost, "/tasks", newTaskRequest(in), nil, msgCreateTask)
}

// UpdateTask replaces name and dates of a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, in service.TaskInput) error {
	return c.doJSON(ctx, c.authed, http.MethodPut, taskPath(taskID), newTaskRequest(in), nil, msgUpdateTask)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, c.authed, http.MethodDelete, taskPath(taskID), nil, nil, msgDeleteTask)
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, c.authed, http.MethodPatch, taskPath(taskID)+"/complete", nil, nil, msgCompleteTask)
}

// Profile returns the user's profile.
func (c *Client) Profile(ctx context.Context) (service.Profile, error) {
	var resp profileResponse
	if err := c.doJSON(ctx, c.authed, http.MethodGet, "/profile", nil, &resp, msgProfile); err != nil {
		return service.Profile{}, err
	}
	return service.Profile{Name: resp.Name, ImageURL: resp.Image}, nil
}

// UploadProfilePicture sends data as the multipart field "image".
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, data []byte) (service.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", http.DetectContentType(data))
	part, err := mw.CreatePart(header)
	if err != nil {
		return service.UploadResult{}, err
	}
	if _, err := part.Write(data); err != nil {
		return service.UploadResult{}, err
	}
	if err := mw.Close(); err != nil {
		return service.UploadResult{}, err
	}

	var resp uploadResponse
	err = c.do(ctx, c.authed, http.MethodPost, "/upload-profile-picture", &body, mw.FormDataContentType(), &resp, msgUploadPicture)
	if err != nil {
		return service.UploadResult{}, err
	}
	return service.UploadResult{
		Status:   resp.Status,
		Message:  resp.Message,
		ImageURL: resp.ImageURL,
	}, nil
}

// doJSON encodes in (if non-nil) as the JSON request body and decodes the
// response into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, in, out any, fallback string) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, hc, method, path, body, contentType, out, fallback)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body io.Reader, contentType string, out any, fallback string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	log := zerolog.Ctx(ctx).With().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		log.Debug().Err(err).Dur("duration", time.Since(start)).Msg("api request failed")
		return wrapError(err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: invalid response: %w", fallback, err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL.String(), "/") + path
}

func taskPath(taskID string) string {
	return "/tasks/" + url.PathEscape(taskID)
}
