package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"taskdash/internal/service"
)

// isoLayout matches the millisecond UTC timestamps browsers send.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Layouts accepted for dates read from the API.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type taskRequest struct {
	Name           string `json:"name"`
	CreatedDate    string `json:"created_date"`
	CompletionDate string `json:"completion_date"`
}

func newTaskRequest(in service.TaskInput) taskRequest {
	return taskRequest{
		Name:           in.Name,
		CreatedDate:    in.CreatedDate.UTC().Format(isoLayout),
		CompletionDate: in.CompletionDate.UTC().Format(isoLayout),
	}
}

type taskResource struct {
	ID             json.RawMessage `json:"id"`
	Name           string          `json:"name"`
	CreatedDate    string          `json:"created_date"`
	CompletionDate *string         `json:"completion_date"`
	IsCompleted    json.RawMessage `json:"is_completed"`
}

func (r taskResource) toTask() (service.Task, error) {
	id, err := decodeID(r.ID)
	if err != nil {
		return service.Task{}, err
	}
	created, err := parseDate(r.CreatedDate)
	if err != nil {
		return service.Task{}, fmt.Errorf("task %s: created_date: %w", id, err)
	}
	var completion time.Time
	if r.CompletionDate != nil {
		completion, err = parseDate(*r.CompletionDate)
		if err != nil {
			return service.Task{}, fmt.Errorf("task %s: completion_date: %w", id, err)
		}
	}
	completed, err := decodeBool(r.IsCompleted)
	if err != nil {
		return service.Task{}, fmt.Errorf("task %s: is_completed: %w", id, err)
	}
	return service.Task{
		ID:             id,
		Name:           r.Name,
		CreatedDate:    created,
		CompletionDate: completion,
		Completed:      completed,
	}, nil
}

type profileResponse struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type uploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

// decodeID accepts numeric and string ids.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("task without id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid task id %s: %w", raw, err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid task id %s: %w", raw, err)
	}
	return n.String(), nil
}

// decodeBool accepts JSON booleans as well as 0/1 numbers and strings.
func decodeBool(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return false, err
		}
	} else {
		s = string(raw)
	}
	return strconv.ParseBool(s)
}

// parseDate parses an API date into local time. Dates without a zone are
// local dates. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Local(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
