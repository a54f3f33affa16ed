// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"taskdash/internal/service"
)

const (
	// SectionSeparator is the separator line around section titles.
	SectionSeparator = "------------"

	// DateLayout is used for every date shown or accepted by the CLI.
	DateLayout = "2006-01-02"

	// CompletedPrefix marks references into the completed tab.
	CompletedPrefix = "c"
)

// Format selects how structured results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s (want table, json or yaml)", s)
}

// TaskRef returns the reference shown for the num-th (1-based) task of a tab.
func TaskRef(num int, completed bool) string {
	ref := strconv.Itoa(num)
	if completed {
		ref = CompletedPrefix + ref
	}
	return ref
}

// FormatTaskHeader writes the task table header.
func FormatTaskHeader(w io.Writer) {
	fmt.Fprintf(w, "%5s  %-10s  %-10s  %s\n", "#", "CREATED", "COMPLETION", "NAME")
}

// FormatTask writes one task table row.
// Format: "{REF:>5}  {CREATED}  {COMPLETION:<10}  {NAME}\n"
func FormatTask(w io.Writer, ref string, task service.Task) {
	fmt.Fprintf(w, "%5s  %-10s  %-10s  %s\n",
		ref, FormatDate(task.CreatedDate), FormatDate(task.CompletionDate), normalizeName(task.Name))
}

// FormatTaskTable writes a header and one row per task of a single tab.
func FormatTaskTable(w io.Writer, tasks []service.Task, completed bool) {
	FormatTaskHeader(w)
	for i, task := range tasks {
		FormatTask(w, TaskRef(i+1, completed), task)
	}
}

// FormatSectionHeader formats a tab section header.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatDate renders a date for display; the zero time renders as "-".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// TaskView is the structured (json/yaml) shape of a task.
type TaskView struct {
	Ref            string `json:"ref" yaml:"ref"`
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	CreatedDate    string `json:"created_date" yaml:"created_date"`
	CompletionDate string `json:"completion_date,omitempty" yaml:"completion_date,omitempty"`
	Completed      bool   `json:"is_completed" yaml:"is_completed"`
}

// NewTaskViews converts tasks in API order, numbering each tab separately.
func NewTaskViews(tasks []service.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	current, completed := 0, 0
	for _, t := range tasks {
		var ref string
		if t.Completed {
			completed++
			ref = TaskRef(completed, true)
		} else {
			current++
			ref = TaskRef(current, false)
		}
		view := TaskView{
			Ref:         ref,
			ID:          t.ID,
			Name:        t.Name,
			CreatedDate: FormatDate(t.CreatedDate),
			Completed:   t.Completed,
		}
		if !t.CompletionDate.IsZero() {
			view.CompletionDate = FormatDate(t.CompletionDate)
		}
		views = append(views, view)
	}
	return views
}

// ProfileView is the structured shape of a profile.
type ProfileView struct {
	Name     string `json:"name" yaml:"name"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// WriteProfile writes a profile in the requested format.
func WriteProfile(w io.Writer, f Format, p service.Profile) error {
	if f == FormatTable {
		fmt.Fprintf(w, "Name:  %s\n", p.Name)
		image := p.ImageURL
		if image == "" {
			image = "(none)"
		}
		fmt.Fprintf(w, "Image: %s\n", image)
		return nil
	}
	return WriteStructured(w, f, ProfileView{Name: p.Name, ImageURL: p.ImageURL})
}

// WriteStructured encodes v as indented JSON or YAML.
func WriteStructured(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported structured format: %s", f)
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
