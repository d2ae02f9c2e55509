package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/appforge/internal/model"
)

// JSONPrinter prints project information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// listItem represents a project in the list output (subset of fields).
type listItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Progress  float64   `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

type statusOutput struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Progress    float64   `json:"progress"`
	Type        string    `json:"type"`
	Framework   string    `json:"framework"`
	Deployment  string    `json:"deployment"`
	CreatedAt   time.Time `json:"created_at"`
}

type progressOutput struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintList prints projects in JSON format with a subset of fields.
func (j *JSONPrinter) PrintList(projects []model.Project) error {
	items := make([]listItem, len(projects))
	for i, p := range projects {
		items[i] = listItem{
			ID:        p.ID,
			Name:      p.Name,
			Status:    string(p.Status),
			Progress:  p.Progress,
			CreatedAt: p.CreatedAt.UTC(),
		}
	}

	return j.encode(items)
}

// PrintStatus prints the full project in JSON format.
func (j *JSONPrinter) PrintStatus(p model.Project) error {
	return j.encode(statusOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Progress:    p.Progress,
		Type:        string(p.Type),
		Framework:   p.Framework,
		Deployment:  string(p.Deployment),
		CreatedAt:   p.CreatedAt.UTC(),
	})
}

// PrintProgress prints a project progress as a single JSON line.
func (j *JSONPrinter) PrintProgress(p model.Project) error {
	return json.NewEncoder(j.writer).Encode(progressOutput{
		ID:       p.ID,
		Status:   string(p.Status),
		Progress: p.Progress,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
