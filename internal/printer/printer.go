package printer

import "github.com/slok/appforge/internal/model"

// Printer knows how to print project information in different formats.
type Printer interface {
	PrintList(projects []model.Project) error
	PrintStatus(project model.Project) error
	PrintProgress(project model.Project) error
	PrintMessage(msg string) error
}

var (
	_ Printer = &TablePrinter{}
	_ Printer = &JSONPrinter{}
)
