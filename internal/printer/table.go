package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/appforge/internal/model"
)

// TablePrinter prints project information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintList prints projects in a table format.
func (t *TablePrinter) PrintList(projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPROGRESS\tTYPE\tDEPLOYMENT\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Status,
			p.Progress,
			p.Type,
			p.Deployment,
			TimeAgo(p.CreatedAt),
		)
	}

	return nil
}

// PrintStatus prints detailed project status.
func (t *TablePrinter) PrintStatus(p model.Project) error {
	fmt.Fprintf(t.writer, "Name:         %s\n", p.Name)
	fmt.Fprintf(t.writer, "ID:           %s\n", p.ID)
	fmt.Fprintf(t.writer, "Description:  %s\n", p.Description)
	fmt.Fprintf(t.writer, "Status:       %s\n", p.Status)
	fmt.Fprintf(t.writer, "Progress:     %s %.0f%%\n", ProgressBar(p.Progress, 0), p.Progress)
	fmt.Fprintf(t.writer, "Type:         %s\n", p.Type)
	fmt.Fprintf(t.writer, "Framework:    %s\n", p.Framework)
	fmt.Fprintf(t.writer, "Deployment:   %s\n", p.Deployment)
	fmt.Fprintf(t.writer, "Created:      %s\n", FormatTimestamp(p.CreatedAt))

	return nil
}

// PrintProgress prints a single progress line of a project.
func (t *TablePrinter) PrintProgress(p model.Project) error {
	fmt.Fprintf(t.writer, "%s %s %3.0f%% %s\n", p.ID, ProgressBar(p.Progress, 0), p.Progress, p.Status)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
