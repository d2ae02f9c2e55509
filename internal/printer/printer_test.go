package printer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/printer"
)

func projectFixture() model.Project {
	return model.Project{
		ID:          "3",
		Name:        "Blog Platform",
		Description: "Personal blog platform with markdown support",
		Status:      model.ProjectStatusBuilding,
		Progress:    65,
		CreatedAt:   time.Date(2024, 12, 18, 11, 20, 0, 0, time.UTC),
		Type:        model.ProjectTypeWebsite,
		Framework:   "Next.js + Prisma",
		Deployment:  model.DeploymentStatusPending,
	}
}

func TestTablePrinterPrintList(t *testing.T) {
	tests := map[string]struct {
		projects []model.Project
		expLines int
	}{
		"Empty lists should print nothing": {},
		"Projects should be printed with a header": {
			projects: []model.Project{projectFixture(), projectFixture()},
			expLines: 3,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := printer.NewTablePrinter(&buf).PrintList(test.projects)
			require.NoError(t, err)

			out := strings.TrimSpace(buf.String())
			if test.expLines == 0 {
				assert.Empty(t, out)
				return
			}
			lines := strings.Split(out, "\n")
			assert.Len(t, lines, test.expLines)
			assert.True(t, strings.HasPrefix(lines[0], "ID"))
			assert.Contains(t, lines[1], "Blog Platform")
			assert.Contains(t, lines[1], "65%")
		})
	}
}

func TestTablePrinterPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	err := printer.NewTablePrinter(&buf).PrintStatus(projectFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Status:       building")
	assert.Contains(t, out, "Framework:    Next.js + Prisma")
	assert.Contains(t, out, "Created:      2024-12-18 11:20:00 UTC")
	assert.Contains(t, out, " 65%")
}

func TestJSONPrinterPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	err := printer.NewJSONPrinter(&buf).PrintStatus(projectFixture())
	require.NoError(t, err)

	got := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "3", got["id"])
	assert.Equal(t, "building", got["status"])
	assert.Equal(t, 65.0, got["progress"])
	assert.Equal(t, "pending", got["deployment"])
	assert.Equal(t, "2024-12-18T11:20:00Z", got["created_at"])
}

func TestJSONPrinterPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintProgress(projectFixture()))
	require.NoError(t, p.PrintProgress(projectFixture()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		`{"id":"3","status":"building","progress":65}`,
		`{"id":"3","status":"building","progress":65}`,
	}, lines)
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}

func TestProgressBar(t *testing.T) {
	tests := map[string]struct {
		progress float64
		width    int
		exp      string
	}{
		"Zero progress should be empty":       {progress: 0, width: 10, exp: "[          ]"},
		"Half progress should be half filled": {progress: 50, width: 10, exp: "[====>     ]"},
		"Full progress should be filled":      {progress: 100, width: 10, exp: "[==========]"},
		"Progress over the max is clamped":    {progress: 250, width: 4, exp: "[====]"},
		"Negative progress is clamped":        {progress: -3, width: 4, exp: "[    ]"},
		"Default width should be used":        {progress: 0, width: 0, exp: "[" + strings.Repeat(" ", 30) + "]"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, printer.ProgressBar(test.progress, test.width))
		})
	}
}
