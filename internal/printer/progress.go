package printer

import (
	"math"
	"strings"

	"github.com/slok/appforge/internal/model"
)

const progressBarWidth = 30

// ProgressBar renders a project progress as a fixed width bar, e.g. "[=========>          ]".
func ProgressBar(progress float64, width int) string {
	if width <= 0 {
		width = progressBarWidth
	}
	if math.IsNaN(progress) || progress < model.ProgressMin {
		progress = model.ProgressMin
	}
	if progress > model.ProgressMax {
		progress = model.ProgressMax
	}

	filled := int(progress / model.ProgressMax * float64(width))
	var sb strings.Builder
	sb.WriteByte('[')
	switch {
	case filled >= width:
		sb.WriteString(strings.Repeat("=", width))
	case filled > 0:
		sb.WriteString(strings.Repeat("=", filled-1))
		sb.WriteByte('>')
		sb.WriteString(strings.Repeat(" ", width-filled))
	default:
		sb.WriteString(strings.Repeat(" ", width))
	}
	sb.WriteByte(']')

	return sb.String()
}
