package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableConfig describes a table to render.
type TableConfig struct {
	Title   string
	Headers []string
	Rows    [][]string
}

const columnGap = "  "

// RenderTable renders cfg as left-aligned columns separated by two spaces,
// with a dashed rule under the header row. Widths are measured in terminal
// cells. Trailing whitespace is trimmed from every line.
func RenderTable(cfg TableConfig, color bool) string {
	if len(cfg.Headers) == 0 && len(cfg.Rows) == 0 {
		return ""
	}

	columns := len(cfg.Headers)
	for _, row := range cfg.Rows {
		columns = max(columns, len(row))
	}
	widths := make([]int, columns)
	measure := func(cells []string) {
		for i, cell := range cells {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	measure(cfg.Headers)
	for _, row := range cfg.Rows {
		measure(row)
	}

	var b strings.Builder
	if cfg.Title != "" {
		b.WriteString(styled(titleStyle, cfg.Title, color))
		b.WriteString("\n\n")
	}
	if len(cfg.Headers) > 0 {
		writeRow(&b, cfg.Headers, widths, headerStyle, color)
		rule := make([]string, columns)
		for i, w := range widths {
			rule[i] = strings.Repeat("-", w)
		}
		writeRow(&b, rule, widths, lipgloss.Style{}, false)
	}
	for _, row := range cfg.Rows {
		writeRow(&b, row, widths, lipgloss.Style{}, false)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, widths []int, style lipgloss.Style, color bool) {
	var line strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			line.WriteString(columnGap)
		}
		line.WriteString(styled(style, cell, color))
		line.WriteString(strings.Repeat(" ", w-lipgloss.Width(cell)))
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}
