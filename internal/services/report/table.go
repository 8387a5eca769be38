// Package report turns forecast records into bordered, left-aligned text tables.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cellPadding is the blank space on each side of a cell's content.
const cellPadding = 1

// widthCond measures text the way a monospace face draws it: ambiguous-width
// runes such as Cyrillic take one cell whatever the process locale says.
var widthCond = newWidthCondition()

func newWidthCondition() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return cond
}

// ColumnWidths returns the display width of each column: the widest line of
// any cell in that column. Rows may be ragged; missing cells count as empty.
func ColumnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for col, cell := range row {
			if col >= len(widths) {
				widths = append(widths, 0)
			}
			for _, line := range strings.Split(cell, "\n") {
				if w := widthCond.StringWidth(line); w > widths[col] {
					widths[col] = w
				}
			}
		}
	}
	return widths
}

// SegmentWidths returns the rendered width of each column between two
// vertical borders: the content width plus padding on both sides.
func SegmentWidths(widths []int) []int {
	segments := make([]int, len(widths))
	for i, w := range widths {
		segments[i] = w + 2*cellPadding
	}
	return segments
}

// Separator builds a row of dash rules, one per column, as wide as the given segments.
func Separator(segments []int) []string {
	row := make([]string, len(segments))
	for i, w := range segments {
		row[i] = strings.Repeat("-", w)
	}
	return row
}

// Render draws rows as a framed table using the given column widths.
// Multi-line cells stretch their row; shorter cells are padded with blank lines.
func Render(rows [][]string, widths []int) string {
	var b strings.Builder

	border := borderLine(widths)
	b.WriteString(border)

	for _, row := range rows {
		cells := make([][]string, len(widths))
		height := 1
		for col := range widths {
			if col < len(row) {
				cells[col] = strings.Split(row[col], "\n")
			}
			height = max(height, len(cells[col]))
		}

		for i := 0; i < height; i++ {
			b.WriteByte('\n')
			b.WriteByte('|')
			for col, w := range widths {
				line := ""
				if i < len(cells[col]) {
					line = cells[col][i]
				}
				b.WriteString(strings.Repeat(" ", cellPadding))
				b.WriteString(widthCond.FillRight(line, w))
				b.WriteString(strings.Repeat(" ", cellPadding))
				b.WriteByte('|')
			}
		}
	}

	b.WriteByte('\n')
	b.WriteString(border)

	return b.String()
}

func borderLine(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range SegmentWidths(widths) {
		b.WriteString(strings.Repeat("-", w))
		b.WriteByte('+')
	}
	return b.String()
}
