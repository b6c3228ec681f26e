// File: pkg/formatter/table.go
package formatter

import (
	"strings"
	"unicode/utf8"
)

type Table struct {
	Headers      []string
	Rows         [][]string
	columnWidths []int
}

// Creates a new table with the given headers
func NewTable(headers []string) *Table {
	t := &Table{
		Headers: headers,
		Rows:    [][]string{},
	}
	t.calculateColumnWidths()
	return t
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
	t.calculateColumnWidths()
}

func (t *Table) calculateColumnWidths() {
	// Initialize column widths from headers
	t.columnWidths = make([]int, len(t.Headers))
	for i, h := range t.Headers {
		t.columnWidths[i] = utf8.RuneCountInString(h)
	}

	// Update column widths from rows
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); i < len(t.columnWidths) && w > t.columnWidths[i] {
				t.columnWidths[i] = w
			}
		}
	}
}

// Returns the string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	t.calculateColumnWidths()

	var sb strings.Builder

	// Build the top border
	t.writeBorder(&sb)
	sb.WriteString("\n")

	// Write headers
	sb.WriteString("| ")
	for i, h := range t.Headers {
		t.writeCell(&sb, h, i)
	}
	sb.WriteString("\n")

	// Build the header-row separator
	t.writeBorder(&sb)
	sb.WriteString("\n")

	// Write rows
	for _, row := range t.Rows {
		sb.WriteString("| ")
		for i, cell := range row {
			if i < len(t.columnWidths) {
				t.writeCell(&sb, cell, i)
			}
		}
		sb.WriteString("\n")
	}

	// Build the bottom border
	t.writeBorder(&sb)

	return sb.String()
}

// Pads the cell to its column width (cells are measured in runes, not bytes)
func (t *Table) writeCell(sb *strings.Builder, cell string, col int) {
	sb.WriteString(cell)
	sb.WriteString(strings.Repeat(" ", t.columnWidths[col]-utf8.RuneCountInString(cell)))
	sb.WriteString(" | ")
}

// writeBorder writes a horizontal border to the string builder
func (t *Table) writeBorder(sb *strings.Builder) {
	sb.WriteString("+")
	for _, width := range t.columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
}

// Formats a simple section title
func FormatSectionTitle(title string) string {
	return "-- " + title + " --"
}
