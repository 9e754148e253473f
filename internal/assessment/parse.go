package assessment

import (
	"fmt"
	"strings"
)

// Parse error codes.
const (
	ErrCodeNoRecognizedContent = "NoRecognizedContent"
)

// ParseError reports model text that could not be reduced to a usable
// Assessment. The failure is semantic, not transport-level.
type ParseError struct {
	Code    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Code, e.Message)
}

// cellBreak is the line-break marker models emit inside table cells.
const cellBreak = "<br>"

// Parse reduces raw model text to an Assessment. The text is natural-language
// adjacent and only loosely guaranteed to be a well-formed markdown table, so
// row shape and pillar-name formatting are matched permissively: separator
// rows and prose are skipped, pillar names may carry extra markup, and a
// later row for a pillar replaces the earlier one. The six output buckets are
// strict; pillars with no matched row stay at their empty state.
func Parse(raw string) (Assessment, error) {
	out := New()
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "|") || isSeparatorRow(line) {
			continue
		}
		cells := splitRow(line)
		if len(cells) < 5 {
			continue
		}
		pillar, ok := matchPillar(cells[0])
		if !ok {
			continue
		}
		out.set(pillar, PillarAssessment{
			Strengths:       splitItems(cells[1]),
			Risks:           splitItems(cells[2]),
			RiskLevel:       cells[3],
			Recommendations: splitItems(cells[4]),
		})
	}
	if !out.HasContent() {
		return Assessment{}, &ParseError{
			Code:    ErrCodeNoRecognizedContent,
			Message: "no recognizable pillar rows in model output",
		}
	}
	return out, nil
}

// isSeparatorRow reports whether the line is a table rule such as
// "| --- | --- |".
func isSeparatorRow(line string) bool {
	rest := strings.Map(func(r rune) rune {
		switch r {
		case '|', '-', ':', ' ', '\t':
			return -1
		}
		return r
	}, line)
	return rest == ""
}

// splitRow splits a table row on its delimiter, trims every cell and drops
// the empty cells the leading and trailing delimiters produce.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cells = append(cells, trimmed)
		}
	}
	return cells
}

// matchPillar finds the first known pillar whose name appears inside the
// cell. Containment rather than equality tolerates stray markup around the
// name.
func matchPillar(cell string) (Pillar, bool) {
	for _, p := range Pillars {
		if strings.Contains(cell, string(p)) {
			return p, true
		}
	}
	return "", false
}

// splitItems breaks a cell into its bullet items on the in-cell line-break
// marker, stripping one leading bullet marker per item and dropping items
// that are empty after trimming. Order is preserved and duplicates are kept.
func splitItems(cell string) []string {
	parts := strings.Split(cell, cellBreak)
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		item = strings.TrimSpace(strings.TrimPrefix(item, "- "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
