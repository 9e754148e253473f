package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HighPriorityItem pairs a recommendation with the pillar it belongs to.
// Items are derived on demand from an Assessment and never stored.
type HighPriorityItem struct {
	Pillar         Pillar `json:"pillar"`
	Recommendation string `json:"recommendation"`
}

// HighPriorityItems returns every recommendation of every pillar whose risk
// level classifies as High, in canonical pillar order.
func (a Assessment) HighPriorityItems() []HighPriorityItem {
	items := make([]HighPriorityItem, 0)
	for _, p := range Pillars {
		pa := a.Get(p)
		if pa.Risk() != RiskHigh {
			continue
		}
		for _, rec := range pa.Recommendations {
			items = append(items, HighPriorityItem{Pillar: p, Recommendation: rec})
		}
	}
	return items
}

// ExportJSON renders the full assessment, all six pillars included, as
// indented JSON in canonical pillar order.
func (a Assessment) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

const (
	reportTitle        = "AWS Well-Architected Framework Analysis Report"
	noHighPriorityLine = "No high-priority items identified."
)

// TextReport renders a deterministic plain-text report. Pillars without any
// populated field are omitted; a High Priority Items section always trails.
func (a Assessment) TextReport() string {
	var b strings.Builder
	b.WriteString(reportTitle + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	for _, p := range Pillars {
		pa := a.Get(p)
		if pa.IsEmpty() {
			continue
		}
		b.WriteString("\n" + string(p) + "\n")
		b.WriteString(strings.Repeat("-", len(p)) + "\n")
		b.WriteString("Strengths:\n")
		writeItems(&b, pa.Strengths)
		b.WriteString("Risks:\n")
		writeItems(&b, pa.Risks)
		fmt.Fprintf(&b, "Risk Level: %s\n", pa.RiskLevel)
		b.WriteString("Recommendations:\n")
		writeItems(&b, pa.Recommendations)
	}

	b.WriteString("\nHigh Priority Items\n")
	b.WriteString(strings.Repeat("=", 20) + "\n")
	items := a.HighPriorityItems()
	if len(items) == 0 {
		b.WriteString(noHighPriorityLine + "\n")
		return b.String()
	}
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s\n", item.Pillar, item.Recommendation)
	}
	return b.String()
}

func writeItems(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}
