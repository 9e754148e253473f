package assessment

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Pillar is one of the six fixed Well-Architected evaluation categories.
// The set is closed; no pillar is ever added or removed at runtime.
type Pillar string

const (
	OperationalExcellence Pillar = "Operational Excellence"
	Security              Pillar = "Security"
	Reliability           Pillar = "Reliability"
	PerformanceEfficiency Pillar = "Performance Efficiency"
	CostOptimization      Pillar = "Cost Optimization"
	Sustainability        Pillar = "Sustainability"
)

// Pillars lists the six pillars in canonical order. Matching, iteration and
// serialization all follow this order.
var Pillars = []Pillar{
	OperationalExcellence,
	Security,
	Reliability,
	PerformanceEfficiency,
	CostOptimization,
	Sustainability,
}

// RiskLevel classifies a pillar's risk.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "High"
	RiskMedium  RiskLevel = "Medium"
	RiskLow     RiskLevel = "Low"
	RiskUnknown RiskLevel = "Unknown"
)

// ClassifyRisk maps a raw risk-level cell to a RiskLevel. Comparison is
// case-insensitive; anything unrecognized is Unknown.
func ClassifyRisk(raw string) RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "HIGH":
		return RiskHigh
	case "MEDIUM":
		return RiskMedium
	case "LOW":
		return RiskLow
	default:
		return RiskUnknown
	}
}

// PillarAssessment holds the extracted fields for a single pillar. RiskLevel
// keeps the verbatim cell text so it stays displayable even when it does not
// classify cleanly; Risk classifies it on demand.
type PillarAssessment struct {
	Strengths       []string `json:"strengths"`
	Risks           []string `json:"risks"`
	RiskLevel       string   `json:"riskLevel"`
	Recommendations []string `json:"recommendations"`
}

// Risk classifies the raw risk-level text.
func (p PillarAssessment) Risk() RiskLevel {
	return ClassifyRisk(p.RiskLevel)
}

// IsEmpty reports whether no field was populated from the source text.
func (p PillarAssessment) IsEmpty() bool {
	return len(p.Strengths) == 0 &&
		len(p.Risks) == 0 &&
		strings.TrimSpace(p.RiskLevel) == "" &&
		len(p.Recommendations) == 0
}

// Assessment maps every pillar to its assessment. Exactly the six known
// pillars are present, never more, never fewer; unpopulated pillars hold
// empty slices and an empty risk level. An Assessment is read-only once
// returned from Parse.
type Assessment struct {
	pillars map[Pillar]PillarAssessment
}

// New returns an Assessment with all six pillars at their empty state.
func New() Assessment {
	pillars := make(map[Pillar]PillarAssessment, len(Pillars))
	for _, p := range Pillars {
		pillars[p] = emptyPillarAssessment()
	}
	return Assessment{pillars: pillars}
}

func emptyPillarAssessment() PillarAssessment {
	return PillarAssessment{
		Strengths:       []string{},
		Risks:           []string{},
		Recommendations: []string{},
	}
}

// Get returns the assessment for the given pillar.
func (a Assessment) Get(p Pillar) PillarAssessment {
	if a.pillars == nil {
		return emptyPillarAssessment()
	}
	return a.pillars[p]
}

func (a Assessment) set(p Pillar, pa PillarAssessment) {
	a.pillars[p] = pa
}

// HasContent reports whether at least one pillar has a populated field.
func (a Assessment) HasContent() bool {
	for _, p := range Pillars {
		if !a.Get(p).IsEmpty() {
			return true
		}
	}
	return false
}

// MarshalJSON serializes all six pillars, empty ones included, in canonical
// pillar order.
func (a Assessment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range Pillars {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(p))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(a.Get(p))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON rebuilds the closed six-pillar map. Unknown keys are ignored
// and missing pillars stay at their empty state.
func (a *Assessment) UnmarshalJSON(data []byte) error {
	var raw map[Pillar]PillarAssessment
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = New()
	for _, p := range Pillars {
		pa, ok := raw[p]
		if !ok {
			continue
		}
		if pa.Strengths == nil {
			pa.Strengths = []string{}
		}
		if pa.Risks == nil {
			pa.Risks = []string{}
		}
		if pa.Recommendations == nil {
			pa.Recommendations = []string{}
		}
		a.pillars[p] = pa
	}
	return nil
}
