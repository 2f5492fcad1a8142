package model

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// Severity is the band label of a classified score
type Severity string

const (
	SeverityNone             Severity = "none"
	SeverityMinimal          Severity = "minimal"
	SeverityMild             Severity = "mild"
	SeverityModerate         Severity = "moderate"
	SeverityModeratelySevere Severity = "moderately_severe"
	SeveritySevere           Severity = "severe"
	SeverityUnknown          Severity = "unknown"
)

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is a known band. SeverityUnknown is valid
// but may not be used in a configured table.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityMinimal, SeverityMild, SeverityModerate,
		SeverityModeratelySevere, SeveritySevere, SeverityUnknown:
		return true
	default:
		return false
	}
}

// SeverityRange maps an inclusive score range to an interpretation
type SeverityRange struct {
	Min             int      `yaml:"min" json:"min"`
	Max             int      `yaml:"max" json:"max"`
	Severity        Severity `yaml:"severity" json:"severity"`
	Label           string   `yaml:"label" json:"label"`
	Description     string   `yaml:"description" json:"description"`
	Recommendations []string `yaml:"recommendations,omitempty" json:"recommendations,omitempty"`
}

// Validate validates a single range
func (r *SeverityRange) Validate() error {
	if r.Min < 0 {
		return goerr.New("range min must not be negative", goerr.V("min", r.Min))
	}
	if r.Max < r.Min {
		return goerr.New("range max must not be less than min",
			goerr.V("min", r.Min),
			goerr.V("max", r.Max))
	}
	if !r.Severity.IsValid() || r.Severity == SeverityUnknown {
		return goerr.New("invalid severity", goerr.V("severity", r.Severity))
	}
	if r.Label == "" {
		return goerr.New("range label is required",
			goerr.V("min", r.Min),
			goerr.V("max", r.Max))
	}
	return nil
}

// Contains reports whether score falls inside the range (both bounds inclusive)
func (r *SeverityRange) Contains(score int) bool {
	return r.Min <= score && score <= r.Max
}

// IsUnknown returns true for the fallback range
func (r *SeverityRange) IsUnknown() bool {
	return r.Severity == SeverityUnknown
}

// UnknownSeverityRange returns the range presented when a score cannot be
// classified
func UnknownSeverityRange() *SeverityRange {
	return &SeverityRange{
		Severity:    SeverityUnknown,
		Label:       "Unknown",
		Description: "There is not enough information to interpret this score. Consider talking to a counsellor about your answers.",
	}
}

// SeverityTable is the ordered list of ranges of one test type
type SeverityTable []SeverityRange

// Validate checks that the ranges are sorted, contiguous, non-overlapping and
// cover exactly [0, maxScore]
func (t SeverityTable) Validate(maxScore int) error {
	if len(t) == 0 {
		return goerr.New("at least one severity range is required")
	}

	for i := range t {
		if err := t[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid severity range at index", goerr.V("index", i))
		}
	}

	if t[0].Min != 0 {
		return goerr.New("first severity range must start at 0", goerr.V("min", t[0].Min))
	}
	for i := 1; i < len(t); i++ {
		if t[i].Min != t[i-1].Max+1 {
			return goerr.New("severity ranges must be contiguous and non-overlapping",
				goerr.V("index", i),
				goerr.V("previousMax", t[i-1].Max),
				goerr.V("min", t[i].Min))
		}
	}
	if last := t[len(t)-1]; last.Max != maxScore {
		return goerr.New("last severity range must end at the maximum score",
			goerr.V("max", last.Max),
			goerr.V("maxScore", maxScore))
	}

	return nil
}

// Find returns the range containing score. Ranges are sorted and disjoint, so
// a binary search on the upper bound finds the only candidate.
func (t SeverityTable) Find(score int) *SeverityRange {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].Max >= score
	})
	if i == len(t) || !t[i].Contains(score) {
		return nil
	}

	result := t[i]
	return &result
}

// FindWithFallback returns the range containing score or the unknown range
func (t SeverityTable) FindWithFallback(score int) *SeverityRange {
	if r := t.Find(score); r != nil {
		return r
	}
	return UnknownSeverityRange()
}
