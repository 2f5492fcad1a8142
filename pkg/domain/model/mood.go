package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// Mood is a self-reported mood level
type Mood string

const (
	MoodAwful Mood = "awful"
	MoodLow   Mood = "low"
	MoodOkay  Mood = "okay"
	MoodGood  Mood = "good"
	MoodGreat Mood = "great"
)

// AllMoods lists moods from worst to best
var AllMoods = []Mood{MoodAwful, MoodLow, MoodOkay, MoodGood, MoodGreat}

// IsValid checks if the mood is valid
func (m Mood) IsValid() bool {
	return m.Score() > 0
}

// Score returns 1 (awful) to 5 (great), or 0 for an invalid mood
func (m Mood) Score() int {
	for i, mood := range AllMoods {
		if m == mood {
			return i + 1
		}
	}
	return 0
}

// String returns the string representation
func (m Mood) String() string {
	return string(m)
}

// MoodEntry is one mood check-in
type MoodEntry struct {
	ID         types.MoodEntryID `json:"id"`
	UserID     types.UserID      `json:"user_id"`
	Mood       Mood              `json:"mood"`
	Note       string            `json:"note,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// NewMoodEntry creates a new mood entry
func NewMoodEntry(userID types.UserID, mood Mood, note string, tags []string) (*MoodEntry, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(ErrTagInvalidArgument))
	}
	if !mood.IsValid() {
		return nil, goerr.New("invalid mood", goerr.V("mood", mood), goerr.T(ErrTagInvalidArgument))
	}

	var cleaned []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}

	return &MoodEntry{
		ID:         types.NewMoodEntryID(),
		UserID:     userID,
		Mood:       mood,
		Note:       strings.TrimSpace(note),
		Tags:       cleaned,
		RecordedAt: time.Now(),
	}, nil
}

// MoodSummary aggregates mood entries over a period
type MoodSummary struct {
	Since   time.Time    `json:"since"`
	Count   int          `json:"count"`
	Average float64      `json:"average"`
	Counts  map[Mood]int `json:"counts"`
}

// SummarizeMoods aggregates the entries recorded at or after since
func SummarizeMoods(entries []*MoodEntry, since time.Time) *MoodSummary {
	summary := &MoodSummary{
		Since:  since,
		Counts: make(map[Mood]int, len(AllMoods)),
	}
	for _, mood := range AllMoods {
		summary.Counts[mood] = 0
	}

	total := 0
	for _, entry := range entries {
		if entry.RecordedAt.Before(since) || !entry.Mood.IsValid() {
			continue
		}
		summary.Count++
		summary.Counts[entry.Mood]++
		total += entry.Mood.Score()
	}

	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary
}

// Clone returns a deep copy of the entry
func (e *MoodEntry) Clone() *MoodEntry {
	entry := *e
	entry.Tags = append([]string(nil), e.Tags...)
	return &entry
}
