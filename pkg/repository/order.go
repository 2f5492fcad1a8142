package repository

import (
	"sort"

	"github.com/mindhaven/mindhaven/pkg/domain/model"
)

// Backends that cannot order by the query itself sort in memory with these.

func newestResultsFirst(results []*model.AssessmentResult, limit int) []*model.AssessmentResult {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func newestMoodsFirst(entries []*model.MoodEntry, limit int) []*model.MoodEntry {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func oldestGoalsFirst(goals []*model.Goal) []*model.Goal {
	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals
}
