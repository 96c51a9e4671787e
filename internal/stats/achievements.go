package stats

import (
	"sort"

	"github.com/verte-zerg/pepperoni/internal/model"
)

// AchievementCount is how many sessions unlocked an achievement.
type AchievementCount struct {
	Name     string
	Sessions int
}

// CountAchievements tallies achievements across sessions, most frequent first.
func CountAchievements(sessions []model.SessionAggregate) []AchievementCount {
	counts := map[string]int{}
	for _, s := range sessions {
		for _, a := range s.Achievements {
			counts[a]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	out := make([]AchievementCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, AchievementCount{Name: name, Sessions: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sessions == out[j].Sessions {
			return out[i].Name < out[j].Name
		}
		return out[i].Sessions > out[j].Sessions
	})
	return out
}
