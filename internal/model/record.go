package model

import (
	"time"

	"github.com/verte-zerg/pepperoni/internal/game"
)

// NewSessionRecord snapshots a session for the history store.
func NewSessionRecord(s *game.Session, startedAt, endedAt time.Time) SessionRecord {
	profile := s.Profile()
	counts := s.Counts()
	achievements := s.Achievements()
	names := make([]string, len(achievements))
	for i, a := range achievements {
		names[i] = string(a)
	}
	return SessionRecord{
		StartedAt:    startedAt,
		EndedAt:      endedAt,
		Difficulty:   profile.Name,
		Quota:        profile.Quota,
		Duration:     profile.Duration,
		FinalScore:   s.FinalScore(),
		RunningScore: s.Score(),
		Placed:       s.PlacedCount(),
		Sector1:      counts.Get(game.Sector1),
		Sector2:      counts.Get(game.Sector2),
		Sector3:      counts.Get(game.Sector3),
		Balance:      s.BalanceScore(),
		Achievements: names,
	}
}
