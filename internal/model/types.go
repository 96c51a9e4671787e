// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Difficulty string
	Mouse      bool
	Record     bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Difficulty  string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a finished game.
type SessionRecord struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Difficulty   string
	Quota        int
	Duration     int
	FinalScore   int
	RunningScore int
	Placed       int
	Sector1      int
	Sector2      int
	Sector3      int
	Balance      int
	Achievements []string
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID    int64
	EndedAt      time.Time
	Difficulty   string
	FinalScore   int
	Placed       int
	Quota        int
	Balance      int
	Achievements []string
}

// DifficultyAggregate aggregates sessions per difficulty.
type DifficultyAggregate struct {
	Difficulty string
	Sessions   int
	BestScore  int
	ScoreSum   int
	BalanceSum int
	PlacedSum  int
}
