package game

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a Session.
type State int

// Session states.
const (
	StateIdle State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// TokenID identifies a pepperoni for the lifetime of a session.
type TokenID string

// Achievement names a one-shot milestone.
type Achievement string

// Achievements unlock when the placed count hits an exact value.
const (
	AchievementFirst  Achievement = "first"
	AchievementTen    Achievement = "ten"
	AchievementTwenty Achievement = "twenty"
)

var achievementCounts = []struct {
	count       int
	achievement Achievement
}{
	{count: 1, achievement: AchievementFirst},
	{count: 10, achievement: AchievementTen},
	{count: 20, achievement: AchievementTwenty},
}

// LowTimeThreshold is the remaining time at or below which ticks report LowTime.
const LowTimeThreshold = 30

const trayBatch = 12

type polarSlot struct {
	angle    float64
	fraction float64
}

var autoCompleteSlots = []polarSlot{
	{angle: 0, fraction: 0.6},
	{angle: 60, fraction: 0.65},
	{angle: 120, fraction: 0.7},
	{angle: 180, fraction: 0.6},
	{angle: 240, fraction: 0.65},
	{angle: 300, fraction: 0.7},
}

// TimerToken identifies one armed tick stream. The zero token is never armed.
type TimerToken uint64

// Placement is a token placed on the target.
type Placement struct {
	ID     TokenID
	Point  Point
	Sector Sector
}

// Outcome reports the result of a start request.
type Outcome struct {
	OK     bool
	Reason Reason
	State  State
	Token  TimerToken
}

// TickResult reports the clock after one tick.
type TickResult struct {
	Remaining  int
	Expired    bool
	LowTime    bool
	FinalScore int
}

// PlacementResult reports a placement attempt.
type PlacementResult struct {
	Accepted     bool
	Reason       Reason
	TokenID      TokenID
	Sector       Sector
	Score        int
	Projected    int
	Achievements []Achievement
}

// RemovalResult reports a removal attempt.
type RemovalResult struct {
	Removed   bool
	Reason    Reason
	TokenID   TokenID
	Score     int
	Projected int
}

// DistributionResult reports a distribution check.
type DistributionResult struct {
	Balanced     bool
	Reason       Reason
	Counts       SectorCounts
	Total        int
	BalanceScore int
	Delta        int
	Score        int
}

// AutoCompleteResult reports the tokens placed by AutoComplete.
type AutoCompleteResult struct {
	Reason Reason
	Placed []TokenID
	Score  int
}

// RefillResult reports how many tokens were added to the tray.
type RefillResult struct {
	Added  int
	Reason Reason
}

// Session is one play-through. It is not safe for concurrent use.
type Session struct {
	profiles ProfileTable
	profile  Profile
	target   Target
	sink     Sink

	state     State
	remaining int
	score     int

	tray   []TokenID
	placed []Placement
	counts SectorCounts
	nextID int

	unlocked    []Achievement
	unlockedSet map[Achievement]struct{}

	timer    TimerToken
	timerSeq TimerToken
	lowTime  bool
	final    int
}

// NewSession builds an idle session for difficulty. A nil sink discards events.
func NewSession(profiles ProfileTable, difficulty string, target Target, sink Sink) (*Session, error) {
	profile, err := profiles.Lookup(difficulty)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = discardSink{}
	}
	s := &Session{
		profiles: profiles,
		profile:  profile,
		target:   target,
		sink:     sink,
	}
	s.reset()
	return s, nil
}

// Profile returns the active difficulty profile.
func (s *Session) Profile() Profile { return s.profile }

// Target returns the pizza geometry.
func (s *Session) Target() Target { return s.target }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Active reports whether placements are currently allowed.
func (s *Session) Active() bool { return s.state == StateActive && s.target.Valid() }

// Remaining returns the remaining time in seconds.
func (s *Session) Remaining() int { return s.remaining }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// TimerToken returns the currently armed timer token, or zero when no tick stream should run.
func (s *Session) TimerToken() TimerToken { return s.timer }

// Counts returns the per-sector counts of placed tokens.
func (s *Session) Counts() SectorCounts { return s.counts }

// PlacedCount returns the number of tokens on the target.
func (s *Session) PlacedCount() int { return len(s.placed) }

// Placements returns a copy of the placed tokens.
func (s *Session) Placements() []Placement {
	return append([]Placement(nil), s.placed...)
}

// Tray returns a copy of the token IDs waiting in the tray.
func (s *Session) Tray() []TokenID {
	return append([]TokenID(nil), s.tray...)
}

// Achievements returns unlocked achievements in unlock order.
func (s *Session) Achievements() []Achievement {
	return append([]Achievement(nil), s.unlocked...)
}

// BalanceScore returns the balance score of the current placements.
func (s *Session) BalanceScore() int {
	return BalanceScore(s.counts, len(s.placed))
}

// ProjectedScore returns the final tally if the session ended now.
func (s *Session) ProjectedScore() int {
	return FinalScore(s.score, s.counts, len(s.placed), s.remaining)
}

// FinalScore returns the final tally. After expiry it is the score computed at expiry.
func (s *Session) FinalScore() int {
	if s.state == StateEnded {
		return s.final
	}
	return s.ProjectedScore()
}

// SetDifficulty switches to another profile and resets the session.
func (s *Session) SetDifficulty(name string) error {
	profile, err := s.profiles.Lookup(name)
	if err != nil {
		return err
	}
	s.profile = profile
	s.ResetSession()
	return nil
}

// StartSession resets to difficulty when it differs from the active one, then starts.
func (s *Session) StartSession(difficulty string) (Outcome, error) {
	if normalizeName(difficulty) != s.profile.Name {
		if err := s.SetDifficulty(difficulty); err != nil {
			return Outcome{Reason: ReasonSessionNotActive, State: s.state}, err
		}
	}
	return s.Start(), nil
}

// Start moves an idle session to active and arms a new timer token. Starting an active session is a no-op.
func (s *Session) Start() Outcome {
	switch {
	case s.state == StateActive:
		return Outcome{OK: true, State: s.state, Token: s.timer}
	case s.state != StateIdle || !s.target.Valid():
		return Outcome{Reason: ReasonSessionNotActive, State: s.state}
	}
	s.state = StateActive
	s.remaining = s.profile.Duration
	s.lowTime = false
	s.timerSeq++
	s.timer = s.timerSeq
	s.sink.Notify(Event{Kind: EventStarted, Difficulty: s.profile.Name, Remaining: s.remaining})
	return Outcome{OK: true, State: s.state, Token: s.timer}
}

// Tick advances the clock by one second.
func (s *Session) Tick() TickResult {
	if s.state != StateActive {
		return TickResult{Remaining: s.remaining, FinalScore: s.final}
	}
	s.remaining--
	if s.remaining < 0 {
		s.remaining = 0
	}
	res := TickResult{Remaining: s.remaining, LowTime: s.remaining <= LowTimeThreshold}
	if res.LowTime && !s.lowTime && s.remaining > 0 {
		s.lowTime = true
		s.sink.Notify(Event{Kind: EventLowTime, Remaining: s.remaining})
	}
	if s.remaining == 0 {
		s.expire()
		res.Expired = true
		res.FinalScore = s.final
	}
	return res
}

// TickFor ticks only when token is the armed timer token. Stale tokens are ignored.
func (s *Session) TickFor(token TimerToken) (TickResult, bool) {
	if token == 0 || token != s.timer {
		return TickResult{Remaining: s.remaining}, false
	}
	return s.Tick(), true
}

func (s *Session) expire() {
	s.final = s.ProjectedScore()
	s.state = StateEnded
	s.timer = 0
	s.sink.Notify(Event{Kind: EventExpired, Difficulty: s.profile.Name, Counts: s.counts, Score: s.final, Count: len(s.placed)})
}

// AttemptPlacement places the next tray token at p.
func (s *Session) AttemptPlacement(p Point) PlacementResult {
	if !s.Active() {
		return s.rejectPlacement("", ReasonSessionNotActive)
	}
	if len(s.tray) == 0 {
		return s.rejectPlacement("", ReasonQuotaExceeded)
	}
	return s.place(0, p)
}

// PlaceToken places the tray token id at p.
func (s *Session) PlaceToken(id TokenID, p Point) PlacementResult {
	if !s.Active() {
		return s.rejectPlacement(id, ReasonSessionNotActive)
	}
	idx := s.trayIndex(id)
	if idx < 0 {
		return s.rejectPlacement(id, ReasonUnknownToken)
	}
	return s.place(idx, p)
}

func (s *Session) place(idx int, p Point) PlacementResult {
	id := s.tray[idx]
	if len(s.placed) >= s.profile.Quota {
		return s.rejectPlacement(id, ReasonQuotaExceeded)
	}
	if !s.target.Contains(p) {
		return s.rejectPlacement(id, ReasonInvalidPlacement)
	}
	s.tray = append(s.tray[:idx], s.tray[idx+1:]...)
	sector := ClassifySector(p, s.target.Center)
	s.placed = append(s.placed, Placement{ID: id, Point: p, Sector: sector})
	s.counts.add(sector, 1)
	s.sink.Notify(Event{Kind: EventPlaced, TokenID: id, Sector: sector, Counts: s.counts, Count: len(s.placed), Score: s.score})
	unlocked := s.checkAchievements()
	return PlacementResult{
		Accepted:     true,
		TokenID:      id,
		Sector:       sector,
		Score:        s.score,
		Projected:    s.ProjectedScore(),
		Achievements: unlocked,
	}
}

func (s *Session) rejectPlacement(id TokenID, reason Reason) PlacementResult {
	s.sink.Notify(Event{Kind: EventRejected, TokenID: id, Reason: reason})
	return PlacementResult{Reason: reason, TokenID: id, Score: s.score, Projected: s.ProjectedScore()}
}

func (s *Session) checkAchievements() []Achievement {
	var unlocked []Achievement
	count := len(s.placed)
	for _, entry := range achievementCounts {
		if entry.count != count {
			continue
		}
		if _, ok := s.unlockedSet[entry.achievement]; ok {
			continue
		}
		s.unlockedSet[entry.achievement] = struct{}{}
		s.unlocked = append(s.unlocked, entry.achievement)
		unlocked = append(unlocked, entry.achievement)
		s.sink.Notify(Event{Kind: EventAchievement, Achievement: entry.achievement, Count: count})
	}
	return unlocked
}

// RemovePlacement takes a placed token off the target and returns it to the tray.
func (s *Session) RemovePlacement(id TokenID) RemovalResult {
	if !s.Active() {
		return s.rejectRemoval(id, ReasonSessionNotActive)
	}
	idx := -1
	for i, p := range s.placed {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.rejectRemoval(id, ReasonUnknownToken)
	}
	removed := s.placed[idx]
	s.placed = append(s.placed[:idx], s.placed[idx+1:]...)
	s.counts.add(removed.Sector, -1)
	if len(s.tray)+len(s.placed) < s.profile.Quota {
		s.tray = append(s.tray, removed.ID)
	}
	s.sink.Notify(Event{Kind: EventRemoved, TokenID: id, Sector: removed.Sector, Counts: s.counts, Count: len(s.placed), Score: s.score})
	return RemovalResult{Removed: true, TokenID: id, Score: s.score, Projected: s.ProjectedScore()}
}

func (s *Session) rejectRemoval(id TokenID, reason Reason) RemovalResult {
	s.sink.Notify(Event{Kind: EventRejected, TokenID: id, Reason: reason})
	return RemovalResult{Reason: reason, TokenID: id, Score: s.score, Projected: s.ProjectedScore()}
}

// CheckDistribution awards a bonus for a balanced pizza or applies a penalty otherwise.
func (s *Session) CheckDistribution() DistributionResult {
	total := len(s.placed)
	res := DistributionResult{Counts: s.counts, Total: total, Score: s.score}
	if !s.Active() {
		res.Reason = ReasonSessionNotActive
		s.sink.Notify(Event{Kind: EventRejected, Reason: res.Reason})
		return res
	}
	if total == 0 {
		res.Reason = ReasonNothingPlaced
		s.sink.Notify(Event{Kind: EventRejected, Reason: res.Reason})
		return res
	}
	res.BalanceScore = BalanceScore(s.counts, total)
	if IsBalanced(s.counts, total, s.profile.Tolerance) {
		res.Balanced = true
		res.Delta = DistributionBonus(res.BalanceScore, s.remaining)
		s.score += res.Delta
		res.Score = s.score
		s.sink.Notify(Event{Kind: EventBalanced, Counts: s.counts, Delta: res.Delta, Score: s.score})
		return res
	}
	next := clampScore(s.score - UnbalancedPenalty(res.BalanceScore))
	res.Delta = next - s.score
	s.score = next
	res.Score = s.score
	s.sink.Notify(Event{Kind: EventUnbalanced, Counts: s.counts, Delta: res.Delta, Score: s.score})
	return res
}

// AutoComplete places up to six tray tokens at fixed, evenly spread slots.
func (s *Session) AutoComplete() AutoCompleteResult {
	if !s.Active() {
		s.sink.Notify(Event{Kind: EventRejected, Reason: ReasonSessionNotActive})
		return AutoCompleteResult{Reason: ReasonSessionNotActive, Score: s.score}
	}
	var placed []TokenID
	for _, slot := range autoCompleteSlots {
		if len(s.tray) == 0 {
			break
		}
		p := PolarPoint(s.target.Center, slot.angle, slot.fraction*s.target.Radius)
		res := s.place(0, p)
		if !res.Accepted {
			continue
		}
		placed = append(placed, res.TokenID)
	}
	s.sink.Notify(Event{Kind: EventAutoCompleted, Count: len(placed), Counts: s.counts, Score: s.score})
	return AutoCompleteResult{Placed: placed, Score: s.score}
}

// RefillTray tops up the tray by at most twelve tokens without exceeding the quota.
func (s *Session) RefillTray() RefillResult {
	room := s.profile.Quota - len(s.placed) - len(s.tray)
	if room <= 0 {
		s.sink.Notify(Event{Kind: EventRejected, Reason: ReasonQuotaExceeded})
		return RefillResult{Reason: ReasonQuotaExceeded}
	}
	added := min(room, trayBatch)
	for i := 0; i < added; i++ {
		s.tray = append(s.tray, s.newTokenID())
	}
	s.sink.Notify(Event{Kind: EventTrayRefilled, Count: added})
	return RefillResult{Added: added}
}

// ResetSession returns to idle, clears all state and re-arms the clock without starting it.
func (s *Session) ResetSession() {
	s.reset()
	s.sink.Notify(Event{Kind: EventReset, Difficulty: s.profile.Name, Remaining: s.remaining})
}

// Reset is an alias for ResetSession.
func (s *Session) Reset() {
	s.ResetSession()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.timer = 0
	s.remaining = s.profile.Duration
	s.score = 0
	s.final = 0
	s.lowTime = false
	s.placed = nil
	s.counts = SectorCounts{}
	s.unlocked = nil
	s.unlockedSet = map[Achievement]struct{}{}
	s.nextID = 0
	s.tray = make([]TokenID, 0, s.profile.Quota)
	for i := 0; i < s.profile.Quota; i++ {
		s.tray = append(s.tray, s.newTokenID())
	}
}

func (s *Session) newTokenID() TokenID {
	id := TokenID(fmt.Sprintf("pepperoni-%d", s.nextID))
	s.nextID++
	return id
}

func (s *Session) trayIndex(id TokenID) int {
	for i, t := range s.tray {
		if t == id {
			return i
		}
	}
	return -1
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseAchievement returns the achievement named s.
func ParseAchievement(s string) (Achievement, bool) {
	a := Achievement(strings.ToLower(strings.TrimSpace(s)))
	for _, entry := range achievementCounts {
		if entry.achievement == a {
			return a, true
		}
	}
	return "", false
}
