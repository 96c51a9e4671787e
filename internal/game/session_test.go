package game

import (
	"errors"
	"testing"
)

func newTestSession(t *testing.T, difficulty string) (*Session, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	s, err := NewSession(DefaultProfileTable(), difficulty, DefaultTarget(), rec)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, rec
}

// pointIn returns a valid point in sector s at a distance that varies with i.
func pointIn(s Sector, i int) Point {
	angle := float64(s-1)*120 + 20 + float64(i%8)*10
	return PolarPoint(DefaultTarget().Center, angle, 100+float64(i%5)*10)
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewSessionUnknownDifficulty(t *testing.T) {
	_, err := NewSession(DefaultProfileTable(), "impossible", DefaultTarget(), nil)
	if !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestNewSessionStartsIdleWithFullTray(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %v", s.State())
	}
	if len(s.Tray()) != 15 {
		t.Fatalf("expected 15 tray tokens, got %d", len(s.Tray()))
	}
	if s.Remaining() != 300 {
		t.Fatalf("expected 300s remaining, got %d", s.Remaining())
	}
	if s.Tray()[0] != "pepperoni-0" || s.Tray()[14] != "pepperoni-14" {
		t.Fatalf("unexpected token ids: %v", s.Tray())
	}
}

func TestPlacementRejectedWhenIdle(t *testing.T) {
	s, rec := newTestSession(t, DifficultyEasy)
	res := s.AttemptPlacement(pointIn(Sector1, 0))
	if res.Accepted || res.Reason != ReasonSessionNotActive {
		t.Fatalf("expected session-not-active rejection, got %+v", res)
	}
	if !errors.Is(res.Reason.Err(), ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive")
	}
	if countEvents(rec.Events(), EventRejected) != 1 {
		t.Fatalf("expected one rejected event")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	s, rec := newTestSession(t, DifficultyEasy)
	first := s.Start()
	if !first.OK || first.Token == 0 {
		t.Fatalf("expected start to arm a token, got %+v", first)
	}
	s.Tick()
	second := s.Start()
	if !second.OK || second.Token != first.Token {
		t.Fatalf("expected second start to be a no-op, got %+v", second)
	}
	if s.Remaining() != 299 {
		t.Fatalf("expected second start to keep the clock, got %d", s.Remaining())
	}
	if countEvents(rec.Events(), EventStarted) != 1 {
		t.Fatalf("expected exactly one started event")
	}
}

func TestPlacementValidAndInvalid(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()

	res := s.AttemptPlacement(s.Target().Center)
	if res.Accepted || res.Reason != ReasonInvalidPlacement {
		t.Fatalf("expected invalid placement at center, got %+v", res)
	}
	if len(s.Tray()) != 15 {
		t.Fatalf("rejected placement must not consume a token")
	}

	res = s.AttemptPlacement(pointIn(Sector2, 0))
	if !res.Accepted || res.Sector != Sector2 || res.TokenID != "pepperoni-0" {
		t.Fatalf("unexpected placement result: %+v", res)
	}
	if s.PlacedCount() != 1 || s.Counts().Get(Sector2) != 1 || len(s.Tray()) != 14 {
		t.Fatalf("unexpected state after placement")
	}
	if len(res.Achievements) != 1 || res.Achievements[0] != AchievementFirst {
		t.Fatalf("expected first achievement, got %v", res.Achievements)
	}
}

func TestPlaceTokenUnknown(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	res := s.PlaceToken("pepperoni-99", pointIn(Sector1, 0))
	if res.Accepted || res.Reason != ReasonUnknownToken {
		t.Fatalf("expected unknown token, got %+v", res)
	}
	res = s.PlaceToken("pepperoni-3", pointIn(Sector1, 0))
	if !res.Accepted || res.TokenID != "pepperoni-3" {
		t.Fatalf("expected pepperoni-3 to be placed, got %+v", res)
	}
}

func TestQuotaExceededWhenTrayEmpty(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	for i := 0; i < 15; i++ {
		if res := s.AttemptPlacement(pointIn(Sectors[i%3], i)); !res.Accepted {
			t.Fatalf("placement %d rejected: %+v", i, res)
		}
	}
	res := s.AttemptPlacement(pointIn(Sector1, 0))
	if res.Accepted || res.Reason != ReasonQuotaExceeded {
		t.Fatalf("expected quota exceeded, got %+v", res)
	}
	if s.PlacedCount() != s.Profile().Quota {
		t.Fatalf("expected placed count at quota")
	}
	if refill := s.RefillTray(); refill.Reason != ReasonQuotaExceeded {
		t.Fatalf("expected refill to report quota exceeded, got %+v", refill)
	}
}

func TestSectorCountsTrackPlacements(t *testing.T) {
	s, _ := newTestSession(t, DifficultyMedium)
	s.Start()
	var ids []TokenID
	for i := 0; i < 9; i++ {
		res := s.AttemptPlacement(pointIn(Sectors[i%3], i))
		ids = append(ids, res.TokenID)
	}
	s.RemovePlacement(ids[0])
	s.RemovePlacement(ids[4])
	counts := s.Counts()
	if counts.Total() != s.PlacedCount() {
		t.Fatalf("sector counts %v do not sum to %d", counts, s.PlacedCount())
	}
	if counts != (SectorCounts{2, 2, 3}) {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestRemovePlacementReturnsTokenToTray(t *testing.T) {
	s, rec := newTestSession(t, DifficultyEasy)
	s.Start()
	placed := s.AttemptPlacement(pointIn(Sector1, 0))
	res := s.RemovePlacement(placed.TokenID)
	if !res.Removed {
		t.Fatalf("expected removal, got %+v", res)
	}
	tray := s.Tray()
	if len(tray) != 15 || tray[len(tray)-1] != placed.TokenID {
		t.Fatalf("expected token back in tray, got %v", tray)
	}
	if res := s.RemovePlacement(placed.TokenID); res.Removed || res.Reason != ReasonUnknownToken {
		t.Fatalf("expected unknown token on second removal, got %+v", res)
	}
	if countEvents(rec.Events(), EventRemoved) != 1 {
		t.Fatalf("expected one removed event")
	}
}

func TestFirstAchievementUnlocksOnce(t *testing.T) {
	s, rec := newTestSession(t, DifficultyEasy)
	s.Start()
	for i := 0; i < 3; i++ {
		res := s.AttemptPlacement(pointIn(Sector1, i))
		if !res.Accepted {
			t.Fatalf("placement rejected: %+v", res)
		}
		if i > 0 && len(res.Achievements) != 0 {
			t.Fatalf("achievement unlocked again: %v", res.Achievements)
		}
		s.RemovePlacement(res.TokenID)
	}
	if got := s.Achievements(); len(got) != 1 || got[0] != AchievementFirst {
		t.Fatalf("unexpected achievements %v", got)
	}
	if countEvents(rec.Events(), EventAchievement) != 1 {
		t.Fatalf("expected exactly one achievement event")
	}
}

func TestAchievementsAtExactCounts(t *testing.T) {
	s, _ := newTestSession(t, DifficultyHard)
	s.Start()
	for i := 0; i < 21; i++ {
		res := s.AttemptPlacement(pointIn(Sectors[i%3], i))
		switch s.PlacedCount() {
		case 1, 10, 20:
			if len(res.Achievements) != 1 {
				t.Fatalf("expected achievement at %d", s.PlacedCount())
			}
		default:
			if len(res.Achievements) != 0 {
				t.Fatalf("unexpected achievement at %d", s.PlacedCount())
			}
		}
	}
	want := []Achievement{AchievementFirst, AchievementTen, AchievementTwenty}
	got := s.Achievements()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCheckDistributionBalanced(t *testing.T) {
	s, rec := newTestSession(t, DifficultyEasy)
	s.Start()
	for i, sector := range []Sector{Sector1, Sector1, Sector2, Sector2, Sector3} {
		s.AttemptPlacement(pointIn(sector, i))
	}
	res := s.CheckDistribution()
	if !res.Balanced {
		t.Fatalf("expected balanced, got %+v", res)
	}
	if res.Counts != (SectorCounts{2, 2, 1}) {
		t.Fatalf("unexpected counts %v", res.Counts)
	}
	want := 500 + s.Remaining()*2 + 96
	if res.Delta != want || res.Score != want || s.Score() != want {
		t.Fatalf("expected bonus %d, got %+v", want, res)
	}
	if countEvents(rec.Events(), EventBalanced) != 1 {
		t.Fatalf("expected a balanced event")
	}
}

func TestCheckDistributionUnbalancedClamps(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	for i := 0; i < 5; i++ {
		s.AttemptPlacement(pointIn(Sector1, i))
	}
	res := s.CheckDistribution()
	if res.Balanced {
		t.Fatalf("expected unbalanced, got %+v", res)
	}
	if res.BalanceScore != 0 || res.Delta != 0 || s.Score() != 0 {
		t.Fatalf("expected zero penalty on zero score, got %+v", res)
	}
}

func TestCheckDistributionPenaltyReducesScore(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	for i, sector := range []Sector{Sector1, Sector2, Sector3} {
		s.AttemptPlacement(pointIn(sector, i))
	}
	bonus := s.CheckDistribution()
	if !bonus.Balanced {
		t.Fatalf("expected balanced, got %+v", bonus)
	}
	for i, sector := range []Sector{Sector1, Sector1, Sector1} {
		s.AttemptPlacement(pointIn(sector, i+3))
	}
	// counts {4,1,1}: ideal 2, variance 2, balance 60, penalty 6.
	res := s.CheckDistribution()
	if res.Balanced || res.BalanceScore != 60 || res.Delta != -6 {
		t.Fatalf("unexpected result %+v", res)
	}
	if s.Score() != bonus.Score-6 {
		t.Fatalf("expected score %d, got %d", bonus.Score-6, s.Score())
	}
}

func TestCheckDistributionRejections(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	if res := s.CheckDistribution(); res.Reason != ReasonSessionNotActive {
		t.Fatalf("expected session-not-active, got %+v", res)
	}
	s.Start()
	if res := s.CheckDistribution(); res.Reason != ReasonNothingPlaced {
		t.Fatalf("expected nothing-placed, got %+v", res)
	}
}

func TestTickLowTimeAndExpiry(t *testing.T) {
	profiles, err := NewProfileTable([]Profile{{Name: "blitz", Quota: 3, Duration: 32, Tolerance: 0.5}})
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	rec := &Recorder{}
	s, err := NewSession(profiles, "blitz", DefaultTarget(), rec)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	s.Start()
	s.AttemptPlacement(pointIn(Sector1, 0))

	if res := s.Tick(); res.LowTime || res.Remaining != 31 {
		t.Fatalf("unexpected tick %+v", res)
	}
	if res := s.Tick(); !res.LowTime || res.Remaining != 30 {
		t.Fatalf("expected low time at 30, got %+v", res)
	}
	var last TickResult
	for i := 0; i < 30; i++ {
		last = s.Tick()
	}
	if !last.Expired || last.Remaining != 0 {
		t.Fatalf("expected expiry, got %+v", last)
	}
	if s.State() != StateEnded || s.TimerToken() != 0 {
		t.Fatalf("expected ended with disarmed timer")
	}
	// base 0 + balance 96 + placement 10, no time left.
	if last.FinalScore != 106 || s.FinalScore() != 106 {
		t.Fatalf("unexpected final score %d/%d", last.FinalScore, s.FinalScore())
	}
	if res := s.AttemptPlacement(pointIn(Sector2, 0)); res.Reason != ReasonSessionNotActive {
		t.Fatalf("expected placements frozen after expiry, got %+v", res)
	}
	if out := s.Start(); out.OK {
		t.Fatalf("expected start to be rejected once ended")
	}
	events := rec.Events()
	if countEvents(events, EventLowTime) != 1 || countEvents(events, EventExpired) != 1 {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestResetThenTickReachesEndedOnce(t *testing.T) {
	s, rec := newTestSession(t, DifficultyHard)
	s.Start()
	stale := s.TimerToken()
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	s.ResetSession()
	if s.State() != StateIdle || s.Remaining() != 180 || s.TimerToken() != 0 {
		t.Fatalf("unexpected state after reset: %v %d", s.State(), s.Remaining())
	}
	if _, ok := s.TickFor(stale); ok {
		t.Fatalf("stale token must not tick after reset")
	}
	out := s.Start()
	if out.Token == stale {
		t.Fatalf("expected a fresh token after reset")
	}
	expired := 0
	for i := 0; i < 200; i++ {
		res, ok := s.TickFor(out.Token)
		if res.Expired {
			expired++
		}
		if !ok && s.State() != StateEnded {
			t.Fatalf("tick ignored before expiry")
		}
		if s.State() == StateActive && i >= 180 {
			t.Fatalf("session re-entered active")
		}
	}
	if expired != 1 || s.State() != StateEnded {
		t.Fatalf("expected exactly one expiry, got %d", expired)
	}
	if countEvents(rec.Events(), EventExpired) != 1 {
		t.Fatalf("expected one expired event")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	for i, sector := range []Sector{Sector1, Sector2, Sector3} {
		s.AttemptPlacement(pointIn(sector, i))
	}
	s.CheckDistribution()
	s.ResetSession()
	if s.Score() != 0 || s.PlacedCount() != 0 || len(s.Achievements()) != 0 {
		t.Fatalf("expected cleared session")
	}
	if len(s.Tray()) != 15 || s.Tray()[0] != "pepperoni-0" {
		t.Fatalf("expected reloaded tray, got %v", s.Tray())
	}
	if s.Counts() != (SectorCounts{}) {
		t.Fatalf("expected zero counts")
	}
}

func TestStartSessionSwitchesDifficulty(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	s.AttemptPlacement(pointIn(Sector1, 0))
	out, err := s.StartSession(DifficultyHard)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if !out.OK || s.Profile().Name != DifficultyHard || s.PlacedCount() != 0 || s.Remaining() != 180 {
		t.Fatalf("expected fresh hard session, got %+v", out)
	}
	if len(s.Tray()) != 25 {
		t.Fatalf("expected 25 tokens in tray, got %d", len(s.Tray()))
	}
	if _, err := s.StartSession("nope"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected unknown difficulty, got %v", err)
	}
}

func TestMalformedTargetIsNotActive(t *testing.T) {
	s, err := NewSession(DefaultProfileTable(), DifficultyEasy, Target{}, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if out := s.Start(); out.OK || out.Reason != ReasonSessionNotActive {
		t.Fatalf("expected start rejection, got %+v", out)
	}
	if res := s.AttemptPlacement(Point{X: 1, Y: 1}); res.Reason != ReasonSessionNotActive {
		t.Fatalf("expected session-not-active, got %+v", res)
	}
}

func TestAutoCompletePlacesSixBalancedTokens(t *testing.T) {
	s, rec := newTestSession(t, DifficultyEasy)
	if res := s.AutoComplete(); res.Reason != ReasonSessionNotActive {
		t.Fatalf("expected rejection while idle, got %+v", res)
	}
	s.Start()
	res := s.AutoComplete()
	if len(res.Placed) != 6 {
		t.Fatalf("expected 6 placements, got %d", len(res.Placed))
	}
	if s.Counts() != (SectorCounts{2, 2, 2}) {
		t.Fatalf("expected even spread, got %v", s.Counts())
	}
	if s.BalanceScore() != 100 {
		t.Fatalf("expected perfect balance, got %d", s.BalanceScore())
	}
	if countEvents(rec.Events(), EventAutoCompleted) != 1 {
		t.Fatalf("expected auto-completed event")
	}
}

func TestRefillTrayRespectsQuota(t *testing.T) {
	s, _ := newTestSession(t, DifficultyHard)
	s.Start()
	for i := 0; i < 25; i++ {
		s.AttemptPlacement(pointIn(Sectors[i%3], i))
	}
	placed := s.Placements()
	for _, p := range placed[:20] {
		s.RemovePlacement(p.ID)
	}
	if len(s.Tray())+s.PlacedCount() != 25 {
		t.Fatalf("tray plus placed must stay at quota")
	}
	if res := s.RefillTray(); res.Added != 0 || res.Reason != ReasonQuotaExceeded {
		t.Fatalf("expected no room, got %+v", res)
	}
}

func TestProjectedScoreMatchesFinalScore(t *testing.T) {
	s, _ := newTestSession(t, DifficultyEasy)
	s.Start()
	for i, sector := range []Sector{Sector1, Sector2, Sector3} {
		s.AttemptPlacement(pointIn(sector, i))
	}
	want := FinalScore(s.Score(), s.Counts(), s.PlacedCount(), s.Remaining())
	if s.ProjectedScore() != want || s.FinalScore() != want {
		t.Fatalf("expected %d, got %d/%d", want, s.ProjectedScore(), s.FinalScore())
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 59: "00:59", 60: "01:00", 300: "05:00", -4: "00:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
