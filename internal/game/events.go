package game

import "fmt"

// EventKind identifies a semantic event emitted by a Session.
type EventKind int

// Event kinds.
const (
	EventStarted EventKind = iota + 1
	EventLowTime
	EventExpired
	EventPlaced
	EventRejected
	EventRemoved
	EventAchievement
	EventBalanced
	EventUnbalanced
	EventAutoCompleted
	EventTrayRefilled
	EventReset
)

var eventNames = map[EventKind]string{
	EventStarted:       "started",
	EventLowTime:       "low-time",
	EventExpired:       "expired",
	EventPlaced:        "placed",
	EventRejected:      "rejected",
	EventRemoved:       "removed",
	EventAchievement:   "achievement",
	EventBalanced:      "balanced",
	EventUnbalanced:    "unbalanced",
	EventAutoCompleted: "auto-completed",
	EventTrayRefilled:  "tray-refilled",
	EventReset:         "reset",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event describes a state change. Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	Difficulty  string
	TokenID     TokenID
	Sector      Sector
	Reason      Reason
	Achievement Achievement
	Counts      SectorCounts
	Remaining   int
	Score       int
	Delta       int
	Count       int
}

// Message renders e as a short status line.
func (e Event) Message() string {
	switch e.Kind {
	case EventStarted:
		return fmt.Sprintf("%s game started, %s on the clock", e.Difficulty, FormatClock(e.Remaining))
	case EventLowTime:
		return fmt.Sprintf("hurry up, %s left", FormatClock(e.Remaining))
	case EventExpired:
		return fmt.Sprintf("time's up: %d placed, final score %d", e.Count, e.Score)
	case EventPlaced:
		return fmt.Sprintf("%s placed in sector %s", e.TokenID, e.Sector)
	case EventRejected:
		if e.TokenID != "" {
			return fmt.Sprintf("%s rejected: %s", e.TokenID, e.Reason.Err())
		}
		return fmt.Sprintf("rejected: %s", e.Reason.Err())
	case EventRemoved:
		return fmt.Sprintf("%s returned to the tray", e.TokenID)
	case EventAchievement:
		return fmt.Sprintf("achievement unlocked: %s (%d placed)", e.Achievement, e.Count)
	case EventBalanced:
		return fmt.Sprintf("balanced %s, bonus %+d", formatCounts(e.Counts), e.Delta)
	case EventUnbalanced:
		return fmt.Sprintf("unbalanced %s, penalty %+d", formatCounts(e.Counts), e.Delta)
	case EventAutoCompleted:
		return fmt.Sprintf("auto-completed %d tokens", e.Count)
	case EventTrayRefilled:
		return fmt.Sprintf("tray refilled with %d tokens", e.Count)
	case EventReset:
		return fmt.Sprintf("%s game reset", e.Difficulty)
	default:
		return e.Kind.String()
	}
}

func formatCounts(c SectorCounts) string {
	return fmt.Sprintf("%d/%d/%d", c[0], c[1], c[2])
}

// Sink receives session events.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Notify implements Sink.
func (f SinkFunc) Notify(e Event) {
	f(e)
}

// Recorder buffers events until drained.
type Recorder struct {
	events []Event
}

// Notify implements Sink.
func (r *Recorder) Notify(e Event) {
	r.events = append(r.events, e)
}

// Drain returns buffered events and clears the buffer.
func (r *Recorder) Drain() []Event {
	out := r.events
	r.events = nil
	return out
}

// Events returns buffered events without clearing them.
func (r *Recorder) Events() []Event {
	return append([]Event(nil), r.events...)
}

type discardSink struct{}

func (discardSink) Notify(Event) {}
