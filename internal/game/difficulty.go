package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Built-in difficulty names.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ErrUnknownDifficulty is returned when a difficulty name is not in the profile table.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Profile holds the limits for one difficulty.
type Profile struct {
	Name      string
	Quota     int
	Duration  int
	Tolerance float64
}

// Validate checks that the profile values are usable.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("difficulty name must not be empty")
	}
	if p.Quota <= 0 {
		return fmt.Errorf("difficulty %q: quota must be > 0", p.Name)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("difficulty %q: duration must be > 0", p.Name)
	}
	if p.Tolerance < 0 {
		return fmt.Errorf("difficulty %q: tolerance must be >= 0", p.Name)
	}
	return nil
}

// ProfileTable is an immutable set of difficulty profiles.
type ProfileTable struct {
	profiles map[string]Profile
	order    []string
}

// DefaultProfiles returns the built-in easy, medium and hard profiles.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: DifficultyEasy, Quota: 15, Duration: 300, Tolerance: 0.4},
		{Name: DifficultyMedium, Quota: 20, Duration: 240, Tolerance: 0.3},
		{Name: DifficultyHard, Quota: 25, Duration: 180, Tolerance: 0.2},
	}
}

// NewProfileTable builds a table from profiles. Later entries replace earlier ones with the same name.
func NewProfileTable(profiles []Profile) (ProfileTable, error) {
	t := ProfileTable{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		p.Name = normalizeName(p.Name)
		if err := p.Validate(); err != nil {
			return ProfileTable{}, err
		}
		if _, ok := t.profiles[p.Name]; !ok {
			t.order = append(t.order, p.Name)
		}
		t.profiles[p.Name] = p
	}
	if len(t.order) == 0 {
		return ProfileTable{}, fmt.Errorf("no difficulty profiles defined")
	}
	return t, nil
}

// DefaultProfileTable returns the built-in table.
func DefaultProfileTable() ProfileTable {
	defaults := DefaultProfiles()
	t := ProfileTable{profiles: make(map[string]Profile, len(defaults))}
	for _, p := range defaults {
		t.profiles[p.Name] = p
		t.order = append(t.order, p.Name)
	}
	return t
}

// Lookup returns the profile for name.
func (t ProfileTable) Lookup(name string) (Profile, error) {
	p, ok := t.profiles[normalizeName(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownDifficulty, name, strings.Join(t.Names(), ", "))
	}
	return p, nil
}

// Names returns profile names in definition order.
func (t ProfileTable) Names() []string {
	return append([]string(nil), t.order...)
}

// SortedNames returns profile names alphabetically.
func (t ProfileTable) SortedNames() []string {
	names := t.Names()
	sort.Strings(names)
	return names
}

// Profiles returns all profiles in definition order.
func (t ProfileTable) Profiles() []Profile {
	out := make([]Profile, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.profiles[name])
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
