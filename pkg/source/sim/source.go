// Package sim provides a simulated window source: a small household of
// synthetic "residents", each backed by a fake window, with focus rotating
// between them on a timer. It is used as a deterministic test double and as
// the demo fallback when no native source is usable.
package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/openbob/openbob/pkg/window"
)

type person struct {
	name        string
	process     string
	personality string
}

var roster = []person{
	{"Mom", "parent.exe", "busy"},
	{"Dad", "parent.exe", "relaxed"},
	{"Sarah", "teenager.exe", "social"},
	{"Tommy", "kid.exe", "energetic"},
	{"Grandma", "elder.exe", "calm"},
	{"Uncle Joe", "visitor.exe", "chatty"},
	{"Aunt Linda", "visitor.exe", "helpful"},
	{"Best Friend Alex", "friend.exe", "fun"},
	{"Neighbor Bob", "neighbor.exe", "curious"},
}

var activities = map[string][]string{
	"busy":      {"Cooking dinner in the kitchen", "Doing laundry", "Working on laptop in home office", "Paying bills at desk"},
	"relaxed":   {"Watching TV in living room", "Napping on recliner", "Having coffee in kitchen", "Grilling in backyard"},
	"social":    {"Video chatting with friends", "Texting in bedroom", "Posting on social media", "Shopping online"},
	"energetic": {"Playing video games", "Running around backyard", "Building with LEGO", "Jumping on trampoline"},
	"calm":      {"Knitting on couch", "Reading book in armchair", "Watering plants", "Baking cookies"},
	"chatty":    {"Telling stories in living room", "Making phone calls", "Discussing sports", "Giving unsolicited advice"},
	"helpful":   {"Helping with dishes", "Fixing things around house", "Folding laundry", "Organizing pantry"},
	"fun":       {"Playing board games", "Telling jokes", "Watching comedy show", "Making funny videos"},
	"curious":   {"Peeking through window", "Checking out renovations", "Asking to borrow tools", "Talking about weather"},
}

type entity struct {
	person
	id       window.ID
	activity string
	boredom  float64
}

// Source implements window.Source over a simulated population.
type Source struct {
	mu sync.Mutex

	rng *rand.Rand
	now func() time.Time

	entities []*entity
	focusIdx int

	focusDuration   time.Duration
	lastFocusChange time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithSeed makes the simulation deterministic.
func WithSeed(seed int64) Option {
	return func(s *Source) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithPopulation fixes the initial number of residents instead of picking
// 4-9 at random.
func WithPopulation(n int) Option {
	return func(s *Source) {
		if n > len(roster) {
			n = len(roster)
		}
		if n < 1 {
			n = 1
		}
		s.entities = s.entities[:0]
		for _, p := range roster[:n] {
			s.entities = append(s.entities, s.newEntity(p))
		}
	}
}

// WithClock substitutes the wall clock, for tests that script focus rotation.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New creates a simulated source. Without options the population size and
// all behavior are randomized, matching demo use.
func New(opts ...Option) *Source {
	s := &Source{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if len(s.entities) == 0 {
		n := 4 + s.rng.Intn(6)
		perm := s.rng.Perm(len(roster))
		for _, i := range perm[:n] {
			s.entities = append(s.entities, s.newEntity(roster[i]))
		}
	}

	s.lastFocusChange = s.now()
	s.focusDuration = s.nextFocusDuration()
	return s
}

func (s *Source) newEntity(p person) *entity {
	return &entity{
		person:   p,
		id:       window.ID(10000 + s.rng.Intn(90000)),
		activity: s.randomActivity(p.personality),
		boredom:  0.3 + s.rng.Float64()*0.4,
	}
}

func (s *Source) randomActivity(personality string) string {
	list, ok := activities[personality]
	if !ok {
		list = activities["relaxed"]
	}
	return list[s.rng.Intn(len(list))]
}

func (s *Source) nextFocusDuration() time.Duration {
	return time.Duration(3+s.rng.Intn(17)) * time.Second
}

// Kind returns "simulated".
func (s *Source) Kind() string { return "simulated" }

// IsSupported always reports true; the simulation runs anywhere.
func (s *Source) IsSupported() bool { return true }

// Enumerate advances the simulation one step and returns the current
// population as a window snapshot. Exactly one entry is marked active.
func (s *Source) Enumerate() ([]window.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step()

	infos := make([]window.Info, 0, len(s.entities))
	for i, e := range s.entities {
		infos = append(infos, window.Info{
			ID:          e.id,
			Title:       e.name + " - " + e.activity,
			ProcessName: e.process,
			IsActive:    i == s.focusIdx,
			IsVisible:   true,
		})
	}
	return infos, nil
}

// ActiveWindow returns the id of the currently focused resident.
func (s *Source) ActiveWindow() (window.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entities) == 0 {
		return 0, false
	}
	return s.entities[s.focusIdx].id, true
}

// Close is a no-op for the simulation.
func (s *Source) Close() error { return nil }

// step mutates simulation state: residents occasionally switch activities,
// and focus rotates once its hold duration elapses. Callers hold s.mu.
func (s *Source) step() {
	for _, e := range s.entities {
		if s.rng.Float64() < e.boredom*0.1 {
			e.activity = s.randomActivity(e.personality)
		}
	}

	if len(s.entities) == 0 {
		return
	}

	now := s.now()
	if now.Sub(s.lastFocusChange) > s.focusDuration {
		s.focusIdx = s.rng.Intn(len(s.entities))
		s.focusDuration = s.nextFocusDuration()
		s.lastFocusChange = now
	}

	if s.focusIdx >= len(s.entities) {
		s.focusIdx = len(s.entities) - 1
	}
}

// AddEntity grows the simulated population by one resident not currently
// present. Returns the resident's name, or "" when everyone is already home.
func (s *Source) AddEntity() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make(map[string]bool, len(s.entities))
	for _, e := range s.entities {
		present[e.name] = true
	}

	candidates := make([]person, 0, len(roster))
	for _, p := range roster {
		if !present[p.name] {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	e := s.newEntity(candidates[s.rng.Intn(len(candidates))])
	s.entities = append(s.entities, e)
	return e.name
}

// RemoveEntity shrinks the population by one random resident, keeping at
// least two. Returns the departing resident's name, or "" when the
// population is already minimal.
func (s *Source) RemoveEntity() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entities) <= 2 {
		return ""
	}

	idx := s.rng.Intn(len(s.entities))
	name := s.entities[idx].name
	s.entities = append(s.entities[:idx], s.entities[idx+1:]...)

	if s.focusIdx >= len(s.entities) {
		s.focusIdx = len(s.entities) - 1
	}
	return name
}

// Population returns the current resident count.
func (s *Source) Population() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entities)
}
