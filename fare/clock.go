/*
clock.go - Time source abstraction

PURPOSE:
  Every rule that depends on the current time (service windows, trip
  spacing, transfer windows, monthly counters) reads it from a Clock
  collaborator instead of calling time.Now directly. Swapping in a
  FakeClock makes every time-window behavior reproducible in tests.

IMPLEMENTATIONS:
  SystemClock: wall-clock time, used in production
  FakeClock:   settable/advanceable virtual time, used in tests

USAGE:
  clock := fare.NewFakeClock(time.Date(2024, time.October, 14, 10, 0, 0, 0, time.Local))
  clock.AdvanceMinutes(30)
  clock.SetTo(someOtherTime)

SEE ALSO:
  - policy.go: service-window evaluation against Clock time
  - transfer.go: 60-minute transfer window
*/
package fare

import (
	"sync"
	"time"
)

// Clock supplies the current timestamp.
type Clock interface {
	Now() time.Time
}

// =============================================================================
// SYSTEM CLOCK - Production implementation
// =============================================================================

type SystemClock struct{}

func NewSystemClock() *SystemClock { return &SystemClock{} }

func (c *SystemClock) Now() time.Time { return time.Now() }

// Compile-time checks
var _ Clock = (*SystemClock)(nil)
var _ Clock = (*FakeClock)(nil)

// =============================================================================
// FAKE CLOCK - Deterministic implementation for tests
// =============================================================================

// FakeClock returns a fixed instant that only moves when told to.
// Safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AdvanceMinutes(n int) { c.advance(time.Duration(n) * time.Minute) }
func (c *FakeClock) AdvanceHours(n int)   { c.advance(time.Duration(n) * time.Hour) }

func (c *FakeClock) AdvanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

func (c *FakeClock) SetTo(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *FakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// =============================================================================
// CALENDAR HELPERS
// =============================================================================

// SameDay reports whether two instants fall on the same local calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether two instants share month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ServiceWindow is a recurring weekly boarding window: the allowed
// weekday range plus a local-hour interval [FromHour, ToHour).
type ServiceWindow struct {
	FirstDay time.Weekday
	LastDay  time.Weekday
	FromHour int
	ToHour   int
}

// Contains reports whether t falls inside the window. The hour bound is
// half-open: ToHour itself is outside.
func (w ServiceWindow) Contains(t time.Time) bool {
	wd := t.Weekday()
	if wd < w.FirstDay || wd > w.LastDay {
		return false
	}
	h := t.Hour()
	return h >= w.FromHour && h < w.ToHour
}

func (w ServiceWindow) String() string {
	return w.FirstDay.String() + "-" + w.LastDay.String() +
		" " + twoDigits(w.FromHour) + ":00-" + twoDigits(w.ToHour) + ":00"
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
