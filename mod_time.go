package halftone

import (
	"sync"
	"time"
)

// Clock is the frame loop's time source.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type Time struct {
	Start time.Time
	Now   time.Time
	Dt    time.Duration
	// Frame counts frames since start, beginning at 1 on the first frame.
	Frame uint64
}

// Elapsed is the time since the first frame, in seconds.
func (t *Time) Elapsed() float32 {
	return float32(t.Now.Sub(t.Start).Seconds())
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := app.clock.Now()
	cmd.AddResources(&Time{Start: now, Now: now})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(app *App, t *Time) {
	now := app.clock.Now()
	if t.Frame == 0 {
		t.Start = now
	} else {
		t.Dt = now.Sub(t.Now)
	}
	t.Now = now
	t.Frame++
}
