package halftone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeModule_ManualClock(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	app := NewAppBuilder().WithClock(clock).UseModule(TimeModule{}).Build()
	tm := MustResource[Time](app)

	clock.Advance(time.Second)
	app.Step()
	assert.Equal(t, uint64(1), tm.Frame)
	assert.Equal(t, time.Duration(0), tm.Dt)
	assert.Zero(t, tm.Elapsed(), "elapsed time starts at the first frame")

	clock.Advance(250 * time.Millisecond)
	app.Step()
	assert.Equal(t, uint64(2), tm.Frame)
	assert.Equal(t, 250*time.Millisecond, tm.Dt)
	assert.InDelta(t, 0.25, tm.Elapsed(), 1e-6)

	clock.Advance(2 * time.Second)
	app.Step()
	assert.InDelta(t, 2.25, tm.Elapsed(), 1e-6)
}

func TestTimeModule_FrozenClockRepeatsPose(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	app := NewAppBuilder().WithClock(clock).UseModule(TimeModule{}).Build()
	tm := MustResource[Time](app)
	app.Step()
	app.Step()
	assert.Zero(t, tm.Dt)
	assert.Zero(t, tm.Elapsed())
}
