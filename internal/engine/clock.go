package engine

import "math"

// gameClock extrapolates game time from frame deltas and reconciles against
// the externally reported audio position. The audio transport owns the real
// clock; ours drifts.
type gameClock struct {
	timeMs   float64
	anchored bool

	driftThresholdMs float64
	snaps            int
}

func (c *gameClock) reset() {
	c.timeMs = 0
	c.anchored = false
	c.snaps = 0
}

func (c *gameClock) advance(deltaMs float64) {
	if deltaMs > 0 {
		c.timeMs += deltaMs
	}
}

// reconcile compares the extrapolated position against a fresh external
// report. The first report anchors the clock. Past the drift threshold we
// snap rather than smooth: gradually correcting a 100ms jump would leave hit
// judgment desynchronized for the whole correction. Smaller differences are
// report jitter and are ignored.
func (c *gameClock) reconcile(audioPosMs float64) (snapped bool) {
	if !c.anchored {
		c.timeMs = audioPosMs
		c.anchored = true
		return true
	}
	if math.Abs(c.timeMs-audioPosMs) > c.driftThresholdMs {
		c.timeMs = audioPosMs
		c.snaps++
		return true
	}
	return false
}
