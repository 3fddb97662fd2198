package game

// Chart is a fully compiled, playable song. It is never mutated after
// compilation and may be shared between the engine and a renderer without
// synchronization.
type Chart struct {
	Notes      []Note // time-ascending, ties broken by lane
	LaneCount  int
	Difficulty Difficulty

	NoteCount int
	HoldCount int
	Source    string // file the chart was compiled from
}

// DurationMs is the effective end of the last note, or 0 for an empty chart.
func (c *Chart) DurationMs() float64 {
	if len(c.Notes) == 0 {
		return 0
	}
	// A hold near the end can outlast the final tap, so take the max.
	end := 0.0
	for i := range c.Notes {
		if e := c.Notes[i].EffectiveEnd(); e > end {
			end = e
		}
	}
	return end
}
