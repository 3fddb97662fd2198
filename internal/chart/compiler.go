package chart

import (
	"log"
	"math"
	"sort"

	"git.lost.host/meutraa/midfall/internal/game"
	"git.lost.host/meutraa/midfall/internal/smf"
)

// Options control the compile pipeline. Zero values are replaced by defaults
// so tests can construct partial option sets.
type Options struct {
	LaneCount     int
	MinHoldMs     float64 // below this a hold degrades to a tap
	LaneGapMs     float64 // minimum gap after a note's effective end, per lane
	MinSpacingMs  float64 // minimum spacing across all lanes combined
	SpikeWindowMs float64 // sliding window for spike smoothing
	SpikeCap      int     // max notes per spike window
	HoldBonus     float64 // added to velocity when ranking notes for density cuts
	Rate          float64 // playback rate, scales all times at compile
}

func (o Options) withDefaults() Options {
	if o.LaneCount == 0 {
		o.LaneCount = 4
	}
	if o.MinHoldMs == 0 {
		// A quarter note at 120 BPM is 500ms; holds need to be longer than
		// that to read as holds rather than sustained taps.
		o.MinHoldMs = 600
	}
	if o.LaneGapMs == 0 {
		o.LaneGapMs = 120
	}
	if o.MinSpacingMs == 0 {
		o.MinSpacingMs = 50
	}
	if o.SpikeWindowMs == 0 {
		o.SpikeWindowMs = 2000
	}
	if o.SpikeCap == 0 {
		o.SpikeCap = 16
	}
	if o.HoldBonus == 0 {
		o.HoldBonus = 32
	}
	if o.Rate == 0 {
		o.Rate = 1.0
	}
	return o
}

// ResolveEvents runs every note on/off through the tempo map, producing
// time-resolved events in tick order.
func ResolveEvents(f *smf.File, tempo *TempoMap) []game.TimedNoteEvent {
	resolved := []game.TimedNoteEvent{}
	for _, ev := range f.NoteEvents() {
		resolved = append(resolved, game.TimedNoteEvent{
			TimeMs:   tempo.Resolve(ev.Tick),
			Pitch:    ev.Pitch,
			Velocity: ev.Velocity,
			Channel:  ev.Channel,
			On:       ev.Kind == smf.EventNoteOn,
		})
	}
	return resolved
}

// Compile turns resolved events into a playable chart for one difficulty.
// The pipeline is pairing, per-lane overlap removal, density reduction,
// spike smoothing, then a final spacing pass. An empty result falls back to
// a deterministic generated pattern so the chart is never unplayable.
func Compile(events []game.TimedNoteEvent, difficulty game.Difficulty, source string, opts Options) *game.Chart {
	opts = opts.withDefaults()

	mapper := NewLaneMapper(events, opts.LaneCount)
	notes := pairNotes(events, mapper, opts)

	if len(notes) == 0 {
		log.Printf("chart: no usable notes in %v, using fallback pattern", source)
		return Fallback(difficulty, source, opts)
	}

	notes = removeOverlaps(notes, opts)
	notes = reduceDensity(notes, difficulty.Multiplier, opts)
	notes = smoothSpikes(notes, opts)
	notes = enforceSpacing(notes, opts)

	if len(notes) == 0 {
		log.Printf("chart: every note filtered out of %v, using fallback pattern", source)
		return Fallback(difficulty, source, opts)
	}

	c := &game.Chart{
		Notes:      notes,
		LaneCount:  opts.LaneCount,
		Difficulty: difficulty,
		NoteCount:  len(notes),
		Source:     source,
	}
	for i := range notes {
		if notes[i].Type == game.NoteHold {
			c.HoldCount++
		}
	}
	validate(c, opts)
	return c
}

// pairNotes matches each note-on with the next note-off sharing its pitch and
// channel. Short pairs and unterminated note-ons become taps.
func pairNotes(events []game.TimedNoteEvent, mapper *LaneMapper, opts Options) []game.Note {
	type key struct {
		pitch   uint8
		channel uint8
	}
	open := map[key][]int{}
	notes := []game.Note{}

	for _, ev := range events {
		k := key{ev.Pitch, ev.Channel}
		if ev.On {
			lane, ok := mapper.Lane(ev.Pitch)
			if !ok {
				continue
			}
			open[k] = append(open[k], len(notes))
			notes = append(notes, game.Note{
				Time:     ev.TimeMs / opts.Rate,
				Lane:     lane,
				Type:     game.NoteTap,
				Pitch:    ev.Pitch,
				Velocity: ev.Velocity,
				Channel:  ev.Channel,
			})
			continue
		}
		stack := open[k]
		if len(stack) == 0 {
			continue
		}
		idx := stack[0]
		open[k] = stack[1:]
		end := ev.TimeMs / opts.Rate
		if end-notes[idx].Time >= opts.MinHoldMs {
			notes[idx].Type = game.NoteHold
			notes[idx].EndTime = end
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		return notes[i].Lane < notes[j].Lane
	})
	return notes
}

// removeOverlaps drops, per lane, any note starting sooner than LaneGapMs
// after the previous kept note's effective end.
func removeOverlaps(notes []game.Note, opts Options) []game.Note {
	lastEnd := map[int]float64{}
	kept := notes[:0]
	for _, n := range notes {
		if end, ok := lastEnd[n.Lane]; ok && n.Time < end+opts.LaneGapMs {
			continue
		}
		lastEnd[n.Lane] = n.EffectiveEnd()
		kept = append(kept, n)
	}
	return kept
}

// reduceDensity keeps the top count*multiplier notes by score, where score is
// velocity plus a bonus for holds, then restores time order.
func reduceDensity(notes []game.Note, multiplier float64, opts Options) []game.Note {
	if multiplier >= 1.0 || len(notes) == 0 {
		return notes
	}
	keep := int(math.Round(float64(len(notes)) * multiplier))
	if keep >= len(notes) {
		return notes
	}

	score := func(n game.Note) float64 {
		s := float64(n.Velocity)
		if n.Type == game.NoteHold {
			s += opts.HoldBonus
		}
		return s
	}

	ranked := make([]game.Note, len(notes))
	copy(ranked, notes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	ranked = ranked[:keep]

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Time != ranked[j].Time {
			return ranked[i].Time < ranked[j].Time
		}
		return ranked[i].Lane < ranked[j].Lane
	})
	return ranked
}

// smoothSpikes caps the number of notes inside any sliding SpikeWindowMs
// window, dropping overflow in arrival order.
func smoothSpikes(notes []game.Note, opts Options) []game.Note {
	kept := notes[:0]
	windowStart := 0
	for _, n := range notes {
		for windowStart < len(kept) && kept[windowStart].Time <= n.Time-opts.SpikeWindowMs {
			windowStart++
		}
		if len(kept)-windowStart >= opts.SpikeCap {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// enforceSpacing applies the global minimum spacing across all lanes.
func enforceSpacing(notes []game.Note, opts Options) []game.Note {
	kept := notes[:0]
	last := math.Inf(-1)
	for _, n := range notes {
		if n.Time-last < opts.MinSpacingMs {
			continue
		}
		last = n.Time
		kept = append(kept, n)
	}
	return kept
}

// validate logs non-fatal warnings for same-lane conflicts the pipeline
// should have removed.
func validate(c *game.Chart, opts Options) {
	lastEnd := map[int]float64{}
	for i := range c.Notes {
		n := &c.Notes[i]
		if n.Lane < 0 || n.Lane >= c.LaneCount {
			log.Printf("chart: note %d lane %d outside 0..%d", i, n.Lane, c.LaneCount-1)
			continue
		}
		if end, ok := lastEnd[n.Lane]; ok && n.Time < end+opts.LaneGapMs {
			log.Printf("chart: notes overlap in lane %d at %.0fms", n.Lane, n.Time)
		}
		lastEnd[n.Lane] = n.EffectiveEnd()
	}
}
