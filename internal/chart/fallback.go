package chart

import (
	"git.lost.host/meutraa/midfall/internal/game"
)

// Fallback pattern shape. Deterministic so the same source always produces
// the same chart.
const (
	fallbackDurationMs = 60000.0
	fallbackSpacingMs  = 1000.0
)

// Fallback emits an evenly spaced tap pattern cycling through the lanes. It
// is used when a decode produced zero usable note events or the pipeline
// filtered everything out; an empty chart is unplayable, a dull one is not.
func Fallback(difficulty game.Difficulty, source string, opts Options) *game.Chart {
	opts = opts.withDefaults()

	spacing := fallbackSpacingMs
	if difficulty.Multiplier > 0 {
		spacing = fallbackSpacingMs / difficulty.Multiplier
	}

	notes := []game.Note{}
	lane := 0
	for t := 0.0; t < fallbackDurationMs; t += spacing {
		notes = append(notes, game.Note{
			Time:     t,
			Lane:     lane,
			Type:     game.NoteTap,
			Velocity: 64,
		})
		lane = (lane + 1) % opts.LaneCount
	}

	return &game.Chart{
		Notes:      notes,
		LaneCount:  opts.LaneCount,
		Difficulty: difficulty,
		NoteCount:  len(notes),
		Source:     source,
	}
}
