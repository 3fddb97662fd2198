package score

import (
	"git.lost.host/meutraa/midfall/internal/engine"
	"git.lost.host/meutraa/midfall/internal/game"
)

type Scorer interface {
	Init() error
	Deinit()

	// Save the result of one completed track
	Save(chart *game.Chart, result engine.TrackCompleteEvent, rate float64)

	// Load previous results for the chart
	Load(chart *game.Chart) []History
}

type History struct {
	Sum      string
	Rate     float64
	Score    int64
	Accuracy float64
	MaxCombo int
	Counts   []int
}

// Best returns the highest previous score, or nil.
func Best(histories []History) *History {
	var best *History
	for i := range histories {
		if best == nil || histories[i].Score > best.Score {
			best = &histories[i]
		}
	}
	return best
}
