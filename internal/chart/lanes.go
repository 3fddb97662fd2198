package chart

import (
	"sort"

	"git.lost.host/meutraa/midfall/internal/game"
)

// LaneMapper assigns each distinct pitch to a lane by frequency rank. Pitches
// without an assignment are dropped from the chart.
type LaneMapper struct {
	lanes     map[uint8]int
	laneCount int
}

// NewLaneMapper builds the pitch to lane assignment from the resolved note-on
// events. Ranking is by descending occurrence count, ties broken by lower
// pitch so the mapping is deterministic.
func NewLaneMapper(events []game.TimedNoteEvent, laneCount int) *LaneMapper {
	counts := map[uint8]int{}
	for _, ev := range events {
		if ev.On {
			counts[ev.Pitch]++
		}
	}

	ranked := make([]uint8, 0, len(counts))
	for pitch := range counts {
		ranked = append(ranked, pitch)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	m := &LaneMapper{lanes: map[uint8]int{}, laneCount: laneCount}

	if len(ranked) <= laneCount {
		for rank, pitch := range ranked {
			m.lanes[pitch] = rank
		}
		return m
	}

	// Partition the ranked list into laneCount contiguous buckets.
	perLane := (len(ranked) + laneCount - 1) / laneCount
	used := make([]bool, laneCount)
	for rank, pitch := range ranked {
		lane := rank / perLane
		if lane >= laneCount {
			lane = laneCount - 1
		}
		m.lanes[pitch] = lane
		used[lane] = true
	}

	// Bucketing can leave trailing lanes empty when the division is uneven.
	// Enough distinct pitches exist here, so fall back to round-robin to
	// guarantee full lane coverage.
	for lane := 0; lane < laneCount; lane++ {
		if !used[lane] {
			for rank, pitch := range ranked {
				m.lanes[pitch] = rank % laneCount
			}
			break
		}
	}

	return m
}

// Lane returns the lane for a pitch, or false if the pitch was not retained.
func (m *LaneMapper) Lane(pitch uint8) (int, bool) {
	lane, ok := m.lanes[pitch]
	return lane, ok
}

// Coverage reports how many lanes have at least one pitch assigned.
func (m *LaneMapper) Coverage() int {
	used := make([]bool, m.laneCount)
	for _, lane := range m.lanes {
		used[lane] = true
	}
	n := 0
	for _, u := range used {
		if u {
			n++
		}
	}
	return n
}
