package chart

import (
	"testing"

	"git.lost.host/meutraa/midfall/internal/game"
)

func onEvents(pitchCounts map[uint8]int) []game.TimedNoteEvent {
	events := []game.TimedNoteEvent{}
	for pitch, count := range pitchCounts {
		for i := 0; i < count; i++ {
			events = append(events, game.TimedNoteEvent{Pitch: pitch, On: true})
		}
	}
	return events
}

func TestLaneMapperFewPitches(t *testing.T) {
	m := NewLaneMapper(onEvents(map[uint8]int{60: 10, 64: 5, 67: 1}), 4)

	// One pitch per lane by frequency rank.
	expected := map[uint8]int{60: 0, 64: 1, 67: 2}
	for pitch, lane := range expected {
		if got, ok := m.Lane(pitch); !ok || got != lane {
			t.Log("pitch   ", pitch)
			t.Log("got     ", got, ok)
			t.Log("expected", lane)
			t.Fail()
		}
	}
	if _, ok := m.Lane(72); ok {
		t.Error("unseen pitch must not map")
	}
}

// With at least as many distinct pitches as lanes, every lane must be used.
func TestLaneMapperCoverage(t *testing.T) {
	for pitches := 4; pitches <= 40; pitches++ {
		counts := map[uint8]int{}
		for p := 0; p < pitches; p++ {
			counts[uint8(40+p)] = 1 + p%7
		}
		m := NewLaneMapper(onEvents(counts), 4)
		if m.Coverage() != 4 {
			t.Fatal("pitches", pitches, "coverage", m.Coverage())
		}
	}
}

func TestLaneMapperBuckets(t *testing.T) {
	// 8 distinct pitches over 4 lanes: 2 per bucket by rank.
	counts := map[uint8]int{}
	for p := uint8(0); p < 8; p++ {
		counts[60+p] = int(20 - p) // descending frequency by ascending pitch
	}
	m := NewLaneMapper(onEvents(counts), 4)

	for rank := uint8(0); rank < 8; rank++ {
		lane, ok := m.Lane(60 + rank)
		if !ok || lane != int(rank/2) {
			t.Log("pitch   ", 60+rank)
			t.Log("got     ", lane, ok)
			t.Log("expected", rank/2)
			t.Fail()
		}
	}
}

func TestLaneMapperDeterministic(t *testing.T) {
	counts := map[uint8]int{60: 3, 62: 3, 64: 3, 65: 3, 67: 3}
	a := NewLaneMapper(onEvents(counts), 4)
	b := NewLaneMapper(onEvents(counts), 4)
	for pitch := range counts {
		la, _ := a.Lane(pitch)
		lb, _ := b.Lane(pitch)
		if la != lb {
			t.Fatal("mapping not deterministic for pitch", pitch)
		}
	}
}
