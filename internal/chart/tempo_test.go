package chart

import (
	"testing"

	"git.lost.host/meutraa/midfall/internal/smf"
)

func tempoMeta(tick uint64, micros uint32) smf.Event {
	return smf.Event{
		Kind:     smf.EventMeta,
		Tick:     tick,
		MetaType: smf.MetaTempo,
		Data:     []byte{byte(micros >> 16), byte(micros >> 8), byte(micros)},
	}
}

func fileWith(ticksPerQuarter uint16, events ...smf.Event) *smf.File {
	return &smf.File{
		TicksPerQuarter: ticksPerQuarter,
		Tracks:          [][]smf.Event{events},
	}
}

// A track with no set-tempo events yields exactly one 120 BPM breakpoint.
func TestTempoDefault(t *testing.T) {
	m := NewTempoMap(fileWith(480))
	bps := m.Breakpoints()
	if len(bps) != 1 || bps[0].Tick != 0 || bps[0].MicrosPerQN != DefaultTempo {
		t.Fatal("breakpoints", bps)
	}
	// 480 ticks at 120 BPM with 480 tpq is one quarter note, 500ms.
	if ms := m.Resolve(480); ms != 500 {
		t.Fatal("resolve(480) =", ms)
	}
}

func TestTempoSegments(t *testing.T) {
	// 120 BPM until tick 960, then 60 BPM.
	m := NewTempoMap(fileWith(480,
		tempoMeta(0, 500000),
		tempoMeta(960, 1000000),
	))

	tests := map[uint64]float64{
		0:    0,
		480:  500,
		960:  1000,
		1440: 2000, // one quarter at 60 BPM past the change
		1920: 3000,
	}
	for tick, expected := range tests {
		if ms := m.Resolve(tick); ms != expected {
			t.Log("tick    ", tick)
			t.Log("got     ", ms)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestTempoDuplicateTicksLastWins(t *testing.T) {
	m := NewTempoMap(fileWith(480,
		tempoMeta(0, 500000),
		tempoMeta(0, 250000),
	))
	bps := m.Breakpoints()
	if len(bps) != 1 || bps[0].MicrosPerQN != 250000 {
		t.Fatal("breakpoints", bps)
	}
}

// Non-decreasing ticks must resolve to non-decreasing milliseconds.
func TestTempoMonotonic(t *testing.T) {
	m := NewTempoMap(fileWith(96,
		tempoMeta(100, 300000),
		tempoMeta(50, 700000),
		tempoMeta(500, 120000),
		tempoMeta(1000, 900000),
	))

	prev := 0.0
	for tick := uint64(0); tick < 2000; tick += 7 {
		ms := m.Resolve(tick)
		if ms < prev {
			t.Fatal("resolve not monotonic at tick", tick, ms, "<", prev)
		}
		prev = ms
	}
}
