package chart

import (
	"sort"

	"git.lost.host/meutraa/midfall/internal/smf"
)

// DefaultTempo is 120 BPM in microseconds per quarter note.
const DefaultTempo = 500000

type TempoBreakpoint struct {
	Tick        uint64
	MicrosPerQN uint32
}

// TempoMap converts tick positions to milliseconds by walking tempo
// breakpoints cumulatively. The mapping is non-decreasing for non-decreasing
// ticks; hold durations and spacing filters depend on that.
type TempoMap struct {
	breakpoints     []TempoBreakpoint
	ticksPerQuarter uint16
}

// NewTempoMap collects set-tempo meta events from every track, sorts them by
// tick, drops duplicate ticks (last one wins), and falls back to a single
// 120 BPM breakpoint at tick 0 when the file declares no tempo at all.
func NewTempoMap(f *smf.File) *TempoMap {
	points := []TempoBreakpoint{}
	for _, track := range f.Tracks {
		for _, ev := range track {
			if ev.Kind != smf.EventMeta || ev.MetaType != smf.MetaTempo {
				continue
			}
			if len(ev.Data) != 3 {
				continue
			}
			micros := uint32(ev.Data[0])<<16 | uint32(ev.Data[1])<<8 | uint32(ev.Data[2])
			if micros == 0 {
				continue
			}
			points = append(points, TempoBreakpoint{Tick: ev.Tick, MicrosPerQN: micros})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Tick < points[j].Tick
	})

	deduped := points[:0]
	for _, p := range points {
		if len(deduped) > 0 && deduped[len(deduped)-1].Tick == p.Tick {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}

	if len(deduped) == 0 {
		deduped = []TempoBreakpoint{{Tick: 0, MicrosPerQN: DefaultTempo}}
	}

	return &TempoMap{breakpoints: deduped, ticksPerQuarter: f.TicksPerQuarter}
}

// Breakpoints exposes the resolved tempo list, for inspection and tests.
func (m *TempoMap) Breakpoints() []TempoBreakpoint {
	return m.breakpoints
}

// Resolve maps an absolute tick to milliseconds, accumulating each completed
// tempo segment then the partial segment under the tempo active at tick.
func (m *TempoMap) Resolve(tick uint64) float64 {
	ms := 0.0
	// Ticks before the first breakpoint run at the default tempo.
	tempo := uint32(DefaultTempo)
	var segStart uint64

	for _, bp := range m.breakpoints {
		if bp.Tick >= tick {
			break
		}
		elapsed := bp.Tick - segStart
		ms += segmentMs(elapsed, tempo, m.ticksPerQuarter)
		segStart = bp.Tick
		tempo = bp.MicrosPerQN
	}

	ms += segmentMs(tick-segStart, tempo, m.ticksPerQuarter)
	return ms
}

// Dividing after the multiply keeps whole-quarter segments exact; the
// factored form elapsed*(micros/tpq/1000) accumulates rounding error.
func segmentMs(elapsedTicks uint64, microsPerQN uint32, ticksPerQuarter uint16) float64 {
	return float64(elapsedTicks) * float64(microsPerQN) / float64(ticksPerQuarter) / 1000.0
}
