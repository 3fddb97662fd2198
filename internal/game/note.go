package game

// NoteType distinguishes instantaneous taps from duration-bearing holds.
type NoteType uint8

const (
	NoteTap NoteType = iota
	NoteHold
)

type Note struct {
	Time     float64 // The time the note should be hit, in ms
	EndTime  float64 // Hold release time in ms, 0 for taps
	Lane     int     // The chart column, 0..LaneCount-1
	Type     NoteType
	Pitch    uint8
	Velocity uint8
	Channel  uint8
}

// EffectiveEnd is the time this note stops occupying its lane.
func (n *Note) EffectiveEnd() float64 {
	if n.Type == NoteHold {
		return n.EndTime
	}
	return n.Time
}

// Duration is 0 for taps.
func (n *Note) Duration() float64 {
	if n.Type == NoteHold {
		return n.EndTime - n.Time
	}
	return 0
}
