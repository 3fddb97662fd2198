package game

// TimedNoteEvent is a note-on or note-off resolved to wall-clock time by the
// tempo map. It is the compiler's working unit between the raw event stream
// and paired notes.
type TimedNoteEvent struct {
	TimeMs   float64
	Pitch    uint8
	Velocity uint8
	Channel  uint8
	On       bool
}
