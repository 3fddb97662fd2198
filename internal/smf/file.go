package smf

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	headerSig = []byte("MThd")
	trackSig  = []byte("MTrk")
)

// Hard format errors. Everything below track level is recovered, not reported.
var (
	ErrBadSignature      = errors.New("smf: missing MThd signature")
	ErrUnsupportedFormat = errors.New("smf: unsupported format number")
	ErrZeroResolution    = errors.New("smf: zero ticks per quarter note")
)

// File is the decoded container: header fields plus per-track event lists.
type File struct {
	Format          uint16
	TicksPerQuarter uint16
	Tracks          [][]Event

	// TracksDeclared vs len(Tracks) differing means chunk recovery kicked in.
	TracksDeclared uint16
}

// Decode parses a standard MIDI byte stream. A malformed file header is a hard
// failure; a malformed track chunk is recovered by scanning forward for the
// next track signature, so one bad track never aborts the whole decode.
func Decode(data []byte) (*File, error) {
	if len(data) < 14 || !bytes.Equal(data[0:4], headerSig) {
		return nil, ErrBadSignature
	}
	headerLen, _ := ReadU32(data, 4)
	format, _ := ReadU16(data, 8)
	trackCount, _ := ReadU16(data, 10)
	division, _ := ReadU16(data, 12)

	if format > 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if division == 0 || division&0x8000 != 0 {
		// SMPTE divisions have the high bit set; we only handle metrical time.
		return nil, ErrZeroResolution
	}

	f := &File{
		Format:          format,
		TicksPerQuarter: division,
		TracksDeclared:  trackCount,
	}

	// The declared header length is normally 6 but is honored if larger.
	off := 8 + int(headerLen)
	for t := uint16(0); t < trackCount && off < len(data); t++ {
		if off+8 > len(data) || !bytes.Equal(data[off:off+4], trackSig) {
			// Recovery: the expected chunk header is missing or mangled.
			// Resynchronize on the next track signature, or give up on the
			// remaining tracks if there is none.
			next := bytes.Index(data[off:], trackSig)
			if next < 0 {
				break
			}
			off += next
			if off+8 > len(data) {
				break
			}
		}
		length, _ := ReadU32(data, off+4)
		start := off + 8
		end := start + int(length)
		if end > len(data) {
			// Truncated final chunk: parse what is there.
			end = len(data)
		}
		f.Tracks = append(f.Tracks, parseTrackEvents(data[start:end]))
		off = end
	}

	return f, nil
}

// NoteEvents flattens all tracks to just the note on/off events, preserving
// per-track tick order.
func (f *File) NoteEvents() []Event {
	notes := []Event{}
	for _, track := range f.Tracks {
		for _, ev := range track {
			if ev.Kind == EventNoteOn || ev.Kind == EventNoteOff {
				notes = append(notes, ev)
			}
		}
	}
	return notes
}
