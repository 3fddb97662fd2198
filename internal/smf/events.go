package smf

// EventKind tags a decoded track event. Raw events carry only the fields valid
// for their kind; meta payloads beyond the recognized subtypes are kept as raw
// bytes.
type EventKind uint8

const (
	EventNoteOn EventKind = iota
	EventNoteOff
	EventMeta
	EventSysEx
	EventOther // channel events we step over but do not model
)

// Meta subtypes we recognize; everything else is retained with its raw length.
const (
	MetaTempo         = 0x51
	MetaTimeSignature = 0x58
	MetaEndOfTrack    = 0x2f
)

type Event struct {
	Kind     EventKind
	Tick     uint64 // absolute, monotonic within a track
	Channel  uint8
	Pitch    uint8
	Velocity uint8

	MetaType byte
	Data     []byte
}

// dataByteCount returns how many data bytes follow a channel status byte.
// Program change (0xC0) and channel pressure (0xD0) carry one, all others two.
func dataByteCount(status byte) int {
	switch status & 0xf0 {
	case 0xc0, 0xd0:
		return 1
	}
	return 2
}

// parseTrackEvents decodes one track's event stream into a flat event list.
// It never fails: any malformed read ends the track early with whatever
// events were collected so far.
func parseTrackEvents(buf []byte) []Event {
	events := []Event{}
	var tick uint64
	var running byte
	off := 0

	for off < len(buf) {
		delta, n := ReadVLQ(buf, off)
		if n == 0 {
			break
		}
		off += n
		tick += uint64(delta)

		if off >= len(buf) {
			break
		}
		status := buf[off]

		switch {
		case status == 0xff:
			off++
			if off >= len(buf) {
				return events
			}
			metaType := buf[off]
			off++
			length, n := ReadVLQ(buf, off)
			if n == 0 || off+n+int(length) > len(buf) {
				return events
			}
			off += n
			payload := buf[off : off+int(length)]
			off += int(length)
			events = append(events, Event{
				Kind:     EventMeta,
				Tick:     tick,
				MetaType: metaType,
				Data:     payload,
			})
			if metaType == MetaEndOfTrack {
				return events
			}

		case status == 0xf0 || status == 0xf7:
			off++
			length, n := ReadVLQ(buf, off)
			if n == 0 || off+n+int(length) > len(buf) {
				return events
			}
			off += n + int(length)
			events = append(events, Event{Kind: EventSysEx, Tick: tick})

		default:
			// Channel event. A leading byte below 0x80 reuses the running
			// status and the data bytes start immediately.
			if status < 0x80 {
				if running == 0 {
					return events
				}
				status = running
			} else {
				running = status
				off++
			}

			count := dataByteCount(status)
			if off+count > len(buf) {
				return events
			}
			d0 := buf[off]
			var d1 byte
			if count == 2 {
				d1 = buf[off+1]
			}
			off += count

			ev := Event{
				Tick:    tick,
				Channel: status & 0x0f,
			}
			switch status & 0xf0 {
			case 0x90:
				ev.Pitch, ev.Velocity = d0, d1
				// Note-on with velocity zero is semantically a note-off.
				if d1 == 0 {
					ev.Kind = EventNoteOff
				} else {
					ev.Kind = EventNoteOn
				}
			case 0x80:
				ev.Kind = EventNoteOff
				ev.Pitch, ev.Velocity = d0, d1
			default:
				ev.Kind = EventOther
			}
			events = append(events, ev)
		}
	}
	return events
}
