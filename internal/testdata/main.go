package testdata

import (
	"encoding/json"

	"git.lost.host/meutraa/midfall/internal/game"
)

// GetChart returns a small four-lane chart used by engine and score tests.
func GetChart() (*game.Chart, error) {
	var chart game.Chart
	if err := json.Unmarshal([]byte(data), &chart); nil != err {
		return nil, err
	}
	return &chart, nil
}

const data = `{
	"Notes": [
		{"Time": 1000, "Lane": 0, "Type": 0, "Velocity": 100, "Pitch": 60},
		{"Time": 1500, "Lane": 1, "Type": 0, "Velocity": 90, "Pitch": 62},
		{"Time": 2000, "Lane": 2, "Type": 0, "Velocity": 80, "Pitch": 64},
		{"Time": 2500, "Lane": 3, "Type": 0, "Velocity": 70, "Pitch": 65},
		{"Time": 3000, "Lane": 0, "Type": 1, "EndTime": 4000, "Velocity": 100, "Pitch": 60},
		{"Time": 3500, "Lane": 1, "Type": 0, "Velocity": 60, "Pitch": 62},
		{"Time": 4500, "Lane": 2, "Type": 0, "Velocity": 50, "Pitch": 64},
		{"Time": 5000, "Lane": 3, "Type": 0, "Velocity": 110, "Pitch": 65},
		{"Time": 5500, "Lane": 0, "Type": 0, "Velocity": 120, "Pitch": 60},
		{"Time": 6000, "Lane": 1, "Type": 0, "Velocity": 40, "Pitch": 62}
	],
	"LaneCount": 4,
	"Difficulty": {"Name": "normal", "Multiplier": 0.75},
	"NoteCount": 10,
	"HoldCount": 1,
	"Source": "testdata"
}`

// GetSMF returns a one-track standard MIDI byte stream: four quarter notes
// C4 E4 G4 C5 at 120 BPM, 480 ticks per quarter.
func GetSMF() []byte {
	return buildSMF(false)
}

// GetSMFCorruptTrack returns a two-track stream whose first chunk signature
// is garbage, for decode-recovery tests: only the second track's events
// should survive.
func GetSMFCorruptTrack() []byte {
	return buildSMF(true)
}

func noteTrack() []byte {
	track := []byte{}
	pitches := []byte{60, 64, 67, 72}
	for i, p := range pitches {
		if i > 0 {
			// 240 ticks gap after the previous note-off
			track = append(track, 0x81, 0x70)
		} else {
			track = append(track, 0x00)
		}
		track = append(track, 0x90, p, 100) // note on
		track = append(track, 0x81, 0x70)   // delta 240
		track = append(track, 0x80, p, 0)   // note off
	}
	return append(track, 0x00, 0xff, 0x2f, 0x00) // end of track
}

func buildSMF(corrupt bool) []byte {
	track := noteTrack()

	trackCount := byte(1)
	if corrupt {
		trackCount = 2
	}

	file := []byte("MThd")
	file = append(file, 0, 0, 0, 6)    // header length
	file = append(file, 0, 0)          // format 0
	file = append(file, 0, trackCount) // track count
	file = append(file, 0x01, 0xe0)    // 480 ticks per quarter

	if corrupt {
		// A mangled first chunk: bad signature, then bytes that never form
		// a valid track.
		file = append(file, "XXXX"...)
		file = append(file, 0xde, 0xad, 0xbe, 0xef)
	}

	file = append(file, "MTrk"...)
	file = append(file, 0, 0, 0, byte(len(track)))
	file = append(file, track...)
	return file
}
