package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"git.lost.host/meutraa/midfall/internal/game"
)

// Structural interchange errors are surfaced so the caller can fall back to
// a binary decode or the generated pattern.
var (
	ErrNoNotes           = errors.New("chart: interchange document has no notes")
	ErrEmptyDifficulties = errors.New("chart: interchange difficulty map is empty")
)

type interchangeNote struct {
	Time     *float64 `json:"time"`
	Lane     int      `json:"lane"`
	Type     string   `json:"type,omitempty"`
	Duration float64  `json:"duration,omitempty"`
	EndTime  float64  `json:"endTime,omitempty"`
	Velocity uint8    `json:"velocity,omitempty"`
	Pitch    uint8    `json:"pitch,omitempty"`
}

type interchangeChart struct {
	Notes []interchangeNote `json:"notes"`
	Lanes int               `json:"lanes,omitempty"`
}

type interchangeDoc struct {
	interchangeChart
	ZeroIndexed       *bool                       `json:"zeroIndexed,omitempty"`
	Difficulties      map[string]interchangeChart `json:"difficulties,omitempty"`
	DefaultDifficulty string                      `json:"defaultDifficulty,omitempty"`
	Metadata          map[string]string           `json:"metadata,omitempty"`
}

// ParseInterchange decodes a pre-baked JSON chart document, bypassing the
// binary decoder and compiler entirely. It returns one chart per difficulty,
// or a single "normal" chart when the document is flat.
func ParseInterchange(data []byte, source string, opts Options) ([]*game.Chart, error) {
	opts = opts.withDefaults()

	var doc interchangeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("chart: unable to parse interchange document: %w", err)
	}

	zeroIndexed := true
	if doc.ZeroIndexed != nil {
		zeroIndexed = *doc.ZeroIndexed
	}

	if doc.Difficulties != nil {
		if len(doc.Difficulties) == 0 {
			return nil, ErrEmptyDifficulties
		}
		names := make([]string, 0, len(doc.Difficulties))
		for name := range doc.Difficulties {
			names = append(names, name)
		}
		sort.Strings(names)

		charts := []*game.Chart{}
		for _, name := range names {
			diff, ok := game.DifficultyByName(name)
			if !ok {
				diff = game.Difficulty{Name: name, Multiplier: 1.0}
			}
			c, err := convertInterchange(doc.Difficulties[name], diff, source, zeroIndexed, opts)
			if err != nil {
				return nil, fmt.Errorf("chart: difficulty %q: %w", name, err)
			}
			charts = append(charts, c)
		}
		return charts, nil
	}

	c, err := convertInterchange(doc.interchangeChart, game.Difficulty{Name: "normal", Multiplier: 1.0}, source, zeroIndexed, opts)
	if err != nil {
		return nil, err
	}
	return []*game.Chart{c}, nil
}

func convertInterchange(ic interchangeChart, difficulty game.Difficulty, source string, zeroIndexed bool, opts Options) (*game.Chart, error) {
	if ic.Notes == nil {
		return nil, ErrNoNotes
	}

	laneCount := ic.Lanes
	if laneCount <= 0 {
		laneCount = opts.LaneCount
	}

	notes := []game.Note{}
	for i, in := range ic.Notes {
		if in.Time == nil {
			log.Printf("chart: dropping note %d of %v: no time field", i, source)
			continue
		}

		lane := in.Lane
		if !zeroIndexed {
			lane--
		}
		// Out-of-range lanes wrap rather than fail; authored charts are often
		// sloppy about their declared lane count.
		lane = ((lane % laneCount) + laneCount) % laneCount

		n := game.Note{
			Time:     *in.Time,
			Lane:     lane,
			Type:     game.NoteTap,
			Velocity: in.Velocity,
			Pitch:    in.Pitch,
		}
		end := in.EndTime
		if end == 0 && in.Duration > 0 {
			end = n.Time + in.Duration
		}
		if in.Type == "hold" || (in.Type == "" && end > n.Time) {
			if end > n.Time {
				n.Type = game.NoteHold
				n.EndTime = end
			}
		}
		notes = append(notes, n)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		return notes[i].Lane < notes[j].Lane
	})

	c := &game.Chart{
		Notes:      notes,
		LaneCount:  laneCount,
		Difficulty: difficulty,
		NoteCount:  len(notes),
		Source:     source,
	}
	for i := range notes {
		if notes[i].Type == game.NoteHold {
			c.HoldCount++
		}
	}
	return c, nil
}
