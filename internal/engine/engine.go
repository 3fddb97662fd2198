package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"git.lost.host/meutraa/midfall/internal/game"
)

// TrackState is the per-track lifecycle. Running holds all active-note
// bookkeeping; Completed requires no further external calls.
type TrackState uint8

const (
	StateIdle TrackState = iota
	StateRunning
	StateCompleted
)

// ActiveNote wraps a spawned note for the duration of its visibility.
// Progress is display-only and never gates judgment.
type ActiveNote struct {
	Note      *game.Note
	SpawnTime float64
	Hit       bool
	Missed    bool
	Progress  float64
}

type Config struct {
	LookaheadMs      float64
	Windows          Windows
	MissWindowMs     float64 // defaults to the GOOD radius
	GraceMs          float64 // extra time an expired note lingers before eviction
	DriftThresholdMs float64
	Rules            Rules

	RequiredPercentMin float64
	RequiredPercentMax float64

	Seed int64 // for the per-track required-percent draw
}

func DefaultConfig() Config {
	return Config{
		LookaheadMs:      2000,
		Windows:          Windows{PerfectMs: 20, GreatMs: 50, GoodMs: 100},
		GraceMs:          200,
		DriftThresholdMs: 100,
		Rules: Rules{
			BaseScore:     [resultCount]int64{300, 200, 100, 0},
			ComboStep:     25,
			ComboStepSize: 0.25,
			ComboCap:      2.0,
			HealthDelta:   [resultCount]float64{2, 1, 0, -5},
			HealthMin:     0,
			HealthMax:     100,
			HealthStart:   50,
		},
		RequiredPercentMin: 70,
		RequiredPercentMax: 90,
	}
}

func (c Config) withDefaults() Config {
	if c.MissWindowMs == 0 {
		c.MissWindowMs = c.Windows.GoodMs
	}
	return c
}

type TrackMetadata struct {
	Name string
}

// session aggregates survive track resets.
type session struct {
	tracksPlayed    int
	tracksCompleted int
	score           int64
	accuracySum     float64
}

// Engine judges live input against a compiled chart while tracking an
// external audio clock. One instance per play session; its public surface is
// not reentrant and callers must serialize access.
type Engine struct {
	cfg    Config
	charts []*game.Chart
	chart  *game.Chart

	state  TrackState
	track  TrackMetadata
	clock  gameClock
	rng    *rand.Rand
	sess   session

	cursor   int // next unspawned note, monotonic
	active   []*ActiveNote
	judgment State

	requiredPercent float64
	durationMs      float64
}

// New constructs an engine over one chart per difficulty. The chart set is
// read-only and may be shared with a renderer.
func New(charts []*game.Chart, cfg Config) (*Engine, error) {
	if len(charts) == 0 {
		return nil, errors.New("engine: no charts")
	}
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:    cfg,
		charts: charts,
		chart:  charts[0],
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, c := range charts {
		if c.Difficulty.Name == "normal" {
			e.chart = c
		}
	}
	return e, nil
}

func (e *Engine) State() TrackState          { return e.state }
func (e *Engine) Chart() *game.Chart         { return e.chart }
func (e *Engine) Judgment() State            { return e.judgment }
func (e *Engine) GameTimeMs() float64        { return e.clock.timeMs }
func (e *Engine) ActiveNotes() []*ActiveNote { return e.active }

// SetDifficulty switches the chart for the next track. Rejected mid-track;
// the running chart is immutable state.
func (e *Engine) SetDifficulty(name string) error {
	if e.state == StateRunning {
		return errors.New("engine: cannot change difficulty mid-track")
	}
	for _, c := range e.charts {
		if c.Difficulty.Name == name {
			e.chart = c
			return nil
		}
	}
	return fmt.Errorf("engine: no chart for difficulty %q", name)
}

// StartTrack resets per-track state and draws this track's required coverage.
func (e *Engine) StartTrack(meta TrackMetadata) []Event {
	e.track = meta
	e.state = StateRunning
	e.clock.reset()
	e.clock.driftThresholdMs = e.cfg.DriftThresholdMs
	e.cursor = 0
	e.active = e.active[:0]
	e.judgment = NewState(e.cfg.Rules)
	e.durationMs = e.chart.DurationMs()

	span := e.cfg.RequiredPercentMax - e.cfg.RequiredPercentMin
	e.requiredPercent = e.cfg.RequiredPercentMin
	if span > 0 {
		e.requiredPercent += e.rng.Float64() * span
	}

	return []Event{TrackStartEvent{
		Track:           meta.Name,
		Difficulty:      e.chart.Difficulty.Name,
		NoteCount:       e.chart.NoteCount,
		RequiredPercent: e.requiredPercent,
	}}
}

// Update advances the engine one frame. audioPosMs is the external transport
// position when a fresh report is available, else nil.
func (e *Engine) Update(deltaMs float64, audioPosMs *float64) []Event {
	if e.state != StateRunning {
		return nil
	}

	e.clock.advance(deltaMs)
	if audioPosMs != nil {
		e.clock.reconcile(*audioPosMs)
	}
	now := e.clock.timeMs

	e.spawnNotes(now)
	events := e.checkMissedNotes(now)
	e.updateNotes(now)
	events = append(events, e.checkTrackCompletion(now)...)
	return events
}

// spawnNotes promotes notes inside the lookahead window. The cursor only
// moves forward, so already-spawned notes are never rescanned.
func (e *Engine) spawnNotes(now float64) {
	for e.cursor < len(e.chart.Notes) {
		n := &e.chart.Notes[e.cursor]
		if n.Time > now+e.cfg.LookaheadMs {
			break
		}
		e.active = append(e.active, &ActiveNote{Note: n, SpawnTime: now})
		e.cursor++
	}
}

// updateNotes refreshes display progress and evicts notes that are well past
// judgment. Eviction is cleanup, independent of the miss judgment itself.
func (e *Engine) updateNotes(now float64) {
	kept := e.active[:0]
	for _, an := range e.active {
		if e.cfg.LookaheadMs > 0 {
			p := (now - an.SpawnTime) / e.cfg.LookaheadMs
			an.Progress = math.Max(0, math.Min(1, p))
		}
		expired := now-an.Note.EffectiveEnd() > e.cfg.MissWindowMs+e.cfg.GraceMs
		if an.Hit || (an.Missed && expired) {
			continue
		}
		kept = append(kept, an)
	}
	e.active = kept
}

// checkMissedNotes judges each expired, unhit note MISS exactly once.
func (e *Engine) checkMissedNotes(now float64) []Event {
	events := []Event{}
	for _, an := range e.active {
		if an.Hit || an.Missed {
			continue
		}
		if now-an.Note.Time <= e.cfg.MissWindowMs {
			continue
		}
		an.Missed = true
		_, healthDelta := e.judgment.ApplyHit(ResultMiss, 0, e.cfg.Rules)
		events = append(events, HitEvent{
			Result: ResultMiss,
			Lane:   an.Note.Lane,
			Combo:  e.judgment.Combo,
		})
		if healthDelta != 0 {
			events = append(events, HealthEvent{Health: e.judgment.Health, Delta: healthDelta})
		}
	}
	return events
}

// HandleLaneHit matches an input event against the closest eligible note in
// the lane. No candidate inside the outer window means the input is a no-op;
// misses only arise from time expiry.
func (e *Engine) HandleLaneHit(lane int, inputTimeMs float64) []Event {
	if e.state != StateRunning {
		return nil
	}
	if math.IsNaN(inputTimeMs) {
		inputTimeMs = e.clock.timeMs
	}

	var best *ActiveNote
	bestAbs := math.Inf(1)
	bestDiff := 0.0
	for _, an := range e.active {
		if an.Hit || an.Missed || an.Note.Lane != lane {
			continue
		}
		diff := inputTimeMs - an.Note.Time
		abs := math.Abs(diff)
		if abs < bestAbs || (abs == bestAbs && best != nil && an.Note.Time < best.Note.Time) {
			best, bestAbs, bestDiff = an, abs, diff
		}
	}

	if best == nil {
		return nil
	}
	result, ok := e.cfg.Windows.Classify(bestAbs)
	if !ok {
		return nil
	}

	best.Hit = true
	scoreDelta, healthDelta := e.judgment.ApplyHit(result, bestDiff, e.cfg.Rules)

	events := []Event{HitEvent{
		Result:     result,
		Lane:       lane,
		TimeDiffMs: bestDiff,
		Score:      scoreDelta,
		Combo:      e.judgment.Combo,
	}}
	if healthDelta != 0 {
		events = append(events, HealthEvent{Health: e.judgment.Health, Delta: healthDelta})
	}
	return events
}

// checkTrackCompletion ends the track once played coverage reaches this
// track's required percentage. Completion is a coverage threshold, not
// "played every note".
func (e *Engine) checkTrackCompletion(now float64) []Event {
	if e.durationMs <= 0 {
		return nil
	}
	played := 100 * now / e.durationMs
	if played < e.requiredPercent {
		return nil
	}
	return e.complete(false, played)
}

// Abort ends the track immediately, e.g. on navigation away. The engine
// reaches Completed without requiring further calls.
func (e *Engine) Abort() []Event {
	if e.state != StateRunning {
		return nil
	}
	played := 0.0
	if e.durationMs > 0 {
		played = 100 * e.clock.timeMs / e.durationMs
	}
	return e.complete(true, played)
}

func (e *Engine) complete(aborted bool, played float64) []Event {
	e.state = StateCompleted
	e.active = e.active[:0]

	accuracy := e.judgment.Accuracy(e.cfg.Rules)
	e.sess.tracksPlayed++
	if !aborted {
		e.sess.tracksCompleted++
	}
	e.sess.score += e.judgment.Score
	e.sess.accuracySum += accuracy

	if played > 100 {
		played = 100
	}
	return []Event{TrackCompleteEvent{
		Track:           e.track.Name,
		Aborted:         aborted,
		PlayedPercent:   played,
		RequiredPercent: e.requiredPercent,
		Accuracy:        accuracy,
		MeanErrorMs:     e.judgment.MeanErrorMs(),
		Score:           e.judgment.Score,
		MaxCombo:        e.judgment.MaxCombo,
		Counts:          e.judgment.Counts,
	}}
}

// Reset returns the engine to Idle, keeping session aggregates.
func (e *Engine) Reset() {
	if e.state == StateRunning {
		e.Abort()
	}
	e.state = StateIdle
	e.active = e.active[:0]
	e.cursor = 0
}

// EndSession emits the aggregate result for all tracks played so far.
func (e *Engine) EndSession() []Event {
	if e.state == StateRunning {
		// An open track counts as aborted.
		e.Abort()
	}
	mean := 0.0
	if e.sess.tracksPlayed > 0 {
		mean = e.sess.accuracySum / float64(e.sess.tracksPlayed)
	}
	ev := SessionCompleteEvent{
		TracksPlayed:    e.sess.tracksPlayed,
		TracksCompleted: e.sess.tracksCompleted,
		Score:           e.sess.score,
		MeanAccuracy:    mean,
	}
	e.sess = session{}
	e.state = StateIdle
	return []Event{ev}
}
