package engine

import "math"

type Result uint8

const (
	ResultPerfect Result = iota
	ResultGreat
	ResultGood
	ResultMiss
	resultCount
)

func (r Result) String() string {
	switch r {
	case ResultPerfect:
		return "PERFECT"
	case ResultGreat:
		return "GREAT"
	case ResultGood:
		return "GOOD"
	case ResultMiss:
		return "MISS"
	}
	return "?"
}

// Windows are fixed millisecond radii around a note's true time. Boundaries
// are inclusive into the tighter band: a hit at exactly the PERFECT radius is
// PERFECT. The source material is ambiguous here; inclusive-lower is the rule
// throughout this package.
type Windows struct {
	PerfectMs float64
	GreatMs   float64
	GoodMs    float64
}

// Classify maps an absolute timing distance to a result. ok is false when the
// distance falls outside the outer window and the input should be a no-op.
func (w Windows) Classify(absDiffMs float64) (Result, bool) {
	switch {
	case absDiffMs <= w.PerfectMs:
		return ResultPerfect, true
	case absDiffMs <= w.GreatMs:
		return ResultGreat, true
	case absDiffMs <= w.GoodMs:
		return ResultGood, true
	}
	return ResultMiss, false
}

// Rules hold the scoring and health constants.
type Rules struct {
	BaseScore [resultCount]int64

	ComboStep     int     // combo needed per multiplier increment
	ComboStepSize float64 // multiplier gained per step
	ComboCap      float64 // multiplier ceiling

	HealthDelta [resultCount]float64
	HealthMin   float64
	HealthMax   float64
	HealthStart float64
}

// accuracyRing keeps the most recent signed timing errors for display and
// the mean-error stat. Display only, never consulted by judgment.
type accuracyRing struct {
	samples [64]float64
	next    int
	count   int
}

func (r *accuracyRing) add(v float64) {
	r.samples[r.next] = v
	r.next = (r.next + 1) % len(r.samples)
	if r.count < len(r.samples) {
		r.count++
	}
}

func (r *accuracyRing) mean() float64 {
	if r.count == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < r.count; i++ {
		sum += r.samples[i]
	}
	return sum / float64(r.count)
}

// State is the running judgment state for one track. It is an explicit value
// so the scoring rules are testable without a full engine instance.
type State struct {
	Score    int64
	Combo    int
	MaxCombo int
	Health   float64
	Counts   [resultCount]int

	ring accuracyRing
}

func NewState(rules Rules) State {
	return State{Health: rules.HealthStart}
}

// Multiplier grows stepwise with combo up to the cap.
func (s *State) Multiplier(rules Rules) float64 {
	m := 1.0
	if rules.ComboStep > 0 {
		m += float64(s.Combo/rules.ComboStep) * rules.ComboStepSize
	}
	if m > rules.ComboCap {
		m = rules.ComboCap
	}
	return m
}

// ApplyHit updates combo, score, health and counters for one judged note and
// returns the score and health deltas.
func (s *State) ApplyHit(result Result, signedDiffMs float64, rules Rules) (scoreDelta int64, healthDelta float64) {
	s.Counts[result]++

	// The multiplier in effect is the one earned by the combo entering
	// this hit.
	scoreDelta = int64(math.Round(float64(rules.BaseScore[result]) * s.Multiplier(rules)))
	s.Score += scoreDelta

	if result == ResultMiss {
		s.Combo = 0
	} else {
		s.Combo++
		if s.Combo > s.MaxCombo {
			s.MaxCombo = s.Combo
		}
		s.ring.add(signedDiffMs)
	}

	healthDelta = rules.HealthDelta[result]
	before := s.Health
	s.Health += healthDelta
	if s.Health > rules.HealthMax {
		s.Health = rules.HealthMax
	}
	if s.Health < rules.HealthMin {
		s.Health = rules.HealthMin
	}
	healthDelta = s.Health - before

	return scoreDelta, healthDelta
}

// Accuracy weights each judged note by its base score, as a percentage of a
// full-perfect run. 100 means every note was PERFECT.
func (s *State) Accuracy(rules Rules) float64 {
	total := 0
	var earned, possible int64
	for r := ResultPerfect; r < resultCount; r++ {
		total += s.Counts[r]
		earned += int64(s.Counts[r]) * rules.BaseScore[r]
		possible += int64(s.Counts[r]) * rules.BaseScore[ResultPerfect]
	}
	if possible == 0 {
		return 100
	}
	return 100 * float64(earned) / float64(possible)
}

// MeanErrorMs is the mean signed timing error over the recent-sample ring.
func (s *State) MeanErrorMs() float64 {
	return s.ring.mean()
}
