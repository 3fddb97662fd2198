package engine

// Engine output is an event slice returned from Update and HandleLaneHit.
// Consumers (renderer, score history) pull from the returned slice; the
// engine holds no registered listeners.

type Event interface {
	isEvent()
}

type TrackStartEvent struct {
	Track           string
	Difficulty      string
	NoteCount       int
	RequiredPercent float64
}

type HitEvent struct {
	Result     Result
	Lane       int
	TimeDiffMs float64 // signed, negative means early
	Score      int64
	Combo      int
}

type HealthEvent struct {
	Health float64
	Delta  float64
}

type TrackCompleteEvent struct {
	Track           string
	Aborted         bool
	PlayedPercent   float64
	RequiredPercent float64
	Accuracy        float64
	MeanErrorMs     float64
	Score           int64
	MaxCombo        int
	Counts          [resultCount]int
}

type SessionCompleteEvent struct {
	TracksPlayed    int
	TracksCompleted int
	Score           int64
	MeanAccuracy    float64
}

func (TrackStartEvent) isEvent()      {}
func (HitEvent) isEvent()             {}
func (HealthEvent) isEvent()          {}
func (TrackCompleteEvent) isEvent()   {}
func (SessionCompleteEvent) isEvent() {}
