package config

import (
	"time"

	"git.lost.host/meutraa/midfall/internal/chart"
	"git.lost.host/meutraa/midfall/internal/engine"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory   = kingpin.Arg("directory", "Song directory (.mid or .json chart + .mp3)").Required().ExistingDir()
	Rate        = kingpin.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64()
	Offset      = kingpin.Flag("offset", "Global audio offset").Default("0ms").Short('o').Duration()
	Delay       = kingpin.Flag("delay", "Start delay").Default("1.5s").Short('d').Duration()
	Difficulty  = kingpin.Flag("difficulty", "Chart difficulty").Default("normal").Short('D').Enum("easy", "normal", "hard")
	Lanes       = kingpin.Flag("lanes", "Lane count").Default("4").Short('l').Int()
	Lookahead   = kingpin.Flag("lookahead", "Note spawn lookahead").Default("2s").Duration()
	FramePeriod = kingpin.Flag("frame-period", "Render frame period").Default("8ms").Short('p').Duration()
	keys        = kingpin.Flag("keys", "Lane keys").Default("dfjk").Short('k').String()

	perfect = kingpin.Flag("perfect", "Perfect window radius").Default("20ms").Duration()
	great   = kingpin.Flag("great", "Great window radius").Default("50ms").Duration()
	good    = kingpin.Flag("good", "Good window radius").Default("100ms").Duration()
)

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}

func Keys() []rune {
	return []rune(*keys)
}

// KeyLane maps a pressed rune to its lane, or -1.
func KeyLane(r rune) int {
	for i, c := range Keys() {
		if r == c {
			return i
		}
	}
	return -1
}

// EngineConfig assembles the judgment engine configuration from the flags.
func EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.LookaheadMs = float64(Lookahead.Milliseconds())
	cfg.Windows = engine.Windows{
		PerfectMs: float64(perfect.Milliseconds()),
		GreatMs:   float64(great.Milliseconds()),
		GoodMs:    float64(good.Milliseconds()),
	}
	cfg.Seed = time.Now().UnixNano()
	return cfg
}

// CompilerOptions assembles the chart compiler options from the flags.
func CompilerOptions() chart.Options {
	return chart.Options{
		LaneCount: *Lanes,
		Rate:      *Rate,
	}
}
