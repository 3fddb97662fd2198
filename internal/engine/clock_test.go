package engine

import (
	"testing"

	"git.lost.host/meutraa/midfall/internal/game"
	"git.lost.host/meutraa/midfall/internal/testdata"
)

func TestClockAnchorsOnFirstReport(t *testing.T) {
	c := gameClock{driftThresholdMs: 100}
	c.advance(5000)
	if !c.reconcile(1234) {
		t.Fatal("first report must anchor")
	}
	if c.timeMs != 1234 {
		t.Fatal("anchored time", c.timeMs)
	}
}

func TestClockIgnoresJitter(t *testing.T) {
	c := gameClock{driftThresholdMs: 100}
	c.reconcile(1000)

	// Reports inside the threshold are noise; correcting them would wobble
	// the judgment windows.
	if c.reconcile(1060) {
		t.Fatal("jitter under the threshold must not snap")
	}
	if c.timeMs != 1000 {
		t.Fatal("time moved on jitter", c.timeMs)
	}
}

func TestClockSnapsOnDrift(t *testing.T) {
	c := gameClock{driftThresholdMs: 100}
	c.reconcile(1000)
	c.advance(16)

	if !c.reconcile(1300) {
		t.Fatal("drift past the threshold must snap")
	}
	if c.timeMs != 1300 || c.snaps != 1 {
		t.Fatal("snap", c.timeMs, c.snaps)
	}
}

func TestClockIgnoresNegativeDelta(t *testing.T) {
	c := gameClock{driftThresholdMs: 100}
	c.advance(100)
	c.advance(-50)
	if c.timeMs != 100 {
		t.Fatal("negative delta must not rewind", c.timeMs)
	}
}

// The engine extrapolates between reports and snaps when the transport
// disagrees by more than the threshold.
func TestEngineDriftCorrection(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.RequiredPercentMin = 100
	cfg.RequiredPercentMax = 100
	e, err := New([]*game.Chart{chart}, cfg)
	if nil != err {
		t.Fatal(err)
	}
	e.StartTrack(TrackMetadata{Name: "test"})

	zero := 0.0
	e.Update(0, &zero)

	// Extrapolate without reports.
	e.Update(500, nil)
	if e.GameTimeMs() != 500 {
		t.Fatal("extrapolated time", e.GameTimeMs())
	}

	// Small disagreement: ignored.
	report := 550.0
	e.Update(0, &report)
	if e.GameTimeMs() != 500 {
		t.Fatal("jitter corrected", e.GameTimeMs())
	}

	// The transport stalled; we are far ahead and must snap back.
	report = 200.0
	e.Update(0, &report)
	if e.GameTimeMs() != 200 {
		t.Fatal("drift not snapped", e.GameTimeMs())
	}
}
