package score

import (
	"testing"

	"git.lost.host/meutraa/midfall/internal/game"
	"git.lost.host/meutraa/midfall/internal/testdata"
)

func TestHashChartStable(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal("unable to load test chart", err)
	}
	a := HashChart(chart)
	b := HashChart(chart)
	if a == "" || a != b {
		t.Fatal("hash not stable", a, b)
	}
}

func TestHashChartSensitive(t *testing.T) {
	chart, err := testdata.GetChart()
	if nil != err {
		t.Fatal("unable to load test chart", err)
	}
	original := HashChart(chart)

	edited := *chart
	edited.Notes = append([]game.Note(nil), chart.Notes...)
	edited.Notes[0].Time += 1
	if HashChart(&edited) == original {
		t.Fatal("hash must change when a note moves")
	}
}

func TestBest(t *testing.T) {
	if Best(nil) != nil {
		t.Fatal("no history has no best")
	}
	histories := []History{
		{Score: 100},
		{Score: 900},
		{Score: 500},
	}
	if best := Best(histories); best.Score != 900 {
		t.Fatal("best", best)
	}
}
