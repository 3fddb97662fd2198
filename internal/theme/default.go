package theme

import (
	"fmt"

	"git.lost.host/meutraa/midfall/internal/engine"
)

type DefaultTheme struct{}

type color struct {
	R, G, B uint8
}

var (
	laneColors = []color{
		{236, 30, 0},
		{0, 118, 236},
		{236, 195, 0},
		{106, 0, 236},
	}
	resultColors = map[engine.Result]color{
		engine.ResultPerfect: {173, 236, 236},
		engine.ResultGreat:   {0, 236, 128},
		engine.ResultGood:    {236, 195, 0},
		engine.ResultMiss:    {236, 30, 0},
	}
)

func paint(c color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func (t *DefaultTheme) RenderNote(lane int, hold bool) string {
	sym := "⬤"
	if hold {
		sym = "▓"
	}
	return paint(laneColors[lane%len(laneColors)], sym)
}

func (t *DefaultTheme) RenderHitField(lane int) string {
	return "-"
}

func (t *DefaultTheme) RenderResult(result engine.Result) string {
	return paint(resultColors[result], result.String())
}
