package theme

import "git.lost.host/meutraa/midfall/internal/engine"

type Theme interface {
	RenderNote(lane int, hold bool) string
	RenderHitField(lane int) string
	RenderResult(result engine.Result) string
}
