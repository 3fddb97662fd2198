package chart

import (
	"git.lost.host/meutraa/midfall/internal/game"
	"git.lost.host/meutraa/midfall/internal/smf"
)

// CompileAll decodes a binary stream and compiles one chart per difficulty.
// Only hard header failures propagate; everything below that is recovered or
// replaced by the fallback pattern.
func CompileAll(data []byte, source string, opts Options) ([]*game.Chart, error) {
	f, err := smf.Decode(data)
	if err != nil {
		return nil, err
	}

	tempo := NewTempoMap(f)
	events := ResolveEvents(f, tempo)

	charts := make([]*game.Chart, 0, len(game.Difficulties))
	for _, difficulty := range game.Difficulties {
		charts = append(charts, Compile(events, difficulty, source, opts))
	}
	return charts, nil
}
