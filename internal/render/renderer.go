package render

import "time"

type Renderer interface {
	Init() error
	Deinit() error
	AddDecoration(row, col int, content string, frames int)
	RenderLoop(delay time.Duration, render func(now time.Time, duration time.Duration) bool)
	Fill(row, column int, message string)
}
