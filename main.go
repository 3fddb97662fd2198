package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/midfall/internal/chart"
	"git.lost.host/meutraa/midfall/internal/config"
	"git.lost.host/meutraa/midfall/internal/engine"
	"git.lost.host/meutraa/midfall/internal/game"
	"git.lost.host/meutraa/midfall/internal/render"
	"git.lost.host/meutraa/midfall/internal/score"
	"git.lost.host/meutraa/midfall/internal/theme"
	"github.com/eiannone/keyboard"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"golang.org/x/term"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

// loadCharts prefers a pre-baked interchange chart, falls back to compiling
// the binary file, and as a last resort emits the generated pattern.
func loadCharts(jsonFile, midiFile string) ([]*game.Chart, error) {
	opts := config.CompilerOptions()

	if jsonFile != "" {
		data, err := os.ReadFile(jsonFile)
		if nil != err {
			return nil, err
		}
		charts, err := chart.ParseInterchange(data, jsonFile, opts)
		if nil == err {
			return charts, nil
		}
		log.Println("unable to use interchange chart:", err)
	}

	if midiFile != "" {
		data, err := os.ReadFile(midiFile)
		if nil != err {
			return nil, err
		}
		return chart.CompileAll(data, midiFile, opts)
	}

	if jsonFile != "" {
		charts := []*game.Chart{}
		for _, d := range game.Difficulties {
			charts = append(charts, chart.Fallback(d, jsonFile, opts))
		}
		return charts, nil
	}

	return nil, errors.New("unable to find .mid or .json chart in given directory")
}

func run() error {
	var r render.Renderer = &render.DefaultRenderer{FramePeriod: *config.FramePeriod}
	var th theme.Theme = &theme.DefaultTheme{}
	var scorer score.Scorer = &score.DefaultScorer{}

	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()

	var mp3File, midiFile, jsonFile string
	if err := filepath.Walk(*config.Directory, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".mp3":
			mp3File = p
		case ".mid", ".midi":
			midiFile = p
		case ".json":
			jsonFile = p
		}
		return nil
	}); nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}
	if mp3File == "" {
		return errors.New("unable to find .mp3 file in given directory")
	}

	charts, err := loadCharts(jsonFile, midiFile)
	if nil != err {
		return err
	}

	if err := scorer.Init(); nil != err {
		return err
	}
	defer scorer.Deinit()

	eng, err := engine.New(charts, config.EngineConfig())
	if nil != err {
		return err
	}
	if err := eng.SetDifficulty(*config.Difficulty); nil != err {
		return err
	}
	if best := score.Best(scorer.Load(eng.Chart())); nil != best {
		log.Printf("previous best: %v (%.2f%%)\n", best.Score, best.Accuracy)
	}

	f, err := os.Open(mp3File)
	if nil != err {
		return err
	}
	streamer, format, err := mp3.Decode(f)
	if nil != err {
		return err
	}
	defer streamer.Close()

	sr := beep.SampleRate(math.Round(float64(format.SampleRate) * (*config.Rate)))
	if err := speaker.Init(sr, format.SampleRate.N(time.Second/60)); nil != err {
		return err
	}

	if err := r.Init(); nil != err {
		return err
	}
	defer r.Deinit()

	go func() {
		time.Sleep(*config.Delay)
		speaker.Play(streamer)
	}()

	laneCount := eng.Chart().LaneCount
	mc := columns >> 1
	spacing := 6
	laneCol := func(lane int) int {
		return mc + (2*lane-laneCount+1)*spacing/2
	}
	barRow := rows - 8
	sideCol := laneCol(0) - 36
	if sideCol < 2 {
		sideCol = 2
	}

	events := eng.StartTrack(engine.TrackMetadata{Name: path.Base(*config.Directory)})

	lastFrame := time.Time{}
	prevRows := map[*engine.ActiveNote]int{}
	var trackResult *engine.TrackCompleteEvent

	r.RenderLoop(*config.Delay, func(now time.Time, duration time.Duration) bool {
		deltaMs := 0.0
		if !lastFrame.IsZero() {
			deltaMs = float64(now.Sub(lastFrame)) / float64(time.Millisecond)
		}
		lastFrame = now

		// Inputs first, so a hit lands against the clock it raced, not one
		// advanced past it.
		for i := 0; i < len(keyChannel); i++ {
			key := <-keyChannel
			if key.Key == keyboard.KeyEsc {
				events = append(events, eng.Abort()...)
				continue
			}
			lane := config.KeyLane(key.Rune)
			if lane < 0 || lane >= laneCount {
				continue
			}
			events = append(events, eng.HandleLaneHit(lane, math.NaN())...)
		}

		// The speaker owns the real clock; the engine reconciles its own
		// extrapolation against this report.
		var audioPos *float64
		if duration >= 0 {
			speaker.Lock()
			pos := streamer.Position()
			speaker.Unlock()
			// Position() counts samples at the decoded rate, so D() yields
			// music time; wall time divides out the playback rate, matching
			// the compiled chart times.
			ms := float64(format.SampleRate.D(pos)+*config.Offset) / float64(time.Millisecond)
			ms /= *config.Rate
			audioPos = &ms
		}

		events = append(events, eng.Update(deltaMs, audioPos)...)

		for _, ev := range events {
			switch ev := ev.(type) {
			case engine.HitEvent:
				r.AddDecoration(barRow-2, laneCol(ev.Lane)-3, th.RenderResult(ev.Result), 60)
			case engine.TrackCompleteEvent:
				res := ev
				trackResult = &res
			}
		}
		events = nil

		if trackResult != nil {
			return false
		}

		// Hit bar
		for lane := 0; lane < laneCount; lane++ {
			r.Fill(barRow, laneCol(lane), th.RenderHitField(lane))
		}

		// Notes fall from the top of the field to the hit bar as their
		// spawn progress goes 0 to 1.
		seen := map[*engine.ActiveNote]bool{}
		for _, an := range eng.ActiveNotes() {
			seen[an] = true
			row := 1 + int(an.Progress*float64(barRow-1))
			if prev, ok := prevRows[an]; ok && prev != row && prev < barRow {
				r.Fill(prev, laneCol(an.Note.Lane), " ")
			}
			prevRows[an] = row
			if row < barRow {
				r.Fill(row, laneCol(an.Note.Lane), th.RenderNote(an.Note.Lane, an.Note.Type == game.NoteHold))
			}
		}
		for an, row := range prevRows {
			if !seen[an] {
				if row < barRow {
					r.Fill(row, laneCol(an.Note.Lane), " ")
				}
				delete(prevRows, an)
			}
		}

		st := eng.Judgment()
		r.Fill(10, sideCol, fmt.Sprintf("      Score:  %8v", st.Score))
		r.Fill(11, sideCol, fmt.Sprintf("      Combo:  %8v", st.Combo))
		r.Fill(12, sideCol, fmt.Sprintf("     Health:  %8.0f", st.Health))
		r.Fill(13, sideCol, fmt.Sprintf("   Mean err:  %6.1fms", st.MeanErrorMs()))
		for res := engine.ResultPerfect; res <= engine.ResultMiss; res++ {
			r.Fill(15+int(res), sideCol, fmt.Sprintf("%11v:  %6v", res, st.Counts[res]))
		}
		return true
	})

	events = append(events, eng.EndSession()...)

	if err := r.Deinit(); nil != err {
		log.Println("unable to restore terminal", err)
	}

	if trackResult != nil {
		if !trackResult.Aborted {
			scorer.Save(eng.Chart(), *trackResult, *config.Rate)
		}
		fmt.Printf("played %.1f%% (required %.1f%%), accuracy %.2f%%, score %v, max combo %v\n",
			trackResult.PlayedPercent, trackResult.RequiredPercent,
			trackResult.Accuracy, trackResult.Score, trackResult.MaxCombo)
	}
	for _, ev := range events {
		if s, ok := ev.(engine.SessionCompleteEvent); ok {
			fmt.Printf("session: %v track(s), %v completed, score %v, mean accuracy %.2f%%\n",
				s.TracksPlayed, s.TracksCompleted, s.Score, s.MeanAccuracy)
		}
	}
	return nil
}
