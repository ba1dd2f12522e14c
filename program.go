package main

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/vsrg/internal/audio"
	"git.lost.host/meutraa/vsrg/internal/config"
	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/input"
	"git.lost.host/meutraa/vsrg/internal/judge"
	"git.lost.host/meutraa/vsrg/internal/parser"
	"git.lost.host/meutraa/vsrg/internal/render"
	"git.lost.host/meutraa/vsrg/internal/scheduler"
	"git.lost.host/meutraa/vsrg/internal/score"
	"git.lost.host/meutraa/vsrg/internal/timeline"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	splashSym    = "▀"
	splashPeriod = 150 * time.Millisecond
	historySize  = 5
)

type Program struct {
	Config   *config.Config
	Parser   parser.Parser
	Scorer   score.Scorer
	Renderer render.Renderer

	audioFile, chartFile string
	charts               []*game.Chart
	chart                *game.Chart

	clock     audio.Clock
	player    *audio.Player
	source    input.Source
	scheduler *scheduler.Scheduler
	engine    *judge.Engine
	processor *score.Processor
	field     *render.Field
	sideCol   int
	last      game.JudgementEvent
	judged    bool
}

// Init finds the chart and song in the configured directory and picks a
// difficulty, prompting on in when none was given.
func (p *Program) Init(in io.Reader, out io.Writer) error {
	// Ensure our Default implementations are used as interfaces
	if p.Parser == nil {
		p.Parser = &parser.DefaultParser{}
	}
	if p.Renderer == nil {
		p.Renderer = &render.DefaultRenderer{}
	}

	if err := p.find(p.Config.Directory); nil != err {
		return err
	}

	var err error
	p.charts, err = p.Parser.Parse(p.chartFile)
	if nil != err {
		return err
	}
	if len(p.charts) == 0 {
		return errors.Errorf("no playable charts in %v", p.chartFile)
	}

	index := p.Config.Difficulty
	if index < 0 {
		if index, err = choose(p.charts, in, out); nil != err {
			return err
		}
	}
	if index >= len(p.charts) {
		return errors.Errorf("difficulty %v does not exist, %v charts available", index, len(p.charts))
	}
	p.chart = p.charts[index]

	if p.Scorer == nil {
		store, err := score.Open(p.Config.Database)
		if nil != err {
			return err
		}
		p.Scorer = store
	}
	return nil
}

func (p *Program) find(directory string) error {
	if err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if nil != err {
			return err
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".sm" {
			p.chartFile = path
			return nil
		}
		for _, e := range audio.Extensions {
			if ext == e {
				p.audioFile = path
			}
		}
		return nil
	}); nil != err {
		return errors.Wrap(err, "unable to walk song directory")
	}

	if p.chartFile == "" {
		return errors.Errorf("unable to find a .sm file in %v", directory)
	}
	if p.audioFile == "" {
		log.WithField("directory", directory).Warn("no audio found, playing without music")
	}
	return nil
}

func choose(charts []*game.Chart, in io.Reader, out io.Writer) (int, error) {
	for i, c := range charts {
		fmt.Fprintf(out, "%2v) %3v  %5v  %v\n", i, c.Difficulty.Msd, humanize.Comma(int64(len(c.Objects))), c.Difficulty.Name)
	}
	var index int
	if _, err := fmt.Fscanln(in, &index); nil != err {
		return 0, errors.Wrap(err, "unable to read difficulty")
	}
	if index < 0 {
		return 0, errors.Errorf("difficulty %v does not exist", index)
	}
	return index, nil
}

// Load builds the play state for the chosen chart and opens audio and input.
func (p *Program) Load() error {
	cfg, err := p.Config.Scheduler()
	if nil != err {
		return err
	}
	cfg.Lanes = p.chart.Lanes()
	if cfg.Lanes == 0 {
		return errors.Errorf("%v has no notes", p.chart.Difficulty.Name)
	}
	cfg.Logger = log.StandardLogger()
	cfg.Handler = p.onJudgement

	p.processor = score.NewProcessor(p.Config.Rate)
	p.scheduler, err = scheduler.New(timeline.BuildForChart(p.chart), p.chart.Objects, cfg)
	if nil != err {
		return err
	}
	p.engine = judge.New(p.scheduler)

	if p.audioFile != "" {
		if p.player, err = audio.Open(p.audioFile); nil != err {
			return err
		}
		p.clock = p.player
	} else {
		p.clock = audio.NewWallClock(p.Config.Delay, p.Config.Rate, p.Config.Offset)
	}

	nKeys := uint8(cfg.Lanes)
	lanes := func(r rune) (int, error) {
		return p.Config.KeyColumn(r, nKeys)
	}
	if p.source, err = input.Open(p.Config.Device, p.clock, lanes); nil != err {
		return errors.Wrap(err, "unable to open input")
	}

	log.WithFields(log.Fields{
		"chart":   p.chartFile,
		"audio":   p.audioFile,
		"notes":   len(p.chart.Objects),
		"lanes":   cfg.Lanes,
		"bpm":     p.scheduler.Timeline().AverageBPM(),
		"version": config.Version,
	}).Info("loaded chart")
	return nil
}

// Run plays the chart until it is finished or the player quits.
func (p *Program) Run() (score.Result, error) {
	rows, columns, err := p.Renderer.Size()
	if nil != err {
		return score.Result{}, errors.Wrap(err, "unable to get terminal size")
	}
	p.field = render.NewField(p.Renderer, rows, columns, p.scheduler.Lanes(), int(p.Config.BarRow), p.Config.ScrollSpeed, p.Config.Pull)
	p.sideCol = p.field.Columns[0] - 36
	if p.sideCol < 2 {
		p.sideCol = 2
	}

	if err := p.Renderer.Init(); nil != err {
		return score.Result{}, errors.Wrap(err, "unable to initialize terminal")
	}
	defer p.Renderer.Deinit()

	if p.player != nil {
		if err := p.player.Play(p.Config.Delay, p.Config.Rate, p.Config.Offset); nil != err {
			return score.Result{}, err
		}
	}

	p.Renderer.RenderLoop(p.Config.FramePeriod, p.update)
	return p.processor.Result(), nil
}

func (p *Program) update() bool {
	if !p.drain() {
		return false
	}
	now := p.clock.Millis()
	p.scheduler.Advance(now)

	p.field.Draw(p.scheduler, p.chart.Measures, now)
	p.renderStats()
	return !p.scheduler.Done()
}

// drain applies the inputs that arrived since the last frame, advancing the
// scheduler to each one's time first.
func (p *Program) drain() bool {
	for {
		select {
		case e, ok := <-p.source.Events():
			if !ok || e.Quit {
				return false
			}
			p.scheduler.Advance(e.Time)
			if _, err := p.engine.Apply(e.Input); nil != err {
				log.WithError(err).WithField("lane", e.Lane).Debug("input ignored")
			}
		default:
			return true
		}
	}
}

func (p *Program) onJudgement(e game.JudgementEvent) {
	p.processor.Apply(e)
	p.last, p.judged = e, true

	if p.field == nil || e.Lane < 1 || e.Lane > len(p.field.Columns) {
		return
	}
	c := render.GradeColor(e.Grade)
	frames := 1
	if p.Config.FramePeriod > 0 {
		frames = int(splashPeriod / p.Config.FramePeriod)
	}
	p.Renderer.AddDecoration(
		p.field.Columns[e.Lane-1], p.field.HitRow+1,
		fmt.Sprintf("\033[38;2;%d;%d;%dm%s\033[0m", c.R, c.G, c.B, splashSym),
		frames,
	)
}

func (p *Program) renderStats() {
	r := p.processor.Result()
	counts := p.scheduler.Counts()
	p.Renderer.Fill(2, p.sideCol, fmt.Sprintf("   Remaining:  %6v", p.scheduler.ObjectsRemaining()))
	p.Renderer.Fill(3, p.sideCol, fmt.Sprintf("      Active:  %6v", counts.Active+counts.Held))
	p.Renderer.Fill(10, p.sideCol, fmt.Sprintf("    Error dt:  %6.0f", r.TotalError))
	p.Renderer.Fill(11, p.sideCol, fmt.Sprintf("       Stdev:  %6.2f", r.Stdev))
	p.Renderer.Fill(12, p.sideCol, fmt.Sprintf("        Mean:  %6.2f", r.Mean))
	p.Renderer.Fill(13, p.sideCol, fmt.Sprintf("       Notes:  %6v", len(p.chart.Objects)))
	p.Renderer.Fill(14, p.sideCol, fmt.Sprintf("       Holds:  %6v", p.chart.HoldCount))
	p.Renderer.Fill(15, p.sideCol, fmt.Sprintf("       Combo:  %6v", r.Combo))
	p.Renderer.Fill(16, p.sideCol, fmt.Sprintf("    Accuracy:  %6.2f%%", r.Accuracy))
	for i, c := range r.Counts {
		g := game.Grade(i)
		p.Renderer.FillColor(18+i, p.sideCol, render.GradeColor(g), fmt.Sprintf("%12v:  %6v", g, c))
	}
	if p.judged {
		p.Renderer.FillColor(25, p.sideCol, render.GradeColor(p.last.Grade),
			fmt.Sprintf("%12v  %+6.1f ms", p.last.Grade, p.last.Error))
	}
}

// Finish saves the result and prints it alongside earlier plays.
func (p *Program) Finish(out io.Writer, result score.Result) error {
	if p.scheduler != nil && !p.scheduler.Done() {
		log.Info("chart abandoned, not saving")
		summarize(out, p.chart, result, nil)
		return nil
	}
	history, err := p.Scorer.Load(p.chart)
	if nil != err {
		return err
	}
	if err := p.Scorer.Save(p.chart, result); nil != err {
		return err
	}
	summarize(out, p.chart, result, history)
	return nil
}

func summarize(out io.Writer, chart *game.Chart, r score.Result, history []score.Result) {
	rate := r.Rate
	if rate <= 0 {
		rate = 1
	}
	length := time.Duration(float64(chart.Length())/rate) * time.Millisecond

	fmt.Fprintf(out, "%v (%v)  %v notes in %v\n",
		chart.Difficulty.Name, chart.Difficulty.Msd,
		humanize.Comma(int64(len(chart.Objects))),
		durafmt.Parse(length).LimitFirstN(2),
	)
	fmt.Fprintf(out, "Accuracy %.2f%%  Max combo %v  Mean %+.2fms  Stdev %.2fms\n",
		r.Accuracy, humanize.Comma(int64(r.MaxCombo)), r.Mean, r.Stdev)
	for i, c := range r.Counts {
		fmt.Fprintf(out, "%12v: %v\n", game.Grade(i), humanize.Comma(int64(c)))
	}

	if len(history) > historySize {
		history = history[:historySize]
	}
	for _, h := range history {
		fmt.Fprintf(out, "%14v  %.2f%%  x%.2f\n", humanize.Time(h.Played), h.Accuracy, h.Rate)
	}
}

// Close releases everything Init and Load opened.
func (p *Program) Close() {
	if p.source != nil {
		if err := p.source.Close(); nil != err {
			log.WithError(err).Warn("unable to close input")
		}
	}
	if p.player != nil {
		if err := p.player.Close(); nil != err {
			log.WithError(err).Warn("unable to close audio")
		}
	}
	if p.Scorer != nil {
		if err := p.Scorer.Close(); nil != err {
			log.WithError(err).Warn("unable to close score database")
		}
	}
}
