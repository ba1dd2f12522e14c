package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/scheduler"
	"git.lost.host/meutraa/vsrg/internal/timeline"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	Directory   string
	Difficulty  int
	Rate        float64
	Offset      time.Duration
	Delay       time.Duration
	FramePeriod time.Duration
	ScrollSpeed float64 // terminal rows per second of scrolling at rate 1
	Pull        bool
	BarRow      uint

	LookAhead      time.Duration
	RecycleHorizon time.Duration

	Judgements        string
	MissTimeout       time.Duration
	ReleaseWindow     time.Duration
	ReleaseMultiplier float64

	keys4, keys6, keys8 string
	Device              string
	Database            string
	LogLevel            string
}

// Register binds every flag and argument of app to the returned Config,
// which is filled in when app is parsed.
func Register(app *kingpin.Application) *Config {
	c := &Config{}
	app.Version(Version)
	app.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&c.Directory)
	app.Flag("difficulty", "Chart index, prompts when negative").Default("-1").Short('D').IntVar(&c.Difficulty)
	app.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64Var(&c.Rate)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("scroll-speed", "Rows scrolled per second").Default("24").Short('s').Float64Var(&c.ScrollSpeed)
	app.Flag("pull", "Compress distant notes").BoolVar(&c.Pull)
	app.Flag("bar-row", "Console rows from the bottom to render hit bar").Default("4").UintVar(&c.BarRow)
	app.Flag("look-ahead", "How far ahead notes are shown").Default("1500ms").DurationVar(&c.LookAhead)
	app.Flag("recycle-horizon", "How long judged notes stay on screen").Default("300ms").DurationVar(&c.RecycleHorizon)
	app.Flag("judgements", "Judgement windows in ms, best first").Default("16,37,70,100,124").StringVar(&c.Judgements)
	app.Flag("miss-timeout", "Time after a note before it is missed").Default("200ms").DurationVar(&c.MissTimeout)
	app.Flag("release-window", "Long note release window").Default("80ms").DurationVar(&c.ReleaseWindow)
	app.Flag("release-multiplier", "Scale applied to the release window").Default("1.0").Float64Var(&c.ReleaseMultiplier)
	app.Flag("keys-single", "Keys for 4k").Default("dfjk").Short('k').StringVar(&c.keys4)
	app.Flag("keys-solo", "Keys for 6k").Default("sdfjkl").StringVar(&c.keys6)
	app.Flag("keys-double", "Keys for 8k").Default("asdfjkl;").StringVar(&c.keys8)
	app.Flag("device", "evdev keyboard device, reads the terminal when empty").StringVar(&c.Device)
	app.Flag("database", "Score database").Default("./scores.db").StringVar(&c.Database)
	app.Flag("log-level", "Log level").Default("warning").EnumVar(&c.LogLevel, "debug", "info", "warning", "error")
	return c
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Windows parses the judgement table.
func (c *Config) Windows() (game.Windows, error) {
	w := game.DefaultWindows()
	w.Tap = w.Tap[:0:0]
	last := 0.0
	for _, field := range strings.Split(c.Judgements, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if nil != err {
			return w, fmt.Errorf("invalid judgement window %q: %w", field, err)
		}
		if v <= last {
			return w, fmt.Errorf("judgement windows must be ascending, %v after %v", v, last)
		}
		w.Tap = append(w.Tap, v)
		last = v
	}
	if len(w.Tap) > int(game.Miss) {
		return w, fmt.Errorf("at most %d judgement windows, got %d", int(game.Miss), len(w.Tap))
	}
	w.MissTimeout = ms(c.MissTimeout)
	if w.MissTimeout < w.Worst() {
		return w, fmt.Errorf("miss timeout %v is inside the widest window %vms", c.MissTimeout, w.Worst())
	}
	w.Release = ms(c.ReleaseWindow)
	w.ReleaseMultiplier = c.ReleaseMultiplier
	return w, nil
}

func (c *Config) Scheduler() (scheduler.Config, error) {
	w, err := c.Windows()
	if nil != err {
		return scheduler.Config{}, err
	}
	return scheduler.Config{
		LookAhead:      int64(ms(c.LookAhead) * timeline.Scale),
		RecycleHorizon: int64(ms(c.RecycleHorizon) * timeline.Scale),
		Windows:        w,
	}, nil
}

func (c *Config) Keys(nKeys uint8) []rune {
	switch nKeys {
	case 4:
		return []rune(c.keys4)
	case 6:
		return []rune(c.keys6)
	case 8:
		return []rune(c.keys8)
	}
	return []rune(c.keys4)
}

// KeyColumn returns the 1-based lane bound to r.
func (c *Config) KeyColumn(r rune, nKeys uint8) (int, error) {
	for i, k := range c.Keys(nKeys) {
		if r == k {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%q is not bound to a column", r)
}
