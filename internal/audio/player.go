package audio

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Player plays a song through the speaker and is the game clock while it does.
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	wall     *WallClock

	mu       sync.Mutex
	playing  bool
	position int       // samples, as last seen
	seen     time.Time // when position was last seen to change
	now      func() time.Time
}

// Extensions that Open can decode.
var Extensions = []string{".mp3", ".ogg", ".wav"}

func Open(file string) (*Player, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open audio")
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, errors.Errorf("unsupported audio file %v", file)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "unable to decode %v", file)
	}

	return &Player{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer},
		now:      time.Now,
	}, nil
}

// Play starts the song after delay. A rate above 1 plays it faster.
func (p *Player) Play(delay time.Duration, rate float64, offset time.Duration) error {
	if rate <= 0 {
		rate = 1
	}
	sr := beep.SampleRate(float64(p.format.SampleRate) * rate)
	if err := speaker.Init(sr, sr.N(time.Second/60)); nil != err {
		return errors.Wrap(err, "unable to initialize speaker")
	}
	p.start(delay, rate, offset)
	return nil
}

// start runs the wall clock and queues the song to play once it reaches zero.
func (p *Player) start(delay time.Duration, rate float64, offset time.Duration) {
	wall := newWallClock(p.now, delay, rate, offset)
	p.mu.Lock()
	p.wall = wall
	p.mu.Unlock()

	time.AfterFunc(delay, func() {
		p.mu.Lock()
		p.playing = true
		p.seen = p.now()
		p.mu.Unlock()
		speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
			p.mu.Lock()
			p.playing = false
			p.mu.Unlock()
		})))
	})
}

// Millis counts down to zero until the song starts, then follows the
// speaker, smoothed over the speaker's buffer by the wall clock.
func (p *Player) Millis() float64 {
	p.mu.Lock()
	wall, playing := p.wall, p.playing
	p.mu.Unlock()
	if wall == nil {
		return 0
	}
	if !playing {
		return wall.Millis()
	}

	speaker.Lock()
	position := p.streamer.Position()
	speaker.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if position != p.position {
		p.position = position
		p.seen = now
	}
	return p.interpolate(now)
}

func (p *Player) interpolate(now time.Time) float64 {
	base := p.format.SampleRate.D(p.position)
	since := time.Duration(float64(now.Sub(p.seen)) * p.wall.rate)
	if limit := time.Second / 60; since > limit {
		since = limit
	}
	return float64(base+since+p.wall.offset) / float64(time.Millisecond)
}

// Length of the song at rate 1.
func (p *Player) Length() time.Duration {
	return p.format.SampleRate.D(p.streamer.Len())
}

func (p *Player) Close() error {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	return p.streamer.Close()
}
