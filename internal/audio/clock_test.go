package audio

import (
	"testing"
	"time"

	"github.com/faiface/beep"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time {
	return f.t
}

var wallTests = []struct {
	Delay   time.Duration
	Rate    float64
	Offset  time.Duration
	Elapsed time.Duration
	Millis  float64
}{
	{time.Second, 1, 0, 0, -1000},
	{time.Second, 1, 0, 1500 * time.Millisecond, 500},
	{0, 2, 0, time.Second, 2000},
	{0, 1, -30 * time.Millisecond, time.Second, 970},
	{0, 0, 0, time.Second, 1000},
}

func TestWallClock(t *testing.T) {
	for _, test := range wallTests {
		f := &fakeTime{t: time.Unix(1000, 0)}
		c := newWallClock(f.now, test.Delay, test.Rate, test.Offset)
		f.t = f.t.Add(test.Elapsed)
		if m := c.Millis(); m != test.Millis {
			t.Errorf("%+v: got %v", test, m)
		}
	}
}

func TestInterpolate(t *testing.T) {
	f := &fakeTime{t: time.Unix(1000, 0)}
	p := &Player{format: beep.Format{SampleRate: 44100}, now: f.now}
	p.wall = newWallClock(f.now, 0, 1, 10*time.Millisecond)
	p.position = 44100
	p.seen = f.t

	if m := p.interpolate(f.t.Add(5 * time.Millisecond)); m != 1015 {
		t.Error("expected 1015, got", m)
	}
	// never runs further ahead than a buffer
	if m := p.interpolate(f.t.Add(time.Second)); m > 1010+1000.0/60+1e-6 {
		t.Error("ran ahead of the speaker", m)
	}
}

func TestMillisWhileStarting(t *testing.T) {
	f := &fakeTime{t: time.Unix(1000, 0)}
	p := &Player{format: beep.Format{SampleRate: 44100}, now: f.now}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// input sources read the clock before the song is started
		for i := 0; i < 1000; i++ {
			p.Millis()
		}
	}()
	p.start(time.Hour, 1, 0)
	<-done

	if m := p.Millis(); m != -float64(time.Hour/time.Millisecond) {
		t.Error("expected the clock to count down to the song, got", m)
	}
}

func TestUnsupported(t *testing.T) {
	if _, err := Open("song.flac"); nil == err {
		t.Error("expected a missing file to error")
	}
}
