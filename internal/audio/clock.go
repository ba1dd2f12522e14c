package audio

import "time"

// Clock reports the current song time in ms, including the global offset.
type Clock interface {
	Millis() float64
}

// WallClock follows the system clock, for charts played without audio.
type WallClock struct {
	start  time.Time
	rate   float64
	offset time.Duration
	now    func() time.Time
}

// NewWallClock starts a clock that reaches song time zero after delay.
func NewWallClock(delay time.Duration, rate float64, offset time.Duration) *WallClock {
	return newWallClock(time.Now, delay, rate, offset)
}

func newWallClock(now func() time.Time, delay time.Duration, rate float64, offset time.Duration) *WallClock {
	if rate <= 0 {
		rate = 1
	}
	return &WallClock{start: now().Add(delay), rate: rate, offset: offset, now: now}
}

func (c *WallClock) Millis() float64 {
	elapsed := c.now().Sub(c.start)
	return float64(elapsed)*c.rate/float64(time.Millisecond) + float64(c.offset)/float64(time.Millisecond)
}
