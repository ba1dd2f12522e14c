package game

// TempoPoint marks a BPM change at a song time.
type TempoPoint struct {
	StartTime float64 `json:"startTime"` // ms
	BPM       float64 `json:"bpm"`
}

// VelocityPoint is a chart scroll velocity change, before normalization.
type VelocityPoint struct {
	StartTime  float64 `json:"startTime"` // ms
	Multiplier float64 `json:"multiplier"`
}

// HitObject is an immutable chart note. EndTime is zero for taps.
type HitObject struct {
	StartTime int `json:"startTime"` // ms
	EndTime   int `json:"endTime"`   // ms, 0 = not a long note
	Lane      int `json:"lane"`      // 1-based
	Denom     int `json:"denom"`     // beat snap, 1 = on the beat, 2 = half beat, 0 = unknown
}

// IsLong reports whether the object must be held.
func (h HitObject) IsLong() bool {
	return h.EndTime > h.StartTime
}

type Chart struct {
	Tempo      []TempoPoint    `json:"tempo"`
	Velocity   []VelocityPoint `json:"velocity"`
	Objects    []HitObject     `json:"objects"`
	Measures   []Measure       `json:"measures"`
	HoldCount  int64           `json:"holdCount"`
	MineCount  int64           `json:"mineCount"`
	Difficulty Difficulty      `json:"difficulty"`
}

// Lanes returns the key count of the chart, falling back to the highest
// lane used by any object.
func (c *Chart) Lanes() int {
	if c.Difficulty.NKeys != 0 {
		return int(c.Difficulty.NKeys)
	}
	lanes := 0
	for _, o := range c.Objects {
		if o.Lane > lanes {
			lanes = o.Lane
		}
	}
	return lanes
}

// Length is the time of the last note start or release.
func (c *Chart) Length() int {
	end := 0
	for _, o := range c.Objects {
		if o.StartTime > end {
			end = o.StartTime
		}
		if o.EndTime > end {
			end = o.EndTime
		}
	}
	return end
}
