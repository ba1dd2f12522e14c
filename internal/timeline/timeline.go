// Package timeline turns a chart's tempo and scroll velocity points into a
// single piecewise-linear mapping from song time to scroll distance.
package timeline

import (
	"errors"
	"math"
	"sort"

	"git.lost.host/meutraa/vsrg/internal/game"
)

const (
	// Track units scrolled per ms at rate 1
	Scale = 100

	// Points closer than this are treated as one boundary
	MergeTolerance = 1.0

	MaxRate = 1000.0
	MinRate = -1000.0

	DefaultBPM = 120.0
)

var ErrNotBuilt = errors.New("timeline: position queried before build")

type Segment struct {
	StartTime float64 // ms
	Rate      float64
	Offset    int64 // track position at StartTime
}

type Timeline struct {
	segments   []Segment
	averageBPM float64
}

// Build normalizes the points using only the gaps between tempo points to
// pick the dominant BPM.
func Build(tempo []game.TempoPoint, velocity []game.VelocityPoint) *Timeline {
	return build(tempo, velocity, 0)
}

// BuildForChart also counts the final tempo point's span up to the end of
// the chart when picking the dominant BPM.
func BuildForChart(c *game.Chart) *Timeline {
	return build(c.Tempo, c.Velocity, float64(c.Length()))
}

func build(rawTempo []game.TempoPoint, rawVelocity []game.VelocityPoint, end float64) *Timeline {
	tempo := normalizeTempo(rawTempo)
	avg := averageBPM(tempo, end)

	// Even without velocity points every tempo point gets a segment scaled by
	// its BPM, so one tempo point and no velocity is a single rate 1 segment.
	points := mergeVelocity(tempo, normalizeVelocity(tempo, rawVelocity))

	segments := make([]Segment, len(points))
	for i, p := range points {
		rate := p.Multiplier * localBPM(tempo, p.StartTime) / avg
		if rate > MaxRate {
			rate = MaxRate
		} else if rate < MinRate {
			rate = MinRate
		}
		segments[i] = Segment{StartTime: p.StartTime, Rate: rate}
		if i > 0 {
			prev := segments[i-1]
			segments[i].Offset = prev.Offset + distance(p.StartTime-prev.StartTime, prev.Rate)
		}
	}

	return &Timeline{segments: segments, averageBPM: avg}
}

// Sorted copy with non-positive BPMs replaced by their predecessor and
// points within tolerance of each other collapsed onto the earlier time.
func normalizeTempo(raw []game.TempoPoint) []game.TempoPoint {
	tempo := make([]game.TempoPoint, 0, len(raw))
	for _, t := range raw {
		if math.IsNaN(t.StartTime) || math.IsInf(t.StartTime, 0) {
			continue
		}
		tempo = append(tempo, t)
	}
	sort.SliceStable(tempo, func(i, j int) bool {
		return tempo[i].StartTime < tempo[j].StartTime
	})

	out := tempo[:0]
	last := DefaultBPM
	for _, t := range tempo {
		if !(t.BPM > 0) || math.IsInf(t.BPM, 0) {
			t.BPM = last
		}
		last = t.BPM
		if n := len(out); n > 0 && t.StartTime-out[n-1].StartTime < MergeTolerance {
			out[n-1].BPM = t.BPM
			continue
		}
		out = append(out, t)
	}

	if len(out) == 0 {
		return []game.TempoPoint{{StartTime: 0, BPM: DefaultBPM}}
	}
	return out
}

// The BPM covering the longest stretch to the next tempo point. The last
// point only competes when the chart end is known.
func averageBPM(tempo []game.TempoPoint, end float64) float64 {
	if len(tempo) == 1 {
		return tempo[0].BPM
	}
	best, longest := tempo[0].BPM, -1.0
	for i, t := range tempo {
		next := end
		if i+1 < len(tempo) {
			next = tempo[i+1].StartTime
		} else if end <= t.StartTime {
			continue
		}
		if span := next - t.StartTime; span > longest {
			longest = span
			best = t.BPM
		}
	}
	return best
}

// Sorted copy with points before the first tempo point clamped onto it.
// A tempo map starting before zero keeps its early velocity points there,
// otherwise they clamp to zero.
func normalizeVelocity(tempo []game.TempoPoint, raw []game.VelocityPoint) []game.VelocityPoint {
	first := math.Min(tempo[0].StartTime, 0)
	velocity := make([]game.VelocityPoint, 0, len(raw))
	for _, v := range raw {
		if math.IsNaN(v.StartTime) || math.IsNaN(v.Multiplier) {
			continue
		}
		if v.StartTime < first {
			v.StartTime = first
		}
		velocity = append(velocity, v)
	}
	sort.SliceStable(velocity, func(i, j int) bool {
		return velocity[i].StartTime < velocity[j].StartTime
	})
	return velocity
}

// Adds a point at every tempo boundary not already covered by a velocity
// point, inheriting the multiplier in force there. The result is sorted and
// has no two points within tolerance of each other.
func mergeVelocity(tempo []game.TempoPoint, velocity []game.VelocityPoint) []game.VelocityPoint {
	merged := make([]game.VelocityPoint, 0, len(tempo)+len(velocity))
	merged = append(merged, velocity...)

	for _, t := range tempo {
		covered := false
		multiplier := 1.0
		for _, v := range velocity {
			if math.Abs(v.StartTime-t.StartTime) < MergeTolerance {
				covered = true
				break
			}
			if v.StartTime > t.StartTime {
				break
			}
			multiplier = v.Multiplier
		}
		if !covered {
			merged = append(merged, game.VelocityPoint{StartTime: t.StartTime, Multiplier: multiplier})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime < merged[j].StartTime
	})

	out := merged[:0]
	for _, p := range merged {
		if n := len(out); n > 0 && p.StartTime-out[n-1].StartTime < MergeTolerance {
			// the later point wins, the earlier would last under a ms
			out[n-1].Multiplier = p.Multiplier
			continue
		}
		out = append(out, p)
	}
	return out
}

// The tempo in force at time, treating a boundary less than the merge
// tolerance away as already reached.
func localBPM(tempo []game.TempoPoint, time float64) float64 {
	bpm := tempo[0].BPM
	for _, t := range tempo[1:] {
		if t.StartTime-time >= MergeTolerance {
			break
		}
		bpm = t.BPM
	}
	return bpm
}

func distance(ms, rate float64) int64 {
	return int64(ms * rate * Scale)
}

// Position is the scroll distance covered by time. It panics with
// ErrNotBuilt on a timeline that did not come from Build.
func (t *Timeline) Position(time float64) int64 {
	s := t.segment(time)
	return s.Offset + distance(time-s.StartTime, s.Rate)
}

func (t *Timeline) segment(time float64) *Segment {
	if t == nil || len(t.segments) == 0 {
		panic(ErrNotBuilt)
	}
	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].StartTime > time
	}) - 1
	if i < 0 {
		i = 0
	}
	return &t.segments[i]
}

// Rate is the normalized scroll velocity in force at time.
func (t *Timeline) Rate(time float64) float64 {
	return t.segment(time).Rate
}

func (t *Timeline) Segments() []Segment {
	if t == nil {
		return nil
	}
	return append([]Segment(nil), t.segments...)
}

func (t *Timeline) AverageBPM() float64 {
	return t.averageBPM
}
