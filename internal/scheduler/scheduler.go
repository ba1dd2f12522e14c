// Package scheduler owns the lifecycle of every note in a chart, from the
// chart's raw objects through to recycling once a note has scrolled away.
package scheduler

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/timeline"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLookAhead      = 1500 * timeline.Scale
	DefaultRecycleHorizon = 500 * timeline.Scale
)

var (
	ErrNoTimeline     = errors.New("scheduler: no timeline")
	ErrLaneOutOfRange = errors.New("scheduler: lane out of range")
)

type Config struct {
	Lanes          int   // 0 uses the highest lane in the chart
	LookAhead      int64 // track distance ahead of the receptor to materialize notes
	RecycleHorizon int64 // track distance behind the receptor to keep dead notes
	Windows        game.Windows
	Handler        game.Handler
	Logger         *logrus.Logger
}

// Counts is a snapshot of how many notes each container holds.
type Counts struct {
	Dormant, Active, Held, Dead, Recycled int
}

type lane struct {
	dormant queue[game.HitObject]
	active  queue[int32]
	held    queue[int32]
	dead    queue[int32]
}

type Scheduler struct {
	timeline *timeline.Timeline
	config   Config
	log      *logrus.Logger

	lanes []lane
	notes []game.Note // arena, indexed by the lane queues
	free  []int32

	total    int
	recycled int
}

func New(tl *timeline.Timeline, objects []game.HitObject, config Config) (*Scheduler, error) {
	if tl == nil {
		return nil, ErrNoTimeline
	}
	if config.LookAhead <= 0 {
		config.LookAhead = DefaultLookAhead
	}
	if config.RecycleHorizon <= 0 {
		config.RecycleHorizon = DefaultRecycleHorizon
	}
	if len(config.Windows.Tap) == 0 {
		config.Windows = game.DefaultWindows()
	}
	if config.Lanes <= 0 {
		for _, o := range objects {
			if o.Lane > config.Lanes {
				config.Lanes = o.Lane
			}
		}
	}

	s := &Scheduler{
		timeline: tl,
		config:   config,
		log:      config.Logger,
		lanes:    make([]lane, config.Lanes),
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}

	sorted := make([]game.HitObject, 0, len(objects))
	dropped, shortened := 0, 0
	for _, o := range objects {
		if o.Lane < 1 || o.Lane > config.Lanes {
			dropped++
			continue
		}
		if o.EndTime != 0 && o.EndTime <= o.StartTime {
			o.EndTime = 0
			shortened++
		}
		sorted = append(sorted, o)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	for _, o := range sorted {
		s.lanes[o.Lane-1].dormant.Push(o)
	}
	s.total = len(sorted)

	if dropped > 0 {
		s.log.WithFields(logrus.Fields{"dropped": dropped, "lanes": config.Lanes}).Warn("objects outside lanes dropped")
	}
	if shortened > 0 {
		s.log.WithField("count", shortened).Warn("long notes without duration treated as taps")
	}
	return s, nil
}

func (s *Scheduler) Timeline() *timeline.Timeline {
	return s.timeline
}

func (s *Scheduler) Windows() game.Windows {
	return s.config.Windows
}

func (s *Scheduler) Lanes() int {
	return len(s.lanes)
}

func (s *Scheduler) Total() int {
	return s.total
}

func (s *Scheduler) laneAt(lane int) (*lane, error) {
	if lane < 1 || lane > len(s.lanes) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrLaneOutOfRange, lane, len(s.lanes))
	}
	return &s.lanes[lane-1], nil
}

func (s *Scheduler) emit(e game.JudgementEvent) {
	if s.log.IsLevelEnabled(logrus.DebugLevel) {
		s.log.WithFields(logrus.Fields{
			"lane":  e.Lane,
			"start": e.Info.StartTime,
			"kind":  e.Kind,
			"grade": e.Grade,
			"error": e.Error,
		}).Debug("judgement")
	}
	if s.config.Handler != nil {
		s.config.Handler(e)
	}
}

// Advance moves every note that crossed a threshold by time into its next
// container: admission, then tap misses, then release misses, then recycling.
func (s *Scheduler) Advance(time float64) {
	position := s.timeline.Position(time)
	for i := range s.lanes {
		s.admit(&s.lanes[i], position)
	}
	for i := range s.lanes {
		s.sweepActive(i+1, &s.lanes[i], time)
	}
	for i := range s.lanes {
		s.sweepHeld(i+1, &s.lanes[i], time)
	}
	for i := range s.lanes {
		s.recycle(&s.lanes[i], position, time)
	}
}

func (s *Scheduler) admit(l *lane, position int64) {
	for l.dormant.Len() > 0 {
		o := l.dormant.Front()
		start := s.timeline.Position(float64(o.StartTime))
		if start-position > s.config.LookAhead {
			return
		}
		l.dormant.Pop()

		note := game.Note{
			Info:          o,
			TrackPosition: start,
			State:         game.Active,
		}
		if o.IsLong() {
			note.LongNoteTrackPosition = s.timeline.Position(float64(o.EndTime))
		}

		var idx int32
		if n := len(s.free); n > 0 {
			idx = s.free[n-1]
			s.free = s.free[:n-1]
			s.notes[idx] = note
		} else {
			idx = int32(len(s.notes))
			s.notes = append(s.notes, note)
		}
		l.active.Push(idx)
	}
}

func (s *Scheduler) sweepActive(lane int, l *lane, time float64) {
	for l.active.Len() > 0 {
		idx := l.active.Front()
		n := &s.notes[idx]
		if float64(n.Info.StartTime)+s.config.Windows.MissTimeout >= time {
			return
		}
		l.active.Pop()
		s.miss(lane, l, idx, time)
	}
}

// A tap miss on a long note also misses its release.
func (s *Scheduler) miss(lane int, l *lane, idx int32, time float64) {
	n := &s.notes[idx]
	n.Grade = game.Miss
	info := n.Info
	s.kill(l, idx)

	s.emit(game.JudgementEvent{
		Lane:  lane,
		Info:  info,
		Kind:  game.Tap,
		Grade: game.Miss,
		Error: time - float64(info.StartTime),
		Time:  time,
	})
	if info.IsLong() {
		s.emit(game.JudgementEvent{
			Lane:  lane,
			Info:  info,
			Kind:  game.Release,
			Grade: game.Miss,
			Error: time - float64(info.EndTime),
			Time:  time,
		})
	}
}

func (s *Scheduler) sweepHeld(lane int, l *lane, time float64) {
	for l.held.Len() > 0 {
		idx := l.held.Front()
		n := &s.notes[idx]
		if float64(n.Info.EndTime)+s.config.Windows.ReleaseWindow() >= time {
			return
		}
		l.held.Pop()
		info := n.Info
		s.kill(l, idx)
		s.emit(game.JudgementEvent{
			Lane:  lane,
			Info:  info,
			Kind:  game.Release,
			Grade: s.config.Windows.LateRelease,
			Error: time - float64(info.EndTime),
			Time:  time,
		})
	}
}

func (s *Scheduler) kill(l *lane, idx int32) {
	s.notes[idx].State = game.Dead
	l.dead.Insert(idx, func(a, b int32) bool {
		return s.notes[a].Horizon() < s.notes[b].Horizon()
	})
}

// Dead notes go once they scroll past the horizon, or once the same
// distance has passed in time at rate 1 so stops and reverse scrolling can
// not keep them forever.
func (s *Scheduler) recycle(l *lane, position int64, time float64) {
	horizon := float64(s.config.RecycleHorizon) / timeline.Scale
	for l.dead.Len() > 0 {
		idx := l.dead.Front()
		n := &s.notes[idx]
		end := float64(max(n.Info.StartTime, n.Info.EndTime))
		if position-n.Horizon() <= s.config.RecycleHorizon && time-end <= horizon {
			return
		}
		l.dead.Pop()
		n.State = game.Recycled
		s.free = append(s.free, idx)
		s.recycled++
		if s.log.IsLevelEnabled(logrus.DebugLevel) {
			s.log.WithFields(logrus.Fields{"lane": n.Info.Lane, "start": n.Info.StartTime}).Debug("recycled")
		}
	}
}

// ScanActive calls fn for each active note in a lane, earliest first,
// until fn returns false. i is the note's place in the queue for Hit.
func (s *Scheduler) ScanActive(lane int, fn func(i int, n *game.Note) bool) error {
	l, err := s.laneAt(lane)
	if nil != err {
		return err
	}
	for i := 0; i < l.active.Len(); i++ {
		if !fn(i, &s.notes[l.active.At(i)]) {
			break
		}
	}
	return nil
}

// Hit judges the i'th active note of a lane. A long note moves to the held
// queue unless the tap itself was a Miss, in which case both halves miss.
func (s *Scheduler) Hit(lane int, i int, time float64, grade game.Grade) (*game.Note, error) {
	l, err := s.laneAt(lane)
	if nil != err {
		return nil, err
	}
	if i < 0 || i >= l.active.Len() {
		return nil, fmt.Errorf("scheduler: no active note %d in lane %d", i, lane)
	}
	idx := l.active.RemoveAt(i)
	n := &s.notes[idx]
	n.HitTime = time

	if grade == game.Miss {
		s.miss(lane, l, idx, time)
		return &s.notes[idx], nil
	}

	n.Grade = grade
	info := n.Info
	if info.IsLong() {
		n.State = game.Held
		l.held.Insert(idx, func(a, b int32) bool {
			return s.notes[a].Info.EndTime < s.notes[b].Info.EndTime
		})
	} else {
		s.kill(l, idx)
	}
	s.emit(game.JudgementEvent{
		Lane:  lane,
		Info:  info,
		Kind:  game.Tap,
		Grade: grade,
		Error: time - float64(info.StartTime),
		Time:  time,
	})
	return &s.notes[idx], nil
}

// HeldFront is the held note in a lane whose release is most overdue.
func (s *Scheduler) HeldFront(lane int) (*game.Note, bool, error) {
	l, err := s.laneAt(lane)
	if nil != err {
		return nil, false, err
	}
	if l.held.Len() == 0 {
		return nil, false, nil
	}
	return &s.notes[l.held.Front()], true, nil
}

// Release judges the front held note of a lane.
func (s *Scheduler) Release(lane int, time float64, grade game.Grade) (*game.Note, error) {
	l, err := s.laneAt(lane)
	if nil != err {
		return nil, err
	}
	if l.held.Len() == 0 {
		return nil, fmt.Errorf("scheduler: nothing held in lane %d", lane)
	}
	idx := l.held.Pop()
	n := &s.notes[idx]
	n.ReleaseTime = time
	info := n.Info
	s.kill(l, idx)
	s.emit(game.JudgementEvent{
		Lane:  lane,
		Info:  info,
		Kind:  game.Release,
		Grade: grade,
		Error: time - float64(info.EndTime),
		Time:  time,
	})
	return &s.notes[idx], nil
}

func (s *Scheduler) Counts() Counts {
	c := Counts{Recycled: s.recycled}
	for i := range s.lanes {
		l := &s.lanes[i]
		c.Dormant += l.dormant.Len()
		c.Active += l.active.Len()
		c.Held += l.held.Len()
		c.Dead += l.dead.Len()
	}
	return c
}

// ObjectsRemaining counts the notes that still have a judgement to come.
func (s *Scheduler) ObjectsRemaining() int {
	c := s.Counts()
	return c.Dormant + c.Active + c.Held
}

// Done reports whether every note has been recycled.
func (s *Scheduler) Done() bool {
	return s.recycled == s.total
}

// EarliestActive is the active note with the earliest start across lanes.
func (s *Scheduler) EarliestActive() (*game.Note, bool) {
	var earliest *game.Note
	for i := range s.lanes {
		l := &s.lanes[i]
		if l.active.Len() == 0 {
			continue
		}
		n := &s.notes[l.active.Front()]
		if earliest == nil || n.Info.StartTime < earliest.Info.StartTime {
			earliest = n
		}
	}
	return earliest, earliest != nil
}

// Visible calls fn for every materialized note that has not been recycled.
func (s *Scheduler) Visible(fn func(n *game.Note)) {
	for i := range s.lanes {
		l := &s.lanes[i]
		s.each(&l.dead, fn)
		s.each(&l.held, fn)
		s.each(&l.active, fn)
	}
}

func (s *Scheduler) each(q *queue[int32], fn func(n *game.Note)) {
	for j := 0; j < q.Len(); j++ {
		fn(&s.notes[q.At(j)])
	}
}
