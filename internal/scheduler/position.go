package scheduler

import (
	"math"

	"git.lost.host/meutraa/vsrg/internal/game"
)

// RenderPosition is the track distance from the receptor to the head and,
// for long notes, the tail of n at time. Positive is still to come.
func (s *Scheduler) RenderPosition(n *game.Note, time float64) (head, tail int64) {
	position := s.timeline.Position(time)
	head = n.TrackPosition - position
	tail = head
	if n.Info.IsLong() {
		tail = n.LongNoteTrackPosition - position
	}
	return head, tail
}

// Pull compresses distant notes while leaving those near or past the
// receptor linear. It only changes where notes are drawn.
func Pull(distance float64) float64 {
	return 2*math.Pow(math.Max(distance, 0), 0.6) + math.Min(distance, 0)
}
