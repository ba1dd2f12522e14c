package game

type NoteState uint8

const (
	Dormant NoteState = iota
	Active
	Held
	Dead
	Recycled
)

func (s NoteState) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Active:
		return "active"
	case Held:
		return "held"
	case Dead:
		return "dead"
	case Recycled:
		return "recycled"
	}
	return "unknown"
}

// Note is the runtime form of a HitObject, materialized when it first
// comes within look-ahead distance.
type Note struct {
	Info HitObject

	// Scroll positions of the start and the release, fixed at materialization
	TrackPosition         int64
	LongNoteTrackPosition int64

	// This is state
	State       NoteState
	HitTime     float64 // When the note was hit, 0 if never
	ReleaseTime float64 // When the hold was let go, 0 if never
	Grade       Grade   // The tap grade, or Miss if it scrolled past
}

// Horizon is the later of the two track positions, used for recycling.
func (n *Note) Horizon() int64 {
	if n.Info.IsLong() && n.LongNoteTrackPosition > n.TrackPosition {
		return n.LongNoteTrackPosition
	}
	return n.TrackPosition
}
