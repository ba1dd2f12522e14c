package game

// Input is a key transition on a lane at a song time.
type Input struct {
	Lane int     // 1-based
	Time float64 // ms
	Down bool
}
