package game

// Measure is a timing bar drawn across the field.
type Measure struct {
	Denom int     `json:"denom"` // The beat length, as a denominator, 4 = 1/4 beat
	Time  float64 `json:"time"`  // ms
}
