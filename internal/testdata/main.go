package testdata

import (
	_ "embed"
	"encoding/json"

	"git.lost.host/meutraa/vsrg/internal/game"
)

//go:embed chart.json
var data []byte

// GetChart returns a fresh copy of a small 4 key chart with a tempo change,
// scroll velocity changes, taps and long notes.
func GetChart() (*game.Chart, error) {
	var chart game.Chart
	if err := json.Unmarshal(data, &chart); nil != err {
		return nil, err
	}
	return &chart, nil
}
