package game

type Difficulty struct {
	Name    string `json:"name"`
	Msd     string `json:"msd"`
	Section string `json:"section"`
	NKeys   uint8  `json:"nKeys"`
}

var NKeyMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
