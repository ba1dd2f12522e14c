package parser

import (
	"io"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/vsrg/internal/game"
	"github.com/pkg/errors"
)

type DefaultParser struct{}

type bpm struct {
	StartingBeat float64
	Value        float64
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

// Milliseconds from the start of the song to beat.
func (p *DefaultParser) beatTime(bpms []bpm, offset float64, beat float64) float64 {
	ms := offset
	prev, current := 0.0, bpms[0].Value
	for _, b := range bpms[1:] {
		if b.StartingBeat >= beat {
			break
		}
		ms += (b.StartingBeat - prev) * 60000 / current
		prev, current = b.StartingBeat, b.Value
	}
	return ms + (beat-prev)*60000/current
}

// Parses a list of beat=value pairs such as #BPMS and #SCROLLS.
func (p *DefaultParser) pairs(tag, value string) ([]bpm, error) {
	value = strings.ReplaceAll(value, "\n", "")
	value = strings.TrimSuffix(strings.TrimSpace(value), ";")
	out := []bpm{}
	if value == "" {
		return out, nil
	}
	for _, pair := range strings.Split(value, ",") {
		as := strings.Split(pair, "=")
		if len(as) != 2 {
			return nil, errors.Errorf("invalid %v entry %q", tag, pair)
		}
		beat, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, errors.Wrapf(err, "invalid %v beat %q", tag, as[0])
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, errors.Wrapf(err, "invalid %v value %q", tag, as[1])
		}
		out = append(out, bpm{StartingBeat: beat, Value: v})
	}
	return out, nil
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open chart")
	}
	defer f.Close()
	return p.ParseReader(f)
}

func (p *DefaultParser) ParseReader(r io.Reader) ([]*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read chart")
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]
	difficulties := []game.Difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSpace(lines[1])
		chartType = strings.TrimSuffix(chartType, ":")
		nKeys, ok := game.NKeyMap[chartType]
		if !ok {
			continue
		}
		notes := lines[6]
		if end := strings.Index(notes, ";"); end >= 0 {
			notes = notes[:end]
		}
		difficulties = append(difficulties, game.Difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Msd:     strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Section: notes,
			NKeys:   nKeys,
		})
	}

	offset := 0.0
	bpms := []bpm{}
	scrolls := []bpm{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		if strings.HasPrefix(mdl, "OFFSET:") {
			mdl = strings.TrimPrefix(mdl, "OFFSET:")
			mdl = strings.TrimSuffix(strings.TrimSpace(mdl), ";")
			offs, err := strconv.ParseFloat(mdl, 64)
			if nil != err {
				return nil, errors.Wrapf(err, "invalid OFFSET %q", mdl)
			}
			offset = -offs * 1000
		} else if strings.HasPrefix(mdl, "BPMS:") {
			if bpms, err = p.pairs("BPMS", strings.TrimPrefix(mdl, "BPMS:")); nil != err {
				return nil, err
			}
		} else if strings.HasPrefix(mdl, "SCROLLS:") {
			if scrolls, err = p.pairs("SCROLLS", strings.TrimPrefix(mdl, "SCROLLS:")); nil != err {
				return nil, err
			}
		}
	}
	if len(bpms) == 0 {
		bpms = append(bpms, bpm{StartingBeat: 0, Value: 120})
	}
	for _, b := range bpms {
		if b.Value <= 0 {
			return nil, errors.Errorf("unsupported BPM %v at beat %v", b.Value, b.StartingBeat)
		}
	}

	tempo := make([]game.TempoPoint, len(bpms))
	for i, b := range bpms {
		tempo[i] = game.TempoPoint{StartTime: p.beatTime(bpms, offset, b.StartingBeat), BPM: b.Value}
	}
	velocity := make([]game.VelocityPoint, len(scrolls))
	for i, s := range scrolls {
		velocity[i] = game.VelocityPoint{StartTime: p.beatTime(bpms, offset, s.StartingBeat), Multiplier: s.Value}
	}

	charts := []*game.Chart{}
	for _, difficulty := range difficulties {
		objects := []game.HitObject{}
		measures := []game.Measure{}
		mineCount := 0
		holdCount := 0
		// index into objects of the open hold head per column
		heads := make([]int, difficulty.NKeys)
		for i := range heads {
			heads[i] = -1
		}

		for m, block := range strings.Split(difficulty.Section, ",") {
			lines := []string{}
			for _, l := range strings.Split(block, "\n") {
				if i := strings.Index(l, "//"); i >= 0 {
					l = l[:i]
				}
				l = strings.TrimSpace(l)
				if len(l) == int(difficulty.NKeys) {
					lines = append(lines, l)
				}
			}

			if len(lines) == 0 {
				continue
			}

			// Beat count is 4 per block
			measureBeat := float64(4 * m)
			measures = append(measures, game.Measure{
				Denom: 1,
				Time:  p.beatTime(bpms, offset, measureBeat),
			})
			lineCount := int64(len(lines))

			for i, line := range lines {
				beat := measureBeat + 4*float64(i)/float64(lineCount)
				ms := p.beatTime(bpms, offset, beat)
				denom := int(big.NewRat(int64(i*4), lineCount).Denom().Int64())
				if i != 0 && denom == 1 {
					measures = append(measures, game.Measure{Denom: 4, Time: ms})
				}
				t := int(math.Round(ms))

				for col, c := range []byte(line) {
					switch c {
					case '1':
						objects = append(objects, game.HitObject{StartTime: t, Lane: col + 1, Denom: denom})
					case '2', '4':
						holdCount++
						heads[col] = len(objects)
						objects = append(objects, game.HitObject{StartTime: t, Lane: col + 1, Denom: denom})
					case '3':
						// This is a release note of the open head in this column
						if heads[col] >= 0 {
							objects[heads[col]].EndTime = t
							heads[col] = -1
						}
					case 'M':
						mineCount++
					}
				}
			}
		}

		charts = append(charts, &game.Chart{
			Tempo:      tempo,
			Velocity:   velocity,
			Objects:    objects,
			Measures:   measures,
			HoldCount:  int64(holdCount),
			MineCount:  int64(mineCount),
			Difficulty: difficulty,
		})
	}

	return charts, nil
}
