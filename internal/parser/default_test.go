package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.lost.host/meutraa/vsrg/internal/game"
)

const sm = `#TITLE:Test;
#OFFSET:-0.100;
#BPMS:0.000=120.000,
4.000=240.000;
#SCROLLS:0.000=1.000,2.000=0.500;
#NOTES:
     dance-single:
     :
     Hard:
     9:
     0.1,0.2,0.3,0.4,0.5:
1000
0200
0000
0300
,  // measure 2
0001
M000
0010
0000
;
#NOTES:
     pump-single:
     :
     Hard:
     9:
     0,0,0,0,0:
00000
;
`

func parse(t *testing.T) *game.Chart {
	p := DefaultParser{}
	charts, err := p.ParseReader(strings.NewReader(sm))
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 {
		t.Fatal("expected unsupported chart types to be skipped, got", len(charts))
	}
	return charts[0]
}

func TestDifficulty(t *testing.T) {
	c := parse(t)
	if c.Difficulty.Name != "Hard" || c.Difficulty.Msd != "9" || c.Difficulty.NKeys != 4 {
		t.Error("unexpected difficulty", c.Difficulty)
	}
	if c.Lanes() != 4 {
		t.Error("unexpected lanes", c.Lanes())
	}
	if c.MineCount != 1 || c.HoldCount != 1 {
		t.Error("unexpected counts", c.MineCount, c.HoldCount)
	}
}

func TestTiming(t *testing.T) {
	c := parse(t)
	expectedTempo := []game.TempoPoint{{StartTime: 100, BPM: 120}, {StartTime: 2100, BPM: 240}}
	if len(c.Tempo) != len(expectedTempo) {
		t.Fatal("unexpected tempo", c.Tempo)
	}
	for i := range c.Tempo {
		if c.Tempo[i] != expectedTempo[i] {
			t.Error("unexpected tempo point", c.Tempo[i], "expected", expectedTempo[i])
		}
	}
	expectedVelocity := []game.VelocityPoint{{StartTime: 100, Multiplier: 1}, {StartTime: 1100, Multiplier: 0.5}}
	if len(c.Velocity) != len(expectedVelocity) {
		t.Fatal("unexpected velocity", c.Velocity)
	}
	for i := range c.Velocity {
		if c.Velocity[i] != expectedVelocity[i] {
			t.Error("unexpected velocity point", c.Velocity[i], "expected", expectedVelocity[i])
		}
	}
	if len(c.Measures) != 8 || c.Measures[4] != (game.Measure{Denom: 1, Time: 2100}) {
		t.Error("unexpected measures", c.Measures)
	}
}

func TestObjects(t *testing.T) {
	c := parse(t)
	expected := []game.HitObject{
		{StartTime: 100, Lane: 1, Denom: 1},
		{StartTime: 600, EndTime: 1600, Lane: 2, Denom: 1},
		{StartTime: 2100, Lane: 4, Denom: 1},
		{StartTime: 2600, Lane: 3, Denom: 1},
	}
	if len(c.Objects) != len(expected) {
		t.Fatal("unexpected objects", c.Objects)
	}
	for i, o := range c.Objects {
		if o != expected[i] {
			t.Log("Object  ", o)
			t.Log("Expected", expected[i])
			t.Fail()
		}
	}
}

const snaps = `#OFFSET:0.000;
#BPMS:0.000=60.000;
#NOTES:
     dance-single:
     :
     Hard:
     9:
     0,0,0,0,0:
1000
0100
0010
0001
1000
0000
0000
0000
0000
0000
0000
0000
;
`

func TestSnap(t *testing.T) {
	p := DefaultParser{}
	charts, err := p.ParseReader(strings.NewReader(snaps))
	if nil != err || len(charts) != 1 {
		t.Fatal("unable to parse chart", err)
	}
	// 12 rows to a measure of 4 beats
	expected := []int{1, 3, 3, 1, 3}
	objects := charts[0].Objects
	if len(objects) != len(expected) {
		t.Fatal("unexpected objects", objects)
	}
	for i, o := range objects {
		if o.Denom != expected[i] {
			t.Errorf("object %v at %vms has snap %v, expected %v", i, o.StartTime, o.Denom, expected[i])
		}
	}
}

func TestParseFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.sm")
	if err := os.WriteFile(file, []byte(sm), 0o644); nil != err {
		t.Fatal(err)
	}
	p := DefaultParser{}
	charts, err := p.Parse(file)
	if nil != err || len(charts) != 1 {
		t.Fatal("unable to parse chart file", err)
	}
	if _, err := p.Parse(filepath.Join(t.TempDir(), "missing.sm")); nil == err {
		t.Error("expected a missing file to error")
	}
}

var invalidMeta = []string{
	"#OFFSET:abc;\n",
	"#BPMS:0.000;\n",
	"#BPMS:0.000=x;\n",
	"#BPMS:0.000=-5;\n",
}

func TestInvalidMeta(t *testing.T) {
	p := DefaultParser{}
	for _, meta := range invalidMeta {
		if _, err := p.ParseReader(strings.NewReader(meta)); nil == err {
			t.Error("expected", meta, "to be rejected")
		}
	}
}
