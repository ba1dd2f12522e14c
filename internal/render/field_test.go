package render

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"testing"

	"git.lost.host/meutraa/vsrg/internal/game"
	"git.lost.host/meutraa/vsrg/internal/scheduler"
	"git.lost.host/meutraa/vsrg/internal/timeline"
)

func cell(row, col int, c color.RGBA, sym string) string {
	return fmt.Sprintf("\033[%d;%dH\033[38;2;%d;%d;%dm%s\033[0m", row, col, c.R, c.G, c.B, sym)
}

func TestFill(t *testing.T) {
	var out bytes.Buffer
	r := &DefaultRenderer{Out: &out}
	r.Fill(3, 7, "x")
	r.FillColor(1, 2, color.RGBA{1, 2, 3, 255}, "y")
	r.flush()
	if s := out.String(); s != "\033[3;7Hx"+cell(1, 2, color.RGBA{1, 2, 3, 255}, "y") {
		t.Errorf("unexpected output %q", s)
	}
	if r.buffer.Len() != 0 {
		t.Error("buffer not reset after flush")
	}
}

func TestDecorations(t *testing.T) {
	var out bytes.Buffer
	r := &DefaultRenderer{Out: &out}
	r.AddDecoration(5, 2, "*", 1)
	r.tickDecorations()
	r.tickDecorations()
	if len(r.decorations) != 0 {
		t.Error("decoration outlived its frames", r.decorations)
	}
	r.flush()
	if !strings.HasSuffix(out.String(), "\033[2;5H ") {
		t.Errorf("expected the decoration to be erased, got %q", out.String())
	}
}

func TestSnapColor(t *testing.T) {
	if snapColor(2) != (color.RGBA{0, 118, 236, 255}) {
		t.Error("expected eighths to be blue")
	}
	for _, denom := range []int{0, 5, 96} {
		if snapColor(denom) != otherColor {
			t.Error("unexpected colour for snap", denom)
		}
	}
}

func TestFieldLayout(t *testing.T) {
	f := NewField(&DefaultRenderer{}, 40, 80, 4, 4, 10, false)
	if f.HitRow != 36 {
		t.Error("unexpected hit row", f.HitRow)
	}
	expected := []int{34, 38, 42, 46}
	for i, col := range f.Columns {
		if col != expected[i] {
			t.Error("unexpected columns", f.Columns)
			break
		}
	}
}

var rowTests = []struct {
	Pull     bool
	Distance int64
	Row      int
	Visible  bool
}{
	{false, 0, 36, true},
	{false, 1000 * timeline.Scale, 26, true},
	{false, -200 * timeline.Scale, 38, true},
	{false, 3600 * timeline.Scale, 0, false},
	{false, -500 * timeline.Scale, 41, false},
	{true, 3200 * timeline.Scale, 33, true},
	{true, -200 * timeline.Scale, 38, true},
}

func TestRow(t *testing.T) {
	for _, test := range rowTests {
		f := NewField(&DefaultRenderer{}, 40, 80, 4, 4, 10, test.Pull)
		row, visible := f.Row(test.Distance)
		if row != test.Row || visible != test.Visible {
			t.Errorf("%+v: got row %v visible %v", test, row, visible)
		}
	}
}

func TestDraw(t *testing.T) {
	tl := timeline.Build([]game.TempoPoint{{StartTime: 0, BPM: 120}}, nil)
	s, err := scheduler.New(tl, []game.HitObject{
		{StartTime: 1000, Lane: 1, Denom: 1},
		{StartTime: 500, EndTime: 800, Lane: 3, Denom: 4},
	}, scheduler.Config{Lanes: 4})
	if nil != err {
		t.Fatal(err)
	}
	s.Advance(0)

	r := &DefaultRenderer{}
	f := NewField(r, 40, 80, 4, 4, 10, false)
	f.Draw(s, []game.Measure{{Denom: 1, Time: 0}, {Denom: 1, Time: 2000}}, 0)
	out := r.buffer.String()

	for _, expected := range []string{
		cell(26, 34, noteColors[1], noteSym),
		cell(31, 42, noteColors[4], noteSym),
		cell(30, 42, noteColors[4], holdSym),
		cell(28, 42, noteColors[4], holdSym),
		cell(36, 34, dimmed, measureSym),
		cell(16, 46, dimmed, measureSym),
	} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected %q in output", expected)
		}
	}
	if strings.Contains(out, cell(31, 42, noteColors[4], holdSym)) {
		t.Error("hold body drawn over its head")
	}
}
