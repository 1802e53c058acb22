package move

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseAll(t *testing.T, input string) []Move {
	t.Helper()
	parser := NewParser(strings.NewReader(input))
	var moves []Move
	for {
		m, err := parser.Next()
		if err == io.EOF {
			return moves
		}
		assert.NoError(t, err)
		moves = append(moves, m)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Move
	}{
		{
			"open",
			"#3x2;",
			[]Move{{Open, 2, 1}},
		},
		{
			"flag",
			"?10x10;",
			[]Move{{Flag, 9, 9}},
		},
		{
			"cursor moves keep their magnitude",
			"k3;j2;h1;l40;",
			[]Move{
				{Action: CursorUp, Y: 3},
				{Action: CursorDown, Y: 2},
				{Action: CursorLeft, X: 1},
				{Action: CursorRight, X: 40},
			},
		},
		{
			"clicks take no arguments",
			"@!",
			[]Move{{Action: ClickOpen}, {Action: ClickFlag}},
		},
		{
			"junk before the marker is discarded",
			"  12,3 #3x2;",
			[]Move{{Open, 2, 1}},
		},
		{
			"junk between digits is discarded",
			"# 3 x 2 ;",
			[]Move{{Open, 2, 1}},
		},
		{
			"no digits means zero, converted to -1",
			"#x;",
			[]Move{{Open, -1, -1}},
		},
		{
			"several moves in a row",
			"#1x1;?2x2;@",
			[]Move{{Open, 0, 0}, {Flag, 1, 1}, {Action: ClickOpen}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, parseAll(t, test.input))
		})
	}
}

func TestParseEndOfInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty stream", ""},
		{"no marker", " 1x2; "},
		{"cut before x terminator", "#3"},
		{"cut before y terminator", "#3x2"},
		{"cut before cursor terminator", "k3"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parser := NewParser(strings.NewReader(test.input))
			_, err := parser.Next()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

type fakeBounds struct {
	width, height int
	cx, cy        int
}

func (f fakeBounds) Size() (int, int)   { return f.width, f.height }
func (f fakeBounds) Cursor() (int, int) { return f.cx, f.cy }

func TestResolve(t *testing.T) {
	bounds := fakeBounds{width: 5, height: 4, cx: 2, cy: 3}

	tests := []struct {
		name    string
		move    Move
		want    Move
		wantErr string
	}{
		{
			"valid open passes through",
			Move{Open, 4, 3},
			Move{Open, 4, 3},
			"",
		},
		{
			"click open lands on the cursor",
			Move{Action: ClickOpen},
			Move{Open, 2, 3},
			"",
		},
		{
			"click flag lands on the cursor",
			Move{Action: ClickFlag},
			Move{Flag, 2, 3},
			"",
		},
		{
			"x too small",
			Move{Open, -1, 0},
			Move{},
			"x is too small: 0",
		},
		{
			"y too small",
			Move{Flag, 0, -1},
			Move{},
			"y is too small: 0",
		},
		{
			"x too large",
			Move{Open, 5, 0},
			Move{},
			"x is too large: 6",
		},
		{
			"y too large",
			Move{Flag, 0, 4},
			Move{},
			"y is too large: 5",
		},
		{
			"cursor moves pass through untouched",
			Move{Action: CursorLeft, X: 10},
			Move{Action: CursorLeft, X: 10},
			"",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Resolve(test.move, bounds)
			if test.wantErr != "" {
				assert.EqualError(t, err, test.wantErr)
				var coordErr CoordError
				assert.ErrorAs(t, err, &coordErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "click-flag", ClickFlag.String())
	assert.Equal(t, "unknown", Action(99).String())
}
