package field

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// placeMine mirrors what Generate does for a single mine, so tests can
// lay out exact boards.
func placeMine(f *Field, x, y int) {
	f.At(x, y).Mine = true
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			if f.InBounds(x+i, y+j) {
				f.At(x+i, y+j).MinesNear++
			}
		}
	}
}

func TestNew(t *testing.T) {
	f, err := New(3, 2)
	assert.NoError(t, err)
	assert.Len(t, f.Cells, 6)
	for i, c := range f.Cells {
		assert.Equal(t, Hidden, c.Status)
		assert.False(t, c.Mine)
		assert.Equal(t, i == 0, c.Selected)
	}

	_, err = New(0, 2)
	assert.Error(t, err)
	_, err = New(2, 0)
	assert.Error(t, err)
}

func TestGenerateMineCount(t *testing.T) {
	tests := []struct {
		width, height, mines int
	}{
		{10, 10, 10},
		{9, 9, 35},
		{30, 16, 99},
		{1, 2, 0},
		{4, 4, 16}, // every cell a mine
	}
	for _, test := range tests {
		name := fmt.Sprintf("%dx%d(%d)", test.width, test.height, test.mines)
		t.Run(name, func(t *testing.T) {
			f, err := New(test.width, test.height)
			assert.NoError(t, err)
			f.Generate(test.mines, rand.New(rand.NewPCG(1, 2)))

			count := 0
			for _, c := range f.Cells {
				if c.Mine {
					count++
				}
			}
			assert.Equal(t, test.mines, count)
		})
	}
}

func TestGenerateAdjacency(t *testing.T) {
	f, err := New(16, 16)
	assert.NoError(t, err)
	f.Generate(40, rand.New(rand.NewPCG(3, 4)))

	for y := range f.Height {
		for x := range f.Width {
			cur := f.At(x, y)
			if cur.Mine {
				// a mine counts itself, so its adjacency is never zero
				assert.Greater(t, cur.MinesNear, int8(0))
				continue
			}
			want := 0
			for j := -1; j <= 1; j++ {
				for i := -1; i <= 1; i++ {
					if f.InBounds(x+i, y+j) && f.At(x+i, y+j).Mine {
						want++
					}
				}
			}
			assert.Equal(t, int8(want), cur.MinesNear, "at (%d, %d)", x, y)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := New(10, 10)
	b, _ := New(10, 10)
	a.Generate(10, rand.New(rand.NewPCG(42, 42)))
	b.Generate(10, rand.New(rand.NewPCG(42, 42)))
	assert.Equal(t, a.Cells, b.Cells)
}

func TestOpenCascade(t *testing.T) {
	// 1x2, no mines: opening one end opens the other
	f, _ := New(1, 2)
	f.Open(0, 0)
	assert.Equal(t, Opened, f.At(0, 0).Status)
	assert.Equal(t, Opened, f.At(0, 1).Status)
	assert.Equal(t, Won, f.Result())
}

func TestOpenNumberedStops(t *testing.T) {
	// 3x3, one central mine: every border cell shows 1 and opening one
	// does not cascade
	f, _ := New(3, 3)
	placeMine(f, 1, 1)

	f.Open(0, 0)
	assert.Equal(t, Opened, f.At(0, 0).Status)
	assert.Equal(t, int8(1), f.At(0, 0).MinesNear)
	for y := range 3 {
		for x := range 3 {
			if x == 0 && y == 0 {
				continue
			}
			assert.Equal(t, Hidden, f.At(x, y).Status, "at (%d, %d)", x, y)
		}
	}
	assert.Equal(t, InProgress, f.Result())
}

func TestOpenRegion(t *testing.T) {
	// 5x1, mine at the right end: the zero region is cells 0-2, cell 3
	// borders the mine and is opened as part of the cascade, the mine
	// stays hidden
	f, _ := New(5, 1)
	placeMine(f, 4, 0)

	f.Open(0, 0)
	for x := range 4 {
		assert.Equal(t, Opened, f.At(x, 0).Status, "at (%d, 0)", x)
	}
	assert.Equal(t, Hidden, f.At(4, 0).Status)
	assert.Equal(t, Won, f.Result())
}

func TestOpenOutOfBounds(t *testing.T) {
	f, _ := New(2, 2)
	f.Open(-1, 0)
	f.Open(0, -1)
	f.Open(2, 0)
	f.Open(0, 2)
	for _, c := range f.Cells {
		assert.Equal(t, Hidden, c.Status)
	}
}

func TestOpenFlaggedCell(t *testing.T) {
	f, _ := New(3, 3)
	placeMine(f, 1, 1)
	f.ToggleFlag(0, 0)
	f.Open(0, 0)
	assert.Equal(t, Opened, f.At(0, 0).Status)
}

func TestOpenMineLoses(t *testing.T) {
	f, _ := New(3, 3)
	placeMine(f, 1, 1)
	f.Open(1, 1)
	assert.Equal(t, Opened, f.At(1, 1).Status)
	assert.Equal(t, Lost, f.Result())
}

func TestResultProgression(t *testing.T) {
	f, _ := New(2, 1)
	placeMine(f, 1, 0)
	assert.Equal(t, InProgress, f.Result())
	f.Open(0, 0)
	assert.Equal(t, Won, f.Result())
}

func TestToggleFlag(t *testing.T) {
	f, _ := New(2, 2)

	f.ToggleFlag(0, 0)
	assert.Equal(t, Flagged, f.At(0, 0).Status)
	f.ToggleFlag(0, 0)
	assert.Equal(t, Hidden, f.At(0, 0).Status)

	f.Open(1, 1)
	f.ToggleFlag(1, 1)
	assert.Equal(t, Opened, f.At(1, 1).Status)

	f.ToggleFlag(5, 5) // out of bounds, no-op
}

func TestString(t *testing.T) {
	f, _ := New(2, 2)
	placeMine(f, 1, 1)
	assert.Equal(t, "X][]\n[][]\n", f.String())

	f.Open(0, 0)
	f.ToggleFlag(0, 1)
	assert.Equal(t, "X1[]\n??[]\n", f.String())

	f.Open(1, 1)
	assert.Equal(t, "X1[]\n??##\n", f.String())
}

func TestStringCursorOnFlag(t *testing.T) {
	f, _ := New(2, 1)
	f.ToggleFlag(0, 0)
	assert.Equal(t, "X?[]\n", f.String())
}

func TestMoveCursor(t *testing.T) {
	f, _ := New(5, 4)

	assert.ErrorIs(t, f.MoveCursor(-1, 0), ErrInvalidLocation)
	assert.ErrorIs(t, f.MoveCursor(0, -1), ErrInvalidLocation)
	x, y := f.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.True(t, f.At(0, 0).Selected)

	assert.NoError(t, f.MoveCursor(4, 0))
	assert.ErrorIs(t, f.MoveCursor(1, 0), ErrInvalidLocation)
	assert.NoError(t, f.MoveCursor(0, 3))
	assert.ErrorIs(t, f.MoveCursor(0, 1), ErrInvalidLocation)

	x, y = f.Cursor()
	assert.Equal(t, 4, x)
	assert.Equal(t, 3, y)
	assert.False(t, f.At(0, 0).Selected)
	assert.True(t, f.At(4, 3).Selected)
}
