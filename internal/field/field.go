package field

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type CellStatus int8

const (
	Hidden CellStatus = iota
	Opened
	Flagged
)

type Cell struct {
	Status    CellStatus
	Mine      bool
	MinesNear int8
	Selected  bool
}

// Glyph returns the two-byte rendering of a cell. The first byte is
// replaced with 'X' when the cell is under the cursor.
func (c Cell) Glyph() string {
	switch c.Status {
	case Flagged:
		if c.Selected {
			return "X?"
		}
		return "??"
	case Opened:
		if c.Mine {
			if c.Selected {
				return "X#"
			}
			return "##"
		}
		if c.Selected {
			return fmt.Sprintf("X%d", c.MinesNear)
		}
		return fmt.Sprintf(" %d", c.MinesNear)
	default:
		if c.Selected {
			return "X]"
		}
		return "[]"
	}
}

type Result int8

const (
	InProgress Result = iota
	Won
	Lost
)

// Field is a dense row-major grid of cells plus the cursor. The cell at
// (x, y) lives at index y*Width+x. Exactly one cell has Selected set,
// the one under (CursorX, CursorY).
type Field struct {
	Width, Height    int
	Cells            []Cell
	CursorX, CursorY int
}

var ErrInvalidLocation = fmt.Errorf("invalid location")

func New(width, height int) (*Field, error) {
	if width < 1 {
		return nil, fmt.Errorf("width is too small: %d", width)
	}
	if height < 1 {
		return nil, fmt.Errorf("height is too small: %d", height)
	}
	f := &Field{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	f.Cells[0].Selected = true
	return f, nil
}

func (f *Field) InBounds(x, y int) bool {
	return 0 <= x && x < f.Width && 0 <= y && y < f.Height
}

func (f *Field) At(x, y int) *Cell {
	return &f.Cells[y*f.Width+x]
}

// Generate places mineCount mines on cells picked uniformly at random,
// retrying occupied cells, and bumps MinesNear on every in-bounds cell
// of each mine's 3x3 block. The count includes the mine's own cell, so
// a mine never ends up with MinesNear == 0. Callers must ensure
// mineCount <= Width*Height or the retry loop will not terminate.
func (f *Field) Generate(mineCount int, r *rand.Rand) {
	placed := 0
	for placed < mineCount {
		x := r.IntN(f.Width)
		y := r.IntN(f.Height)
		cur := f.At(x, y)
		if cur.Mine {
			continue
		}
		cur.Mine = true
		for j := -1; j <= 1; j++ {
			for i := -1; i <= 1; i++ {
				if f.InBounds(x+i, y+j) {
					f.At(x+i, y+j).MinesNear++
				}
			}
		}
		placed++
	}
	Log.WithFields(logrus.Fields{
		"width":  f.Width,
		"height": f.Height,
		"mines":  mineCount,
	}).Debug("generated field")
}

// Open reveals the cell at (x, y). Out-of-bounds and already-opened
// cells are no-ops; a flagged cell opens just like a hidden one. When
// the opened cell has no neighboring mines its whole 3x3 block is
// opened in turn, worklist-style, bounding stack depth regardless of
// grid size. Whether the cell is a mine is not consulted: the loss is
// observed by the next Result scan. (Since MinesNear of a mine counts
// the mine itself, an opened mine never cascades anyway.)
func (f *Field) Open(x, y int) {
	if !f.InBounds(x, y) {
		return
	}
	type point struct{ x, y int }
	todo := []point{{x, y}}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		cur := f.At(p.x, p.y)
		if cur.Status == Opened {
			continue
		}
		cur.Status = Opened
		if cur.MinesNear != 0 {
			continue
		}
		for j := -1; j <= 1; j++ {
			for i := -1; i <= 1; i++ {
				if f.InBounds(p.x+i, p.y+j) && f.At(p.x+i, p.y+j).Status != Opened {
					todo = append(todo, point{p.x + i, p.y + j})
				}
			}
		}
	}
}

// ToggleFlag flips a cell between Hidden and Flagged. Opened cells are
// left alone.
func (f *Field) ToggleFlag(x, y int) {
	if !f.InBounds(x, y) {
		return
	}
	switch cur := f.At(x, y); cur.Status {
	case Hidden:
		cur.Status = Flagged
	case Flagged:
		cur.Status = Hidden
	}
}

// Result scans the whole grid once: Lost if any mine is opened, Won if
// the cells still covered are exactly the mines, InProgress otherwise.
func (f *Field) Result() Result {
	var closed, mines int
	for i := range f.Cells {
		c := &f.Cells[i]
		if c.Mine && c.Status == Opened {
			return Lost
		}
		if c.Status != Opened {
			closed++
		}
		if c.Mine {
			mines++
		}
	}
	if closed == mines {
		return Won
	}
	return InProgress
}

// MoveCursor shifts the cursor by (dx, dy). A move that would leave the
// grid is rejected with ErrInvalidLocation and the cursor stays put.
func (f *Field) MoveCursor(dx, dy int) error {
	nx, ny := f.CursorX+dx, f.CursorY+dy
	if !f.InBounds(nx, ny) {
		return ErrInvalidLocation
	}
	f.At(f.CursorX, f.CursorY).Selected = false
	f.CursorX, f.CursorY = nx, ny
	f.At(nx, ny).Selected = true
	return nil
}

func (f *Field) Cursor() (x, y int) {
	return f.CursorX, f.CursorY
}

func (f *Field) Size() (width, height int) {
	return f.Width, f.Height
}

// String renders the grid top to bottom, two bytes per cell, one
// newline-terminated line per row. Pure read, no side effects.
func (f *Field) String() string {
	var b strings.Builder
	b.Grow((f.Width*2 + 1) * f.Height)
	for y := range f.Height {
		for x := range f.Width {
			b.WriteString(f.At(x, y).Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
