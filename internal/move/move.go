// Package move parses the textual move protocol and resolves moves
// against the current field state.
//
// A coordinate move is <marker><digits>x<digits>; and a single-axis
// cursor move is <marker><digits>;. Anything between a marker and its
// terminators that is not a digit is skipped. Coordinates on the wire
// are 1-based, cursor magnitudes are not coordinates and stay as-is.
package move

import (
	"fmt"
	"io"
)

type Action int8

const (
	Open Action = iota
	Flag
	ClickOpen
	ClickFlag
	CursorUp
	CursorDown
	CursorLeft
	CursorRight
)

func (a Action) String() string {
	switch a {
	case Open:
		return "open"
	case Flag:
		return "flag"
	case ClickOpen:
		return "click-open"
	case ClickFlag:
		return "click-flag"
	case CursorUp:
		return "up"
	case CursorDown:
		return "down"
	case CursorLeft:
		return "left"
	case CursorRight:
		return "right"
	default:
		return "unknown"
	}
}

func actionFor(ch byte) (Action, bool) {
	switch ch {
	case '#':
		return Open, true
	case '?':
		return Flag, true
	case '@':
		return ClickOpen, true
	case '!':
		return ClickFlag, true
	case 'k':
		return CursorUp, true
	case 'j':
		return CursorDown, true
	case 'h':
		return CursorLeft, true
	case 'l':
		return CursorRight, true
	}
	return 0, false
}

// Move is one parsed player action. For Open and Flag, X and Y hold
// 0-based coordinates. Cursor moves keep their magnitude in the axis
// they travel along (Y for up/down, X for left/right).
type Move struct {
	Action Action
	X, Y   int
}

// CoordError reports a rejected move parameter. Values are shown
// 1-based, the way the player typed them.
type CoordError struct {
	Name   string
	Reason string
	Value  int
}

func (e CoordError) Error() string {
	return fmt.Sprintf("%s is %s: %d", e.Name, e.Reason, e.Value)
}

// Parser reads moves off a byte stream, one byte at a time.
type Parser struct {
	r io.ByteReader
}

func NewParser(r io.ByteReader) *Parser {
	return &Parser{r}
}

// Next scans forward to the next action marker and parses one move.
// Any read error, including io.EOF before or in the middle of a move,
// is returned as-is; the stream is exhausted and the caller should
// stop soliciting moves.
func (p *Parser) Next() (Move, error) {
	var (
		action Action
		ok     bool
	)
	for !ok {
		ch, err := p.r.ReadByte()
		if err != nil {
			return Move{}, err
		}
		action, ok = actionFor(ch)
	}

	m := Move{Action: action}
	var err error
	switch action {
	case Open, Flag:
		if m.X, err = p.number('x'); err != nil {
			return Move{}, err
		}
		if m.Y, err = p.number(';'); err != nil {
			return Move{}, err
		}
		m.X -= 1
		m.Y -= 1
	case CursorUp, CursorDown:
		if m.Y, err = p.number(';'); err != nil {
			return Move{}, err
		}
	case CursorLeft, CursorRight:
		if m.X, err = p.number(';'); err != nil {
			return Move{}, err
		}
	}
	return m, nil
}

// number accumulates decimal digits until term, skipping everything
// else.
func (p *Parser) number(term byte) (int, error) {
	n := 0
	for {
		ch, err := p.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if ch == term {
			return n, nil
		}
		if '0' <= ch && ch <= '9' {
			n = n*10 + int(ch-'0')
		}
	}
}

// Bounds is the read-only view of engine state a move needs to resolve:
// grid size and the current cursor.
type Bounds interface {
	Size() (width, height int)
	Cursor() (x, y int)
}

// Resolve rewrites click moves to coordinate moves at the cursor and
// range-checks Open/Flag coordinates. Cursor moves pass through
// untouched; their bounds check happens when they are applied.
func Resolve(m Move, f Bounds) (Move, error) {
	switch m.Action {
	case ClickOpen:
		m.X, m.Y = f.Cursor()
		m.Action = Open
	case ClickFlag:
		m.X, m.Y = f.Cursor()
		m.Action = Flag
	}
	if m.Action == Open || m.Action == Flag {
		width, height := f.Size()
		switch {
		case m.X < 0:
			return m, CoordError{"x", "too small", m.X + 1}
		case m.Y < 0:
			return m, CoordError{"y", "too small", m.Y + 1}
		case m.X >= width:
			return m, CoordError{"x", "too large", m.X + 1}
		case m.Y >= height:
			return m, CoordError{"y", "too large", m.Y + 1}
		}
	}
	return m, nil
}
