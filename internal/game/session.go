package game

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/akarpov/minetty/internal/field"
	"github.com/akarpov/minetty/internal/move"
)

var ErrFinished = errors.New("game is over")

type Params struct {
	Width     int
	Height    int
	MineCount int
}

// DefaultMineCount is the mine count used when the player does not pick
// one: a tenth of the board.
func (p Params) DefaultMineCount() int {
	return p.Width * p.Height / 10
}

func (p Params) Validate() error {
	if p.Width < 1 {
		return fmt.Errorf("width is too small: %d", p.Width)
	}
	if p.Height < 1 {
		return fmt.Errorf("height is too small: %d", p.Height)
	}
	if p.MineCount < 0 {
		return fmt.Errorf("mines is too small: %d", p.MineCount)
	}
	if p.MineCount > p.Width*p.Height {
		return fmt.Errorf("mines is too large: %d", p.MineCount)
	}
	return nil
}

// Session is one game: the generated field plus the parameters it was
// created with. It applies resolved moves and refuses all of them once
// the game is decided.
type Session struct {
	Params Params
	Field  *field.Field
}

func New(params Params, r *rand.Rand) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f, err := field.New(params.Width, params.Height)
	if err != nil {
		return nil, err
	}
	f.Generate(params.MineCount, r)
	return &Session{Params: params, Field: f}, nil
}

func DecodeSession(buf []byte) (*Session, error) {
	var s Session
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Session) Result() field.Result {
	return s.Field.Result()
}

func (s *Session) Finished() bool {
	return s.Field.Result() != field.InProgress
}

// Apply resolves and executes one move. Validation failures (bad
// coordinates, a cursor move off the grid) are returned without
// touching state; the caller reports them and solicits the next move.
func (s *Session) Apply(m move.Move) error {
	if s.Finished() {
		return ErrFinished
	}
	m, err := move.Resolve(m, s.Field)
	if err != nil {
		return err
	}
	switch m.Action {
	case move.Open:
		s.Field.Open(m.X, m.Y)
	case move.Flag:
		s.Field.ToggleFlag(m.X, m.Y)
	case move.CursorUp:
		return s.Field.MoveCursor(0, -m.Y)
	case move.CursorDown:
		return s.Field.MoveCursor(0, m.Y)
	case move.CursorLeft:
		return s.Field.MoveCursor(-m.X, 0)
	case move.CursorRight:
		return s.Field.MoveCursor(m.X, 0)
	}
	return nil
}
