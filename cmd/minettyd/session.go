package main

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/akarpov/minetty/internal/field"
	"github.com/akarpov/minetty/internal/game"
)

type GameSession struct {
	SessionId int
	PlayerId  *int
	State     *game.Session
	StartedAt time.Time
	EndedAt   time.Time
}

type GameSessionJSON struct {
	SessionId string `json:"session_id"`
	Grid      string `json:"grid"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MineCount int    `json:"mine_count"`
	CursorX   int    `json:"cursor_x"`
	CursorY   int    `json:"cursor_y"`
	Dead      bool   `json:"dead"`
	Won       bool   `json:"won"`
	StartedAt int64  `json:"started_at"`
	EndedAt   *int64 `json:"ended_at,omitempty"`
}

func (s GameSession) MarshalJSON() ([]byte, error) {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	result := s.State.Result()
	cx, cy := s.State.Field.Cursor()
	return json.Marshal(GameSessionJSON{
		SessionId: strconv.Itoa(s.SessionId),
		Grid:      s.State.Field.String(),
		Width:     s.State.Params.Width,
		Height:    s.State.Params.Height,
		MineCount: s.State.Params.MineCount,
		CursorX:   cx,
		CursorY:   cy,
		Dead:      result == field.Lost,
		Won:       result == field.Won,
		StartedAt: s.StartedAt.UnixMilli(),
		EndedAt:   endedAt,
	})
}

// markEnded stamps EndedAt once the game reaches a terminal result.
func (s *GameSession) markEnded() {
	if s.State.Finished() && s.EndedAt.IsZero() {
		s.EndedAt = time.Now().UTC()
	}
}
