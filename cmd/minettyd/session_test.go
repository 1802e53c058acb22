package main

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akarpov/minetty/internal/game"
)

func newTestGameSession(t *testing.T, params game.Params) *GameSession {
	t.Helper()
	state, err := game.New(params, rand.New(rand.NewPCG(1, 1)))
	assert.NoError(t, err)
	return &GameSession{
		SessionId: 1,
		State:     state,
		StartedAt: time.Now().UTC(),
	}
}

func TestApplyScript(t *testing.T) {
	session := newTestGameSession(t, game.Params{Width: 1, Height: 2})

	assert.NoError(t, applyScript(session, []byte("#1x1;")))
	assert.True(t, session.State.Finished())

	session.markEnded()
	assert.False(t, session.EndedAt.IsZero())
}

func TestApplyScriptRejectsBadMove(t *testing.T) {
	session := newTestGameSession(t, game.Params{Width: 2, Height: 2, MineCount: 1})

	err := applyScript(session, []byte("#9x9;"))
	assert.EqualError(t, err, "x is too large: 9")
}

func TestApplyScriptCursorProtocol(t *testing.T) {
	session := newTestGameSession(t, game.Params{Width: 3, Height: 3})

	assert.NoError(t, applyScript(session, []byte("l1;j2;!")))
	x, y := session.State.Field.Cursor()
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
}

func TestGameSessionJSON(t *testing.T) {
	session := newTestGameSession(t, game.Params{Width: 2, Height: 1})

	payload, err := json.Marshal(session)
	assert.NoError(t, err)

	var decoded GameSessionJSON
	assert.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "1", decoded.SessionId)
	assert.Equal(t, 2, decoded.Width)
	assert.Equal(t, 1, decoded.Height)
	assert.Equal(t, "X][]\n", decoded.Grid)
	assert.False(t, decoded.Dead)
	assert.False(t, decoded.Won)
	assert.Nil(t, decoded.EndedAt)
}
