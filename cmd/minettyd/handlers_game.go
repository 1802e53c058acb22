package main

import (
	"bytes"
	"errors"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5"

	"github.com/akarpov/minetty/internal/game"
	"github.com/akarpov/minetty/internal/move"
)

var (
	dec = schema.NewDecoder()
	rnd = rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(),
		new(maphash.Hash).Sum64(),
	))
)

func init() {
	dec.IgnoreUnknownKeys(true)
}

type NewGameParams struct {
	Width     int     `schema:"width,required"`
	Height    int     `schema:"height,required"`
	MineCount int     `schema:"mine_count,required"`
	Seed      *uint64 `schema:"seed"`
}

type PosParams struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func handleNewGame(w http.ResponseWriter, r *http.Request) {
	var gameParams NewGameParams
	if err := dec.Decode(&gameParams, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	params := game.Params{
		Width:     gameParams.Width,
		Height:    gameParams.Height,
		MineCount: gameParams.MineCount,
	}
	if err := params.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	rng := rnd
	if gameParams.Seed != nil {
		rng = rand.New(rand.NewPCG(*gameParams.Seed, *gameParams.Seed))
	}
	state, err := game.New(params, rng)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	var session *GameSession
	if claims, ok := r.Context().Value(ctxPlayerClaims).(*PlayerClaims); ok {
		log.Debug("creating session for player ", claims.Username)
		session, err = pg.CreatePlayerGameSession(
			r.Context(), claims.PlayerId, state,
		)
		refreshPlayerCookies(w, *claims)
	} else {
		log.Debug("creating anonymous session")
		session, err = pg.CreateAnonymousGameSession(r.Context(), state)
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

func fetchSession(w http.ResponseWriter, r *http.Request) *GameSession {
	sessionId, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}
	session, err := pg.GetSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return nil
	}
	return session
}

func handleGetGame(w http.ResponseWriter, r *http.Request) {
	session := fetchSession(w, r)
	if session == nil {
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

// handleMove applies one already-resolved coordinate move to a stored
// session. API coordinates are 0-based, unlike the text protocol.
func handleMove(w http.ResponseWriter, r *http.Request, action move.Action) {
	var posParams PosParams
	if err := dec.Decode(&posParams, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	session := fetchSession(w, r)
	if session == nil {
		return
	}
	m := move.Move{Action: action, X: posParams.X, Y: posParams.Y}
	if err := session.State.Apply(m); err != nil {
		if errors.Is(err, game.ErrFinished) {
			w.WriteHeader(http.StatusConflict)
		} else {
			w.WriteHeader(http.StatusBadRequest)
		}
		w.Write([]byte(err.Error()))
		return
	}
	session.markEnded()
	if err := pg.UpdateGameSession(r.Context(), session); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

func handleOpen(w http.ResponseWriter, r *http.Request) {
	handleMove(w, r, move.Open)
}

func handleFlag(w http.ResponseWriter, r *http.Request) {
	handleMove(w, r, move.Flag)
}

// handleBatch feeds the request body through the text move protocol
// (e.g. "#3x2;?1x1;j2;@"). Interpretation stops at the first rejected
// move or at a terminal game result.
func handleBatch(w http.ResponseWriter, r *http.Request) {
	session := fetchSession(w, r)
	if session == nil {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if err := applyScript(session, body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	session.markEnded()
	if err := pg.UpdateGameSession(r.Context(), session); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

// applyScript runs a chunk of move-protocol text against a session. A
// clean end of input is fine; everything else bubbles up.
func applyScript(session *GameSession, script []byte) error {
	parser := move.NewParser(bytes.NewReader(script))
	for {
		m, err := parser.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if err := session.State.Apply(m); err != nil {
			return err
		}
		if session.State.Finished() {
			return nil
		}
	}
}
