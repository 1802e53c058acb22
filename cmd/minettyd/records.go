package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/akarpov/minetty/internal/game"
)

type GameRecord struct {
	GameSessionId string  `json:"session_id"`
	Username      *string `json:"username"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MineCount     int     `json:"mine_count"`
	Playtime      float64 `json:"playtime"`
}

type GameRecordFilters struct {
	username   *string
	gameParams *game.Params
}

func (f GameRecordFilters) WhereClause() (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	whereClauses := []string{}
	if f.username != nil {
		args["username"] = *f.username
		whereClauses = append(whereClauses, "username = @username")
	}
	if f.gameParams != nil {
		args["width"] = f.gameParams.Width
		args["height"] = f.gameParams.Height
		args["mineCount"] = f.gameParams.MineCount
		whereClauses = append(
			whereClauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
	}

	if len(whereClauses) == 0 {
		return "", args
	}
	return strings.Join(whereClauses, " and "), args
}

type GameRecordsOption = func(*GameRecordFilters) error

func GameRecordsForPlayer(username string) GameRecordsOption {
	return func(f *GameRecordFilters) error {
		f.username = &username
		return nil
	}
}

func GameRecordsForGameParams(gameParams *game.Params) GameRecordsOption {
	return func(f *GameRecordFilters) error {
		f.gameParams = gameParams
		return nil
	}
}

func getGameRecords(
	ctx context.Context, options ...GameRecordsOption,
) ([]GameRecord, error) {
	filters := &GameRecordFilters{}
	for _, op := range options {
		err := op(filters)
		if err != nil {
			return nil, err
		}
	}

	sql := `
	select
		game_session_id
		, username
		, width
		, height
		, mine_count
		, (
			extract('epoch' from ended_at) - extract('epoch' from started_at)
		) * 1000 playtime
	from game_session
		left outer join player using (player_id)
	where
		won = true
		and dead = false
		and ended_at is not null`

	whereClause, args := filters.WhereClause()
	if whereClause != "" {
		sql += " and " + whereClause
	}

	sql += " order by playtime"

	rows, err := pg.db.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameRecord])
}

type RecordsParams struct {
	Width     *int `schema:"width"`
	Height    *int `schema:"height"`
	MineCount *int `schema:"mine_count"`
}

func (p RecordsParams) options() []GameRecordsOption {
	if p.Width == nil || p.Height == nil || p.MineCount == nil {
		return nil
	}
	return []GameRecordsOption{
		GameRecordsForGameParams(&game.Params{
			Width:     *p.Width,
			Height:    *p.Height,
			MineCount: *p.MineCount,
		}),
	}
}

func handleGetRecords(w http.ResponseWriter, r *http.Request) {
	var params RecordsParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	records, err := getGameRecords(r.Context(), params.options()...)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, records); err != nil {
		log.Error(err)
	}
}

func handleGetOwnRecords(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ctxPlayerClaims).(*PlayerClaims)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var params RecordsParams
	if err := dec.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	options := append(
		params.options(), GameRecordsForPlayer(claims.Username),
	)
	records, err := getGameRecords(r.Context(), options...)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	if _, err := sendJSON(w, records); err != nil {
		log.Error(err)
	}
}
