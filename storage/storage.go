package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const botUserIDPrefix = "bot:"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS match_history (
	id UUID PRIMARY KEY,
	played_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	rounds INT NOT NULL,
	winner_seat SMALLINT,
	end_reason TEXT
);
CREATE TABLE IF NOT EXISTS match_players (
	match_id  UUID NOT NULL REFERENCES match_history(id),
	seat      SMALLINT NOT NULL,
	user_id   TEXT NOT NULL,
	name      TEXT NOT NULL,
	is_bot    BOOLEAN NOT NULL DEFAULT false,
	final_hp  INT NOT NULL,
	shells    INT NOT NULL,
	PRIMARY KEY (match_id, seat)
);
CREATE INDEX IF NOT EXISTS idx_match_players_user_id ON match_players(user_id);
CREATE TABLE IF NOT EXISTS player_stats (
	user_id      TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	wins         INT  NOT NULL DEFAULT 0,
	losses       INT  NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_player_stats_wins ON player_stats(wins DESC);
CREATE TABLE IF NOT EXISTS shots (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	match_id    UUID NOT NULL,
	fired_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	round       INT NOT NULL,
	target_seat SMALLINT NOT NULL,
	bullet      TEXT NOT NULL,
	hit         BOOLEAN NOT NULL,
	damage      INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shots_match_id ON shots(match_id);
`

// SeatResult is one seat's final standing in a finished match.
type SeatResult struct {
	Seat    int
	UserID  string
	Name    string
	IsBot   bool
	FinalHP int
	Shells  int
}

// Store persists and retrieves match history.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the schema exists. If
// databaseURL is empty, NewStore returns (nil, nil) and no persistence
// occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InsertGameResult records a finished match and its seats. winnerSeat is
// -1 when no seat survived (stored as NULL).
func (s *Store) InsertGameResult(ctx context.Context, matchID string, seats []SeatResult, winnerSeat, rounds int, endReason string) error {
	if s == nil || s.pool == nil {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var winner *int
	if winnerSeat >= 0 {
		winner = &winnerSeat
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO match_history (id, rounds, winner_seat, end_reason)
		VALUES ($1, $2, $3, $4)`,
		matchID, rounds, winner, endReason)
	if err != nil {
		return err
	}
	for _, r := range seats {
		userID := r.UserID
		if userID == "" && r.IsBot {
			userID = botUserIDPrefix + r.Name
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO match_players (match_id, seat, user_id, name, is_bot, final_hp, shells)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			matchID, r.Seat, userID, r.Name, r.IsBot, r.FinalHP, r.Shells)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// UpdateStandingsAfterGame bumps wins/losses for every seated human.
// Bots and anonymous players are skipped; their standings are not tracked.
func (s *Store) UpdateStandingsAfterGame(ctx context.Context, seats []SeatResult, winnerSeat int) error {
	if s == nil || s.pool == nil {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range seats {
		if r.IsBot || r.UserID == "" {
			continue
		}
		won := r.Seat == winnerSeat
		_, err = tx.Exec(ctx, `
			INSERT INTO player_stats (user_id, display_name, wins, losses)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				wins = player_stats.wins + EXCLUDED.wins,
				losses = player_stats.losses + EXCLUDED.losses,
				updated_at = now()`,
			r.UserID, r.Name, boolToInt(won), boolToInt(!won))
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// InsertShot records one revolver shot for balance telemetry.
func (s *Store) InsertShot(ctx context.Context, matchID string, round, targetSeat int, bullet string, hit bool, damage int) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO shots (match_id, round, target_seat, bullet, hit, damage)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		matchID, round, targetSeat, bullet, hit, damage)
	return err
}

// MatchSeat is one seat of a match as returned by the history API.
type MatchSeat struct {
	Seat    int    `json:"seat"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	IsBot   bool   `json:"is_bot"`
	FinalHP int    `json:"final_hp"`
	Shells  int    `json:"shells"`
}

// MatchRecord is a single match returned for the history API.
type MatchRecord struct {
	ID         string      `json:"id"`
	PlayedAt   string      `json:"played_at"` // ISO8601
	Rounds     int         `json:"rounds"`
	WinnerSeat *int        `json:"winner_seat"` // null when no seat survived
	EndReason  string      `json:"end_reason"`
	YourSeat   *int        `json:"your_seat"` // set by ListByUserID
	Seats      []MatchSeat `json:"seats"`
}

// ListByUserID returns all matches where the user was seated, newest
// first, with every seat of each match attached.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]MatchRecord, error) {
	if s == nil || s.pool == nil {
		return []MatchRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT h.id, h.played_at, h.rounds, h.winner_seat, COALESCE(h.end_reason,'')
		FROM match_history h
		JOIN match_players me ON me.match_id = h.id AND me.user_id = $1
		ORDER BY h.played_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRecord
	index := make(map[string]int)
	for rows.Next() {
		var r MatchRecord
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.Rounds, &r.WinnerSeat, &r.EndReason); err != nil {
			return nil, err
		}
		r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
		index[r.ID] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []MatchRecord{}, nil
	}

	ids := make([]string, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	seatRows, err := s.pool.Query(ctx, `
		SELECT match_id, seat, user_id, name, is_bot, final_hp, shells
		FROM match_players
		WHERE match_id = ANY($1)
		ORDER BY match_id, seat`,
		ids)
	if err != nil {
		return nil, err
	}
	defer seatRows.Close()
	for seatRows.Next() {
		var matchID string
		var seat MatchSeat
		if err := seatRows.Scan(&matchID, &seat.Seat, &seat.UserID, &seat.Name, &seat.IsBot, &seat.FinalHP, &seat.Shells); err != nil {
			return nil, err
		}
		i, ok := index[matchID]
		if !ok {
			continue
		}
		out[i].Seats = append(out[i].Seats, seat)
		if seat.UserID == userID {
			yours := seat.Seat
			out[i].YourSeat = &yours
		}
	}
	return out, seatRows.Err()
}

// LeaderboardEntry is a single row for the leaderboard API.
type LeaderboardEntry struct {
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

// ListLeaderboard returns entries ordered by wins DESC, with optional
// limit and offset.
func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if s == nil || s.pool == nil {
		return []LeaderboardEntry{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, display_name, wins, losses
		FROM player_stats
		ORDER BY wins DESC, losses ASC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Wins, &e.Losses); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLeaderboardEntryByUserID returns one player's standing, or (nil, nil)
// if not found.
func (s *Store) GetLeaderboardEntryByUserID(ctx context.Context, userID string) (*LeaderboardEntry, error) {
	if s == nil || s.pool == nil || userID == "" {
		return nil, nil
	}
	var e LeaderboardEntry
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, display_name, wins, losses
		FROM player_stats
		WHERE user_id = $1`,
		userID).Scan(&e.UserID, &e.DisplayName, &e.Wins, &e.Losses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
