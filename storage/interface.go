package storage

import "context"

// HistoryStore abstracts persistence for match history, standings, and shot
// telemetry. Implementations can be swapped for testing (mocks) or
// different backends (e.g. read replicas).
type HistoryStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]MatchRecord, error)
	ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error)
	GetLeaderboardEntryByUserID(ctx context.Context, userID string) (*LeaderboardEntry, error)

	// Write
	InsertGameResult(ctx context.Context, matchID string, seats []SeatResult, winnerSeat, rounds int, endReason string) error
	UpdateStandingsAfterGame(ctx context.Context, seats []SeatResult, winnerSeat int) error
	InsertShot(ctx context.Context, matchID string, round, targetSeat int, bullet string, hit bool, damage int) error

	// Lifecycle
	Close()
}

// Ensure *Store implements HistoryStore at compile time.
var _ HistoryStore = (*Store)(nil)
