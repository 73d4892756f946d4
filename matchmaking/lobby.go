package matchmaking

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"revolver-roulette-server/ai"
	"revolver-roulette-server/config"
	"revolver-roulette-server/game"
	"revolver-roulette-server/matcherrors"
	"revolver-roulette-server/storage"
	"revolver-roulette-server/ws"
	"revolver-roulette-server/wsutil"
)

// Lobby gathers clients into tables. A table starts as soon as MaxPlayers
// are waiting; otherwise a fill timer starts with the first client and the
// remaining seats are topped up with bots when it fires.
type Lobby struct {
	mu        sync.Mutex
	waiting   []*ws.Client
	fillTimer *time.Timer
	closed    bool

	cfg   *config.Config
	items game.ItemProvider
	store storage.HistoryStore // optional; nil disables persistence
}

// NewLobby creates a lobby. store may be nil.
func NewLobby(cfg *config.Config, items game.ItemProvider, store storage.HistoryStore) *Lobby {
	return &Lobby{
		cfg:   cfg,
		items: items,
		store: store,
	}
}

// Enqueue adds a client to the lobby queue and starts a table when enough
// players are waiting. Satisfies ws.LobbyInterface.
func (l *Lobby) Enqueue(c *ws.Client) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return matcherrors.ErrLobbyClosed
	}
	for _, w := range l.waiting {
		if w == c {
			return matcherrors.ErrAlreadyQueued
		}
		if w.Name == c.Name {
			return matcherrors.ErrNameTaken
		}
	}
	l.waiting = append(l.waiting, c)
	slog.Info("client queued", "tag", "lobby", "name", c.Name, "queued", len(l.waiting))

	l.broadcastWaitingLocked()

	if len(l.waiting) >= l.cfg.MaxPlayers {
		l.startTableLocked()
		return nil
	}
	if l.fillTimer == nil && l.cfg.LobbyFillSec > 0 {
		l.fillTimer = time.AfterFunc(time.Duration(l.cfg.LobbyFillSec)*time.Second, l.fillTimeout)
	}
	return nil
}

// LeaveQueue removes a client from the queue (e.g. on disconnect).
// Satisfies ws.LobbyInterface.
func (l *Lobby) LeaveQueue(c *ws.Client) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, w := range l.waiting {
		if w == c {
			l.waiting = append(l.waiting[:i], l.waiting[i+1:]...)
			break
		}
	}
	if len(l.waiting) == 0 {
		l.stopFillTimerLocked()
	}
}

// Close stops accepting new clients. Anyone still waiting is dropped from
// the queue; seated games run to completion on their own goroutines.
func (l *Lobby) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.stopFillTimerLocked()
	l.waiting = nil
}

func (l *Lobby) fillTimeout() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fillTimer = nil
	if len(l.waiting) == 0 {
		return
	}
	l.startTableLocked()
}

func (l *Lobby) stopFillTimerLocked() {
	if l.fillTimer != nil {
		l.fillTimer.Stop()
		l.fillTimer = nil
	}
}

func (l *Lobby) broadcastWaitingLocked() {
	msg := ws.WaitingForPlayersMsg{Type: "waiting_for_players", Queued: len(l.waiting)}
	data, _ := json.Marshal(msg)
	for _, c := range l.waiting {
		wsutil.SafeSend(c.Send, data)
	}
}

// startTableLocked seats every waiting client, fills the vacant seats with
// bots, and launches the game loop. Caller holds l.mu.
func (l *Lobby) startTableLocked() {
	l.stopFillTimerLocked()

	clients := l.waiting
	if len(clients) > l.cfg.MaxPlayers {
		clients = clients[:l.cfg.MaxPlayers]
	}
	l.waiting = l.waiting[len(clients):]

	gameID := uuid.NewString()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	players := make([]*game.Player, 0, l.cfg.MaxPlayers)
	names := make([]string, 0, l.cfg.MaxPlayers)
	for seat, c := range clients {
		p := game.NewPlayer(seat, c.Name, l.cfg.StartingHP, c.Send)
		p.UserID = c.UserID
		players = append(players, p)
		names = append(names, c.Name)
	}

	type botSeat struct {
		send   chan []byte
		seat   int
		params *config.BotParams
	}
	var bots []botSeat
	for seat := len(clients); seat < l.cfg.MaxPlayers; seat++ {
		params := l.botParams(rng, seat-len(clients))
		send := make(chan []byte, 64)
		p := game.NewPlayer(seat, params.Name, l.cfg.StartingHP, send)
		p.IsBot = true
		players = append(players, p)
		names = append(names, params.Name)
		bots = append(bots, botSeat{send: send, seat: seat, params: params})
	}

	g := game.NewGame(gameID, l.cfg, players, l.items, rng)
	if l.store != nil {
		g.TelemetrySink = &telemetrySink{store: l.store}
		g.OnGameEnd = l.persistResult
	}

	for seat, c := range clients {
		c.Game = g
		c.Seat = seat
		l.sendMatchFound(c, gameID, seat, names)
	}

	slog.Info("table started", "tag", "lobby", "game", gameID, "humans", len(clients), "bots", len(bots))

	for _, b := range bots {
		go ai.Run(b.send, g, b.seat, b.params)
	}
	go g.Run()
}

// botParams picks a bot profile, cycling through the configured list.
func (l *Lobby) botParams(rng *rand.Rand, n int) *config.BotParams {
	profiles := l.cfg.BotProfiles
	if len(profiles) == 0 {
		return &config.BotParams{Name: "Bot", DelayMinMS: 500, DelayMaxMS: 1500, PlayChance: 75, BuyChance: 50}
	}
	start := rng.Intn(len(profiles))
	return &profiles[(start+n)%len(profiles)]
}

func (l *Lobby) sendMatchFound(c *ws.Client, gameID string, seat int, names []string) {
	msg := ws.MatchFoundMsg{
		Type:    "match_found",
		GameID:  gameID,
		Seat:    seat,
		Players: names,
	}
	data, _ := json.Marshal(msg)
	wsutil.SafeSend(c.Send, data)
}

// persistResult records a finished game. Runs on the game goroutine; the
// store call gets its own deadline.
func (l *Lobby) persistResult(gameID string, results []game.PlayerResult, winnerSeat, rounds int, endReason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seats := make([]storage.SeatResult, 0, len(results))
	for _, r := range results {
		seats = append(seats, storage.SeatResult{
			Seat:    r.Seat,
			UserID:  r.UserID,
			Name:    r.Name,
			IsBot:   r.IsBot,
			FinalHP: r.HP,
			Shells:  r.Shells,
		})
	}
	if err := l.store.InsertGameResult(ctx, gameID, seats, winnerSeat, rounds, endReason); err != nil {
		slog.Error("persisting game result", "tag", "lobby", "game", gameID, "err", err)
		return
	}
	if err := l.store.UpdateStandingsAfterGame(ctx, seats, winnerSeat); err != nil {
		slog.Error("updating standings", "tag", "lobby", "game", gameID, "err", err)
	}
}

// telemetrySink adapts the history store to the game's telemetry interface.
type telemetrySink struct {
	store storage.HistoryStore
}

func (t *telemetrySink) RecordShot(matchID string, round, targetSeat int, bullet string, hit bool, damage int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := t.store.InsertShot(ctx, matchID, round, targetSeat, bullet, hit, damage); err != nil {
		slog.Warn("recording shot", "tag", "lobby", "game", matchID, "err", err)
	}
}
