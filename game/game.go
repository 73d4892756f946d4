package game

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"revolver-roulette-server/config"
	"revolver-roulette-server/wsutil"
)

// GamePhase is the server-authoritative round phase, broadcast to all
// clients on every transition.
type GamePhase int

const (
	PhaseSetup GamePhase = iota
	PhaseRevolverReveal
	PhaseCardPlay
	PhaseCardExecution
	PhaseShop
	PhaseDrawCards
	PhaseGameOver
)

// String returns the protocol string for a GamePhase.
func (gp GamePhase) String() string {
	switch gp {
	case PhaseSetup:
		return "setup"
	case PhaseRevolverReveal:
		return "revolver_reveal"
	case PhaseCardPlay:
		return "card_play"
	case PhaseCardExecution:
		return "card_execution"
	case PhaseShop:
		return "shop"
	case PhaseDrawCards:
		return "draw_cards"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ActionType enumerates the intents a game can process. Every intent is
// re-validated server-side before any state mutation.
type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionUseItem
	ActionBuyItem
	ActionDrawCard
	ActionDisconnect
)

// Action is one client intent sent into the game's action channel.
type Action struct {
	Type ActionType
	Seat int
	Card CardType // for ActionPlayCard
	Item ItemType // for ActionUseItem
	Slot int      // shop slot index, for ActionBuyItem
}

// TelemetrySink records shot and round events for later analysis. Optional;
// may be nil.
type TelemetrySink interface {
	RecordShot(matchID string, round, targetSeat int, bullet string, hit bool, damage int)
}

// PlayerResult is one seat's final standing, reported through OnGameEnd.
type PlayerResult struct {
	Seat   int
	UserID string
	Name   string
	IsBot  bool
	HP     int
	Shells int
}

// Game is the authoritative state for one match. A single goroutine (Run)
// owns every mutable field; clients only ever see serialized snapshots and
// submit intents through the Actions channel.
type Game struct {
	ID      string
	Config  *config.Config
	Players []*Player

	Cylinder *Cylinder
	Deck     *Deck
	Shop     *Shop
	Items    ItemProvider

	Phase GamePhase
	Round int

	// TargetSeat is the seat the barrel currently aims at; Clockwise is the
	// table direction, flipped by barrel-rotate cards.
	TargetSeat   int
	Clockwise    bool
	BarrelLocked bool

	Finished   bool
	WinnerSeat int    // -1 until decided
	EndReason  string // why the game ended; set when the terminal phase is entered

	// itemWindowSeat is the only seat allowed to use an item right now; -1
	// outside item-use windows.
	itemWindowSeat int

	// drawnThisPhase tracks which seats already took their round draw.
	drawnThisPhase map[int]bool

	phaseEndsAt time.Time

	rng *rand.Rand

	Actions chan Action
	Done    chan struct{}

	// TelemetrySink records shots; optional, set by the lobby.
	TelemetrySink TelemetrySink

	// OnGameEnd is called once when the game ends. winnerSeat is -1 when no
	// seat survived.
	OnGameEnd func(gameID string, results []PlayerResult, winnerSeat, rounds int, endReason string)
}

// NewGame creates a game over the given seats. The rng drives every random
// decision (deck build, shuffles, shop rolls) so a seeded source makes the
// whole match deterministic.
func NewGame(id string, cfg *config.Config, players []*Player, items ItemProvider, rng *rand.Rand) *Game {
	g := &Game{
		ID:             id,
		Config:         cfg,
		Players:        players,
		Cylinder:       NewCylinder(cfg.CylinderSize, rng),
		Deck:           BuildDeck(cfg.DeckSize, len(players), rng),
		Shop:           NewShop(),
		Items:          items,
		Phase:          PhaseSetup,
		Round:          1,
		Clockwise:      true,
		WinnerSeat:     -1,
		itemWindowSeat: -1,
		rng:            rng,
		Actions:        make(chan Action, 64),
		Done:           make(chan struct{}),
	}
	if len(players) > 0 {
		g.TargetSeat = players[0].Seat
	}
	return g
}

// Run is the main game loop: a strictly sequential phase machine that
// drains client intents between phase deadlines. Run as a goroutine.
func (g *Game) Run() {
	defer close(g.Done)

	g.runSetup()
	for !g.Finished {
		switch g.Phase {
		case PhaseRevolverReveal:
			g.runRevolverReveal()
		case PhaseCardPlay:
			g.runCardPlay()
		case PhaseCardExecution:
			g.runExecution()
		case PhaseShop:
			g.runShop()
		case PhaseDrawCards:
			g.runDrawCards()
		case PhaseGameOver:
			g.runGameOver()
		}
	}
}

// collectIntents drains the Actions channel until the duration elapses.
// With a non-positive duration it only drains intents already queued, which
// keeps zero-delay test configurations fully synchronous. The deadline is
// the phase's backpressure valve: unresponsive clients never stall a round.
func (g *Game) collectIntents(d time.Duration) {
	if d <= 0 {
		for {
			select {
			case a, ok := <-g.Actions:
				if !ok {
					g.Finished = true
					return
				}
				g.dispatch(a)
				if g.Finished || g.Phase == PhaseGameOver {
					return
				}
			default:
				return
			}
		}
	}

	g.phaseEndsAt = time.Now().Add(d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case a, ok := <-g.Actions:
			if !ok {
				g.Finished = true
				return
			}
			g.dispatch(a)
			if g.Finished || g.Phase == PhaseGameOver {
				return
			}
		case <-timer.C:
			return
		}
	}
}

func (g *Game) dispatch(a Action) {
	switch a.Type {
	case ActionPlayCard:
		g.handlePlayCard(a.Seat, a.Card)
	case ActionUseItem:
		g.handleUseItem(a.Seat, a.Item)
	case ActionBuyItem:
		g.handleBuyItem(a.Seat, a.Slot)
	case ActionDrawCard:
		g.handleDrawCard(a.Seat)
	case ActionDisconnect:
		g.handleDisconnect(a.Seat)
	}
}

// rotationPlayers returns the players still in turn order, in seat order.
func (g *Game) rotationPlayers() []*Player {
	var live []*Player
	for _, p := range g.Players {
		if p.InRotation() {
			live = append(live, p)
		}
	}
	return live
}

// playerBySeat returns the player in the given seat, or nil.
func (g *Game) playerBySeat(seat int) *Player {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// targetLiveIndex returns the aimed player's position in the rotation list.
// When the aimed seat has left the rotation the pointer snaps to the next
// live seat so it always names a valid target.
func (g *Game) targetLiveIndex() int {
	live := g.rotationPlayers()
	if len(live) == 0 {
		return 0
	}
	for i, p := range live {
		if p.Seat == g.TargetSeat {
			return i
		}
	}
	for i, p := range live {
		if p.Seat > g.TargetSeat {
			g.TargetSeat = p.Seat
			return i
		}
	}
	g.TargetSeat = live[0].Seat
	return 0
}

// targetPlayer returns the player the barrel currently aims at, or nil when
// nobody is left in rotation.
func (g *Game) targetPlayer() *Player {
	live := g.rotationPlayers()
	if len(live) == 0 {
		return nil
	}
	return live[g.targetLiveIndex()]
}

// rotateBarrel moves the aim dir steps around the live players. A rotation
// also sets the table direction: left turns the rotation counter-clockwise,
// right turns it clockwise, which is what shifts who goes first next
// execution phase. No-op while the barrel is locked.
func (g *Game) rotateBarrel(dir int) {
	if g.BarrelLocked {
		return
	}
	live := g.rotationPlayers()
	n := len(live)
	if n == 0 {
		return
	}
	idx := ((g.targetLiveIndex()+dir)%n + n) % n
	g.TargetSeat = live[idx].Seat
	g.Clockwise = dir >= 0
}

// aimAt points the barrel straight at the given player.
func (g *Game) aimAt(p *Player) {
	g.TargetSeat = p.Seat
}

// fireRevolver pulls the trigger against the current target: a hit deals
// the bullet's damage, a miss rewards the target one shell. The fired slot
// is cleared and the cylinder shifts either way.
func (g *Game) fireRevolver() {
	target := g.targetPlayer()
	result := g.Cylinder.Shoot()
	if target == nil {
		return
	}

	if result.Hit {
		target.TakeDamage(result.Damage)
		slog.Info("shot hit", "tag", "game", "game", g.ID, "seat", target.Seat, "bullet", result.Bullet.String(), "damage", result.Damage, "hp", target.HP)
		g.broadcast(map[string]any{
			"type":   "hit_effect",
			"seat":   target.Seat,
			"bullet": result.Bullet.String(),
			"damage": result.Damage,
		})
		if !target.Alive() {
			g.broadcast(map[string]any{"type": "player_eliminated", "seat": target.Seat})
		}
	} else {
		target.AddShells(1)
		slog.Info("shot missed", "tag", "game", "game", g.ID, "seat", target.Seat)
		g.broadcast(map[string]any{"type": "miss_effect", "seat": target.Seat})
	}

	if g.TelemetrySink != nil {
		g.TelemetrySink.RecordShot(g.ID, g.Round, target.Seat, result.Bullet.String(), result.Hit, result.Damage)
	}

	g.broadcastState()
}

// removeBullet empties a cylinder slot and pays the aimed player the one
// shell reward that removal always carries.
func (g *Game) removeBullet(slotIndex int) {
	if _, ok := g.Cylinder.RemoveBullet(slotIndex); !ok {
		return
	}
	if target := g.targetPlayer(); target != nil {
		target.AddShells(1)
	}
}

// drawToHand draws one card for the player. Hand overflow and deck
// exhaustion are signaled, never fatal.
func (g *Game) drawToHand(p *Player) bool {
	if len(p.Hand) >= MaxHandSize {
		g.sendError(p.Seat, "Your hand is full.")
		return false
	}
	card, ok := g.Deck.Draw()
	if !ok {
		slog.Warn("deck exhausted", "tag", "game", "game", g.ID)
		g.sendError(p.Seat, "No cards available to draw.")
		return false
	}
	p.Hand = append(p.Hand, card)
	return true
}

// checkGameOver transitions to the terminal phase once at most one player
// remains in rotation. Returns true when the game is over.
func (g *Game) checkGameOver() bool {
	if g.Phase == PhaseGameOver {
		return true
	}
	live := g.rotationPlayers()
	if len(live) > 1 {
		return false
	}
	if len(live) == 1 {
		g.WinnerSeat = live[0].Seat
	}
	if g.EndReason == "" {
		g.EndReason = "player_eliminated"
	}
	g.Phase = PhaseGameOver
	return true
}

// send marshals a message and delivers it to one seat. Nil-safe for bots
// without channels and vacated seats.
func (g *Game) send(p *Player, v any) {
	if p == nil || p.Send == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "game", "err", err)
		return
	}
	wsutil.SafeSend(p.Send, data)
}

// broadcast delivers a message to every seat.
func (g *Game) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling broadcast", "tag", "game", "err", err)
		return
	}
	for _, p := range g.Players {
		if p.Send != nil {
			wsutil.SafeSend(p.Send, data)
		}
	}
}

func (g *Game) sendError(seat int, message string) {
	g.send(g.playerBySeat(seat), map[string]string{
		"type":    "error",
		"message": message,
	})
}

// broadcastState pushes each seat's view of the full game state. Views are
// idempotent last-write-wins snapshots: a client that misses one converges
// on the next.
func (g *Game) broadcastState() {
	for _, p := range g.Players {
		if p.Send == nil {
			continue
		}
		g.send(p, g.BuildStateForSeat(p.Seat))
	}
}

// announcePhase broadcasts the phase transition plus fresh state.
func (g *Game) announcePhase() {
	g.broadcast(map[string]any{
		"type":  "phase_announcement",
		"phase": g.Phase.String(),
		"round": g.Round,
	})
	g.broadcastState()
}

func (g *Game) setPhase(p GamePhase) {
	g.Phase = p
	g.announcePhase()
}
