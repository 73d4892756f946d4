package game

import (
	"log/slog"
	"time"
)

func (g *Game) secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (g *Game) millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// runSetup deals starting hands, loads the revolver, and moves to the first
// reveal.
func (g *Game) runSetup() {
	for _, p := range g.Players {
		for i := 0; i < g.Config.StartingCards; i++ {
			if card, ok := g.Deck.Draw(); ok {
				p.Hand = append(p.Hand, card)
			}
		}
	}

	for i := 0; i < g.Config.InitialBullets; i++ {
		g.Cylinder.SetBullet(g.rng.Intn(g.Cylinder.Size()), Normal)
	}

	slog.Info("game started", "tag", "game", "game", g.ID, "players", len(g.Players), "deck", g.Deck.Remaining())
	g.setPhase(PhaseRevolverReveal)
}

// runRevolverReveal shows every seat the loaded cylinder once, then opens
// card play. The delay is pacing only; nothing depends on it.
func (g *Game) runRevolverReveal() {
	g.broadcast(map[string]any{
		"type":    "cylinder_reveal",
		"slots":   g.Cylinder.slotStrings(),
		"current": g.Cylinder.Current,
	})
	g.collectIntents(g.millis(g.Config.RevealDelayMS))
	if g.Phase == PhaseGameOver {
		return
	}
	g.setPhase(PhaseCardPlay)
}

// runCardPlay keeps the play window open for the configured duration; play
// intents arriving outside it are rejected by the handler.
func (g *Game) runCardPlay() {
	g.collectIntents(g.secs(g.Config.CardPlaySec))
	if g.Phase == PhaseGameOver {
		return
	}
	g.setPhase(PhaseCardExecution)
}

// runExecution walks one full rotation starting at the aimed player. Each
// live, non-skipped seat gets an item window, then either fires the
// revolver at themselves (no cards played) or resolves their played cards
// last-to-first.
func (g *Game) runExecution() {
	live := g.rotationPlayers()
	start := g.targetLiveIndex()
	order := TurnSequence(start, len(live), g.Clockwise)

	for _, idx := range order {
		p := live[idx]
		if !p.InRotation() {
			continue
		}

		if p.SkipNextRound {
			p.SkipNextRound = false
			for _, c := range p.Played {
				g.Deck.Discard(c)
			}
			p.Played = p.Played[:0]
			g.broadcast(map[string]any{"type": "turn_skipped", "seat": p.Seat})
			g.broadcastState()
			continue
		}

		g.send(p, map[string]any{"type": "your_turn", "seat": p.Seat})

		if len(p.Items) > 0 && !p.UsedItemThisRound {
			g.itemWindowSeat = p.Seat
			g.collectIntents(g.secs(g.Config.ItemUseSec))
			g.itemWindowSeat = -1
			if g.Phase == PhaseGameOver {
				return
			}
		}

		if len(p.Played) == 0 {
			// Nothing committed: the barrel swings to the idle player and
			// fires. Risk the chamber or spend cards, never neither.
			g.aimAt(p)
			g.broadcastState()
			g.fireRevolver()
		} else {
			for i := len(p.Played) - 1; i >= 0; i-- {
				card := p.Played[i]
				p.Played = p.Played[:i]
				g.broadcast(map[string]any{
					"type": "card_executed",
					"seat": p.Seat,
					"card": card.String(),
				})
				g.executeCard(p, card)
				g.Deck.Discard(card)
				g.broadcastState()
				if g.checkGameOver() {
					return
				}
				g.collectIntents(g.millis(g.Config.CardResolveMS))
				if g.Phase == PhaseGameOver {
					return
				}
			}
		}

		if g.checkGameOver() {
			return
		}
	}

	g.setPhase(PhaseShop)
}

// executeCard applies one card effect. The dispatch table lives only here,
// server-side; clients never resolve effects themselves.
func (g *Game) executeCard(p *Player, card CardType) {
	switch card {
	case RotateBarrelLeft:
		g.rotateBarrel(-1)
	case RotateBarrelRight:
		g.rotateBarrel(1)
	case RotateCylinderLeft:
		g.Cylinder.Rotate(-1)
	case RotateCylinderRight:
		g.Cylinder.Rotate(1)
	case SelfShoot:
		g.fireRevolver()
	case PeekBullet:
		g.send(p, map[string]any{
			"type":   "peek_result",
			"slot":   g.Cylinder.Current,
			"bullet": g.Cylinder.Peek().String(),
		})
	case SkipNext:
		g.flagNextPlayerSkipped(p)
	case AddGoldBullet:
		if _, ok := g.Cylinder.AddBullet(Gold); !ok {
			g.sendError(p.Seat, "The cylinder is full.")
		}
	case AddBullet:
		if _, ok := g.Cylinder.AddBullet(Normal); !ok {
			g.sendError(p.Seat, "The cylinder is full.")
		}
	case ShuffleCylinder:
		g.Cylinder.Shuffle()
	case DrawCards:
		g.drawToHand(p)
		g.drawToHand(p)
	case Counter:
		// Reserved: will block the next harmful effect once counters resolve.
	}
}

// flagNextPlayerSkipped marks the next live player after the executor (in
// the current direction) to be walked over this rotation.
func (g *Game) flagNextPlayerSkipped(executor *Player) {
	live := g.rotationPlayers()
	if len(live) < 2 {
		return
	}
	pos := 0
	for i, p := range live {
		if p.Seat == executor.Seat {
			pos = i
			break
		}
	}
	next := live[NextPlayerIndex(pos, 1, len(live), g.Clockwise)]
	next.SkipNextRound = true
	g.broadcast(map[string]any{"type": "skip_flagged", "seat": next.Seat})
}

// runShop regenerates the tiered slots and keeps the buy window open.
// Unsold stock is thrown away when the phase closes.
func (g *Game) runShop() {
	g.Shop.Generate(g.Items, g.rng)
	g.announcePhase()
	g.collectIntents(g.secs(g.Config.ShopSec))
	if g.Phase == PhaseGameOver {
		return
	}
	g.setPhase(PhaseDrawCards)
}

// runDrawCards gives every live player their round draw: on request during
// the window, automatically at the deadline. Then the round wraps up.
func (g *Game) runDrawCards() {
	g.drawnThisPhase = make(map[int]bool)
	g.collectIntents(g.secs(g.Config.DrawSec))
	if g.Phase == PhaseGameOver {
		return
	}

	for _, p := range g.rotationPlayers() {
		if !g.drawnThisPhase[p.Seat] {
			g.drawToHand(p)
		}
	}
	g.drawnThisPhase = nil

	for _, p := range g.Players {
		p.RoundCleanup(g.Deck)
	}
	g.BarrelLocked = false
	g.Round++

	if g.checkGameOver() {
		return
	}
	g.setPhase(PhaseRevolverReveal)
}

// runGameOver reports the winner, persists the result, and stops the loop.
func (g *Game) runGameOver() {
	g.Phase = PhaseGameOver
	g.announcePhase()

	var winnerName string
	if w := g.playerBySeat(g.WinnerSeat); w != nil {
		winnerName = w.Name
	}
	g.broadcast(map[string]any{
		"type":   "game_over",
		"winner": g.WinnerSeat,
		"name":   winnerName,
	})
	slog.Info("game over", "tag", "game", "game", g.ID, "winner", g.WinnerSeat, "rounds", g.Round)

	if g.OnGameEnd != nil {
		results := make([]PlayerResult, 0, len(g.Players))
		for _, p := range g.Players {
			results = append(results, PlayerResult{
				Seat:   p.Seat,
				UserID: p.UserID,
				Name:   p.Name,
				IsBot:  p.IsBot,
				HP:     p.HP,
				Shells: p.Shells,
			})
		}
		reason := g.EndReason
		if reason == "" {
			reason = "completed"
		}
		g.OnGameEnd(g.ID, results, g.WinnerSeat, g.Round, reason)
	}
	g.Finished = true
}
