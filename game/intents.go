package game

import "log/slog"

// Intent handlers. Every intent is untrusted: ownership, capacity,
// affordability, and phase eligibility are re-checked here even when the
// client already did an optimistic local update. Rejections mutate nothing
// and answer with a targeted error at most.

func (g *Game) handlePlayCard(seat int, card CardType) {
	if g.Phase != PhaseCardPlay {
		g.sendError(seat, "Cards can only be played during the card play phase.")
		return
	}
	p := g.playerBySeat(seat)
	if p == nil || !p.InRotation() {
		return
	}
	if len(p.Played) >= MaxPlayedCards {
		g.sendError(seat, "You already played the maximum number of cards this round.")
		return
	}
	if !p.HasCard(card) {
		g.sendError(seat, "That card is not in your hand.")
		return
	}
	p.PlayCard(card)
	g.broadcastState()
}

func (g *Game) handleUseItem(seat int, item ItemType) {
	if g.Phase != PhaseCardExecution || g.itemWindowSeat != seat {
		g.sendError(seat, "It is not your item window.")
		return
	}
	p := g.playerBySeat(seat)
	if p == nil || !p.InRotation() {
		return
	}
	if p.UsedItemThisRound {
		g.sendError(seat, "You already used an item this round.")
		return
	}
	if !p.HasItem(item) {
		g.sendError(seat, "You do not own that item.")
		return
	}
	def, ok := g.Items.GetItem(item)
	if !ok {
		g.sendError(seat, "Unknown item.")
		return
	}

	p.RemoveItem(item)
	p.UsedItemThisRound = true

	ctx := &ItemContext{
		Cylinder: g.Cylinder,
		Deck:     g.Deck,
		Players:  g.Players,
		Rng:      g.rng,
		RevealHand: func(target *Player) {
			g.send(p, map[string]any{
				"type": "hand_reveal",
				"seat": target.Seat,
				"hand": cardStrings(target.Hand),
			})
		},
		RevealCylinder: func() {
			g.send(p, map[string]any{
				"type":    "cylinder_reveal",
				"slots":   g.Cylinder.slotStrings(),
				"current": g.Cylinder.Current,
			})
		},
		LockBarrel: func() {
			g.BarrelLocked = true
		},
	}
	if err := def.Apply(p, ctx); err != nil {
		slog.Warn("item apply failed", "tag", "game", "game", g.ID, "item", item.String(), "err", err)
	}

	g.broadcast(map[string]any{
		"type": "item_used",
		"seat": seat,
		"item": item.String(),
	})
	g.broadcastState()
}

func (g *Game) handleBuyItem(seat int, slot int) {
	if g.Phase != PhaseShop {
		g.sendPurchaseFailed(seat, "The shop is closed.")
		return
	}
	p := g.playerBySeat(seat)
	if p == nil || !p.InRotation() {
		return
	}
	itemType, ok := g.Shop.ItemAt(slot)
	if !ok {
		g.sendPurchaseFailed(seat, "That slot is sold out.")
		return
	}
	def, ok := g.Items.GetItem(itemType)
	if !ok {
		g.sendPurchaseFailed(seat, "That item is unavailable.")
		return
	}
	if p.Shells < def.Cost {
		g.sendPurchaseFailed(seat, "Not enough shells.")
		return
	}
	if len(p.Items) >= MaxItems {
		g.sendPurchaseFailed(seat, "Your item slots are full.")
		return
	}

	p.Shells -= def.Cost
	p.Items = append(p.Items, itemType)
	g.Shop.MarkSold(slot)

	g.send(p, map[string]any{
		"type": "purchase_success",
		"item": itemType.String(),
		"slot": slot,
	})
	g.broadcastState()
}

func (g *Game) sendPurchaseFailed(seat int, reason string) {
	g.send(g.playerBySeat(seat), map[string]any{
		"type":   "purchase_failed",
		"reason": reason,
	})
}

func (g *Game) handleDrawCard(seat int) {
	if g.Phase != PhaseDrawCards {
		g.sendError(seat, "You cannot draw right now.")
		return
	}
	p := g.playerBySeat(seat)
	if p == nil || !p.InRotation() {
		return
	}
	if g.drawnThisPhase == nil || g.drawnThisPhase[seat] {
		g.sendError(seat, "You already drew this round.")
		return
	}
	g.drawnThisPhase[seat] = true
	g.drawToHand(p)
	g.broadcastState()
}

// handleDisconnect removes a seat from the rotation. The round keeps going
// for everyone else; the game only ends when at most one seat remains.
func (g *Game) handleDisconnect(seat int) {
	p := g.playerBySeat(seat)
	if p == nil || p.Abandoned {
		return
	}
	p.Abandoned = true
	p.Send = nil
	slog.Info("player left game", "tag", "game", "game", g.ID, "seat", seat)
	g.broadcast(map[string]any{"type": "player_left", "seat": seat})
	if len(g.rotationPlayers()) <= 1 {
		g.EndReason = "opponents_left"
	}
	if g.checkGameOver() {
		return
	}
	g.broadcastState()
}
