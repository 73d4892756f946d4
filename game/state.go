package game

// Client-facing replication views. Every broadcast is a full snapshot per
// seat: a (field, value) set applied idempotently on the client, so missed
// intermediate updates are harmless.

// CylinderView mirrors the cylinder to every client. Slot contents are
// replicated openly; secrecy in this game lives in hands, not chambers.
type CylinderView struct {
	Slots   []string `json:"slots"`
	Current int      `json:"current"`
}

// SeatView is the public representation of a player, visible to everyone.
// Hands and played cards are redacted to counts.
type SeatView struct {
	Seat        int      `json:"seat"`
	Name        string   `json:"name"`
	HP          int      `json:"hp"`
	MaxHP       int      `json:"maxHp"`
	Shells      int      `json:"shells"`
	Alive       bool     `json:"alive"`
	Connected   bool     `json:"connected"`
	HandCount   int      `json:"handCount"`
	PlayedCount int      `json:"playedCount"`
	Items       []string `json:"items"`
	DamageBlock int      `json:"damageBlock,omitempty"`
}

// PrivateView is the requesting seat's own state, hand contents included.
type PrivateView struct {
	Seat          int      `json:"seat"`
	Hand          []string `json:"hand"`
	Played        []string `json:"played"`
	Items         []string `json:"items"`
	Shells        int      `json:"shells"`
	HP            int      `json:"hp"`
	SkipNextRound bool     `json:"skipNextRound"`
	UsedItem      bool     `json:"usedItem"`
}

// StateMsg is the full game state snapshot sent to one seat.
type StateMsg struct {
	Type          string       `json:"type"`
	Phase         string       `json:"phase"`
	Round         int          `json:"round"`
	TargetSeat    int          `json:"targetSeat"`
	Clockwise     bool         `json:"clockwise"`
	BarrelLocked  bool         `json:"barrelLocked"`
	Cylinder      CylinderView `json:"cylinder"`
	You           PrivateView  `json:"you"`
	Seats         []SeatView   `json:"seats"`
	DeckRemaining int          `json:"deckRemaining"`
	DeckDiscarded int          `json:"deckDiscarded"`
	Shop          []string     `json:"shop"`
	// PhaseEndsAtUnixMs is when the current phase force-closes; 0 when the
	// phase has no open window.
	PhaseEndsAtUnixMs int64 `json:"phaseEndsAtUnixMs,omitempty"`
}

func cardStrings(cards []CardType) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func itemStrings(items []ItemType) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}

func (c *Cylinder) slotStrings() []string {
	out := make([]string, len(c.Slots))
	for i, s := range c.Slots {
		out[i] = s.String()
	}
	return out
}

// BuildStateForSeat returns the game state view for one seat.
func (g *Game) BuildStateForSeat(seat int) StateMsg {
	seats := make([]SeatView, 0, len(g.Players))
	for _, p := range g.Players {
		seats = append(seats, SeatView{
			Seat:        p.Seat,
			Name:        p.Name,
			HP:          p.HP,
			MaxHP:       p.MaxHP,
			Shells:      p.Shells,
			Alive:       p.Alive(),
			Connected:   !p.Abandoned,
			HandCount:   len(p.Hand),
			PlayedCount: len(p.Played),
			Items:       itemStrings(p.Items),
			DamageBlock: p.DamageBlock,
		})
	}

	you := PrivateView{Seat: seat, Hand: []string{}, Played: []string{}, Items: []string{}}
	if p := g.playerBySeat(seat); p != nil {
		you = PrivateView{
			Seat:          p.Seat,
			Hand:          cardStrings(p.Hand),
			Played:        cardStrings(p.Played),
			Items:         itemStrings(p.Items),
			Shells:        p.Shells,
			HP:            p.HP,
			SkipNextRound: p.SkipNextRound,
			UsedItem:      p.UsedItemThisRound,
		}
	}

	shop := make([]string, ShopSlotCount)
	for i, it := range g.Shop.Slots {
		shop[i] = it.String()
	}

	msg := StateMsg{
		Type:          "game_state",
		Phase:         g.Phase.String(),
		Round:         g.Round,
		TargetSeat:    g.TargetSeat,
		Clockwise:     g.Clockwise,
		BarrelLocked:  g.BarrelLocked,
		Cylinder:      CylinderView{Slots: g.Cylinder.slotStrings(), Current: g.Cylinder.Current},
		You:           you,
		Seats:         seats,
		DeckRemaining: g.Deck.Remaining(),
		DeckDiscarded: g.Deck.Discarded(),
		Shop:          shop,
	}
	if !g.phaseEndsAt.IsZero() {
		msg.PhaseEndsAtUnixMs = g.phaseEndsAt.UnixMilli()
	}
	return msg
}
