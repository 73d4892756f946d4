package ai

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"time"

	"revolver-roulette-server/config"
	"revolver-roulette-server/game"
)

// Run receives game state messages from the given channel and submits
// intents for its seat. It only uses information from the game_state
// payload (no access to game internals), so a bot cheats exactly as much
// as a client could. It runs until the channel is closed or a game_over
// is received.
func Run(botSend <-chan []byte, g *game.Game, seat int, params *config.BotParams) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(seat)))

	// One decision per phase per round; later snapshots of the same phase
	// are skipped so the bot does not replay its whole hand.
	actedPhase := ""
	actedRound := -1
	var lastItems []string

	for data := range botSend {
		var envelope struct {
			Type string `json:"type"`
			Seat int    `json:"seat"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			continue
		}

		switch envelope.Type {
		case "game_over":
			return

		case "your_turn":
			if envelope.Seat != seat {
				continue
			}
			// Item window is short; decide fast with a small fixed delay.
			if len(lastItems) > 0 && roll(rng, params.PlayChance) {
				item, ok := game.ItemTypeFromString(lastItems[rng.Intn(len(lastItems))])
				if ok {
					time.Sleep(time.Duration(params.DelayMinMS) * time.Millisecond)
					slog.Debug("using item", "tag", "bot", "name", params.Name, "item", item)
					submit(g, game.Action{Type: game.ActionUseItem, Seat: seat, Item: item})
				}
			}

		case "game_state":
			var state game.StateMsg
			if err := json.Unmarshal(data, &state); err != nil {
				continue
			}
			lastItems = state.You.Items

			if state.Phase == actedPhase && state.Round == actedRound {
				continue
			}

			switch state.Phase {
			case "card_play":
				actedPhase, actedRound = state.Phase, state.Round
				think(rng, params)
				playCards(g, seat, rng, params, &state)
			case "shop":
				actedPhase, actedRound = state.Phase, state.Round
				think(rng, params)
				browseShop(g, seat, rng, params, &state)
			case "draw_cards":
				actedPhase, actedRound = state.Phase, state.Round
				think(rng, params)
				submit(g, game.Action{Type: game.ActionDrawCard, Seat: seat})
			}
		}
	}
}

// playCards queues up to the played-card limit, rolling PlayChance per
// slot. The server re-validates everything, so a stale snapshot at worst
// earns a rejection.
func playCards(g *game.Game, seat int, rng *rand.Rand, params *config.BotParams, state *game.StateMsg) {
	hand := append([]string(nil), state.You.Hand...)
	rng.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })

	room := game.MaxPlayedCards - len(state.You.Played)
	for _, name := range hand {
		if room <= 0 {
			return
		}
		if !roll(rng, params.PlayChance) {
			continue
		}
		card, ok := game.CardTypeFromString(name)
		if !ok {
			continue
		}
		slog.Debug("playing card", "tag", "bot", "name", params.Name, "card", name)
		submit(g, game.Action{Type: game.ActionPlayCard, Seat: seat, Card: card})
		room--
	}
}

// browseShop tries one purchase. Bots do not track item prices; an
// unaffordable pick just gets a purchase_failed back.
func browseShop(g *game.Game, seat int, rng *rand.Rand, params *config.BotParams, state *game.StateMsg) {
	if !roll(rng, params.BuyChance) {
		return
	}
	var slots []int
	for i, name := range state.Shop {
		if name != "" && name != "none" {
			slots = append(slots, i)
		}
	}
	if len(slots) == 0 {
		return
	}
	slot := slots[rng.Intn(len(slots))]
	slog.Debug("buying item", "tag", "bot", "name", params.Name, "slot", slot)
	submit(g, game.Action{Type: game.ActionBuyItem, Seat: seat, Slot: slot})
}

// think sleeps for a human-like random delay.
func think(rng *rand.Rand, params *config.BotParams) {
	delayMS := params.DelayMinMS
	if params.DelayMaxMS > params.DelayMinMS {
		delayMS = params.DelayMinMS + rng.Intn(params.DelayMaxMS-params.DelayMinMS)
	}
	time.Sleep(time.Duration(delayMS) * time.Millisecond)
}

func roll(rng *rand.Rand, chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return rng.Intn(100) < chance
}

func submit(g *game.Game, a game.Action) {
	select {
	case g.Actions <- a:
	case <-g.Done:
	}
}
