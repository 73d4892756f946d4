package item

import (
	"revolver-roulette-server/game"
)

// CoffeeItem exchanges the played cards: they go to the discard pile and
// the owner draws the same number back to hand.
type CoffeeItem struct{}

func (c *CoffeeItem) Type() game.ItemType { return game.Coffee }
func (c *CoffeeItem) Name() string        { return "Coffee" }
func (c *CoffeeItem) Description() string {
	return "Take back your played cards and draw that many replacements."
}
func (c *CoffeeItem) Cost() int { return 3 }
func (c *CoffeeItem) Tier() int { return 3 }

func (c *CoffeeItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	n := len(owner.Played)
	if n == 0 {
		return nil
	}
	for _, card := range owner.Played {
		ctx.Deck.Discard(card)
	}
	owner.Played = owner.Played[:0]
	for i := 0; i < n && len(owner.Hand) < game.MaxHandSize; i++ {
		card, ok := ctx.Deck.Draw()
		if !ok {
			break
		}
		owner.Hand = append(owner.Hand, card)
	}
	return nil
}
