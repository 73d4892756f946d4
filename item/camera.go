package item

import (
	"revolver-roulette-server/game"
)

// CameraItem reveals a randomly chosen other player's hand to the user.
type CameraItem struct{}

func (c *CameraItem) Type() game.ItemType { return game.Camera }
func (c *CameraItem) Name() string        { return "Camera" }
func (c *CameraItem) Description() string {
	return "Peek at a random opponent's hand."
}
func (c *CameraItem) Cost() int { return 1 }
func (c *CameraItem) Tier() int { return 1 }

func (c *CameraItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	var others []*game.Player
	for _, p := range ctx.Players {
		if p.Seat != owner.Seat && p.Alive() {
			others = append(others, p)
		}
	}
	if len(others) == 0 || ctx.RevealHand == nil {
		return nil
	}
	ctx.RevealHand(others[ctx.Rng.Intn(len(others))])
	return nil
}
