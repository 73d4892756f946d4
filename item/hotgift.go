package item

import (
	"revolver-roulette-server/game"
)

// HotGiftItem upgrades every normal bullet in the cylinder to gold.
type HotGiftItem struct{}

func (h *HotGiftItem) Type() game.ItemType { return game.HotGift }
func (h *HotGiftItem) Name() string        { return "Hot Gift" }
func (h *HotGiftItem) Description() string {
	return "Every normal bullet in the cylinder turns to gold."
}
func (h *HotGiftItem) Cost() int { return 4 }
func (h *HotGiftItem) Tier() int { return 4 }

func (h *HotGiftItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	ctx.Cylinder.ConvertNormalToGold()
	return nil
}
