package item

import (
	"revolver-roulette-server/game"
)

// CigaretteItem heals the user 1 HP (never above max, never back from 0).
type CigaretteItem struct{}

func (c *CigaretteItem) Type() game.ItemType { return game.Cigarette }
func (c *CigaretteItem) Name() string        { return "Cigarette" }
func (c *CigaretteItem) Description() string {
	return "Recover 1 HP."
}
func (c *CigaretteItem) Cost() int { return 4 }
func (c *CigaretteItem) Tier() int { return 4 }

func (c *CigaretteItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	owner.Heal(1)
	return nil
}
