package item

import (
	"revolver-roulette-server/game"
)

// MagnifierItem reveals every cylinder slot to the user.
type MagnifierItem struct{}

func (m *MagnifierItem) Type() game.ItemType { return game.Magnifier }
func (m *MagnifierItem) Name() string        { return "Magnifier" }
func (m *MagnifierItem) Description() string {
	return "Inspect the whole cylinder."
}
func (m *MagnifierItem) Cost() int { return 1 }
func (m *MagnifierItem) Tier() int { return 1 }

func (m *MagnifierItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	if ctx.RevealCylinder != nil {
		ctx.RevealCylinder()
	}
	return nil
}
