package item

import (
	"revolver-roulette-server/game"
)

// Shields flag a damage block for the round. The flag is replicated so the
// table can see a shielded player; damage resolution does not consume it
// yet (pending final shield rules).

// LightShieldItem flags a 1-damage block.
type LightShieldItem struct{}

func (l *LightShieldItem) Type() game.ItemType { return game.LightShield }
func (l *LightShieldItem) Name() string        { return "Light Shield" }
func (l *LightShieldItem) Description() string {
	return "Raise a shield flagged to block 1 damage this round."
}
func (l *LightShieldItem) Cost() int { return 2 }
func (l *LightShieldItem) Tier() int { return 2 }

func (l *LightShieldItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	owner.DamageBlock = 1
	return nil
}

// HeavyShieldItem flags a 2-damage block.
type HeavyShieldItem struct{}

func (h *HeavyShieldItem) Type() game.ItemType { return game.HeavyShield }
func (h *HeavyShieldItem) Name() string        { return "Heavy Shield" }
func (h *HeavyShieldItem) Description() string {
	return "Raise a shield flagged to block 2 damage this round."
}
func (h *HeavyShieldItem) Cost() int { return 3 }
func (h *HeavyShieldItem) Tier() int { return 3 }

func (h *HeavyShieldItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	owner.DamageBlock = 2
	return nil
}
