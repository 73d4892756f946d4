package item

import (
	"revolver-roulette-server/game"
)

// LockBarrelItem freezes the barrel: rotation cards do nothing for the rest
// of the round.
type LockBarrelItem struct{}

func (l *LockBarrelItem) Type() game.ItemType { return game.LockBarrel }
func (l *LockBarrelItem) Name() string        { return "Lock Barrel" }
func (l *LockBarrelItem) Description() string {
	return "The barrel cannot be rotated for the rest of the round."
}
func (l *LockBarrelItem) Cost() int { return 2 }
func (l *LockBarrelItem) Tier() int { return 2 }

func (l *LockBarrelItem) Apply(owner *game.Player, ctx *game.ItemContext) error {
	if ctx.LockBarrel != nil {
		ctx.LockBarrel()
	}
	return nil
}
