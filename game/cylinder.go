package game

import (
	"math/rand"
)

// BulletType represents the contents of one cylinder slot.
type BulletType int

const (
	Empty BulletType = iota
	Normal
	Gold
)

// String returns the protocol string for a BulletType.
func (b BulletType) String() string {
	switch b {
	case Empty:
		return "empty"
	case Normal:
		return "normal"
	case Gold:
		return "gold"
	default:
		return "unknown"
	}
}

// Damage returns the HP loss inflicted when this bullet fires. Empty deals none.
func (b BulletType) Damage() int {
	switch b {
	case Normal:
		return 1
	case Gold:
		return 2
	default:
		return 0
	}
}

// ShotResult describes the outcome of a single trigger pull.
type ShotResult struct {
	Bullet BulletType
	Hit    bool
	Damage int
}

// Cylinder is the revolver chamber: a fixed ring of bullet slots with a
// pointer to the slot that fires next. It knows nothing about players or
// the network; the orchestrator owns aiming and damage application.
type Cylinder struct {
	Slots   []BulletType
	Current int

	rng *rand.Rand
}

// NewCylinder creates an all-empty cylinder of the given size (minimum 1).
func NewCylinder(size int, rng *rand.Rand) *Cylinder {
	if size < 1 {
		size = 1
	}
	return &Cylinder{
		Slots:   make([]BulletType, size),
		Current: 0,
		rng:     rng,
	}
}

// Size returns the number of slots.
func (c *Cylinder) Size() int {
	return len(c.Slots)
}

// Rotate advances (dir > 0) or recedes (dir < 0) the current slot pointer,
// wrapping around the ring. Slot contents are untouched.
func (c *Cylinder) Rotate(dir int) {
	n := len(c.Slots)
	c.Current = ((c.Current+dir)%n + n) % n
}

// Peek returns the bullet at the current slot without mutating anything.
func (c *Cylinder) Peek() BulletType {
	return c.Slots[c.Current]
}

// AddBullet places a bullet in the first empty slot scanning from index 0.
// Returns the chosen slot, or (-1, false) when every slot is loaded.
func (c *Cylinder) AddBullet(bullet BulletType) (int, bool) {
	if bullet == Empty {
		return -1, false
	}
	for i, slot := range c.Slots {
		if slot == Empty {
			c.Slots[i] = bullet
			return i, true
		}
	}
	return -1, false
}

// SetBullet places a bullet in an explicit slot. No-op out of range.
func (c *Cylinder) SetBullet(slotIndex int, bullet BulletType) {
	if slotIndex < 0 || slotIndex >= len(c.Slots) {
		return
	}
	c.Slots[slotIndex] = bullet
}

// RemoveBullet empties the given slot and returns what was there.
// Out-of-range indices are a no-op and return (Empty, false).
func (c *Cylinder) RemoveBullet(slotIndex int) (BulletType, bool) {
	if slotIndex < 0 || slotIndex >= len(c.Slots) {
		return Empty, false
	}
	removed := c.Slots[slotIndex]
	c.Slots[slotIndex] = Empty
	return removed, removed != Empty
}

// Shuffle collects every loaded bullet, clears the ring, and redistributes
// the bullets into uniformly random distinct slots. The current slot pointer
// is re-picked uniformly afterwards.
func (c *Cylinder) Shuffle() {
	n := len(c.Slots)
	var bullets []BulletType
	for i, slot := range c.Slots {
		if slot != Empty {
			bullets = append(bullets, slot)
			c.Slots[i] = Empty
		}
	}

	for _, bullet := range bullets {
		slot := c.rng.Intn(n)
		for c.Slots[slot] != Empty {
			slot = c.rng.Intn(n)
		}
		c.Slots[slot] = bullet
	}

	c.Current = c.rng.Intn(n)
}

// ShiftOneStep rotates all slot contents by one position (last becomes
// first) and resets the current pointer to slot 0, so slot 0 always holds
// the next chamber after a shot.
func (c *Cylinder) ShiftOneStep() {
	n := len(c.Slots)
	if n <= 1 {
		c.Current = 0
		return
	}
	last := c.Slots[n-1]
	copy(c.Slots[1:], c.Slots[:n-1])
	c.Slots[0] = last
	c.Current = 0
}

// Shoot fires the current slot: non-empty is a hit for the bullet's damage,
// empty is a miss. The fired slot is cleared either way and the cylinder
// shifts one step. Fire-then-shift is the turn-advance mechanism; it is
// distinct from the manual Rotate used by cards.
func (c *Cylinder) Shoot() ShotResult {
	bullet := c.Slots[c.Current]
	result := ShotResult{
		Bullet: bullet,
		Hit:    bullet != Empty,
		Damage: bullet.Damage(),
	}
	c.Slots[c.Current] = Empty
	c.ShiftOneStep()
	return result
}

// BulletCount returns the number of loaded (non-empty) slots.
func (c *Cylinder) BulletCount() int {
	count := 0
	for _, slot := range c.Slots {
		if slot != Empty {
			count++
		}
	}
	return count
}

// ConvertNormalToGold upgrades every Normal bullet to Gold and returns how
// many were converted. Used by the Hot Gift item.
func (c *Cylinder) ConvertNormalToGold() int {
	converted := 0
	for i, slot := range c.Slots {
		if slot == Normal {
			c.Slots[i] = Gold
			converted++
		}
	}
	return converted
}
