package game

import "math/rand"

// ItemType enumerates every purchasable item. ItemNone marks an empty shop
// slot.
type ItemType int

const (
	ItemNone ItemType = iota
	Camera
	Magnifier
	LockBarrel
	LightShield
	Coffee
	HeavyShield
	Cigarette
	HotGift
)

// String returns the protocol string for an ItemType.
func (it ItemType) String() string {
	switch it {
	case ItemNone:
		return "none"
	case Camera:
		return "camera"
	case Magnifier:
		return "magnifier"
	case LockBarrel:
		return "lock_barrel"
	case LightShield:
		return "light_shield"
	case Coffee:
		return "coffee"
	case HeavyShield:
		return "heavy_shield"
	case Cigarette:
		return "cigarette"
	case HotGift:
		return "hot_gift"
	default:
		return "unknown"
	}
}

// ItemTypeFromString parses a protocol string back into an ItemType.
func ItemTypeFromString(s string) (ItemType, bool) {
	for it := Camera; it <= HotGift; it++ {
		if it.String() == s {
			return it, true
		}
	}
	return ItemNone, false
}

// ItemContext is passed to an item's Apply. The callbacks are wired by the
// orchestrator; any of them may be nil in tests, and implementations must
// tolerate that.
type ItemContext struct {
	Cylinder *Cylinder
	Deck     *Deck
	Players  []*Player
	Rng      *rand.Rand

	// RevealHand delivers another player's hand to the item user only.
	RevealHand func(target *Player)
	// RevealCylinder delivers the full slot list to the item user only.
	RevealCylinder func()
	// LockBarrel disables barrel rotation for the rest of the round.
	LockBarrel func()
}

// ItemDef holds the definition of an item as seen by the game package.
type ItemDef struct {
	Type        ItemType
	Name        string
	Description string
	Cost        int
	Tier        int
	Apply       func(owner *Player, ctx *ItemContext) error
}

// ItemProvider abstracts the item registry so the game package does not
// import the item package directly (avoids circular deps).
type ItemProvider interface {
	GetItem(t ItemType) (ItemDef, bool)
	AllItems() []ItemDef
	ItemsForTier(tier int) []ItemDef
}
