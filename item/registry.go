package item

import (
	"revolver-roulette-server/game"
)

// Item defines the interface that all shop items implement.
type Item interface {
	Type() game.ItemType
	Name() string
	Description() string
	Cost() int
	Tier() int
	Apply(owner *game.Player, ctx *game.ItemContext) error
}

// Registry holds all registered items indexed by their type.
type Registry struct {
	items map[game.ItemType]Item
	order []game.ItemType // registration order for deterministic AllItems()
}

// NewRegistry creates a new empty item registry.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[game.ItemType]Item),
	}
}

// Register adds an item to the registry.
func (r *Registry) Register(it Item) {
	t := it.Type()
	if _, exists := r.items[t]; !exists {
		r.order = append(r.order, t)
	}
	r.items[t] = it
}

func toDef(it Item) game.ItemDef {
	return game.ItemDef{
		Type:        it.Type(),
		Name:        it.Name(),
		Description: it.Description(),
		Cost:        it.Cost(),
		Tier:        it.Tier(),
		Apply:       it.Apply,
	}
}

// GetItem returns the item definition for the game package.
// It satisfies the game.ItemProvider interface.
func (r *Registry) GetItem(t game.ItemType) (game.ItemDef, bool) {
	it, ok := r.items[t]
	if !ok {
		return game.ItemDef{}, false
	}
	return toDef(it), true
}

// AllItems returns every registered item in registration order.
// It satisfies the game.ItemProvider interface.
func (r *Registry) AllItems() []game.ItemDef {
	defs := make([]game.ItemDef, 0, len(r.order))
	for _, t := range r.order {
		defs = append(defs, toDef(r.items[t]))
	}
	return defs
}

// ItemsForTier returns the shop pool for one tier (1-4), in registration
// order. It satisfies the game.ItemProvider interface.
func (r *Registry) ItemsForTier(tier int) []game.ItemDef {
	var defs []game.ItemDef
	for _, t := range r.order {
		if it := r.items[t]; it.Tier() == tier {
			defs = append(defs, toDef(it))
		}
	}
	return defs
}

// RegisterAll registers every built-in item. Call from main (or server
// setup) so adding a new item only requires registering it here.
func RegisterAll(r *Registry) {
	r.Register(&CameraItem{})
	r.Register(&MagnifierItem{})
	r.Register(&LockBarrelItem{})
	r.Register(&LightShieldItem{})
	r.Register(&CoffeeItem{})
	r.Register(&HeavyShieldItem{})
	r.Register(&CigaretteItem{})
	r.Register(&HotGiftItem{})
}
