package game

import "math/rand"

// ShopSlotCount is the number of shop slots, one per item tier.
const ShopSlotCount = 4

// Shop holds the per-round item slots. Slot i offers a tier i+1 item;
// ItemNone marks an empty (or sold-out) slot. The whole shop is regenerated
// at the start of every shop phase; unsold items do not carry over.
type Shop struct {
	Slots [ShopSlotCount]ItemType
}

// NewShop creates an empty shop.
func NewShop() *Shop {
	return &Shop{}
}

// Generate fills every slot with one uniformly random item from the
// matching tier's pool, discarding whatever was there before. A tier with
// an empty pool leaves its slot empty.
func (s *Shop) Generate(items ItemProvider, rng *rand.Rand) {
	for i := 0; i < ShopSlotCount; i++ {
		s.Slots[i] = ItemNone
		pool := items.ItemsForTier(i + 1)
		if len(pool) == 0 {
			continue
		}
		s.Slots[i] = pool[rng.Intn(len(pool))].Type
	}
}

// ItemAt returns the item offered in the given slot, or (ItemNone, false)
// when the slot is out of range or empty.
func (s *Shop) ItemAt(slot int) (ItemType, bool) {
	if slot < 0 || slot >= ShopSlotCount || s.Slots[slot] == ItemNone {
		return ItemNone, false
	}
	return s.Slots[slot], true
}

// MarkSold empties a slot for the rest of the current shop phase. No-op out
// of range.
func (s *Shop) MarkSold(slot int) {
	if slot < 0 || slot >= ShopSlotCount {
		return
	}
	s.Slots[slot] = ItemNone
}
