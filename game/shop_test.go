package game

import "testing"

func TestShopGenerateOnePerTier(t *testing.T) {
	items := newMockItemProvider()
	s := NewShop()
	s.Generate(items, testRand())

	if it, ok := s.ItemAt(0); !ok || it != Camera {
		t.Errorf("expected tier 1 slot to offer Camera, got (%v, %v)", it, ok)
	}
	if it, ok := s.ItemAt(1); !ok || it != LockBarrel {
		t.Errorf("expected tier 2 slot to offer LockBarrel, got (%v, %v)", it, ok)
	}
	if it, ok := s.ItemAt(2); !ok || it != Coffee {
		t.Errorf("expected tier 3 slot to offer Coffee, got (%v, %v)", it, ok)
	}
	if it, ok := s.ItemAt(3); !ok || it != Cigarette {
		t.Errorf("expected tier 4 slot to offer Cigarette, got (%v, %v)", it, ok)
	}
}

func TestShopMarkSold(t *testing.T) {
	items := newMockItemProvider()
	s := NewShop()
	s.Generate(items, testRand())

	s.MarkSold(0)
	if _, ok := s.ItemAt(0); ok {
		t.Error("expected sold slot to be empty")
	}
	// Regeneration restocks sold slots.
	s.Generate(items, testRand())
	if _, ok := s.ItemAt(0); !ok {
		t.Error("expected regenerated slot to be stocked")
	}
}

func TestShopItemAtBounds(t *testing.T) {
	s := NewShop()
	if _, ok := s.ItemAt(-1); ok {
		t.Error("expected negative slot to fail")
	}
	if _, ok := s.ItemAt(ShopSlotCount); ok {
		t.Error("expected out-of-range slot to fail")
	}
	s.MarkSold(99) // must not panic
}

func TestShopEmptyTierPool(t *testing.T) {
	items := newMockItemProvider()
	delete(items.items, Cigarette)
	items.removeFromOrder(Cigarette)

	s := NewShop()
	s.Generate(items, testRand())
	if _, ok := s.ItemAt(3); ok {
		t.Error("expected tier 4 slot empty when the pool has no items")
	}
}
