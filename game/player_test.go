package game

import "testing"

func TestPlayerDamageAndHeal(t *testing.T) {
	p := NewPlayer(0, "Alice", 4, nil)

	p.TakeDamage(2)
	if p.HP != 2 {
		t.Errorf("expected HP=2, got %d", p.HP)
	}
	p.TakeDamage(5)
	if p.HP != 0 {
		t.Errorf("expected HP clamped at 0, got %d", p.HP)
	}
	if p.Alive() {
		t.Error("expected dead player")
	}

	p.Heal(1)
	if p.HP != 1 {
		t.Errorf("expected HP=1 after heal, got %d", p.HP)
	}
	p.Heal(10)
	if p.HP != p.MaxHP {
		t.Errorf("expected HP clamped at max %d, got %d", p.MaxHP, p.HP)
	}
}

func TestPlayerShellCap(t *testing.T) {
	p := NewPlayer(0, "Alice", 4, nil)
	p.AddShells(3)
	p.AddShells(4)
	if p.Shells != MaxShells {
		t.Errorf("expected shells capped at %d, got %d", MaxShells, p.Shells)
	}
	p.AddShells(-1)
	if p.Shells != MaxShells {
		t.Errorf("expected negative grants ignored, got %d", p.Shells)
	}
}

func TestPlayerPlayCard(t *testing.T) {
	p := NewPlayer(0, "Alice", 4, nil)
	p.Hand = []CardType{PeekBullet, SelfShoot, PeekBullet}

	if !p.PlayCard(SelfShoot) {
		t.Fatal("expected play to succeed")
	}
	if len(p.Hand) != 2 || len(p.Played) != 1 {
		t.Errorf("expected 2 in hand / 1 played, got %d/%d", len(p.Hand), len(p.Played))
	}
	if p.PlayCard(Counter) {
		t.Error("expected playing a card not in hand to fail")
	}
}

func TestPlayerPlayCardCap(t *testing.T) {
	p := NewPlayer(0, "Alice", 4, nil)
	p.Hand = []CardType{PeekBullet, PeekBullet, PeekBullet, PeekBullet}

	for i := 0; i < MaxPlayedCards; i++ {
		if !p.PlayCard(PeekBullet) {
			t.Fatalf("play %d failed", i)
		}
	}
	if p.PlayCard(PeekBullet) {
		t.Error("expected play beyond the cap to fail")
	}
	if len(p.Hand) != 1 {
		t.Errorf("expected the rejected card to stay in hand, got %d", len(p.Hand))
	}
}

func TestPlayerItems(t *testing.T) {
	p := NewPlayer(0, "Alice", 4, nil)
	p.Items = []ItemType{Camera, Coffee}

	if !p.HasItem(Coffee) {
		t.Error("expected Coffee owned")
	}
	if !p.RemoveItem(Coffee) {
		t.Error("expected removal to succeed")
	}
	if p.HasItem(Coffee) {
		t.Error("expected Coffee consumed")
	}
	if p.RemoveItem(HotGift) {
		t.Error("expected removing an unowned item to fail")
	}
}

func TestPlayerRoundCleanup(t *testing.T) {
	deck := BuildDeck(0, 4, testRand())
	p := NewPlayer(0, "Alice", 4, nil)
	p.Played = []CardType{SelfShoot, Counter}
	p.UsedItemThisRound = true
	p.DamageBlock = 2

	p.RoundCleanup(deck)

	if len(p.Played) != 0 {
		t.Errorf("expected played cards cleared, got %d", len(p.Played))
	}
	if deck.Discarded() != 2 {
		t.Errorf("expected 2 cards discarded, got %d", deck.Discarded())
	}
	if p.UsedItemThisRound || p.DamageBlock != 0 {
		t.Error("expected per-round flags reset")
	}
}

func TestPlayerRotationMembership(t *testing.T) {
	p := NewPlayer(0, "Alice", 4, nil)
	if !p.InRotation() {
		t.Error("expected healthy player in rotation")
	}
	p.Abandoned = true
	if p.InRotation() {
		t.Error("expected abandoned player out of rotation")
	}
	p.Abandoned = false
	p.HP = 0
	if p.InRotation() {
		t.Error("expected dead player out of rotation")
	}
}
