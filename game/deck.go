package game

import (
	"math"
	"math/rand"
)

// CardType enumerates every playable card.
type CardType int

const (
	RotateBarrelLeft CardType = iota
	RotateBarrelRight
	RotateCylinderLeft
	RotateCylinderRight
	SelfShoot
	PeekBullet
	SkipNext
	AddGoldBullet
	AddBullet
	ShuffleCylinder
	DrawCards
	Counter
)

// String returns the protocol string for a CardType.
func (ct CardType) String() string {
	switch ct {
	case RotateBarrelLeft:
		return "rotate_barrel_left"
	case RotateBarrelRight:
		return "rotate_barrel_right"
	case RotateCylinderLeft:
		return "rotate_cylinder_left"
	case RotateCylinderRight:
		return "rotate_cylinder_right"
	case SelfShoot:
		return "self_shoot"
	case PeekBullet:
		return "peek_bullet"
	case SkipNext:
		return "skip_next"
	case AddGoldBullet:
		return "add_gold_bullet"
	case AddBullet:
		return "add_bullet"
	case ShuffleCylinder:
		return "shuffle_cylinder"
	case DrawCards:
		return "draw_cards"
	case Counter:
		return "counter"
	default:
		return "unknown"
	}
}

// CardTypeFromString parses a protocol string back into a CardType.
func CardTypeFromString(s string) (CardType, bool) {
	for ct := RotateBarrelLeft; ct <= Counter; ct++ {
		if ct.String() == s {
			return ct, true
		}
	}
	return 0, false
}

// Card category pools. Deck composition samples from these with replacement.
var (
	rotateCards     = []CardType{RotateBarrelLeft, RotateBarrelRight, RotateCylinderLeft, RotateCylinderRight}
	aggressiveCards = []CardType{SelfShoot, AddGoldBullet, AddBullet, SkipNext}
	utilityCards    = []CardType{PeekBullet, DrawCards, ShuffleCylinder}
	bluffCards      = []CardType{Counter}
)

// Base category ratios in percent of the total deck size.
const (
	rotateRatio     = 20
	aggressiveRatio = 25
	utilityRatio    = 30
)

// aggressiveMultiplier scales the aggressive share up for small tables
// (faster, more lethal rounds with 2-3 players).
func aggressiveMultiplier(playerCount int) float64 {
	switch playerCount {
	case 2:
		return 1.5
	case 3:
		return 1.3
	default:
		return 1.0
	}
}

// utilityMultiplier scales the utility share down for small tables.
func utilityMultiplier(playerCount int) float64 {
	switch playerCount {
	case 2:
		return 0.7
	case 3:
		return 0.8
	default:
		return 1.0
	}
}

// Deck holds the draw pile (front = next draw) and the discard pile.
type Deck struct {
	draw    []CardType
	discard []CardType

	rng *rand.Rand
}

// BuildDeck constructs a shuffled deck of totalSize cards for the given
// player count. Category counts come from the base ratios adjusted by the
// player-count multipliers; the bluff category takes whatever remains so
// the total is exact.
func BuildDeck(totalSize, playerCount int, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	if totalSize <= 0 {
		return d
	}

	rotate := roundCount(totalSize, rotateRatio, 1.0)
	aggressive := roundCount(totalSize, aggressiveRatio, aggressiveMultiplier(playerCount))
	utility := roundCount(totalSize, utilityRatio, utilityMultiplier(playerCount))
	bluff := totalSize - rotate - aggressive - utility
	if bluff < 0 {
		bluff = 0
	}

	d.addFromPool(rotateCards, rotate)
	d.addFromPool(aggressiveCards, aggressive)
	d.addFromPool(utilityCards, utility)
	d.addFromPool(bluffCards, bluff)

	d.shuffleDraw()
	return d
}

func roundCount(total, ratio int, multiplier float64) int {
	return int(math.Round(float64(total) * float64(ratio) * multiplier / 100.0))
}

// addFromPool samples `count` cards from the pool uniformly with
// replacement; duplicates are expected and desired.
func (d *Deck) addFromPool(pool []CardType, count int) {
	if len(pool) == 0 {
		return
	}
	for i := 0; i < count; i++ {
		d.draw = append(d.draw, pool[d.rng.Intn(len(pool))])
	}
}

// shuffleDraw does a Fisher-Yates shuffle of the draw pile in place.
func (d *Deck) shuffleDraw() {
	for i := len(d.draw) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	}
}

// Draw pops the front of the draw pile. When the draw pile is out, the
// discard pile is reshuffled into it first. Returns (0, false) only when
// both piles are truly empty; never an error beyond that.
func (d *Deck) Draw() (CardType, bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return 0, false
		}
		d.draw = append(d.draw, d.discard...)
		d.discard = d.discard[:0]
		d.shuffleDraw()
	}
	card := d.draw[0]
	d.draw = d.draw[1:]
	return card, true
}

// Discard appends a card to the discard pile. Order within the pile does
// not matter.
func (d *Deck) Discard(card CardType) {
	d.discard = append(d.discard, card)
}

// Remaining returns the draw pile size.
func (d *Deck) Remaining() int {
	return len(d.draw)
}

// Discarded returns the discard pile size.
func (d *Deck) Discarded() int {
	return len(d.discard)
}
