package game

// Per-player capacity limits.
const (
	MaxHandSize    = 7
	MaxPlayedCards = 3
	MaxItems       = 3
	MaxShells      = 5
)

// Player represents one seat at the table. All mutation happens inside the
// game loop goroutine; the Send channel is the only bridge back to the
// owning client.
type Player struct {
	Seat   int
	Name   string
	UserID string
	IsBot  bool

	HP     int
	MaxHP  int
	Shells int

	Hand   []CardType
	Played []CardType // order of play; executed last-to-first
	Items  []ItemType

	// SkipNextRound is set by a SkipNext card; the player is walked over in
	// the next execution rotation but their played cards are still discarded.
	SkipNextRound bool

	// UsedItemThisRound limits item use to once per rotation.
	UsedItemThisRound bool

	// DamageBlock is the shield strength flagged for this round. It is
	// replicated for display; damage resolution does not consume it yet.
	DamageBlock int

	// Abandoned marks a player who disconnected mid-game: excluded from the
	// rotation but kept for end-game reporting.
	Abandoned bool

	Send chan []byte // reference to the client's send channel; nil for vacated seats
}

// NewPlayer creates a player with full HP and empty collections.
func NewPlayer(seat int, name string, hp int, send chan []byte) *Player {
	return &Player{
		Seat:  seat,
		Name:  name,
		HP:    hp,
		MaxHP: hp,
		Send:  send,
	}
}

// Alive reports whether the player still has HP. Death is one-way; nothing
// revives a player within a game.
func (p *Player) Alive() bool {
	return p.HP > 0
}

// InRotation reports whether the player takes part in turn order: alive and
// not abandoned.
func (p *Player) InRotation() bool {
	return p.Alive() && !p.Abandoned
}

// TakeDamage lowers HP, clamped at zero.
func (p *Player) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	p.HP -= n
	if p.HP < 0 {
		p.HP = 0
	}
}

// Heal raises HP, clamped at MaxHP.
func (p *Player) Heal(n int) {
	if n <= 0 {
		return
	}
	p.HP += n
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

// AddShells grants shell currency, hard-capped at MaxShells.
func (p *Player) AddShells(n int) {
	if n <= 0 {
		return
	}
	p.Shells += n
	if p.Shells > MaxShells {
		p.Shells = MaxShells
	}
}

// HasCard reports whether the hand contains at least one card of the type.
func (p *Player) HasCard(ct CardType) bool {
	for _, c := range p.Hand {
		if c == ct {
			return true
		}
	}
	return false
}

// PlayCard moves one card of the given type from hand to the played set.
// Fails without mutation when the played set is full or the card is not in
// hand.
func (p *Player) PlayCard(ct CardType) bool {
	if len(p.Played) >= MaxPlayedCards {
		return false
	}
	for i, c := range p.Hand {
		if c == ct {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			p.Played = append(p.Played, ct)
			return true
		}
	}
	return false
}

// HasItem reports whether the player owns at least one item of the type.
func (p *Player) HasItem(it ItemType) bool {
	for _, owned := range p.Items {
		if owned == it {
			return true
		}
	}
	return false
}

// RemoveItem consumes one item of the given type. Returns false when not
// owned.
func (p *Player) RemoveItem(it ItemType) bool {
	for i, owned := range p.Items {
		if owned == it {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return true
		}
	}
	return false
}

// RoundCleanup discards any leftover played cards back to the deck and
// resets the per-round flags. Called at the end of every round for every
// seat, dead ones included.
func (p *Player) RoundCleanup(deck *Deck) {
	for _, c := range p.Played {
		deck.Discard(c)
	}
	p.Played = p.Played[:0]
	p.UsedItemThisRound = false
	p.DamageBlock = 0
}
