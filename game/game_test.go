package game

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"revolver-roulette-server/config"
)

// mockItemProvider is a test double for ItemProvider with exactly one item
// per tier, so shop generation is deterministic.
type mockItemProvider struct {
	items map[ItemType]ItemDef
	order []ItemType
}

func newMockItemProvider() *mockItemProvider {
	m := &mockItemProvider{items: make(map[ItemType]ItemDef)}
	m.register(ItemDef{Type: Camera, Name: "Camera", Cost: 1, Tier: 1,
		Apply: func(owner *Player, ctx *ItemContext) error { return nil }})
	m.register(ItemDef{Type: LockBarrel, Name: "Lock Barrel", Cost: 2, Tier: 2,
		Apply: func(owner *Player, ctx *ItemContext) error {
			if ctx.LockBarrel != nil {
				ctx.LockBarrel()
			}
			return nil
		}})
	m.register(ItemDef{Type: Coffee, Name: "Coffee", Cost: 3, Tier: 3,
		Apply: func(owner *Player, ctx *ItemContext) error { return nil }})
	m.register(ItemDef{Type: Cigarette, Name: "Cigarette", Cost: 4, Tier: 4,
		Apply: func(owner *Player, ctx *ItemContext) error {
			owner.Heal(1)
			return nil
		}})
	return m
}

func (m *mockItemProvider) register(def ItemDef) {
	if _, exists := m.items[def.Type]; !exists {
		m.order = append(m.order, def.Type)
	}
	m.items[def.Type] = def
}

func (m *mockItemProvider) removeFromOrder(t ItemType) {
	for i, o := range m.order {
		if o == t {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *mockItemProvider) GetItem(t ItemType) (ItemDef, bool) {
	def, ok := m.items[t]
	return def, ok
}

func (m *mockItemProvider) AllItems() []ItemDef {
	defs := make([]ItemDef, 0, len(m.order))
	for _, t := range m.order {
		defs = append(defs, m.items[t])
	}
	return defs
}

func (m *mockItemProvider) ItemsForTier(tier int) []ItemDef {
	var defs []ItemDef
	for _, t := range m.order {
		if def := m.items[t]; def.Tier == tier {
			defs = append(defs, def)
		}
	}
	return defs
}

// testConfig returns a config with every timing window zeroed so phase
// functions run fully synchronously, and no initial bullets so the
// cylinder starts in a known state.
func testConfig() *config.Config {
	return &config.Config{
		MaxPlayers:     4,
		MinPlayers:     2,
		StartingHP:     4,
		StartingCards:  2,
		CylinderSize:   6,
		InitialBullets: 0,
		DeckSize:       40,
		MaxNameLength:  24,
	}
}

// createTestGame creates a seeded game without starting the loop. Send
// channels are large enough that nothing blocks during a test.
func createTestGame(cfg *config.Config, playerCount int) (*Game, []chan []byte) {
	chans := make([]chan []byte, playerCount)
	players := make([]*Player, playerCount)
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i := 0; i < playerCount; i++ {
		chans[i] = make(chan []byte, 256)
		players[i] = NewPlayer(i, names[i], cfg.StartingHP, chans[i])
	}
	rng := rand.New(rand.NewSource(7))
	g := NewGame("test-1", cfg, players, newMockItemProvider(), rng)
	return g, chans
}

// drainChannel reads all available messages from a channel.
func drainChannel(ch chan []byte) [][]byte {
	var msgs [][]byte
	for {
		select {
		case msg := <-ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// messagesOfType drains a channel and returns the decoded messages with
// the given type, in arrival order.
func messagesOfType(ch chan []byte, msgType string) []map[string]any {
	var out []map[string]any
	for _, raw := range drainChannel(ch) {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		if m["type"] == msgType {
			out = append(out, m)
		}
	}
	return out
}

func TestNewGame(t *testing.T) {
	g, _ := createTestGame(testConfig(), 2)

	if g.ID != "test-1" {
		t.Errorf("expected ID='test-1', got %q", g.ID)
	}
	if g.Phase != PhaseSetup {
		t.Errorf("expected PhaseSetup, got %v", g.Phase)
	}
	if g.WinnerSeat != -1 {
		t.Errorf("expected no winner yet, got %d", g.WinnerSeat)
	}
	if g.TargetSeat != 0 {
		t.Errorf("expected barrel aimed at seat 0, got %d", g.TargetSeat)
	}
	if !g.Clockwise {
		t.Error("expected initial direction clockwise")
	}
	if g.Deck.Remaining() != 40 {
		t.Errorf("expected 40 cards, got %d", g.Deck.Remaining())
	}
	if g.Cylinder.Size() != 6 {
		t.Errorf("expected 6 slots, got %d", g.Cylinder.Size())
	}
}

func TestRunSetupDealsHands(t *testing.T) {
	cfg := testConfig()
	cfg.InitialBullets = 1
	g, _ := createTestGame(cfg, 3)

	g.runSetup()

	for _, p := range g.Players {
		if len(p.Hand) != cfg.StartingCards {
			t.Errorf("seat %d: expected %d starting cards, got %d", p.Seat, cfg.StartingCards, len(p.Hand))
		}
	}
	if g.Deck.Remaining() != 40-3*cfg.StartingCards {
		t.Errorf("expected deck drained by deals, got %d", g.Deck.Remaining())
	}
	if g.Cylinder.BulletCount() != 1 {
		t.Errorf("expected 1 initial bullet, got %d", g.Cylinder.BulletCount())
	}
	if g.Phase != PhaseRevolverReveal {
		t.Errorf("expected PhaseRevolverReveal, got %v", g.Phase)
	}
}

func TestPlayCardWrongPhase(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Players[0].Hand = []CardType{PeekBullet}
	g.Phase = PhaseShop

	g.handlePlayCard(0, PeekBullet)

	if len(g.Players[0].Played) != 0 {
		t.Error("expected no card played outside the play phase")
	}
	if msgs := messagesOfType(chans[0], "error"); len(msgs) == 0 {
		t.Fatal("expected an error message")
	}
}

func TestPlayCardFlow(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardPlay
	p := g.Players[0]
	p.Hand = []CardType{PeekBullet, SelfShoot}

	g.handlePlayCard(0, SelfShoot)

	if len(p.Played) != 1 || p.Played[0] != SelfShoot {
		t.Errorf("expected SelfShoot played, got %v", p.Played)
	}
	if len(p.Hand) != 1 {
		t.Errorf("expected 1 card left in hand, got %d", len(p.Hand))
	}

	// Not in hand.
	g.handlePlayCard(0, Counter)
	if len(p.Played) != 1 {
		t.Error("expected rejected play to mutate nothing")
	}
	drainChannel(chans[0])
}

func TestPlayCardCapEnforced(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardPlay
	p := g.Players[0]
	p.Hand = []CardType{PeekBullet, PeekBullet, PeekBullet, PeekBullet}

	for i := 0; i < MaxPlayedCards; i++ {
		g.handlePlayCard(0, PeekBullet)
	}
	drainChannel(chans[0])

	g.handlePlayCard(0, PeekBullet)
	if len(p.Played) != MaxPlayedCards {
		t.Errorf("expected %d played, got %d", MaxPlayedCards, len(p.Played))
	}
	if msgs := messagesOfType(chans[0], "error"); len(msgs) == 0 {
		t.Fatal("expected an error for exceeding the played cap")
	}
}

func TestExecutionResolvesLastPlayedFirst(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardExecution
	g.Players[0].Played = []CardType{RotateCylinderRight, PeekBullet}
	g.Players[1].Played = []CardType{Counter}

	g.runExecution()

	executed := messagesOfType(chans[1], "card_executed")
	if len(executed) != 3 {
		t.Fatalf("expected 3 executed cards, got %d", len(executed))
	}
	if executed[0]["card"] != "peek_bullet" || executed[1]["card"] != "rotate_cylinder_right" {
		t.Errorf("expected seat 0 to resolve last-played first, got %v then %v",
			executed[0]["card"], executed[1]["card"])
	}
	if executed[2]["card"] != "counter" {
		t.Errorf("expected seat 1's counter last, got %v", executed[2]["card"])
	}
	if g.Deck.Discarded() != 3 {
		t.Errorf("expected 3 cards discarded after execution, got %d", g.Deck.Discarded())
	}
	if g.Phase != PhaseShop {
		t.Errorf("expected PhaseShop after execution, got %v", g.Phase)
	}
}

func TestExecutionAutoShotOnZeroPlayedCards(t *testing.T) {
	g, _ := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardExecution
	g.Cylinder.SetBullet(g.Cylinder.Current, Gold)

	g.runExecution()

	// Seat 0 committed nothing: the barrel swung to them and fired the gold
	// chamber for 2 damage. Seat 1 then fired an emptied cylinder and took
	// the 1-shell miss reward.
	if g.Players[0].HP != 2 {
		t.Errorf("expected seat 0 at 2 HP after gold self-shot, got %d", g.Players[0].HP)
	}
	if g.Players[1].Shells != 1 {
		t.Errorf("expected seat 1 rewarded 1 shell for a miss, got %d", g.Players[1].Shells)
	}
	if g.TargetSeat != 1 {
		t.Errorf("expected barrel left on seat 1, got %d", g.TargetSeat)
	}
	if g.Phase != PhaseShop {
		t.Errorf("expected PhaseShop, got %v", g.Phase)
	}
}

func TestExecutionEliminationEndsGame(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardExecution
	g.Players[0].HP = 2
	g.Cylinder.SetBullet(g.Cylinder.Current, Gold)

	g.runExecution()

	if g.Players[0].Alive() {
		t.Error("expected seat 0 eliminated")
	}
	if g.Phase != PhaseGameOver {
		t.Errorf("expected PhaseGameOver, got %v", g.Phase)
	}
	if g.WinnerSeat != 1 {
		t.Errorf("expected seat 1 to win, got %d", g.WinnerSeat)
	}
	if g.EndReason != "player_eliminated" {
		t.Errorf("expected end reason player_eliminated, got %q", g.EndReason)
	}
	if msgs := messagesOfType(chans[1], "player_eliminated"); len(msgs) != 1 {
		t.Errorf("expected one elimination broadcast, got %d", len(msgs))
	}
}

func TestExecutionSkipsFlaggedPlayer(t *testing.T) {
	g, chans := createTestGame(testConfig(), 3)
	g.Phase = PhaseCardExecution
	g.Players[1].SkipNextRound = true
	g.Players[1].Played = []CardType{SelfShoot}
	g.Players[0].Played = []CardType{Counter}
	g.Players[2].Played = []CardType{Counter}

	g.runExecution()

	// The skipped seat's cards are discarded unresolved, so the self shot
	// never fired.
	if g.Players[1].HP != 4 {
		t.Errorf("expected skipped seat untouched, got HP %d", g.Players[1].HP)
	}
	if g.Players[1].SkipNextRound {
		t.Error("expected skip flag consumed")
	}
	if msgs := messagesOfType(chans[0], "turn_skipped"); len(msgs) != 1 {
		t.Errorf("expected one turn_skipped broadcast, got %d", len(msgs))
	}
	if g.Deck.Discarded() != 3 {
		t.Errorf("expected all played cards discarded, got %d", g.Deck.Discarded())
	}
}

func TestSkipNextFlagsFollowingPlayer(t *testing.T) {
	g, _ := createTestGame(testConfig(), 3)
	g.executeCard(g.Players[0], SkipNext)

	if !g.Players[1].SkipNextRound {
		t.Error("expected the next clockwise seat flagged")
	}

	g.Clockwise = false
	g.Players[1].SkipNextRound = false
	g.executeCard(g.Players[0], SkipNext)
	if !g.Players[2].SkipNextRound {
		t.Error("expected the previous seat flagged counter-clockwise")
	}
}

func TestRotateBarrelDirectionAndLock(t *testing.T) {
	g, _ := createTestGame(testConfig(), 3)

	g.rotateBarrel(1)
	if g.TargetSeat != 1 || !g.Clockwise {
		t.Errorf("expected target 1 clockwise, got target=%d clockwise=%v", g.TargetSeat, g.Clockwise)
	}

	g.rotateBarrel(-1)
	if g.TargetSeat != 0 || g.Clockwise {
		t.Errorf("expected target 0 counter-clockwise, got target=%d clockwise=%v", g.TargetSeat, g.Clockwise)
	}

	g.BarrelLocked = true
	g.rotateBarrel(1)
	if g.TargetSeat != 0 {
		t.Errorf("expected locked barrel to hold aim, got %d", g.TargetSeat)
	}
}

func TestTargetSnapsPastDeadSeat(t *testing.T) {
	g, _ := createTestGame(testConfig(), 3)
	g.TargetSeat = 1
	g.Players[1].HP = 0

	target := g.targetPlayer()
	if target == nil || target.Seat != 2 {
		t.Fatalf("expected aim snapped to seat 2, got %+v", target)
	}
	if g.TargetSeat != 2 {
		t.Errorf("expected TargetSeat updated to 2, got %d", g.TargetSeat)
	}
}

func TestAddBulletCardOnFullCylinder(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	for i := 0; i < g.Cylinder.Size(); i++ {
		g.Cylinder.SetBullet(i, Normal)
	}

	g.executeCard(g.Players[0], AddBullet)

	if msgs := messagesOfType(chans[0], "error"); len(msgs) == 0 {
		t.Fatal("expected an error when loading a full cylinder")
	}
	if g.Cylinder.BulletCount() != g.Cylinder.Size() {
		t.Error("expected cylinder unchanged")
	}
}

func TestRemoveBulletRewardsTarget(t *testing.T) {
	g, _ := createTestGame(testConfig(), 2)
	g.Cylinder.SetBullet(3, Normal)
	g.TargetSeat = 1

	g.removeBullet(3)

	if g.Cylinder.Slots[3] != Empty {
		t.Error("expected slot 3 emptied")
	}
	if g.Players[1].Shells != 1 {
		t.Errorf("expected the aimed player to earn 1 shell, got %d", g.Players[1].Shells)
	}

	// An already empty slot pays nothing.
	g.removeBullet(3)
	if g.Players[1].Shells != 1 {
		t.Errorf("expected no reward for an empty slot, got %d shells", g.Players[1].Shells)
	}
}

func TestBuyItemFlow(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseShop
	g.Shop.Generate(g.Items, g.rng)
	p := g.Players[0]

	// Tier 3 slot offers Coffee at cost 3; two shells is not enough.
	p.Shells = 2
	g.handleBuyItem(0, 2)
	if len(p.Items) != 0 {
		t.Error("expected purchase rejected on insufficient shells")
	}
	if msgs := messagesOfType(chans[0], "purchase_failed"); len(msgs) == 0 {
		t.Fatal("expected purchase_failed message")
	}

	p.Shells = 3
	g.handleBuyItem(0, 2)
	if len(p.Items) != 1 || p.Items[0] != Coffee {
		t.Errorf("expected Coffee bought, got %v", p.Items)
	}
	if p.Shells != 0 {
		t.Errorf("expected all shells spent, got %d", p.Shells)
	}
	if msgs := messagesOfType(chans[0], "purchase_success"); len(msgs) != 1 {
		t.Errorf("expected one purchase_success, got %d", len(msgs))
	}

	// The slot is sold out for the rest of the phase.
	p.Shells = 3
	g.handleBuyItem(0, 2)
	if len(p.Items) != 1 {
		t.Error("expected sold-out slot to reject the purchase")
	}
}

func TestBuyItemCapacity(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseShop
	g.Shop.Generate(g.Items, g.rng)
	p := g.Players[0]
	p.Shells = MaxShells
	p.Items = []ItemType{Camera, Camera, Camera}

	g.handleBuyItem(0, 0)

	if len(p.Items) != MaxItems {
		t.Errorf("expected item slots to stay full, got %d", len(p.Items))
	}
	if p.Shells != MaxShells {
		t.Error("expected no shells charged for a rejected purchase")
	}
	if msgs := messagesOfType(chans[0], "purchase_failed"); len(msgs) == 0 {
		t.Fatal("expected purchase_failed message")
	}
}

func TestUseItemOutsideWindow(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardExecution
	g.Players[0].Items = []ItemType{Cigarette}

	g.handleUseItem(0, Cigarette)

	if len(g.Players[0].Items) != 1 {
		t.Error("expected item kept outside the window")
	}
	if msgs := messagesOfType(chans[0], "error"); len(msgs) == 0 {
		t.Fatal("expected an error outside the item window")
	}
}

func TestUseItemInWindow(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardExecution
	g.itemWindowSeat = 0
	p := g.Players[0]
	p.HP = 2
	p.Items = []ItemType{Cigarette}

	g.handleUseItem(0, Cigarette)

	if p.HP != 3 {
		t.Errorf("expected cigarette heal to 3 HP, got %d", p.HP)
	}
	if len(p.Items) != 0 {
		t.Error("expected item consumed")
	}
	if !p.UsedItemThisRound {
		t.Error("expected per-round item flag set")
	}
	if msgs := messagesOfType(chans[1], "item_used"); len(msgs) != 1 {
		t.Errorf("expected one item_used broadcast, got %d", len(msgs))
	}

	// One item per rotation.
	p.Items = []ItemType{Cigarette}
	g.handleUseItem(0, Cigarette)
	if len(p.Items) != 1 {
		t.Error("expected second item use rejected")
	}
}

func TestDrawCardOncePerRound(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseDrawCards
	g.drawnThisPhase = make(map[int]bool)
	p := g.Players[0]

	g.handleDrawCard(0)
	if len(p.Hand) != 1 {
		t.Fatalf("expected 1 card drawn, got %d", len(p.Hand))
	}
	drainChannel(chans[0])

	g.handleDrawCard(0)
	if len(p.Hand) != 1 {
		t.Error("expected second draw rejected")
	}
	if msgs := messagesOfType(chans[0], "error"); len(msgs) == 0 {
		t.Fatal("expected an error for double draw")
	}
}

func TestDrawToHandCap(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	p := g.Players[0]
	for i := 0; i < MaxHandSize; i++ {
		p.Hand = append(p.Hand, Counter)
	}

	if g.drawToHand(p) {
		t.Error("expected draw to fail on a full hand")
	}
	if len(p.Hand) != MaxHandSize {
		t.Errorf("expected hand held at cap, got %d", len(p.Hand))
	}
	if msgs := messagesOfType(chans[0], "error"); len(msgs) == 0 {
		t.Fatal("expected hand-full error")
	}
}

func TestRunDrawCardsClosesRound(t *testing.T) {
	g, _ := createTestGame(testConfig(), 2)
	g.Phase = PhaseDrawCards
	g.BarrelLocked = true
	g.Players[0].Played = []CardType{Counter}

	g.runDrawCards()

	// Both live seats drew automatically, leftover played cards were
	// discarded, and the round advanced with the barrel unlocked.
	if len(g.Players[0].Hand) != 1 || len(g.Players[1].Hand) != 1 {
		t.Errorf("expected each seat to auto-draw one card, got %d/%d",
			len(g.Players[0].Hand), len(g.Players[1].Hand))
	}
	if len(g.Players[0].Played) != 0 || g.Deck.Discarded() != 1 {
		t.Error("expected leftover played cards discarded")
	}
	if g.BarrelLocked {
		t.Error("expected barrel unlocked at round end")
	}
	if g.Round != 2 {
		t.Errorf("expected round 2, got %d", g.Round)
	}
	if g.Phase != PhaseRevolverReveal {
		t.Errorf("expected next reveal phase, got %v", g.Phase)
	}
}

func TestDisconnectEndsTwoPlayerGame(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.Phase = PhaseCardPlay

	g.handleDisconnect(0)

	if !g.Players[0].Abandoned {
		t.Error("expected seat 0 marked abandoned")
	}
	if g.Phase != PhaseGameOver {
		t.Errorf("expected PhaseGameOver, got %v", g.Phase)
	}
	if g.WinnerSeat != 1 {
		t.Errorf("expected seat 1 to win, got %d", g.WinnerSeat)
	}
	if g.EndReason != "opponents_left" {
		t.Errorf("expected end reason opponents_left, got %q", g.EndReason)
	}
	if msgs := messagesOfType(chans[1], "player_left"); len(msgs) != 1 {
		t.Errorf("expected one player_left broadcast, got %d", len(msgs))
	}
}

func TestDisconnectKeepsLargerGameRunning(t *testing.T) {
	g, _ := createTestGame(testConfig(), 3)
	g.Phase = PhaseCardPlay

	g.handleDisconnect(1)

	if g.Phase == PhaseGameOver {
		t.Error("expected game to continue with 2 seats left")
	}
	if len(g.rotationPlayers()) != 2 {
		t.Errorf("expected 2 players in rotation, got %d", len(g.rotationPlayers()))
	}
}

func TestGameOverReportsResults(t *testing.T) {
	g, chans := createTestGame(testConfig(), 2)
	g.WinnerSeat = 1
	g.Round = 5

	var gotResults []PlayerResult
	var gotWinner, gotRounds int
	g.OnGameEnd = func(gameID string, results []PlayerResult, winnerSeat, rounds int, endReason string) {
		gotResults = results
		gotWinner = winnerSeat
		gotRounds = rounds
	}

	g.runGameOver()

	if !g.Finished {
		t.Error("expected game marked finished")
	}
	if gotWinner != 1 || gotRounds != 5 {
		t.Errorf("expected winner 1 round 5, got %d/%d", gotWinner, gotRounds)
	}
	if len(gotResults) != 2 {
		t.Fatalf("expected 2 results, got %d", len(gotResults))
	}
	msgs := messagesOfType(chans[0], "game_over")
	if len(msgs) != 1 {
		t.Fatalf("expected one game_over broadcast, got %d", len(msgs))
	}
	if msgs[0]["name"] != "Bob" {
		t.Errorf("expected winner name Bob, got %v", msgs[0]["name"])
	}
}

func TestRunStopsAfterEveryoneLeaves(t *testing.T) {
	g, _ := createTestGame(testConfig(), 2)
	g.Actions <- Action{Type: ActionDisconnect, Seat: 0}
	g.Actions <- Action{Type: ActionDisconnect, Seat: 1}

	go g.Run()

	select {
	case <-g.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the game loop to stop after all seats left")
	}
	if g.WinnerSeat != 1 {
		t.Errorf("expected the last connected seat to win, got %d", g.WinnerSeat)
	}
}
