package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"revolver-roulette-server/config"
	"revolver-roulette-server/item"
	"revolver-roulette-server/matchmaking"
	"revolver-roulette-server/ws"
)

// setupTestServer creates a test HTTP server with the full stack: hub,
// lobby, item registry. Two-seat tables so matches start with two joins.
func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	cfg := &config.Config{
		MaxPlayers:     2,
		MinPlayers:     2,
		StartingHP:     4,
		StartingCards:  2,
		CylinderSize:   6,
		InitialBullets: 1,
		DeckSize:       40,
		CardPlaySec:    5,
		ItemUseSec:     1,
		ShopSec:        2,
		DrawSec:        1,
		RevealDelayMS:  50,
		CardResolveMS:  10,
		MaxNameLength:  24,
	}

	registry := item.NewRegistry()
	item.RegisterAll(registry)

	lobby := matchmaking.NewLobby(cfg, registry, nil)
	hub := ws.NewHub(cfg, lobby)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)

	server := httptest.NewServer(mux)
	cleanup := func() {
		server.Close()
		cancel()
	}
	return server, cleanup
}

func connectWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
}

// readUntilType reads messages until one of the given type arrives.
func readUntilType(t *testing.T, conn *websocket.Conn, msgType string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed waiting for %q: %v", msgType, err)
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal failed: %v\ndata: %s", err, data)
		}
		if msg["type"] == msgType {
			return msg
		}
	}
	t.Fatalf("timed out waiting for %q", msgType)
	return nil
}

func TestIntegrationJoinAndMatch(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn1 := connectWS(t, server)
	defer conn1.Close()
	conn2 := connectWS(t, server)
	defer conn2.Close()

	sendMsg(t, conn1, map[string]string{"type": "join", "name": "Alice"})
	waiting := readUntilType(t, conn1, "waiting_for_players")
	if waiting["queued"].(float64) != 1 {
		t.Errorf("expected 1 queued, got %v", waiting["queued"])
	}

	sendMsg(t, conn2, map[string]string{"type": "join", "name": "Bob"})

	mf1 := readUntilType(t, conn1, "match_found")
	mf2 := readUntilType(t, conn2, "match_found")

	if mf1["seat"].(float64) != 0 || mf2["seat"].(float64) != 1 {
		t.Errorf("expected seats 0 and 1, got %v and %v", mf1["seat"], mf2["seat"])
	}
	if mf1["gameId"] != mf2["gameId"] {
		t.Error("expected both clients in the same game")
	}

	// The game announces phases and pushes redacted state to each seat.
	state := readUntilType(t, conn1, "game_state")
	you, ok := state["you"].(map[string]any)
	if !ok {
		t.Fatalf("expected a private view, got %v", state["you"])
	}
	if you["seat"].(float64) != 0 {
		t.Errorf("expected private view for seat 0, got %v", you["seat"])
	}
	seats, ok := state["seats"].([]any)
	if !ok || len(seats) != 2 {
		t.Fatalf("expected 2 public seat views, got %v", state["seats"])
	}
	// The opponent's view never includes card contents.
	other := seats[1].(map[string]any)
	if _, leaked := other["hand"]; leaked {
		t.Error("public seat view leaked hand contents")
	}

	reveal := readUntilType(t, conn2, "cylinder_reveal")
	slots, ok := reveal["slots"].([]any)
	if !ok || len(slots) != 6 {
		t.Fatalf("expected 6 revealed slots, got %v", reveal["slots"])
	}
}

func TestIntegrationPlayCardReachesGame(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn1 := connectWS(t, server)
	defer conn1.Close()
	conn2 := connectWS(t, server)
	defer conn2.Close()

	sendMsg(t, conn1, map[string]string{"type": "join", "name": "Alice"})
	sendMsg(t, conn2, map[string]string{"type": "join", "name": "Bob"})
	readUntilType(t, conn1, "match_found")

	// Wait for the play window, then commit a card from the dealt hand.
	var hand []any
	for {
		state := readUntilType(t, conn1, "game_state")
		if state["phase"] == "card_play" {
			hand = state["you"].(map[string]any)["hand"].([]any)
			break
		}
	}
	if len(hand) == 0 {
		t.Fatal("expected a dealt hand")
	}

	sendMsg(t, conn1, map[string]string{"type": "play_card", "card": hand[0].(string)})

	// The committed card shows up in the next private snapshot.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		state := readUntilType(t, conn1, "game_state")
		played := state["you"].(map[string]any)["played"].([]any)
		if len(played) == 1 && played[0] == hand[0] {
			return
		}
	}
	t.Fatal("played card never appeared in the state snapshot")
}

func TestIntegrationRejectsBadJoin(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	sendMsg(t, conn, map[string]string{"type": "join", "name": ""})
	msg := readUntilType(t, conn, "error")
	if !strings.Contains(msg["message"].(string), "Name") {
		t.Errorf("expected a name validation error, got %v", msg["message"])
	}
}

func TestIntegrationRejectsActionsBeforeJoin(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	sendMsg(t, conn, map[string]string{"type": "play_card", "card": "self_shoot"})
	msg := readUntilType(t, conn, "error")
	if !strings.Contains(msg["message"].(string), "not in a game") {
		t.Errorf("expected a not-in-game error, got %v", msg["message"])
	}
}

func TestIntegrationUnknownMessageType(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	conn := connectWS(t, server)
	defer conn.Close()

	sendMsg(t, conn, map[string]string{"type": "bogus"})
	msg := readUntilType(t, conn, "error")
	if !strings.Contains(msg["message"].(string), "Unknown message type") {
		t.Errorf("expected an unknown-type error, got %v", msg["message"])
	}
}
