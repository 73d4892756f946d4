package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"revolver-roulette-server/auth"
	"revolver-roulette-server/game"
	"revolver-roulette-server/matcherrors"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	Name   string
	UserID string
	Game   *game.Game
	Seat   int
}

// ReadPump pumps messages from the websocket connection to the hub.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "join":
		c.handleJoin(envelope.Raw)
	case "play_card":
		c.handlePlayCard(envelope.Raw)
	case "use_item":
		c.handleUseItem(envelope.Raw)
	case "buy_item":
		c.handleBuyItem(envelope.Raw)
	case "draw_card":
		c.handleDrawCard()
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleJoin(raw json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid join message.")
		return
	}

	// Cannot join again while seated at a table
	if c.Game != nil {
		c.sendError("Cannot join while in a game.")
		return
	}

	// Optional identity: with an auth base URL configured, a valid token
	// attaches a user ID (used for history and leaderboard); guests play
	// without one.
	if msg.Token != "" && c.Hub.Config.AuthBaseURL != "" {
		claims, err := auth.ValidateToken(c.Hub.Config.AuthBaseURL, msg.Token)
		if err != nil {
			c.sendError("Invalid identity token.")
			return
		}
		c.UserID = auth.UserIDFromClaims(claims)
		if msg.Name == "" {
			msg.Name = auth.DisplayNameFromClaims(claims)
		}
	}

	if len(msg.Name) < 1 || len(msg.Name) > c.Hub.Config.MaxNameLength {
		c.sendError("Name must be between 1 and " + strconv.Itoa(c.Hub.Config.MaxNameLength) + " characters.")
		return
	}
	c.Name = msg.Name

	if err := c.Hub.Lobby.Enqueue(c); err != nil {
		switch {
		case errors.Is(err, matcherrors.ErrAlreadyQueued):
			c.sendError("You are already in the queue.")
		case errors.Is(err, matcherrors.ErrNameTaken):
			c.sendError("That name is already in use. Pick another.")
		case errors.Is(err, matcherrors.ErrLobbyClosed):
			c.sendError("The server is shutting down.")
		default:
			c.sendError("Could not join the queue.")
		}
	}
}

func (c *Client) handlePlayCard(raw json.RawMessage) {
	if c.Game == nil {
		c.sendError("You are not in a game.")
		return
	}

	var msg PlayCardMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid play_card message.")
		return
	}
	card, ok := game.CardTypeFromString(msg.Card)
	if !ok {
		c.sendError("Unknown card: " + msg.Card)
		return
	}

	c.submit(game.Action{Type: game.ActionPlayCard, Seat: c.Seat, Card: card})
}

func (c *Client) handleUseItem(raw json.RawMessage) {
	if c.Game == nil {
		c.sendError("You are not in a game.")
		return
	}

	var msg UseItemMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid use_item message.")
		return
	}
	it, ok := game.ItemTypeFromString(msg.Item)
	if !ok {
		c.sendError("Unknown item: " + msg.Item)
		return
	}

	c.submit(game.Action{Type: game.ActionUseItem, Seat: c.Seat, Item: it})
}

func (c *Client) handleBuyItem(raw json.RawMessage) {
	if c.Game == nil {
		c.sendError("You are not in a game.")
		return
	}

	var msg BuyItemMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid buy_item message.")
		return
	}

	c.submit(game.Action{Type: game.ActionBuyItem, Seat: c.Seat, Slot: msg.Slot})
}

func (c *Client) handleDrawCard() {
	if c.Game == nil {
		c.sendError("You are not in a game.")
		return
	}
	c.submit(game.Action{Type: game.ActionDrawCard, Seat: c.Seat})
}

// submit queues an intent without ever blocking the read pump; a full game
// channel drops the intent (the client reconciles on the next broadcast).
func (c *Client) submit(a game.Action) {
	select {
	case c.Game.Actions <- a:
	default:
	}
}

func (c *Client) sendError(message string) {
	msg := ErrorMsg{Type: "error", Message: message}
	data, _ := json.Marshal(msg)
	select {
	case c.Send <- data:
	default:
	}
}
