package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"revolver-roulette-server/config"
	"revolver-roulette-server/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LobbyInterface defines what the Hub needs from the lobby.
type LobbyInterface interface {
	Enqueue(c *Client) error
	LeaveQueue(c *Client)
	Close()
}

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Lobby      LobbyInterface
	Config     *config.Config
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, lobby LobbyInterface) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Lobby:      lobby,
		Config:     cfg,
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run returns and no
// longer accepts new registrations.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("hub stopping", "tag", "ws")
			h.Lobby.Close()
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "ws", "total", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				slog.Info("client disconnected", "tag", "ws", "total", len(h.Clients))

				h.Lobby.LeaveQueue(client)

				// A mid-game drop leaves the seat abandoned; the round keeps
				// going for everyone else.
				if client.Game != nil && !client.Game.Finished {
					select {
					case client.Game.Actions <- game.Action{
						Type: game.ActionDisconnect,
						Seat: client.Seat,
					}:
					default:
					}
				}
			}
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
		Seat: -1,
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
