package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// JoinMsg is sent by the client to declare a display name and enter the
// lobby. Token is an optional identity JWT.
type JoinMsg struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// PlayCardMsg is sent by the client to commit a card from hand.
type PlayCardMsg struct {
	Type string `json:"type"`
	Card string `json:"card"`
}

// UseItemMsg is sent by the client to consume an owned item during their
// item window.
type UseItemMsg struct {
	Type string `json:"type"`
	Item string `json:"item"`
}

// BuyItemMsg is sent by the client to purchase a shop slot.
type BuyItemMsg struct {
	Type string `json:"type"`
	Slot int    `json:"slot"`
}

// DrawCardMsg is sent by the client to take their round draw.
type DrawCardMsg struct {
	Type string `json:"type"`
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// WaitingForPlayersMsg confirms the player is in the lobby queue.
type WaitingForPlayersMsg struct {
	Type   string `json:"type"`
	Queued int    `json:"queued"`
}

// MatchFoundMsg is sent when a table fills and the game starts.
type MatchFoundMsg struct {
	Type    string   `json:"type"`
	GameID  string   `json:"gameId"`
	Seat    int      `json:"seat"`
	Players []string `json:"players"`
}
