package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// BotParams holds the parameters for one bot profile (name and behavior).
type BotParams struct {
	Name       string `json:"name"`
	DelayMinMS int    `json:"delay_min_ms"`
	DelayMaxMS int    `json:"delay_max_ms"`
	PlayChance int    `json:"play_chance"` // 0-100, probability to commit a card each play window
	BuyChance  int    `json:"buy_chance"`  // 0-100, probability to attempt a shop purchase each shop phase
}

// Config holds all configurable game parameters.
type Config struct {
	MaxPlayers     int `json:"max_players"`
	MinPlayers     int `json:"min_players"`
	StartingHP     int `json:"starting_hp"`
	StartingCards  int `json:"starting_cards"`
	CylinderSize   int `json:"cylinder_size"`
	InitialBullets int `json:"initial_bullets"`
	DeckSize       int `json:"deck_size"`

	// Phase windows. A phase force-closes when its window elapses, whatever
	// clients are still doing.
	CardPlaySec   int `json:"card_play_sec"`
	ItemUseSec    int `json:"item_use_sec"`
	ShopSec       int `json:"shop_sec"`
	DrawSec       int `json:"draw_sec"`
	RevealDelayMS int `json:"reveal_delay_ms"`
	CardResolveMS int `json:"card_resolve_ms"`

	LobbyFillSec  int `json:"lobby_fill_sec"`
	WSPort        int `json:"ws_port"`
	MaxNameLength int `json:"max_name_length"`

	// BotProfiles lists available bots; lobbies draw from these when topping
	// up unfilled seats.
	BotProfiles []BotParams `json:"bot_profiles"`

	// DatabaseURL enables the pgx history store when set (env only).
	DatabaseURL string `json:"-"`
	// AuthBaseURL enables JWT identity when set (env only).
	AuthBaseURL string `json:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		MaxPlayers:     4,
		MinPlayers:     2,
		StartingHP:     4,
		StartingCards:  2,
		CylinderSize:   6,
		InitialBullets: 1,
		DeckSize:       60,
		CardPlaySec:    25,
		ItemUseSec:     3,
		ShopSec:        15,
		DrawSec:        5,
		RevealDelayMS:  2000,
		CardResolveMS:  500,
		LobbyFillSec:   10,
		WSPort:         8080,
		MaxNameLength:  24,
		BotProfiles: []BotParams{
			{Name: "Dixie", DelayMinMS: 800, DelayMaxMS: 2000, PlayChance: 85, BuyChance: 60},
			{Name: "Holt", DelayMinMS: 500, DelayMaxMS: 1200, PlayChance: 70, BuyChance: 40},
			{Name: "Marla", DelayMinMS: 400, DelayMaxMS: 1000, PlayChance: 55, BuyChance: 75},
		},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	// Try to load from config.json
	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	// Environment variable overrides
	overrideInt(&cfg.MaxPlayers, "MAX_PLAYERS")
	overrideInt(&cfg.MinPlayers, "MIN_PLAYERS")
	overrideInt(&cfg.StartingHP, "STARTING_HP")
	overrideInt(&cfg.StartingCards, "STARTING_CARDS")
	overrideInt(&cfg.CylinderSize, "CYLINDER_SIZE")
	overrideInt(&cfg.InitialBullets, "INITIAL_BULLETS")
	overrideInt(&cfg.DeckSize, "DECK_SIZE")
	overrideInt(&cfg.CardPlaySec, "CARD_PLAY_SEC")
	overrideInt(&cfg.ItemUseSec, "ITEM_USE_SEC")
	overrideInt(&cfg.ShopSec, "SHOP_SEC")
	overrideInt(&cfg.DrawSec, "DRAW_SEC")
	overrideInt(&cfg.RevealDelayMS, "REVEAL_DELAY_MS")
	overrideInt(&cfg.CardResolveMS, "CARD_RESOLVE_MS")
	overrideInt(&cfg.LobbyFillSec, "LOBBY_FILL_SEC")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	if len(cfg.BotProfiles) > 0 {
		overrideString(&cfg.BotProfiles[0].Name, "BOT_NAME")
		overrideInt(&cfg.BotProfiles[0].DelayMinMS, "BOT_DELAY_MIN_MS")
		overrideInt(&cfg.BotProfiles[0].DelayMaxMS, "BOT_DELAY_MAX_MS")
		overrideInt(&cfg.BotProfiles[0].PlayChance, "BOT_PLAY_CHANCE")
		overrideInt(&cfg.BotProfiles[0].BuyChance, "BOT_BUY_CHANCE")
	}

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
