// Package realtime pushes battle record updates to subscribed clients.
// Each participant's browser holds one WebSocket per battle; after every
// accepted transition the full record is fanned out so both sides observe
// the same authoritative state and can tear down when it turns terminal.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
)

// Message is the envelope every push uses.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	// TypeBattleUpdate carries the full battle record after a transition.
	TypeBattleUpdate = "battle_update"
)

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan targeted
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

type targeted struct {
	battleKey string
	data      []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan targeted, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			logging.Debug("realtime client registered", logging.Fields{"battle_key": client.battleKey, "player_id": client.playerID})

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if client.battleKey != msg.battleKey {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop it rather than stall the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastRecord pushes the battle record to every client subscribed to
// its key.
func (h *Hub) BroadcastRecord(rec *battle.Record) {
	if rec == nil {
		return
	}
	data, err := json.Marshal(Message{Type: TypeBattleUpdate, Payload: rec})
	if err != nil {
		logging.Error("failed to marshal battle update", err, logging.Fields{"battle_key": rec.BattleKey})
		return
	}
	h.broadcast <- targeted{battleKey: rec.BattleKey, data: data}
}
