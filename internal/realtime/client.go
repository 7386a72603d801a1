package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one WebSocket subscription to a single battle.
type Client struct {
	hub       *Hub
	socket    *websocket.Conn
	send      chan []byte
	battleKey string
	playerID  string
}

// Subscribe registers a connection with the hub and starts its pumps.
func (h *Hub) Subscribe(socket *websocket.Conn, battleKey, playerID string) {
	client := &Client{
		hub:       h,
		socket:    socket,
		send:      make(chan []byte, 8),
		battleKey: battleKey,
		playerID:  playerID,
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames (all events arrive over HTTP) but keeps
// the connection's read side alive for close/pong handling.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()
	c.socket.SetReadLimit(512)
	_ = c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("realtime client read error", logging.Fields{"battle_key": c.battleKey, "error": err.Error()})
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
