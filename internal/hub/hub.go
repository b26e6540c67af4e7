package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Event types pushed to draw watchers.
const (
	EventDraw  = "draw"
	EventReset = "reset"
)

// Event is the message sent to every watcher of a game.
type Event struct {
	Type   string `json:"type"`
	Number int    `json:"number,omitempty"`
	Drawn  []int  `json:"drawn"`
}

// Hub keeps the websocket connections watching each game's draw.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*connection]struct{}
	log   *zap.SugaredLogger
}

// New creates an empty hub.
func New(log *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*connection]struct{}),
		log:   log,
	}
}

type connection struct {
	gameID string
	ws     *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *connection) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Register attaches ws to gameID and starts its pumps. The hub owns ws afterwards.
func (h *Hub) Register(ws *websocket.Conn, gameID string) {
	c := &connection{
		gameID: gameID,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	room, ok := h.rooms[gameID]
	if !ok {
		room = make(map[*connection]struct{})
		h.rooms[gameID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()

	h.log.Debugw("watcher joined", "game", gameID)
	go h.writePump(c)
	go h.readPump(c)
}

// Count returns how many watchers a game has.
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

// ToGame sends ev to everyone watching gameID. Watchers whose buffer is full are dropped.
func (h *Hub) ToGame(gameID string, ev Event) error {
	msg, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	var slow []*connection
	h.mu.RLock()
	for c := range h.rooms[gameID] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warnw("dropping slow watcher", "game", gameID)
		h.remove(c)
	}
	return nil
}

// Close disconnects every watcher of gameID, e.g. when the game is deleted.
func (h *Hub) Close(gameID string) {
	h.mu.Lock()
	room := h.rooms[gameID]
	delete(h.rooms, gameID)
	h.mu.Unlock()

	for c := range room {
		c.close()
	}
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	if room, ok := h.rooms[c.gameID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.gameID)
		}
	}
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.remove(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(512)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Watchers only listen; anything they send is discarded.
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debugw("watcher read error", "game", c.gameID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debugw("watcher write error", "game", c.gameID, "error", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
