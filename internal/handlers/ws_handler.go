package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"deen-companion-api/internal/profiles"
	"deen-companion-api/internal/profilesync"
	"deen-companion-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
// writeMu serializes data writes: the hub publishes from arbitrary request
// goroutines and gorilla/websocket allows only one concurrent writer.
type wsClient struct {
	id      string
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (c *wsClient) Send(ev realtime.Event) bool {
	if c == nil || c.conn == nil {
		return false
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return false
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// WSHandler upgrades connections and registers clients on the hub. Opening
// a connection also ensures the user's sync session exists, so document
// snapshots start flowing to the hub as typed events.
type WSHandler struct {
	hub     *realtime.Hub
	store   *profiles.Store
	manager *profilesync.Manager
}

func NewWSHandler(hub *realtime.Hub, store *profiles.Store, manager *profilesync.Manager) *WSHandler {
	return &WSHandler{hub: hub, store: store, manager: manager}
}

// Serve handles GET /api/ws. It requires JWT middleware to have set "uid"
// in context.
func (h *WSHandler) Serve(c *gin.Context) {
	uid := c.GetString("uid")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	if _, err := h.manager.Session(uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start sync session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := &wsClient{id: uuid.NewString(), conn: conn}
	h.hub.Register(uid, client)

	// New clients get the current document immediately instead of waiting
	// for the next change.
	if profile, err := h.store.Get(c.Request.Context(), uid); err == nil {
		client.Send(realtime.Event{Type: realtime.EventProfile, Payload: profile})
	}

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		h.hub.Unregister(uid, client)
		client.Close()
	}()

	// Reader loop: drain messages and keep connection alive via pong handler
	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			// Normal close or error; exit loop
			return
		}
	}
}
