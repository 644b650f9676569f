package handlers

import (
	"log"
	"net/http"
	"strconv"

	"trafkin/backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	EnableCompression: true,
}

// LiveHandler exposes the resolved live state and the change-event
// websocket.
type LiveHandler struct {
	live     *services.LiveService
	hub      *services.Hub
	presence *services.ValkeyViewers // nil when Valkey is disabled
}

func NewLiveHandler(live *services.LiveService, hub *services.Hub, presence *services.ValkeyViewers) *LiveHandler {
	return &LiveHandler{live: live, hub: hub, presence: presence}
}

// GetStreams returns every active hot spot with its derived live fields.
// Serves stale-but-present data during background refreshes; loading is
// only true before the first resolution completes.
func (h *LiveHandler) GetStreams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"streams": h.live.Streams(),
		"loading": h.live.Loading(),
		"error":   errField(h.live.Err()),
	})
}

func (h *LiveHandler) GetCurrentVideo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hot_spot_id":   id,
		"current_video": h.live.GetCurrentVideoForLocation(id),
	})
}

func (h *LiveHandler) GetStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	stats := h.live.GetStatsForLocation(id)
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No schedule data for hot spot"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Watch registers the user as a viewer of the hot spot's stream. A no-op
// when presence tracking is disabled; the random provider fills in then.
func (h *LiveHandler) Watch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if h.presence != nil {
		h.presence.Watch(c.Request.Context(), id, c.GetUint("user_id"))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Watching"})
}

func (h *LiveHandler) Unwatch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if h.presence != nil {
		h.presence.Unwatch(c.Request.Context(), id, c.GetUint("user_id"))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stopped watching"})
}

// Events upgrades to a websocket and streams change events until the
// client disconnects.
func (h *LiveHandler) Events(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Events] WebSocket upgrade failed: %v", err)
		return
	}

	client := &services.Client{
		UserID: userID.(uint),
		Send:   make(chan []byte, 16),
		Conn:   conn,
	}
	h.hub.Register <- client

	go h.writePump(client)
	h.readPump(client)
}

func (h *LiveHandler) writePump(client *services.Client) {
	defer client.Conn.Close()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound messages; its job is detecting disconnects.
func (h *LiveHandler) readPump(client *services.Client) {
	defer func() {
		h.hub.Unregister <- client
		client.Conn.Close()
	}()
	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hot spot id"})
		return 0, false
	}
	return uint(id), true
}

func errField(msg string) interface{} {
	if msg == "" {
		return nil
	}
	return msg
}
