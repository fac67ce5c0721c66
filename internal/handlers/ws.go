package handlers

import (
	"log"
	"net/http"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/services"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *ws.Hub
	attempts *services.AttemptService
}

func NewWSHandler(hub *ws.Hub, attempts *services.AttemptService) *WSHandler {
	return &WSHandler{hub: hub, attempts: attempts}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleAttemptSocket godoc
// @Summary      WebSocket stream of attempt state snapshots
// @Description  Connect via WebSocket to receive a snapshot after every attempt mutation
// @Tags         websocket
// @Param        id path string true "Attempt ID"
// @Router       /ws/attempts/{id} [get]
func (h *WSHandler) HandleAttemptSocket(c *gin.Context) {
	attemptID := c.Param("id")

	snap, err := h.attempts.Snapshot(attemptID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddConnection(attemptID, conn)
	defer h.hub.RemoveConnection(attemptID, conn)

	// Current state right away, then updates come via the hub.
	if err := conn.WriteJSON(ws.WSMessage{Type: "attempt_state", Data: snap}); err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
