package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JKozubekINF1/dart-counter/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Package-level WebSocket upgrader
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// standardResponse sends a consistent JSON response
func standardResponse(c *gin.Context, code int, status string, data interface{}, err string) {
	response := gin.H{"status": status}

	if data != nil {
		response["data"] = data
	}

	if err != "" {
		response["error"] = err
	}

	c.JSON(code, response)
}

// MatchHandler bridges the WebSocket transport and the match session.
type MatchHandler struct {
	session *models.Session
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(session *models.Session) *MatchHandler {
	return &MatchHandler{session: session}
}

// command is one inbound client message. Payload fields are only read for
// the actions that use them; a message that fails to decode is dropped.
type command struct {
	Action        string               `json:"action"`
	Config        models.ConfigRequest `json:"config"`
	Points        int                  `json:"points"`
	DoublesMissed int                  `json:"doublesMissed"`
	FinishDarts   int                  `json:"finishDarts"`
	Segments      []string             `json:"segments"`
}

// WebSocketHandler upgrades the connection, streams state updates out and
// feeds client commands into the session.
func (h *MatchHandler) WebSocketHandler(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		standardResponse(c, http.StatusInternalServerError, "error", nil, "Could not upgrade to WebSocket")
		return
	}
	defer conn.Close()

	events := h.session.Subscribe()
	defer h.session.Unsubscribe(events)

	// Send the authoritative state straight away
	initialEvent := models.Event{
		Type:    models.EventTypeUpdate,
		Payload: h.session.Snapshot(),
	}
	if err := conn.WriteJSON(initialEvent); err != nil {
		return
	}

	// Setup ping ticker for keep-alive
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	done := make(chan struct{})
	go h.readCommands(conn, done)

	for {
		select {
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readCommands dispatches inbound messages until the client disconnects.
// Malformed messages and commands illegal in the current state are dropped
// without a reply; the next state broadcast is the only feedback.
func (h *MatchHandler) readCommands(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			continue
		}

		switch cmd.Action {
		case "start":
			h.session.StartMatch(models.ParseConfig(cmd.Config))
		case "throw":
			h.session.Throw(cmd.Points, cmd.DoublesMissed, cmd.FinishDarts, cmd.Segments)
		case "undo":
			h.session.Undo()
		case "reset":
			h.session.Reset()
		case "abort":
			h.session.Abort()
		}
	}
}
