package webui

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/router"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	// The chat page is served from this same server
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsIncoming struct {
	Text string `json:"text"`
}

type wsOutgoing struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleWS runs one browser conversation over a websocket. Each
// connection is its own session, so a reconnect starts a fresh
// application unless the client supplies a session query parameter.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.processor == nil {
		http.Error(w, "processor is not initialized", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("[WebUI] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = "ws-" + uuid.NewString()
	}

	for {
		var in wsIncoming
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			logger.Debug("[WebUI] Websocket read failed: %v", err)
			return
		}

		text := strings.TrimSpace(in.Text)
		if text == "" {
			continue
		}

		resp, err := s.processor.HandleMessage(r.Context(), router.Message{
			Platform:  "web",
			ChannelID: sessionID,
			UserID:    sessionID,
			Username:  "web-user",
			Text:      text,
			Metadata: map[string]string{
				"chat_type": "private",
			},
		})

		out := wsOutgoing{Text: resp.Text}
		if err != nil {
			out = wsOutgoing{Error: err.Error()}
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(out); err != nil {
			logger.Debug("[WebUI] Websocket write failed: %v", err)
			return
		}
	}
}
