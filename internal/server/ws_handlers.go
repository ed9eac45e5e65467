package server

import (
	"net/http"

	"plinkomarket/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// handleWS streams one frame message per tick to the renderer. Incoming
// messages are ignored.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("handler", "WS").Msg("accept failed")
		return
	}
	defer conn.CloseNow()

	client := &wshub.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	sess.Hub.Register(client)
	defer sess.Hub.Unregister(client.ID)

	ctx := conn.CloseRead(r.Context())
	client.WritePump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}
