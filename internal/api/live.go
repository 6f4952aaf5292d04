package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

// LiveHandler handles GET /matches/{matchId}/live. It upgrades to a websocket
// and streams the match's events as JSON text frames until either side closes.
func (h *HandlerProvider) LiveHandler(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchId")

	_, err := h.matches.Get(r.Context(), matchID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.WarnContext(r.Context(), "websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}
	defer conn.Close()

	feed, unsubscribe := h.live.Subscribe(matchID)
	defer unsubscribe()

	slog.DebugContext(r.Context(), "live feed opened", "match_id", matchID, "user_id", userIDFrom(r.Context()))

	closed := make(chan struct{})
	go drainClient(conn, closed)

	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-feed:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))

			err = conn.WriteJSON(ev)
			if err != nil {
				slog.DebugContext(r.Context(), "live feed write", "match_id", matchID, "error", err)
				return
			}
		case <-ping.C:
			err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait))
			if err != nil {
				return
			}
		}
	}
}

// drainClient discards client frames so control frames get processed, and
// closes done once the connection fails or the client hangs up.
func drainClient(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("live feed closed unexpectedly", "error", err)
			}

			return
		}
	}
}
