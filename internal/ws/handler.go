// Package ws is the websocket transport: one connection per player, a
// writer goroutine draining the match outbox and a reader loop feeding
// commands to the match.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/match"
	"github.com/DoyleJ11/lane-arena/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 5 * time.Minute
)

type Options struct {
	OutboxSize     int
	OriginPatterns []string
	Logger         *zap.Logger
}

// Handler serves /ws?game=<id>&player=<id>. Player identity comes from
// the query string; authentication belongs to whatever sits in front.
func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	size := opts.OutboxSize
	if size <= 0 {
		size = 16
	}
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("game")
		playerID := r.URL.Query().Get("player")
		if gameID == "" || playerID == "" {
			http.Error(w, "missing game or player", http.StatusBadRequest)
			return
		}

		mt, err := h.Match(r.Context(), gameID)
		if errors.Is(err, hub.ErrClosed) {
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			return
		}
		if mt == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: opts.OriginPatterns})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		log := log.With(zap.String("game", gameID), zap.String("player", playerID))

		out := make(chan match.Frame, size)
		if err := mt.Join(r.Context(), playerID, out); err != nil {
			writeJSON(r.Context(), conn, types.ErrorMessage(err))
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}
		defer mt.Leave(playerID, out)

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for f := range out {
				if err := writeJSON(writeCtx, conn, types.FromFrame(f)); err != nil {
					log.Debug("write failed", zap.Error(err))
				}
			}
			// The match closed our outbox: game over, shutdown or too slow.
			conn.Close(websocket.StatusNormalClosure, "match closed")
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeJSON(r.Context(), conn, types.ServerMessage{Type: "error", Error: "bad json", Code: "malformed"})
				continue
			}
			cmd, err := cm.Command()
			if err != nil {
				writeJSON(r.Context(), conn, types.ErrorMessage(err))
				continue
			}
			a, err := mt.Submit(r.Context(), playerID, cmd)
			if err != nil && a.Err == nil {
				a.Err = err
			}
			writeJSON(r.Context(), conn, types.FromAnswer(a))
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
