package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// liveWriteTimeout bounds a single view write to a slow client.
const liveWriteTimeout = 5 * time.Second

// handleLive streams the full match view over a WebSocket: once on connect
// and again after every event. Messages from the client are ignored.
func handleLive(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe(sess.ID)
		defer broker.Unsubscribe(sess.ID, ch)

		// CloseRead handles control frames and cancels ctx when the peer goes away.
		ctx := conn.CloseRead(r.Context())

		if err := writeView(ctx, conn, sess); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case data := <-ch:
				var ev Event
				if json.Unmarshal(data, &ev) == nil && ev.Type == EventClosed {
					conn.Close(websocket.StatusNormalClosure, "match closed")
					return
				}
				if err := writeView(ctx, conn, sess); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

func writeView(ctx context.Context, conn *websocket.Conn, sess *Session) error {
	ctx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, sess.View())
}
