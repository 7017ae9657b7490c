package api

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// subscribe upgrades the request to a websocket and streams session
// snapshots for as long as the client stays connected. Opening the
// socket counts as a reconnection (cancels any pending eviction);
// closing it arms the disconnect grace countdown.
func (h *handlers) subscribe(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Info("websocket accept failed", "user_id", userID, "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closed")

	h.svc.Connected(userID)
	sub := h.svc.Subscribe(userID)
	defer func() {
		h.svc.Unsubscribe(sub)
		h.svc.Disconnected(userID)
	}()

	h.log.Info("subscriber connected", "user_id", userID)

	// The client never sends application messages; CloseRead keeps
	// control frames flowing and cancels the context on disconnect.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			h.log.Info("subscriber disconnected", "user_id", userID)
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case snap, ok := <-sub.Events():
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := wsjson.Write(ctx, conn, snap); err != nil {
				h.log.Info("subscriber write failed", "user_id", userID, "error", err)
				return
			}
		}
	}
}
