package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/napatsiri/go-biolink/pkg/adapters/notify"
	"github.com/napatsiri/go-biolink/pkg/core/domain"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	// Events queued per connection; a session that cannot keep up is
	// dropped and must resubscribe.
	wsSendBuffer = 64
)

type WSHandler struct {
	hub *notify.Hub
	log *zap.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *notify.Hub, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		hub: hub,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the request and streams the owner's change events
// until the client disconnects. The hub subscription lives exactly as long
// as the connection.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ownerID := OwnerID(r)
	if ownerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("owner_id", ownerID), zap.Error(err))
		return
	}

	events := make(chan domain.ChangeEvent, wsSendBuffer)
	overflow := make(chan struct{}, 1)
	sub := h.hub.Subscribe(ownerID, func(ev domain.ChangeEvent) {
		select {
		case events <- ev:
		default:
			// Slow consumer: drop the connection rather than reorder
			// or silently skip events.
			select {
			case overflow <- struct{}{}:
			default:
			}
		}
	})

	done := make(chan struct{})
	go func() {
		// Discard inbound frames; the read loop exists to notice the close.
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.log.Info("subscription opened", zap.String("owner_id", ownerID))
	defer func() {
		sub.Unsubscribe()
		conn.Close()
		h.log.Info("subscription closed", zap.String("owner_id", ownerID))
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-overflow:
			h.log.Warn("subscriber too slow, dropping connection", zap.String("owner_id", ownerID))
			return
		case <-done:
			return
		}
	}
}
