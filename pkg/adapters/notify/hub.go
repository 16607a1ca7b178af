// Package notify fans change events out to every live subscription of an
// owner. Cross-session sharing happens only through this fan-out, never
// through shared memory.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[uint64]func(domain.ChangeEvent)
	nextID uint64
	log    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs: make(map[string]map[uint64]func(domain.ChangeEvent)),
		log:  logger,
	}
}

// Subscribe registers a handler for one owner's change events. The returned
// subscription must be released with Unsubscribe when the consumer goes away.
func (h *Hub) Subscribe(ownerID string, handler func(domain.ChangeEvent)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[uint64]func(domain.ChangeEvent))
	}
	h.subs[ownerID][id] = handler
	h.log.Debug("subscription added", zap.String("owner_id", ownerID), zap.Uint64("sub_id", id))
	return &Subscription{hub: h, ownerID: ownerID, id: id}
}

// Publish delivers one event to every subscriber of the event's owner.
// Handlers run on the publishing goroutine, so events from one publisher
// arrive in delivery order.
func (h *Hub) Publish(event domain.ChangeEvent) {
	h.mu.Lock()
	handlers := make([]func(domain.ChangeEvent), 0, len(h.subs[event.OwnerID]))
	for _, fn := range h.subs[event.OwnerID] {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}

type Subscription struct {
	hub     *Hub
	ownerID string
	id      uint64
}

func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	if owner := s.hub.subs[s.ownerID]; owner != nil {
		delete(owner, s.id)
		if len(owner) == 0 {
			delete(s.hub.subs, s.ownerID)
		}
	}
}

var (
	_ ports.Publisher    = (*Hub)(nil)
	_ ports.Subscription = (*Subscription)(nil)
)
