package live

import (
	"context"
	"sync"

	"kuralhub/internal/browse"
	"kuralhub/internal/dataset"
)

// Hub tracks the connected live sessions.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
}

type Stats struct {
	Sessions int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[*Session]struct{})}
}

func (h *Hub) Add(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
}

func (h *Hub) snapshot() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// Refresh pushes current results to every session, e.g. once the dataset
// has finished loading for pages that were opened while it was loading.
func (h *Hub) Refresh() {
	for _, s := range h.snapshot() {
		s.Refresh()
	}
}

// Load runs state.Load and then refreshes every session, whatever the
// outcome, so pages opened while loading see either results or the failure.
func (h *Hub) Load(ctx context.Context, state *browse.State, src dataset.Source) error {
	err := state.Load(ctx, src)
	h.Refresh()
	return err
}

// CloseAll disconnects every session.
func (h *Hub) CloseAll() {
	for _, s := range h.snapshot() {
		s.Close()
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Sessions: len(h.sessions)}
}
