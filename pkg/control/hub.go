// Package control implements the producer side of the external control surface: a read-only
// websocket feed of active-match snapshots, plus pause/resume/cancel/reset signals the
// (external, unbuilt) operator UI would drive. The wire protocol for the consumer is
// intentionally unspecified beyond the JSON shape of Snapshot.
package control

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/persist"
)

// Snapshot is published after every ply of every in-flight match.
type Snapshot struct {
	MatchID  uint64     `json:"match_id"`
	White    uint64     `json:"white_id"`
	Black    uint64     `json:"black_id"`
	FEN      string     `json:"fen"`
	Moves    []string   `json:"moves"`
	LastEval eval.Score `json:"last_eval"`
}

// Hub fans out Snapshots to every connected viewer over a websocket, and exposes the
// pause/resume/cancel/reset signals that gate the Tournament Controller's worker loop.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	paused  bool
	cancel  chan struct{}
	restart chan struct{}

	store *persist.Store
}

// NewHub returns a Hub whose Reset deletes store's evolution directory.
func NewHub(store *persist.Store) *Hub {
	return &Hub{
		clients: map[*websocket.Conn]bool{},
		cancel:  make(chan struct{}),
		restart: make(chan struct{}),
		store:   store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is an external, unbuilt consumer on an operator's own network;
			// this is a read-only feed, not a mutation endpoint.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and registers it as a broadcast target. It blocks reading
// (and discarding) client frames only to detect disconnects; the feed itself is one-directional.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish broadcasts snap to every connected viewer. A connection whose write fails is closed
// and dropped; writes have no deadline, so a slow connection blocks the caller until its write
// completes.
func (h *Hub) Publish(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Pause sets the paused signal; workers checking IsPaused stop picking up new tasks.
func (h *Hub) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = true
}

// Resume clears the paused signal.
func (h *Hub) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paused = false
}

// IsPaused reports the current pause state.
func (h *Hub) IsPaused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

// Cancel closes the cancellation channel, idempotently. Tournament workers observe it via
// contextx between matches to begin graceful shutdown; the Searcher does not observe it, so a
// match already in progress plays to completion.
func (h *Hub) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.cancel:
	default:
		close(h.cancel)
	}
}

// Cancelled returns the channel closed by Cancel.
func (h *Hub) Cancelled() <-chan struct{} {
	return h.cancel
}

// Reset deletes the evolution directory so the next generation starts at 0, per the control
// surface's reset signal, and marks a restart as requested: the caller is expected to observe
// RestartRequested and exit with the restart-requested exit code rather than keep looping with
// a population that no longer matches what's on disk.
func (h *Hub) Reset() error {
	h.mu.Lock()
	select {
	case <-h.restart:
	default:
		close(h.restart)
	}
	h.mu.Unlock()

	return h.store.Reset()
}

// RestartRequested returns the channel closed by Reset.
func (h *Hub) RestartRequested() <-chan struct{} {
	return h.restart
}
