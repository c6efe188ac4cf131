package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/docwright/docwright/internal/logfields"
)

const (
	reloadWriteWait  = 10 * time.Second
	reloadPingPeriod = 30 * time.Second
)

// ReloadMessage tells preview clients a new model is live.
type ReloadMessage struct {
	BuildID string `json:"build_id"`
	Outcome string `json:"outcome,omitempty"`
}

// ReloadHub fans build completions out to websocket clients. Clients that
// cannot keep up are dropped.
type ReloadHub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]*reloadClient
	closed  bool
	last    ReloadMessage
}

type reloadClient struct {
	id   int
	send chan []byte
	done chan struct{}
}

// NewReloadHub creates an empty hub.
func NewReloadHub() *ReloadHub {
	return &ReloadHub{clients: map[int]*reloadClient{}}
}

// ServeHTTP upgrades to a websocket and streams reload messages until the
// client disconnects or the hub shuts down.
func (h *ReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Debug("Live-reload upgrade failed", logfields.Error(err))
		return
	}

	client, last, ok := h.register()
	if !ok {
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer h.removeClient(client.id)

	// A connecting client learns the current build immediately, so a page
	// loaded mid-build still reloads once.
	if last.BuildID != "" {
		if data, merr := json.Marshal(last); merr == nil {
			client.send <- data
		}
	}

	// Read only to notice the peer going away.
	readCtx, cancelRead := context.WithCancel(r.Context())
	defer cancelRead()
	go func() {
		defer cancelRead()
		for {
			if _, _, rerr := conn.Read(readCtx); rerr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(reloadPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-readCtx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-client.done:
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		case msg := <-client.send:
			writeCtx, cancel := context.WithTimeout(r.Context(), reloadWriteWait)
			werr := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if werr != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(r.Context(), reloadWriteWait)
			perr := conn.Ping(pingCtx)
			cancel()
			if perr != nil {
				return
			}
		}
	}
}

func (h *ReloadHub) register() (*reloadClient, ReloadMessage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ReloadMessage{}, false
	}
	client := &reloadClient{
		id:   h.nextID,
		send: make(chan []byte, 8),
		done: make(chan struct{}),
	}
	h.nextID++
	h.clients[client.id] = client
	return client, h.last, true
}

func (h *ReloadHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// Broadcast notifies all clients about a completed build. Repeats of the
// same build id are suppressed.
func (h *ReloadHub) Broadcast(buildID, outcome string) {
	if buildID == "" {
		return
	}

	h.mu.Lock()
	if h.closed || buildID == h.last.BuildID {
		h.mu.Unlock()
		return
	}
	msg := ReloadMessage{BuildID: buildID, Outcome: outcome}
	h.last = msg
	snapshot := make([]*reloadClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.send <- data:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	slog.Debug("Live-reload broadcast",
		logfields.BuildID(buildID),
		logfields.Count(len(snapshot)),
		slog.Int("dropped", dropped))
}

// ClientCount reports connected clients.
func (h *ReloadHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown disconnects all clients and rejects new ones.
func (h *ReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*reloadClient{}
	h.mu.Unlock()

	for _, c := range clients {
		close(c.done)
	}
}
