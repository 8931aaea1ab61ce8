package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/parikrama/internal/run"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Progress is one snapshot of the run state sent to monitor clients.
type Progress struct {
	FramesIngested int64   `json:"framesIngested"`
	TotalFrames    int64   `json:"totalFrames"`
	LastTimestamp  float64 `json:"lastTimestamp"`
	IngestionDone  bool    `json:"ingestionDone"`
	AbortRequested bool    `json:"abortRequested"`
	Timestamp      int64   `json:"timestamp"`
}

func snapshot(state *run.State) Progress {
	return Progress{
		FramesIngested: state.FramesIngested(),
		TotalFrames:    state.TotalFrames(),
		LastTimestamp:  state.LastTimestamp(),
		IngestionDone:  state.IngestionDone(),
		AbortRequested: state.AbortRequested(),
		Timestamp:      time.Now().UnixMilli(),
	}
}

// ProgressHandler broadcasts run progress snapshots via WebSocket.
type ProgressHandler struct {
	state   *run.State
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewProgressHandler creates a new ProgressHandler over the given state.
func NewProgressHandler(state *run.State) *ProgressHandler {
	h := &ProgressHandler{
		state:   state,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends progress snapshots to all connected clients.
func (h *ProgressHandler) broadcast() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		msg := snapshot(h.state)

		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("websocket write error: %v", err)
			}
		}
		h.mu.RUnlock()
	}
}
