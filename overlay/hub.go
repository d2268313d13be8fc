// Package overlay serves the satellite label overlay: a small web page that
// receives label positions over a websocket and can send navigation requests
// back to the scene.
package overlay

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"planetsystem/simulation"
)

// Message types sent to clients.
const (
	TypeLabels  = "labels"
	TypeSection = "section"
)

// Message is one server to client frame.
type Message struct {
	Type    string             `json:"type"`
	Labels  []simulation.Label `json:"labels,omitempty"`
	Width   int                `json:"width,omitempty"`
	Height  int                `json:"height,omitempty"`
	Section string             `json:"section,omitempty"`
}

// Request is a client to server frame. Only "navigate" is understood.
type Request struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

const requestQueue = 16

// DefaultWriteTimeout bounds every client write.
const DefaultWriteTimeout = 2 * time.Second

var logger = log.New(os.Stderr, "[overlay] ", log.LstdFlags)

var upgrader = websocket.Upgrader{
	// The overlay page is served locally; any origin may attach.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans label snapshots and section changes out to every connected
// client. PublishLabels and PublishSection are called from the render
// goroutine and never block on the network; Run does the writes.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex

	limiter      *rate.Limiter
	metrics      *Metrics
	writeTimeout time.Duration
	requests chan Request
	notify   chan struct{}

	snapMu       sync.Mutex
	labels       Message
	section      string
	labelsDirty  bool
	sectionDirty bool
}

// NewHub creates a hub that broadcasts at most labelRate label snapshots per
// second. metrics may be nil.
func NewHub(labelRate float64, metrics *Metrics) *Hub {
	return &Hub{
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		limiter:      rate.NewLimiter(rate.Limit(labelRate), 1),
		metrics:      metrics,
		writeTimeout: DefaultWriteTimeout,
		requests:     make(chan Request, requestQueue),
		notify:       make(chan struct{}, 1),
	}
}

// PublishLabels stores the latest labels and wakes the broadcaster. Calls
// over the rate limit are dropped.
func (h *Hub) PublishLabels(labels []simulation.Label, vp simulation.Viewport) {
	if !h.limiter.Allow() {
		return
	}
	snapshot := append([]simulation.Label(nil), labels...)
	h.snapMu.Lock()
	h.labels = Message{Type: TypeLabels, Labels: snapshot, Width: vp.Width, Height: vp.Height}
	h.labelsDirty = true
	h.snapMu.Unlock()
	h.wake()
}

// PublishSection records the showing section and wakes the broadcaster.
// Only the latest section is sent when several arrive between writes.
func (h *Hub) PublishSection(section string) {
	h.snapMu.Lock()
	h.section = section
	h.sectionDirty = true
	h.snapMu.Unlock()
	h.wake()
}

func (h *Hub) wake() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Requests delivers navigation requests from clients. The render goroutine
// drains it once per tick.
func (h *Hub) Requests() <-chan Request {
	return h.requests
}

// Run broadcasts pending section changes and label snapshots until ctx is
// done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.notify:
			h.flush()
		}
	}
}

// flush sends whatever changed since the last flush, section first.
func (h *Hub) flush() {
	h.snapMu.Lock()
	section, sendSection := h.section, h.sectionDirty
	labels, sendLabels := h.labels, h.labelsDirty
	h.sectionDirty, h.labelsDirty = false, false
	h.snapMu.Unlock()

	if sendSection {
		h.broadcast(Message{Type: TypeSection, Section: section})
	}
	if sendLabels {
		h.broadcast(labels)
	}
}

// Clients is the number of attached websockets.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg Message) {
	var failed []*websocket.Conn

	h.mu.RLock()
	for conn, mu := range h.clients {
		mu.Lock()
		err := h.writeJSON(conn, msg)
		mu.Unlock()
		if err != nil {
			logger.Println("write error:", err)
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()
	h.metrics.recordBroadcast(msg.Type)

	for _, conn := range failed {
		h.remove(conn)
	}
}

// writeJSON writes v with a deadline so a client that stopped reading is
// dropped instead of stalling the broadcaster.
func (h *Hub) writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// add registers conn and returns its write lock, held, so nothing is
// broadcast to it before the greeting.
func (h *Hub) add(conn *websocket.Conn) *sync.Mutex {
	mu := &sync.Mutex{}
	mu.Lock()
	h.mu.Lock()
	h.clients[conn] = mu
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.setClients(n)
	return mu
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		conn.Close()
		h.metrics.setClients(n)
	}
}

// ServeWS upgrades the request, sends the current state and then reads
// navigation requests until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Println("upgrade error:", err)
		return
	}
	mu := h.add(conn)
	defer h.remove(conn)

	h.snapMu.Lock()
	section := h.section
	labels := h.labels
	h.snapMu.Unlock()

	err = h.writeJSON(conn, Message{Type: TypeSection, Section: section})
	if err == nil && labels.Type != "" {
		err = h.writeJSON(conn, labels)
	}
	mu.Unlock()
	if err != nil {
		logger.Println("write error:", err)
		return
	}

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Println("read error:", err)
			}
			return
		}
		if req.Type != "navigate" || req.Target == "" {
			continue
		}
		select {
		case h.requests <- req:
		default:
			logger.Printf("request queue full, dropping %s", req.Target)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		h.remove(conn)
	}
}
