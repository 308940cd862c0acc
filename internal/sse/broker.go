// Package sse streams index sync notifications to preview clients as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// SyncedEvent is the event type sent after the post index re-synced.
const SyncedEvent = "posts.synced"

const (
	// DefaultClientBuffer is the per-client frame buffer. Frames for a client
	// whose buffer is full are dropped.
	DefaultClientBuffer = 64
	// DefaultHeartbeat is the interval between keepalive comments.
	DefaultHeartbeat = 30 * time.Second
)

// Event is one notification to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Option configures a Broker.
type Option func(*Broker)

// WithBuffer sets the per-client frame buffer.
func WithBuffer(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithHeartbeat sets the keepalive interval of ServeHTTP.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.heartbeat = d
		}
	}
}

// Broker fans events out to subscribed clients. Every frame carries a
// sequence id, and the latest posts.synced frame is replayed to clients that
// have not seen it yet.
//
// The client set lives in a single goroutine; every public method hands it an
// operation over a channel.
type Broker struct {
	buffer    int
	heartbeat time.Duration

	ops     chan func(*hub)
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

type hub struct {
	clients map[chan []byte]struct{}
	seq     uint64
	synced  *frame
}

type frame struct {
	id  uint64
	raw []byte
}

// NewBroker starts a broker.
func NewBroker(opts ...Option) *Broker {
	b := &Broker{
		buffer:    DefaultClientBuffer,
		heartbeat: DefaultHeartbeat,
		ops:       make(chan func(*hub)),
		stopCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	h := &hub{clients: make(map[chan []byte]struct{})}
	for {
		select {
		case <-b.stopCh:
			for ch := range h.clients {
				close(ch)
			}
			return
		case op := <-b.ops:
			op(h)
		}
	}
}

// do runs op on the broker goroutine and waits for it. It reports false when
// the broker is closed.
func (b *Broker) do(op func(*hub)) bool {
	if b.closed.Load() {
		return false
	}
	done := make(chan struct{})
	select {
	case b.ops <- func(h *hub) { op(h); close(done) }:
	case <-b.stopped:
		return false
	}
	<-done
	return true
}

// Close stops the broker and closes every client channel. It is safe to call
// more than once.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client. lastEventID is the id of the last frame the
// client received, or "" for a fresh client; the latest posts.synced frame is
// queued unless it carries that id.
func (b *Broker) Subscribe(lastEventID string) chan []byte {
	ch := make(chan []byte, b.buffer)
	ok := b.do(func(h *hub) {
		h.clients[ch] = struct{}{}
		if h.synced != nil && strconv.FormatUint(h.synced.id, 10) != lastEventID {
			ch <- h.synced.raw
		}
	})
	if !ok {
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.do(func(h *hub) {
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	var n int
	b.do(func(h *hub) { n = len(h.clients) })
	return n
}

// Publish broadcasts event to every client. Slow clients miss frames rather
// than block the broker.
func (b *Broker) Publish(event Event) error {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("sse: marshal %s: %w", event.Type, err)
	}
	b.do(func(h *hub) {
		h.seq++
		f := &frame{
			id:  h.seq,
			raw: []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", h.seq, event.Type, payload)),
		}
		if event.Type == SyncedEvent {
			h.synced = f
		}
		for ch := range h.clients {
			select {
			case ch <- f.raw:
			default:
			}
		}
	})
	return nil
}

// PublishSynced announces a completed index sync with its stats as payload.
func (b *Broker) PublishSynced(stats any) error {
	return b.Publish(Event{Type: SyncedEvent, Data: stats})
}

// ServeHTTP is the SSE endpoint handler (GET /api/events). It honours the
// Last-Event-ID header sent by reconnecting clients.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(r.Header.Get("Last-Event-ID"))
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": keepalive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
