package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NoticeKind classifies a toast.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a transient user-facing notification.
type Notice struct {
	ID          string     `json:"id"`
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	At          time.Time  `json:"at"`
}

// NewNotice stamps a notice with a fresh id and the current time.
func NewNotice(kind NoticeKind, title, description string) Notice {
	return Notice{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: description,
		At:          time.Now().UTC(),
	}
}

// ErrorNotice builds the standard failure toast.
func ErrorNotice(description string) Notice {
	return NewNotice(NoticeError, "Ошибка", description)
}

// SuccessNotice builds the standard success toast.
func SuccessNotice(description string) Notice {
	return NewNotice(NoticeSuccess, "Успешно", description)
}

// NoticeHook receives notices published by the service.
type NoticeHook interface {
	Notify(ctx context.Context, notice Notice) error
}

// NoticeHub fans out notices to in-process subscribers.
type NoticeHub struct {
	mu   sync.RWMutex
	subs map[int]chan Notice
	next int
}

// NewNoticeHub creates an empty hub.
func NewNoticeHub() *NoticeHub {
	return &NoticeHub{subs: make(map[int]chan Notice)}
}

var _ NoticeHook = (*NoticeHub)(nil)

// Notify broadcasts the notice. Slow subscribers miss notices rather than block.
func (h *NoticeHub) Notify(_ context.Context, notice Notice) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- notice:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of notices and a cancel func.
func (h *NoticeHub) Subscribe() (<-chan Notice, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Notice, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of active subscriptions.
func (h *NoticeHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// MessageReader is the read half of a websocket connection.
type MessageReader interface {
	ReadMessage() (messageType int, p []byte, err error)
}

// DrainReads discards inbound frames in the background and closes the
// returned channel once a read fails, which is how a closed peer shows up.
func DrainReads(conn MessageReader) <-chan struct{} {
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return gone
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams notices as JSON.
func (h *NoticeHub) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	notices, cancel := h.Subscribe()
	defer cancel()
	gone := DrainReads(conn)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			return
		case notice, ok := <-notices:
			if !ok {
				return
			}
			if err := conn.WriteJSON(notice); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams notices as Server-Sent Events.
func (h *NoticeHub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	notices, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case notice, ok := <-notices:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(notice); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
