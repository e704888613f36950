package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

// Feed fans bot activity out to every dashboard browser holding the live
// view open. The mutex serializes all writes: gorilla connections permit
// only one writer at a time, and publishers arrive from many goroutines
// (every gateway handler runs on its own).
type Feed struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewFeed() *Feed {
	return &Feed{conns: make(map[*websocket.Conn]struct{})}
}

type feedEvent struct {
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Publish broadcasts one activity line. Safe to call from any goroutine;
// a failed write just drops that client's event.
func (f *Feed) Publish(kind, text string) {
	data, err := json.Marshal(feedEvent{Kind: kind, Text: text, At: time.Now().UTC()})
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.conns {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.L().Debug("feed broadcast failed", "error", err)
		}
	}
}

func (f *Feed) add(c *websocket.Conn) {
	f.mu.Lock()
	f.conns[c] = struct{}{}
	f.mu.Unlock()
}

// remove closes under the same lock as Publish; Close counts as a write
// on gorilla connections.
func (f *Feed) remove(c *websocket.Conn) {
	f.mu.Lock()
	delete(f.conns, c)
	_ = c.Close()
	f.mu.Unlock()
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS upgrades a dashboard connection onto the feed. Clients only
// listen; inbound frames are drained to detect the close.
func (f *Feed) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.L().Warn("feed upgrade failed", "error", err)
		return
	}
	f.add(c)
	go func() {
		defer f.remove(c)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
