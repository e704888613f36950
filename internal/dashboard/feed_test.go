package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func (f *Feed) connCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.conns)
}

func waitForConns(t *testing.T, f *Feed, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.connCount() != want {
		require.True(t, time.Now().Before(deadline), "feed never reached %d connections", want)
		time.Sleep(5 * time.Millisecond)
	}
}

func dialFeed(t *testing.T, f *Feed) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(f.handleWS))
	t.Cleanup(srv.Close)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFeedPublishFromManyGoroutines(t *testing.T) {
	feed := NewFeed()
	client := dialFeed(t, feed)
	waitForConns(t, feed, 1)

	const writers = 64
	var wg sync.WaitGroup
	wg.Add(writers)
	for n := 0; n < writers; n++ {
		go func() {
			defer wg.Done()
			feed.Publish("listing_created", "event")
		}()
	}
	wg.Wait()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for n := 0; n < writers; n++ {
		var ev feedEvent
		require.NoError(t, client.ReadJSON(&ev))
		require.Equal(t, "listing_created", ev.Kind)
		require.Equal(t, "event", ev.Text)
	}
}

func TestFeedDropsClosedClients(t *testing.T) {
	feed := NewFeed()
	client := dialFeed(t, feed)
	waitForConns(t, feed, 1)

	require.NoError(t, client.Close())
	waitForConns(t, feed, 0)

	// No client left; a publish must not block or panic.
	feed.Publish("listing_created", "event")
}
