package transport

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocket_PublishReachesClient(t *testing.T) {
	ws := NewWebSocketServer(slog.New(slog.DiscardHandler), nil)
	defer ws.Stop()

	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	// Registration races the dial returning; wait for the server side.
	deadline := time.Now().Add(2 * time.Second)
	for ws.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	ws.Publish("stats", map[string]int{"poolCount": 3})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading update: %v", err)
	}

	var update Update
	if err := json.Unmarshal(payload, &update); err != nil {
		t.Fatalf("decoding update: %v", err)
	}
	if update.Topic != "stats" {
		t.Errorf("topic = %q, want stats", update.Topic)
	}
}

func TestWebSocket_ConcurrentPublishers(t *testing.T) {
	ws := NewWebSocketServer(slog.New(slog.DiscardHandler), nil)
	defer ws.Stop()

	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for ws.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	// The pools and stats pollers publish from separate goroutines on the
	// same tick; unserialized writes to one connection would panic.
	const perTopic = 50
	var wg sync.WaitGroup
	for _, topic := range []string{"pools", "stats"} {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			for i := 0; i < perTopic; i++ {
				ws.Publish(topic, i)
			}
		}(topic)
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 2*perTopic; i++ {
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("reading update %d: %v", i, err)
		}
	}
}

func TestWebSocket_StopDisconnectsClients(t *testing.T) {
	ws := NewWebSocketServer(slog.New(slog.DiscardHandler), nil)

	srv := httptest.NewServer(ws.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for ws.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	ws.Stop()
	if got := ws.ClientCount(); got != 0 {
		t.Errorf("ClientCount() after Stop = %d, want 0", got)
	}
}
