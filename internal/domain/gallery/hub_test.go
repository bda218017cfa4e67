package gallery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_StreamsCommittedMutations(t *testing.T) {
	store := hydratedStore(t, newMemoryKV())
	hub := NewHub(store, []string{"*"})
	go hub.Run()
	defer hub.Shutdown()

	conn := dialHub(t, hub)

	// Give the hub a moment to register the connection before mutating
	time.Sleep(50 * time.Millisecond)

	if err := store.Upload(context.Background(), testPhoto("custom-1")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event failed: %v", err)
	}

	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		t.Fatalf("invalid event payload %q: %v", payload, err)
	}
	if e.Type != EventPhotoUploaded || e.PhotoID != "custom-1" {
		t.Fatalf("expected photo_uploaded for custom-1, got %+v", e)
	}
}

func TestHub_RejectsDisallowedOrigin(t *testing.T) {
	store := hydratedStore(t, newMemoryKV())
	hub := NewHub(store, []string{"http://allowed.example"})
	go hub.Run()
	defer hub.Shutdown()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected handshake to fail for disallowed origin")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.StatusCode)
	}
}
