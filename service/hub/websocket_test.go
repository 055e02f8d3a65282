package hub

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastReachesSubscriber(t *testing.T) {
	canxCtx, canxFn := context.WithCancel(context.Background())
	defer canxFn()

	svc := NewWebsocket()
	go svc.Run(canxCtx)

	server := httptest.NewServer(svc.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the first broadcast; keep broadcasting until the
	// subscriber sees a message
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				svc.Broadcast(map[string]interface{}{"label": "looks good", "isGood": true})
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(message, &payload); err != nil {
		t.Fatalf("Malformed broadcast: %v", err)
	}
	if payload["label"] != "looks good" {
		t.Errorf("Expected label 'looks good', got %v", payload["label"])
	}
}

func TestBroadcastNeverBlocksWithoutClients(t *testing.T) {
	svc := NewWebsocket() // Run is never started

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			svc.Broadcast(map[string]interface{}{"i": i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
}
