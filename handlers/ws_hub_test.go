package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWSHubWelcomesThenBroadcasts(t *testing.T) {
	hub := NewWSHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var welcome map[string]string
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "WELCOME", welcome["type"])

	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Push([]byte(`{"type":"ADD_DELIVERY","count":1}`))

	var ev map[string]interface{}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "ADD_DELIVERY", ev["type"])
}

func TestWSHubConcurrentConnectAndPush(t *testing.T) {
	// Clients joining mid-broadcast must still see the welcome frame
	// first; pushes only reach a connection once it is registered.
	hub := NewWSHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	stop := make(chan struct{})
	var pusher sync.WaitGroup
	pusher.Add(1)
	go func() {
		defer pusher.Done()
		payload, _ := json.Marshal(map[string]string{"type": "UPDATE_DELIVERY"})
		for {
			select {
			case <-stop:
				return
			default:
				hub.Push(payload)
			}
		}
	}()

	var clients sync.WaitGroup
	for i := 0; i < 20; i++ {
		clients.Add(1)
		go func() {
			defer clients.Done()
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Error(err)
				return
			}
			defer conn.Close()

			var first map[string]string
			if err := conn.ReadJSON(&first); err != nil {
				t.Error(err)
				return
			}
			if first["type"] != "WELCOME" {
				t.Errorf("first frame was %q, want WELCOME", first["type"])
			}
		}()
	}
	clients.Wait()
	close(stop)
	pusher.Wait()
}
