package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/middleware"
	"github.com/surafelx/portfolio26/mq"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 10), Room: RoomContent}
	require.True(t, hub.Register(client))

	hub.Broadcast(RoomContent, mq.Event{Type: "article", Action: "created", ID: "hello"})

	select {
	case got := <-client.Send:
		var ev mq.Event
		require.NoError(t, json.Unmarshal(got, &ev))
		assert.Equal(t, "hello", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.Unregister(client)
	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestRelayRoutesViewsToAnalytics(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	analytics := &Client{Send: make(chan []byte, 10), Room: RoomAnalytics}
	content := &Client{Send: make(chan []byte, 10), Room: RoomContent}
	hub.Register(analytics)
	hub.Register(content)

	bus := mq.NewBus(nil, nil)
	hub.Relay(bus)
	bus.Emit(context.Background(), mq.Event{Type: "view", Action: "project", ID: "p1"})

	select {
	case got := <-analytics.Send:
		assert.Contains(t, string(got), `"p1"`)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for analytics event")
	}
	assert.Empty(t, content.Send)
}

func TestStopUnblocksCallers(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()
	hub.Stop()
	hub.Stop()
	<-done

	assert.False(t, hub.Register(&Client{Send: make(chan []byte, 1), Room: RoomContent}))
	hub.Broadcast(RoomContent, "ignored")
}

func TestWebSocketHandler(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	auth := middleware.NewAuth([]byte("secret"), time.Hour)
	token, _, err := auth.Issue("owner")
	require.NoError(t, err)

	router := httprouter.New()
	router.GET("/api/live/:room", WebSocketHandler(hub, auth))
	srv := httptest.NewServer(router)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live/"

	_, resp, err := websocket.DefaultDialer.Dial(base+RoomContent+"?token=bad", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+"lobby?token="+token, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+RoomContent+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients(RoomContent) == 1 }, time.Second, 10*time.Millisecond)
	hub.Broadcast(RoomContent, mq.Event{Type: "note", Action: "updated", ID: "note-1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "note-1")
}
