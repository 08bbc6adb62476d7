// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		electionID := r.URL.Query().Get("election")
		if err := hub.ServeWS(w, r, electionID, TurnoutEvent{TotalVotes: 7}); err != nil {
			t.Logf("ServeWS: %v", err)
		}
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, electionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?election=" + electionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) TurnoutEvent {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev TurnoutEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return ev
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServeWSSendsInitialEvent(t *testing.T) {
	_, srv := startHub(t)
	conn := dial(t, srv, "e1")

	ev := readEvent(t, conn)
	if ev.Type != EventTurnout || ev.ElectionID != "e1" || ev.TotalVotes != 7 {
		t.Errorf("initial event = %+v", ev)
	}
	if ev.At.IsZero() {
		t.Error("initial event has no timestamp")
	}
}

func TestPublishReachesOnlyThatElection(t *testing.T) {
	hub, srv := startHub(t)

	a := dial(t, srv, "e1")
	b := dial(t, srv, "e2")
	readEvent(t, a)
	readEvent(t, b)
	waitFor(t, "subscribers", func() bool {
		return hub.Subscribers("e1") == 1 && hub.Subscribers("e2") == 1
	})

	hub.Publish(TurnoutEvent{ElectionID: "e1", TotalVotes: 8})
	hub.Publish(TurnoutEvent{ElectionID: "e2", TotalVotes: 3})

	if ev := readEvent(t, a); ev.ElectionID != "e1" || ev.TotalVotes != 8 {
		t.Errorf("e1 subscriber got %+v", ev)
	}
	if ev := readEvent(t, b); ev.ElectionID != "e2" || ev.TotalVotes != 3 {
		t.Errorf("e2 subscriber got %+v", ev)
	}
}

func TestSubscribersTracksDisconnect(t *testing.T) {
	hub, srv := startHub(t)

	c1 := dial(t, srv, "e1")
	dial(t, srv, "e1")
	waitFor(t, "two subscribers", func() bool { return hub.Subscribers("e1") == 2 })

	c1.Close()
	waitFor(t, "one subscriber", func() bool { return hub.Subscribers("e1") == 1 })

	if n := hub.Subscribers("unknown"); n != 0 {
		t.Errorf("Subscribers(unknown) = %d, want 0", n)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()

	// No Run loop: the queue fills and Publish must still return
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(TurnoutEvent{ElectionID: "e1", TotalVotes: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestServeWSAfterStop(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	errs := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs <- hub.ServeWS(w, r, "e1", TurnoutEvent{})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err == nil {
		defer conn.Close()
	}

	select {
	case err := <-errs:
		if err != ErrHubStopped {
			t.Errorf("ServeWS() error = %v, want %v", err, ErrHubStopped)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeWS blocked on a stopped hub")
	}
}
