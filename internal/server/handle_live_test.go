package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func TestLiveView(t *testing.T) {
	e := newTestEnv(t)
	id, token := e.create(t, match501)

	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/ws/matches/" + id
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	var v MatchView
	if err := wsjson.Read(ctx, conn, &v); err != nil {
		t.Fatalf("read initial view: %v", err)
	}
	if v.ID != id || v.Players[0].Score != 501 {
		t.Fatalf("unexpected initial view: %+v", v)
	}

	w := e.do(t, http.MethodPost, "/api/matches/"+id+"/turns", token, TurnRequest{Darts: []string{"T20", "S20"}})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", w.Code)
	}

	v = MatchView{}
	if err := wsjson.Read(ctx, conn, &v); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if v.Players[0].Score != 421 || v.Scoreline.CurrentPlayer != 1 {
		t.Fatalf("unexpected update: %+v", v.Players[0])
	}

	// Deleting the match closes the stream.
	e.do(t, http.MethodDelete, "/api/matches/"+id, token, nil)
	_, _, err = conn.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Fatalf("expected a normal closure, got %v", err)
	}
}

func TestLiveViewNotFound(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/ws/matches/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestEventStream(t *testing.T) {
	e := newTestEnv(t)
	id, token := e.create(t, match501)

	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/matches/"+id+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	for e.deps.Broker.Subscribers(id) == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("stream never subscribed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	e.do(t, http.MethodPost, "/api/matches/"+id+"/darts", token, DartRequest{Dart: "T19"})

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if ev.Type != EventDart || ev.Dart != "T19" || ev.MatchID != id {
			t.Fatalf("unexpected event: %+v", ev)
		}
		return
	}
	t.Fatalf("stream ended: %v", scanner.Err())
}
