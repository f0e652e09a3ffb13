package devtools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-dux/dux/pkg/dux"
)

type Counter struct {
	N int
}

func (Counter) Init() Counter { return Counter{} }

func TestHubLatestAndSequence(t *testing.T) {
	hub := NewHub()

	hub.Publish(Event{Store: "A", State: json.RawMessage(`{"n":1}`), Time: time.Now()})
	hub.Publish(Event{Store: "B", State: json.RawMessage(`{"n":2}`), Time: time.Now()})
	hub.Publish(Event{Store: "A", State: json.RawMessage(`{"n":3}`), Time: time.Now()})

	latest := hub.Latest()
	if len(latest) != 2 {
		t.Fatalf("expected one latest event per store, got %d", len(latest))
	}

	byStore := map[string]Event{}
	for _, ev := range latest {
		byStore[ev.Store] = ev
	}
	if string(byStore["A"].State) != `{"n":3}` {
		t.Errorf("store A latest: got %s", byStore["A"].State)
	}
	if byStore["A"].Seq <= byStore["B"].Seq {
		t.Errorf("expected A's latest event after B's, seq %d vs %d",
			byStore["A"].Seq, byStore["B"].Seq)
	}
}

func TestWatchPublishesChanges(t *testing.T) {
	hub := NewHub()

	dux.WithScope(dux.NewScope(), func() {
		Watch[Counter](hub)
		dux.GetOrInit[Counter]().Reduce(func(c *Counter) { c.N = 5 })
	})

	latest := hub.Latest()
	if len(latest) != 1 {
		t.Fatalf("expected 1 store, got %d", len(latest))
	}

	ev := latest[0]
	if ev.Store != "Counter" {
		t.Errorf("unexpected store name %q", ev.Store)
	}
	if ev.Seq != 2 {
		t.Errorf("expected initial + change = seq 2, got %d", ev.Seq)
	}
	if ev.Hash == 0 {
		t.Error("expected a state fingerprint")
	}

	var got Counter
	if err := json.Unmarshal(ev.State, &got); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if got.N != 5 {
		t.Errorf("expected snapshot {5}, got %+v", got)
	}
}

func TestServerStoresAndHealth(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Store: "Counter", State: json.RawMessage(`{"N":1}`), Time: time.Now()})

	srv := httptest.NewServer(NewServer(hub).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/stores")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("decode stores: %v", err)
	}
	if len(events) != 1 || events[0].Store != "Counter" {
		t.Errorf("unexpected stores payload %+v", events)
	}
}

func TestEventStreamOverWebSocket(t *testing.T) {
	hub := NewHub()
	hub.Publish(Event{Store: "Counter", State: json.RawMessage(`{"N":1}`), Time: time.Now()})

	srv := httptest.NewServer(NewServer(hub).Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Backlog: the pre-connect event arrives first.
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read backlog event: %v", err)
	}
	if ev.Store != "Counter" || string(ev.State) != `{"N":1}` {
		t.Errorf("unexpected backlog event %+v", ev)
	}

	// Wait for the subscription to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(Event{Store: "Counter", State: json.RawMessage(`{"N":2}`), Time: time.Now()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read live event: %v", err)
	}
	if string(ev.State) != `{"N":2}` {
		t.Errorf("unexpected live event %+v", ev)
	}
}
