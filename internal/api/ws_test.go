package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestPlansWSHandler(t *testing.T) {
	s := newTestServer(t)
	mux := http.NewServeMux()
	s.Routes(mux)
	srv := httptest.NewServer(s.Middleware(mux))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/plans-ws?planId=p1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	broker := s.Broker.(*Broker)
	deadline := time.Now().Add(time.Second)
	for {
		broker.mu.Lock()
		n := len(broker.subs["p1"])
		broker.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("ws handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	broker.Publish("p1", PlanEvent{Type: "plan.completed", Data: map[string]any{"planId": "p1"}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt PlanEvent
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read: %v", err)
	}
	if evt.Type != "plan.completed" || evt.Data["planId"] != "p1" {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestPlansWSHandlerMissingPlanID(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.PlansWSHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/plans-ws", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
}
