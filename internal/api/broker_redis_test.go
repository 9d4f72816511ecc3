package api

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisBrokerPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedisBroker("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisBroker: %v", err)
	}

	ch := b.Subscribe("p1")
	b.Publish("p1", PlanEvent{Type: "plan.completed", Data: map[string]any{"planId": "p1"}})

	select {
	case got := <-ch:
		if got.Type != "plan.completed" {
			t.Fatalf("got type %s, want plan.completed", got.Type)
		}
		if got.Data["planId"] != "p1" {
			t.Fatalf("bad payload: %+v", got.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe("p1", ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should close after unsubscribe")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after unsubscribe")
	}
}

func TestRedisBrokerBadURL(t *testing.T) {
	if _, err := NewRedisBroker("not-a-url"); err == nil {
		t.Fatal("want error for malformed redis url")
	}
}
