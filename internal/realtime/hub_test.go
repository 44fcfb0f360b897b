package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)
	tipID := uuid.New()

	ch, cancel := hub.Subscribe(ScopeTip(tipID))
	defer cancel()

	hub.Publish(context.Background(), ScopeTip(tipID), Change{
		Table: "comments", Event: "insert", TipID: tipID.String(),
	})

	select {
	case change := <-ch:
		if change.Table != "comments" || change.Event != "insert" {
			t.Errorf("got change %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}
}

func TestScopesAreIsolated(t *testing.T) {
	hub := NewHub(nil)

	other, cancel := hub.Subscribe(ScopeTip(uuid.New()))
	defer cancel()

	hub.Publish(context.Background(), ScopeTips, Change{Table: "tips", Event: "insert"})

	select {
	case change := <-other:
		t.Errorf("change %+v leaked across scopes", change)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub(nil)

	ch, cancel := hub.Subscribe(ScopeTips)
	cancel()

	hub.Publish(context.Background(), ScopeTips, Change{Table: "tips", Event: "update"})

	select {
	case change := <-ch:
		t.Errorf("change %+v delivered after cancel", change)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)

	_, cancel := hub.Subscribe(ScopeTips)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More publishes than the channel buffers; extra events are dropped.
		for i := 0; i < 100; i++ {
			hub.Publish(context.Background(), ScopeTips, Change{Table: "tips", Event: "update"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}
