package queue

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: TypeRegistration, Body: []byte(`{"event_id":"ev|1"}`)}
	got, err := deserialize(serialize(msg))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.Type != msg.Type || !bytes.Equal(got.Body, msg.Body) {
		t.Fatalf("round trip = %+v", got)
	}

	// untyped payloads keep the whole string as body
	got, err = deserialize("no separator here")
	if err != nil || got.Type != "" || string(got.Body) != "no separator here" {
		t.Fatalf("untyped = %+v, %v", got, err)
	}
}

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(2)
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if err := q.Publish(ctx, Message{Type: TypeRegistration, Body: []byte("a")}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-msgs:
		if msg.Type != TypeRegistration || string(msg.Body) != "a" {
			t.Fatalf("msg = %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestInMemoryPublishHonorsContext(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	if err := q.Publish(ctx, Message{Body: []byte("fills the buffer")}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	cancel()
	if err := q.Publish(ctx, Message{Body: []byte("blocked")}); err != context.Canceled {
		t.Fatalf("publish on cancelled context = %v", err)
	}
}
