package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToRoomSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("room-1")
	other := hub.Subscribe("room-2")

	hub.Publish(Message{ID: "m1", RoomID: "room-1", Content: "hi"})

	select {
	case msg := <-sub.C:
		assert.Equal(t, "m1", msg.ID)
	default:
		t.Fatal("expected a delivered message")
	}
	assert.Empty(t, other.C)
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("room-1")

	// Overrun the buffer; the hub must not block and the overflow is lost.
	for i := 0; i < subscriptionBuffer+5; i++ {
		hub.Publish(Message{RoomID: "room-1"})
	}
	assert.Len(t, sub.C, subscriptionBuffer)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("room-1")
	hub.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing after the last subscriber left is a no-op.
	hub.Publish(Message{RoomID: "room-1"})
}

func TestHubRoomWatch(t *testing.T) {
	hub := NewHub()
	watch := hub.WatchRooms()

	hub.PublishRoom(Room{ID: "room-1", LastMessage: "hello"})

	select {
	case room := <-watch.C:
		require.Equal(t, "room-1", room.ID)
		assert.Equal(t, "hello", room.LastMessage)
	default:
		t.Fatal("expected a room notification")
	}

	hub.UnwatchRooms(watch)
	_, open := <-watch.C
	assert.False(t, open)
}
