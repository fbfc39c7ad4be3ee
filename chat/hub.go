package chat

import "sync"

const subscriptionBuffer = 16

// Subscription receives the messages inserted into one room. Delivery is
// at-most-once: a subscriber that stops draining its channel loses pushes
// and must refetch history to resynchronize.
type Subscription struct {
	C      chan Message
	roomID string
}

// RoomWatch receives every room created or touched, for the admin console's
// room list.
type RoomWatch struct {
	C chan Room
}

// Hub is the in-process live feed. It fans newly inserted rows out to open
// sessions; it holds no history and never blocks a publisher.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Subscription]struct{}
	watches map[*RoomWatch]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Subscription]struct{}),
		watches: make(map[*RoomWatch]struct{}),
	}
}

func (h *Hub) Subscribe(roomID string) *Subscription {
	sub := &Subscription{C: make(chan Message, subscriptionBuffer), roomID: roomID}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Subscription]struct{})
	}
	h.rooms[roomID][sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.rooms[sub.roomID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, sub.roomID)
		}
	}
	close(sub.C)
}

func (h *Hub) WatchRooms() *RoomWatch {
	w := &RoomWatch{C: make(chan Room, subscriptionBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watches[w] = struct{}{}
	return w
}

func (h *Hub) UnwatchRooms(w *RoomWatch) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watches, w)
	close(w.C)
}

// Publish pushes a message to every subscriber of its room. Slow consumers
// are skipped, not waited on.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[msg.RoomID] {
		select {
		case sub.C <- msg:
		default:
		}
	}
}

// PublishRoom notifies room-list watchers of a new or touched room.
func (h *Hub) PublishRoom(room Room) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for w := range h.watches {
		select {
		case w.C <- room:
		default:
		}
	}
}
