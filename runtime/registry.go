package runtime

import (
	"cinechat/contract"
	"cinechat/domain/chat"
	"cinechat/observability"
	"sync"
)

type Set map[string]struct{}

type Registry struct {
	mu            sync.RWMutex
	subscriptions map[string]contract.EventSink // map subscription -> Sink
	roomMembers   map[chat.RoomID]Set           // map room to subscriptions
}

func NewRegistry() *Registry {
	return &Registry{
		subscriptions: make(map[string]contract.EventSink),
		roomMembers:   make(map[chat.RoomID]Set),
	}
}

// GetSinksForRoom retrieves all live subscriptions of a room, keyed by subscription id.
// A user subscribed twice to the same room (two devices) gets two entries.
// Returns nil if the room has no subscription.
func (r *Registry) GetSinksForRoom(roomID chat.RoomID) map[string]contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	activeSinks := make(map[string]contract.EventSink, len(members))
	for subscriptionID := range members {
		if sink, exists := r.subscriptions[subscriptionID]; exists {
			activeSinks[subscriptionID] = sink
		}
	}
	return activeSinks
}

// Subscribe registers a subscription's sink under its room.
// If the room does not yet exist in the registry, it is initialized on the fly.
func (r *Registry) Subscribe(subscriptionID string, roomID chat.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subscriptions[subscriptionID]; !exists {
		observability.ActiveSubscriptions.Inc()
	}
	r.subscriptions[subscriptionID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][subscriptionID] = struct{}{}
}

// Unsubscribe removes a subscription. It is safe to call more than once.
// No empty sets are left in the room map.
func (r *Registry) Unsubscribe(subscriptionID string, roomID chat.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subscriptions[subscriptionID]; exists {
		observability.ActiveSubscriptions.Dec()
	}
	delete(r.subscriptions, subscriptionID)

	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, subscriptionID)

		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}

// UnsubscribeAll empties the registry and returns the sinks it held.
func (r *Registry) UnsubscribeAll() map[string]contract.EventSink {
	r.mu.Lock()
	defer r.mu.Unlock()

	sinks := r.subscriptions
	observability.ActiveSubscriptions.Sub(float64(len(sinks)))
	r.subscriptions = make(map[string]contract.EventSink)
	r.roomMembers = make(map[chat.RoomID]Set)
	return sinks
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscriptions)
}
