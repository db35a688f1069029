// Package projection builds the client side view of a room.
// It overlays history, live pushes and optimistic sends into one ordered list.
// Does not talk to the network or render anything itself.
package projection

import (
	"cinechat/domain/chat"
	"cinechat/domain/identity"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultTolerance bounds the clock gap between an optimistic entry and the
// push that may resolve it when no ClientID ties them together.
const DefaultTolerance = 30 * time.Second

const provisionalPrefix = "temp-"

// Line is a message as displayed. Grouped lines omit the author header.
type Line struct {
	Message chat.Message
	Grouped bool
}

// Timeline is the reconciled message list of one room for one user.
// Every method is atomic with respect to the others.
type Timeline struct {
	mu        sync.Mutex
	room      chat.Room
	selfID    string
	tolerance time.Duration
	messages  []chat.Message
	changes   chan struct{}
}

func NewTimeline(room chat.Room, selfID string, tolerance time.Duration) *Timeline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Timeline{
		room:      room,
		selfID:    selfID,
		tolerance: tolerance,
		changes:   make(chan struct{}, 1),
	}
}

func (t *Timeline) Room() chat.Room {
	return t.room
}

// Changes fires after any mutation. Notifications coalesce: a reader that
// lags behind sees one signal and should take a fresh Snapshot.
func (t *Timeline) Changes() <-chan struct{} {
	return t.changes
}

// Submit appends an optimistic entry and returns it. Match rooms are always anonymous.
func (t *Timeline) Submit(content string, now time.Time) chat.Message {
	msg := chat.Message{
		ID:        chat.MessageID(provisionalPrefix + uuid.NewString()),
		RoomID:    t.room.ID,
		AuthorID:  t.selfID,
		Content:   content,
		CreatedAt: now,
		Status:    chat.StatusSending,
	}
	if t.room.IsMatch() {
		msg.IsAnonymous = true
		msg.DisplayName = identity.DisplayName(t.selfID, t.room.ID)
	}

	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	t.notify()
	return msg
}

// Confirm resolves an optimistic entry with the server's answer to its send.
// When the push already delivered the message, a lingering provisional entry is dropped.
func (t *Timeline) Confirm(provisionalID chat.MessageID, confirmed chat.Message) {
	confirmed.Status = chat.StatusSent

	t.mu.Lock()
	pending := t.indexOf(provisionalID)
	switch {
	case t.indexOf(confirmed.ID) >= 0:
		if pending < 0 {
			t.mu.Unlock()
			return
		}
		t.messages = append(t.messages[:pending], t.messages[pending+1:]...)
	case pending >= 0:
		t.messages[pending] = confirmed
	default:
		t.messages = append(t.messages, confirmed)
	}
	t.mu.Unlock()
	t.notify()
}

// Fail marks an optimistic entry as failed. Failed entries stay on screen.
func (t *Timeline) Fail(provisionalID chat.MessageID) bool {
	t.mu.Lock()
	i := t.indexOf(provisionalID)
	if i < 0 || t.messages[i].Status != chat.StatusSending {
		t.mu.Unlock()
		return false
	}
	t.messages[i].Status = chat.StatusError
	t.mu.Unlock()
	t.notify()
	return true
}

// Apply merges a pushed message and reports whether the list changed.
// A known id is a duplicate. Otherwise the push resolves the pending entry
// named by its ClientID, or failing that the first pending entry of the same
// author with identical content inside the tolerance window.
func (t *Timeline) Apply(push chat.Message) bool {
	push.Status = chat.StatusSent

	t.mu.Lock()
	if t.indexOf(push.ID) >= 0 {
		t.mu.Unlock()
		return false
	}
	if i := t.pendingFor(push); i >= 0 {
		t.messages[i] = push
	} else {
		t.messages = append(t.messages, push)
	}
	t.mu.Unlock()
	t.notify()
	return true
}

// LoadHistory replaces the confirmed part of the list with history.
// Local entries missing from it survive in their current order, as do
// confirmed ones newer than the last history message.
func (t *Timeline) LoadHistory(history []chat.Message) {
	known := make(map[chat.MessageID]struct{}, 2*len(history))
	merged := make([]chat.Message, 0, len(history)+len(t.messages))
	var last time.Time
	for _, m := range history {
		m.Status = chat.StatusSent
		known[m.ID] = struct{}{}
		if m.ClientID != "" {
			known[m.ClientID] = struct{}{}
		}
		if m.CreatedAt.After(last) {
			last = m.CreatedAt
		}
		merged = append(merged, m)
	}

	t.mu.Lock()
	for _, m := range t.messages {
		if _, ok := known[m.ID]; ok {
			continue
		}
		if m.IsLocal() || m.CreatedAt.After(last) {
			merged = append(merged, m)
		}
	}
	t.messages = merged
	t.mu.Unlock()
	t.notify()
}

// Messages returns a copy of the list.
func (t *Timeline) Messages() []chat.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]chat.Message(nil), t.messages...)
}

func (t *Timeline) Snapshot() []Line {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Map(t.messages, func(m chat.Message, i int) Line {
		return Line{Message: m, Grouped: i > 0 && chat.IsGrouped(t.messages[i-1], m)}
	})
}

// Count is the number of entries shown, in-flight and failed sends included.
func (t *Timeline) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

func (t *Timeline) CanReveal() bool {
	return chat.CanReveal(t.room, t.Count())
}

func (t *Timeline) indexOf(id chat.MessageID) int {
	if id == "" {
		return -1
	}
	_, i, _ := lo.FindIndexOf(t.messages, func(m chat.Message) bool { return m.ID == id })
	return i
}

func (t *Timeline) pendingFor(push chat.Message) int {
	if push.ClientID != "" {
		if i := t.indexOf(push.ClientID); i >= 0 && t.messages[i].IsPending() {
			return i
		}
	}
	_, i, _ := lo.FindIndexOf(t.messages, func(m chat.Message) bool {
		return m.IsPending() &&
			m.AuthorID == push.AuthorID &&
			m.Content == push.Content &&
			(m.CreatedAt.Sub(push.CreatedAt)).Abs() <= t.tolerance
	})
	return i
}

func (t *Timeline) notify() {
	select {
	case t.changes <- struct{}{}:
	default:
	}
}
