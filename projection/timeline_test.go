package projection

import (
	"cinechat/domain/chat"
	"cinechat/domain/identity"
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var (
	at        = time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)
	broadcast = chat.Room{ID: "general", Kind: chat.Broadcast, Name: "general"}
	private   = chat.Room{ID: "match-1", Kind: chat.Match}
)

func confirmed(id, author, content string, createdAt time.Time) chat.Message {
	return chat.Message{
		ID:        chat.MessageID(id),
		RoomID:    broadcast.ID,
		AuthorID:  author,
		Content:   content,
		CreatedAt: createdAt,
		Status:    chat.StatusSent,
	}
}

func statuses(t *Timeline) []chat.MessageStatus {
	return lo.Map(t.Messages(), func(m chat.Message, _ int) chat.MessageStatus { return m.Status })
}

func TestTimeline_Submit_Is_Optimistic(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)

	msg := timeline.Submit("hello", at)

	req.Equal(chat.StatusSending, msg.Status)
	req.Contains(string(msg.ID), provisionalPrefix)
	req.False(msg.IsAnonymous)
	req.Len(timeline.Messages(), 1)
	req.Equal(1, timeline.Count())
}

func TestTimeline_Submit_In_Match_Room_Is_Anonymous(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(private, "alice", 0)

	msg := timeline.Submit("hello", at)

	req.True(msg.IsAnonymous)
	req.Equal(identity.DisplayName("alice", private.ID), msg.DisplayName)
	req.Equal("alice", msg.AuthorID)
}

func TestTimeline_Apply_Same_Push_Twice(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	push := confirmed("m1", "bob", "hi", at)

	req.True(timeline.Apply(push))
	before := timeline.Messages()

	// The duplicate leaves the list untouched
	req.False(timeline.Apply(push))
	req.Equal(before, timeline.Messages())
}

func TestTimeline_Push_Before_Send_Returns(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)

	// Given an optimistic entry
	pending := timeline.Submit("popcorn?", at)

	// When the push overtakes the send response
	push := confirmed("m1", "alice", "popcorn?", at.Add(200*time.Millisecond))
	push.ClientID = pending.ID
	req.True(timeline.Apply(push))

	// Then a single sent entry remains, even once the response lands
	timeline.Confirm(pending.ID, push)
	messages := timeline.Messages()
	req.Len(messages, 1)
	req.Equal(chat.MessageID("m1"), messages[0].ID)
	req.Equal(chat.StatusSent, messages[0].Status)
}

func TestTimeline_Push_Matched_By_Content_Without_ClientID(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	timeline.Apply(confirmed("m0", "bob", "first", at.Add(-time.Minute)))
	pending := timeline.Submit("same words", at)

	req.True(timeline.Apply(confirmed("m1", "alice", "same words", at.Add(2*time.Second))))

	messages := timeline.Messages()
	req.Len(messages, 2)
	// Replaced in place
	req.Equal(chat.MessageID("m1"), messages[1].ID)

	// The late response finds nothing left to resolve
	timeline.Confirm(pending.ID, confirmed("m1", "alice", "same words", at.Add(2*time.Second)))
	req.Len(timeline.Messages(), 2)
}

func TestTimeline_Push_Outside_Tolerance_Is_Appended(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	timeline.Submit("same words", at)

	timeline.Apply(confirmed("m1", "alice", "same words", at.Add(DefaultTolerance+time.Second)))

	req.Equal([]chat.MessageStatus{chat.StatusSending, chat.StatusSent}, statuses(timeline))
}

func TestTimeline_Push_From_Another_Author_Is_Appended(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	timeline.Submit("same words", at)

	timeline.Apply(confirmed("m1", "bob", "same words", at))

	req.Equal([]chat.MessageStatus{chat.StatusSending, chat.StatusSent}, statuses(timeline))
}

func TestTimeline_Rapid_Identical_Sends(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	first := timeline.Submit("lol", at)
	second := timeline.Submit("lol", at.Add(time.Millisecond))

	// The second push comes back first but its ClientID names the right entry
	push := confirmed("m2", "alice", "lol", at.Add(time.Millisecond))
	push.ClientID = second.ID
	timeline.Apply(push)

	messages := timeline.Messages()
	req.Equal(first.ID, messages[0].ID)
	req.Equal(chat.StatusSending, messages[0].Status)
	req.Equal(chat.MessageID("m2"), messages[1].ID)
}

func TestTimeline_Confirm(t *testing.T) {
	t.Run("should replace in place", func(t *testing.T) {
		req := require.New(t)
		timeline := NewTimeline(broadcast, "alice", 0)
		pending := timeline.Submit("a", at)
		timeline.Submit("b", at.Add(time.Second))

		timeline.Confirm(pending.ID, confirmed("m1", "alice", "a", at))

		messages := timeline.Messages()
		req.Equal(chat.MessageID("m1"), messages[0].ID)
		req.Equal([]chat.MessageStatus{chat.StatusSent, chat.StatusSending}, statuses(timeline))
	})

	t.Run("should drop the provisional entry when the push was appended separately", func(t *testing.T) {
		req := require.New(t)
		timeline := NewTimeline(broadcast, "alice", time.Millisecond)
		pending := timeline.Submit("a", at)
		// Too late for the heuristic and no ClientID
		timeline.Apply(confirmed("m1", "alice", "a", at.Add(time.Second)))
		req.Len(timeline.Messages(), 2)

		timeline.Confirm(pending.ID, confirmed("m1", "alice", "a", at.Add(time.Second)))

		messages := timeline.Messages()
		req.Len(messages, 1)
		req.Equal(chat.MessageID("m1"), messages[0].ID)
	})

	t.Run("should append when nothing is known", func(t *testing.T) {
		req := require.New(t)
		timeline := NewTimeline(broadcast, "alice", 0)

		timeline.Confirm("temp-gone", confirmed("m1", "alice", "a", at))

		req.Len(timeline.Messages(), 1)
	})
}

func TestTimeline_Fail_Keeps_The_Entry(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	pending := timeline.Submit("lost", at)

	req.True(timeline.Fail(pending.ID))
	req.False(timeline.Fail(pending.ID))

	messages := timeline.Messages()
	req.Len(messages, 1)
	req.Equal(chat.StatusError, messages[0].Status)

	// A failed entry is never resolved by a push
	timeline.Apply(confirmed("m1", "alice", "lost", at))
	req.Equal([]chat.MessageStatus{chat.StatusError, chat.StatusSent}, statuses(timeline))
}

func TestTimeline_LoadHistory_Keeps_Local_Entries(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)

	// Given one in-flight and one failed send
	timeline.Submit("in flight", at)
	failed := timeline.Submit("failed", at.Add(time.Second))
	timeline.Fail(failed.ID)

	// When a history without either is loaded
	timeline.LoadHistory([]chat.Message{
		confirmed("h1", "bob", "old", at.Add(-2*time.Minute)),
		confirmed("h2", "carol", "older reply", at.Add(-time.Minute)),
	})

	// Then both local entries follow the history
	messages := timeline.Messages()
	req.Len(messages, 4)
	req.Equal([]chat.MessageID{"h1", "h2"}, []chat.MessageID{messages[0].ID, messages[1].ID})
	req.Equal([]chat.MessageStatus{chat.StatusSent, chat.StatusSent, chat.StatusSending, chat.StatusError}, statuses(timeline))
}

func TestTimeline_LoadHistory_Resolves_By_ClientID(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	pending := timeline.Submit("made it", at)

	stored := confirmed("m1", "alice", "made it", at)
	stored.ClientID = pending.ID
	timeline.LoadHistory([]chat.Message{stored})

	messages := timeline.Messages()
	req.Len(messages, 1)
	req.Equal(chat.MessageID("m1"), messages[0].ID)
}

func TestTimeline_LoadHistory_Keeps_Newer_Pushes(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	timeline.Apply(confirmed("stale", "bob", "trimmed away", at.Add(-time.Hour)))
	timeline.Apply(confirmed("m3", "bob", "pushed while loading", at.Add(time.Minute)))

	timeline.LoadHistory([]chat.Message{
		confirmed("m1", "bob", "a", at),
		confirmed("m2", "bob", "b", at.Add(time.Second)),
	})

	ids := lo.Map(timeline.Messages(), func(m chat.Message, _ int) chat.MessageID { return m.ID })
	req.Equal([]chat.MessageID{"m1", "m2", "m3"}, ids)
}

func TestTimeline_Snapshot_Grouping(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)
	timeline.LoadHistory([]chat.Message{
		confirmed("m1", "bob", "a", at),
		confirmed("m2", "bob", "b", at.Add(time.Minute)),
		confirmed("m3", "bob", "c", at.Add(7*time.Minute)),
		confirmed("m4", "carol", "d", at.Add(8*time.Minute)),
	})

	grouped := lo.Map(timeline.Snapshot(), func(l Line, _ int) bool { return l.Grouped })

	req.Equal([]bool{false, true, false, false}, grouped)
}

func TestTimeline_Reveal_Gate(t *testing.T) {
	fill := func(room chat.Room, n int) *Timeline {
		timeline := NewTimeline(room, "alice", 0)
		history := make([]chat.Message, 0, n)
		for i := 0; i < n; i++ {
			history = append(history, confirmed(fmt.Sprintf("m%d", i), "bob", "x", at.Add(time.Duration(i)*time.Second)))
		}
		timeline.LoadHistory(history)
		return timeline
	}

	t.Run("49 messages", func(t *testing.T) {
		require.False(t, fill(private, 49).CanReveal())
	})
	t.Run("51 messages", func(t *testing.T) {
		timeline := fill(private, 51)
		require.Equal(t, 51, timeline.Count())
		require.True(t, timeline.CanReveal())
	})
	t.Run("broadcast room", func(t *testing.T) {
		require.False(t, fill(broadcast, 51).CanReveal())
	})
	t.Run("pending and failed sends count", func(t *testing.T) {
		timeline := fill(private, 50)
		require.False(t, timeline.CanReveal())
		pending := timeline.Submit("one more", at.Add(time.Hour))
		require.Equal(t, 51, timeline.Count())
		require.True(t, timeline.CanReveal())
		timeline.Fail(pending.ID)
		require.True(t, timeline.CanReveal())
	})
}

func TestTimeline_Changes_Coalesce(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline(broadcast, "alice", 0)

	timeline.Submit("a", at)
	timeline.Submit("b", at)

	select {
	case <-timeline.Changes():
	default:
		req.Fail("expected a change notification")
	}
	select {
	case <-timeline.Changes():
		req.Fail("notifications should coalesce")
	default:
	}
}
