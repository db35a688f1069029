package projection

import (
	"cinechat/domain/chat"
	"cinechat/errors"
	"cinechat/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSession(t *testing.T, room chat.Room) (*RoomSession, *mocks.MockMessageChannel) {
	ctrl := gomock.NewController(t)
	channel := mocks.NewMockMessageChannel(ctrl)
	session := NewRoomSession(slog.Default(), channel, room, "alice")
	session.backOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return session, channel
}

type running struct {
	done chan struct{}
	err  error
}

// runSession starts the loop and stops it when the test ends.
func runSession(t *testing.T, session *RoomSession) *running {
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{done: make(chan struct{})}
	go func() {
		r.err = session.Run(ctx)
		close(r.done)
	}()
	t.Cleanup(func() {
		cancel()
		<-r.done
	})
	return r
}

func TestRoomSession_Push_Resolves_Send_Before_It_Returns(t *testing.T) {
	req := require.New(t)
	session, channel := newTestSession(t, broadcast)
	ctx := context.Background()
	pushes := make(chan chat.Message, 1)
	ready := make(chan struct{})
	release := make(chan struct{})

	channel.EXPECT().Subscribe(gomock.Any(), broadcast.ID).Return((<-chan chat.Message)(pushes), nil).Times(1)
	channel.EXPECT().History(gomock.Any(), broadcast.ID).
		DoAndReturn(func(context.Context, chat.RoomID) ([]chat.Message, error) {
			close(ready)
			return []chat.Message{}, nil
		}).Times(1)
	var stored chat.Message
	channel.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
			<-release
			return stored, nil
		}).Times(1)

	runSession(t, session)
	<-ready

	// Given an optimistic entry, visible as soon as Send returns
	pending, err := session.Send(ctx, "first!")
	req.NoError(err)
	req.Equal([]chat.MessageStatus{chat.StatusSending}, statuses(session.Timeline()))

	// When the push arrives while the send is still in flight
	stored = confirmed("m1", "alice", "first!", pending.CreatedAt)
	stored.ClientID = pending.ID
	pushes <- stored
	req.Eventually(func() bool {
		messages := session.Timeline().Messages()
		return len(messages) == 1 && messages[0].ID == "m1"
	}, time.Second, 5*time.Millisecond)

	// Then the late send response does not duplicate it
	close(release)
	req.Never(func() bool {
		return len(session.Timeline().Messages()) != 1
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestRoomSession_Send_Carries_Identity(t *testing.T) {
	req := require.New(t)
	session, channel := newTestSession(t, private)
	ready := make(chan struct{})
	sent := make(chan chat.SendMessageCommand, 1)

	channel.EXPECT().Subscribe(gomock.Any(), private.ID).Return(make(<-chan chat.Message), nil).Times(1)
	channel.EXPECT().History(gomock.Any(), private.ID).
		DoAndReturn(func(context.Context, chat.RoomID) ([]chat.Message, error) {
			close(ready)
			return nil, nil
		}).Times(1)
	channel.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd chat.SendMessageCommand) (chat.Message, error) {
			sent <- cmd
			return chat.Message{ID: "m1", RoomID: cmd.RoomID, AuthorID: cmd.AuthorID, Content: cmd.Content}, nil
		}).Times(1)

	runSession(t, session)
	<-ready
	pending, err := session.Send(context.Background(), "who are you?")
	req.NoError(err)

	cmd := <-sent
	req.Equal("alice", cmd.AuthorID)
	req.Equal(pending.ID, cmd.ClientID)
	req.True(cmd.IsAnonymous)
	req.Equal(pending.DisplayName, cmd.DisplayName)
	req.Eventually(func() bool {
		messages := session.Timeline().Messages()
		return len(messages) == 1 && messages[0].Status == chat.StatusSent
	}, time.Second, 5*time.Millisecond)
}

func TestRoomSession_Failed_Send_Stays_Visible(t *testing.T) {
	req := require.New(t)
	session, channel := newTestSession(t, broadcast)
	ready := make(chan struct{})

	channel.EXPECT().Subscribe(gomock.Any(), broadcast.ID).Return(make(<-chan chat.Message), nil).Times(1)
	channel.EXPECT().History(gomock.Any(), broadcast.ID).
		DoAndReturn(func(context.Context, chat.RoomID) ([]chat.Message, error) {
			close(ready)
			return nil, nil
		}).Times(1)
	channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(chat.Message{}, errors.ErrSendFailed).Times(1)

	runSession(t, session)
	<-ready
	_, err := session.Send(context.Background(), "doomed")
	req.NoError(err)

	req.Eventually(func() bool {
		messages := session.Timeline().Messages()
		return len(messages) == 1 && messages[0].Status == chat.StatusError
	}, time.Second, 5*time.Millisecond)
}

func TestRoomSession_Rejects_Blank_Content(t *testing.T) {
	req := require.New(t)
	session, _ := newTestSession(t, broadcast)

	_, err := session.Send(context.Background(), "  \n ")

	req.ErrorIs(err, errors.ErrInvalidCommand)
	req.Empty(session.Timeline().Messages())
}

func TestRoomSession_Resubscribes_And_Reloads(t *testing.T) {
	req := require.New(t)
	session, channel := newTestSession(t, broadcast)
	first := make(chan chat.Message)
	second := make(chan chat.Message)
	reloaded := make(chan struct{})

	gomock.InOrder(
		channel.EXPECT().Subscribe(gomock.Any(), broadcast.ID).Return((<-chan chat.Message)(first), nil),
		channel.EXPECT().History(gomock.Any(), broadcast.ID).
			Return([]chat.Message{confirmed("m1", "bob", "a", at)}, nil),
		// The first reconnect attempt fails like a flaky network would
		channel.EXPECT().Subscribe(gomock.Any(), broadcast.ID).Return(nil, errors.ErrUnavailable),
		channel.EXPECT().Subscribe(gomock.Any(), broadcast.ID).Return((<-chan chat.Message)(second), nil),
		channel.EXPECT().History(gomock.Any(), broadcast.ID).
			DoAndReturn(func(context.Context, chat.RoomID) ([]chat.Message, error) {
				defer close(reloaded)
				return []chat.Message{
					confirmed("m1", "bob", "a", at),
					confirmed("m2", "bob", "missed while away", at.Add(time.Second)),
				}, nil
			}),
	)

	runSession(t, session)

	// When the subscription drops
	close(first)

	// Then the session comes back with the messages it missed
	<-reloaded
	req.Eventually(func() bool {
		return len(session.Timeline().Messages()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRoomSession_Stops_When_Not_A_Member(t *testing.T) {
	req := require.New(t)
	session, channel := newTestSession(t, private)

	channel.EXPECT().Subscribe(gomock.Any(), private.ID).Return(make(<-chan chat.Message), nil).Times(1)
	channel.EXPECT().History(gomock.Any(), private.ID).Return(nil, errors.ErrNotMember).Times(1)

	r := runSession(t, session)

	select {
	case <-r.done:
		req.ErrorIs(r.err, errors.ErrNotMember)
	case <-time.After(time.Second):
		req.Fail("session should have stopped")
	}
}

func TestRoomSession_Send_Results_After_Stop_Do_Not_Block(t *testing.T) {
	req := require.New(t)
	session, channel := newTestSession(t, private)

	channel.EXPECT().Subscribe(gomock.Any(), private.ID).Return(make(<-chan chat.Message), nil).Times(1)
	channel.EXPECT().History(gomock.Any(), private.ID).Return(nil, errors.ErrNotMember).Times(1)
	channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(chat.Message{}, errors.ErrNotMember).AnyTimes()

	// Given a session that stopped for good
	r := runSession(t, session)
	<-r.done

	// When more sends complete than the loop could ever buffer
	for i := 0; i < cap(session.events)+4; i++ {
		_, err := session.Send(context.Background(), "still there?")
		req.NoError(err)
	}
	finished := make(chan struct{})
	go func() {
		session.enqueue(context.Background(), reloadRequest{})
		close(finished)
	}()

	// Then enqueuing returns instead of waiting on a loop that is gone
	select {
	case <-finished:
	case <-time.After(time.Second):
		req.Fail("enqueue blocked after Run returned")
	}
}
