package e2e

import (
	"cinechat/domain/chat"
	"cinechat/errors"
	"cinechat/infrastructure/grpc/client"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type testChatSuite struct {
	BaseGrpcSuite
}

func TestChatSuite(t *testing.T) {
	suite.Run(t, &testChatSuite{})
}

func (s *testChatSuite) TestBroadcastRoundTrip() {
	alice := "alice-" + uuid.NewString()
	content := "e2e " + uuid.NewString()

	s.WithUser("Broadcast send", alice, func(ctx context.Context, c *client.ChatClient) {
		rooms, err := c.ListBroadcastRooms(ctx)
		s.Require().NoError(err)
		s.Require().NotEmpty(rooms, "master should provision at least one broadcast room")
		room := rooms[0]

		pushes, err := c.Subscribe(ctx, room.ID)
		s.Require().NoError(err)

		// Given a subscriber, when a message is sent
		clientID := chat.MessageID("temp-" + uuid.NewString())
		sent, err := c.Send(ctx, chat.SendMessageCommand{RoomID: room.ID, Content: content, ClientID: clientID})
		s.Require().NoError(err)
		s.Equal(alice, sent.AuthorID)

		// Then the push echoes the client id and history holds the message
		s.Eventually(func() bool {
			select {
			case m := <-pushes:
				return m.ID == sent.ID && m.ClientID == clientID
			default:
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)

		history, err := c.History(ctx, room.ID)
		s.Require().NoError(err)
		s.True(lo.ContainsBy(history, func(m chat.Message) bool { return m.ID == sent.ID }))
	})
}

func (s *testChatSuite) TestMatchCreatesPrivateRoom() {
	bob := "bob-" + uuid.NewString()
	carol := "carol-" + uuid.NewString()
	rooms := make([]chat.RoomID, 2)

	// Given two users waiting at the same time
	var g errgroup.Group
	for i, user := range []string{bob, carol} {
		g.Go(func() error {
			var err error
			s.WithUser("Request match", user, func(ctx context.Context, c *client.ChatClient) {
				rooms[i], err = c.RequestMatch(ctx)
			})
			return err
		})
	}
	s.Require().NoError(g.Wait())

	// Then both land in the same room, which an outsider cannot read
	s.Equal(rooms[0], rooms[1])
	s.WithUser("Outsider", "mallory-"+uuid.NewString(), func(ctx context.Context, c *client.ChatClient) {
		_, err := c.History(ctx, rooms[0])
		s.ErrorIs(err, errors.ErrNotMember)
	})
}
