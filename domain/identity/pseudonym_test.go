package identity

import (
	"cinechat/domain/chat"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPseudonym_IsStable(t *testing.T) {
	req := require.New(t)
	userID := uuid.NewString()
	roomID := chat.RoomID(uuid.NewString())

	first := Pseudonym(userID, roomID)
	for i := 0; i < 100; i++ {
		req.Equal(first, Pseudonym(userID, roomID))
	}
	req.Contains(Animals, first)
}

func TestPseudonym_KnownValue(t *testing.T) {
	// "ab": 97, then 98 + (97<<5) - 97 = 3105, 3105 % 10 = 5
	require.Equal(t, "Owl", Pseudonym("a", "b"))
}

func TestPseudonym_DependsOnRoom(t *testing.T) {
	req := require.New(t)
	userID := uuid.NewString()

	// Given the same user in many rooms
	names := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		names[Pseudonym(userID, chat.RoomID(uuid.NewString()))] = struct{}{}
	}

	// Then more than one name is handed out
	req.Greater(len(names), 1)
}

func TestPseudonym_LongInputs(t *testing.T) {
	// Long identifiers push the hash far outside the int32 range
	userID := "user-with-a-rather-long-identifier-" + uuid.NewString()
	roomID := chat.RoomID("room-with-a-rather-long-identifier-" + uuid.NewString())
	require.Contains(t, Animals, Pseudonym(userID, roomID))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Anonymous Owl", DisplayName("a", "b"))
}
