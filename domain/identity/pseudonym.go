// Package identity derives anonymous names for match rooms.
// Names are computed, never stored: the same (user, room) pair always yields
// the same name, across reconnects and without any session state.
package identity

import (
	"cinechat/domain/chat"
	"unicode/utf16"
)

var Animals = []string{"Panda", "Tiger", "Fox", "Eagle", "Shark", "Owl", "Wolf", "Bear", "Lion", "Hawk"}

const anonymousPrefix = "Anonymous "

// Pseudonym indexes Animals with a rolling hash over the UTF-16 code units of
// userID followed by roomID. The shift is done on 32 bits while the
// subtraction is not, so hash may leave the int32 range between iterations.
// Two pairs may share a name; correctness never relies on it.
func Pseudonym(userID string, roomID chat.RoomID) string {
	var hash int64
	for _, c := range utf16.Encode([]rune(userID + string(roomID))) {
		hash = int64(c) + (int64(int32(hash)<<5) - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return Animals[hash%int64(len(Animals))]
}

// DisplayName is the label shown instead of the author in a match room.
func DisplayName(userID string, roomID chat.RoomID) string {
	return anonymousPrefix + Pseudonym(userID, roomID)
}
