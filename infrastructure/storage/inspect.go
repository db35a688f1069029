package storage

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Record kinds reported by DescribeRecord.
const (
	KindMessage = "MESSAGE"
	KindRoom    = "ROOM"
	KindMember  = "MEMBER"
	KindQueue   = "QUEUE"
	KindIndex   = "INDEX"
	KindLock    = "LOCK"
	KindRaw     = "RAW"
)

// DescribeRecord renders a raw badger record for the inspection tools.
func DescribeRecord(key string, val []byte) (kind, detail string) {
	switch {
	case key == queueLockKey:
		return KindLock, "-"
	case strings.HasPrefix(key, msgPrefix):
		var m diskMessage
		if err := json.Unmarshal(val, &m); err != nil {
			return KindMessage, "Error: unmarshal failed"
		}
		author := m.AuthorID
		if m.IsAnonymous {
			author = fmt.Sprintf("%s (%s)", m.DisplayName, m.AuthorID)
		}
		return KindMessage, author + ": " + m.Content
	case strings.HasPrefix(key, roomPrefix):
		var r diskRoom
		if err := json.Unmarshal(val, &r); err != nil {
			return KindRoom, "Error: unmarshal failed"
		}
		return KindRoom, strings.TrimSpace(r.Kind + " " + r.Name)
	case strings.HasPrefix(key, roomMemberPrefix):
		var m diskMembership
		if err := json.Unmarshal(val, &m); err != nil {
			return KindMember, "Error: unmarshal failed"
		}
		return KindMember, m.UserID
	case strings.HasPrefix(key, queueEntryPrefix):
		var e diskQueueEntry
		if err := json.Unmarshal(val, &e); err != nil {
			return KindQueue, "Error: unmarshal failed"
		}
		return KindQueue, e.UserID + " ticket=" + e.Ticket
	case strings.HasPrefix(key, roomKindPrefix),
		strings.HasPrefix(key, roomNamePrefix),
		strings.HasPrefix(key, memberPrefix),
		strings.HasPrefix(key, queueOrderPrefix):
		return KindIndex, "-> " + string(val)
	}
	return KindRaw, fmt.Sprintf("Size: %d bytes", len(val))
}
