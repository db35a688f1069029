package chat

import "time"

// QueueEntry is a pending match request. A user has at most one at a time.
// Ticket identifies a single enqueue.
type QueueEntry struct {
	UserID     string
	Ticket     string
	EnqueuedAt time.Time
}

// PairResult is the outcome of one atomic take-a-partner-or-enqueue operation.
// Exactly one of Room and Waiting is set.
type PairResult struct {
	Room    *Room
	Partner *QueueEntry
	Waiting *QueueEntry
}

func (p PairResult) Matched() bool {
	return p.Room != nil
}
