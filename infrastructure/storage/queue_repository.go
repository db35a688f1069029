//go:generate go run go.uber.org/mock/mockgen -source=queue_repository.go -destination=../../mocks/mock_queue_repository.go -package=mocks
package storage

import (
	"cinechat/domain/chat"
	"cinechat/observability"
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IQueueRepository interface {
	Pair(ctx context.Context, userID string, at time.Time) (chat.PairResult, error)
	Cancel(ctx context.Context, userID string) (*chat.QueueEntry, error)
	Depth() (int, error)
}

// QueueRepository keeps the match queue in badger.
// Every transaction reads and rewrites queueLockKey, so badger's conflict
// detection makes all queue transactions serializable: two requesters can
// never both enqueue, and an entry can never be taken twice.
type QueueRepository struct {
	db         *badger.DB
	log        *slog.Logger
	maxRetries uint
}

func NewQueueRepository(db *badger.DB, log *slog.Logger, maxRetries int) *QueueRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &QueueRepository{db: db, log: log, maxRetries: uint(maxRetries)}
}

// Pair either takes the oldest waiting partner and creates the match room with
// both memberships, or records the caller in the queue. A caller already
// waiting keeps its existing entry.
func (q *QueueRepository) Pair(ctx context.Context, userID string, at time.Time) (chat.PairResult, error) {
	return retryOnConflict(ctx, q, func() (chat.PairResult, error) {
		var result chat.PairResult
		err := q.db.Update(func(txn *badger.Txn) error {
			var err error
			result, err = pairTxn(txn, userID, at.UTC())
			return err
		})
		return result, err
	})
}

func pairTxn(txn *badger.Txn, userID string, at time.Time) (chat.PairResult, error) {
	if err := touchLock(txn); err != nil {
		return chat.PairResult{}, err
	}
	own, err := getEntry(txn, userID)
	if err != nil {
		return chat.PairResult{}, err
	}
	partner, err := oldestOther(txn, userID)
	if err != nil {
		return chat.PairResult{}, err
	}

	if partner == nil {
		if own != nil {
			return chat.PairResult{Waiting: own}, nil
		}
		entry := chat.QueueEntry{UserID: userID, Ticket: uuid.NewString(), EnqueuedAt: at}
		if err := setJSON(txn, queueEntryKey(userID), fromQueueEntry(entry)); err != nil {
			return chat.PairResult{}, err
		}
		if err := txn.Set(queueOrderKey(entry), []byte(userID)); err != nil {
			return chat.PairResult{}, err
		}
		return chat.PairResult{Waiting: &entry}, nil
	}

	for _, e := range []*chat.QueueEntry{partner, own} {
		if e == nil {
			continue
		}
		if err := deleteEntry(txn, *e); err != nil {
			return chat.PairResult{}, err
		}
	}
	room := chat.Room{ID: chat.RoomID(uuid.NewString()), Kind: chat.Match, CreatedAt: at}
	if err := putRoom(txn, room); err != nil {
		return chat.PairResult{}, err
	}
	for _, member := range []string{partner.UserID, userID} {
		if err := putMembership(txn, chat.Membership{RoomID: room.ID, UserID: member, JoinedAt: at}); err != nil {
			return chat.PairResult{}, err
		}
	}
	return chat.PairResult{Room: &room, Partner: partner}, nil
}

// Cancel removes the user's entry. It returns nil when there was none.
func (q *QueueRepository) Cancel(ctx context.Context, userID string) (*chat.QueueEntry, error) {
	return retryOnConflict(ctx, q, func() (*chat.QueueEntry, error) {
		var removed *chat.QueueEntry
		err := q.db.Update(func(txn *badger.Txn) error {
			if err := touchLock(txn); err != nil {
				return err
			}
			entry, err := getEntry(txn, userID)
			if err != nil || entry == nil {
				return err
			}
			removed = entry
			return deleteEntry(txn, *entry)
		})
		return removed, err
	})
}

func (q *QueueRepository) Depth() (int, error) {
	var depth int
	err := q.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(queueEntryPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			depth++
		}
		return nil
	})
	if err != nil {
		return 0, unavailable(err)
	}
	return depth, nil
}

func retryOnConflict[T any](ctx context.Context, q *QueueRepository, op func() (T, error)) (T, error) {
	res, err := backoff.Retry(ctx, func() (T, error) {
		res, err := op()
		if stderrors.Is(err, badger.ErrConflict) {
			observability.QueueConflictRetries.Inc()
			q.log.Debug("Queue transaction conflict, retrying")
			return res, err
		}
		if err != nil {
			return res, backoff.Permanent(err)
		}
		return res, nil
	}, backoff.WithBackOff(conflictBackOff()), backoff.WithMaxTries(q.maxRetries))
	if err != nil {
		var zero T
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		return zero, unavailable(err)
	}
	return res, nil
}

func conflictBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	return b
}

func touchLock(txn *badger.Txn) error {
	if _, err := txn.Get([]byte(queueLockKey)); err != nil && !stderrors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	return txn.Set([]byte(queueLockKey), []byte(uuid.NewString()))
}

func getEntry(txn *badger.Txn, userID string) (*chat.QueueEntry, error) {
	var d diskQueueEntry
	found, err := getJSON(txn, queueEntryKey(userID), &d)
	if err != nil || !found {
		return nil, err
	}
	entry := d.toQueueEntry()
	return &entry, nil
}

// oldestOther walks the order index and returns the first entry not owned by userID.
func oldestOther(txn *badger.Txn, userID string) (*chat.QueueEntry, error) {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	prefix := []byte(queueOrderPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		owner, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		if string(owner) == userID {
			continue
		}
		return getEntry(txn, string(owner))
	}
	return nil, nil
}

func deleteEntry(txn *badger.Txn, e chat.QueueEntry) error {
	if err := txn.Delete(queueEntryKey(e.UserID)); err != nil {
		return err
	}
	return txn.Delete(queueOrderKey(e))
}
