package sink

import (
	"cinechat/domain/event"
	"context"
	"log/slog"
)

// AuditSink is a permanent sink keeping a trace of who really wrote what,
// anonymous messages included.
type AuditSink struct {
	log *slog.Logger
}

func NewAuditSink(log *slog.Logger) AuditSink {
	return AuditSink{log: log}
}

func (a AuditSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageCommitted:
		a.log.Debug("Message committed",
			"room_id", evt.Message.RoomID,
			"message_id", evt.Message.ID,
			"author_id", evt.Message.AuthorID,
			"anonymous", evt.Message.IsAnonymous)
	}
	return nil
}
