package errors

import "fmt"

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrUnavailable          = fmt.Errorf("store unavailable")
	ErrSendFailed           = fmt.Errorf("message send failed")
	ErrNotFound             = fmt.Errorf("room not found")
	ErrNotMember            = fmt.Errorf("user is not a member of the room")
	ErrMatchCancelled       = fmt.Errorf("match request cancelled")
	ErrInvalidCommand       = fmt.Errorf("invalid command")
	ErrSubscriptionOverflow = fmt.Errorf("subscription buffer overflow")
	ErrInvalidToken         = fmt.Errorf("invalid or expired token")
)
