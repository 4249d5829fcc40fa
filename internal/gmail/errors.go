package gmail

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when no usable credential exists for the
// resolved account.
var ErrNotAuthenticated = errors.New("not authenticated")

// TokenExpiredError reports an access token the API rejected as expired or
// revoked. The stored credential is no longer usable.
type TokenExpiredError struct {
	Account string
}

func (e *TokenExpiredError) Error() string {
	if e.Account != "" {
		return fmt.Sprintf("token for %q expired or revoked", e.Account)
	}
	return "token expired or revoked"
}

// MessageNotFoundError reports a message ID the API does not know.
type MessageNotFoundError struct {
	ID string
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("message %q not found", e.ID)
}

// DraftNotFoundError reports a draft ID the API does not know.
type DraftNotFoundError struct {
	ID string
}

func (e *DraftNotFoundError) Error() string {
	return fmt.Sprintf("draft %q not found", e.ID)
}

// SendError reports a failed send or draft operation with the HTTP status
// that caused it.
type SendError struct {
	Message string
	Code    int
}

func (e *SendError) Error() string {
	return e.Message
}
