package gmail

import (
	"context"
	"errors"
	"net/http"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// Send delivers a composed message. API rejections come back as SendError
// with a message matched to the status; an expired token passes through as
// TokenExpiredError.
func (c *Client) Send(ctx context.Context, msg *gmailv1.Message) (*SendResult, error) {
	req := c.svc.Users.Messages.Send("me", msg)

	var sent *gmailv1.Message
	err := runWithRetry(c.account, func() error {
		var err error
		sent, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		var expired *TokenExpiredError
		if errors.As(err, &expired) {
			return nil, err
		}
		return nil, sendErrorFor(err, map[int]string{
			http.StatusBadRequest:      "invalid email address or message format",
			http.StatusForbidden:       "permission denied to send",
			http.StatusTooManyRequests: "too many requests - please wait a moment",
		})
	}

	return &SendResult{ID: sent.Id, ThreadID: sent.ThreadId}, nil
}

// sendErrorFor wraps an API error as SendError, substituting a friendlier
// message for the well-known statuses.
func sendErrorFor(err error, messages map[int]string) error {
	code := statusCode(err)
	msg := err.Error()
	if m, ok := messages[code]; ok {
		msg = m
	}
	return &SendError{Message: msg, Code: code}
}
