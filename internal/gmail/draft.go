package gmail

import (
	"context"
	"errors"
	"net/http"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// CreateDraft stores a composed message as a draft.
func (c *Client) CreateDraft(ctx context.Context, msg *gmailv1.Message) (*DraftResult, error) {
	req := c.svc.Users.Drafts.Create("me", &gmailv1.Draft{Message: msg})

	var draft *gmailv1.Draft
	err := runWithRetry(c.account, func() error {
		var err error
		draft, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		var expired *TokenExpiredError
		if errors.As(err, &expired) {
			return nil, err
		}
		return nil, sendErrorFor(err, map[int]string{
			http.StatusBadRequest:      "invalid message format",
			http.StatusForbidden:       "permission denied to create drafts",
			http.StatusTooManyRequests: "too many requests - please wait a moment",
		})
	}

	result := &DraftResult{ID: draft.Id}
	if draft.Message != nil {
		result.MessageID = draft.Message.Id
		result.ThreadID = draft.Message.ThreadId
	}
	return result, nil
}

// ListDrafts returns up to max drafts with their message summaries. The
// summaries require one metadata fetch per draft.
func (c *Client) ListDrafts(ctx context.Context, max int64) ([]Draft, error) {
	req := c.svc.Users.Drafts.List("me").MaxResults(max)

	var resp *gmailv1.ListDraftsResponse
	err := runWithRetry(c.account, func() error {
		var err error
		resp, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	drafts := make([]Draft, 0, len(resp.Drafts))
	for _, d := range resp.Drafts {
		draft, err := c.GetDraft(ctx, d.Id, false)
		if err != nil {
			var notFound *DraftNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, nil
}

// GetDraft fetches a draft by ID. With includeBody the full message is
// retrieved and its bodies and attachments extracted.
func (c *Client) GetDraft(ctx context.Context, id string, includeBody bool) (*Draft, error) {
	format := "metadata"
	if includeBody {
		format = "full"
	}
	req := c.svc.Users.Drafts.Get("me", id).Format(format)

	var resp *gmailv1.Draft
	err := runWithRetry(c.account, func() error {
		var err error
		resp, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &DraftNotFoundError{ID: id}
		}
		return nil, err
	}

	draft := &Draft{ID: resp.Id}
	if resp.Message == nil {
		return draft, nil
	}

	headers := headerMap(resp.Message.Payload)
	draft.MessageID = resp.Message.Id
	draft.ThreadID = resp.Message.ThreadId
	draft.To = headers["to"]
	draft.Cc = headers["cc"]
	draft.Subject = subjectOrDefault(headers["subject"])
	draft.Snippet = resp.Message.Snippet

	if includeBody {
		draft.BodyText, draft.BodyHTML, draft.Attachments = parseParts(resp.Message.Payload, resp.Message.Id)
	}
	return draft, nil
}

// SendDraft sends an existing draft.
func (c *Client) SendDraft(ctx context.Context, id string) (*SendResult, error) {
	req := c.svc.Users.Drafts.Send("me", &gmailv1.Draft{Id: id})

	var sent *gmailv1.Message
	err := runWithRetry(c.account, func() error {
		var err error
		sent, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &DraftNotFoundError{ID: id}
		}
		var expired *TokenExpiredError
		if errors.As(err, &expired) {
			return nil, err
		}
		return nil, sendErrorFor(err, map[int]string{
			http.StatusBadRequest: "invalid draft - possibly missing recipients",
			http.StatusForbidden:  "permission denied to send",
		})
	}

	return &SendResult{ID: sent.Id, ThreadID: sent.ThreadId}, nil
}

// DeleteDraft removes a draft permanently.
func (c *Client) DeleteDraft(ctx context.Context, id string) error {
	req := c.svc.Users.Drafts.Delete("me", id)

	err := runWithRetry(c.account, func() error {
		return req.Context(ctx).Do()
	})
	if err != nil && isNotFound(err) {
		return &DraftNotFoundError{ID: id}
	}
	return err
}
