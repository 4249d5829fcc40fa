package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// QueryOptions are the filters combined into a Gmail search query.
type QueryOptions struct {
	Query         string
	From          string
	To            string
	Subject       string
	Label         string
	After         string // YYYY-MM-DD
	Before        string // YYYY-MM-DD
	HasAttachment bool
}

// BuildQuery combines the filters into a single Gmail query string using
// the standard search operators.
func BuildQuery(opts QueryOptions) string {
	var parts []string

	if opts.Query != "" {
		parts = append(parts, opts.Query)
	}
	if opts.From != "" {
		parts = append(parts, "from:"+opts.From)
	}
	if opts.To != "" {
		parts = append(parts, "to:"+opts.To)
	}
	if opts.Subject != "" {
		parts = append(parts, "subject:"+opts.Subject)
	}
	if opts.Label != "" {
		parts = append(parts, "label:"+opts.Label)
	}
	if opts.After != "" {
		parts = append(parts, "after:"+opts.After)
	}
	if opts.Before != "" {
		parts = append(parts, "before:"+opts.Before)
	}
	if opts.HasAttachment {
		parts = append(parts, "has:attachment")
	}

	return strings.Join(parts, " ")
}

// Search lists messages matching the query and fetches a metadata summary
// for each. Messages that vanish between the list and the get (404) are
// skipped.
func (c *Client) Search(ctx context.Context, opts QueryOptions, limit int64, pageToken string) (*SearchResult, error) {
	query := BuildQuery(opts)

	req := c.svc.Users.Messages.List("me").Q(query).MaxResults(limit)
	if pageToken != "" {
		req = req.PageToken(pageToken)
	}

	var resp *gmailv1.ListMessagesResponse
	err := runWithRetry(c.account, func() error {
		var err error
		resp, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Emails:        []Email{},
		TotalEstimate: resp.ResultSizeEstimate,
		NextPageToken: resp.NextPageToken,
		Query:         query,
	}

	for _, msg := range resp.Messages {
		summary, err := c.messageSummary(ctx, msg.Id)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			result.Emails = append(result.Emails, *summary)
		}
	}

	return result, nil
}

// messageSummary fetches the headers needed for a result listing. Returns
// nil when the message no longer exists.
func (c *Client) messageSummary(ctx context.Context, id string) (*Email, error) {
	req := c.svc.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("From", "To", "Subject", "Date")

	var msg *gmailv1.Message
	err := runWithRetry(c.account, func() error {
		var err error
		msg, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	headers := headerMap(msg.Payload)

	return &Email{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		Subject:    subjectOrDefault(headers["subject"]),
		Sender:     headers["from"],
		Recipients: splitAddressList(headers["to"]),
		Date:       messageDate(headers["date"], msg.InternalDate),
		Snippet:    msg.Snippet,
		Labels:     msg.LabelIds,
		IsRead:     !containsLabel(msg.LabelIds, "UNREAD"),
	}, nil
}

// GetMessage fetches a message in full, with bodies and attachment
// references extracted from the MIME tree.
func (c *Client) GetMessage(ctx context.Context, id string) (*Email, error) {
	req := c.svc.Users.Messages.Get("me", id).Format("full")

	var msg *gmailv1.Message
	err := runWithRetry(c.account, func() error {
		var err error
		msg, err = req.Context(ctx).Do()
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, &MessageNotFoundError{ID: id}
		}
		return nil, err
	}

	headers := headerMap(msg.Payload)
	bodyText, bodyHTML, attachments := parseParts(msg.Payload, msg.Id)

	return &Email{
		ID:          msg.Id,
		ThreadID:    msg.ThreadId,
		Subject:     subjectOrDefault(headers["subject"]),
		Sender:      headers["from"],
		Recipients:  splitAddressList(headers["to"]),
		Cc:          splitAddressList(headers["cc"]),
		Date:        messageDate(headers["date"], msg.InternalDate),
		Snippet:     msg.Snippet,
		BodyText:    bodyText,
		BodyHTML:    bodyHTML,
		Labels:      msg.LabelIds,
		Attachments: attachments,
		IsRead:      !containsLabel(msg.LabelIds, "UNREAD"),
		MessageID:   headers["message-id"],
		References:  strings.Fields(headers["references"]),
	}, nil
}

// MarkRead removes the UNREAD label from the message.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.modifyLabels(ctx, id, nil, []string{"UNREAD"})
}

// MarkUnread adds the UNREAD label to the message.
func (c *Client) MarkUnread(ctx context.Context, id string) error {
	return c.modifyLabels(ctx, id, []string{"UNREAD"}, nil)
}

func (c *Client) modifyLabels(ctx context.Context, id string, add, remove []string) error {
	req := c.svc.Users.Messages.Modify("me", id, &gmailv1.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	})

	err := runWithRetry(c.account, func() error {
		_, err := req.Context(ctx).Do()
		return err
	})
	if err != nil && isNotFound(err) {
		return &MessageNotFoundError{ID: id}
	}
	return err
}

// parseParts walks the MIME tree collecting the first text/plain and
// text/html bodies plus attachment references. Nested multiparts are
// descended recursively; bodies found deeper never overwrite ones already
// found.
func parseParts(payload *gmailv1.MessagePart, messageID string) (bodyText, bodyHTML string, attachments []Attachment) {
	if payload == nil {
		return "", "", nil
	}

	switch {
	case payload.MimeType == "text/plain":
		bodyText = decodeBody(payload.Body)
	case payload.MimeType == "text/html":
		bodyHTML = decodeBody(payload.Body)
	case strings.Contains(payload.MimeType, "multipart"):
		for _, part := range payload.Parts {
			switch {
			case part.Filename != "":
				att := Attachment{
					MessageID: messageID,
					Filename:  part.Filename,
					MimeType:  part.MimeType,
				}
				if part.Body != nil {
					att.ID = part.Body.AttachmentId
					att.Size = part.Body.Size
				}
				attachments = append(attachments, att)
			case part.MimeType == "text/plain":
				if bodyText == "" {
					bodyText = decodeBody(part.Body)
				}
			case part.MimeType == "text/html":
				if bodyHTML == "" {
					bodyHTML = decodeBody(part.Body)
				}
			case strings.Contains(part.MimeType, "multipart"):
				subText, subHTML, subAtts := parseParts(part, messageID)
				if bodyText == "" {
					bodyText = subText
				}
				if bodyHTML == "" {
					bodyHTML = subHTML
				}
				attachments = append(attachments, subAtts...)
			}
		}
	}

	return bodyText, bodyHTML, attachments
}

// decodeBody decodes a base64url part body. The API pads inconsistently,
// so unpadded input is accepted too.
func decodeBody(body *gmailv1.MessagePartBody) string {
	if body == nil || body.Data == "" {
		return ""
	}
	if decoded, err := base64.URLEncoding.DecodeString(body.Data); err == nil {
		return string(decoded)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(body.Data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func headerMap(payload *gmailv1.MessagePart) map[string]string {
	headers := make(map[string]string)
	if payload == nil {
		return headers
	}
	for _, h := range payload.Headers {
		headers[strings.ToLower(h.Name)] = h.Value
	}
	return headers
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return "(no subject)"
	}
	return subject
}

func splitAddressList(header string) []string {
	var out []string
	for _, addr := range strings.Split(header, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// messageDate parses the Date header, falling back to the server's
// internal timestamp (milliseconds) when the header is unparseable.
func messageDate(header string, internalDate int64) time.Time {
	if t, err := parseDate(header); err == nil {
		return t
	}
	return time.Unix(internalDate/1000, 0)
}

// parseDate attempts the date formats seen in the wild.
func parseDate(s string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"2 Jan 2006 15:04:05 -0700",
		"Mon, 02 Jan 2006 15:04:05 -0700 (MST)",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
