package gmail

import (
	"net/mail"
	"time"

	"github.com/dustin/go-humanize"
)

// Email is a single message. Search results carry metadata only; GetMessage
// fills in bodies and attachments.
type Email struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"thread_id"`
	Subject     string       `json:"subject"`
	Sender      string       `json:"sender"`
	Recipients  []string     `json:"recipients"`
	Cc          []string     `json:"cc,omitempty"`
	Date        time.Time    `json:"date"`
	Snippet     string       `json:"snippet"`
	BodyText    string       `json:"body_text,omitempty"`
	BodyHTML    string       `json:"body_html,omitempty"`
	Labels      []string     `json:"labels"`
	Attachments []Attachment `json:"attachments,omitempty"`
	IsRead      bool         `json:"is_read"`
	MessageID   string       `json:"message_id,omitempty"`
	References  []string     `json:"references,omitempty"`
}

// SenderName returns the display-name part of the From header, or the bare
// address when no name is present.
func (e *Email) SenderName() string {
	addr, err := mail.ParseAddress(e.Sender)
	if err != nil {
		return e.Sender
	}
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

// SenderEmail returns the address part of the From header.
func (e *Email) SenderEmail() string {
	addr, err := mail.ParseAddress(e.Sender)
	if err != nil {
		return e.Sender
	}
	return addr.Address
}

// Attachment describes a file attached to a message. The data itself is
// fetched separately by attachment ID.
type Attachment struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
}

// HumanSize renders the attachment size for display.
func (a Attachment) HumanSize() string {
	return humanize.Bytes(uint64(a.Size))
}

// SearchResult is one page of search matches.
type SearchResult struct {
	Emails        []Email `json:"emails"`
	TotalEstimate int64   `json:"total_estimate"`
	NextPageToken string  `json:"next_page_token,omitempty"`
	Query         string  `json:"query"`
}

// Draft is a stored draft with its message summary. BodyText, BodyHTML and
// Attachments are filled only when the draft was fetched in full.
type Draft struct {
	ID          string       `json:"id"`
	MessageID   string       `json:"message_id"`
	ThreadID    string       `json:"thread_id"`
	To          string       `json:"to"`
	Cc          string       `json:"cc,omitempty"`
	Subject     string       `json:"subject"`
	Snippet     string       `json:"snippet"`
	BodyText    string       `json:"body_text,omitempty"`
	BodyHTML    string       `json:"body_html,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// SendAsAddress is a verified sender identity from the account's
// "Send mail as" settings.
type SendAsAddress struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	IsPrimary   bool   `json:"is_primary"`
	IsDefault   bool   `json:"is_default"`
}

// SendResult identifies a sent message.
type SendResult struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
}

// DraftResult identifies a created draft.
type DraftResult struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	ThreadID  string `json:"thread_id"`
}
