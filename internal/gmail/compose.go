package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/jhillyerd/enmime/v2"
	gmailv1 "google.golang.org/api/gmail/v1"
)

// ComposeOptions describe an outgoing message. Text is required; a
// non-empty HTML becomes the multipart/alternative rich variant. Setting
// InReplyTo (with ThreadID) turns the message into a threaded reply.
type ComposeOptions struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Text        string
	HTML        string
	Attachments []string

	ThreadID   string
	InReplyTo  string   // Message-ID being replied to
	References []string // prior Message-IDs in the thread
}

// ComposeMessage builds an RFC 5322 message and encodes it for the API.
// Replies carry In-Reply-To and References headers plus the thread ID so
// Gmail files them into the existing conversation.
func ComposeMessage(opts ComposeOptions) (*gmailv1.Message, error) {
	if opts.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if len(opts.To) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	b := enmime.Builder().
		From("", opts.From).
		Subject(opts.Subject).
		Text([]byte(opts.Text))

	for _, addr := range opts.To {
		b = b.To("", addr)
	}
	for _, addr := range opts.Cc {
		b = b.CC("", addr)
	}
	for _, addr := range opts.Bcc {
		b = b.BCC("", addr)
	}

	if opts.HTML != "" {
		b = b.HTML([]byte(opts.HTML))
	}

	for _, path := range opts.Attachments {
		b = b.AddFileAttachment(path)
	}

	if opts.InReplyTo != "" {
		refs := append(slices.Clone(opts.References), opts.InReplyTo)
		b = b.Header("In-Reply-To", opts.InReplyTo)
		b = b.Header("References", strings.Join(refs, " "))
	}

	part, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return &gmailv1.Message{
		Raw:      base64.URLEncoding.EncodeToString(buf.Bytes()),
		ThreadId: opts.ThreadID,
	}, nil
}
