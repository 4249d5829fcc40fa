package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	gmailv1 "google.golang.org/api/gmail/v1"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		opts QueryOptions
		want string
	}{
		{
			name: "empty",
			opts: QueryOptions{},
			want: "",
		},
		{
			name: "base query only",
			opts: QueryOptions{Query: "is:unread"},
			want: "is:unread",
		},
		{
			name: "all filters",
			opts: QueryOptions{
				Query:         "invoice",
				From:          "billing@example.com",
				To:            "me@example.com",
				Subject:       "urgent",
				Label:         "work",
				After:         "2026-01-01",
				Before:        "2026-02-01",
				HasAttachment: true,
			},
			want: "invoice from:billing@example.com to:me@example.com subject:urgent label:work after:2026-01-01 before:2026-02-01 has:attachment",
		},
		{
			name: "attachment filter alone",
			opts: QueryOptions{HasAttachment: true},
			want: "has:attachment",
		},
		{
			name: "from and subject",
			opts: QueryOptions{From: "a@x.com", Subject: "hello"},
			want: "from:a@x.com subject:hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.opts); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func textPart(mimeType, content string) *gmailv1.MessagePart {
	return &gmailv1.MessagePart{
		MimeType: mimeType,
		Body:     &gmailv1.MessagePartBody{Data: encode(content)},
	}
}

func TestParsePartsPlainBody(t *testing.T) {
	text, html, atts := parseParts(textPart("text/plain", "hello"), "m1")
	if text != "hello" {
		t.Errorf("text = %q, want %q", text, "hello")
	}
	if html != "" || len(atts) != 0 {
		t.Errorf("html = %q, atts = %v, want empty", html, atts)
	}
}

func TestParsePartsAlternative(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailv1.MessagePart{
			textPart("text/plain", "plain body"),
			textPart("text/html", "<p>html body</p>"),
		},
	}

	text, html, _ := parseParts(payload, "m1")
	if text != "plain body" {
		t.Errorf("text = %q", text)
	}
	if html != "<p>html body</p>" {
		t.Errorf("html = %q", html)
	}
}

func TestParsePartsNestedMultipartWithAttachment(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailv1.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailv1.MessagePart{
					textPart("text/plain", "nested plain"),
					textPart("text/html", "<b>nested html</b>"),
				},
			},
			{
				MimeType: "application/pdf",
				Filename: "report.pdf",
				Body:     &gmailv1.MessagePartBody{AttachmentId: "att-1", Size: 2048},
			},
		},
	}

	text, html, atts := parseParts(payload, "m1")
	if text != "nested plain" {
		t.Errorf("text = %q", text)
	}
	if html != "<b>nested html</b>" {
		t.Errorf("html = %q", html)
	}
	if len(atts) != 1 {
		t.Fatalf("attachments = %v, want 1", atts)
	}
	att := atts[0]
	if att.ID != "att-1" || att.MessageID != "m1" || att.Filename != "report.pdf" || att.Size != 2048 {
		t.Errorf("attachment = %+v", att)
	}
}

func TestParsePartsOuterBodyWins(t *testing.T) {
	payload := &gmailv1.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailv1.MessagePart{
			textPart("text/plain", "outer"),
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailv1.MessagePart{
					textPart("text/plain", "inner"),
				},
			},
		},
	}

	text, _, _ := parseParts(payload, "m1")
	if text != "outer" {
		t.Errorf("text = %q, want %q", text, "outer")
	}
}

func TestDecodeBody(t *testing.T) {
	if got := decodeBody(&gmailv1.MessagePartBody{Data: encode("abc")}); got != "abc" {
		t.Errorf("decodeBody(padded) = %q", got)
	}

	// Some responses arrive without padding.
	raw := base64.RawURLEncoding.EncodeToString([]byte("abcde"))
	if got := decodeBody(&gmailv1.MessagePartBody{Data: raw}); got != "abcde" {
		t.Errorf("decodeBody(unpadded) = %q", got)
	}

	if got := decodeBody(nil); got != "" {
		t.Errorf("decodeBody(nil) = %q", got)
	}
	if got := decodeBody(&gmailv1.MessagePartBody{Data: "!!!"}); got != "" {
		t.Errorf("decodeBody(garbage) = %q", got)
	}
}

func TestMessageDate(t *testing.T) {
	got := messageDate("Mon, 2 Jan 2006 15:04:05 -0700", 0)
	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*3600))
	if !got.Equal(want) {
		t.Errorf("messageDate(header) = %v, want %v", got, want)
	}

	got = messageDate("not a date", 1700000000000)
	if got.Unix() != 1700000000 {
		t.Errorf("messageDate(fallback) = %v, want internal timestamp", got)
	}
}

func TestSplitAddressList(t *testing.T) {
	got := splitAddressList("a@x.com, Bob <b@x.com> ,  ,c@x.com")
	want := []string{"a@x.com", "Bob <b@x.com>", "c@x.com"}
	if len(got) != len(want) {
		t.Fatalf("splitAddressList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAddressList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSenderParsing(t *testing.T) {
	e := &Email{Sender: "Alice Example <alice@example.com>"}
	if got := e.SenderName(); got != "Alice Example" {
		t.Errorf("SenderName() = %q", got)
	}
	if got := e.SenderEmail(); got != "alice@example.com" {
		t.Errorf("SenderEmail() = %q", got)
	}

	e = &Email{Sender: "bare@example.com"}
	if got := e.SenderName(); got != "bare@example.com" {
		t.Errorf("SenderName() = %q", got)
	}
}
