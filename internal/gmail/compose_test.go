package gmail

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/jhillyerd/enmime/v2"
)

func decodeRaw(t *testing.T, raw string) *enmime.Envelope {
	t.Helper()
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return env
}

func TestComposeMessagePlain(t *testing.T) {
	msg, err := ComposeMessage(ComposeOptions{
		From:    "me@example.com",
		To:      []string{"a@x.com", "b@x.com"},
		Cc:      []string{"c@x.com"},
		Subject: "Status update",
		Text:    "All good.",
	})
	if err != nil {
		t.Fatalf("ComposeMessage: %v", err)
	}
	if msg.ThreadId != "" {
		t.Errorf("ThreadId = %q, want empty", msg.ThreadId)
	}

	env := decodeRaw(t, msg.Raw)
	if got := env.GetHeader("Subject"); got != "Status update" {
		t.Errorf("Subject = %q", got)
	}
	if got := env.GetHeader("From"); !strings.Contains(got, "me@example.com") {
		t.Errorf("From = %q", got)
	}
	if got := env.GetHeader("To"); !strings.Contains(got, "a@x.com") || !strings.Contains(got, "b@x.com") {
		t.Errorf("To = %q", got)
	}
	if got := env.GetHeader("Cc"); !strings.Contains(got, "c@x.com") {
		t.Errorf("Cc = %q", got)
	}
	if !strings.Contains(env.Text, "All good.") {
		t.Errorf("Text = %q", env.Text)
	}
}

func TestComposeMessageHTMLAlternative(t *testing.T) {
	msg, err := ComposeMessage(ComposeOptions{
		From:    "me@example.com",
		To:      []string{"a@x.com"},
		Subject: "Rich",
		Text:    "plain variant",
		HTML:    "<p>rich variant</p>",
	})
	if err != nil {
		t.Fatalf("ComposeMessage: %v", err)
	}

	env := decodeRaw(t, msg.Raw)
	if !strings.Contains(env.Text, "plain variant") {
		t.Errorf("Text = %q", env.Text)
	}
	if !strings.Contains(env.HTML, "rich variant") {
		t.Errorf("HTML = %q", env.HTML)
	}
}

func TestComposeMessageReplyThreading(t *testing.T) {
	msg, err := ComposeMessage(ComposeOptions{
		From:       "me@example.com",
		To:         []string{"a@x.com"},
		Subject:    "Re: Question",
		Text:       "answer",
		ThreadID:   "thread-42",
		InReplyTo:  "<msg-3@example.com>",
		References: []string{"<msg-1@example.com>", "<msg-2@example.com>"},
	})
	if err != nil {
		t.Fatalf("ComposeMessage: %v", err)
	}
	if msg.ThreadId != "thread-42" {
		t.Errorf("ThreadId = %q, want %q", msg.ThreadId, "thread-42")
	}

	env := decodeRaw(t, msg.Raw)
	if got := env.GetHeader("In-Reply-To"); got != "<msg-3@example.com>" {
		t.Errorf("In-Reply-To = %q", got)
	}
	refs := env.GetHeader("References")
	for _, want := range []string{"<msg-1@example.com>", "<msg-2@example.com>", "<msg-3@example.com>"} {
		if !strings.Contains(refs, want) {
			t.Errorf("References = %q, missing %q", refs, want)
		}
	}
	if !strings.HasSuffix(refs, "<msg-3@example.com>") {
		t.Errorf("References = %q, replied-to ID must come last", refs)
	}
}

func TestComposeMessageValidation(t *testing.T) {
	if _, err := ComposeMessage(ComposeOptions{To: []string{"a@x.com"}, Text: "x"}); err == nil {
		t.Error("ComposeMessage without From should fail")
	}
	if _, err := ComposeMessage(ComposeOptions{From: "me@example.com", Text: "x"}); err == nil {
		t.Error("ComposeMessage without recipients should fail")
	}
}
