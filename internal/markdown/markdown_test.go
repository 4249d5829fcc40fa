package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLEmpty(t *testing.T) {
	got, err := ToHTML("")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if got != "" {
		t.Errorf("ToHTML(\"\") = %q, want empty", got)
	}
}

func TestToHTMLBasicFormatting(t *testing.T) {
	got, err := ToHTML("# Title\n\nSome **bold** and *italic* text.")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{"<h1", "Title", "<strong>bold</strong>", "<em>italic</em>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestToHTMLTableStyles(t *testing.T) {
	got, err := ToHTML("| A | B |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{
		`<table style="border-collapse: collapse;`,
		`<th style="border: 1px solid #ddd;`,
		`<td style="border: 1px solid #ddd; padding: 8px 12px;">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestToHTMLCodeStyles(t *testing.T) {
	got, err := ToHTML("Use `go test` here.\n\n```\nfmt.Println()\n```")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `<pre style="background-color: #f6f8fa;`) {
		t.Errorf("fenced block not styled:\n%s", got)
	}
	if !strings.Contains(got, `<code style="font-family: inherit;`) {
		t.Errorf("code inside pre not reset:\n%s", got)
	}
	if !strings.Contains(got, `<code style="background-color: #f6f8fa;`) {
		t.Errorf("inline code not styled:\n%s", got)
	}
}

func TestToHTMLInlineCodeNotDoubleStyled(t *testing.T) {
	got, err := ToHTML("```\nblock\n```")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, `style="font-family: inherit; font-size: inherit; background: none; padding: 0;" style=`) {
		t.Errorf("code tag styled twice:\n%s", got)
	}
}

func TestToHTMLBlockquoteStyles(t *testing.T) {
	got, err := ToHTML("> quoted line")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `<blockquote style="margin: 16px 0;`) {
		t.Errorf("blockquote not styled:\n%s", got)
	}
}

func TestToHTMLStrikethrough(t *testing.T) {
	got, err := ToHTML("~~gone~~")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, "<del>gone</del>") {
		t.Errorf("strikethrough not rendered:\n%s", got)
	}
}

func TestToHTMLHardWraps(t *testing.T) {
	got, err := ToHTML("line one\nline two")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("single newline not rendered as break:\n%s", got)
	}
}

func TestWrapForEmail(t *testing.T) {
	got := WrapForEmail("<p>hello</p>")
	if !strings.HasPrefix(got, `<div style="font-family: -apple-system,`) {
		t.Errorf("wrapper prefix wrong: %q", got)
	}
	if !strings.HasSuffix(got, "<p>hello</p></div>") {
		t.Errorf("wrapper suffix wrong: %q", got)
	}

	if got := WrapForEmail(""); !strings.HasSuffix(got, "></div>") {
		t.Errorf("WrapForEmail(\"\") = %q", got)
	}
}
