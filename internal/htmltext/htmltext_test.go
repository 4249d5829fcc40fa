package htmltext

import (
	"strings"
	"testing"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "paragraphs",
			html: "<p>first</p><p>second</p>",
			want: []string{"first", "second"},
		},
		{
			name: "links kept",
			html: `<a href="https://example.com">example</a>`,
			want: []string{"example", "https://example.com"},
		},
		{
			name: "emphasis kept",
			html: "<strong>important</strong>",
			want: []string{"**important**"},
		},
		{
			name: "list items",
			html: "<ul><li>one</li><li>two</li></ul>",
			want: []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToText(tt.html)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("ToText(%q) = %q, missing %q", tt.html, got, want)
				}
			}
		})
	}
}

func TestToTextEmpty(t *testing.T) {
	if got := ToText(""); got != "" {
		t.Errorf("ToText(\"\") = %q", got)
	}
}

func TestToTextTrimmed(t *testing.T) {
	got := ToText("<p>  padded  </p>")
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Errorf("ToText not trimmed: %q", got)
	}
}
