// Package htmltext converts HTML mail bodies into readable plain text.
package htmltext

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ToText renders HTML as Markdown-flavored plain text. Links are kept,
// lines are not re-wrapped. On conversion failure the raw input is
// returned so the caller always has something to show.
func ToText(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	text, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return strings.TrimSpace(htmlContent)
	}
	return strings.TrimSpace(text)
}
