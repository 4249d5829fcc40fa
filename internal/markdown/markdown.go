// Package markdown renders Markdown into email-safe HTML. Email clients
// ignore stylesheets, so all styling is inlined onto the generated tags.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const emailWrapperStyle = "font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Noto Sans', " +
	"Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.5; color: #1f2328;"

const inlineCodeStyle = "background-color: #f6f8fa; padding: 0.2em 0.4em; border-radius: 3px; " +
	"font-family: ui-monospace, SFMono-Regular, monospace; font-size: 85%;"

var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// ToHTML converts GitHub-Flavored Markdown (tables, strikethrough, task
// lists, fenced code) into HTML with inline styles. Empty input yields "".
func ToHTML(markdownText string) (string, error) {
	if markdownText == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdownText), &buf); err != nil {
		return "", err
	}

	out := buf.String()
	out = addTableStyles(out)
	out = addCodeStyles(out)
	out = addBlockquoteStyles(out)
	return out, nil
}

// WrapForEmail wraps rendered HTML in a styled div. No <html>/<head>/<body>
// tags; email clients strip them anyway.
func WrapForEmail(htmlBody string) string {
	return `<div style="` + emailWrapperStyle + `">` + htmlBody + `</div>`
}

var (
	tableRe      = regexp.MustCompile(`<table>`)
	thRe         = regexp.MustCompile(`<th>`)
	tdRe         = regexp.MustCompile(`<td>`)
	trRe         = regexp.MustCompile(`<tr>`)
	preRe        = regexp.MustCompile(`<pre>`)
	preCodeRe    = regexp.MustCompile(`<pre([^>]*)><code([^>]*)>`)
	codeRe       = regexp.MustCompile(`<code([^>]*)>`)
	blockquoteRe = regexp.MustCompile(`<blockquote>`)
)

func addTableStyles(htmlText string) string {
	htmlText = tableRe.ReplaceAllString(htmlText,
		`<table style="border-collapse: collapse; width: 100%; margin: 16px 0;">`)
	htmlText = thRe.ReplaceAllString(htmlText,
		`<th style="border: 1px solid #ddd; padding: 8px 12px; background-color: #f6f8fa; text-align: left; font-weight: 600;">`)
	htmlText = tdRe.ReplaceAllString(htmlText,
		`<td style="border: 1px solid #ddd; padding: 8px 12px;">`)
	htmlText = trRe.ReplaceAllString(htmlText,
		`<tr style="border-bottom: 1px solid #ddd;">`)
	return htmlText
}

func addCodeStyles(htmlText string) string {
	htmlText = preRe.ReplaceAllString(htmlText,
		`<pre style="background-color: #f6f8fa; border-radius: 6px; padding: 16px; overflow-x: auto; font-family: ui-monospace, SFMono-Regular, 'SF Mono', Menlo, Consolas, 'Liberation Mono', monospace; font-size: 85%; line-height: 1.45;">`)

	// Code inside pre inherits the pre styling.
	htmlText = preCodeRe.ReplaceAllString(htmlText,
		`<pre$1><code$2 style="font-family: inherit; font-size: inherit; background: none; padding: 0;">`)

	// Remaining unstyled code tags are inline code. RE2 has no lookahead,
	// so skip already-styled tags inside the replacement func.
	htmlText = codeRe.ReplaceAllStringFunc(htmlText, func(match string) string {
		if strings.Contains(match, "style=") {
			return match
		}
		attrs := match[len("<code") : len(match)-1]
		return `<code style="` + inlineCodeStyle + `"` + attrs + `>`
	})

	return htmlText
}

func addBlockquoteStyles(htmlText string) string {
	return blockquoteRe.ReplaceAllString(htmlText,
		`<blockquote style="margin: 16px 0; padding: 0 16px; color: #656d76; border-left: 4px solid #d0d7de;">`)
}
