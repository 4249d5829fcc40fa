package output

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Talk-Point/gmail-cli/internal/gmail"
)

// Table prints a header row plus data rows, with an optional dimmed
// footer. Silent in JSON mode.
func (p *Printer) Table(columns []string, rows [][]string, footer string) {
	if p.JSON {
		return
	}

	table := tablewriter.NewTable(p.Out,
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader:     tw.Off,
					BetweenRows:    tw.Off,
					BetweenColumns: tw.Off,
				},
				Lines: tw.Lines{
					ShowTop:        tw.Off,
					ShowBottom:     tw.Off,
					ShowHeaderLine: tw.Off,
				},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
	)
	table.Header(columns)
	_ = table.Bulk(rows)
	_ = table.Render()

	if footer != "" {
		fmt.Fprintln(p.Out)
		p.Dim("%s", footer)
	}
}

// SearchResults renders one page of matches with a pagination footer.
func (p *Printer) SearchResults(result *gmail.SearchResult) {
	if p.JSON {
		return
	}

	rows := make([][]string, 0, len(result.Emails))
	for i := range result.Emails {
		e := &result.Emails[i]
		status := " "
		if !e.IsRead {
			status = p.paint("1;34", "●")
		}
		rows = append(rows, []string{
			Truncate(e.ID, 16),
			status,
			Truncate(e.SenderName(), 28),
			Truncate(e.Subject, 38),
			e.Date.Local().Format("2006-01-02 15:04"),
		})
	}

	footer := fmt.Sprintf("Found: ~%d", result.TotalEstimate)
	if result.NextPageToken != "" {
		footer += fmt.Sprintf(" | Next page: --page %s", result.NextPageToken)
	}

	p.Table([]string{"ID", "", "From", "Subject", "Date"}, rows, footer)
}

// EmailDetail renders the full view of a message. The body is passed in
// separately, already converted from HTML when no plain variant existed.
func (p *Printer) EmailDetail(e *gmail.Email, body string) {
	if p.JSON {
		return
	}

	p.Plain("From:    %s", e.Sender)
	p.Plain("To:      %s", strings.Join(e.Recipients, ", "))
	if len(e.Cc) > 0 {
		p.Plain("Cc:      %s", strings.Join(e.Cc, ", "))
	}
	p.Plain("Date:    %s", e.Date.Local().Format("2006-01-02 15:04"))
	p.Plain("Subject: %s", e.Subject)

	p.Plain("")
	p.Plain("%s", body)

	p.Attachments(e.Attachments)

	p.Plain("")
	p.Dim("ID: %s | Thread: %s", e.ID, e.ThreadID)
}

// Attachments renders the attachment list of a message, if any.
func (p *Printer) Attachments(attachments []gmail.Attachment) {
	if p.JSON || len(attachments) == 0 {
		return
	}

	p.Plain("")
	p.Plain("Attachments:")
	for _, att := range attachments {
		p.Plain("  📎 %s (%s)", att.Filename, att.HumanSize())
	}
}

// Truncate shortens s to max characters, ellipsizing the tail.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
