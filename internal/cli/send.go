package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	gmailv1 "google.golang.org/api/gmail/v1"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/config"
	"github.com/Talk-Point/gmail-cli/internal/gmail"
	"github.com/Talk-Point/gmail-cli/internal/htmltext"
	"github.com/Talk-Point/gmail-cli/internal/markdown"
	"github.com/Talk-Point/gmail-cli/internal/output"
)

var (
	sendTo          []string
	sendSubject     string
	sendBody        string
	sendBodyFile    string
	sendCc          []string
	sendBcc         []string
	sendAttach      []string
	sendNoSignature bool
	sendPlain       bool
	sendDraft       bool
	sendFrom        string
	sendAccount     string

	replyBody        string
	replyBodyFile    string
	replyAll         bool
	replyAttach      []string
	replyCc          []string
	replyNoSignature bool
	replyPlain       bool
	replyDraft       bool
	replyFrom        string
	replyAccount     string

	sendasAccount string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a new email",
	Long: `Send a new email.

The body is processed as Markdown and converted to HTML by default, and
your Gmail signature is appended. Use --plain to skip Markdown
conversion and --no-signature to leave the signature off.

Examples:
  gmail send --to a@x.com --subject "Hello" --body "Hi there!"
  gmail send --to a@x.com --to b@x.com --subject "Test" --body-file message.md
  gmail send --to a@x.com --subject "Report" --body "See attached" --attach report.pdf
  gmail send --to a@x.com --subject "Note" --body "**Bold**" --plain
  gmail send --to a@x.com --subject "Draft it" --body "later" --draft
  gmail send --to a@x.com --subject "Alias" --body "Hi" --from alias@example.com`,
	RunE: runSend,
}

var replyCmd = &cobra.Command{
	Use:   "reply <message-id>",
	Short: "Reply to an email",
	Long: `Reply to an email, keeping the conversation thread intact.

The same body pipeline as 'gmail send' applies: Markdown by default,
signature appended. With --all the reply goes to every original
recipient.

Examples:
  gmail reply 18c1234abcd5678 --body "Thanks for your message!"
  gmail reply 18c1234abcd5678 --all --body "Thanks everyone!"
  gmail reply 18c1234abcd5678 --body "Review later" --draft`,
	Args: cobra.ExactArgs(1),
	RunE: runReply,
}

var sendasCmd = &cobra.Command{
	Use:   "sendas",
	Short: "List Send-As addresses",
	Long: `List the verified sender addresses configured in Gmail settings
under "Send mail as". These are the values accepted by --from.`,
	RunE: runSendas,
}

func init() {
	sendCmd.Flags().StringSliceVarP(&sendTo, "to", "t", nil, "recipient (repeatable)")
	sendCmd.Flags().StringVarP(&sendSubject, "subject", "s", "", "email subject")
	sendCmd.Flags().StringVarP(&sendBody, "body", "b", "", "email body text")
	sendCmd.Flags().StringVarP(&sendBodyFile, "body-file", "f", "", "file containing the email body")
	sendCmd.Flags().StringSliceVar(&sendCc, "cc", nil, "CC recipient (repeatable)")
	sendCmd.Flags().StringSliceVar(&sendBcc, "bcc", nil, "BCC recipient (repeatable)")
	sendCmd.Flags().StringSliceVarP(&sendAttach, "attach", "a", nil, "file to attach (repeatable)")
	sendCmd.Flags().BoolVar(&sendNoSignature, "no-signature", false, "do not append the Gmail signature")
	sendCmd.Flags().BoolVar(&sendPlain, "plain", false, "send as plain text without Markdown conversion")
	sendCmd.Flags().BoolVar(&sendDraft, "draft", false, "save as draft instead of sending")
	sendCmd.Flags().StringVar(&sendFrom, "from", "", "Send-As address to send from")
	addAccountFlag(sendCmd, &sendAccount)
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("subject")

	replyCmd.Flags().StringVarP(&replyBody, "body", "b", "", "reply body text")
	replyCmd.Flags().StringVarP(&replyBodyFile, "body-file", "f", "", "file containing the reply body")
	replyCmd.Flags().BoolVarP(&replyAll, "all", "a", false, "reply to all recipients")
	replyCmd.Flags().StringSliceVar(&replyAttach, "attach", nil, "file to attach (repeatable)")
	replyCmd.Flags().StringSliceVar(&replyCc, "cc", nil, "CC recipient (repeatable)")
	replyCmd.Flags().BoolVar(&replyNoSignature, "no-signature", false, "do not append the Gmail signature")
	replyCmd.Flags().BoolVar(&replyPlain, "plain", false, "send as plain text without Markdown conversion")
	replyCmd.Flags().BoolVar(&replyDraft, "draft", false, "save as draft instead of sending")
	replyCmd.Flags().StringVar(&replyFrom, "from", "", "Send-As address to send from")
	addAccountFlag(replyCmd, &replyAccount)

	addAccountFlag(sendasCmd, &sendasAccount)

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(sendasCmd)
}

// readBodyContent resolves --body/--body-file into the message text.
func readBodyContent(p *output.Printer, body, bodyFile string) (string, error) {
	if bodyFile != "" {
		data, err := os.ReadFile(bodyFile)
		if err != nil {
			return "", fail(p, "file_not_found", fmt.Sprintf("file not found: %s", bodyFile))
		}
		return string(data), nil
	}
	if body != "" {
		return body, nil
	}
	return "", fail(p, "no_body", "email body required (--body or --body-file)")
}

// validateSendAs checks --from against the account's verified identities.
func validateSendAs(ctx context.Context, p *output.Printer, client *gmail.Client, fromAddr string) error {
	if fromAddr == "" {
		return nil
	}

	addresses, err := client.ListSendAs(ctx)
	if err != nil {
		return renderError(p, nil, err)
	}

	valid := make([]string, 0, len(addresses))
	for _, sa := range addresses {
		valid = append(valid, strings.ToLower(sa.Email))
	}
	if slices.Contains(valid, strings.ToLower(fromAddr)) {
		return nil
	}

	available := "none"
	if len(valid) > 0 {
		available = strings.Join(valid, ", ")
	}
	return fail(p, "invalid_send_as",
		fmt.Sprintf("%q is not a valid Send-As address", fromAddr),
		"Available: "+available)
}

// buildBody runs the outgoing body pipeline: Markdown to styled HTML
// (unless plain), then the account signature appended to both variants.
func buildBody(ctx context.Context, client *gmail.Client, cfg *config.Config, text string, plain, noSignature bool) (string, string, error) {
	var htmlBody string
	if !plain {
		converted, err := markdown.ToHTML(text)
		if err != nil {
			return "", "", fmt.Errorf("failed to convert markdown: %w", err)
		}
		htmlBody = markdown.WrapForEmail(converted)
	}

	if cfg.Defaults.Signature && !noSignature {
		if sig := client.Signature(ctx); sig != "" {
			text = text + "\n\n--\n" + htmltext.ToText(sig)
			if htmlBody != "" {
				htmlBody = htmlBody + "<br><div>--</div>" + sig
			} else {
				// Plain mode still needs an HTML variant so the rich
				// signature renders.
				htmlBody = "<div>" + strings.ReplaceAll(text, "\n", "<br>") + "</div><br><div>--</div>" + sig
			}
		}
	}

	return text, htmlBody, nil
}

// deliver sends the composed message or stores it as a draft, and prints
// the result.
func deliver(ctx context.Context, p *output.Printer, store *auth.Store, client *gmail.Client, msg *gmailv1.Message, asDraft bool, repliedTo string) error {
	if asDraft {
		result, err := client.CreateDraft(ctx, msg)
		if err != nil {
			return renderError(p, store, err)
		}
		if p.JSON {
			doc := map[string]any{
				"status":     "draft_created",
				"draft_id":   result.ID,
				"message_id": result.MessageID,
				"thread_id":  result.ThreadID,
			}
			if repliedTo != "" {
				doc["replied_to"] = repliedTo
			}
			return p.PrintJSON(doc)
		}
		p.Success("Draft created!")
		p.Info("Draft-ID: %s", result.ID)
		if result.ThreadID != "" {
			p.Info("Thread-ID: %s", result.ThreadID)
		}
		return nil
	}

	result, err := client.Send(ctx, msg)
	if err != nil {
		return renderError(p, store, err)
	}
	if p.JSON {
		doc := map[string]any{
			"sent":       true,
			"message_id": result.ID,
			"thread_id":  result.ThreadID,
		}
		if repliedTo != "" {
			doc["replied_to"] = repliedTo
		}
		return p.PrintJSON(doc)
	}
	p.Success("Email sent!")
	p.Info("Message-ID: %s", result.ID)
	p.Info("Thread-ID:  %s", result.ThreadID)
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, sendAccount); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return renderError(p, store, err)
	}

	body, err := readBodyContent(p, sendBody, sendBodyFile)
	if err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, sendAccount)
	if err != nil {
		return err
	}

	if err := validateSendAs(ctx, p, client, sendFrom); err != nil {
		return err
	}

	text, htmlBody, err := buildBody(ctx, client, cfg, body, sendPlain, sendNoSignature)
	if err != nil {
		return renderError(p, store, err)
	}

	from := sendFrom
	if from == "" {
		from = client.Account()
	}

	msg, err := gmail.ComposeMessage(gmail.ComposeOptions{
		From:        from,
		To:          sendTo,
		Cc:          sendCc,
		Bcc:         sendBcc,
		Subject:     sendSubject,
		Text:        text,
		HTML:        htmlBody,
		Attachments: sendAttach,
	})
	if err != nil {
		return renderError(p, store, err)
	}

	return deliver(ctx, p, store, client, msg, sendDraft, "")
}

func runReply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()
	messageID := args[0]

	if err := requireAuth(ctx, p, store, replyAccount); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return renderError(p, store, err)
	}

	body, err := readBodyContent(p, replyBody, replyBodyFile)
	if err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, replyAccount)
	if err != nil {
		return err
	}

	original, err := client.GetMessage(ctx, messageID)
	if err != nil {
		return renderError(p, store, err)
	}

	if err := validateSendAs(ctx, p, client, replyFrom); err != nil {
		return err
	}

	text, htmlBody, err := buildBody(ctx, client, cfg, body, replyPlain, replyNoSignature)
	if err != nil {
		return renderError(p, store, err)
	}

	recipients := []string{original.SenderEmail()}
	cc := append([]string(nil), replyCc...)
	if replyAll {
		for _, addr := range original.Cc {
			if !slices.Contains(cc, addr) {
				cc = append(cc, addr)
			}
		}
		for _, addr := range original.Recipients {
			if !slices.Contains(recipients, addr) {
				recipients = append(recipients, addr)
			}
		}
	}

	subject := original.Subject
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	inReplyTo := original.MessageID
	if inReplyTo == "" {
		inReplyTo = fmt.Sprintf("<%s@gmail.com>", original.ID)
	}

	from := replyFrom
	if from == "" {
		from = client.Account()
	}

	msg, err := gmail.ComposeMessage(gmail.ComposeOptions{
		From:        from,
		To:          recipients,
		Cc:          cc,
		Subject:     subject,
		Text:        text,
		HTML:        htmlBody,
		Attachments: replyAttach,
		ThreadID:    original.ThreadID,
		InReplyTo:   inReplyTo,
		References:  original.References,
	})
	if err != nil {
		return renderError(p, store, err)
	}

	return deliver(ctx, p, store, client, msg, replyDraft, messageID)
}

func runSendas(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, sendasAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, sendasAccount)
	if err != nil {
		return err
	}

	addresses, err := client.ListSendAs(ctx)
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"sendas": addresses,
			"count":  len(addresses),
		})
	}

	if len(addresses) == 0 {
		p.Info("No Send-As addresses configured.")
		return nil
	}

	p.Info("Send-As addresses (%d):", len(addresses))
	for _, addr := range addresses {
		display := addr.Email
		if addr.DisplayName != "" {
			display = fmt.Sprintf("%s <%s>", addr.DisplayName, addr.Email)
		}
		suffix := ""
		if addr.IsPrimary {
			suffix += " (primary)"
		}
		if addr.IsDefault {
			suffix += " [default]"
		}
		p.Plain("  %s%s", display, suffix)
	}
	return nil
}
