package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/gmail"
	"github.com/Talk-Point/gmail-cli/internal/output"
)

var (
	attachmentListAccount string

	downloadOutput  string
	downloadAll     bool
	downloadAccount string
)

var attachmentCmd = &cobra.Command{
	Use:   "attachment",
	Short: "Work with message attachments",
}

var attachmentListCmd = &cobra.Command{
	Use:   "list <message-id>",
	Short: "List attachments of a message",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttachmentList,
}

var attachmentDownloadCmd = &cobra.Command{
	Use:   "download <message-id> [filename]",
	Short: "Download attachments",
	Long: `Download one attachment by filename, or all of them with --all.

Examples:
  gmail attachment download 18c1234abcd5678 document.pdf
  gmail attachment download 18c1234abcd5678 document.pdf --output ~/Downloads/doc.pdf
  gmail attachment download 18c1234abcd5678 --all
  gmail attachment download 18c1234abcd5678 --all --output ~/Downloads/`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAttachmentDownload,
}

// Top-level shortcuts for the most common attachment operations.
var attachmentsShortcutCmd = &cobra.Command{
	Use:   "attachments <message-id>",
	Short: "List attachments of a message",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttachmentList,
}

var downloadShortcutCmd = &cobra.Command{
	Use:   "download <message-id> [filename]",
	Short: "Download attachments",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runAttachmentDownload,
}

func init() {
	addAccountFlag(attachmentListCmd, &attachmentListAccount)
	addAccountFlag(attachmentsShortcutCmd, &attachmentListAccount)

	for _, cmd := range []*cobra.Command{attachmentDownloadCmd, downloadShortcutCmd} {
		cmd.Flags().StringVarP(&downloadOutput, "output", "o", "",
			"output path (directory or file; default: original filename)")
		cmd.Flags().BoolVar(&downloadAll, "all", false, "download all attachments")
		addAccountFlag(cmd, &downloadAccount)
	}

	attachmentCmd.AddCommand(attachmentListCmd)
	attachmentCmd.AddCommand(attachmentDownloadCmd)
	rootCmd.AddCommand(attachmentCmd)
	rootCmd.AddCommand(attachmentsShortcutCmd)
	rootCmd.AddCommand(downloadShortcutCmd)
}

func runAttachmentList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, attachmentListAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, attachmentListAccount)
	if err != nil {
		return err
	}

	email, err := client.GetMessage(ctx, args[0])
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"message_id":  email.ID,
			"attachments": email.Attachments,
			"count":       len(email.Attachments),
		})
	}

	if len(email.Attachments) == 0 {
		p.Info("No attachments.")
		return nil
	}

	rows := make([][]string, 0, len(email.Attachments))
	for _, att := range email.Attachments {
		rows = append(rows, []string{att.Filename, att.MimeType, att.HumanSize()})
	}
	p.Table([]string{"Filename", "Type", "Size"}, rows, "")
	return nil
}

func runAttachmentDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()
	messageID := args[0]

	var filename string
	if len(args) > 1 {
		filename = args[1]
	}

	if !downloadAll && filename == "" {
		return fail(p, "missing_argument", "give a filename or use --all")
	}

	if err := requireAuth(ctx, p, store, downloadAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, downloadAccount)
	if err != nil {
		return err
	}

	email, err := client.GetMessage(ctx, messageID)
	if err != nil {
		return renderError(p, store, err)
	}

	if downloadAll {
		return downloadAttachments(ctx, p, store, client, email.Attachments)
	}

	for _, att := range email.Attachments {
		if att.Filename == filename {
			return downloadAttachments(ctx, p, store, client, []gmail.Attachment{att})
		}
	}

	names := make([]string, 0, len(email.Attachments))
	for _, att := range email.Attachments {
		names = append(names, att.Filename)
	}
	details := "Message has no attachments."
	if len(names) > 0 {
		details = "Available: " + strings.Join(names, ", ")
	}
	return fail(p, "attachment_not_found",
		fmt.Sprintf("attachment %q not found", filename), details)
}

// downloadAttachments fetches each attachment and writes it under the
// --output path (a directory when downloading several).
func downloadAttachments(ctx context.Context, p *output.Printer, store *auth.Store, client *gmail.Client, attachments []gmail.Attachment) error {
	if len(attachments) == 0 {
		return fail(p, "no_attachments", "message has no attachments")
	}

	type downloaded struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
	}
	var saved []downloaded

	for _, att := range attachments {
		path := att.Filename
		if downloadOutput != "" {
			if isDir(downloadOutput) || len(attachments) > 1 {
				path = filepath.Join(downloadOutput, att.Filename)
			} else {
				path = downloadOutput
			}
		}

		if err := client.DownloadAttachment(ctx, att.MessageID, att.ID, path); err != nil {
			return renderError(p, store, err)
		}
		saved = append(saved, downloaded{Filename: att.Filename, Path: path})
		p.Success("Downloaded: %s → %s", att.Filename, path)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"downloaded": saved,
			"count":      len(saved),
		})
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
