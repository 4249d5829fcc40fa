package cli

import (
	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/htmltext"
	"github.com/Talk-Point/gmail-cli/internal/output"
)

var (
	draftListLimit     int64
	draftListAccount   string
	draftShowAccount   string
	draftSendAccount   string
	draftDeleteAccount string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage drafts",
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts",
	RunE:  runDraftList,
}

var draftShowCmd = &cobra.Command{
	Use:   "show <draft-id>",
	Short: "Show a draft with its body",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftShow,
}

var draftSendCmd = &cobra.Command{
	Use:   "send <draft-id>",
	Short: "Send an existing draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftSend,
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete <draft-id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftDelete,
}

func init() {
	draftListCmd.Flags().Int64VarP(&draftListLimit, "limit", "n", 20, "maximum drafts to list")
	addAccountFlag(draftListCmd, &draftListAccount)
	addAccountFlag(draftShowCmd, &draftShowAccount)
	addAccountFlag(draftSendCmd, &draftSendAccount)
	addAccountFlag(draftDeleteCmd, &draftDeleteAccount)

	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftSendCmd)
	draftCmd.AddCommand(draftDeleteCmd)
	rootCmd.AddCommand(draftCmd)
}

func runDraftList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, draftListAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, draftListAccount)
	if err != nil {
		return err
	}

	drafts, err := client.ListDrafts(ctx, draftListLimit)
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"drafts": drafts,
			"count":  len(drafts),
		})
	}

	if len(drafts) == 0 {
		p.Info("No drafts.")
		return nil
	}

	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, []string{
			d.ID,
			output.Truncate(d.To, 30),
			output.Truncate(d.Subject, 40),
		})
	}
	p.Table([]string{"ID", "To", "Subject"}, rows, "")
	return nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, draftShowAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, draftShowAccount)
	if err != nil {
		return err
	}

	draft, err := client.GetDraft(ctx, args[0], true)
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(draft)
	}

	p.Plain("To:      %s", draft.To)
	if draft.Cc != "" {
		p.Plain("Cc:      %s", draft.Cc)
	}
	p.Plain("Subject: %s", draft.Subject)

	body := draft.BodyText
	if body == "" && draft.BodyHTML != "" {
		body = htmltext.ToText(draft.BodyHTML)
	}
	if body == "" {
		body = "(no content)"
	}
	p.Plain("")
	p.Plain("%s", body)

	p.Attachments(draft.Attachments)

	p.Plain("")
	p.Dim("Draft-ID: %s | Message: %s | Thread: %s", draft.ID, draft.MessageID, draft.ThreadID)
	return nil
}

func runDraftSend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, draftSendAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, draftSendAccount)
	if err != nil {
		return err
	}

	result, err := client.SendDraft(ctx, args[0])
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"sent":       true,
			"draft_id":   args[0],
			"message_id": result.ID,
			"thread_id":  result.ThreadID,
		})
	}
	p.Success("Draft sent!")
	p.Info("Message-ID: %s", result.ID)
	return nil
}

func runDraftDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, draftDeleteAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, draftDeleteAccount)
	if err != nil {
		return err
	}

	if err := client.DeleteDraft(ctx, args[0]); err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"status":   "deleted",
			"draft_id": args[0],
		})
	}
	p.Success("Draft deleted: %s", args[0])
	return nil
}
