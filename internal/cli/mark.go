package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/gmail"
)

var (
	markRead    bool
	markUnread  bool
	markAccount string
)

var markCmd = &cobra.Command{
	Use:   "mark <message-id>...",
	Short: "Mark emails as read or unread",
	Long: `Mark one or more emails as read or unread.

Exactly one of --read or --unread must be given.

Examples:
  gmail mark 18c1234abcd5678 --read
  gmail mark 18c1234abcd5678 --unread
  gmail mark 18c1234 18c5678 18c9012 --read`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMark,
}

func init() {
	markCmd.Flags().BoolVar(&markRead, "read", false, "mark as read")
	markCmd.Flags().BoolVar(&markUnread, "unread", false, "mark as unread")
	addAccountFlag(markCmd, &markAccount)

	rootCmd.AddCommand(markCmd)
}

func runMark(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if markRead == markUnread {
		return fail(p, "invalid_flags", "exactly one of --read or --unread is required")
	}

	if err := requireAuth(ctx, p, store, markAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, markAccount)
	if err != nil {
		return err
	}

	action := "read"
	mark := client.MarkRead
	if markUnread {
		action = "unread"
		mark = client.MarkUnread
	}

	type markResult struct {
		ID     string `json:"id"`
		Marked bool   `json:"marked"`
		Error  string `json:"error,omitempty"`
	}

	results := make([]markResult, 0, len(args))
	succeeded := 0
	for _, id := range args {
		err := mark(ctx, id)
		switch {
		case err == nil:
			succeeded++
			results = append(results, markResult{ID: id, Marked: true})
			p.Success("%s marked as %s", id, action)
		default:
			var notFound *gmail.MessageNotFoundError
			if errors.As(err, &notFound) {
				results = append(results, markResult{ID: id, Error: "not found"})
				p.Error(fmt.Sprintf("message %q not found", id))
				continue
			}
			// Token or transport trouble affects every remaining ID.
			return renderError(p, store, err)
		}
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"action":  action,
			"results": results,
			"marked":  succeeded,
			"total":   len(args),
		})
	}

	if len(args) > 1 {
		p.Plain("")
		p.Plain("%d/%d messages marked as %s", succeeded, len(args), action)
	}
	if succeeded < len(args) {
		return errReported
	}
	return nil
}
