package cli

import (
	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/htmltext"
)

var (
	readRaw     bool
	readAccount string
)

var readCmd = &cobra.Command{
	Use:   "read <message-id>",
	Short: "Read a full email",
	Long: `Read a full email by its message ID.

HTML-only bodies are converted to readable text unless --raw is given.

Examples:
  gmail read 18c1234abcd5678
  gmail read 18c1234abcd5678 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	readCmd.Flags().BoolVarP(&readRaw, "raw", "r", false, "show raw body without HTML conversion")
	addAccountFlag(readCmd, &readAccount)

	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, readAccount); err != nil {
		return err
	}

	client, err := openClient(ctx, p, store, readAccount)
	if err != nil {
		return err
	}

	email, err := client.GetMessage(ctx, args[0])
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(email)
	}

	var body string
	switch {
	case readRaw:
		body = email.BodyText
		if body == "" {
			body = email.BodyHTML
		}
	case email.BodyText != "":
		body = email.BodyText
	case email.BodyHTML != "":
		body = htmltext.ToText(email.BodyHTML)
	default:
		body = "(no content)"
	}

	p.EmailDetail(email, body)
	return nil
}
