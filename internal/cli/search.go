package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/gmail"
)

var (
	searchFrom          string
	searchTo            string
	searchSubject       string
	searchLabel         string
	searchAfter         string
	searchBefore        string
	searchHasAttachment bool
	searchLimit         int64
	searchPage          string
	searchAccount       string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search emails",
	Long: `Search emails using Gmail query syntax plus convenience filters.

Examples:
  gmail search "project update"
  gmail search --from billing@example.com --has-attachment
  gmail search invoice --after 2026-01-01 --limit 50
  gmail search --label work --page <token>`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "filter by sender")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "filter by recipient")
	searchCmd.Flags().StringVar(&searchSubject, "subject", "", "filter by subject")
	searchCmd.Flags().StringVar(&searchLabel, "label", "", "filter by label")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "emails after date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "emails before date (YYYY-MM-DD)")
	searchCmd.Flags().BoolVar(&searchHasAttachment, "has-attachment", false, "only emails with attachments")
	searchCmd.Flags().Int64VarP(&searchLimit, "limit", "n", 0, "maximum results (default from config)")
	searchCmd.Flags().StringVar(&searchPage, "page", "", "page token from a previous search")
	addAccountFlag(searchCmd, &searchAccount)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	if err := requireAuth(ctx, p, store, searchAccount); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return renderError(p, store, err)
	}

	limit := searchLimit
	if limit <= 0 {
		limit = int64(cfg.Defaults.MaxResults)
	}

	client, err := openClient(ctx, p, store, searchAccount)
	if err != nil {
		return err
	}

	result, err := client.Search(ctx, gmail.QueryOptions{
		Query:         strings.Join(args, " "),
		From:          searchFrom,
		To:            searchTo,
		Subject:       searchSubject,
		Label:         searchLabel,
		After:         searchAfter,
		Before:        searchBefore,
		HasAttachment: searchHasAttachment,
	}, limit, searchPage)
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(result)
	}

	if len(result.Emails) == 0 {
		p.Info("No emails found.")
		return nil
	}

	p.SearchResults(result)
	return nil
}
