package cli

import (
	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage configured accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured accounts",
	RunE:  runAccountsList,
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	rootCmd.AddCommand(accountsCmd)
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	p := printer()
	store := auth.NewStore()
	store.MigrateLegacy(cmd.Context())

	accounts := store.ListAccounts()
	defaultAccount := store.DefaultAccount()

	if p.JSON {
		type accountInfo struct {
			Email     string `json:"email"`
			IsDefault bool   `json:"is_default"`
		}
		infos := make([]accountInfo, 0, len(accounts))
		for _, acc := range accounts {
			infos = append(infos, accountInfo{Email: acc, IsDefault: acc == defaultAccount})
		}
		return p.PrintJSON(map[string]any{
			"accounts": infos,
			"count":    len(accounts),
		})
	}

	if len(accounts) == 0 {
		p.Info("No accounts configured. Run 'gmail auth login' to add one.")
		return nil
	}

	p.Plain("Accounts (%d):", len(accounts))
	for _, acc := range accounts {
		marker := ""
		if acc == defaultAccount {
			marker = " *"
		}
		p.Plain("  %s%s", acc, marker)
	}
	return nil
}
