package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage account authentication",
}

var (
	loginSetDefault bool

	logoutAccount string
	logoutAll     bool

	tokenAccount string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize a Gmail account via browser",
	Long: `Authorize a Gmail account via the browser consent flow.

The credential is stored in the OS keyring. The first account becomes
the default; use --set-default to make an additional account the default.

Examples:
  gmail auth login
  gmail auth login --set-default`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials for one account or all of them.

Examples:
  gmail auth logout
  gmail auth logout --account work@company.com
  gmail auth logout --all`,
	RunE: runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured accounts",
	Long:  "List all configured accounts. The default account is marked with an asterisk.",
	RunE:  runStatus,
}

var setDefaultCmd = &cobra.Command{
	Use:   "set-default <email>",
	Short: "Set the default account",
	Long:  "Set the account used when no --account option or GMAIL_ACCOUNT variable is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetDefault,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print raw credential JSON",
	Long: `Print the stored OAuth credential as JSON, for transferring
authentication to a headless machine.

WARNING: the output contains sensitive data.`,
	RunE: runToken,
}

func init() {
	loginCmd.Flags().BoolVar(&loginSetDefault, "set-default", false,
		"make this account the default")
	logoutCmd.Flags().StringVarP(&logoutAccount, "account", "A", "",
		"account to sign out (default: resolved account)")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "sign out every account")
	tokenCmd.Flags().StringVarP(&tokenAccount, "account", "A", "",
		"account to show the credential for")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(setDefaultCmd)
	authCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(authCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := printer()
	store := auth.NewStore()

	cfg, err := loadConfig()
	if err != nil {
		return renderError(p, store, err)
	}

	store.MigrateLegacy(ctx)

	result, err := store.Login(ctx, cfg.OAuth.CredentialsPath, cfg.OAuth.RedirectPort)
	if err != nil {
		return renderError(p, store, err)
	}

	isDefault := result.First || loginSetDefault
	if loginSetDefault && !result.First {
		if err := store.SetDefaultAccount(result.Email); err != nil {
			return renderError(p, store, err)
		}
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"status":     "authenticated",
			"account":    result.Email,
			"is_default": isDefault,
		})
	}
	if isDefault {
		p.Success("Authenticated as %s (default account)", result.Email)
	} else {
		p.Success("Authenticated as %s", result.Email)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	p := printer()
	store := auth.NewStore()

	loggedOut, err := store.Logout(logoutAccount, logoutAll)
	if err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		if loggedOut == nil {
			loggedOut = []string{}
		}
		return p.PrintJSON(map[string]any{
			"status":   "logged_out",
			"accounts": loggedOut,
		})
	}
	if len(loggedOut) == 0 {
		p.Info("No accounts signed out")
		return nil
	}
	p.Success("Signed out: %s", strings.Join(loggedOut, ", "))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	p := printer()
	store := auth.NewStore()
	store.MigrateLegacy(cmd.Context())

	accounts := store.ListAccounts()
	defaultAccount := store.DefaultAccount()

	if len(accounts) == 0 {
		if p.JSON {
			_ = p.PrintJSON(map[string]any{
				"authenticated": false,
				"accounts":      []string{},
			})
			return errReported
		}
		return fail(p, "not_authenticated", "not authenticated",
			"Run 'gmail auth login' to sign in.")
	}

	if p.JSON {
		type accountInfo struct {
			Email       string `json:"email"`
			IsDefault   bool   `json:"is_default"`
			TokenExpiry string `json:"token_expiry,omitempty"`
		}
		infos := make([]accountInfo, 0, len(accounts))
		for _, acc := range accounts {
			infos = append(infos, accountInfo{
				Email:       acc,
				IsDefault:   acc == defaultAccount,
				TokenExpiry: store.TokenExpiry(acc),
			})
		}
		return p.PrintJSON(map[string]any{
			"authenticated":   true,
			"default_account": defaultAccount,
			"accounts":        infos,
		})
	}

	p.Success("Authenticated with %d account(s):", len(accounts))
	for _, acc := range accounts {
		marker := ""
		if acc == defaultAccount {
			marker = " *"
		}
		expiryInfo := ""
		if expiry := store.TokenExpiry(acc); expiry != "" {
			expiryInfo = fmt.Sprintf(" (token until: %s)", expiry)
		}
		p.Plain("  %s%s%s", acc, marker, expiryInfo)
	}
	return nil
}

func runSetDefault(cmd *cobra.Command, args []string) error {
	p := printer()
	store := auth.NewStore()
	email := args[0]

	// The store setter does not validate; the command does.
	accounts := store.ListAccounts()
	if !slices.Contains(accounts, email) {
		return renderError(p, store, &auth.AccountNotFoundError{Account: email, Available: accounts})
	}

	if err := store.SetDefaultAccount(email); err != nil {
		return renderError(p, store, err)
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"status":  "default_set",
			"account": email,
		})
	}
	p.Success("Default account set: %s", email)
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	p := printer()
	store := auth.NewStore()
	store.MigrateLegacy(cmd.Context())

	account, err := store.ResolveAccount(tokenAccount)
	if err != nil {
		return renderError(p, store, err)
	}

	raw := store.RawCredentialJSON(account)
	if raw == "" {
		return fail(p, "no_credentials", fmt.Sprintf("no credentials for %s", account))
	}

	// Raw JSON in both modes; this output is meant to be piped.
	fmt.Fprintln(p.Out, raw)
	return nil
}
