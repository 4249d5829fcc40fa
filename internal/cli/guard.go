package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/auth"
	"github.com/Talk-Point/gmail-cli/internal/gmail"
	"github.com/Talk-Point/gmail-cli/internal/output"
)

// fail renders the error for the active output mode and returns the
// sentinel so Execute exits non-zero without printing again.
func fail(p *output.Printer, code, message string, details ...string) error {
	if p.JSON {
		p.JSONError(code, message, details...)
	} else {
		p.Error(message, details...)
	}
	return errReported
}

// requireAuth runs at the top of every handler that talks to the API. It
// opportunistically migrates a pre-multi-account credential, resolves the
// requested account, and verifies a usable credential exists for it.
func requireAuth(ctx context.Context, p *output.Printer, store *auth.Store, account string) error {
	store.MigrateLegacy(ctx)

	resolved, err := store.ResolveAccount(account)
	if err != nil {
		return renderError(p, store, err)
	}

	if !store.IsAuthenticated(ctx, resolved) {
		return fail(p, "not_authenticated", "not authenticated",
			"Run 'gmail auth login' first.")
	}
	return nil
}

// openClient builds an API client for the account, rendering any failure.
func openClient(ctx context.Context, p *output.Printer, store *auth.Store, account string) (*gmail.Client, error) {
	client, err := gmail.NewClient(ctx, store, account)
	if err != nil {
		return nil, renderError(p, store, err)
	}
	return client, nil
}

// renderError maps domain errors onto exit messages and JSON error codes.
// A rejected token additionally drops the stored credential so the next
// invocation prompts for a fresh login.
func renderError(p *output.Printer, store *auth.Store, err error) error {
	var accountNotFound *auth.AccountNotFoundError
	var tokenExpired *gmail.TokenExpiredError
	var messageNotFound *gmail.MessageNotFoundError
	var draftNotFound *gmail.DraftNotFoundError
	var sendErr *gmail.SendError

	switch {
	case errors.As(err, &accountNotFound):
		if len(accountNotFound.Available) > 0 {
			return fail(p, "account_not_found", err.Error(),
				"Available accounts: "+strings.Join(accountNotFound.Available, ", "))
		}
		return fail(p, "account_not_found", err.Error(),
			"Run 'gmail auth login' to add an account.")

	case errors.Is(err, auth.ErrNoAccountConfigured):
		return fail(p, "no_account_configured", "no account configured",
			"Run 'gmail auth login' to add an account.")

	case errors.Is(err, gmail.ErrNotAuthenticated):
		return fail(p, "not_authenticated", "not authenticated",
			"Run 'gmail auth login' first.")

	case errors.As(err, &tokenExpired):
		if store != nil && tokenExpired.Account != "" {
			_ = store.DeleteCredential(tokenExpired.Account)
		}
		return fail(p, "token_expired", err.Error(),
			"Run 'gmail auth login' to re-authorize.")

	case errors.As(err, &messageNotFound):
		return fail(p, "message_not_found", err.Error())

	case errors.As(err, &draftNotFound):
		return fail(p, "draft_not_found", err.Error())

	case errors.As(err, &sendErr):
		return fail(p, "send_failed", sendErr.Message)

	default:
		return fail(p, "error", err.Error())
	}
}

// addAccountFlag registers the shared --account override.
func addAccountFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "account", "A", "",
		"account email to use (default: resolved account)")
}
