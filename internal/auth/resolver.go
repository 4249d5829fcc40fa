package auth

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// AccountEnvVar selects the account for an invocation when no explicit
// account is given.
const AccountEnvVar = "GMAIL_ACCOUNT"

// AccountNotFoundError reports a requested account that is not registered.
type AccountNotFoundError struct {
	Account   string
	Available []string
}

func (e *AccountNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("account %q not found (no accounts configured)", e.Account)
	}
	return fmt.Sprintf("account %q not found (available: %s)", e.Account, strings.Join(e.Available, ", "))
}

// ErrNoAccountConfigured is returned when the registry is empty and no
// explicit or environment override was given.
var ErrNoAccountConfigured = errors.New("no account configured")

// ResolveAccount picks the account for this invocation. Priority order:
//
//  1. the explicit account, when non-empty
//  2. the GMAIL_ACCOUNT environment variable
//  3. the registered default account
//  4. the first account in registry order
//
// An explicit or environment override that is not registered always fails
// with AccountNotFoundError, even when the registry is empty.
func (s *Store) ResolveAccount(explicit string) (string, error) {
	accounts := s.ListAccounts()

	if explicit != "" {
		if !slices.Contains(accounts, explicit) {
			return "", &AccountNotFoundError{Account: explicit, Available: accounts}
		}
		return explicit, nil
	}

	if env := os.Getenv(AccountEnvVar); env != "" {
		if !slices.Contains(accounts, env) {
			return "", &AccountNotFoundError{Account: env, Available: accounts}
		}
		return env, nil
	}

	if def := s.DefaultAccount(); def != "" && slices.Contains(accounts, def) {
		return def, nil
	}

	if len(accounts) > 0 {
		return accounts[0], nil
	}
	return "", ErrNoAccountConfigured
}
