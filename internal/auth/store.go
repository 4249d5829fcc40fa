package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keyring service under which all entries live.
const ServiceName = "gmail-cli"

const (
	accountsListKey   = "accounts_list"
	defaultAccountKey = "default_account"
	legacyKey         = "oauth_credentials"
)

// refreshWindow is the soft expiry margin: tokens within this window of
// their expiry are refreshed proactively.
const refreshWindow = 5 * time.Minute

// Record is the stored OAuth token bundle for one account. A record is
// either fully present in the store or absent; partial records are never
// written.
type Record struct {
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry"`
}

// Expired reports whether the access token's expiry has passed. Records
// without a known expiry are treated as still valid.
func (r *Record) Expired() bool {
	return !r.Expiry.IsZero() && !time.Now().Before(r.Expiry)
}

// NeedsRefresh reports whether the access token is expired or expires
// within the soft window.
func (r *Record) NeedsRefresh() bool {
	return !r.Expiry.IsZero() && !time.Now().Before(r.Expiry.Add(-refreshWindow))
}

// Store persists credential records and the account registry in the OS
// keyring (macOS Keychain, Windows Credential Manager, Linux Secret
// Service). The CLI process does not own this state; it reads and writes
// it on each invocation.
type Store struct {
	service string
}

// NewStore returns a store bound to the default keyring service.
func NewStore() *Store {
	return &Store{service: ServiceName}
}

func accountKey(account string) string {
	return "oauth_" + account
}

// ListAccounts returns all registered accounts in authorization order.
// It never fails; a missing or unreadable registry is an empty one.
func (s *Store) ListAccounts() []string {
	data, err := keyring.Get(s.service, accountsListKey)
	if err != nil || data == "" {
		return nil
	}
	var accounts []string
	if err := json.Unmarshal([]byte(data), &accounts); err != nil {
		return nil
	}
	return accounts
}

// DefaultAccount returns the default account, or "" if unset.
func (s *Store) DefaultAccount() string {
	account, err := keyring.Get(s.service, defaultAccountKey)
	if err != nil {
		return ""
	}
	return account
}

// SetDefaultAccount overwrites the default pointer unconditionally; it does
// not check the registry. Callers handling user input must validate the
// account against ListAccounts first.
func (s *Store) SetDefaultAccount(account string) error {
	if err := keyring.Set(s.service, defaultAccountKey, account); err != nil {
		return fmt.Errorf("set default account: %w", err)
	}
	return nil
}

// SaveCredential upserts the record under the account key and registers the
// account. The first account ever registered becomes the default.
func (s *Store) SaveCredential(account string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	if err := keyring.Set(s.service, accountKey(account), string(data)); err != nil {
		return fmt.Errorf("store credential for %s: %w", account, err)
	}

	accounts := s.ListAccounts()
	if !slices.Contains(accounts, account) {
		accounts = append(accounts, account)
		if err := s.writeAccounts(accounts); err != nil {
			return err
		}
	}

	if len(accounts) == 1 {
		return s.SetDefaultAccount(account)
	}
	return nil
}

// LoadCredential returns the stored record for the account, or nil if no
// usable record exists.
func (s *Store) LoadCredential(account string) (*Record, error) {
	data, err := keyring.Get(s.service, accountKey(account))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential for %s: %w", account, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// A corrupt entry is treated as absent; the user re-authenticates.
		return nil, nil
	}
	return &rec, nil
}

// HasCredential reports whether a record is stored for the account.
func (s *Store) HasCredential(account string) bool {
	_, err := keyring.Get(s.service, accountKey(account))
	return err == nil
}

// DeleteCredential removes the record and the registry entry. Deleting the
// default account reassigns the pointer to the first remaining account, or
// clears it when none remain. Deleting a non-existent record is not an
// error.
func (s *Store) DeleteCredential(account string) error {
	if err := keyring.Delete(s.service, accountKey(account)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete credential for %s: %w", account, err)
	}

	accounts := s.ListAccounts()
	if i := slices.Index(accounts, account); i >= 0 {
		accounts = slices.Delete(accounts, i, i+1)
		if err := s.writeAccounts(accounts); err != nil {
			return err
		}
	}

	if s.DefaultAccount() == account {
		if len(accounts) > 0 {
			return s.SetDefaultAccount(accounts[0])
		}
		if err := keyring.Delete(s.service, defaultAccountKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("clear default account: %w", err)
		}
	}
	return nil
}

// ClearAll deletes every registered account's record, the registry, and the
// default pointer. Individual deletion failures do not abort the remaining
// deletions. It returns the accounts that were registered beforehand.
func (s *Store) ClearAll() []string {
	accounts := s.ListAccounts()
	for _, account := range accounts {
		_ = keyring.Delete(s.service, accountKey(account))
	}
	_ = keyring.Delete(s.service, accountsListKey)
	_ = keyring.Delete(s.service, defaultAccountKey)
	return accounts
}

// RawCredentialJSON returns the stored credential entry verbatim, for
// transferring authentication to a headless machine. Returns "" if absent.
func (s *Store) RawCredentialJSON(account string) string {
	data, err := keyring.Get(s.service, accountKey(account))
	if err != nil {
		return ""
	}
	return data
}

func (s *Store) writeAccounts(accounts []string) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode account registry: %w", err)
	}
	if err := keyring.Set(s.service, accountsListKey, string(data)); err != nil {
		return fmt.Errorf("store account registry: %w", err)
	}
	return nil
}
