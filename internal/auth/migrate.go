package auth

import (
	"context"
	"encoding/json"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// MigrateLegacy upgrades the pre-multi-account keyring entry into the
// registry format. The account identity is recovered from the profile
// endpoint. Best effort: any failure leaves the store untouched; it is
// safe to call on every invocation.
func (s *Store) MigrateLegacy(ctx context.Context) bool {
	data, err := keyring.Get(s.service, legacyKey)
	if err != nil || data == "" {
		return false
	}

	// Already migrated: just drop the stale legacy entry.
	if _, err := keyring.Get(s.service, accountsListKey); err == nil {
		_ = keyring.Delete(s.service, legacyKey)
		return false
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return false
	}

	email, err := profileEmail(ctx, oauth2.StaticTokenSource(rec.Token()))
	if err != nil || email == "" {
		return false
	}

	if err := s.SaveCredential(email, &rec); err != nil {
		return false
	}
	_ = s.SetDefaultAccount(email)
	_ = keyring.Delete(s.service, legacyKey)
	return true
}
