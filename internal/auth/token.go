package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// Token returns the record as an oauth2 token usable by API clients.
func (r *Record) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       r.Expiry,
	}
}

func (r *Record) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		Scopes:       r.Scopes,
		Endpoint:     oauth2.Endpoint{TokenURL: r.TokenURI},
	}
}

// ValidCredential produces a currently valid credential for the account.
// A stale access token is refreshed against the record's token endpoint and
// the new token persisted in place. A rejected refresh deletes the stored
// record, forcing re-authorization; the caller sees nil. An expired record
// without a refresh token is returned as-is for the API call to reject.
func (s *Store) ValidCredential(ctx context.Context, account string) (*Record, error) {
	rec, err := s.LoadCredential(account)
	if err != nil || rec == nil {
		return nil, err
	}

	if !rec.NeedsRefresh() || rec.RefreshToken == "" {
		return rec, nil
	}

	src := rec.oauthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		if derr := s.DeleteCredential(account); derr != nil {
			return nil, derr
		}
		return nil, nil
	}

	rec.AccessToken = fresh.AccessToken
	rec.Expiry = fresh.Expiry
	if fresh.RefreshToken != "" {
		rec.RefreshToken = fresh.RefreshToken
	}
	if err := s.SaveCredential(account, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// IsAuthenticated reports whether a valid credential can be produced for
// the account. With an empty account it checks the resolved default (or
// first) account.
func (s *Store) IsAuthenticated(ctx context.Context, account string) bool {
	if account == "" {
		resolved, err := s.ResolveAccount("")
		if err != nil {
			return false
		}
		account = resolved
	}
	rec, err := s.ValidCredential(ctx, account)
	return err == nil && rec != nil && !rec.Expired()
}

// TokenExpiry returns the stored access token expiry formatted for display,
// or "" when no credential (or no known expiry) exists.
func (s *Store) TokenExpiry(account string) string {
	rec, err := s.LoadCredential(account)
	if err != nil || rec == nil || rec.Expiry.IsZero() {
		return ""
	}
	return rec.Expiry.Local().Format("2006-01-02 15:04:05")
}
