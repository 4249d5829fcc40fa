package gmail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/Talk-Point/gmail-cli/internal/auth"
)

// Client wraps the Gmail API service for one resolved account.
type Client struct {
	svc     *gmailv1.Service
	account string
}

// NewClient resolves the account, obtains a valid credential, and builds an
// API client for it. The token source is static: a token that goes stale
// mid-call surfaces as TokenExpiredError rather than being refreshed behind
// the stored record's back.
func NewClient(ctx context.Context, store *auth.Store, explicit string) (*Client, error) {
	account, err := store.ResolveAccount(explicit)
	if err != nil {
		return nil, err
	}

	rec, err := store.ValidCredential(ctx, account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotAuthenticated
	}

	svc, err := gmailv1.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(rec.Token())))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{svc: svc, account: account}, nil
}

// Account returns the account this client operates as.
func (c *Client) Account() string {
	return c.account
}
