package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Scopes requested during authorization.
var Scopes = []string{
	gmailv1.GmailReadonlyScope,
	gmailv1.GmailSendScope,
	gmailv1.GmailComposeScope,
	gmailv1.GmailModifyScope,
	gmailv1.GmailSettingsBasicScope,
}

// authTimeout bounds how long we wait for the browser consent flow.
const authTimeout = 5 * time.Minute

// LoginResult describes a completed authorization.
type LoginResult struct {
	Email  string
	Record *Record
	First  bool // first account ever registered, now the default
}

// LoadOAuthConfig reads the OAuth client configuration (credentials.json,
// Desktop app type) downloaded from the Google Cloud console.
func LoadOAuthConfig(credPath string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w\n\nTo set up Gmail API:\n1. Go to https://console.cloud.google.com/\n2. Create a project and enable the Gmail API\n3. Create OAuth 2.0 credentials (Desktop app)\n4. Download and save to: %s", err, credPath)
	}

	config, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return config, nil
}

// Login runs the browser consent flow, resolves the account identity from
// the profile endpoint, and persists the resulting credential record.
func (s *Store) Login(ctx context.Context, credPath string, port int) (*LoginResult, error) {
	config, err := LoadOAuthConfig(credPath)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromWeb(ctx, config, port)
	if err != nil {
		return nil, err
	}

	email, err := profileEmail(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, err
	}

	rec := &Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenURI:     config.Endpoint.TokenURL,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
		Expiry:       token.Expiry,
	}

	first := len(s.ListAccounts()) == 0
	if err := s.SaveCredential(email, rec); err != nil {
		return nil, err
	}

	return &LoginResult{Email: email, Record: rec, First: first}, nil
}

// Logout deletes stored credentials. With all set, every account is
// removed. It returns the accounts that were signed out.
func (s *Store) Logout(account string, all bool) ([]string, error) {
	if all {
		return s.ClearAll(), nil
	}

	if account == "" {
		resolved, err := s.ResolveAccount("")
		if err != nil {
			// Nothing to sign out of.
			return nil, nil
		}
		account = resolved
	}

	if err := s.DeleteCredential(account); err != nil {
		return nil, err
	}
	return []string{account}, nil
}

// tokenFromWeb performs the OAuth flow via browser, receiving the
// authorization code on a localhost callback.
func tokenFromWeb(ctx context.Context, config *oauth2.Config, port int) (*oauth2.Token, error) {
	state := uuid.NewString()

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			errChan <- errors.New("invalid state parameter")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- errors.New("no code in callback")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><h1>Authentication successful!</h1><p>You can close this window.</p></body></html>`)
		codeChan <- code
	})

	server := &http.Server{Addr: fmt.Sprintf("localhost:%d", port), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer func() { _ = server.Shutdown(ctx) }()

	config.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	// Instructions go to stderr so they never pollute JSON output on stdout.
	fmt.Fprintln(os.Stderr, "Opening browser for Google authentication...")
	fmt.Fprintln(os.Stderr, "If the browser doesn't open, visit this URL:")
	fmt.Fprintln(os.Stderr, authURL)
	fmt.Fprintln(os.Stderr)

	openBrowser(authURL)

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, errors.New("authentication timeout")
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// profileEmail queries the Gmail profile endpoint once to resolve the
// authorized account's identity.
func profileEmail(ctx context.Context, ts oauth2.TokenSource) (string, error) {
	svc, err := gmailv1.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return "", fmt.Errorf("failed to create gmail service: %w", err)
	}

	profile, err := svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// openBrowser opens the URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return
	}

	_ = cmd.Start()
}
