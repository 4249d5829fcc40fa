package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// tokenEndpoint serves a stub OAuth token endpoint that answers every
// refresh with the given status and, on 200, a fixed access token.
func tokenEndpoint(t *testing.T, status int, accessToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":3600}`, accessToken)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidCredentialFreshTokenUnchanged(t *testing.T) {
	s := testStore(t)
	srv := tokenEndpoint(t, http.StatusOK, "should-not-be-used")

	rec := testRecord()
	rec.TokenURI = srv.URL
	rec.Expiry = time.Now().Add(time.Hour)
	s.SaveCredential("a@x.com", rec)

	got, err := s.ValidCredential(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("ValidCredential: %v", err)
	}
	if got == nil {
		t.Fatal("ValidCredential returned nil")
	}
	if got.AccessToken != "access" {
		t.Errorf("AccessToken = %q, want original %q", got.AccessToken, "access")
	}
}

func TestValidCredentialRefreshesAndPersists(t *testing.T) {
	s := testStore(t)
	srv := tokenEndpoint(t, http.StatusOK, "refreshed-access")

	rec := testRecord()
	rec.TokenURI = srv.URL
	rec.Expiry = time.Now().Add(time.Minute) // inside the soft window
	s.SaveCredential("a@x.com", rec)

	got, err := s.ValidCredential(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("ValidCredential: %v", err)
	}
	if got == nil {
		t.Fatal("ValidCredential returned nil")
	}
	if got.AccessToken != "refreshed-access" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "refreshed-access")
	}
	if !got.Expiry.After(time.Now().Add(30 * time.Minute)) {
		t.Errorf("Expiry = %v, not extended", got.Expiry)
	}
	if got.RefreshToken != "refresh" {
		t.Errorf("RefreshToken = %q, want retained %q", got.RefreshToken, "refresh")
	}

	// The refreshed token must be durably stored, not just returned.
	stored, err := s.LoadCredential("a@x.com")
	if err != nil || stored == nil {
		t.Fatalf("LoadCredential after refresh: rec=%v err=%v", stored, err)
	}
	if stored.AccessToken != "refreshed-access" {
		t.Errorf("stored AccessToken = %q, want %q", stored.AccessToken, "refreshed-access")
	}
}

func TestValidCredentialRefreshFailureDeletesRecord(t *testing.T) {
	s := testStore(t)
	srv := tokenEndpoint(t, http.StatusBadRequest, "")

	rec := testRecord()
	rec.TokenURI = srv.URL
	rec.Expiry = time.Now().Add(-time.Minute)
	s.SaveCredential("a@x.com", rec)

	got, err := s.ValidCredential(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("ValidCredential: %v", err)
	}
	if got != nil {
		t.Errorf("ValidCredential = %+v, want nil after rejected refresh", got)
	}
	if s.HasCredential("a@x.com") {
		t.Error("credential survived rejected refresh")
	}
	if got := s.ListAccounts(); len(got) != 0 {
		t.Errorf("ListAccounts() = %v, want empty", got)
	}
}

func TestValidCredentialExpiredWithoutRefreshToken(t *testing.T) {
	s := testStore(t)

	rec := testRecord()
	rec.RefreshToken = ""
	rec.Expiry = time.Now().Add(-time.Minute)
	s.SaveCredential("a@x.com", rec)

	got, err := s.ValidCredential(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("ValidCredential: %v", err)
	}
	if got == nil {
		t.Fatal("ValidCredential = nil, want the stale record as-is")
	}
	if !got.Expired() {
		t.Error("record should still be expired")
	}
	if !s.HasCredential("a@x.com") {
		t.Error("record must not be deleted when no refresh is possible")
	}
}

func TestValidCredentialAbsentAccount(t *testing.T) {
	s := testStore(t)

	got, err := s.ValidCredential(context.Background(), "missing@x.com")
	if err != nil {
		t.Fatalf("ValidCredential: %v", err)
	}
	if got != nil {
		t.Errorf("ValidCredential = %+v, want nil", got)
	}
}

func TestTokenExpiry(t *testing.T) {
	s := testStore(t)

	if got := s.TokenExpiry("missing@x.com"); got != "" {
		t.Errorf("TokenExpiry(missing) = %q, want empty", got)
	}

	rec := testRecord()
	rec.Expiry = time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	s.SaveCredential("a@x.com", rec)

	if got := s.TokenExpiry("a@x.com"); got != "2026-03-14 09:26:53" {
		t.Errorf("TokenExpiry = %q", got)
	}
}
