package auth

import (
	"errors"
	"testing"
)

func TestResolveAccount(t *testing.T) {
	tests := []struct {
		name     string
		accounts []string
		def      string
		env      string
		explicit string
		want     string
		wantErr  error
	}{
		{
			name:     "explicit wins over everything",
			accounts: []string{"a@x.com", "b@x.com"},
			def:      "a@x.com",
			env:      "a@x.com",
			explicit: "b@x.com",
			want:     "b@x.com",
		},
		{
			name:     "env wins over default",
			accounts: []string{"a@x.com", "b@x.com"},
			def:      "a@x.com",
			env:      "b@x.com",
			want:     "b@x.com",
		},
		{
			name:     "default when no overrides",
			accounts: []string{"a@x.com", "b@x.com"},
			def:      "b@x.com",
			want:     "b@x.com",
		},
		{
			name:     "first account when no default",
			accounts: []string{"a@x.com", "b@x.com"},
			want:     "a@x.com",
		},
		{
			name:     "stale default falls through to first",
			accounts: []string{"a@x.com"},
			def:      "gone@x.com",
			want:     "a@x.com",
		},
		{
			name:    "empty registry",
			wantErr: ErrNoAccountConfigured,
		},
		{
			name:     "unknown explicit account",
			accounts: []string{"a@x.com"},
			explicit: "nope@x.com",
			wantErr:  &AccountNotFoundError{},
		},
		{
			name:     "unknown explicit on empty registry",
			explicit: "nope@x.com",
			wantErr:  &AccountNotFoundError{},
		},
		{
			name:     "unknown env account",
			accounts: []string{"a@x.com"},
			env:      "nope@x.com",
			wantErr:  &AccountNotFoundError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			for _, a := range tt.accounts {
				if err := s.SaveCredential(a, testRecord()); err != nil {
					t.Fatalf("SaveCredential: %v", err)
				}
			}
			if tt.def != "" {
				s.SetDefaultAccount(tt.def)
			} else if len(tt.accounts) > 0 {
				// Clear the default that the first save established so the
				// fallthrough branches are actually exercised.
				s.SetDefaultAccount("")
			}
			t.Setenv(AccountEnvVar, tt.env)

			got, err := s.ResolveAccount(tt.explicit)

			if tt.wantErr != nil {
				var nf *AccountNotFoundError
				if errors.As(tt.wantErr, &nf) {
					if !errors.As(err, &nf) {
						t.Fatalf("ResolveAccount() error = %v, want AccountNotFoundError", err)
					}
				} else if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveAccount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveAccount() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveAccount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccountNotFoundErrorMessage(t *testing.T) {
	e := &AccountNotFoundError{Account: "x@y.com", Available: []string{"a@x.com", "b@x.com"}}
	want := `account "x@y.com" not found (available: a@x.com, b@x.com)`
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	e = &AccountNotFoundError{Account: "x@y.com"}
	want = `account "x@y.com" not found (no accounts configured)`
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
