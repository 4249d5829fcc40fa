package gmail

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func init() {
	retryBase = time.Millisecond
}

func apiError(code int) error {
	return &googleapi.Error{Code: code, Message: http.StatusText(code)}
}

func TestRunWithRetryRateLimited(t *testing.T) {
	attempts := 0
	err := runWithRetry("a@x.com", func() error {
		attempts++
		if attempts < 3 {
			return apiError(http.StatusTooManyRequests)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("runWithRetry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRunWithRetryBackoffDoubles(t *testing.T) {
	old := retryBase
	retryBase = 50 * time.Millisecond
	defer func() { retryBase = old }()

	var stamps []time.Time
	_ = runWithRetry("a@x.com", func() error {
		stamps = append(stamps, time.Now())
		return apiError(http.StatusTooManyRequests)
	})

	if len(stamps) != maxAttempts {
		t.Fatalf("attempts = %d, want %d", len(stamps), maxAttempts)
	}
	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	if first < 50*time.Millisecond {
		t.Errorf("first delay = %v, want >= base", first)
	}
	if second < 100*time.Millisecond {
		t.Errorf("second delay = %v, want >= doubled base", second)
	}
	if second < first {
		t.Errorf("delays not increasing: %v then %v", first, second)
	}
}

func TestRunWithRetryExhausted(t *testing.T) {
	attempts := 0
	err := runWithRetry("a@x.com", func() error {
		attempts++
		return apiError(http.StatusTooManyRequests)
	})
	if attempts != maxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, maxAttempts)
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusTooManyRequests {
		t.Errorf("error = %v, want final 429", err)
	}
}

func TestRunWithRetryAuthInvalid(t *testing.T) {
	attempts := 0
	err := runWithRetry("a@x.com", func() error {
		attempts++
		return apiError(http.StatusUnauthorized)
	})
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on auth failure)", attempts)
	}
	var expired *TokenExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("error = %v, want TokenExpiredError", err)
	}
	if expired.Account != "a@x.com" {
		t.Errorf("Account = %q, want %q", expired.Account, "a@x.com")
	}
}

func TestRunWithRetryRefreshRejection(t *testing.T) {
	err := runWithRetry("a@x.com", func() error {
		return &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}}
	})
	var expired *TokenExpiredError
	if !errors.As(err, &expired) {
		t.Errorf("error = %v, want TokenExpiredError", err)
	}
}

func TestRunWithRetryOtherErrorsPropagate(t *testing.T) {
	attempts := 0
	wantErr := apiError(http.StatusBadRequest)
	err := runWithRetry("a@x.com", func() error {
		attempts++
		return wantErr
	})
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v unchanged", err, wantErr)
	}
}

func TestRunWithRetrySuccess(t *testing.T) {
	attempts := 0
	if err := runWithRetry("a@x.com", func() error {
		attempts++
		return nil
	}); err != nil {
		t.Fatalf("runWithRetry: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestTokenExpiredErrorMessage(t *testing.T) {
	e := &TokenExpiredError{Account: "a@x.com"}
	if got := e.Error(); got != `token for "a@x.com" expired or revoked` {
		t.Errorf("Error() = %q", got)
	}
	e = &TokenExpiredError{}
	if got := e.Error(); got != "token expired or revoked" {
		t.Errorf("Error() = %q", got)
	}
}
