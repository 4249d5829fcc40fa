package gmail

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// maxAttempts bounds how often a rate-limited request is tried in total.
const maxAttempts = 3

// retryBase is the delay before the first retry; tests shorten it.
var retryBase = time.Second

// runWithRetry executes call, retrying rate-limited requests with
// exponential backoff (1s then 2s between the three attempts, no jitter).
// A rejected or revoked token aborts immediately as TokenExpiredError;
// every other error propagates unchanged on the first attempt.
func runWithRetry(account string, call func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryBase
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := call()
		switch {
		case err == nil:
			return nil
		case isAuthInvalid(err):
			return backoff.Permanent(&TokenExpiredError{Account: account})
		case isRateLimited(err):
			return err
		default:
			return backoff.Permanent(err)
		}
	}, backoff.WithMaxRetries(bo, maxAttempts-1))
}

func isRateLimited(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests
}

func isAuthInvalid(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
