package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Doer is the slice of http.Client the fetchers need.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when an upstream replies with a non-2xx status.
// Handlers surface it as 502 with the upstream status/body embedded.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// RetryPolicy bounds the retry fetcher. Zero fields fall back to the
// defaults: 3 attempts, 15s per attempt, 500ms base delay.
type RetryPolicy struct {
	Attempts  int
	Timeout   time.Duration
	BaseDelay time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Timeout <= 0 {
		p.Timeout = 15 * time.Second
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 500 * time.Millisecond
	}
	return p
}

// sleep is an indirection so tests can record backoff delays without
// actually waiting. The real implementation is interruptible by ctx.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FetchWithRetry issues up to p.Attempts time-bounded GETs against url.
// A 2xx response returns the body immediately. Any other outcome (non-2xx
// status, transport error, per-attempt timeout) is recorded and, unless it
// was the last attempt, followed by a linear backoff of BaseDelay*(i+1).
// All non-2xx statuses are treated the same; there is no jitter and no
// circuit breaker. After the last attempt the last recorded error is
// returned.
func FetchWithRetry(ctx context.Context, client Doer, url string, p RetryPolicy) ([]byte, error) {
	p = p.withDefaults()

	var lastErr error
	for i := 0; i < p.Attempts; i++ {
		body, err := fetchOnce(ctx, client, url, p.Timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if i < p.Attempts-1 {
			if serr := sleep(ctx, p.BaseDelay*time.Duration(i+1)); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, errors.Wrapf(lastErr, "all %d attempts failed for %s", p.Attempts, url)
}

// fetchOnce performs a single GET bounded by timeout. The timeout cancels
// only this attempt's request, not the caller's context.
func fetchOnce(ctx context.Context, client Doer, url string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
