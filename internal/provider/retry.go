package provider

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	"github.com/docpixie/agent/internal/domain"
	"github.com/docpixie/agent/internal/observability"
)

// call is the shape every vendor adapter's inner request takes; withRetry
// wraps it uniformly regardless of which of ProcessText/ProcessMultimodal
// is calling through.
type call func(ctx context.Context) (string, error)

// withRetry retries a Provider call with exponential backoff when it fails
// with a domain.ErrorKind that spec.md §5/§7 marks retriable
// (RateLimited, Transient), bounded by attempts. Any other error —
// including a bad request or auth failure — returns immediately.
//
// Retries never cross an iteration boundary: withRetry is wrapped around a
// single Provider call, never around a whole task or plan step, so a
// retried call always replays the exact same request.
func withRetry(ctx context.Context, providerName string, attempts int, fn call) (string, error) {
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(attempts-1))
	policy = backoff.WithContext(policy, ctx)

	var reply string
	operation := func() error {
		var err error
		reply, err = fn(ctx)
		if err == nil {
			return nil
		}

		var perr *domain.ProviderError
		if errors.As(err, &perr) && perr.Kind.Retriable() {
			observability.LoggerFromContext(ctx).Warn("provider call retrying",
				"provider", providerName, "kind", perr.Kind.String())
			return err
		}
		// Non-retriable: stop the backoff loop by wrapping in Permanent.
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return reply, nil
}
