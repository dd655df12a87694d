package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a Provider failure the way spec.md §7 enumerates
// them. Each vendor adapter maps its SDK errors onto one of these; the
// retry decorator retries the retriable kinds, and the task executor
// records the kind on the task it fails. No kind aborts the whole query:
// an auth error fails the current task like any other non-retriable
// error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuth
	KindRateLimited
	KindTransient
	KindBadRequest
	KindTimeout
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth_error"
	case KindRateLimited:
		return "rate_limited"
	case KindTransient:
		return "transient"
	case KindBadRequest:
		return "bad_request"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Retriable reports whether a Provider call that failed with this kind of
// error should be retried with backoff (spec.md §5, §7).
func (k ErrorKind) Retriable() bool {
	return k == KindRateLimited || k == KindTransient
}

// ProviderError wraps a vendor SDK error with the structural kind the rest
// of the pipeline reasons about. Vendor adapters are responsible for
// classifying their own errors into one of these kinds; nothing above the
// provider layer should inspect vendor-specific error types directly.
type ProviderError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s provider: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(kind ErrorKind, provider string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Err: err}
}

// ErrStorageNotFound is returned by Storage.GetDocument when the requested
// document id does not exist (spec.md §6.1, §7 item 5).
var ErrStorageNotFound = errors.New("docpixie: document not found")

// ErrCanceled is returned by TaskExecutor.Execute when the caller's
// context is already canceled (spec.md §5, §7 item 6). The orchestrator
// does not return it: it stops the task loop and reports the cancellation
// through QueryResult.Canceled.
var ErrCanceled = errors.New("docpixie: query canceled")

// ErrParse marks a component's failure to parse a model response against
// its expected JSON schema (spec.md §7 item 4). No component returns or
// wraps it: each component applies its documented fallback directly on
// the error it gets from internal/jsonutil.
var ErrParse = errors.New("docpixie: model response did not match expected schema")
