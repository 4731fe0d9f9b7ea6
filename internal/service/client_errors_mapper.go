package service

import (
	"errors"
	"fmt"

	"github.com/declaro/taxsync/internal/adapter"
	"github.com/declaro/taxsync/internal/store"
)

// mapAdapterError normalises transport-layer errors into the service error
// taxonomy: authentication failures become [ErrAuth] so the coordinator can
// abort without retrying, everything else passes through for retry
// classification.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, adapter.ErrUnauthorized) || errors.Is(err, adapter.ErrForbidden) {
		return fmt.Errorf("%w: %w", ErrAuth, err)
	}
	return err
}

// isRetryable reports whether a sync-cycle failure is worth another attempt.
// Transport failures, server-side 5xx responses, and local commit failures
// retry with backoff; everything else aborts the cycle.
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, adapter.ErrTransport),
		errors.Is(err, adapter.ErrInternalServerError),
		errors.Is(err, adapter.ErrBadGateway),
		errors.Is(err, store.ErrCommitFailure):
		return true
	}
	return false
}
