package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrAuth marks a non-retryable authentication failure during a sync
	// cycle: the bearer token is missing, expired, or rejected. The
	// coordinator aborts the cycle; pending entries stay in the log.
	ErrAuth = errors.New("authentication failed")

	ErrValidationEmptyBatch     = errors.New("empty batch provided")
	ErrValidationLengthMismatch = errors.New("batch length does not match change count")
	ErrValidationBadSignature   = errors.New("batch signature verification failed")
)
