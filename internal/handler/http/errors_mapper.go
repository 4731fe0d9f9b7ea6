package http

import (
	"errors"
	"net/http"

	"github.com/declaro/taxsync/internal/service"
	"github.com/declaro/taxsync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:      http.StatusBadRequest,
	service.ErrWrongPassword:            http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid:  http.StatusUnauthorized,
	service.ErrValidationEmptyBatch:     http.StatusBadRequest,
	service.ErrValidationLengthMismatch: http.StatusBadRequest,
	service.ErrValidationBadSignature:   http.StatusBadRequest,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrRecordNotFound:     http.StatusNotFound,
	store.ErrVersionConflict:    http.StatusConflict,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
