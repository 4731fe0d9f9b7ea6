package service

import (
	"context"

	"github.com/declaro/taxsync/models"
)

// AuthService handles server-side account registration, credential
// verification, and JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SyncApplyService is the server-side batch processor. It validates an
// uploaded batch and applies its changes strictly in request order,
// producing one result per change in the same order.
type SyncApplyService interface {
	// ApplyBatch validates the batch envelope (length, transport signature,
	// per-change shape) and applies every change for the user. Envelope
	// violations fail the whole request; per-change problems surface as
	// rejected or conflict results without failing the batch.
	ApplyBatch(ctx context.Context, userID int64, req models.BatchRequest) (models.BatchResponse, error)

	// GetStates returns the server-side state of every record the user
	// owns, tombstones included.
	GetStates(ctx context.Context, userID int64) ([]models.RecordState, error)
}
