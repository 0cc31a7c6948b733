package identity

import (
	"context"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProfileRepository persists profiles. Email is unique.
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[Profile], error)
	Save(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OwnerRequestRepository persists owner requests. At most one pending
// request per user, enforced by a partial unique index.
type OwnerRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OwnerRequest, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) (*OwnerRequest, error)
	ListByStatus(ctx context.Context, status OwnerRequestStatus, filter shared.Filter) (*shared.Paginated[OwnerRequest], error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*OwnerRequest, error)
	Save(ctx context.Context, request *OwnerRequest) error
}

// PasswordResetRepository persists reset tokens, looked up by token hash.
type PasswordResetRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*PasswordResetToken, error)
	Save(ctx context.Context, token *PasswordResetToken) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
