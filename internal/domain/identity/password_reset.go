package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PasswordResetTTL is how long a reset token stays valid
const PasswordResetTTL = 30 * time.Minute

// PasswordResetToken is a single-use token for the password reset flow.
// Only the SHA-256 hash of the token is stored; the plaintext is
// returned once at creation and sent to the user.
type PasswordResetToken struct {
	shared.BaseEntity
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// NewPasswordResetToken creates a token for a user and returns the
// plaintext value alongside the entity.
func NewPasswordResetToken(userID uuid.UUID) (*PasswordResetToken, string, error) {
	if userID == uuid.Nil {
		return nil, "", shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate reset token")
	}
	plaintext := hex.EncodeToString(raw)

	token := &PasswordResetToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		TokenHash:  HashResetToken(plaintext),
		ExpiresAt:  time.Now().Add(PasswordResetTTL),
	}

	return token, plaintext, nil
}

// HashResetToken hashes a plaintext reset token for storage and lookup
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Consume marks the token used. It fails if the token is expired or
// was already consumed.
func (t *PasswordResetToken) Consume() error {
	if t.UsedAt != nil {
		return shared.NewDomainError("TOKEN_USED", "Reset token has already been used")
	}
	if time.Now().After(t.ExpiresAt) {
		return shared.NewDomainError("TOKEN_EXPIRED", "Reset token has expired")
	}

	now := time.Now()
	t.UsedAt = &now
	t.Touch()

	return nil
}

// IsExpired returns true if the token is past its expiry
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
