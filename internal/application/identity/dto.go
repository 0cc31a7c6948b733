package identity

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// SignupInput contains the input for account registration
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
}

// SigninInput contains the input for sign-in
type SigninInput struct {
	Email    string
	Password string
}

// AuthResult contains the token pair and profile returned after
// signup, signin and refresh
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Profile               ProfileInfo
}

// ProfileInfo is the application-level view of a profile
type ProfileInfo struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Role        identity.Role
	CreatedAt   time.Time
}

// ToProfileInfo maps a profile aggregate to its info view
func ToProfileInfo(p *identity.Profile) ProfileInfo {
	return ProfileInfo{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		CreatedAt:   p.CreatedAt,
	}
}

// SignoutInput identifies the tokens to revoke on sign-out
type SignoutInput struct {
	UserID     uuid.UUID
	AccessJTI  string
	AccessTTL  time.Duration
	RefreshJTI string
	RefreshTTL time.Duration
}

// UpdateProfileInput contains the editable profile fields
type UpdateProfileInput struct {
	DisplayName string
}

// ChangeEmailInput contains the input for an email change
type ChangeEmailInput struct {
	Email string
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// PasswordResetRequestResult carries the single-use plaintext token.
// The caller is responsible for delivering it to the user; it is never
// stored.
type PasswordResetRequestResult struct {
	Token     string
	ExpiresAt time.Time
}

// PasswordResetConfirmInput contains the token and the new password
type PasswordResetConfirmInput struct {
	Token       string
	NewPassword string
}

// OwnerRequestResult is the application-level view of an owner request
type OwnerRequestResult struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	VenueName     string
	Address       string
	City          string
	State         string
	Phone         string
	Instagram     string
	Website       string
	CNPJ          string
	Note          string
	HeardFrom     string
	ProofURL      string
	TermsAccepted bool
	Status        identity.OwnerRequestStatus
	ReviewNote    string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
}

// ToOwnerRequestResult maps an owner request to its result view
func ToOwnerRequestResult(r *identity.OwnerRequest) OwnerRequestResult {
	return OwnerRequestResult{
		ID:            r.ID,
		UserID:        r.UserID,
		VenueName:     r.VenueName,
		Address:       r.Address,
		City:          r.City,
		State:         r.State,
		Phone:         r.Phone,
		Instagram:     r.Instagram,
		Website:       r.Website,
		CNPJ:          r.CNPJ,
		Note:          r.Note,
		HeardFrom:     r.HeardFrom,
		ProofURL:      r.ProofURL,
		TermsAccepted: r.TermsAccepted,
		Status:        r.Status,
		ReviewNote:    r.ReviewNote,
		ReviewedAt:    r.ReviewedAt,
		CreatedAt:     r.CreatedAt,
	}
}

// UploadProofInput carries an uploaded proof document for the caller's
// pending owner request
type UploadProofInput struct {
	UserID      uuid.UUID
	ContentType string
	Data        []byte
}
