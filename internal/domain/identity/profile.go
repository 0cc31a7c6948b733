package identity

import (
	"regexp"
	"strings"

	"github.com/avaliaai/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the permission level of a profile
type Role string

const (
	RoleUser  Role = "user"  // Regular attendee, can vote, rate and favorite
	RoleOwner Role = "owner" // Event organizer, can manage their own events
	RoleAdmin Role = "admin" // Full access, can manage any event and review owner requests
)

// ParseRole validates a raw role string
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleOwner, RoleAdmin:
		return Role(raw), nil
	default:
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be one of: user, owner, admin")
	}
}

// Password cost for bcrypt
const bcryptCost = 12

// Profile represents a registered account
// It is the aggregate root for identity-related operations
type Profile struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
}

// NewProfile creates a new profile with the default user role
func NewProfile(email, password, displayName string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	profile := &Profile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		DisplayName:       displayName,
		Role:              RoleUser,
	}

	profile.AddDomainEvent(NewProfileRegisteredEvent(profile))

	return profile, nil
}

// VerifyPassword verifies if the provided password matches
func (p *Profile) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword changes the password after verifying the current one
func (p *Profile) ChangePassword(oldPassword, newPassword string) error {
	if !p.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return p.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the current one.
// Used by the password reset flow.
func (p *Profile) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	p.PasswordHash = passwordHash
	p.Touch()

	p.AddDomainEvent(NewPasswordChangedEvent(p))

	return nil
}

// ChangeEmail changes the profile's email address
func (p *Profile) ChangeEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}

	p.Email = email
	p.Touch()

	return nil
}

// SetDisplayName sets the profile's display name
func (p *Profile) SetDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if err := validateDisplayName(displayName); err != nil {
		return err
	}

	p.DisplayName = displayName
	p.Touch()

	return nil
}

// PromoteToOwner grants the owner role.
// Promoting an admin is a no-op so approvals never demote.
func (p *Profile) PromoteToOwner() {
	if p.Role == RoleAdmin || p.Role == RoleOwner {
		return
	}

	oldRole := p.Role
	p.Role = RoleOwner
	p.Touch()

	p.AddDomainEvent(NewProfileRoleChangedEvent(p, oldRole))
}

// SetRole sets the role directly (admin operation)
func (p *Profile) SetRole(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	if p.Role == role {
		return nil
	}

	oldRole := p.Role
	p.Role = role
	p.Touch()

	p.AddDomainEvent(NewProfileRoleChangedEvent(p, oldRole))

	return nil
}

// IsAdmin returns true if the profile has the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanManageEvents returns true if the profile can create and edit events
func (p *Profile) CanManageEvents() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin
}

// Validation functions

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	return nil
}

func validateDisplayName(displayName string) error {
	if displayName == "" {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 120 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 120 characters")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
