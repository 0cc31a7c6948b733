package identity

import (
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	ProfileRegisteredEventType     = "identity.profile.registered"
	ProfileRoleChangedEventType    = "identity.profile.role_changed"
	PasswordChangedEventType       = "identity.profile.password_changed"
	OwnerRequestSubmittedEventType = "identity.owner_request.submitted"
	OwnerRequestReviewedEventType  = "identity.owner_request.reviewed"
)

const (
	aggregateTypeProfile      = "Profile"
	aggregateTypeOwnerRequest = "OwnerRequest"
)

// ProfileRegisteredEvent is raised when a new account is created
type ProfileRegisteredEvent struct {
	shared.BaseDomainEvent
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// NewProfileRegisteredEvent creates a new ProfileRegisteredEvent
func NewProfileRegisteredEvent(p *Profile) *ProfileRegisteredEvent {
	return &ProfileRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ProfileRegisteredEventType, aggregateTypeProfile, p.ID),
		Email:           p.Email,
		DisplayName:     p.DisplayName,
	}
}

// ProfileRoleChangedEvent is raised when a profile's role changes
type ProfileRoleChangedEvent struct {
	shared.BaseDomainEvent
	OldRole Role `json:"old_role"`
	NewRole Role `json:"new_role"`
}

// NewProfileRoleChangedEvent creates a new ProfileRoleChangedEvent
func NewProfileRoleChangedEvent(p *Profile, oldRole Role) *ProfileRoleChangedEvent {
	return &ProfileRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ProfileRoleChangedEventType, aggregateTypeProfile, p.ID),
		OldRole:         oldRole,
		NewRole:         p.Role,
	}
}

// PasswordChangedEvent is raised whenever a profile's password is set
type PasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewPasswordChangedEvent creates a new PasswordChangedEvent
func NewPasswordChangedEvent(p *Profile) *PasswordChangedEvent {
	return &PasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(PasswordChangedEventType, aggregateTypeProfile, p.ID),
		Email:           p.Email,
	}
}

// OwnerRequestSubmittedEvent is raised when an owner request is filed
type OwnerRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	VenueName string    `json:"venue_name"`
}

// NewOwnerRequestSubmittedEvent creates a new OwnerRequestSubmittedEvent
func NewOwnerRequestSubmittedEvent(r *OwnerRequest) *OwnerRequestSubmittedEvent {
	return &OwnerRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(OwnerRequestSubmittedEventType, aggregateTypeOwnerRequest, r.ID),
		UserID:          r.UserID,
		VenueName:       r.VenueName,
	}
}

// OwnerRequestReviewedEvent is raised when a request is approved or rejected
type OwnerRequestReviewedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID          `json:"user_id"`
	Status OwnerRequestStatus `json:"status"`
}

// NewOwnerRequestReviewedEvent creates a new OwnerRequestReviewedEvent
func NewOwnerRequestReviewedEvent(r *OwnerRequest) *OwnerRequestReviewedEvent {
	return &OwnerRequestReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(OwnerRequestReviewedEventType, aggregateTypeOwnerRequest, r.ID),
		UserID:          r.UserID,
		Status:          r.Status,
	}
}
