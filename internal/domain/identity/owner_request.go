package identity

import (
	"strings"
	"time"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OwnerRequestStatus represents the review state of an owner request
type OwnerRequestStatus string

const (
	OwnerRequestPending  OwnerRequestStatus = "pending"
	OwnerRequestApproved OwnerRequestStatus = "approved"
	OwnerRequestRejected OwnerRequestStatus = "rejected"
)

// OwnerRequest represents an application to become an event organizer.
// A user can have at most one pending request at a time.
type OwnerRequest struct {
	shared.BaseAggregateRoot
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
	Status        OwnerRequestStatus
	ReviewNote    string
	ReviewedBy    *uuid.UUID
	ReviewedAt    *time.Time
}

// OwnerRequestInput carries the applicant-supplied fields
type OwnerRequestInput struct {
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
	TermsAccepted bool
}

// NewOwnerRequest creates a pending owner request for a user
func NewOwnerRequest(userID uuid.UUID, input OwnerRequestInput) (*OwnerRequest, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if !input.TermsAccepted {
		return nil, shared.NewDomainError("TERMS_NOT_ACCEPTED", "Terms of service must be accepted")
	}

	venueName := strings.TrimSpace(input.VenueName)
	if venueName == "" {
		return nil, shared.NewDomainError("INVALID_VENUE_NAME", "Venue name cannot be empty")
	}
	if len(venueName) > 200 {
		return nil, shared.NewDomainError("INVALID_VENUE_NAME", "Venue name cannot exceed 200 characters")
	}

	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot be empty")
	}
	if len(phone) > 50 {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	request := &OwnerRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		VenueName:         venueName,
		Address:           strings.TrimSpace(input.Address),
		City:              strings.TrimSpace(input.City),
		State:             strings.TrimSpace(input.State),
		Phone:             phone,
		Instagram:         strings.TrimSpace(input.Instagram),
		Website:           strings.TrimSpace(input.Website),
		CNPJ:              strings.TrimSpace(input.CNPJ),
		Note:              strings.TrimSpace(input.Note),
		HeardFrom:         strings.TrimSpace(input.HeardFrom),
		TermsAccepted:     true,
		Status:            OwnerRequestPending,
	}

	request.AddDomainEvent(NewOwnerRequestSubmittedEvent(request))

	return request, nil
}

// AttachProof records the URL of the uploaded proof document
func (r *OwnerRequest) AttachProof(url string) error {
	if r.Status != OwnerRequestPending {
		return shared.NewDomainError("REQUEST_ALREADY_REVIEWED", "Only pending requests can be modified")
	}

	r.ProofURL = url
	r.Touch()

	return nil
}

// Approve marks the request approved. Valid only from the pending state.
func (r *OwnerRequest) Approve(reviewerID uuid.UUID) error {
	return r.review(reviewerID, OwnerRequestApproved, "")
}

// Reject marks the request rejected with an optional note for the applicant
func (r *OwnerRequest) Reject(reviewerID uuid.UUID, note string) error {
	return r.review(reviewerID, OwnerRequestRejected, strings.TrimSpace(note))
}

func (r *OwnerRequest) review(reviewerID uuid.UUID, status OwnerRequestStatus, note string) error {
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer ID cannot be empty")
	}
	if r.Status != OwnerRequestPending {
		return shared.NewDomainError("REQUEST_ALREADY_REVIEWED", "Request has already been reviewed")
	}

	now := time.Now()
	r.Status = status
	r.ReviewNote = note
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.Touch()

	r.AddDomainEvent(NewOwnerRequestReviewedEvent(r))

	return nil
}

// IsPending returns true if the request is awaiting review
func (r *OwnerRequest) IsPending() bool {
	return r.Status == OwnerRequestPending
}
