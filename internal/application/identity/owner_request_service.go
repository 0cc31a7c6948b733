package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/avaliaai/backend/internal/infrastructure/persistence"
	"github.com/avaliaai/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OwnerRequestService handles owner applications and their admin
// review. Approval flips the request status and promotes the
// applicant's role in a single database transaction.
type OwnerRequestService struct {
	requestRepo    identity.OwnerRequestRepository
	profileRepo    identity.ProfileRepository
	db             *gorm.DB
	objectStorage  storage.ObjectStorage
	storageCfg     config.StorageConfig
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewOwnerRequestService creates a new owner request service
func NewOwnerRequestService(
	requestRepo identity.OwnerRequestRepository,
	profileRepo identity.ProfileRepository,
	db *gorm.DB,
	objectStorage storage.ObjectStorage,
	storageCfg config.StorageConfig,
	logger *zap.Logger,
) *OwnerRequestService {
	return &OwnerRequestService{
		requestRepo:   requestRepo,
		profileRepo:   profileRepo,
		db:            db,
		objectStorage: objectStorage,
		storageCfg:    storageCfg,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *OwnerRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit files an owner application for the caller. A user holds at
// most one pending request; owners and admins need none.
func (s *OwnerRequestService) Submit(ctx context.Context, userID uuid.UUID, input identity.OwnerRequestInput) (*OwnerRequestResult, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.CanManageEvents() {
		return nil, shared.NewDomainError("ALREADY_OWNER", "Account can already manage events")
	}

	if _, err := s.requestRepo.FindPendingByUser(ctx, userID); err == nil {
		return nil, shared.NewDomainError("REQUEST_PENDING", "A pending owner request already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	request, err := identity.NewOwnerRequest(userID, input)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		// The partial unique index catches a concurrent double submit
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("REQUEST_PENDING", "A pending owner request already exists")
		}
		return nil, err
	}

	s.publishEvents(ctx, request)

	s.logger.Info("Owner request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("user_id", userID.String()))

	result := ToOwnerRequestResult(request)
	return &result, nil
}

// proof size cap used when configuration leaves it unset
const defaultMaxProofSize = 5 << 20

// UploadProof attaches a proof document to the caller's pending
// request. Images and PDFs up to the configured size are accepted.
func (s *OwnerRequestService) UploadProof(ctx context.Context, input UploadProofInput) (*OwnerRequestResult, error) {
	request, err := s.requestRepo.FindPendingByUser(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_PENDING_REQUEST", "No pending owner request to attach proof to")
		}
		return nil, err
	}

	maxSize := s.storageCfg.MaxProofSize
	if maxSize <= 0 {
		maxSize = defaultMaxProofSize
	}
	if int64(len(input.Data)) > maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Proof document cannot exceed %d bytes", maxSize))
	}
	ext, ok := proofExtension(input.ContentType)
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Proof must be an image or a PDF")
	}

	key := fmt.Sprintf("owner-requests/%s/proof/%s%s", request.ID, uuid.New(), ext)
	url, err := s.objectStorage.Upload(ctx, key, input.Data, input.ContentType)
	if err != nil {
		s.logger.Error("Proof upload failed",
			zap.String("request_id", request.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store proof document")
	}

	if err := request.AttachProof(url); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	result := ToOwnerRequestResult(request)
	return &result, nil
}

// Mine returns the caller's requests, newest first, so the form can
// prefill from the latest one
func (s *OwnerRequestService) Mine(ctx context.Context, userID uuid.UUID) ([]OwnerRequestResult, error) {
	requests, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := make([]OwnerRequestResult, 0, len(requests))
	for _, r := range requests {
		results = append(results, ToOwnerRequestResult(r))
	}
	return results, nil
}

// ListByStatus returns requests in the given review state for the
// admin queue, oldest first
func (s *OwnerRequestService) ListByStatus(ctx context.Context, status identity.OwnerRequestStatus, filter shared.Filter) (*shared.Paginated[OwnerRequestResult], error) {
	page, err := s.requestRepo.ListByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}

	results := make([]OwnerRequestResult, 0, len(page.Items))
	for i := range page.Items {
		results = append(results, ToOwnerRequestResult(&page.Items[i]))
	}
	paginated := shared.NewPaginated(results, page.Total, page.Page, page.PageSize)
	return &paginated, nil
}

// Approve marks the request approved and promotes the applicant to
// owner. Both writes commit or roll back together, so an approved
// request never coexists with an unpromoted profile.
func (s *OwnerRequestService) Approve(ctx context.Context, requestID, reviewerID uuid.UUID) (*OwnerRequestResult, error) {
	var approved *identity.OwnerRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests := persistence.NewGormOwnerRequestRepository(tx)
		profiles := persistence.NewGormProfileRepository(tx)

		request, err := requests.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if err := request.Approve(reviewerID); err != nil {
			return err
		}
		if err := requests.Save(ctx, request); err != nil {
			return err
		}

		profile, err := profiles.FindByID(ctx, request.UserID)
		if err != nil {
			return err
		}
		profile.PromoteToOwner()
		if err := profiles.Save(ctx, profile); err != nil {
			return err
		}

		approved = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, approved)

	s.logger.Info("Owner request approved",
		zap.String("request_id", approved.ID.String()),
		zap.String("user_id", approved.UserID.String()),
		zap.String("reviewer_id", reviewerID.String()))

	result := ToOwnerRequestResult(approved)
	return &result, nil
}

// Reject marks the request rejected with an optional note for the
// applicant
func (s *OwnerRequestService) Reject(ctx context.Context, requestID, reviewerID uuid.UUID, note string) (*OwnerRequestResult, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := request.Reject(reviewerID, note); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	s.logger.Info("Owner request rejected",
		zap.String("request_id", request.ID.String()),
		zap.String("reviewer_id", reviewerID.String()))

	result := ToOwnerRequestResult(request)
	return &result, nil
}

func (s *OwnerRequestService) publishEvents(ctx context.Context, request *identity.OwnerRequest) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range request.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	request.ClearDomainEvents()
}

// proofExtension maps an accepted proof content type to an extension
func proofExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/webp":
		return ".webp", true
	case "application/pdf":
		return ".pdf", true
	default:
		return "", false
	}
}
