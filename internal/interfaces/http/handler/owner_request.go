package handler

import (
	"io"
	"time"

	appidentity "github.com/avaliaai/backend/internal/application/identity"
	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmitOwnerRequestRequest represents the owner application form
type SubmitOwnerRequestRequest struct {
	VenueName     string `json:"venue_name" binding:"required,max=200"`
	Address       string `json:"address" binding:"omitempty,max=300"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,max=50"`
	Phone         string `json:"phone" binding:"required,max=30"`
	Instagram     string `json:"instagram" binding:"omitempty,max=100"`
	Website       string `json:"website" binding:"omitempty,url,max=300"`
	CNPJ          string `json:"cnpj" binding:"omitempty,max=20"`
	Note          string `json:"note" binding:"omitempty,max=2000"`
	HeardFrom     string `json:"heard_from" binding:"omitempty,max=100"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// RejectOwnerRequestRequest carries the reviewer's note
type RejectOwnerRequestRequest struct {
	Note string `json:"note" binding:"omitempty,max=2000"`
}

// OwnerRequestResponse represents an owner request in responses
type OwnerRequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	VenueName     string     `json:"venue_name"`
	Address       string     `json:"address,omitempty"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Phone         string     `json:"phone"`
	Instagram     string     `json:"instagram,omitempty"`
	Website       string     `json:"website,omitempty"`
	CNPJ          string     `json:"cnpj,omitempty"`
	Note          string     `json:"note,omitempty"`
	HeardFrom     string     `json:"heard_from,omitempty"`
	ProofURL      string     `json:"proof_url,omitempty"`
	TermsAccepted bool       `json:"terms_accepted"`
	Status        string     `json:"status"`
	ReviewNote    string     `json:"review_note,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toOwnerRequestResponse(result appidentity.OwnerRequestResult) OwnerRequestResponse {
	return OwnerRequestResponse{
		ID:            result.ID,
		UserID:        result.UserID,
		VenueName:     result.VenueName,
		Address:       result.Address,
		City:          result.City,
		State:         result.State,
		Phone:         result.Phone,
		Instagram:     result.Instagram,
		Website:       result.Website,
		CNPJ:          result.CNPJ,
		Note:          result.Note,
		HeardFrom:     result.HeardFrom,
		ProofURL:      result.ProofURL,
		TermsAccepted: result.TermsAccepted,
		Status:        string(result.Status),
		ReviewNote:    result.ReviewNote,
		ReviewedAt:    result.ReviewedAt,
		CreatedAt:     result.CreatedAt,
	}
}

// OwnerRequestHandler handles owner application HTTP requests,
// including the admin review endpoints
type OwnerRequestHandler struct {
	BaseHandler
	requestService *appidentity.OwnerRequestService
}

// NewOwnerRequestHandler creates a new owner request handler
func NewOwnerRequestHandler(requestService *appidentity.OwnerRequestService) *OwnerRequestHandler {
	return &OwnerRequestHandler{requestService: requestService}
}

// Submit files an owner application for the authenticated caller
func (h *OwnerRequestHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitOwnerRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.requestService.Submit(c.Request.Context(), userID, identity.OwnerRequestInput{
		VenueName:     req.VenueName,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Phone:         req.Phone,
		Instagram:     req.Instagram,
		Website:       req.Website,
		CNPJ:          req.CNPJ,
		Note:          req.Note,
		HeardFrom:     req.HeardFrom,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toOwnerRequestResponse(*result))
}

// UploadProof attaches a proof document to the caller's pending request
func (h *OwnerRequestHandler) UploadProof(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	result, err := h.requestService.UploadProof(c.Request.Context(), appidentity.UploadProofInput{
		UserID:      userID,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOwnerRequestResponse(*result))
}

// Mine returns the caller's applications, newest first. The frontend
// prefills a refiled form from the latest entry.
func (h *OwnerRequestHandler) Mine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	results, err := h.requestService.Mine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OwnerRequestResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, toOwnerRequestResponse(r))
	}
	h.Success(c, responses)
}

// List returns requests by status for the admin review queue
func (h *OwnerRequestHandler) List(c *gin.Context) {
	status := identity.OwnerRequestStatus(c.DefaultQuery("status", string(identity.OwnerRequestPending)))
	switch status {
	case identity.OwnerRequestPending, identity.OwnerRequestApproved, identity.OwnerRequestRejected:
	default:
		h.BadRequest(c, "status must be one of pending, approved, rejected")
		return
	}

	filter := listFilter(c)
	page, err := h.requestService.ListByStatus(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]OwnerRequestResponse, 0, len(page.Items))
	for _, r := range page.Items {
		responses = append(responses, toOwnerRequestResponse(r))
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// Approve grants the applicant the owner role
func (h *OwnerRequestHandler) Approve(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	result, err := h.requestService.Approve(c.Request.Context(), requestID, reviewerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOwnerRequestResponse(*result))
}

// Reject declines an application with an optional note
func (h *OwnerRequestHandler) Reject(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var req RejectOwnerRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.ValidationError(c, err)
		return
	}

	result, err := h.requestService.Reject(c.Request.Context(), requestID, reviewerID, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOwnerRequestResponse(*result))
}
