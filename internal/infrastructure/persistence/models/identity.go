package models

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// ProfileModel is the persistence model for the Profile aggregate.
type ProfileModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	DisplayName  string `gorm:"type:varchar(120);not null"`
	Role         string `gorm:"type:varchar(10);not null;default:'user'"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              identity.Role(m.Role),
	}
}

// ProfileModelFromDomain creates a persistence model from a domain Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Email = p.Email
	m.PasswordHash = p.PasswordHash
	m.DisplayName = p.DisplayName
	m.Role = string(p.Role)
	return m
}

// OwnerRequestModel is the persistence model for the OwnerRequest
// aggregate. A partial unique index on (user_id) WHERE status='pending'
// enforces the one-pending-per-user rule in the migrations.
type OwnerRequestModel struct {
	BaseModel
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	VenueName     string     `gorm:"type:varchar(200);not null"`
	Address       string     `gorm:"type:varchar(300)"`
	City          string     `gorm:"type:varchar(120)"`
	State         string     `gorm:"type:varchar(60)"`
	Phone         string     `gorm:"type:varchar(50);not null"`
	Instagram     string     `gorm:"type:varchar(120)"`
	Website       string     `gorm:"type:varchar(300)"`
	CNPJ          string     `gorm:"type:varchar(20);column:cnpj"`
	Note          string     `gorm:"type:text"`
	HeardFrom     string     `gorm:"type:varchar(120)"`
	ProofURL      string     `gorm:"type:varchar(500)"`
	TermsAccepted bool       `gorm:"not null;default:false"`
	Status        string     `gorm:"type:varchar(10);not null;default:'pending';index"`
	ReviewNote    string     `gorm:"type:text"`
	ReviewedBy    *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt    *time.Time

	User ProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OwnerRequestModel) TableName() string {
	return "owner_requests"
}

// ToDomain converts the persistence model to a domain OwnerRequest
func (m *OwnerRequestModel) ToDomain() *identity.OwnerRequest {
	return &identity.OwnerRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		VenueName:         m.VenueName,
		Address:           m.Address,
		City:              m.City,
		State:             m.State,
		Phone:             m.Phone,
		Instagram:         m.Instagram,
		Website:           m.Website,
		CNPJ:              m.CNPJ,
		Note:              m.Note,
		HeardFrom:         m.HeardFrom,
		ProofURL:          m.ProofURL,
		TermsAccepted:     m.TermsAccepted,
		Status:            identity.OwnerRequestStatus(m.Status),
		ReviewNote:        m.ReviewNote,
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
	}
}

// OwnerRequestModelFromDomain creates a persistence model from a domain OwnerRequest
func OwnerRequestModelFromDomain(r *identity.OwnerRequest) *OwnerRequestModel {
	m := &OwnerRequestModel{}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.UserID = r.UserID
	m.VenueName = r.VenueName
	m.Address = r.Address
	m.City = r.City
	m.State = r.State
	m.Phone = r.Phone
	m.Instagram = r.Instagram
	m.Website = r.Website
	m.CNPJ = r.CNPJ
	m.Note = r.Note
	m.HeardFrom = r.HeardFrom
	m.ProofURL = r.ProofURL
	m.TermsAccepted = r.TermsAccepted
	m.Status = string(r.Status)
	m.ReviewNote = r.ReviewNote
	m.ReviewedBy = r.ReviewedBy
	m.ReviewedAt = r.ReviewedAt
	return m
}

// PasswordResetModel is the persistence model for password reset tokens.
type PasswordResetModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	UsedAt    *time.Time

	User ProfileModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PasswordResetModel) TableName() string {
	return "password_resets"
}

// ToDomain converts the persistence model to a domain PasswordResetToken
func (m *PasswordResetModel) ToDomain() *identity.PasswordResetToken {
	return &identity.PasswordResetToken{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		TokenHash:  m.TokenHash,
		ExpiresAt:  m.ExpiresAt,
		UsedAt:     m.UsedAt,
	}
}

// PasswordResetModelFromDomain creates a persistence model from a domain token
func PasswordResetModelFromDomain(t *identity.PasswordResetToken) *PasswordResetModel {
	m := &PasswordResetModel{}
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.TokenHash = t.TokenHash
	m.ExpiresAt = t.ExpiresAt
	m.UsedAt = t.UsedAt
	return m
}
