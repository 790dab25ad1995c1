package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses. Timestamps are ISO 8601 strings.

type CompanyDTO struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	OrgNumber  string        `json:"orgNumber,omitempty"`
	Email      string        `json:"email,omitempty"`
	Phone      string        `json:"phone,omitempty"`
	Website    string        `json:"website,omitempty"`
	Address    string        `json:"address,omitempty"`
	City       string        `json:"city,omitempty"`
	State      string        `json:"state,omitempty"`
	PostalCode string        `json:"postalCode,omitempty"`
	Status     CompanyStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  string        `json:"createdAt"` // ISO 8601
	UpdatedAt  string        `json:"updatedAt"` // ISO 8601
}

// CompanyWithDetailsDTO includes the company with its related entities
type CompanyWithDetailsDTO struct {
	CompanyDTO
	Contacts   []ContactDTO  `json:"contacts,omitempty"`
	Properties []PropertyDTO `json:"properties,omitempty"`
	Proposals  []ProposalDTO `json:"proposals,omitempty"`
}

type ContactDTO struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Title       string     `json:"title,omitempty"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	CompanyName string     `json:"companyName,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type DealDTO struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	CompanyID         *uuid.UUID `json:"companyId,omitempty"`
	CompanyName       string     `json:"companyName,omitempty"`
	ContactID         *uuid.UUID `json:"contactId,omitempty"`
	Stage             DealStage  `json:"stage"`
	Amount            float64    `json:"amount"`
	ExpectedCloseDate *string    `json:"expectedCloseDate,omitempty"`
	ActualCloseDate   *string    `json:"actualCloseDate,omitempty"`
	ProposalID        *uuid.UUID `json:"proposalId,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         string     `json:"createdAt"`
	UpdatedAt         string     `json:"updatedAt"`
}

type PropertyDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	PostalCode  string     `json:"postalCode,omitempty"`
	Acreage     float64    `json:"acreage,omitempty"`
	ZoneNotes   string     `json:"zoneNotes,omitempty"`
	Photos      []string   `json:"photos,omitempty"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	CompanyName string     `json:"companyName,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Description     string          `json:"description,omitempty"`
	Category        ProductCategory `json:"category"`
	CategoryDisplay string          `json:"categoryDisplay"`
	Unit            string          `json:"unit"`
	UnitPrice       float64         `json:"unitPrice"`
	UnitCost        float64         `json:"unitCost"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

type JobDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        JobStatus  `json:"status"`
	PropertyID    *uuid.UUID `json:"propertyId,omitempty"`
	PropertyName  string     `json:"propertyName,omitempty"`
	ProposalID    *uuid.UUID `json:"proposalId,omitempty"`
	Crew          []string   `json:"crew,omitempty"`
	ScheduledDate *string    `json:"scheduledDate,omitempty"`
	CompletedDate *string    `json:"completedDate,omitempty"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

type ProposalDTO struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Status         ProposalStatus    `json:"status"`
	CompanyID      *uuid.UUID        `json:"companyId,omitempty"`
	CompanyName    string            `json:"companyName,omitempty"`
	ContactID      *uuid.UUID        `json:"contactId,omitempty"`
	ContactName    string            `json:"contactName,omitempty"`
	DealID         *uuid.UUID        `json:"dealId,omitempty"`
	PropertyID     *uuid.UUID        `json:"propertyId,omitempty"`
	PropertyName   string            `json:"propertyName,omitempty"`
	TaxRate        float64           `json:"taxRate"`
	Subtotal       float64           `json:"subtotal"`
	TaxAmount      float64           `json:"taxAmount"`
	TotalAmount    float64           `json:"totalAmount"`
	DepositAmount  float64           `json:"depositAmount,omitempty"`
	ExpiresAt      *string           `json:"expiresAt,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	PDFPath        string            `json:"pdfPath,omitempty"`
	PDFGeneratedAt *string           `json:"pdfGeneratedAt,omitempty"`
	Items          []ProposalItemDTO `json:"items,omitempty"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
}

type ProposalItemDTO struct {
	ID                 uuid.UUID  `json:"id"`
	ProposalID         uuid.UUID  `json:"proposalId"`
	ProductID          *uuid.UUID `json:"productId,omitempty"`
	SectionName        string     `json:"sectionName"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Quantity           float64    `json:"quantity"`
	Unit               string     `json:"unit"`
	UnitPrice          float64    `json:"unitPrice"`
	UnitCost           float64    `json:"unitCost"`
	TotalPrice         float64    `json:"totalPrice"`
	IsVisibleToClient  bool       `json:"isVisibleToClient"`
	IsOptional         bool       `json:"isOptional"`
	IsSelectedByClient bool       `json:"isSelectedByClient"`
	SortOrder          int        `json:"sortOrder"`
	SectionSortOrder   int        `json:"sectionSortOrder"`
}

// PricingLineDTO is a single line in a pricing breakdown. It carries no cost
// data so the same shape can be returned for the client view.
type PricingLineDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Quantity           float64   `json:"quantity"`
	Unit               string    `json:"unit"`
	UnitPrice          float64   `json:"unitPrice"`
	LineTotal          float64   `json:"lineTotal"`
	IsOptional         bool      `json:"isOptional"`
	IsSelectedByClient bool      `json:"isSelectedByClient"`
}

type PricingSectionDTO struct {
	Name         string           `json:"name"`
	SortOrder    int              `json:"sortOrder"`
	Items        []PricingLineDTO `json:"items"`
	SectionTotal float64          `json:"sectionTotal"`
}

// ProposalPricingDTO is the fully recomputed pricing breakdown for a proposal
type ProposalPricingDTO struct {
	ProposalID    uuid.UUID           `json:"proposalId"`
	Mode          string              `json:"mode"`
	Sections      []PricingSectionDTO `json:"sections"`
	Subtotal      float64             `json:"subtotal"`
	TaxRate       float64             `json:"taxRate"`
	TaxAmount     float64             `json:"taxAmount"`
	TotalAmount   float64             `json:"totalAmount"`
	DepositAmount float64             `json:"depositAmount,omitempty"`
}

// ExportProposalResponse is returned after a successful PDF export
type ExportProposalResponse struct {
	ProposalID  uuid.UUID `json:"proposalId"`
	PDFPath     string    `json:"pdfPath"`
	GeneratedAt string    `json:"generatedAt"` // ISO 8601
	DownloadURL string    `json:"downloadUrl,omitempty"`
}

// ArtifactDTO describes a stored proposal PDF artifact
type ArtifactDTO struct {
	Path      string `json:"path"`
	CreatedAt string `json:"createdAt"` // ISO 8601
	Size      int64  `json:"size"`
}

// ArtifactURLResponse carries a time-limited download URL for an artifact
type ArtifactURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"` // ISO 8601
}

type FileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Size        int64      `json:"size"`
	ProposalID  *uuid.UUID `json:"proposalId,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

type ActivityDTO struct {
	ID          uuid.UUID          `json:"id"`
	TargetType  ActivityTargetType `json:"targetType"`
	TargetID    uuid.UUID          `json:"targetId"`
	TargetName  string             `json:"targetName,omitempty"`
	Title       string             `json:"title"`
	Body        string             `json:"body,omitempty"`
	OccurredAt  string             `json:"occurredAt"` // ISO 8601
	CreatorID   string             `json:"creatorId,omitempty"`
	CreatorName string             `json:"creatorName,omitempty"`
}

// ErrorResponse represents a simple API error response used in docs
// PaginatedResponse wraps a page of results with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse builds a paginated response from a page of data
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) *PaginatedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request DTOs

type CreateCompanyRequest struct {
	Name       string        `json:"name" validate:"required,max=200"`
	OrgNumber  string        `json:"orgNumber,omitempty" validate:"max=20"`
	Email      string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string        `json:"phone,omitempty" validate:"max=50"`
	Website    string        `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Address    string        `json:"address,omitempty" validate:"max=500"`
	City       string        `json:"city,omitempty" validate:"max=100"`
	State      string        `json:"state,omitempty" validate:"max=50"`
	PostalCode string        `json:"postalCode,omitempty" validate:"max=20"`
	Status     CompanyStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive lead"`
	Notes      string        `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateCompanyRequest struct {
	Name       *string        `json:"name,omitempty" validate:"omitempty,max=200"`
	OrgNumber  *string        `json:"orgNumber,omitempty" validate:"omitempty,max=20"`
	Email      *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string        `json:"phone,omitempty" validate:"omitempty,max=50"`
	Website    *string        `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Address    *string        `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string        `json:"city,omitempty" validate:"omitempty,max=100"`
	State      *string        `json:"state,omitempty" validate:"omitempty,max=50"`
	PostalCode *string        `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Status     *CompanyStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive lead"`
	Notes      *string        `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type CreateContactRequest struct {
	FirstName string     `json:"firstName" validate:"required,max=100"`
	LastName  string     `json:"lastName" validate:"required,max=100"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string     `json:"phone,omitempty" validate:"max=50"`
	Title     string     `json:"title,omitempty" validate:"max=100"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	Notes     string     `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateContactRequest struct {
	FirstName *string    `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string    `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,max=50"`
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=100"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	IsActive  *bool      `json:"isActive,omitempty"`
}

type CreateDealRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Description       string     `json:"description,omitempty" validate:"max=5000"`
	CompanyID         *uuid.UUID `json:"companyId,omitempty"`
	ContactID         *uuid.UUID `json:"contactId,omitempty"`
	Stage             DealStage  `json:"stage,omitempty" validate:"omitempty,oneof=lead qualified proposal_sent won lost"`
	Amount            float64    `json:"amount,omitempty" validate:"gte=0"`
	ExpectedCloseDate *string    `json:"expectedCloseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes             string     `json:"notes,omitempty" validate:"max=5000"`
}

type UpdateDealRequest struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	CompanyID         *uuid.UUID `json:"companyId,omitempty"`
	ContactID         *uuid.UUID `json:"contactId,omitempty"`
	Stage             *DealStage `json:"stage,omitempty" validate:"omitempty,oneof=lead qualified proposal_sent won lost"`
	Amount            *float64   `json:"amount,omitempty" validate:"omitempty,gte=0"`
	ExpectedCloseDate *string    `json:"expectedCloseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ActualCloseDate   *string    `json:"actualCloseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ProposalID        *uuid.UUID `json:"proposalId,omitempty"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type CreatePropertyRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Address    string     `json:"address" validate:"required,max=500"`
	City       string     `json:"city,omitempty" validate:"max=100"`
	State      string     `json:"state,omitempty" validate:"max=50"`
	PostalCode string     `json:"postalCode,omitempty" validate:"max=20"`
	Acreage    float64    `json:"acreage,omitempty" validate:"gte=0"`
	ZoneNotes  string     `json:"zoneNotes,omitempty" validate:"max=5000"`
	Photos     []string   `json:"photos,omitempty" validate:"dive,max=500"`
	CompanyID  *uuid.UUID `json:"companyId,omitempty"`
}

type UpdatePropertyRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Address    *string    `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	State      *string    `json:"state,omitempty" validate:"omitempty,max=50"`
	PostalCode *string    `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Acreage    *float64   `json:"acreage,omitempty" validate:"omitempty,gte=0"`
	ZoneNotes  *string    `json:"zoneNotes,omitempty" validate:"omitempty,max=5000"`
	Photos     []string   `json:"photos,omitempty" validate:"dive,max=500"`
	CompanyID  *uuid.UUID `json:"companyId,omitempty"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	SKU         string          `json:"sku,omitempty" validate:"max=50"`
	Description string          `json:"description,omitempty" validate:"max=5000"`
	Category    ProductCategory `json:"category" validate:"required,oneof=planting hardscape irrigation lighting maintenance materials labor other"`
	Unit        string          `json:"unit,omitempty" validate:"max=50"`
	UnitPrice   float64         `json:"unitPrice" validate:"gte=0"`
	UnitCost    float64         `json:"unitCost,omitempty" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	SKU         *string          `json:"sku,omitempty" validate:"omitempty,max=50"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *ProductCategory `json:"category,omitempty" validate:"omitempty,oneof=planting hardscape irrigation lighting maintenance materials labor other"`
	Unit        *string          `json:"unit,omitempty" validate:"omitempty,max=50"`
	UnitPrice   *float64         `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	UnitCost    *float64         `json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

type CreateJobRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description,omitempty" validate:"max=5000"`
	Status        JobStatus  `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	PropertyID    *uuid.UUID `json:"propertyId,omitempty"`
	ProposalID    *uuid.UUID `json:"proposalId,omitempty"`
	Crew          []string   `json:"crew,omitempty" validate:"dive,max=200"`
	ScheduledDate *string    `json:"scheduledDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateJobRequest struct {
	Title         *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status        *JobStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	PropertyID    *uuid.UUID `json:"propertyId,omitempty"`
	ProposalID    *uuid.UUID `json:"proposalId,omitempty"`
	Crew          []string   `json:"crew,omitempty" validate:"dive,max=200"`
	ScheduledDate *string    `json:"scheduledDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CompletedDate *string    `json:"completedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CreateProposalRequest struct {
	Title         string         `json:"title" validate:"required,max=200"`
	Status        ProposalStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent viewed accepted rejected expired"`
	CompanyID     *uuid.UUID     `json:"companyId,omitempty"`
	ContactID     *uuid.UUID     `json:"contactId,omitempty"`
	DealID        *uuid.UUID     `json:"dealId,omitempty"`
	PropertyID    *uuid.UUID     `json:"propertyId,omitempty"`
	TaxRate       float64        `json:"taxRate,omitempty" validate:"gte=0,lte=1"`
	DepositAmount float64        `json:"depositAmount,omitempty" validate:"gte=0"`
	ExpiresAt     *string        `json:"expiresAt,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes         string         `json:"notes,omitempty" validate:"max=10000"`
}

type UpdateProposalRequest struct {
	Title         *string         `json:"title,omitempty" validate:"omitempty,max=200"`
	Status        *ProposalStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent viewed accepted rejected expired"`
	CompanyID     *uuid.UUID      `json:"companyId,omitempty"`
	ContactID     *uuid.UUID      `json:"contactId,omitempty"`
	DealID        *uuid.UUID      `json:"dealId,omitempty"`
	PropertyID    *uuid.UUID      `json:"propertyId,omitempty"`
	TaxRate       *float64        `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=1"`
	DepositAmount *float64        `json:"depositAmount,omitempty" validate:"omitempty,gte=0"`
	ExpiresAt     *string         `json:"expiresAt,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string         `json:"notes,omitempty" validate:"omitempty,max=10000"`
}

// ProposalItemInput is one desired line item in a sync request. Items carrying
// an ID update the matching row; items without one are inserted. TotalPrice is
// never accepted from the client, it is recomputed server-side.
type ProposalItemInput struct {
	ID                 *uuid.UUID `json:"id,omitempty"`
	ProductID          *uuid.UUID `json:"productId,omitempty"`
	SectionName        string     `json:"sectionName,omitempty" validate:"max=200"`
	Name               string     `json:"name" validate:"required,max=200"`
	Description        string     `json:"description,omitempty" validate:"max=5000"`
	Quantity           float64    `json:"quantity" validate:"gt=0"`
	Unit               string     `json:"unit,omitempty" validate:"max=50"`
	UnitPrice          float64    `json:"unitPrice" validate:"gte=0"`
	UnitCost           float64    `json:"unitCost,omitempty" validate:"gte=0"`
	IsVisibleToClient  *bool      `json:"isVisibleToClient,omitempty"`
	IsOptional         bool       `json:"isOptional,omitempty"`
	IsSelectedByClient *bool      `json:"isSelectedByClient,omitempty"`
	SortOrder          int        `json:"sortOrder,omitempty" validate:"gte=0"`
	SectionSortOrder   int        `json:"sectionSortOrder,omitempty" validate:"gte=0"`
}

// SyncProposalItemsRequest replaces a proposal's item set with the given list.
// The sync is a diff against current state, applied in one transaction.
type SyncProposalItemsRequest struct {
	Items []ProposalItemInput `json:"items" validate:"dive"`
}

type CreateActivityRequest struct {
	TargetType  ActivityTargetType `json:"targetType" validate:"required,oneof=Company Contact Deal Property Job Proposal File"`
	TargetID    uuid.UUID          `json:"targetId" validate:"required"`
	TargetName  string             `json:"targetName,omitempty" validate:"max=200"`
	Title       string             `json:"title" validate:"required,max=200"`
	Body        string             `json:"body,omitempty" validate:"max=2000"`
	CreatorID   string             `json:"creatorId,omitempty" validate:"max=100"`
	CreatorName string             `json:"creatorName,omitempty" validate:"max=200"`
}
