package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller didn't
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CompanyStatus represents the status of a client company
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
	CompanyStatusLead     CompanyStatus = "lead"
)

// Company represents a client organization in the CRM
type Company struct {
	BaseModel
	Name       string        `gorm:"type:varchar(200);not null;index"`
	OrgNumber  string        `gorm:"type:varchar(20);unique;index;column:org_number"`
	Email      string        `gorm:"type:varchar(255)"`
	Phone      string        `gorm:"type:varchar(50)"`
	Website    string        `gorm:"type:varchar(500)"`
	Address    string        `gorm:"type:varchar(500)"`
	City       string        `gorm:"type:varchar(100)"`
	State      string        `gorm:"type:varchar(50)"`
	PostalCode string        `gorm:"type:varchar(20)"`
	Status     CompanyStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	Notes      string        `gorm:"type:text"`
	Contacts   []Contact     `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Properties []Property    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Proposals  []Proposal    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// Contact represents an individual person, usually attached to a company
type Contact struct {
	BaseModel
	FirstName string     `gorm:"type:varchar(100);not null;column:first_name"`
	LastName  string     `gorm:"type:varchar(100);not null;column:last_name"`
	Email     string     `gorm:"type:varchar(255);index"`
	Phone     string     `gorm:"type:varchar(50)"`
	Title     string     `gorm:"type:varchar(100)"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index;column:company_id"`
	Company   *Company   `gorm:"foreignKey:CompanyID"`
	Notes     string     `gorm:"type:text"`
	IsActive  bool       `gorm:"not null;default:true;column:is_active"`
}

// FullName returns the contact's full name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DealStage represents the stage of a deal in the sales pipeline
type DealStage string

const (
	DealStageLead         DealStage = "lead"
	DealStageQualified    DealStage = "qualified"
	DealStageProposalSent DealStage = "proposal_sent"
	DealStageWon          DealStage = "won"
	DealStageLost         DealStage = "lost"
)

// IsValid checks if the DealStage is a valid enum value
func (ds DealStage) IsValid() bool {
	switch ds {
	case DealStageLead, DealStageQualified, DealStageProposalSent, DealStageWon, DealStageLost:
		return true
	}
	return false
}

// Deal represents a sales opportunity in the pipeline
type Deal struct {
	BaseModel
	Title             string     `gorm:"type:varchar(200);not null"`
	Description       string     `gorm:"type:text"`
	CompanyID         *uuid.UUID `gorm:"type:uuid;index;column:company_id"`
	Company           *Company   `gorm:"foreignKey:CompanyID"`
	ContactID         *uuid.UUID `gorm:"type:uuid;index;column:contact_id"`
	Contact           *Contact   `gorm:"foreignKey:ContactID"`
	Stage             DealStage  `gorm:"type:varchar(50);not null;default:'lead';index"`
	Amount            float64    `gorm:"type:decimal(15,2);not null;default:0"`
	ExpectedCloseDate *time.Time `gorm:"type:date;column:expected_close_date"`
	ActualCloseDate   *time.Time `gorm:"type:date;column:actual_close_date"`
	ProposalID        *uuid.UUID `gorm:"type:uuid;index;column:proposal_id"`
	Proposal          *Proposal  `gorm:"foreignKey:ProposalID"`
	Notes             string     `gorm:"type:text"`
}

// Property represents a service site where work is performed
type Property struct {
	BaseModel
	Name       string         `gorm:"type:varchar(200);not null;index"`
	Address    string         `gorm:"type:varchar(500);not null"`
	City       string         `gorm:"type:varchar(100)"`
	State      string         `gorm:"type:varchar(50)"`
	PostalCode string         `gorm:"type:varchar(20)"`
	Acreage    float64        `gorm:"type:decimal(10,2);default:0"`
	ZoneNotes  string         `gorm:"type:text;column:zone_notes"`
	Photos     pq.StringArray `gorm:"type:text[]"`
	CompanyID  *uuid.UUID     `gorm:"type:uuid;index;column:company_id"`
	Company    *Company       `gorm:"foreignKey:CompanyID"`
}

// ProductCategory represents the category of a catalog product or service
type ProductCategory string

const (
	ProductCategoryPlanting    ProductCategory = "planting"
	ProductCategoryHardscape   ProductCategory = "hardscape"
	ProductCategoryIrrigation  ProductCategory = "irrigation"
	ProductCategoryLighting    ProductCategory = "lighting"
	ProductCategoryMaintenance ProductCategory = "maintenance"
	ProductCategoryMaterials   ProductCategory = "materials"
	ProductCategoryLabor       ProductCategory = "labor"
	ProductCategoryOther       ProductCategory = "other"
)

// IsValid checks if the ProductCategory is a valid enum value
func (pc ProductCategory) IsValid() bool {
	switch pc {
	case ProductCategoryPlanting, ProductCategoryHardscape, ProductCategoryIrrigation,
		ProductCategoryLighting, ProductCategoryMaintenance, ProductCategoryMaterials,
		ProductCategoryLabor, ProductCategoryOther:
		return true
	}
	return false
}

// DisplayName maps each category to its display label. The switch is exhaustive
// over the closed set; an unknown value is surfaced rather than masked by a
// catch-all label.
func (pc ProductCategory) DisplayName() string {
	switch pc {
	case ProductCategoryPlanting:
		return "Planting & Softscape"
	case ProductCategoryHardscape:
		return "Hardscape"
	case ProductCategoryIrrigation:
		return "Irrigation"
	case ProductCategoryLighting:
		return "Landscape Lighting"
	case ProductCategoryMaintenance:
		return "Maintenance"
	case ProductCategoryMaterials:
		return "Materials"
	case ProductCategoryLabor:
		return "Labor"
	case ProductCategoryOther:
		return "Other"
	}
	return "Unknown (" + string(pc) + ")"
}

// JobStatus represents the status of a scheduled work order
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsValid checks if the JobStatus is a valid enum value
func (js JobStatus) IsValid() bool {
	switch js {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Product represents a catalog entry used to seed proposal line items
type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(200);not null;index"`
	SKU         string          `gorm:"type:varchar(50);unique;index;column:sku"`
	Description string          `gorm:"type:text"`
	Category    ProductCategory `gorm:"type:varchar(50);not null;default:'other';index"`
	Unit        string          `gorm:"type:varchar(50);not null;default:'each'"`
	UnitPrice   float64         `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	UnitCost    float64         `gorm:"type:decimal(15,2);not null;default:0;column:unit_cost"`
	IsActive    bool            `gorm:"not null;default:true;column:is_active"`
}

// Job represents a scheduled work order, usually created from an accepted proposal
type Job struct {
	BaseModel
	Title         string         `gorm:"type:varchar(200);not null"`
	Description   string         `gorm:"type:text"`
	Status        JobStatus      `gorm:"type:varchar(50);not null;default:'scheduled';index"`
	PropertyID    *uuid.UUID     `gorm:"type:uuid;index;column:property_id"`
	Property      *Property      `gorm:"foreignKey:PropertyID"`
	ProposalID    *uuid.UUID     `gorm:"type:uuid;index;column:proposal_id"`
	Proposal      *Proposal      `gorm:"foreignKey:ProposalID"`
	Crew          pq.StringArray `gorm:"type:text[]"`
	ScheduledDate *time.Time     `gorm:"type:date;column:scheduled_date"`
	CompletedDate *time.Time     `gorm:"type:date;column:completed_date"`
}

// ProposalStatus represents the status of a proposal. The set is closed; no
// transitions beyond display are modeled here.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusViewed   ProposalStatus = "viewed"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// IsValid checks if the ProposalStatus is a valid enum value
func (ps ProposalStatus) IsValid() bool {
	switch ps {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusViewed,
		ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusExpired:
		return true
	}
	return false
}

// Proposal represents a priced service proposal for a client.
//
// Subtotal, TaxAmount and TotalAmount are persisted caches written by the
// service layer on every item mutation; display math always recomputes them
// from the line items (see internal/pricing).
type Proposal struct {
	BaseModel
	Title          string         `gorm:"type:varchar(200);not null;index"`
	Status         ProposalStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	CompanyID      *uuid.UUID     `gorm:"type:uuid;index;column:company_id"`
	Company        *Company       `gorm:"foreignKey:CompanyID"`
	ContactID      *uuid.UUID     `gorm:"type:uuid;index;column:contact_id"`
	Contact        *Contact       `gorm:"foreignKey:ContactID"`
	DealID         *uuid.UUID     `gorm:"type:uuid;index;column:deal_id"`
	Deal           *Deal          `gorm:"foreignKey:DealID"`
	PropertyID     *uuid.UUID     `gorm:"type:uuid;index;column:property_id"`
	Property       *Property      `gorm:"foreignKey:PropertyID"`
	TaxRate        float64        `gorm:"type:decimal(6,5);not null;default:0;column:tax_rate"`
	Subtotal       float64        `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount      float64        `gorm:"type:decimal(15,2);not null;default:0;column:tax_amount"`
	TotalAmount    float64        `gorm:"type:decimal(15,2);not null;default:0;column:total_amount"`
	DepositAmount  float64        `gorm:"type:decimal(15,2);not null;default:0;column:deposit_amount"`
	ExpiresAt      *time.Time     `gorm:"column:expires_at"`
	Notes          string         `gorm:"type:text"`
	PDFPath        string         `gorm:"type:varchar(500);column:pdf_path"`
	PDFGeneratedAt *time.Time     `gorm:"column:pdf_generated_at"`
	Items          []ProposalItem `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
	Files          []File         `gorm:"foreignKey:ProposalID"`
}

// ProposalItem represents a single priced line within a proposal section.
//
// TotalPrice is stored redundantly for persistence but must always equal
// Quantity x UnitPrice; the aggregator recomputes it and never trusts the
// stored value. UnitCost is internal-only and must never appear in any
// client-facing render path.
type ProposalItem struct {
	BaseModel
	ProposalID         uuid.UUID  `gorm:"type:uuid;not null;index;column:proposal_id"`
	Proposal           *Proposal  `gorm:"foreignKey:ProposalID"`
	ProductID          *uuid.UUID `gorm:"type:uuid;index;column:product_id"`
	Product            *Product   `gorm:"foreignKey:ProductID"`
	SectionName        string     `gorm:"type:varchar(200);not null;default:'General';column:section_name"`
	Name               string     `gorm:"type:varchar(200);not null"`
	Description        string     `gorm:"type:text"`
	Quantity           float64    `gorm:"type:decimal(10,2);not null;default:1"`
	Unit               string     `gorm:"type:varchar(50);not null;default:'each'"`
	UnitPrice          float64    `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	UnitCost           float64    `gorm:"type:decimal(15,2);not null;default:0;column:unit_cost"`
	TotalPrice         float64    `gorm:"type:decimal(15,2);not null;default:0;column:total_price"`
	IsVisibleToClient  bool       `gorm:"not null;default:true;column:is_visible_to_client"`
	IsOptional         bool       `gorm:"not null;default:false;column:is_optional"`
	IsSelectedByClient bool       `gorm:"not null;default:true;column:is_selected_by_client"`
	SortOrder          int        `gorm:"not null;default:0;column:sort_order"`
	SectionSortOrder   int        `gorm:"not null;default:0;column:section_sort_order"`
}

// ActivityTargetType represents the type of entity an activity is associated with
type ActivityTargetType string

const (
	ActivityTargetCompany  ActivityTargetType = "Company"
	ActivityTargetContact  ActivityTargetType = "Contact"
	ActivityTargetDeal     ActivityTargetType = "Deal"
	ActivityTargetProperty ActivityTargetType = "Property"
	ActivityTargetJob      ActivityTargetType = "Job"
	ActivityTargetProposal ActivityTargetType = "Proposal"
	ActivityTargetFile     ActivityTargetType = "File"
)

// Activity represents an event log entry for any entity
type Activity struct {
	BaseModel
	TargetType  ActivityTargetType `gorm:"type:varchar(50);not null;index;column:target_type"`
	TargetID    uuid.UUID          `gorm:"type:uuid;not null;index;column:target_id"`
	TargetName  string             `gorm:"type:varchar(200);column:target_name"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Body        string             `gorm:"type:varchar(2000)"`
	OccurredAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
	CreatorID   string             `gorm:"type:varchar(100);column:creator_id"`
	CreatorName string             `gorm:"type:varchar(200);column:creator_name"`
}

// File represents an uploaded attachment
type File struct {
	BaseModel
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique"`
	ProposalID  *uuid.UUID `gorm:"type:uuid;index;column:proposal_id"`
	Proposal    *Proposal  `gorm:"foreignKey:ProposalID"`
}
