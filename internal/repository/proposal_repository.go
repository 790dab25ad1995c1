package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetByID loads the proposal with its items and related entities. Items come
// back ordered so downstream aggregation sees a deterministic snapshot.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Contact").
		Preload("Property").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("section_sort_order ASC, sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) Update(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

// UpdateTotals writes the cached money columns without touching other fields
func (r *ProposalRepository) UpdateTotals(ctx context.Context, id uuid.UUID, subtotal, taxAmount, totalAmount float64) error {
	return r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subtotal":     subtotal,
			"tax_amount":   taxAmount,
			"total_amount": totalAmount,
		}).Error
}

// UpdatePDFInfo records the stored artifact path and generation time
func (r *ProposalRepository) UpdatePDFInfo(ctx context.Context, id uuid.UUID, pdfPath string, generatedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pdf_path":         pdfPath,
			"pdf_generated_at": generatedAt,
		}).Error
}

func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Proposal{}, "id = ?", id).Error
}

func (r *ProposalRepository) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID, status *domain.ProposalStatus) ([]domain.Proposal, int64, error) {
	var proposals []domain.Proposal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Preload("Company").
		Preload("Contact")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&proposals).Error
	return proposals, total, err
}

// ListIDsWithArtifacts returns the IDs of proposals that have at least one
// exported PDF. Used by the retention job to scope its sweep.
func (r *ProposalRepository) ListIDsWithArtifacts(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("pdf_path IS NOT NULL AND pdf_path <> ''").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *ProposalRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	pattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("LOWER(title) LIKE ?", pattern).
		Limit(limit).
		Find(&proposals).Error
	return proposals, err
}
