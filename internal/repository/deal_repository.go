package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Contact").
		Where("id = ?", id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

func (r *DealRepository) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID, stage *domain.DealStage) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Deal{}).Preload("Company").Preload("Contact")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if stage != nil {
		query = query.Where("stage = ?", *stage)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&deals).Error
	return deals, total, err
}

// GetPipelineValue sums open deal amounts (everything not won or lost)
func (r *DealRepository) GetPipelineValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("stage NOT IN ?", []domain.DealStage{domain.DealStageWon, domain.DealStageLost}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
