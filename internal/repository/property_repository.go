package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Property{}, "id = ?", id).Error
}

func (r *PropertyRepository) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID) ([]domain.Property, int64, error) {
	var properties []domain.Property
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Property{}).Preload("Company")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&properties).Error
	return properties, total, err
}
