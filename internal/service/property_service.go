package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/mapper"
	"github.com/verdantworks/crm-api/internal/repository"
)

type PropertyService struct {
	propertyRepo *repository.PropertyRepository
	logger       *zap.Logger
}

func NewPropertyService(propertyRepo *repository.PropertyRepository, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

func (s *PropertyService) Create(ctx context.Context, req *domain.CreatePropertyRequest) (*domain.PropertyDTO, error) {
	property := &domain.Property{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Acreage:    req.Acreage,
		ZoneNotes:  req.ZoneNotes,
		Photos:     req.Photos,
		CompanyID:  req.CompanyID,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	dto := mapper.ToPropertyDTO(property)
	return &dto, nil
}

func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyDTO, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToPropertyDTO(property)
	return &dto, nil
}

func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePropertyRequest) (*domain.PropertyDTO, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.PostalCode != nil {
		property.PostalCode = *req.PostalCode
	}
	if req.Acreage != nil {
		property.Acreage = *req.Acreage
	}
	if req.ZoneNotes != nil {
		property.ZoneNotes = *req.ZoneNotes
	}
	if req.Photos != nil {
		property.Photos = req.Photos
	}
	if req.CompanyID != nil {
		property.CompanyID = req.CompanyID
	}

	property.Company = nil

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.propertyRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.propertyRepo.Delete(ctx, id)
}

func (s *PropertyService) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID) ([]domain.PropertyDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	properties, total, err := s.propertyRepo.List(ctx, page, pageSize, companyID)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.PropertyDTO, 0, len(properties))
	for i := range properties {
		dtos = append(dtos, mapper.ToPropertyDTO(&properties[i]))
	}
	return dtos, total, nil
}
