package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/mapper"
	"github.com/verdantworks/crm-api/internal/repository"
)

type ProductService struct {
	productRepo *repository.ProductRepository
	logger      *zap.Logger
}

func NewProductService(productRepo *repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: invalid product category %q", ErrInvalidInput, req.Category)
	}
	unit := req.Unit
	if unit == "" {
		unit = "each"
	}

	product := &domain.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		Category:    req.Category,
		Unit:        unit,
		UnitPrice:   req.UnitPrice,
		UnitCost:    req.UnitCost,
		IsActive:    true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, fmt.Errorf("%w: invalid product category %q", ErrInvalidInput, *req.Category)
		}
		product.Category = *req.Category
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.UnitCost != nil {
		product.UnitCost = *req.UnitCost
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	dto := mapper.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, page, pageSize int, category *domain.ProductCategory, activeOnly bool) ([]domain.ProductDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if category != nil && !category.IsValid() {
		return nil, 0, fmt.Errorf("%w: invalid product category %q", ErrInvalidInput, *category)
	}
	products, total, err := s.productRepo.List(ctx, page, pageSize, category, activeOnly)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, mapper.ToProductDTO(&products[i]))
	}
	return dtos, total, nil
}

func (s *ProductService) Search(ctx context.Context, query string, limit int) ([]domain.ProductDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	products, err := s.productRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, mapper.ToProductDTO(&products[i]))
	}
	return dtos, nil
}
