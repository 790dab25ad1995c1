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

type CompanyService struct {
	companyRepo *repository.CompanyRepository
	activitySvc *ActivityService
	logger      *zap.Logger
}

func NewCompanyService(companyRepo *repository.CompanyRepository, activitySvc *ActivityService, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		activitySvc: activitySvc,
		logger:      logger,
	}
}

func (s *CompanyService) Create(ctx context.Context, req *domain.CreateCompanyRequest) (*domain.CompanyDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.CompanyStatusActive
	}

	company := &domain.Company{
		Name:       req.Name,
		OrgNumber:  req.OrgNumber,
		Email:      req.Email,
		Phone:      req.Phone,
		Website:    req.Website,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Status:     status,
		Notes:      req.Notes,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.activitySvc.Log(ctx, domain.ActivityTargetCompany, company.ID, company.Name,
		"Company created", "")

	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CompanyWithDetailsDTO, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToCompanyWithDetailsDTO(company)
	return &dto, nil
}

func (s *CompanyService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCompanyRequest) (*domain.CompanyDTO, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.OrgNumber != nil {
		company.OrgNumber = *req.OrgNumber
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Website != nil {
		company.Website = *req.Website
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.State != nil {
		company.State = *req.State
	}
	if req.PostalCode != nil {
		company.PostalCode = *req.PostalCode
	}
	if req.Status != nil {
		company.Status = *req.Status
	}
	if req.Notes != nil {
		company.Notes = *req.Notes
	}

	company.Contacts = nil
	company.Properties = nil
	company.Proposals = nil

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	dto := mapper.ToCompanyDTO(company)
	return &dto, nil
}

func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.companyRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.companyRepo.Delete(ctx, id)
}

func (s *CompanyService) List(ctx context.Context, page, pageSize int, status *domain.CompanyStatus) ([]domain.CompanyDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	companies, total, err := s.companyRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.CompanyDTO, 0, len(companies))
	for i := range companies {
		dtos = append(dtos, mapper.ToCompanyDTO(&companies[i]))
	}
	return dtos, total, nil
}

func (s *CompanyService) Search(ctx context.Context, query string, limit int) ([]domain.CompanyDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	companies, err := s.companyRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.CompanyDTO, 0, len(companies))
	for i := range companies {
		dtos = append(dtos, mapper.ToCompanyDTO(&companies[i]))
	}
	return dtos, nil
}
