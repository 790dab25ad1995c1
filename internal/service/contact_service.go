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

type ContactService struct {
	contactRepo *repository.ContactRepository
	logger      *zap.Logger
}

func NewContactService(contactRepo *repository.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

func (s *ContactService) Create(ctx context.Context, req *domain.CreateContactRequest) (*domain.ContactDTO, error) {
	contact := &domain.Contact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Title:     req.Title,
		CompanyID: req.CompanyID,
		Notes:     req.Notes,
		IsActive:  true,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToContactDTO(contact)
	return &dto, nil
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.ContactDTO, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Title != nil {
		contact.Title = *req.Title
	}
	if req.CompanyID != nil {
		contact.CompanyID = req.CompanyID
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	contact.Company = nil

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.contactRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.contactRepo.Delete(ctx, id)
}

func (s *ContactService) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID) ([]domain.ContactDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	contacts, total, err := s.contactRepo.List(ctx, page, pageSize, companyID)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.ContactDTO, 0, len(contacts))
	for i := range contacts {
		dtos = append(dtos, mapper.ToContactDTO(&contacts[i]))
	}
	return dtos, total, nil
}

func (s *ContactService) Search(ctx context.Context, query string, limit int) ([]domain.ContactDTO, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	contacts, err := s.contactRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ContactDTO, 0, len(contacts))
	for i := range contacts {
		dtos = append(dtos, mapper.ToContactDTO(&contacts[i]))
	}
	return dtos, nil
}
