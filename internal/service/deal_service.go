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

type DealService struct {
	dealRepo    *repository.DealRepository
	activitySvc *ActivityService
	logger      *zap.Logger
}

func NewDealService(dealRepo *repository.DealRepository, activitySvc *ActivityService, logger *zap.Logger) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		activitySvc: activitySvc,
		logger:      logger,
	}
}

func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	stage := req.Stage
	if stage == "" {
		stage = domain.DealStageLead
	}
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: invalid deal stage %q", ErrInvalidInput, stage)
	}
	expectedClose, err := parseDatePtr(req.ExpectedCloseDate)
	if err != nil {
		return nil, err
	}

	deal := &domain.Deal{
		Title:             req.Title,
		Description:       req.Description,
		CompanyID:         req.CompanyID,
		ContactID:         req.ContactID,
		Stage:             stage,
		Amount:            req.Amount,
		ExpectedCloseDate: expectedClose,
		Notes:             req.Notes,
	}
	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	s.activitySvc.Log(ctx, domain.ActivityTargetDeal, deal.ID, deal.Title,
		"Deal created", "")

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.Description != nil {
		deal.Description = *req.Description
	}
	if req.CompanyID != nil {
		deal.CompanyID = req.CompanyID
	}
	if req.ContactID != nil {
		deal.ContactID = req.ContactID
	}
	if req.Stage != nil {
		if !req.Stage.IsValid() {
			return nil, fmt.Errorf("%w: invalid deal stage %q", ErrInvalidInput, *req.Stage)
		}
		if deal.Stage != *req.Stage {
			s.activitySvc.Log(ctx, domain.ActivityTargetDeal, deal.ID, deal.Title,
				"Deal stage changed",
				fmt.Sprintf("%s -> %s", deal.Stage, *req.Stage))
		}
		deal.Stage = *req.Stage
	}
	if req.Amount != nil {
		deal.Amount = *req.Amount
	}
	if req.ExpectedCloseDate != nil {
		expectedClose, err := parseDatePtr(req.ExpectedCloseDate)
		if err != nil {
			return nil, err
		}
		deal.ExpectedCloseDate = expectedClose
	}
	if req.ActualCloseDate != nil {
		actualClose, err := parseDatePtr(req.ActualCloseDate)
		if err != nil {
			return nil, err
		}
		deal.ActualCloseDate = actualClose
	}
	if req.ProposalID != nil {
		deal.ProposalID = req.ProposalID
	}
	if req.Notes != nil {
		deal.Notes = *req.Notes
	}

	deal.Company = nil
	deal.Contact = nil
	deal.Proposal = nil

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.dealRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.dealRepo.Delete(ctx, id)
}

func (s *DealService) List(ctx context.Context, page, pageSize int, companyID *uuid.UUID, stage *domain.DealStage) ([]domain.DealDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	deals, total, err := s.dealRepo.List(ctx, page, pageSize, companyID, stage)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.DealDTO, 0, len(deals))
	for i := range deals {
		dtos = append(dtos, mapper.ToDealDTO(&deals[i]))
	}
	return dtos, total, nil
}

// PipelineValue returns the summed amount of every open deal
func (s *DealService) PipelineValue(ctx context.Context) (float64, error) {
	return s.dealRepo.GetPipelineValue(ctx)
}
