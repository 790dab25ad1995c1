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

type JobService struct {
	jobRepo     *repository.JobRepository
	activitySvc *ActivityService
	logger      *zap.Logger
}

func NewJobService(jobRepo *repository.JobRepository, activitySvc *ActivityService, logger *zap.Logger) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		activitySvc: activitySvc,
		logger:      logger,
	}
}

func (s *JobService) Create(ctx context.Context, req *domain.CreateJobRequest) (*domain.JobDTO, error) {
	status := req.Status
	if status == "" {
		status = domain.JobStatusScheduled
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid job status %q", ErrInvalidInput, status)
	}
	scheduled, err := parseDatePtr(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		Title:         req.Title,
		Description:   req.Description,
		Status:        status,
		PropertyID:    req.PropertyID,
		ProposalID:    req.ProposalID,
		Crew:          req.Crew,
		ScheduledDate: scheduled,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.activitySvc.Log(ctx, domain.ActivityTargetJob, job.ID, job.Title,
		"Job created", "")

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

func (s *JobService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateJobRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid job status %q", ErrInvalidInput, *req.Status)
		}
		job.Status = *req.Status
	}
	if req.PropertyID != nil {
		job.PropertyID = req.PropertyID
	}
	if req.ProposalID != nil {
		job.ProposalID = req.ProposalID
	}
	if req.Crew != nil {
		job.Crew = req.Crew
	}
	if req.ScheduledDate != nil {
		scheduled, err := parseDatePtr(req.ScheduledDate)
		if err != nil {
			return nil, err
		}
		job.ScheduledDate = scheduled
	}
	if req.CompletedDate != nil {
		completed, err := parseDatePtr(req.CompletedDate)
		if err != nil {
			return nil, err
		}
		job.CompletedDate = completed
	}

	job.Property = nil
	job.Proposal = nil

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.jobRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.jobRepo.Delete(ctx, id)
}

func (s *JobService) List(ctx context.Context, page, pageSize int, propertyID *uuid.UUID, status *domain.JobStatus) ([]domain.JobDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	jobs, total, err := s.jobRepo.List(ctx, page, pageSize, propertyID, status)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]domain.JobDTO, 0, len(jobs))
	for i := range jobs {
		dtos = append(dtos, mapper.ToJobDTO(&jobs[i]))
	}
	return dtos, total, nil
}
