package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/mapper"
	"github.com/verdantworks/crm-api/internal/repository"
)

// ActivityService records and reads the event log. Services call Log on
// notable mutations; logging failures are reported to the caller's logger
// but never fail the triggering operation.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Log writes an event entry, best effort
func (s *ActivityService) Log(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, targetName, title, body string) {
	activity := &domain.Activity{
		TargetType: targetType,
		TargetID:   targetID,
		TargetName: targetName,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("Failed to record activity",
			zap.String("target_type", string(targetType)),
			zap.String("target_id", targetID.String()),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

// Create records an event entry from an explicit request
func (s *ActivityService) Create(ctx context.Context, req *domain.CreateActivityRequest) (*domain.ActivityDTO, error) {
	activity := &domain.Activity{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		TargetName:  req.TargetName,
		Title:       req.Title,
		Body:        req.Body,
		OccurredAt:  time.Now().UTC(),
		CreatorID:   req.CreatorID,
		CreatorName: req.CreatorName,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}
	dto := mapper.ToActivityDTO(activity)
	return &dto, nil
}

// ListByTarget returns the most recent activities for one entity
func (s *ActivityService) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, limit int) ([]domain.ActivityDTO, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	activities, err := s.activityRepo.ListByTarget(ctx, targetType, targetID, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ActivityDTO, 0, len(activities))
	for i := range activities {
		dtos = append(dtos, mapper.ToActivityDTO(&activities[i]))
	}
	return dtos, nil
}

// ListRecent returns the most recent activities across all entities
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]domain.ActivityDTO, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	activities, err := s.activityRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.ActivityDTO, 0, len(activities))
	for i := range activities {
		dtos = append(dtos, mapper.ToActivityDTO(&activities[i]))
	}
	return dtos, nil
}
