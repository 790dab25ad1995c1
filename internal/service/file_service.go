package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/verdantworks/crm-api/internal/domain"
	"github.com/verdantworks/crm-api/internal/mapper"
	"github.com/verdantworks/crm-api/internal/repository"
	"github.com/verdantworks/crm-api/internal/storage"
)

// FileService manages uploaded attachments on proposals
type FileService struct {
	fileRepo    *repository.FileRepository
	storage     storage.Storage
	activitySvc *ActivityService
	logger      *zap.Logger
}

func NewFileService(fileRepo *repository.FileRepository, store storage.Storage, activitySvc *ActivityService, logger *zap.Logger) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		storage:     store,
		activitySvc: activitySvc,
		logger:      logger,
	}
}

// Upload stores the file and records its metadata. If the metadata write
// fails the stored object is cleaned up, best effort.
func (s *FileService) Upload(ctx context.Context, filename, contentType string, data io.Reader, proposalID *uuid.UUID) (*domain.FileDTO, error) {
	fileID := uuid.New()
	path := fmt.Sprintf("uploads/%s/%s%s", fileID.String()[:2], fileID, filepath.Ext(filename))

	size, err := s.storage.Upload(ctx, path, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &domain.File{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: path,
		ProposalID:  proposalID,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if cleanupErr := s.storage.Delete(ctx, path); cleanupErr != nil {
			s.logger.Warn("Failed to clean up stored file after DB error",
				zap.String("path", path),
				zap.Error(cleanupErr),
			)
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	s.activitySvc.Log(ctx, domain.ActivityTargetFile, file.ID, file.Filename,
		"File uploaded", fmt.Sprintf("%s (%d bytes)", contentType, size))

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Download streams a stored file with its metadata
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.File, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	rc, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	return file, rc, nil
}

// Delete removes the metadata record and then the stored object
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("Failed to delete stored object for removed file record",
			zap.String("path", file.StoragePath),
			zap.Error(err),
		)
	}
	return nil
}

// ListByProposal returns the attachments on one proposal
func (s *FileService) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.FileDTO, error) {
	files, err := s.fileRepo.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	dtos := make([]domain.FileDTO, 0, len(files))
	for i := range files {
		dtos = append(dtos, mapper.ToFileDTO(&files[i]))
	}
	return dtos, nil
}
