package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/storage"
)

// DefaultSignedURLTTL is used when a caller asks for an access URL without a TTL
const DefaultSignedURLTTL = 24 * time.Hour

// ArtifactService bridges rendered proposal PDFs to the blob store. Artifact
// paths are timestamped, so an export never overwrites an earlier one;
// history is trimmed by Prune instead.
type ArtifactService struct {
	storage storage.Storage
	logger  *zap.Logger
}

func NewArtifactService(store storage.Storage, logger *zap.Logger) *ArtifactService {
	return &ArtifactService{
		storage: store,
		logger:  logger,
	}
}

// ArtifactPath builds the storage path for a proposal PDF generated at the
// given time: proposals/{id}/proposal-{id}-{unixts}.pdf
func ArtifactPath(proposalID uuid.UUID, generatedAt time.Time) string {
	return fmt.Sprintf("proposals/%s/proposal-%s-%d.pdf", proposalID, proposalID, generatedAt.Unix())
}

func artifactPrefix(proposalID uuid.UUID) string {
	return fmt.Sprintf("proposals/%s/", proposalID)
}

// Upload stores a rendered PDF and returns its storage path
func (s *ArtifactService) Upload(ctx context.Context, proposalID uuid.UUID, generatedAt time.Time, pdfBytes []byte) (string, error) {
	path := ArtifactPath(proposalID, generatedAt)

	_, err := s.storage.Upload(ctx, path, "application/pdf", bytes.NewReader(pdfBytes))
	if err != nil {
		return "", errors.Join(ErrArtifactUpload, err)
	}

	s.logger.Info("Proposal artifact uploaded",
		zap.String("proposal_id", proposalID.String()),
		zap.String("path", path),
		zap.Int("size", len(pdfBytes)),
	)
	return path, nil
}

// List returns a proposal's stored artifacts, newest first
func (s *ArtifactService) List(ctx context.Context, proposalID uuid.UUID) ([]storage.ObjectInfo, error) {
	objects, err := s.storage.List(ctx, artifactPrefix(proposalID))
	if err != nil {
		return nil, errors.Join(ErrArtifactList, err)
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].CreatedAt.After(objects[j].CreatedAt)
	})
	return objects, nil
}

// AccessURL returns a time-limited download URL for an artifact. A zero ttl
// falls back to DefaultSignedURLTTL.
func (s *ArtifactService) AccessURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	return s.storage.SignedURL(ctx, path, ttl)
}

// Download streams a stored artifact
func (s *ArtifactService) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, path)
}

// Prune deletes all but the keepLatest most recent artifacts for a proposal
// and returns how many were removed. When the proposal has keepLatest or
// fewer artifacts, Prune is a no-op.
func (s *ArtifactService) Prune(ctx context.Context, proposalID uuid.UUID, keepLatest int) (int, error) {
	if keepLatest < 0 {
		keepLatest = 0
	}

	objects, err := s.List(ctx, proposalID)
	if err != nil {
		return 0, err
	}
	if len(objects) <= keepLatest {
		return 0, nil
	}

	deleted := 0
	for _, obj := range objects[keepLatest:] {
		if err := s.storage.Delete(ctx, obj.Path); err != nil {
			return deleted, errors.Join(ErrArtifactDelete, err)
		}
		deleted++
	}

	s.logger.Info("Pruned proposal artifacts",
		zap.String("proposal_id", proposalID.String()),
		zap.Int("deleted", deleted),
		zap.Int("kept", keepLatest),
	)
	return deleted, nil
}
