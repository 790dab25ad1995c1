package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ArtifactRetentionJobName is the name of the nightly artifact retention job
const ArtifactRetentionJobName = "artifact_retention"

// ArtifactPruner defines the interface for applying the PDF artifact
// retention limit. This interface allows the job to call the service without
// importing the service package directly.
type ArtifactPruner interface {
	// PruneAllArtifacts applies the retention limit to every proposal with
	// exported PDFs. Returns the number of proposals swept, artifacts deleted
	// and proposals that failed.
	PruneAllArtifacts(ctx context.Context) (swept int, deleted int, failed int, err error)
}

// ArtifactRetentionJob deletes old proposal PDF artifacts beyond the
// configured retention limit. Exports already prune their own proposal; this
// job catches proposals whose pruning failed at export time.
type ArtifactRetentionJob struct {
	pruner  ArtifactPruner
	logger  *zap.Logger
	timeout time.Duration
}

// NewArtifactRetentionJob creates a new artifact retention job.
// The timeout controls how long a single sweep is allowed to run.
func NewArtifactRetentionJob(pruner ArtifactPruner, logger *zap.Logger, timeout time.Duration) *ArtifactRetentionJob {
	return &ArtifactRetentionJob{
		pruner:  pruner,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the retention sweep.
// This is called by the scheduler according to the cron expression.
func (j *ArtifactRetentionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting artifact retention sweep")

	swept, deleted, failed, err := j.pruner.PruneAllArtifacts(ctx)
	if err != nil {
		j.logger.Error("artifact retention sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("artifact retention sweep completed",
		zap.Int("proposals_swept", swept),
		zap.Int("artifacts_deleted", deleted),
		zap.Int("proposals_failed", failed),
		zap.Duration("duration", time.Since(start)))
}
