package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/portfolio/repository"
	"portfolio-backend/internal/infrastructure/storage"
)

// TypeReconcileBlobs is the asynq task type for the orphaned blob sweep.
const TypeReconcileBlobs = "blob:reconcile"

// attachmentPrefix is the key prefix all portfolio images live under.
const attachmentPrefix = "images/"

// BlobLister is the slice of the blob store the sweep needs.
type BlobLister interface {
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, url string) error
}

// ReconcileBlobsJob sweeps the blob store for objects no attachment row
// references anymore. Deletes leave blobs behind on purpose, and a crash
// between an upload and its relational write strands the new blob; this
// job is the cleanup path for both.
type ReconcileBlobsJob struct {
	repo        repository.PortfolioRepository
	storage     BlobLister
	gracePeriod time.Duration
}

func NewReconcileBlobsJob(repo repository.PortfolioRepository, st BlobLister, gracePeriod time.Duration) *ReconcileBlobsJob {
	return &ReconcileBlobsJob{
		repo:        repo,
		storage:     st,
		gracePeriod: gracePeriod,
	}
}

func (j *ReconcileBlobsJob) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()

	// 1. Snapshot every URL the relational store still references
	referenced, err := j.repo.ListAttachmentURLs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list attachment URLs: %w", err)
	}
	refSet := make(map[string]struct{}, len(referenced))
	for _, url := range referenced {
		refSet[url] = struct{}{}
	}

	// 2. Walk the blob store
	objects, err := j.storage.List(ctx, attachmentPrefix)
	if err != nil {
		return fmt.Errorf("failed to list blobs: %w", err)
	}

	// 3. Delete unreferenced objects older than the grace period. The
	// grace period keeps the sweep from racing an in-flight create whose
	// blob went up before its row.
	cutoff := time.Now().Add(-j.gracePeriod)
	var deleted, skipped int
	for _, obj := range objects {
		if _, ok := refSet[obj.URL]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			skipped++
			continue
		}
		if err := j.storage.Delete(ctx, obj.URL); err != nil {
			log.Warn().Err(err).Str("url", obj.URL).Msg("failed to delete orphaned blob")
			continue
		}
		deleted++
	}

	log.Info().
		Int("referenced", len(referenced)).
		Int("scanned", len(objects)).
		Int("deleted", deleted).
		Int("skipped_in_grace", skipped).
		Dur("took", time.Since(start)).
		Msg("blob reconciliation finished")

	return nil
}
