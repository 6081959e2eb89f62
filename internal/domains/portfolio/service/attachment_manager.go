package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/portfolio/model"
)

// imageFolder is the bucket folder all portfolio media lands in.
const imageFolder = "images"

// attachmentManager keeps blob contents and the aggregate's attachment
// records in lockstep. Blob operations run outside the relational unit of
// work, so ordering is load-bearing: old blobs are deleted before their rows
// are dropped, new blobs are uploaded before their rows exist. A failure can
// therefore orphan a blob (the sweep collects those) but never leave a row
// pointing at a missing blob.
type attachmentManager struct {
	blobs BlobStore
}

func newAttachmentManager(blobs BlobStore) *attachmentManager {
	return &attachmentManager{blobs: blobs}
}

// ReplaceRepresentative swaps the cover image. The current blob is deleted
// first; if that fails the whole call fails with ErrStorage and the old
// attachment stays on the aggregate untouched.
func (m *attachmentManager) ReplaceRepresentative(ctx context.Context, p *model.Portfolio, newImage *model.ImageUpload) error {
	if p.Representative != nil {
		if err := m.blobs.Delete(ctx, p.Representative.URL); err != nil {
			return model.NewStorageError("delete", err)
		}
		p.Representative = nil
	}

	if newImage.IsEmpty() {
		return nil
	}

	url, err := m.blobs.Upload(ctx, imageFolder, newImage.Filename, newImage.Data, newImage.ContentType)
	if err != nil {
		return model.NewStorageError("upload", err)
	}

	p.Representative = &model.RepresentativeAttachment{
		ID:          uuid.New(),
		PortfolioID: p.ID,
		URL:         url,
	}
	return nil
}

// ReplaceGallery replaces the full gallery set. Old blobs are deleted
// iterate-and-remove so the aggregate never retains a reference to an
// already-deleted blob; a delete failure aborts with the remaining
// attachments still intact. New uploads are all-or-nothing: if any upload
// fails, the ones that succeeded are removed again on a best-effort basis
// and no attachment is staged.
func (m *attachmentManager) ReplaceGallery(ctx context.Context, p *model.Portfolio, newImages []model.ImageUpload) error {
	for len(p.Images) > 0 {
		current := p.Images[0]
		if err := m.blobs.Delete(ctx, current.URL); err != nil {
			return model.NewStorageError("delete", err)
		}
		p.Images = p.Images[1:]
	}

	if len(newImages) == 0 {
		return nil
	}

	uploaded := make([]model.ImageAttachment, 0, len(newImages))
	for _, img := range newImages {
		url, err := m.blobs.Upload(ctx, imageFolder, img.Filename, img.Data, img.ContentType)
		if err != nil {
			m.rollbackUploads(ctx, uploaded)
			return model.NewStorageError("upload", err)
		}
		uploaded = append(uploaded, model.ImageAttachment{
			ID:          uuid.New(),
			PortfolioID: p.ID,
			URL:         url,
		})
	}

	p.Images = uploaded
	return nil
}

// rollbackUploads removes blobs of a partially uploaded gallery. Failures
// here are logged, not propagated: the enclosing call already fails and the
// sweep catches anything left behind.
func (m *attachmentManager) rollbackUploads(ctx context.Context, uploaded []model.ImageAttachment) {
	for _, att := range uploaded {
		if err := m.blobs.Delete(ctx, att.URL); err != nil {
			log.Warn().Err(err).Str("url", att.URL).Msg("failed to roll back uploaded blob")
		}
	}
}
