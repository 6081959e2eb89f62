package service

import (
	"context"

	"github.com/google/uuid"

	"portfolio-backend/internal/domains/portfolio/model"
	skillmodel "portfolio-backend/internal/domains/skill/model"
)

// PortfolioService is the top-level orchestrator: it composes the attachment
// manager and skill reconciler under ownership checks and exposes the
// create/update/delete/query operations.
type PortfolioService interface {
	// Create persists a new portfolio for ownerID, uploading media before
	// any relational write. Fails with ErrNoPermission when the owner does
	// not resolve to a verified user.
	Create(ctx context.Context, ownerID uuid.UUID, req model.CreatePortfolioRequest) (*model.Portfolio, error)

	// Update patches an existing portfolio. Scalar fields apply only when
	// non-nil; media only when non-empty; skills are always reconciled and
	// a nil skill list fails with ErrMissingSkills.
	Update(ctx context.Context, callerID, portfolioID uuid.UUID, req model.UpdatePortfolioRequest) (*model.Portfolio, error)

	// Delete removes the aggregate after an ownership check. Blobs are not
	// deleted eagerly; the reconciliation sweep collects them.
	Delete(ctx context.Context, callerID, portfolioID uuid.UUID) error

	// Find loads one portfolio.
	Find(ctx context.Context, portfolioID uuid.UUID) (*model.Portfolio, error)

	// FindAll returns an unordered snapshot of all portfolios.
	FindAll(ctx context.Context) ([]*model.Portfolio, error)

	// ListAll pages all portfolios sorted descending by the given key. An
	// empty result page fails with ErrPortfolioNotSearched.
	ListAll(ctx context.Context, sortBy string, page, size int) (*model.Page, error)

	// ListByOwner pages one owner's portfolios. An empty result page fails
	// with ErrPortfolioNotSearched.
	ListByOwner(ctx context.Context, userID uuid.UUID, sortBy string, page, size int) (*model.Page, error)

	// Search pages portfolios by category "userName" or "title"; any other
	// category fails with ErrInvalidSearchCondition. Empty results fail
	// with ErrPortfolioNotSearched.
	Search(ctx context.Context, page, size int, category, sortBy, value string) (*model.Page, error)

	// AdjustLikes adds a signed delta to the like counter, no floor at zero.
	AdjustLikes(ctx context.Context, portfolioID uuid.UUID, delta int64) error

	// IncreaseViews increments the view counter. When a view guard is
	// composed in, repeat views by the same viewer within a day are
	// suppressed; without one the increment is unconditional.
	IncreaseViews(ctx context.Context, portfolioID uuid.UUID, viewerKey string) error
}

// BlobStore is the external object storage. Failures must not corrupt
// relational state, which is why callers sequence blob operations before the
// relational writes they correspond to.
type BlobStore interface {
	Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// SkillCatalog resolves an uppercase skill name to its canonical entry,
// failing with skillmodel.ErrSkillNotFound for unknown names.
type SkillCatalog interface {
	FindByName(ctx context.Context, name string) (*skillmodel.Skill, error)
}

// ViewGuard is the optional duplicate-view suppression collaborator. The
// core increments unconditionally unless one is composed in.
type ViewGuard interface {
	FirstViewToday(ctx context.Context, portfolioID uuid.UUID, viewerKey string) (bool, error)
}
