package repository

import (
	"context"

	"github.com/google/uuid"

	"portfolio-backend/internal/domains/portfolio/model"
)

// PortfolioRepository persists the portfolio aggregate. Aggregate writes are
// atomic: SaveAggregate and Delete commit every row change of one service
// operation in a single transaction, or none of them.
type PortfolioRepository interface {
	// SaveAggregate upserts the portfolio row and replaces its attachment
	// and skill rows with the aggregate's current state, in one transaction.
	SaveAggregate(ctx context.Context, p *model.Portfolio) error

	// GetByID loads the full aggregate, failing with ErrPortfolioNotFound
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Portfolio, error)

	// GetAll returns an unordered snapshot of all portfolios.
	GetAll(ctx context.Context) ([]*model.Portfolio, error)

	// ListAll pages all portfolios sorted by the request's column,
	// descending. Returns the page items and the total row count.
	ListAll(ctx context.Context, pr model.PageRequest) ([]*model.Portfolio, int, error)

	// ListByOwner pages portfolios of one owner. Returns the page items and
	// the total match count.
	ListByOwner(ctx context.Context, userID uuid.UUID, pr model.PageRequest) ([]*model.Portfolio, int, error)

	// SearchByOwnerName pages portfolios whose owner has the given display name.
	SearchByOwnerName(ctx context.Context, name string, pr model.PageRequest) ([]*model.Portfolio, int, error)

	// SearchByTitle pages portfolios whose title contains the given value.
	SearchByTitle(ctx context.Context, title string, pr model.PageRequest) ([]*model.Portfolio, int, error)

	// Delete removes the aggregate; attachment and skill rows cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustLikes adds a signed delta to the like counter. No floor at zero.
	AdjustLikes(ctx context.Context, id uuid.UUID, delta int64) error

	// IncrementViews increments the view counter by exactly one.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// ListAttachmentURLs returns every blob URL referenced by any
	// attachment row. Used by the reconciliation sweep.
	ListAttachmentURLs(ctx context.Context) ([]string, error)
}
