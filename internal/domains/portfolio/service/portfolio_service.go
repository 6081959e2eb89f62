package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/portfolio/model"
	"portfolio-backend/internal/domains/portfolio/repository"
	usermodel "portfolio-backend/internal/domains/user/model"
	userrepo "portfolio-backend/internal/domains/user/repository"
)

// Search categories accepted by Search.
const (
	SearchByUserName = "userName"
	SearchByTitle    = "title"
)

type portfolioService struct {
	portfolioRepo repository.PortfolioRepository
	userRepo      userrepo.UserRepository
	attachments   *attachmentManager
	skills        *skillReconciler
	viewGuard     ViewGuard // nil means unconditional view counting
}

// NewPortfolioService builds the orchestrator. viewGuard may be nil, in
// which case every view call increments the counter.
func NewPortfolioService(
	portfolioRepo repository.PortfolioRepository,
	userRepo userrepo.UserRepository,
	blobs BlobStore,
	catalog SkillCatalog,
	viewGuard ViewGuard,
) PortfolioService {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		userRepo:      userRepo,
		attachments:   newAttachmentManager(blobs),
		skills:        newSkillReconciler(catalog),
		viewGuard:     viewGuard,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *portfolioService) Create(ctx context.Context, ownerID uuid.UUID, req model.CreatePortfolioRequest) (*model.Portfolio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// An unknown owner and a forbidden one look the same to the caller.
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, usermodel.ErrUserNotFound) {
			return nil, model.NewNoPermissionError("create")
		}
		return nil, fmt.Errorf("failed to verify owner: %w", err)
	}

	now := time.Now()
	p := &model.Portfolio{
		ID:          uuid.New(),
		UserID:      owner.ID,
		UserName:    owner.Name,
		Title:       req.Title,
		Description: req.Description,
		GitLink:     req.GitLink,
		Content:     req.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Resolve skills before touching the blob store: a missing or unknown
	// skill aborts the operation without churning any blobs.
	if err := s.skills.Reconcile(ctx, p, req.Skills); err != nil {
		return nil, err
	}

	// Blobs go up before any relational write exists for them.
	if !req.Representative.IsEmpty() {
		if err := s.attachments.ReplaceRepresentative(ctx, p, req.Representative); err != nil {
			return nil, err
		}
	}
	if len(req.Images) > 0 {
		if err := s.attachments.ReplaceGallery(ctx, p, req.Images); err != nil {
			return nil, err
		}
	}

	if err := s.portfolioRepo.SaveAggregate(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	return p, nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *portfolioService) Update(ctx context.Context, callerID, portfolioID uuid.UUID, req model.UpdatePortfolioRequest) (*model.Portfolio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.findVerified(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, existing, callerID, "edit"); err != nil {
		return nil, err
	}

	// Patch semantics: nil means "leave as is".
	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.GitLink != nil {
		existing.GitLink = *req.GitLink
	}
	if req.Content != nil {
		existing.Content = *req.Content
	}

	// Skills reconcile on every update; a nil list fails the call even
	// when nothing else changed, and it fails before any blob is touched.
	if err := s.skills.Reconcile(ctx, existing, req.Skills); err != nil {
		return nil, err
	}

	if !req.Representative.IsEmpty() {
		if err := s.attachments.ReplaceRepresentative(ctx, existing, req.Representative); err != nil {
			return nil, err
		}
	}
	if len(req.Images) > 0 {
		if err := s.attachments.ReplaceGallery(ctx, existing, req.Images); err != nil {
			return nil, err
		}
	}

	existing.UpdatedAt = time.Now()

	if err := s.portfolioRepo.SaveAggregate(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	return existing, nil
}

// =====================================================
// DELETE
// =====================================================

func (s *portfolioService) Delete(ctx context.Context, callerID, portfolioID uuid.UUID) error {
	existing, err := s.findVerified(ctx, portfolioID)
	if err != nil {
		return err
	}

	if err := s.checkOwnership(ctx, existing, callerID, "delete"); err != nil {
		return err
	}

	// Attachment and skill rows cascade with the aggregate. The blobs stay
	// behind on purpose; the reconciliation sweep collects them.
	if err := s.portfolioRepo.Delete(ctx, portfolioID); err != nil {
		if errors.Is(err, model.ErrPortfolioNotFound) {
			return model.NewNotFoundError()
		}
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	return nil
}

// =====================================================
// QUERIES
// =====================================================

func (s *portfolioService) Find(ctx context.Context, portfolioID uuid.UUID) (*model.Portfolio, error) {
	return s.findVerified(ctx, portfolioID)
}

func (s *portfolioService) FindAll(ctx context.Context) ([]*model.Portfolio, error) {
	portfolios, err := s.portfolioRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	return portfolios, nil
}

func (s *portfolioService) ListAll(ctx context.Context, sortBy string, page, size int) (*model.Page, error) {
	pr, err := model.NewPageRequest(page, size, sortBy)
	if err != nil {
		return nil, err
	}

	items, total, err := s.portfolioRepo.ListAll(ctx, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	if total == 0 {
		return nil, model.NewNotSearchedError()
	}

	return &model.Page{Items: items, Page: pr.Page, Size: pr.Size, Total: total}, nil
}

func (s *portfolioService) ListByOwner(ctx context.Context, userID uuid.UUID, sortBy string, page, size int) (*model.Page, error) {
	pr, err := model.NewPageRequest(page, size, sortBy)
	if err != nil {
		return nil, err
	}

	items, total, err := s.portfolioRepo.ListByOwner(ctx, userID, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios by owner: %w", err)
	}

	// An empty page is an error in this contract, not an empty collection.
	if total == 0 {
		return nil, model.NewNotSearchedError()
	}

	return &model.Page{Items: items, Page: pr.Page, Size: pr.Size, Total: total}, nil
}

func (s *portfolioService) Search(ctx context.Context, page, size int, category, sortBy, value string) (*model.Page, error) {
	pr, err := model.NewPageRequest(page, size, sortBy)
	if err != nil {
		return nil, err
	}

	var items []*model.Portfolio
	var total int

	switch category {
	case SearchByUserName:
		items, total, err = s.portfolioRepo.SearchByOwnerName(ctx, value, pr)
	case SearchByTitle:
		items, total, err = s.portfolioRepo.SearchByTitle(ctx, value, pr)
	default:
		return nil, model.NewInvalidSearchConditionError(category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search portfolios: %w", err)
	}

	if total == 0 {
		return nil, model.NewNotSearchedError()
	}

	return &model.Page{Items: items, Page: pr.Page, Size: pr.Size, Total: total}, nil
}

// =====================================================
// COUNTERS
// =====================================================

func (s *portfolioService) AdjustLikes(ctx context.Context, portfolioID uuid.UUID, delta int64) error {
	if _, err := s.findVerified(ctx, portfolioID); err != nil {
		return err
	}

	if err := s.portfolioRepo.AdjustLikes(ctx, portfolioID, delta); err != nil {
		if errors.Is(err, model.ErrPortfolioNotFound) {
			return model.NewNotFoundError()
		}
		return fmt.Errorf("failed to adjust likes: %w", err)
	}
	return nil
}

func (s *portfolioService) IncreaseViews(ctx context.Context, portfolioID uuid.UUID, viewerKey string) error {
	if _, err := s.findVerified(ctx, portfolioID); err != nil {
		return err
	}

	if s.viewGuard != nil && viewerKey != "" {
		first, err := s.viewGuard.FirstViewToday(ctx, portfolioID, viewerKey)
		if err != nil {
			// The guard is an optional collaborator; count the view rather
			// than fail the request when it is unavailable.
			log.Warn().Err(err).Stringer("portfolio_id", portfolioID).Msg("view guard unavailable")
		} else if !first {
			return nil
		}
	}

	if err := s.portfolioRepo.IncrementViews(ctx, portfolioID); err != nil {
		if errors.Is(err, model.ErrPortfolioNotFound) {
			return model.NewNotFoundError()
		}
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *portfolioService) findVerified(ctx context.Context, portfolioID uuid.UUID) (*model.Portfolio, error) {
	p, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, model.ErrPortfolioNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return p, nil
}

// checkOwnership requires the caller to be the aggregate's owner and the
// owner to still resolve to a verified user. Both failures surface as the
// same permission error.
func (s *portfolioService) checkOwnership(ctx context.Context, p *model.Portfolio, callerID uuid.UUID, action string) error {
	if _, err := s.userRepo.GetByID(ctx, p.UserID); err != nil {
		if errors.Is(err, usermodel.ErrUserNotFound) {
			return model.NewNoPermissionError(action)
		}
		return fmt.Errorf("failed to verify owner: %w", err)
	}

	if p.UserID != callerID {
		return model.NewNoPermissionError(action)
	}
	return nil
}
