package repository

import (
	"context"

	"github.com/google/uuid"

	"portfolio-backend/internal/domains/user/model"
)

// UserRepository verifies user references for the portfolio domain.
type UserRepository interface {
	// GetByID loads a user, failing with ErrUserNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
