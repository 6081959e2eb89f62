package repository

import (
	"context"

	"portfolio-backend/internal/domains/skill/model"
)

// SkillRepository is the catalog of canonical skills. It resolves uppercase
// names to skill identifiers; unknown names fail with ErrSkillNotFound.
type SkillRepository interface {
	// FindByName looks up a skill by its uppercase name.
	FindByName(ctx context.Context, name string) (*model.Skill, error)

	// GetAll lists the whole catalog.
	GetAll(ctx context.Context) ([]*model.Skill, error)

	// Create adds a new catalog entry.
	Create(ctx context.Context, skill *model.Skill) error
}
