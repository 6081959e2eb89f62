package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/domains/skill/model"
)

type postgresSkillRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSkillRepository(pool *pgxpool.Pool) SkillRepository {
	return &postgresSkillRepository{pool: pool}
}

func (r *postgresSkillRepository) FindByName(ctx context.Context, name string) (*model.Skill, error) {
	query := `SELECT id, name, created_at FROM skills WHERE name = $1`

	skill := &model.Skill{}
	err := r.pool.QueryRow(ctx, query, name).Scan(&skill.ID, &skill.Name, &skill.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}

	return skill, nil
}

func (r *postgresSkillRepository) GetAll(ctx context.Context) ([]*model.Skill, error) {
	query := `SELECT id, name, created_at FROM skills ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []*model.Skill
	for rows.Next() {
		skill := &model.Skill{}
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, skill)
	}

	return skills, nil
}

func (r *postgresSkillRepository) Create(ctx context.Context, skill *model.Skill) error {
	query := `INSERT INTO skills (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, skill.ID, skill.Name, skill.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	return nil
}
