package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-backend/internal/domains/portfolio/model"
	"portfolio-backend/pkg/database"
)

type postgresPortfolioRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPortfolioRepository(pool *pgxpool.Pool) PortfolioRepository {
	return &postgresPortfolioRepository{pool: pool}
}

// =====================================================
// SAVE AGGREGATE
// =====================================================

// SaveAggregate writes the whole aggregate in one transaction. Attachment
// and skill rows are replaced with the in-memory state: the gallery and the
// skill set are replace-wholesale operations at the service layer, so a
// delete-and-reinsert here is exact, and unchanged rows are rewritten with
// their existing identifiers.
func (r *postgresPortfolioRepository) SaveAggregate(ctx context.Context, p *model.Portfolio) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO portfolios (
				id, user_id, title, description, git_link, content,
				view_count, like_count, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				git_link = EXCLUDED.git_link,
				content = EXCLUDED.content,
				updated_at = EXCLUDED.updated_at
		`

		_, err := tx.Exec(ctx, query,
			p.ID,
			p.UserID,
			p.Title,
			p.Description,
			p.GitLink,
			p.Content,
			p.ViewCount,
			p.LikeCount,
			p.CreatedAt,
			p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save portfolio: %w", err)
		}

		if err := r.replaceAttachments(ctx, tx, p); err != nil {
			return err
		}

		return r.replaceSkills(ctx, tx, p)
	})
}

func (r *postgresPortfolioRepository) replaceAttachments(ctx context.Context, tx pgx.Tx, p *model.Portfolio) error {
	if _, err := tx.Exec(ctx, `DELETE FROM representative_attachments WHERE portfolio_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear representative attachment: %w", err)
	}

	if p.Representative != nil {
		_, err := tx.Exec(ctx,
			`INSERT INTO representative_attachments (id, portfolio_id, url) VALUES ($1, $2, $3)`,
			p.Representative.ID, p.ID, p.Representative.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to save representative attachment: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM image_attachments WHERE portfolio_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear image attachments: %w", err)
	}

	for _, img := range p.Images {
		_, err := tx.Exec(ctx,
			`INSERT INTO image_attachments (id, portfolio_id, url) VALUES ($1, $2, $3)`,
			img.ID, p.ID, img.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to save image attachment: %w", err)
		}
	}

	return nil
}

func (r *postgresPortfolioRepository) replaceSkills(ctx context.Context, tx pgx.Tx, p *model.Portfolio) error {
	if _, err := tx.Exec(ctx, `DELETE FROM portfolio_skills WHERE portfolio_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear portfolio skills: %w", err)
	}

	for _, s := range p.Skills {
		_, err := tx.Exec(ctx,
			`INSERT INTO portfolio_skills (portfolio_id, skill_id) VALUES ($1, $2)`,
			p.ID, s.SkillID,
		)
		if err != nil {
			return fmt.Errorf("failed to save portfolio skill: %w", err)
		}
	}

	return nil
}

// =====================================================
// READS
// =====================================================

const portfolioColumns = `
	p.id, p.user_id, u.name, p.title, p.description, p.git_link, p.content,
	p.view_count, p.like_count, p.created_at, p.updated_at
`

func scanPortfolio(row pgx.Row) (*model.Portfolio, error) {
	p := &model.Portfolio{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.UserName,
		&p.Title,
		&p.Description,
		&p.GitLink,
		&p.Content,
		&p.ViewCount,
		&p.LikeCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	p, err := scanPortfolio(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	if err := r.loadChildren(ctx, []*model.Portfolio{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPortfolioRepository) GetAll(ctx context.Context) ([]*model.Portfolio, error) {
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
	`

	portfolios, err := r.queryPortfolios(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

func (r *postgresPortfolioRepository) ListAll(ctx context.Context, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	query := fmt.Sprintf(`
		SELECT `+portfolioColumns+`
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.%s DESC
		LIMIT $1 OFFSET $2
	`, pr.SortColumn)

	portfolios, err := r.queryPortfolios(ctx, query, pr.Size, pr.Offset())
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM portfolios`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count portfolios: %w", err)
	}

	if err := r.loadChildren(ctx, portfolios); err != nil {
		return nil, 0, err
	}
	return portfolios, total, nil
}

func (r *postgresPortfolioRepository) ListByOwner(ctx context.Context, userID uuid.UUID, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	query := fmt.Sprintf(`
		SELECT `+portfolioColumns+`
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.%s DESC
		LIMIT $2 OFFSET $3
	`, pr.SortColumn)

	portfolios, err := r.queryPortfolios(ctx, query, userID, pr.Size, pr.Offset())
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM portfolios WHERE user_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count portfolios: %w", err)
	}

	if err := r.loadChildren(ctx, portfolios); err != nil {
		return nil, 0, err
	}
	return portfolios, total, nil
}

func (r *postgresPortfolioRepository) SearchByOwnerName(ctx context.Context, name string, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	query := fmt.Sprintf(`
		SELECT `+portfolioColumns+`
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE u.name = $1
		ORDER BY p.%s DESC
		LIMIT $2 OFFSET $3
	`, pr.SortColumn)

	portfolios, err := r.queryPortfolios(ctx, query, name, pr.Size, pr.Offset())
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE u.name = $1
	`
	if err := r.pool.QueryRow(ctx, countQuery, name).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count portfolios: %w", err)
	}

	if err := r.loadChildren(ctx, portfolios); err != nil {
		return nil, 0, err
	}
	return portfolios, total, nil
}

func (r *postgresPortfolioRepository) SearchByTitle(ctx context.Context, title string, pr model.PageRequest) ([]*model.Portfolio, int, error) {
	pattern := "%" + title + "%"

	query := fmt.Sprintf(`
		SELECT `+portfolioColumns+`
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE p.title ILIKE $1
		ORDER BY p.%s DESC
		LIMIT $2 OFFSET $3
	`, pr.SortColumn)

	portfolios, err := r.queryPortfolios(ctx, query, pattern, pr.Size, pr.Offset())
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM portfolios WHERE title ILIKE $1`
	if err := r.pool.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count portfolios: %w", err)
	}

	if err := r.loadChildren(ctx, portfolios); err != nil {
		return nil, 0, err
	}
	return portfolios, total, nil
}

func (r *postgresPortfolioRepository) queryPortfolios(ctx context.Context, query string, args ...any) ([]*model.Portfolio, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*model.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read portfolio rows: %w", err)
	}

	return portfolios, nil
}

// loadChildren attaches representative, gallery and skill rows to the given
// portfolios in three batched queries.
func (r *postgresPortfolioRepository) loadChildren(ctx context.Context, portfolios []*model.Portfolio) error {
	if len(portfolios) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Portfolio, len(portfolios))
	ids := make([]string, 0, len(portfolios))
	for _, p := range portfolios {
		byID[p.ID] = p
		ids = append(ids, p.ID.String())
	}

	repQuery := `
		SELECT id, portfolio_id, url
		FROM representative_attachments
		WHERE portfolio_id = ANY($1::uuid[])
	`
	rows, err := r.pool.Query(ctx, repQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query representative attachments: %w", err)
	}
	for rows.Next() {
		att := &model.RepresentativeAttachment{}
		if err := rows.Scan(&att.ID, &att.PortfolioID, &att.URL); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan representative attachment: %w", err)
		}
		if p, ok := byID[att.PortfolioID]; ok {
			p.Representative = att
		}
	}
	rows.Close()

	imgQuery := `
		SELECT id, portfolio_id, url
		FROM image_attachments
		WHERE portfolio_id = ANY($1::uuid[])
		ORDER BY id
	`
	rows, err = r.pool.Query(ctx, imgQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query image attachments: %w", err)
	}
	for rows.Next() {
		att := model.ImageAttachment{}
		if err := rows.Scan(&att.ID, &att.PortfolioID, &att.URL); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan image attachment: %w", err)
		}
		if p, ok := byID[att.PortfolioID]; ok {
			p.Images = append(p.Images, att)
		}
	}
	rows.Close()

	skillQuery := `
		SELECT ps.portfolio_id, ps.skill_id, s.name
		FROM portfolio_skills ps
		JOIN skills s ON s.id = ps.skill_id
		WHERE ps.portfolio_id = ANY($1::uuid[])
	`
	rows, err = r.pool.Query(ctx, skillQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query portfolio skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var portfolioID uuid.UUID
		link := model.SkillLink{}
		if err := rows.Scan(&portfolioID, &link.SkillID, &link.Name); err != nil {
			return fmt.Errorf("failed to scan portfolio skill: %w", err)
		}
		if p, ok := byID[portfolioID]; ok {
			p.Skills = append(p.Skills, link)
		}
	}

	return nil
}

// =====================================================
// MUTATIONS
// =====================================================

// Delete removes the aggregate root; attachment and skill rows go with it
// via ON DELETE CASCADE. Blobs are deliberately left to the reconciliation
// sweep.
func (r *postgresPortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPortfolioNotFound
	}
	return nil
}

func (r *postgresPortfolioRepository) AdjustLikes(ctx context.Context, id uuid.UUID, delta int64) error {
	query := `UPDATE portfolios SET like_count = like_count + $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust likes: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPortfolioNotFound
	}
	return nil
}

func (r *postgresPortfolioRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE portfolios SET view_count = view_count + 1, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPortfolioNotFound
	}
	return nil
}

func (r *postgresPortfolioRepository) ListAttachmentURLs(ctx context.Context) ([]string, error) {
	query := `
		SELECT url FROM representative_attachments
		UNION
		SELECT url FROM image_attachments
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachment urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan attachment url: %w", err)
		}
		urls = append(urls, url)
	}

	return urls, nil
}
