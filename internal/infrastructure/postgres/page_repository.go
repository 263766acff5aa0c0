package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guided-checkout/guided-checkout/internal/domain/page"
)

// PageRepository implements page.Repository.
type PageRepository struct {
	pool *pgxpool.Pool
}

func NewPageRepository(pool *pgxpool.Pool) *PageRepository {
	return &PageRepository{pool: pool}
}

func (r *PageRepository) GetByStep(ctx context.Context, step int) (*page.Page, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, step, slug, title, published, updated_at
		FROM step_pages WHERE step=$1
	`, step)
	return scanPage(row)
}

func (r *PageRepository) List(ctx context.Context) ([]*page.Page, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, step, slug, title, published, updated_at
		FROM step_pages ORDER BY step
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]*page.Page, 0)
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func scanPage(row pgx.Row) (*page.Page, error) {
	var p page.Page
	if err := row.Scan(&p.ID, &p.Step, &p.Slug, &p.Title, &p.Published, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
