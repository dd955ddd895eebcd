// Copyright (c) 2026 Revuo. All rights reserved.

package genre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/database/schema"
	"github.com/revuo/revuo/internal/platform/dberr"
	"github.com/revuo/revuo/pkg/pagination"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) List(context context.Context, search string, page pagination.Params) ([]Genre, int, error) {
	table := schema.CatalogGenre

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')`,
		table.Table, table.Name)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		table.ID, table.Name, table.Slug, table.CreatedAt,
		table.Table, table.Name, table.Name,
	)

	rows, err := repository.pool.Query(context, listQuery, search, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]Genre, 0)
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	table := schema.CatalogGenre

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.CreatedAt, table.Table, table.Slug)

	g := &Genre{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Genre")
		}
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	table := schema.CatalogGenre

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.CreatedAt, table.ID)

	genre.CreatedAt = time.Now()

	err := repository.pool.QueryRow(context, query, genre.Name, genre.Slug, genre.CreatedAt).Scan(&genre.ID)
	if err != nil {
		if _, isUnique := dberr.ConstraintName(err); isUnique {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldSlug,
				Message: "This slug is already in use",
			})
		}
		return dberr.Wrap(err, "create_genre")
	}

	return nil
}

// DeleteBySlug removes a genre. Junction rows cascade, so titles simply
// lose the label and keep their remaining genres.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	table := schema.CatalogGenre

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre")
	}

	return nil
}
