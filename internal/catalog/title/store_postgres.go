// Copyright (c) 2026 Revuo. All rights reserved.

/*
Package title provides the PostgreSQL implementation for the title catalog.

It leans on a few Postgres features to keep reads to a single round-trip:
  - JSON Aggregation: genre links are folded into a JSON array per row.
  - Window Functions: COUNT(*) OVER() returns totals without a second query.
  - ACID Transactions: title rows and genre junction rows change together.
*/
package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revuo/revuo/internal/platform/apperr"
	"github.com/revuo/revuo/internal/platform/database/schema"
	"github.com/revuo/revuo/internal/platform/dberr"
	"github.com/revuo/revuo/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectClause is the shared hydrating projection: core columns, the joined
// category, and a JSON array of genre refs.
func selectClause(extra string) string {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre

	return fmt.Sprintf(`
		SELECT
			t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
			c.%s, c.%s,
			%s
			COALESCE((
				SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s))
				FROM %s g
				JOIN %s tg ON g.%s = tg.%s
				WHERE tg.%s = t.%s
			), '[]') AS genres
		FROM %s t
		JOIN %s c ON c.%s = t.%s
	`,
		t.ID, t.Name, t.Year, t.Description, t.Rating, t.CreatedAt, t.CategoryID,
		c.Name, c.Slug,
		extra,
		g.Name, g.Slug,
		g.Table,
		tg.Table, g.ID, tg.GenreID,
		tg.TitleID, t.ID,
		t.Table,
		c.Table, c.ID, t.CategoryID,
	)
}

func scanTitle(row pgx.Row, withTotal bool) (*Title, int, error) {
	title := &Title{}
	var genresJSON []byte
	var total int

	dest := []any{
		&title.ID, &title.Name, &title.Year, &title.Description, &title.Rating,
		&title.CreatedAt, &title.CategoryID,
		&title.Category.Name, &title.Category.Slug,
	}
	if withTotal {
		dest = append(dest, &total)
	}
	dest = append(dest, &genresJSON)

	if err := row.Scan(dest...); err != nil {
		return nil, 0, err
	}

	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}

	return title, total, nil
}

/*
List returns a filtered, paginated slice of titles and the total count.

Filters compose with AND semantics: category slug, genre slug (EXISTS over
the junction table), case-insensitive name substring, and exact year.

Parameters:
  - context: context.Context
  - filter: Filter (category/genre slugs, name search, year)
  - page: pagination.Params

Returns:
  - []Title: Hydrated title entities
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]Title, int, error) {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre

	var queryBuilder strings.Builder
	queryBuilder.WriteString(selectClause("COUNT(*) OVER() AS total_count,"))
	queryBuilder.WriteString(" WHERE TRUE")

	var args []any
	argID := 1

	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", c.Slug, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	if filter.GenreSlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = $%d)",
			tg.Table, g.Table, g.ID, tg.GenreID, tg.TitleID, t.ID, g.Slug, argID,
		))
		args = append(args, filter.GenreSlug)
		argID++
	}

	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE '%%' || $%d || '%%'", t.Name, argID))
		args = append(args, filter.Name)
		argID++
	}

	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", t.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s ASC, t.%s ASC", t.Name, t.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]Title, 0)
	var total int
	for rows.Next() {
		title, rowTotal, err := scanTitle(rows, true)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		total = rowTotal
		titles = append(titles, *title)
	}

	return titles, total, nil
}

// GetByID returns a single hydrated title.
func (repository *PostgresRepository) GetByID(context context.Context, id int64) (*Title, error) {
	t := schema.CatalogTitle

	query := selectClause("") + fmt.Sprintf(" WHERE t.%s = $1", t.ID)

	title, _, err := scanTitle(repository.pool.QueryRow(context, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, dberr.Wrap(err, "get_title")
	}

	return title, nil
}

/*
Create persists a new title and its genre links in a single transaction.

The entity arrives with CategoryID and GenreIDs resolved; the hydrated refs
are filled by a follow-up read in the service layer.
*/
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	t := schema.CatalogTitle

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_title")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5) RETURNING %s`,
		t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.CreatedAt, t.ID)

	title.CreatedAt = time.Now()

	err = transaction.QueryRow(context, query,
		title.Name, title.Year, title.Description, title.CategoryID, title.CreatedAt,
	).Scan(&title.ID)
	if err != nil {
		return dberr.Wrap(err, "create_title")
	}

	if err := replaceGenreLinks(context, transaction, title.ID, title.GenreIDs); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_title")
	}

	return nil
}

// Update applies a partial update and optionally replaces genre links,
// all inside one transaction.
func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) error {
	t := schema.CatalogTitle

	var setClauses []string
	var args []any
	argID := 1

	appendSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Name != nil {
		appendSet(t.Name, *patch.Name)
	}
	if patch.Year != nil {
		appendSet(t.Year, *patch.Year)
	}
	if patch.Description != nil {
		appendSet(t.Description, *patch.Description)
	}
	if patch.CategoryID != nil {
		appendSet(t.CategoryID, *patch.CategoryID)
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_title")
	}
	defer transaction.Rollback(context)

	if len(setClauses) > 0 {
		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			t.Table, strings.Join(setClauses, ", "), t.ID, argID)
		args = append(args, id)

		tag, err := transaction.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title")
		}
	} else {
		existsQuery := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", t.Table, t.ID)
		var exists bool
		if err := transaction.QueryRow(context, existsQuery, id).Scan(&exists); err != nil {
			return dberr.Wrap(err, "check_title_exists")
		}
		if !exists {
			return apperr.NotFound("Title")
		}
	}

	if patch.GenreIDs != nil {
		if err := replaceGenreLinks(context, transaction, id, patch.GenreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_title")
	}

	return nil
}

// Delete removes a title. Dependent reviews and comments cascade at the
// schema level.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	t := schema.CatalogTitle

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.Table, t.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// replaceGenreLinks synchronizes the title/genre junction table using a
// clear-and-insert strategy batched over a single round-trip.
func replaceGenreLinks(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	tg := schema.CatalogTitleGenre

	delQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", tg.Table, tg.TitleID)
	if _, err := transaction.Exec(context, delQuery, titleID); err != nil {
		return dberr.Wrap(err, "clear_title_genres")
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)", tg.Table, tg.TitleID, tg.GenreID)
	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insQuery, titleID, genreID)
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return dberr.Wrap(err, "insert_title_genres")
	}

	return nil
}
