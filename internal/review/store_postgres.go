// Copyright (c) 2026 Revuo. All rights reserved.

/*
Package review implements the review engine and its PostgreSQL store.

The store keeps one hard invariant: the derived rating on catalog.title is
recomputed inside the same transaction as every review mutation. A commit
either lands the review change and the fresh rating together, or neither.

Every mutating transaction takes the parent title's row lock before touching
review rows. Under READ COMMITTED the rating subselect of a blocked writer
would otherwise run on a snapshot taken before the lock holder committed and
average a review set missing that writer's row; serializing on the title row
forces the recompute to start after every earlier writer is visible.
*/
package review

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

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed review store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) (bool, error) {
	t := schema.CatalogTitle

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", t.Table, t.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "title_exists")
	}

	return exists, nil
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID int64, page pagination.Params) ([]Review, int, error) {
	r := schema.SocialReview
	u := schema.UsersAccount

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s,
			COUNT(*) OVER() AS total_count
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		r.ID, r.TitleID, r.AuthorID, u.Username, r.Text, r.Score, r.PubDate,
		r.Table,
		u.Table, u.ID, r.AuthorID,
		r.TitleID,
		r.PubDate, r.ID,
	)

	rows, err := repository.pool.Query(context, query, titleID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	var total int
	for rows.Next() {
		var review Review
		if err := rows.Scan(&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
			&review.Text, &review.Score, &review.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	r := schema.SocialReview
	u := schema.UsersAccount

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		r.ID, r.TitleID, r.AuthorID, u.Username, r.Text, r.Score, r.PubDate,
		r.Table,
		u.Table, u.ID, r.AuthorID,
		r.TitleID, r.ID,
	)

	review := &Review{}
	err := repository.pool.QueryRow(context, query, titleID, reviewID).Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, dberr.Wrap(err, "get_review")
	}

	return review, nil
}

/*
Create inserts a review and refreshes the parent title's rating atomically.

A duplicate (title, author) insert loses to the unique constraint and comes
back as a field-level validation error, which also covers two concurrent
first-reviews racing each other.
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	r := schema.SocialReview

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_review")
	}
	defer transaction.Rollback(context)

	if err := lockTitle(context, transaction, review.TitleID); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5) RETURNING %s`,
		r.Table, r.TitleID, r.AuthorID, r.Text, r.Score, r.PubDate, r.ID)

	review.CreatedAt = time.Now()

	err = transaction.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score, review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		if name, isUnique := dberr.ConstraintName(err); isUnique && name == schema.UniqueReviewPerAuthor {
			return apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldScore,
				Message: "You have already reviewed this title",
			})
		}
		return dberr.Wrap(err, "create_review")
	}

	if err := refreshTitleRating(context, transaction, review.TitleID); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "commit_create_review")
}

// Update rewrites text and score, then refreshes the title rating in the
// same transaction.
func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	r := schema.SocialReview

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_review")
	}
	defer transaction.Rollback(context)

	if err := lockTitle(context, transaction, review.TitleID); err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 AND %s = $4`,
		r.Table, r.Text, r.Score, r.ID, r.TitleID)

	tag, err := transaction.Exec(context, query, review.Text, review.Score, review.ID, review.TitleID)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	if err := refreshTitleRating(context, transaction, review.TitleID); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "commit_update_review")
}

// Delete removes a review and refreshes the title rating. When the last
// review goes, the rating returns to NULL.
func (repository *PostgresRepository) Delete(context context.Context, titleID, reviewID int64) error {
	r := schema.SocialReview

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_review")
	}
	defer transaction.Rollback(context)

	if err := lockTitle(context, transaction, titleID); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", r.Table, r.ID, r.TitleID)

	tag, err := transaction.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}

	if err := refreshTitleRating(context, transaction, titleID); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "commit_delete_review")
}

// titleLockQuery is the row lock taken at the start of every mutating
// transaction. Writers against the same title serialize here, so the
// rating recompute always reads the full committed review set.
func titleLockQuery() string {
	t := schema.CatalogTitle
	return fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE", t.Table, t.ID)
}

// lockTitle acquires the parent title's row lock, doubling as an existence
// check against a title deleted after the service-level lookup.
func lockTitle(context context.Context, transaction pgx.Tx, titleID int64) error {
	tag, err := transaction.Exec(context, titleLockQuery(), titleID)
	if err != nil {
		return dberr.Wrap(err, "lock_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	return nil
}

// refreshTitleRating recomputes the derived rating from the surviving
// scores. AVG over zero rows is NULL, which is exactly the unrated state.
func refreshTitleRating(context context.Context, transaction pgx.Tx, titleID int64) error {
	t := schema.CatalogTitle
	r := schema.SocialReview

	query := fmt.Sprintf(`
		UPDATE %s SET %s = (
			SELECT ROUND(AVG(%s)::numeric, 1) FROM %s WHERE %s = $1
		) WHERE %s = $1`,
		t.Table, t.Rating,
		r.Score, r.Table, r.TitleID,
		t.ID,
	)

	if _, err := transaction.Exec(context, query, titleID); err != nil {
		return dberr.Wrap(err, "refresh_title_rating")
	}

	return nil
}
