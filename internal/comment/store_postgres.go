// Copyright (c) 2026 Revuo. All rights reserved.

package comment

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

func (repository *PostgresRepository) ReviewExists(context context.Context, titleID, reviewID int64) (bool, error) {
	r := schema.SocialReview

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		r.Table, r.ID, r.TitleID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, reviewID, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "review_exists")
	}

	return exists, nil
}

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID int64, page pagination.Params) ([]Comment, int, error) {
	c := schema.SocialComment
	u := schema.UsersAccount

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s,
			COUNT(*) OVER() AS total_count
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3`,
		c.ID, c.ReviewID, c.AuthorID, u.Username, c.Text, c.PubDate,
		c.Table,
		u.Table, u.ID, c.AuthorID,
		c.ReviewID,
		c.PubDate, c.ID,
	)

	rows, err := repository.pool.Query(context, query, reviewID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]Comment, 0)
	var total int
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
			&comment.Text, &comment.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	c := schema.SocialComment
	u := schema.UsersAccount

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		c.ID, c.ReviewID, c.AuthorID, u.Username, c.Text, c.PubDate,
		c.Table,
		u.Table, u.ID, c.AuthorID,
		c.ReviewID, c.ID,
	)

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, reviewID, commentID).Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(err, "get_comment")
	}

	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		c.Table, c.ReviewID, c.AuthorID, c.Text, c.PubDate, c.ID)

	comment.CreatedAt = time.Now()

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3`,
		c.Table, c.Text, c.ID, c.ReviewID)

	tag, err := repository.pool.Exec(context, query, comment.Text, comment.ID, comment.ReviewID)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, reviewID, commentID int64) error {
	c := schema.SocialComment

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", c.Table, c.ID, c.ReviewID)

	tag, err := repository.pool.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}
