// Copyright (c) 2026 Revuo. All rights reserved.

package auth

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

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL-backed user store.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical projection for account reads.
func userColumns() string {
	u := schema.UsersAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		u.ID, u.Username, u.Email, u.Role, u.IsSuperuser, u.IsStaff,
		u.Bio, u.FirstName, u.LastName, u.CreatedAt, u.UpdatedAt)
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Role,
		&user.IsSuperuser, &user.IsStaff,
		&user.Bio, &user.FirstName, &user.LastName,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	u := schema.UsersAccount

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", userColumns(), u.Table, column)

	user, err := scanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_user")
	}

	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.ID, id)
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.Username, username)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UsersAccount.Email, email)
}

func (repository *PostgresUserRepository) List(context context.Context, search string, page pagination.Params) ([]User, int, error) {
	u := schema.UsersAccount

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')",
		u.Table, u.Username)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3`,
		userColumns(), u.Table, u.Username, u.Username)

	rows, err := repository.pool.Query(context, listQuery, search, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, *user)
	}

	return users, total, nil
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	u := schema.UsersAccount

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.Table,
		u.ID, u.Username, u.Email, u.Role, u.IsSuperuser, u.IsStaff,
		u.Bio, u.FirstName, u.LastName, u.CreatedAt, u.UpdatedAt,
	)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID, user.Username, user.Email, user.Role, user.IsSuperuser, user.IsStaff,
		user.Bio, user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}

	return nil
}

func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	u := schema.UsersAccount

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $8`,
		u.Table,
		u.Email, u.Role, u.IsSuperuser, u.IsStaff, u.Bio, u.FirstName, u.LastName, u.UpdatedAt,
		u.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.Email, user.Role, user.IsSuperuser, user.IsStaff,
		user.Bio, user.FirstName, user.LastName,
		user.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes an account and everything it authored, then refreshes the
rating of every title the account had reviewed.

The cascade silently drops the account's reviews at the SQL level, so the
derived averages of those titles must be recomputed inside the same
transaction; otherwise they keep counting scores that no longer exist.
*/
func (repository *PostgresUserRepository) Delete(context context.Context, username string) error {
	u := schema.UsersAccount
	r := schema.SocialReview

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_user")
	}
	defer transaction.Rollback(context)

	// Collect the affected titles before the cascade erases the evidence.
	titleQuery := fmt.Sprintf(
		"SELECT DISTINCT r.%s FROM %s r JOIN %s u ON u.%s = r.%s WHERE u.%s = $1",
		r.TitleID, r.Table, u.Table, u.ID, r.AuthorID, u.Username,
	)

	rows, err := transaction.Query(context, titleQuery, username)
	if err != nil {
		return dberr.Wrap(err, "list_reviewed_titles")
	}

	var titleIDs []int64
	for rows.Next() {
		var titleID int64
		if err := rows.Scan(&titleID); err != nil {
			rows.Close()
			return dberr.Wrap(err, "scan_reviewed_title")
		}
		titleIDs = append(titleIDs, titleID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "list_reviewed_titles")
	}

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", u.Table, u.Username)

	tag, err := transaction.Exec(context, deleteQuery, username)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	if err := refreshOrphanedRatings(context, transaction, titleIDs); err != nil {
		return err
	}

	return dberr.Wrap(transaction.Commit(context), "commit_delete_user")
}

// refreshOrphanedRatings recomputes the derived rating of each title after
// the cascade removed the deleted account's reviews. The row lock serializes
// against concurrent review writers the same way the review store does.
func refreshOrphanedRatings(context context.Context, transaction pgx.Tx, titleIDs []int64) error {
	t := schema.CatalogTitle
	r := schema.SocialReview

	lockQuery := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 FOR UPDATE", t.Table, t.ID)
	refreshQuery := fmt.Sprintf(`
		UPDATE %s SET %s = (
			SELECT ROUND(AVG(%s)::numeric, 1) FROM %s WHERE %s = $1
		) WHERE %s = $1`,
		t.Table, t.Rating,
		r.Score, r.Table, r.TitleID,
		t.ID,
	)

	for _, titleID := range titleIDs {
		if _, err := transaction.Exec(context, lockQuery, titleID); err != nil {
			return dberr.Wrap(err, "lock_reviewed_title")
		}
		if _, err := transaction.Exec(context, refreshQuery, titleID); err != nil {
			return dberr.Wrap(err, "refresh_orphaned_rating")
		}
	}

	return nil
}
