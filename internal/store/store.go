// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides PostgreSQL access for every newsroom entity. Each
// store struct wraps a *sql.DB and exposes typed query methods. Driver
// errors that carry domain meaning (unique, foreign key and check
// violations) are translated into apperr values here.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"newsdesk/internal/apperr"
)

// Postgres SQLSTATE codes handled by storeErr.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// constraintMessages maps constraint names onto user-facing messages.
var constraintMessages = map[string]string{
	"categories_slug_key":           "a category with this slug already exists",
	"tags_slug_key":                 "a tag with this slug already exists",
	"articles_slug_key":             "an article with this slug already exists",
	"users_email_key":               "a user with this email already exists",
	"categories_parent_id_fkey":     "parent category not found",
	"categories_not_own_parent":     "category cannot be its own parent",
	"articles_category_id_fkey":     "category not found",
	"articles_author_id_fkey":       "author not found",
	"article_tags_article_id_fkey":  "article not found",
	"article_tags_tag_id_fkey":      "tag not found",
	"articles_image_position_check": "invalid featured image position",
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// storeErr classifies err for operation op. Constraint violations become
// application errors; everything else is wrapped unchanged.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg, known := constraintMessages[pgErr.ConstraintName]
	switch pgErr.Code {
	case pgUniqueViolation:
		if !known {
			msg = "record already exists"
		}
		return &apperr.Error{Kind: apperr.KindConflict, Message: msg, Err: err}
	case pgForeignKeyViolation:
		if !known {
			msg = "referenced record not found"
		}
		return &apperr.Error{Kind: apperr.KindNotFound, Message: msg, Err: err}
	case pgCheckViolation:
		if !known {
			msg = "invalid value"
		}
		return &apperr.Error{Kind: apperr.KindValidation, Message: msg, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isForeignKeyViolation reports whether err is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// withTx runs fn inside a transaction, committing when fn succeeds.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
