// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package repository holds the newsroom's write rules: input validation,
// slug derivation, hierarchy checks and tag synchronization. It sits
// between the HTTP handlers and the storage layer, which it reaches through
// the narrow interfaces below so tests can use an in-memory store.
//
// Every method fails fast with an apperr value except Tags.CreateBatch,
// which reports per-name failures alongside the tags it did create.
package repository

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// CategoryStore persists categories. Update must call apply while holding
// locks on every category row, passing a copy of the target and the list.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, apply func(c *models.Category, all []models.Category) error) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagStore persists tags.
type TagStore interface {
	List(ctx context.Context) ([]models.Tag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	Create(ctx context.Context, t *models.Tag) (*models.Tag, error)
	Update(ctx context.Context, t *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ArticleStore persists articles and their tag sets. A nil tagIDs on
// Create, or a nil pointer on Update, leaves associations untouched.
type ArticleStore interface {
	List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error)
	Count(ctx context.Context, f models.ArticleFilter) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
	Create(ctx context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error)
	Update(ctx context.Context, id uuid.UUID, apply func(a *models.Article) error, tagIDs *[]uuid.UUID) (*models.Article, error)
	SyncTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	IntervieweeNames(ctx context.Context) ([]string, error)
}

// AuthorLookup resolves an author identity to a user.
type AuthorLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// validate runs v.Validate and turns ozzo failures into validation errors.
func validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperr.Storage("validate input", err)
	}
	return &apperr.Error{Kind: apperr.KindValidation, Message: err.Error(), Err: err}
}

// dedupe removes repeated IDs, keeping the first occurrence of each.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
