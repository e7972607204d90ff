// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
	"newsdesk/internal/slug"
	"newsdesk/internal/taxonomy"
)

// MsgEmptySlug is returned when a name has no letters or digits left to
// build a slug from.
const MsgEmptySlug = "name must contain at least one letter or digit"

// Categories applies the write rules for the category hierarchy.
type Categories struct {
	store CategoryStore
}

// NewCategories returns a category repository backed by store.
func NewCategories(store CategoryStore) *Categories {
	return &Categories{store: store}
}

// prepare normalizes and validates in, returning the derived slug.
func (in *CategoryInput) prepare() (string, error) {
	in.normalize()
	if err := validate(in); err != nil {
		return "", err
	}
	s := slug.Generate(in.Name)
	if s == "" {
		return "", apperr.Validation(MsgEmptySlug)
	}
	return s, nil
}

// Create adds a category. The parent, when given, must exist. New
// categories have no descendants, so no cycle check is needed.
func (r *Categories) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	s, err := in.prepare()
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := r.store.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("parent category", *in.ParentID)
		}
	}
	return r.store.Create(ctx, &models.Category{
		Name:        in.Name,
		Slug:        s,
		Description: in.Description,
		ParentID:    in.ParentID,
	})
}

// Update replaces name, description and parent of category id. The slug
// is always re-derived from the new name. The cycle guard runs against the
// rows the store has locked, so concurrent reparents cannot both pass it
// on stale data.
func (r *Categories) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	s, err := in.prepare()
	if err != nil {
		return nil, err
	}
	return r.store.Update(ctx, id, func(c *models.Category, all []models.Category) error {
		if err := taxonomy.ReparentError(id, in.ParentID, all); err != nil {
			return err
		}
		if in.ParentID != nil && !contains(all, *in.ParentID) {
			return apperr.NotFound("parent category", *in.ParentID)
		}
		c.Name = in.Name
		c.Slug = s
		c.Description = in.Description
		c.ParentID = in.ParentID
		return nil
	})
}

// Delete removes a category that has no subcategories.
func (r *Categories) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, id)
}

// List returns every category in name order.
func (r *Categories) List(ctx context.Context) ([]models.Category, error) {
	cats, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// Tree returns the category forest.
func (r *Categories) Tree(ctx context.Context) ([]*taxonomy.Node, error) {
	cats, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.BuildTree(cats), nil
}

// ParentOptions lists the valid parents for category id, flattened in tree
// order. A nil id (a category being created) may take any parent.
func (r *Categories) ParentOptions(ctx context.Context, id *uuid.UUID) ([]*taxonomy.Node, error) {
	cats, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if id != nil && !contains(cats, *id) {
		return nil, apperr.NotFound("category", *id)
	}
	return taxonomy.AvailableParents(id, cats), nil
}

// Get returns category id.
func (r *Categories) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category", id)
	}
	return c, nil
}

// GetBySlug returns the category with the given slug.
func (r *Categories) GetBySlug(ctx context.Context, s string) (*models.Category, error) {
	c, err := r.store.FindBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category", s)
	}
	return c, nil
}

func contains(cats []models.Category, id uuid.UUID) bool {
	for _, c := range cats {
		if c.ID == id {
			return true
		}
	}
	return false
}
