// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
	"newsdesk/internal/slug"
)

// Tags applies the write rules for flat tags.
type Tags struct {
	store TagStore
}

// NewTags returns a tag repository backed by store.
func NewTags(store TagStore) *Tags {
	return &Tags{store: store}
}

// BatchResult reports the outcome of CreateBatch. Errors holds one
// `"<name>": <reason>` entry per name that could not be created.
type BatchResult struct {
	Created []models.Tag `json:"created"`
	Errors  []string     `json:"errors"`
}

func prepareTag(name string) (string, string, error) {
	in := TagInput{Name: strings.TrimSpace(name)}
	if err := validate(in); err != nil {
		return "", "", err
	}
	s := slug.Generate(in.Name)
	if s == "" {
		return "", "", apperr.Validation(MsgEmptySlug)
	}
	return in.Name, s, nil
}

// Create adds a tag.
func (r *Tags) Create(ctx context.Context, name string) (*models.Tag, error) {
	name, s, err := prepareTag(name)
	if err != nil {
		return nil, err
	}
	return r.store.Create(ctx, &models.Tag{Name: name, Slug: s})
}

// CreateBatch creates up to MaxBatchTags tags one after another. A failing
// name is recorded in the result and does not stop the rest; the call
// itself fails only for an empty or oversized list.
func (r *Tags) CreateBatch(ctx context.Context, names []string) (*BatchResult, error) {
	if len(names) == 0 {
		return nil, apperr.Validation("at least one tag name is required")
	}
	if len(names) > MaxBatchTags {
		return nil, apperr.Validationf("at most %d tags can be created at once", MaxBatchTags)
	}

	result := &BatchResult{Created: []models.Tag{}, Errors: []string{}}
	for _, name := range names {
		t, err := r.Create(ctx, name)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%q: %s", name, apperr.Message(err)))
			continue
		}
		result.Created = append(result.Created, *t)
	}
	return result, nil
}

// Update renames tag id and re-derives its slug.
func (r *Tags) Update(ctx context.Context, id uuid.UUID, name string) (*models.Tag, error) {
	name, s, err := prepareTag(name)
	if err != nil {
		return nil, err
	}
	return r.store.Update(ctx, &models.Tag{ID: id, Name: name, Slug: s})
}

// Delete removes tag id. Articles carrying it simply lose the tag.
func (r *Tags) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, id)
}

// List returns every tag in name order.
func (r *Tags) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// Get returns tag id.
func (r *Tags) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("tag", id)
	}
	return t, nil
}
