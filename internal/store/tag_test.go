// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

func createTag(t *testing.T, s *TagStore, name string) *models.Tag {
	t.Helper()
	tag, err := s.Create(context.Background(), &models.Tag{Name: name, Slug: unique(name)})
	if err != nil {
		t.Fatalf("Create tag %s: %v", name, err)
	}
	return tag
}

func TestTagStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)
	ctx := context.Background()

	tag := createTag(t, s, "economy")
	t.Cleanup(func() { cleanTags(t, db, tag.ID) })

	found, err := s.FindByID(ctx, tag.ID)
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v, %v", found, err)
	}

	tag.Name = "Economia"
	tag.Slug = unique("economia")
	updated, err := s.Update(ctx, tag)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Economia" || updated.Slug != tag.Slug {
		t.Errorf("Update: got %q/%q", updated.Name, updated.Slug)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var listed bool
	for _, other := range all {
		if other.ID == tag.ID {
			listed = true
		}
	}
	if !listed {
		t.Error("created tag missing from List")
	}

	if err := s.Delete(ctx, tag.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, tag.ID); !apperr.IsNotFound(err) {
		t.Errorf("second Delete: expected not found, got %v", err)
	}
}

func TestTagStoreDuplicateSlug(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)
	ctx := context.Background()

	first := createTag(t, s, "first")
	second := createTag(t, s, "second")
	t.Cleanup(func() { cleanTags(t, db, first.ID, second.ID) })

	if _, err := s.Create(ctx, &models.Tag{Name: "x", Slug: first.Slug}); !apperr.IsConflict(err) {
		t.Errorf("Create duplicate: expected conflict, got %v", err)
	}

	second.Slug = first.Slug
	if _, err := s.Update(ctx, second); !apperr.IsConflict(err) {
		t.Errorf("Update to duplicate: expected conflict, got %v", err)
	}
}

func TestTagStoreUpdateNotFound(t *testing.T) {
	db := testDB(t)
	s := NewTagStore(db)

	_, err := s.Update(context.Background(), &models.Tag{ID: uuid.New(), Name: "x", Slug: unique("x")})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
