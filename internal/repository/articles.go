// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
	"newsdesk/internal/richtext"
	"newsdesk/internal/slug"
)

// Articles applies the write rules for articles and their tags.
type Articles struct {
	store   ArticleStore
	authors AuthorLookup
	now     func() time.Time
}

// NewArticles returns an article repository. authors resolves the email of
// the signed-in editor to the author row.
func NewArticles(store ArticleStore, authors AuthorLookup) *Articles {
	return &Articles{store: store, authors: authors, now: time.Now}
}

// prepared is an ArticleInput turned into storable values.
type prepared struct {
	slug    string
	content string
	tags    *[]uuid.UUID
}

func (r *Articles) prepare(in *ArticleInput) (*prepared, error) {
	in.normalize()
	if err := validate(in); err != nil {
		return nil, err
	}

	source := in.Slug
	if source == "" {
		source = in.Title
	}
	s := slug.Generate(source)
	if s == "" {
		return nil, apperr.Validation("title must contain at least one letter or digit")
	}

	content := in.Content
	if content == "" && in.ContentMarkdown != nil {
		html, err := richtext.FromMarkdown(*in.ContentMarkdown)
		if err != nil {
			return nil, apperr.Validationf("content_markdown: %v", err)
		}
		content = html
	} else {
		content = richtext.Sanitize(content)
	}

	p := &prepared{slug: s, content: content}
	if in.Tags != nil {
		ids := dedupe(*in.Tags)
		p.tags = &ids
	}
	return p, nil
}

// fill copies the editable fields of in onto a.
func (p *prepared) fill(a *models.Article, in *ArticleInput) {
	a.Title = in.Title
	a.Slug = p.slug
	a.Summary = in.Summary
	a.Content = p.content
	a.CoverImageURL = in.CoverImageURL
	a.FeaturedImagePosition = in.FeaturedImagePosition
	a.CategoryID = in.CategoryID
	a.IsFeatured = in.IsFeatured
	a.IsPublished = in.IsPublished
	a.IntervieweeName = in.IntervieweeName
	a.InterviewDate = parseDate(in.InterviewDate)
	a.PublishedDate = parseDate(in.PublishedDate)
}

// Create adds an article by the author with email authorEmail. Publishing
// at creation stamps published_at. Tags, when present, are attached in the
// same transaction as the insert.
func (r *Articles) Create(ctx context.Context, in ArticleInput, authorEmail string) (*models.Article, error) {
	p, err := r.prepare(&in)
	if err != nil {
		return nil, err
	}

	author, err := r.authors.FindByEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperr.NotFound("author", authorEmail)
	}

	a := &models.Article{AuthorID: &author.ID}
	p.fill(a, &in)
	if a.IsPublished {
		now := r.now().UTC()
		a.PublishedAt = &now
	}

	var tagIDs []uuid.UUID
	if p.tags != nil {
		tagIDs = *p.tags
	}
	return r.store.Create(ctx, a, tagIDs)
}

// Update replaces every field of article id. published_at is stamped the
// first time the article is published and kept when it is unpublished.
func (r *Articles) Update(ctx context.Context, id uuid.UUID, in ArticleInput) (*models.Article, error) {
	p, err := r.prepare(&in)
	if err != nil {
		return nil, err
	}
	return r.store.Update(ctx, id, func(a *models.Article) error {
		p.fill(a, &in)
		if a.IsPublished && a.PublishedAt == nil {
			now := r.now().UTC()
			a.PublishedAt = &now
		}
		return nil
	}, p.tags)
}

// SyncTags replaces the tag set of article id. Repeated IDs collapse and
// IDs of tags that do not exist are ignored.
func (r *Articles) SyncTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	ids := dedupe(tagIDs)
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return r.store.SyncTags(ctx, id, ids)
}

// Delete removes article id with its tag associations.
func (r *Articles) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, id)
}

// Get returns article id with its tags.
func (r *Articles) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("article", id)
	}
	return a, nil
}

// List returns the articles selected by f, newest first.
func (r *Articles) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	return r.store.List(ctx, f)
}

// Page is one page of a listing.
type Page struct {
	Articles []models.Article `json:"articles"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Paging bounds.
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// ListPage returns page number page (1-based) of published articles
// matching f.
func (r *Articles) ListPage(ctx context.Context, f models.ArticleFilter, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	f.Limit, f.Offset = size, (page-1)*size

	items, err := r.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := r.store.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Page{Articles: items, Total: total, Page: page, PageSize: size}, nil
}

// Published returns the published article with the given slug.
func (r *Articles) Published(ctx context.Context, s string) (*models.Article, error) {
	a, err := r.store.FindBySlug(ctx, s, true)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("article", s)
	}
	return a, nil
}

// Featured returns the newest featured published article, or nil.
func (r *Articles) Featured(ctx context.Context) (*models.Article, error) {
	items, err := r.store.List(ctx, models.ArticleFilter{PublishedOnly: true, FeaturedOnly: true, Limit: 1})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// Latest returns the limit newest published articles.
func (r *Articles) Latest(ctx context.Context, limit int) ([]models.Article, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return r.store.List(ctx, models.ArticleFilter{PublishedOnly: true, Limit: limit})
}

// Related returns up to limit other published articles in a's category.
func (r *Articles) Related(ctx context.Context, a *models.Article, limit int) ([]models.Article, error) {
	if a.CategoryID == nil {
		return []models.Article{}, nil
	}
	return r.store.List(ctx, models.ArticleFilter{
		PublishedOnly: true,
		CategoryID:    a.CategoryID,
		ExcludeID:     &a.ID,
		Limit:         limit,
	})
}

// Interviewees returns the names of everyone interviewed in a published
// article.
func (r *Articles) Interviewees(ctx context.Context) ([]string, error) {
	return r.store.IntervieweeNames(ctx)
}
