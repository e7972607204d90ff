// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/apperr"
	"newsdesk/internal/cache"
	"newsdesk/internal/models"
	"newsdesk/internal/repository"
	"newsdesk/internal/richtext"
)

// relatedLimit is how many related articles an article page carries.
const relatedLimit = 4

// Public groups the read-only handlers behind the public site. Every
// response is served from the Valkey page cache when possible and built
// from the repositories on a miss. Failed builds are never cached.
type Public struct {
	categories *repository.Categories
	tags       *repository.Tags
	articles   *repository.Articles
	cache      ResponseCache
}

// NewPublic creates a new Public handler group.
func NewPublic(categories *repository.Categories, tags *repository.Tags, articles *repository.Articles, cache ResponseCache) *Public {
	return &Public{
		categories: categories,
		tags:       tags,
		articles:   articles,
		cache:      cache,
	}
}

// serve writes the cached response for r, building it with load on a miss.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, load func(ctx context.Context) (any, error)) {
	ctx := r.Context()
	key := cache.RequestKey(r.URL.Path, r.URL.Query())
	body, err := p.cache.Fetch(ctx, key, func() ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeRaw(w, body)
}

// Articles lists published articles, newest first, optionally narrowed by
// ?category= and ?tag= slugs.
func (p *Public) Articles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ArticleFilter{
		PublishedOnly: true,
		CategorySlug:  q.Get("category"),
		TagSlug:       q.Get("tag"),
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	p.serve(w, r, func(ctx context.Context) (any, error) {
		return p.articles.ListPage(ctx, f, page, size)
	})
}

// Featured returns the newest featured article.
func (p *Public) Featured(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context) (any, error) {
		a, err := p.articles.Featured(ctx)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, &apperr.Error{Kind: apperr.KindNotFound, Message: "no featured article"}
		}
		return a, nil
	})
}

// Latest returns the ?limit= newest articles.
func (p *Public) Latest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	p.serve(w, r, func(ctx context.Context) (any, error) {
		return p.articles.Latest(ctx, limit)
	})
}

// articleView is a published article as shown on its own page.
type articleView struct {
	*models.Article
	ReadTime string           `json:"read_time"`
	Related  []models.Article `json:"related"`
}

// Article returns a published article by slug, with its reading time and
// related articles from the same category.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	p.serve(w, r, func(ctx context.Context) (any, error) {
		a, err := p.articles.Published(ctx, s)
		if err != nil {
			return nil, err
		}
		related, err := p.articles.Related(ctx, a, relatedLimit)
		if err != nil {
			return nil, err
		}
		if related == nil {
			related = []models.Article{}
		}
		return articleView{Article: a, ReadTime: richtext.ReadTime(a.Content), Related: related}, nil
	})
}

// Categories returns the category tree.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context) (any, error) {
		return p.categories.Tree(ctx)
	})
}

// Tags returns every tag by name.
func (p *Public) Tags(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context) (any, error) {
		return p.tags.List(ctx)
	})
}

// Interviewees returns the names of everyone interviewed in a published
// article.
func (p *Public) Interviewees(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context) (any, error) {
		names, err := p.articles.Interviewees(ctx)
		if err != nil {
			return nil, err
		}
		if names == nil {
			names = []string{}
		}
		return names, nil
	})
}
