// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/repository"
)

// Admin groups the newsroom management API handlers and their dependencies.
type Admin struct {
	categories *repository.Categories
	tags       *repository.Tags
	articles   *repository.Articles
	cache      Invalidator
	objects    ObjectStore
}

// NewAdmin creates a new Admin handler group. objects may be nil if object
// storage is not configured; uploads then answer 503.
func NewAdmin(categories *repository.Categories, tags *repository.Tags, articles *repository.Articles, cache Invalidator, objects ObjectStore) *Admin {
	return &Admin{
		categories: categories,
		tags:       tags,
		articles:   articles,
		cache:      cache,
		objects:    objects,
	}
}

// changed clears the public cache after a successful write.
func (a *Admin) changed(r *http.Request) {
	a.cache.InvalidateAll(r.Context())
}

// --- Categories ---

// ListCategories returns every category as a flat list.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoryTree returns the category hierarchy.
func (a *Admin) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// CategoryParents lists the categories that may become the parent of {id}.
func (a *Admin) CategoryParents(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := a.categories.ParentOptions(r.Context(), &id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// CreateCategory adds a category.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in repository.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	cat, err := a.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	writeJSON(w, http.StatusCreated, cat)
}

// UpdateCategory renames, redescribes or reparents a category.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in repository.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	cat, err := a.categories.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory removes a category without subcategories.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Tags ---

type tagRequest struct {
	Name string `json:"name"`
}

type tagBatchRequest struct {
	Names []string `json:"names"`
}

// ListTags returns every tag by name.
func (a *Admin) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.tags.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag adds one tag.
func (a *Admin) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tag, err := a.tags.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	writeJSON(w, http.StatusCreated, tag)
}

// CreateTagsBatch adds several tags, reporting per-name failures.
func (a *Admin) CreateTagsBatch(w http.ResponseWriter, r *http.Request) {
	var req tagBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := a.tags.CreateBatch(r.Context(), req.Names)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if len(res.Created) > 0 {
		a.changed(r)
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// UpdateTag renames a tag.
func (a *Admin) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tag, err := a.tags.Update(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTag removes a tag and its article associations.
func (a *Admin) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.tags.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- Articles ---

// ListArticles returns one page of articles, drafts included unless
// ?published=true. Filters: category, tag (slugs).
func (a *Admin) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ArticleFilter{
		PublishedOnly: q.Get("published") == "true",
		FeaturedOnly:  q.Get("featured") == "true",
		CategorySlug:  q.Get("category"),
		TagSlug:       q.Get("tag"),
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))

	res, err := a.articles.ListPage(r.Context(), f, page, size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetArticle returns one article, published or not.
func (a *Admin) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	art, err := a.articles.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// CreateArticle adds an article authored by the signed-in user.
func (a *Admin) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var in repository.ArticleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	art, err := a.articles.Create(r.Context(), in, sess.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	writeJSON(w, http.StatusCreated, art)
}

// UpdateArticle replaces the editable fields of {id}. A "tags" array
// replaces the tag set; omitting it leaves tags untouched.
func (a *Admin) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in repository.ArticleInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	art, err := a.articles.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)
	writeJSON(w, http.StatusOK, art)
}

// DeleteArticle removes an article and, when it was uploaded here, its
// cover image.
func (a *Admin) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	art, err := a.articles.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.articles.Delete(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)

	if a.objects != nil && art.CoverImageURL != nil {
		if key, ok := a.objects.ExtractKey(*art.CoverImageURL); ok {
			if err := a.objects.Delete(ctx, key); err != nil {
				slog.Warn("cover image delete failed", "article", id, "key", key, "error", err)
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type syncTagsRequest struct {
	Tags []uuid.UUID `json:"tags"`
}

// SyncArticleTags replaces the tag set of {id} and returns the article.
func (a *Admin) SyncArticleTags(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req syncTagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	if err := a.articles.SyncTags(ctx, id, req.Tags); err != nil {
		writeError(w, r, err)
		return
	}
	a.changed(r)

	art, err := a.articles.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, art)
}
