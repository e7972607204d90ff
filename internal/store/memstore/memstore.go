// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-memory stand-in for the PostgreSQL stores. It
// enforces the same constraints the schema does (unique slugs and emails,
// foreign keys, cascades) so repository and handler tests can run without
// a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// DB holds every table behind a single lock.
type DB struct {
	mu         sync.Mutex
	seq        int64
	categories map[uuid.UUID]models.Category
	tags       map[uuid.UUID]models.Tag
	articles   map[uuid.UUID]article
	users      map[uuid.UUID]models.User
}

// article is a stored row plus its association set.
type article struct {
	models.Article
	seq    int64
	tagIDs map[uuid.UUID]struct{}
}

// New returns an empty database.
func New() *DB {
	return &DB{
		categories: make(map[uuid.UUID]models.Category),
		tags:       make(map[uuid.UUID]models.Tag),
		articles:   make(map[uuid.UUID]article),
		users:      make(map[uuid.UUID]models.User),
	}
}

// Categories returns the category table.
func (db *DB) Categories() *Categories { return &Categories{db: db} }

// Tags returns the tag table.
func (db *DB) Tags() *Tags { return &Tags{db: db} }

// Articles returns the article table.
func (db *DB) Articles() *Articles { return &Articles{db: db} }

// Users returns the user table.
func (db *DB) Users() *Users { return &Users{db: db} }

// tick advances the row clock. Timestamps strictly increase so ordering
// by creation time is deterministic.
func (db *DB) tick() (time.Time, int64) {
	db.seq++
	return time.Unix(1_700_000_000+db.seq, 0).UTC(), db.seq
}

// Categories implements the category store.
type Categories struct{ db *DB }

// List returns all categories ordered by name.
func (s *Categories) List(_ context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.sortedCategories(), nil
}

func (db *DB) sortedCategories() []models.Category {
	items := make([]models.Category, 0, len(db.categories))
	for _, c := range db.categories {
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

// FindByID returns the category or nil.
func (s *Categories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if c, ok := s.db.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// FindBySlug returns the category or nil.
func (s *Categories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (db *DB) checkCategory(c *models.Category) error {
	for _, other := range db.categories {
		if other.ID != c.ID && other.Slug == c.Slug {
			return apperr.Conflict("a category with this slug already exists")
		}
	}
	if c.ParentID != nil {
		if *c.ParentID == c.ID {
			return apperr.Validation("category cannot be its own parent")
		}
		if _, ok := db.categories[*c.ParentID]; !ok {
			return apperr.NotFound("category", *c.ParentID)
		}
	}
	return nil
}

// Create stores a new category.
func (s *Categories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := *c
	row.ID = uuid.New()
	if err := s.db.checkCategory(&row); err != nil {
		return nil, err
	}
	row.CreatedAt, _ = s.db.tick()
	row.UpdatedAt = row.CreatedAt
	s.db.categories[row.ID] = row
	return &row, nil
}

// Update runs apply against a copy of the row and the full table, holding
// the lock throughout.
func (s *Categories) Update(_ context.Context, id uuid.UUID, apply func(c *models.Category, all []models.Category) error) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	current, ok := s.db.categories[id]
	if !ok {
		return nil, apperr.NotFound("category", id)
	}
	if err := apply(&current, s.db.sortedCategories()); err != nil {
		return nil, err
	}
	current.ID = id
	if err := s.db.checkCategory(&current); err != nil {
		return nil, err
	}
	current.UpdatedAt, _ = s.db.tick()
	s.db.categories[id] = current
	return &current, nil
}

// Delete removes a childless category and detaches its articles.
func (s *Categories) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[id]; !ok {
		return apperr.NotFound("category", id)
	}
	var children int
	for _, c := range s.db.categories {
		if c.ParentID != nil && *c.ParentID == id {
			children++
		}
	}
	if children > 0 {
		return apperr.Conflict(fmt.Sprintf("category has %d subcategories; move or delete them first", children))
	}
	delete(s.db.categories, id)
	for aid, a := range s.db.articles {
		if a.CategoryID != nil && *a.CategoryID == id {
			a.CategoryID = nil
			s.db.articles[aid] = a
		}
	}
	return nil
}

// Tags implements the tag store.
type Tags struct{ db *DB }

// List returns all tags ordered by name.
func (s *Tags) List(_ context.Context) ([]models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	items := make([]models.Tag, 0, len(s.db.tags))
	for _, t := range s.db.tags {
		items = append(items, t)
	}
	sortTags(items)
	return items, nil
}

func sortTags(items []models.Tag) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// FindByID returns the tag or nil.
func (s *Tags) FindByID(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if t, ok := s.db.tags[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (db *DB) checkTag(t *models.Tag) error {
	for _, other := range db.tags {
		if other.ID != t.ID && other.Slug == t.Slug {
			return apperr.Conflict("a tag with this slug already exists")
		}
	}
	return nil
}

// Create stores a new tag.
func (s *Tags) Create(_ context.Context, t *models.Tag) (*models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := *t
	row.ID = uuid.New()
	if err := s.db.checkTag(&row); err != nil {
		return nil, err
	}
	row.CreatedAt, _ = s.db.tick()
	row.UpdatedAt = row.CreatedAt
	s.db.tags[row.ID] = row
	return &row, nil
}

// Update renames tag t.ID.
func (s *Tags) Update(_ context.Context, t *models.Tag) (*models.Tag, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.tags[t.ID]
	if !ok {
		return nil, apperr.NotFound("tag", t.ID)
	}
	row.Name, row.Slug = t.Name, t.Slug
	if err := s.db.checkTag(&row); err != nil {
		return nil, err
	}
	row.UpdatedAt, _ = s.db.tick()
	s.db.tags[row.ID] = row
	return &row, nil
}

// Delete removes a tag and every association to it.
func (s *Tags) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tags[id]; !ok {
		return apperr.NotFound("tag", id)
	}
	delete(s.db.tags, id)
	for _, a := range s.db.articles {
		delete(a.tagIDs, id)
	}
	return nil
}

// Articles implements the article store.
type Articles struct{ db *DB }

// view renders a stored row the way the SQL store's joined select does.
func (db *DB) view(a article) models.Article {
	out := a.Article
	out.CategoryName, out.CategorySlug, out.AuthorName = nil, nil, nil
	if a.CategoryID != nil {
		if c, ok := db.categories[*a.CategoryID]; ok {
			name, slug := c.Name, c.Slug
			out.CategoryName, out.CategorySlug = &name, &slug
		}
	}
	if a.AuthorID != nil {
		if u, ok := db.users[*a.AuthorID]; ok {
			name := u.FullName
			out.AuthorName = &name
		}
	}
	out.Tags = []models.Tag{}
	for id := range a.tagIDs {
		out.Tags = append(out.Tags, db.tags[id])
	}
	sortTags(out.Tags)
	return out
}

func (db *DB) matches(a article, f models.ArticleFilter) bool {
	if f.PublishedOnly && !a.IsPublished {
		return false
	}
	if f.FeaturedOnly && !a.IsFeatured {
		return false
	}
	if f.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *f.CategoryID) {
		return false
	}
	if f.ExcludeID != nil && a.ID == *f.ExcludeID {
		return false
	}
	if f.CategorySlug != "" {
		if a.CategoryID == nil {
			return false
		}
		if c, ok := db.categories[*a.CategoryID]; !ok || c.Slug != f.CategorySlug {
			return false
		}
	}
	if f.TagSlug != "" {
		var found bool
		for id := range a.tagIDs {
			if db.tags[id].Slug == f.TagSlug {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (db *DB) filtered(f models.ArticleFilter) []article {
	var rows []article
	for _, a := range db.articles {
		if db.matches(a, f) {
			rows = append(rows, a)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		pi, pj := rows[i].PublishedAt, rows[j].PublishedAt
		switch {
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		case pi != nil && pj != nil && !pi.Equal(*pj):
			return pi.After(*pj)
		}
		return rows[i].seq > rows[j].seq
	})
	return rows
}

// List returns matching articles newest first.
func (s *Articles) List(_ context.Context, f models.ArticleFilter) ([]models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rows := s.db.filtered(f)
	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[f.Offset:]
		}
	}
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	items := make([]models.Article, 0, len(rows))
	for _, a := range rows {
		items = append(items, s.db.view(a))
	}
	return items, nil
}

// Count returns how many articles match f.
func (s *Articles) Count(_ context.Context, f models.ArticleFilter) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.filtered(f)), nil
}

// FindByID returns the article or nil.
func (s *Articles) FindByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.articles[id]
	if !ok {
		return nil, nil
	}
	out := s.db.view(a)
	return &out, nil
}

// FindBySlug returns the article or nil. Drafts are hidden when
// publishedOnly is set.
func (s *Articles) FindBySlug(_ context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.articles {
		if a.Slug == slug && (!publishedOnly || a.IsPublished) {
			out := s.db.view(a)
			return &out, nil
		}
	}
	return nil, nil
}

func (db *DB) checkArticle(a *models.Article) error {
	for _, other := range db.articles {
		if other.ID != a.ID && other.Slug == a.Slug {
			return apperr.Conflict("an article with this slug already exists")
		}
	}
	if !a.FeaturedImagePosition.Valid() {
		return apperr.Validation("invalid featured image position")
	}
	if a.CategoryID != nil {
		if _, ok := db.categories[*a.CategoryID]; !ok {
			return &apperr.Error{Kind: apperr.KindNotFound, Message: "category not found"}
		}
	}
	if a.AuthorID != nil {
		if _, ok := db.users[*a.AuthorID]; !ok {
			return &apperr.Error{Kind: apperr.KindNotFound, Message: "author not found"}
		}
	}
	return nil
}

// knownTags filters ids down to existing tags.
func (db *DB) knownTags(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := db.tags[id]; ok {
			set[id] = struct{}{}
		}
	}
	return set
}

// Create stores a new article with the given tags.
func (s *Articles) Create(_ context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row := article{Article: *a}
	row.ID = uuid.New()
	if err := s.db.checkArticle(&row.Article); err != nil {
		return nil, err
	}
	row.CreatedAt, row.seq = s.db.tick()
	row.UpdatedAt = row.CreatedAt
	row.tagIDs = s.db.knownTags(tagIDs)
	s.db.articles[row.ID] = row
	out := s.db.view(row)
	return &out, nil
}

// Update applies changes to article id and optionally replaces its tags.
func (s *Articles) Update(_ context.Context, id uuid.UUID, apply func(a *models.Article) error, tagIDs *[]uuid.UUID) (*models.Article, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.articles[id]
	if !ok {
		return nil, apperr.NotFound("article", id)
	}
	next := row.Article
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID, next.CreatedAt, next.AuthorID = id, row.CreatedAt, row.AuthorID
	if err := s.db.checkArticle(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt, _ = s.db.tick()
	row.Article = next
	if tagIDs != nil {
		row.tagIDs = s.db.knownTags(*tagIDs)
	}
	s.db.articles[id] = row
	out := s.db.view(row)
	return &out, nil
}

// SyncTags replaces the tag set of article id.
func (s *Articles) SyncTags(_ context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	row, ok := s.db.articles[id]
	if !ok {
		return apperr.NotFound("article", id)
	}
	row.tagIDs = s.db.knownTags(tagIDs)
	s.db.articles[id] = row
	return nil
}

// Delete removes an article.
func (s *Articles) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.articles[id]; !ok {
		return apperr.NotFound("article", id)
	}
	delete(s.db.articles, id)
	return nil
}

// IntervieweeNames returns distinct interviewee names of published articles.
func (s *Articles) IntervieweeNames(_ context.Context) ([]string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	seen := map[string]bool{}
	names := []string{}
	for _, a := range s.db.articles {
		if !a.IsPublished || a.IntervieweeName == nil || *a.IntervieweeName == "" {
			continue
		}
		if name := *a.IntervieweeName; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Users implements the user store.
type Users struct{ db *DB }

// Create stores a user with a bcrypt-hashed password.
func (s *Users) Create(_ context.Context, email, password, fullName string, isAdmin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.Email == email {
			return nil, apperr.Conflict("a user with this email already exists")
		}
	}
	u := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		IsAdmin:      isAdmin,
	}
	u.CreatedAt, _ = s.db.tick()
	u.UpdatedAt = u.CreatedAt
	s.db.users[u.ID] = u
	return &u, nil
}

// FindByEmail returns the user or nil.
func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// FindByID returns the user or nil.
func (s *Users) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if u, ok := s.db.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

// SetTOTPSecret stores a pending TOTP secret.
func (s *Users) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	return s.modify(id, func(u *models.User) { u.TOTPSecret = &secret })
}

// EnableTOTP turns on two-factor login.
func (s *Users) EnableTOTP(_ context.Context, id uuid.UUID) error {
	return s.modify(id, func(u *models.User) { u.TOTPEnabled = true })
}

func (s *Users) modify(id uuid.UUID, fn func(u *models.User)) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return apperr.NotFound("user", id)
	}
	fn(&u)
	u.UpdatedAt, _ = s.db.tick()
	s.db.users[id] = u
	return nil
}
