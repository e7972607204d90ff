// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// ArticleStore manages articles and their tag associations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore returns a new ArticleStore.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// articleSelect joins the category and author so reads carry display names.
const articleSelect = `
	SELECT a.id, a.title, a.slug, a.summary, a.content, a.cover_image_url,
		a.featured_image_position, a.category_id, a.is_featured, a.is_published,
		a.published_at, a.author_id, a.interviewee_name, a.interview_date,
		a.published_date, a.created_at, a.updated_at,
		c.name, c.slug, u.full_name
	FROM articles a
	LEFT JOIN categories c ON c.id = a.category_id
	LEFT JOIN users u ON u.id = a.author_id`

const articleReturning = `id, title, slug, summary, content, cover_image_url,
	featured_image_position, category_id, is_featured, is_published,
	published_at, author_id, interviewee_name, interview_date,
	published_date, created_at, updated_at`

func articleFields(a *models.Article) []any {
	return []any{
		&a.ID, &a.Title, &a.Slug, &a.Summary, &a.Content, &a.CoverImageURL,
		&a.FeaturedImagePosition, &a.CategoryID, &a.IsFeatured, &a.IsPublished,
		&a.PublishedAt, &a.AuthorID, &a.IntervieweeName, &a.InterviewDate,
		&a.PublishedDate, &a.CreatedAt, &a.UpdatedAt,
	}
}

// scanArticle scans a row produced by articleSelect.
func scanArticle(scanner rowScanner) (*models.Article, error) {
	var a models.Article
	dest := append(articleFields(&a), &a.CategoryName, &a.CategorySlug, &a.AuthorName)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	a.Tags = []models.Tag{}
	return &a, nil
}

// whereClause renders f as a WHERE clause and its positional arguments.
func whereClause(f models.ArticleFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.PublishedOnly {
		conds = append(conds, "a.is_published = TRUE")
	}
	if f.FeaturedOnly {
		conds = append(conds, "a.is_featured = TRUE")
	}
	if f.CategorySlug != "" {
		conds = append(conds, "c.slug = "+arg(f.CategorySlug))
	}
	if f.CategoryID != nil {
		conds = append(conds, "a.category_id = "+arg(*f.CategoryID))
	}
	if f.ExcludeID != nil {
		conds = append(conds, "a.id <> "+arg(*f.ExcludeID))
	}
	if f.TagSlug != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM article_tags atg JOIN tags t ON t.id = atg.tag_id
			WHERE atg.article_id = a.id AND t.slug = `+arg(f.TagSlug)+`)`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns articles matching f, newest first, with tags loaded.
func (s *ArticleStore) List(ctx context.Context, f models.ArticleFilter) ([]models.Article, error) {
	where, args := whereClause(f)
	query := articleSelect + where + ` ORDER BY a.published_at DESC NULLS LAST, a.created_at DESC, a.id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	items := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	if err := s.loadTags(ctx, s.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns how many articles match f, ignoring Limit and Offset.
func (s *ArticleStore) Count(ctx context.Context, f models.ArticleFilter) (int, error) {
	where, args := whereClause(f)
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// FindByID retrieves an article with its tags. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return s.findOne(ctx, "find article by id", ` WHERE a.id = $1`, id)
}

// FindBySlug retrieves an article by slug. With publishedOnly set, drafts
// are reported as not found. Returns nil if not found.
func (s *ArticleStore) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	where := ` WHERE a.slug = $1`
	if publishedOnly {
		where += ` AND a.is_published = TRUE`
	}
	return s.findOne(ctx, "find article by slug", where, slug)
}

func (s *ArticleStore) findOne(ctx context.Context, op, where string, arg any) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, articleSelect+where, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	items := []models.Article{*a}
	if err := s.loadTags(ctx, s.db, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// loadTags fills Tags on every article with a single query.
func (s *ArticleStore) loadTags(ctx context.Context, q queryer, items []models.Article) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT atg.article_id, t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM article_tags atg
		JOIN tags t ON t.id = atg.tag_id
		WHERE atg.article_id = ANY($1::uuid[])
		ORDER BY t.name, t.id`, ids)
	if err != nil {
		return fmt.Errorf("load article tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&articleID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("scan article tag: %w", err)
		}
		if i, ok := index[articleID]; ok {
			items[i].Tags = append(items[i].Tags, t)
		}
	}
	return rows.Err()
}

// Create inserts a, and when tagIDs is non-nil attaches those tags, in one
// transaction. The returned article has its tags loaded.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article, tagIDs []uuid.UUID) (*models.Article, error) {
	var id uuid.UUID
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO articles (
				title, slug, summary, content, cover_image_url, featured_image_position,
				category_id, is_featured, is_published, published_at, author_id,
				interviewee_name, interview_date, published_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id`,
			a.Title, a.Slug, a.Summary, a.Content, a.CoverImageURL, a.FeaturedImagePosition,
			a.CategoryID, a.IsFeatured, a.IsPublished, a.PublishedAt, a.AuthorID,
			a.IntervieweeName, a.InterviewDate, a.PublishedDate,
		).Scan(&id)
		if err != nil {
			return storeErr("create article", err)
		}
		if tagIDs != nil {
			return replaceTags(ctx, tx, id, tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Update locks article id, lets apply mutate it and writes the result back.
// When tagIDs is non-nil the tag set is replaced in the same transaction.
func (s *ArticleStore) Update(ctx context.Context, id uuid.UUID, apply func(a *models.Article) error, tagIDs *[]uuid.UUID) (*models.Article, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var a models.Article
		err := tx.QueryRowContext(ctx,
			`SELECT `+articleReturning+` FROM articles WHERE id = $1 FOR UPDATE`, id,
		).Scan(articleFields(&a)...)
		if err == sql.ErrNoRows {
			return apperr.NotFound("article", id)
		}
		if err != nil {
			return fmt.Errorf("lock article: %w", err)
		}

		if err := apply(&a); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE articles SET
				title = $1, slug = $2, summary = $3, content = $4, cover_image_url = $5,
				featured_image_position = $6, category_id = $7, is_featured = $8,
				is_published = $9, published_at = $10, interviewee_name = $11,
				interview_date = $12, published_date = $13, updated_at = NOW()
			WHERE id = $14`,
			a.Title, a.Slug, a.Summary, a.Content, a.CoverImageURL,
			a.FeaturedImagePosition, a.CategoryID, a.IsFeatured,
			a.IsPublished, a.PublishedAt, a.IntervieweeName,
			a.InterviewDate, a.PublishedDate, id,
		)
		if err != nil {
			return storeErr("update article", err)
		}

		if tagIDs != nil {
			return replaceTags(ctx, tx, id, *tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// SyncTags replaces the tag set of article id. Unknown tag IDs are skipped.
func (s *ArticleStore) SyncTags(ctx context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM articles WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err == sql.ErrNoRows {
			return apperr.NotFound("article", id)
		}
		if err != nil {
			return fmt.Errorf("lock article: %w", err)
		}
		return replaceTags(ctx, tx, id, tagIDs)
	})
}

// replaceTags deletes every association of article id and inserts the
// given tags. The insert selects from tags so IDs without a row vanish.
func replaceTags(ctx context.Context, tx *sql.Tx, id uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, id); err != nil {
		return fmt.Errorf("clear article tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO article_tags (article_id, tag_id)
		SELECT $1, id FROM tags WHERE id = ANY($2::uuid[])
		ON CONFLICT DO NOTHING`, id, tagIDs)
	if err != nil {
		return storeErr("insert article tags", err)
	}
	return nil
}

// Delete removes an article and its tag associations.
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, id); err != nil {
			return fmt.Errorf("delete article tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("article", id)
		}
		return nil
	})
}

// IntervieweeNames returns the distinct interviewee names of published
// articles in alphabetical order.
func (s *ArticleStore) IntervieweeNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT interviewee_name FROM articles
		WHERE is_published = TRUE AND interviewee_name IS NOT NULL AND interviewee_name <> ''
		ORDER BY interviewee_name`)
	if err != nil {
		return nil, fmt.Errorf("list interviewees: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan interviewee: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
