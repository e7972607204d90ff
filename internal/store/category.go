// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// listCategories runs a category query and collects the rows.
func listCategories(ctx context.Context, q queryer, query string, args ...any) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, s.db, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, storeErr("create category", err)
	}
	return result, nil
}

// Update modifies category id inside a transaction. Every category row is
// locked first, so apply sees the hierarchy exactly as it will be when the
// write lands and concurrent reparents queue behind each other. apply
// receives a copy of the current row to mutate and the full locked list.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, apply func(c *models.Category, all []models.Category) error) (*models.Category, error) {
	var result *models.Category
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		all, err := listCategories(ctx, tx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id FOR UPDATE`)
		if err != nil {
			return err
		}

		var current *models.Category
		for i := range all {
			if all[i].ID == id {
				c := all[i]
				current = &c
				break
			}
		}
		if current == nil {
			return apperr.NotFound("category", id)
		}

		if err := apply(current, all); err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx, `
			UPDATE categories SET
				name = $1, slug = $2, description = $3, parent_id = $4, updated_at = NOW()
			WHERE id = $5
			RETURNING `+categoryColumns,
			current.Name, current.Slug, current.Description, current.ParentID, id,
		)
		result, err = scanCategory(row)
		if err != nil {
			return storeErr("update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a childless category. Articles filed under it keep
// existing with no category (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err == sql.ErrNoRows {
			return apperr.NotFound("category", id)
		}
		if err != nil {
			return fmt.Errorf("lock category: %w", err)
		}

		var children int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&children); err != nil {
			return fmt.Errorf("count subcategories: %w", err)
		}
		if children > 0 {
			return apperr.Conflict(fmt.Sprintf("category has %d subcategories; move or delete them first", children))
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			// A child inserted after the count trips the RESTRICT constraint.
			if isForeignKeyViolation(err) {
				return apperr.Conflict("category has subcategories; move or delete them first")
			}
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
