package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin describes the account created on an empty database.
type SeedAdmin struct {
	Email    string
	Password string
	FullName string
}

// starterCategories are created with the first admin so the editor has
// somewhere to file articles. Children reference their parent by slug.
var starterCategories = []struct {
	name, slug, parent string
}{
	{"Politics", "politics", ""},
	{"Elections", "elections", "politics"},
	{"Culture", "culture", ""},
	{"Interviews", "interviews", ""},
}

// Seed populates the database with initial development data. It creates
// an admin user and a few starter categories if no users exist yet.
func Seed(db *sql.DB, admin SeedAdmin) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (email, password_hash, full_name, is_admin)
		VALUES ($1, $2, $3, TRUE)
	`, admin.Email, string(hash), admin.FullName)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range starterCategories {
		_, err := tx.Exec(`
			INSERT INTO categories (name, slug, parent_id)
			VALUES ($1, $2, (SELECT id FROM categories WHERE slug = NULLIF($3, '')))
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.parent)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", admin.Email)
	return nil
}
