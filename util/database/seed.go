package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bookstore/util/hash"
)

// SeedDemo inserts demo users, authors, categories and books. Existing rows
// are left alone, so the command can be re-run.
func SeedDemo(ctx context.Context, db *sqlx.DB) error {
	pw, err := hash.Password("password")
	if err != nil {
		return err
	}

	users := []struct {
		username string
		staff    bool
	}{
		{"admin", true},
		{"ivan", false},
		{"olga", false},
	}
	for _, u := range users {
		_, err := db.ExecContext(ctx, `
			INSERT INTO users (email, username, password_hash, is_staff)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (username) DO UPDATE SET is_staff = EXCLUDED.is_staff`,
			u.username+"@example.com", u.username, pw, u.staff)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}

	authorIDs := map[string]int64{}
	for _, name := range []string{"George Orwell", "Ray Bradbury", "Leo Tolstoy"} {
		var id int64
		err := db.QueryRowxContext(ctx, `
			INSERT INTO authors (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed author %s: %w", name, err)
		}
		authorIDs[name] = id
	}

	categoryIDs := map[string]int64{}
	for _, c := range []struct{ name, slug string }{
		{"Dystopia", "dystopia"},
		{"Classics", "classic"},
		{"Science Fiction", "sci-fi"},
	} {
		var id int64
		err := db.QueryRowxContext(ctx, `
			INSERT INTO categories (name, slug) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET slug = EXCLUDED.slug
			RETURNING id`, c.name, c.slug).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = id
	}

	books := []struct {
		title, author, category, description string
		year, copies                         int
		purchase, rent2w, rent1m, rent3m     string
	}{
		{"1984", "George Orwell", "Dystopia", "The classic dystopia.",
			1949, 3, "14.99", "3.99", "5.99", "9.99"},
		{"Animal Farm", "George Orwell", "Dystopia", "A satirical fable.",
			1945, 2, "12.99", "2.99", "4.99", "7.99"},
		{"Fahrenheit 451", "Ray Bradbury", "Science Fiction", "On banning books and the rule of screens.",
			1953, 4, "13.99", "3.49", "5.49", "8.99"},
		{"War and Peace", "Leo Tolstoy", "Classics", "An epic of people and history.",
			1869, 1, "19.99", "4.99", "6.99", "10.99"},
	}
	for _, b := range books {
		_, err := db.ExecContext(ctx, `
			INSERT INTO books (title, author_id, category_id, year, description, available_copies,
			                   price_purchase, price_rent_2w, price_rent_1m, price_rent_3m)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (title, author_id) DO NOTHING`,
			b.title, authorIDs[b.author], categoryIDs[b.category], b.year, b.description,
			b.copies, b.purchase, b.rent2w, b.rent1m, b.rent3m)
		if err != nil {
			return fmt.Errorf("seed book %s: %w", b.title, err)
		}
	}
	return nil
}
