// repository/catalog/catalogRepository.go
package catalogrepo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"bookstore/model"
)

// BookRow is a book joined with its author and (optional) category, the
// shape every read-side listing wants.
type BookRow struct {
	model.Book
	AuthorName   string `db:"author_name" json:"author_name"`
	CategoryName string `db:"category_name" json:"category_name,omitempty"`
	CategorySlug string `db:"category_slug" json:"category_slug,omitempty"`
}

type Repo interface {
	List(ctx context.Context, f Filter) ([]BookRow, error)
	Count(ctx context.Context, f Filter) (int64, error)
	GetBook(ctx context.Context, id int64) (*BookRow, error)

	// ActiveRentalsCount counts rental order items on the book whose
	// end_date has not passed. Future-dated rentals count too.
	ActiveRentalsCount(ctx context.Context, bookID int64, today time.Time) (int64, error)

	LowStock(ctx context.Context, limit int) ([]BookRow, error)

	ListAuthors(ctx context.Context) ([]model.Author, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateBook(ctx context.Context, b *model.Book) (int64, error)
	CreateAuthor(ctx context.Context, name, bio string) (int64, error)
	CreateCategory(ctx context.Context, name, slug string) (int64, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) Repo { return &repo{db} }

func (r *repo) List(ctx context.Context, f Filter) ([]BookRow, error) {
	q, args, err := buildListQuery(f)
	if err != nil {
		return nil, err
	}
	var out []BookRow
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Count(ctx context.Context, f Filter) (int64, error) {
	q, args, err := buildCountQuery(f)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}

const bookRowColumns = `
	b.id, b.title, b.author_id, b.category_id, b.year, b.description, b.cover_url,
	b.status, b.available_copies,
	b.price_purchase, b.price_rent_2w, b.price_rent_1m, b.price_rent_3m,
	a.name AS author_name,
	COALESCE(c.name, '') AS category_name,
	COALESCE(c.slug, '') AS category_slug`

func (r *repo) GetBook(ctx context.Context, id int64) (*BookRow, error) {
	const q = `
SELECT` + bookRowColumns + `
FROM books b
JOIN authors a ON a.id = b.author_id
LEFT JOIN categories c ON c.id = b.category_id
WHERE b.id = $1`
	var row BookRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repo) ActiveRentalsCount(ctx context.Context, bookID int64, today time.Time) (int64, error) {
	const q = `
SELECT COUNT(*)
FROM order_items
WHERE book_id = $1
  AND kind = 'rental'
  AND end_date >= $2`
	var n int64
	err := r.db.GetContext(ctx, &n, q, bookID, model.DateOnly(today))
	return n, err
}

func (r *repo) LowStock(ctx context.Context, limit int) ([]BookRow, error) {
	const q = `
SELECT` + bookRowColumns + `
FROM books b
JOIN authors a ON a.id = b.author_id
LEFT JOIN categories c ON c.id = b.category_id
WHERE b.status = 'available'
  AND b.available_copies <= 1
ORDER BY b.available_copies ASC, b.title ASC
LIMIT $1`
	var out []BookRow
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) ListAuthors(ctx context.Context) ([]model.Author, error) {
	var out []model.Author
	err := r.db.SelectContext(ctx, &out, `SELECT id, name, bio FROM authors ORDER BY name`)
	return out, err
}

func (r *repo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.db.SelectContext(ctx, &out, `SELECT id, name, slug FROM categories ORDER BY name`)
	return out, err
}

func (r *repo) CreateBook(ctx context.Context, b *model.Book) (int64, error) {
	const q = `
INSERT INTO books (title, author_id, category_id, year, description, cover_url, status,
                   available_copies, price_purchase, price_rent_2w, price_rent_1m, price_rent_3m)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, q,
		b.Title, b.AuthorID, b.CategoryID, b.Year, b.Description, b.CoverURL, b.Status,
		b.AvailableCopies, b.PricePurchase, b.PriceRent2W, b.PriceRent1M, b.PriceRent3M,
	).Scan(&id)
	return id, err
}

func (r *repo) CreateAuthor(ctx context.Context, name, bio string) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO authors (name, bio) VALUES ($1,$2) RETURNING id`, name, bio).Scan(&id)
	return id, err
}

func (r *repo) CreateCategory(ctx context.Context, name, slug string) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1,$2) RETURNING id`, name, slug).Scan(&id)
	return id, err
}
