package catalogsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"bookstore/model"
	catalogrepo "bookstore/repository/catalog"
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrBadPayload = errors.New("invalid payload")
)

// Filter = repository shape
type Filter = catalogrepo.Filter

type Page struct {
	Books    []catalogrepo.BookRow `json:"books"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// Detail is a book with its derived availability figures.
type Detail struct {
	catalogrepo.BookRow
	ActiveRentals     int64 `json:"active_rentals"`
	UnitsAvailableNow int64 `json:"units_available_now"`
	CanBePurchased    bool  `json:"can_be_purchased"`
	CanBeRented       bool  `json:"can_be_rented"`
}

type Repo interface {
	List(ctx context.Context, f Filter) ([]catalogrepo.BookRow, error)
	Count(ctx context.Context, f Filter) (int64, error)
	GetBook(ctx context.Context, id int64) (*catalogrepo.BookRow, error)
	ActiveRentalsCount(ctx context.Context, bookID int64, today time.Time) (int64, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateBook(ctx context.Context, b *model.Book) (int64, error)
	CreateAuthor(ctx context.Context, name, bio string) (int64, error)
	CreateCategory(ctx context.Context, name, slug string) (int64, error)
}

type Service interface {
	List(ctx context.Context, f Filter) (*Page, error)
	Detail(ctx context.Context, id int64) (*Detail, error)
	Authors(ctx context.Context) ([]model.Author, error)
	Categories(ctx context.Context) ([]model.Category, error)

	CreateBook(ctx context.Context, b *model.Book) (int64, error)
	CreateAuthor(ctx context.Context, name, bio string) (int64, error)
	CreateCategory(ctx context.Context, name, slug string) (int64, error)
}

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service { return &service{r: r, now: time.Now} }

func NewWithClock(r Repo, now func() time.Time) Service { return &service{r: r, now: now} }

func (s *service) List(ctx context.Context, f Filter) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	rows, err := s.r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.r.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Page{Books: rows, Total: total, Page: f.Page, PageSize: catalogrepo.ListPageSize}, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*Detail, error) {
	book, err := s.r.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	active, err := s.r.ActiveRentalsCount(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	return &Detail{
		BookRow:           *book,
		ActiveRentals:     active,
		UnitsAvailableNow: book.UnitsAvailableNow(active),
		CanBePurchased:    book.CanBePurchased(active),
		CanBeRented:       book.CanBeRented(active),
	}, nil
}

func (s *service) Authors(ctx context.Context) ([]model.Author, error) {
	return s.r.ListAuthors(ctx)
}

func (s *service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.r.ListCategories(ctx)
}

func (s *service) CreateBook(ctx context.Context, b *model.Book) (int64, error) {
	if b.Title == "" || b.AuthorID <= 0 || b.Year <= 0 {
		return 0, ErrBadPayload
	}
	if b.Status == "" {
		b.Status = model.BookAvailable
	}
	if !b.Status.Valid() || b.AvailableCopies < 0 {
		return 0, ErrBadPayload
	}
	for _, p := range []decimal.Decimal{b.PricePurchase, b.PriceRent2W, b.PriceRent1M, b.PriceRent3M} {
		if p.IsNegative() {
			return 0, ErrBadPayload
		}
	}
	return s.r.CreateBook(ctx, b)
}

func (s *service) CreateAuthor(ctx context.Context, name, bio string) (int64, error) {
	if name == "" {
		return 0, ErrBadPayload
	}
	return s.r.CreateAuthor(ctx, name, bio)
}

func (s *service) CreateCategory(ctx context.Context, name, slug string) (int64, error) {
	if name == "" {
		return 0, ErrBadPayload
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return 0, ErrBadPayload
	}
	return s.r.CreateCategory(ctx, name, slug)
}

// Slugify derives a URL-safe key: lowercase, runs of non-alphanumerics
// collapsed to single dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
