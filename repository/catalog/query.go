// repository/catalog/query.go
package catalogrepo

import (
	"github.com/doug-martin/goqu/v9"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
)

// ListPageSize is the fixed catalog page size.
const ListPageSize = 12

// Sort keys accepted by the catalog listing. Anything else falls back to
// title ascending.
const (
	SortTitle    = "title"
	SortCategory = "category"
	SortAuthor   = "author"
	SortYear     = "year"
)

// Filter narrows and orders the catalog listing. Zero values mean "no
// filter"; filters combine with AND.
type Filter struct {
	CategorySlug string
	AuthorID     int64
	Year         int
	Sort         string
	Page         int
}

var pg = goqu.Dialect("postgres")

func listBase(f Filter) *goqu.SelectDataset {
	ds := pg.From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		LeftJoin(goqu.T("categories").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.category_id"))))

	if f.CategorySlug != "" {
		ds = ds.Where(goqu.I("c.slug").Eq(f.CategorySlug))
	}
	if f.AuthorID > 0 {
		ds = ds.Where(goqu.I("b.author_id").Eq(f.AuthorID))
	}
	if f.Year > 0 {
		ds = ds.Where(goqu.I("b.year").Eq(f.Year))
	}
	return ds
}

func buildListQuery(f Filter) (string, []interface{}, error) {
	ds := listBase(f).Select(
		goqu.I("b.id"),
		goqu.I("b.title"),
		goqu.I("b.author_id"),
		goqu.I("b.category_id"),
		goqu.I("b.year"),
		goqu.I("b.description"),
		goqu.I("b.cover_url"),
		goqu.I("b.status"),
		goqu.I("b.available_copies"),
		goqu.I("b.price_purchase"),
		goqu.I("b.price_rent_2w"),
		goqu.I("b.price_rent_1m"),
		goqu.I("b.price_rent_3m"),
		goqu.I("a.name").As("author_name"),
		goqu.COALESCE(goqu.I("c.name"), "").As("category_name"),
		goqu.COALESCE(goqu.I("c.slug"), "").As("category_slug"),
	)

	switch f.Sort {
	case SortCategory:
		ds = ds.Order(goqu.I("c.name").Asc(), goqu.I("b.title").Asc())
	case SortAuthor:
		ds = ds.Order(goqu.I("a.name").Asc(), goqu.I("b.title").Asc())
	case SortYear:
		ds = ds.Order(goqu.I("b.year").Asc(), goqu.I("b.title").Asc())
	default:
		ds = ds.Order(goqu.I("b.title").Asc())
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	ds = ds.Limit(ListPageSize).Offset(uint(page-1) * ListPageSize)

	return ds.Prepared(true).ToSQL()
}

func buildCountQuery(f Filter) (string, []interface{}, error) {
	return listBase(f).Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
}
