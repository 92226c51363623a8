package dashboardsvc

import (
	"context"
	"time"

	catalogrepo "bookstore/repository/catalog"
	orderrepo "bookstore/repository/order"
)

// Limit caps both dashboard lists.
const Limit = 20

type Overview struct {
	// next rental returns, soonest first
	UpcomingReturns []orderrepo.ReturnRow `json:"upcoming_returns"`
	// available books with at most one base copy left
	LowStock []catalogrepo.BookRow `json:"low_stock"`
}

type Catalog interface {
	LowStock(ctx context.Context, limit int) ([]catalogrepo.BookRow, error)
}

type Ledger interface {
	UpcomingReturns(ctx context.Context, today time.Time, limit int) ([]orderrepo.ReturnRow, error)
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	books  Catalog
	ledger Ledger
	now    func() time.Time
}

func New(books Catalog, ledger Ledger) Service {
	return &service{books: books, ledger: ledger, now: time.Now}
}

func NewWithClock(books Catalog, ledger Ledger, now func() time.Time) Service {
	return &service{books: books, ledger: ledger, now: now}
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	returns, err := s.ledger.UpcomingReturns(ctx, s.now(), Limit)
	if err != nil {
		return nil, err
	}
	low, err := s.books.LowStock(ctx, Limit)
	if err != nil {
		return nil, err
	}
	return &Overview{UpcomingReturns: returns, LowStock: low}, nil
}
