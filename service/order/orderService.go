package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"bookstore/model"
	catalogrepo "bookstore/repository/catalog"
	orderrepo "bookstore/repository/order"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound ErrCode = "BOOK_NOT_FOUND"
	ErrUnavailable  ErrCode = "UNAVAILABLE"
	ErrBadDuration  ErrCode = "BAD_DURATION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Receipt reports what a completed purchase or rental created.
type Receipt struct {
	OrderID   int64           `json:"order_id"`
	ItemID    int64           `json:"item_id"`
	Kind      model.ItemKind  `json:"kind"`
	Total     decimal.Decimal `json:"total"`
	StartDate *time.Time      `json:"start_date,omitempty"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
}

// OrderRow = repository shape
type OrderRow = orderrepo.OrderRow

// Catalog is the read side the transactions need from the book catalog.
type Catalog interface {
	GetBook(ctx context.Context, id int64) (*catalogrepo.BookRow, error)
	ActiveRentalsCount(ctx context.Context, bookID int64, today time.Time) (int64, error)
}

// Ledger is the order store.
type Ledger interface {
	InTx(ctx context.Context, fn func(orderrepo.Tx) error) error
	ListOrders(ctx context.Context, userID int64, page int) ([]OrderRow, error)
}

type Service interface {
	// Purchase: create a completed order with one purchase item and consume
	// one copy permanently.
	Purchase(ctx context.Context, userID, bookID int64) (*Receipt, error)

	// Rent: create a completed order with one rental item for the chosen
	// duration. Inventory is untouched; availability is derived from the
	// open rental window.
	Rent(ctx context.Context, userID, bookID int64, d model.RentalDuration) (*Receipt, error)

	// MyOrders: the user's order history, newest first.
	MyOrders(ctx context.Context, userID int64, page int) ([]OrderRow, error)
}

// ----- Service implementation -----

type service struct {
	books  Catalog
	ledger Ledger
	now    func() time.Time
}

func New(books Catalog, ledger Ledger) Service {
	return &service{books: books, ledger: ledger, now: time.Now}
}

// NewWithClock pins "today" for tests.
func NewWithClock(books Catalog, ledger Ledger, now func() time.Time) Service {
	return &service{books: books, ledger: ledger, now: now}
}

func (s *service) loadEligible(ctx context.Context, bookID int64) (*catalogrepo.BookRow, error) {
	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	active, err := s.books.ActiveRentalsCount(ctx, bookID, s.now())
	if err != nil {
		return nil, err
	}
	if !book.CanBePurchased(active) {
		return nil, makeErr(ErrUnavailable)
	}
	return book, nil
}

func (s *service) Purchase(ctx context.Context, userID, bookID int64) (*Receipt, error) {
	book, err := s.loadEligible(ctx, bookID)
	if err != nil {
		return nil, err
	}

	rec := &Receipt{Kind: model.KindPurchase, Total: book.PricePurchase}
	err = s.ledger.InTx(ctx, func(tx orderrepo.Tx) error {
		orderID, err := tx.InsertOrder(ctx, userID, book.PricePurchase)
		if err != nil {
			return err
		}
		itemID, err := tx.InsertPurchaseItem(ctx, orderID, book.ID, book.PricePurchase)
		if err != nil {
			return err
		}
		// The decrement only fires while available_copies > 0, so a racing
		// purchase cannot push the count negative.
		if _, err := tx.DecrementAvailableCopies(ctx, book.ID); err != nil {
			return err
		}
		rec.OrderID, rec.ItemID = orderID, itemID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Rent(ctx context.Context, userID, bookID int64, d model.RentalDuration) (*Receipt, error) {
	days, ok := d.Days()
	if !ok {
		return nil, makeErr(ErrBadDuration)
	}

	book, err := s.loadEligible(ctx, bookID)
	if err != nil {
		return nil, err
	}

	price, _ := book.RentalPrice(d)
	start := model.DateOnly(s.now())
	end := start.AddDate(0, 0, days)

	rec := &Receipt{Kind: model.KindRental, Total: price, StartDate: &start, EndDate: &end}
	err = s.ledger.InTx(ctx, func(tx orderrepo.Tx) error {
		orderID, err := tx.InsertOrder(ctx, userID, price)
		if err != nil {
			return err
		}
		itemID, err := tx.InsertRentalItem(ctx, orderID, book.ID, price, d, start, end)
		if err != nil {
			return err
		}
		rec.OrderID, rec.ItemID = orderID, itemID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) MyOrders(ctx context.Context, userID int64, page int) ([]OrderRow, error) {
	return s.ledger.ListOrders(ctx, userID, page)
}
