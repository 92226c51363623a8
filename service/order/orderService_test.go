package ordersvc_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookstore/model"
	catalogrepo "bookstore/repository/catalog"
	orderrepo "bookstore/repository/order"
	ordersvc "bookstore/service/order"
)

var today = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return today }

type catalogMock struct {
	getFn    func(ctx context.Context, id int64) (*catalogrepo.BookRow, error)
	activeFn func(ctx context.Context, bookID int64, today time.Time) (int64, error)
}

func (m *catalogMock) GetBook(ctx context.Context, id int64) (*catalogrepo.BookRow, error) {
	return m.getFn(ctx, id)
}

func (m *catalogMock) ActiveRentalsCount(ctx context.Context, bookID int64, today time.Time) (int64, error) {
	if m.activeFn == nil {
		return 0, nil
	}
	return m.activeFn(ctx, bookID, today)
}

// fakeTx records every write the transaction performs.
type fakeTx struct {
	orders     []decimal.Decimal
	purchases  []int64
	rentals    []rentalInsert
	decrements []int64
}

type rentalInsert struct {
	bookID     int64
	price      decimal.Decimal
	duration   model.RentalDuration
	start, end time.Time
}

func (t *fakeTx) InsertOrder(_ context.Context, _ int64, total decimal.Decimal) (int64, error) {
	t.orders = append(t.orders, total)
	return 100, nil
}

func (t *fakeTx) InsertPurchaseItem(_ context.Context, _, bookID int64, _ decimal.Decimal) (int64, error) {
	t.purchases = append(t.purchases, bookID)
	return 200, nil
}

func (t *fakeTx) InsertRentalItem(_ context.Context, _, bookID int64, price decimal.Decimal,
	d model.RentalDuration, start, end time.Time) (int64, error) {
	t.rentals = append(t.rentals, rentalInsert{bookID, price, d, start, end})
	return 201, nil
}

func (t *fakeTx) DecrementAvailableCopies(_ context.Context, bookID int64) (bool, error) {
	t.decrements = append(t.decrements, bookID)
	return true, nil
}

type ledgerMock struct {
	tx      *fakeTx
	txCalls int
	listFn  func(ctx context.Context, userID int64, page int) ([]orderrepo.OrderRow, error)
}

func (m *ledgerMock) InTx(_ context.Context, fn func(orderrepo.Tx) error) error {
	m.txCalls++
	return fn(m.tx)
}

func (m *ledgerMock) ListOrders(ctx context.Context, userID int64, page int) ([]orderrepo.OrderRow, error) {
	return m.listFn(ctx, userID, page)
}

func availableBook() *catalogrepo.BookRow {
	return &catalogrepo.BookRow{Book: model.Book{
		ID:              7,
		Title:           "1984",
		Status:          model.BookAvailable,
		AvailableCopies: 3,
		PricePurchase:   decimal.RequireFromString("14.99"),
		PriceRent2W:     decimal.RequireFromString("3.99"),
		PriceRent1M:     decimal.RequireFromString("5.99"),
		PriceRent3M:     decimal.RequireFromString("9.99"),
	}}
}

func newService(book *catalogrepo.BookRow, active int64) (ordersvc.Service, *ledgerMock) {
	cat := &catalogMock{
		getFn: func(ctx context.Context, id int64) (*catalogrepo.BookRow, error) {
			if book == nil {
				return nil, sql.ErrNoRows
			}
			return book, nil
		},
		activeFn: func(ctx context.Context, bookID int64, _ time.Time) (int64, error) {
			return active, nil
		},
	}
	ledger := &ledgerMock{tx: &fakeTx{}}
	return ordersvc.NewWithClock(cat, ledger, clock), ledger
}

func TestPurchase_Success(t *testing.T) {
	svc, ledger := newService(availableBook(), 0)

	rec, err := svc.Purchase(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, model.KindPurchase, rec.Kind)
	require.True(t, rec.Total.Equal(decimal.RequireFromString("14.99")))
	require.Nil(t, rec.StartDate)
	require.Nil(t, rec.EndDate)

	// exactly one order, one purchase item, one guarded decrement
	require.Equal(t, 1, ledger.txCalls)
	require.Len(t, ledger.tx.orders, 1)
	require.True(t, ledger.tx.orders[0].Equal(decimal.RequireFromString("14.99")))
	require.Equal(t, []int64{7}, ledger.tx.purchases)
	require.Equal(t, []int64{7}, ledger.tx.decrements)
	require.Empty(t, ledger.tx.rentals)
}

func TestPurchase_Unavailable(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*catalogrepo.BookRow)
		active int64
	}{
		{"archived", func(b *catalogrepo.BookRow) { b.Status = model.BookArchived }, 0},
		{"out of stock flag", func(b *catalogrepo.BookRow) { b.Status = model.BookOutOfStock }, 0},
		{"zero copies", func(b *catalogrepo.BookRow) { b.AvailableCopies = 0 }, 0},
		{"fully rented", func(b *catalogrepo.BookRow) {}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			book := availableBook()
			tc.mutate(book)
			svc, ledger := newService(book, tc.active)

			_, err := svc.Purchase(context.Background(), 1, 7)
			require.Equal(t, ordersvc.ErrUnavailable, ordersvc.Code(err))
			// rejection must not open a transaction or write anything
			require.Zero(t, ledger.txCalls)
		})
	}
}

func TestPurchase_BookNotFound(t *testing.T) {
	svc, ledger := newService(nil, 0)

	_, err := svc.Purchase(context.Background(), 1, 99)
	require.Equal(t, ordersvc.ErrBookNotFound, ordersvc.Code(err))
	require.Zero(t, ledger.txCalls)
}

func TestRent_Success_PerDuration(t *testing.T) {
	cases := []struct {
		duration model.RentalDuration
		days     int
		price    string
	}{
		{model.RentTwoWeeks, 14, "3.99"},
		{model.RentOneMonth, 30, "5.99"},
		{model.RentThreeMonths, 90, "9.99"},
	}
	for _, tc := range cases {
		t.Run(string(tc.duration), func(t *testing.T) {
			svc, ledger := newService(availableBook(), 0)

			rec, err := svc.Rent(context.Background(), 1, 7, tc.duration)
			require.NoError(t, err)

			start := model.DateOnly(today)
			end := start.AddDate(0, 0, tc.days)
			require.Equal(t, start, *rec.StartDate)
			require.Equal(t, end, *rec.EndDate)
			require.True(t, rec.Total.Equal(decimal.RequireFromString(tc.price)))

			require.Len(t, ledger.tx.rentals, 1)
			got := ledger.tx.rentals[0]
			require.Equal(t, tc.duration, got.duration)
			require.Equal(t, start, got.start)
			require.Equal(t, end, got.end)
			require.True(t, got.price.Equal(decimal.RequireFromString(tc.price)))

			// renting never touches available_copies
			require.Empty(t, ledger.tx.decrements)
			require.Empty(t, ledger.tx.purchases)
		})
	}
}

func TestRent_BadDuration(t *testing.T) {
	svc, ledger := newService(availableBook(), 0)

	_, err := svc.Rent(context.Background(), 1, 7, model.RentalDuration("6m"))
	require.Equal(t, ordersvc.ErrBadDuration, ordersvc.Code(err))
	require.Zero(t, ledger.txCalls)
}

func TestRent_Unavailable(t *testing.T) {
	book := availableBook()
	book.AvailableCopies = 1
	svc, ledger := newService(book, 1)

	_, err := svc.Rent(context.Background(), 1, 7, model.RentTwoWeeks)
	require.Equal(t, ordersvc.ErrUnavailable, ordersvc.Code(err))
	require.Zero(t, ledger.txCalls)
}

// A single-copy book rented for two weeks is unavailable while the window is
// open and available again after end_date passes, with no writes to the book.
func TestRent_AvailabilityRestoresAfterExpiry(t *testing.T) {
	book := availableBook()
	book.AvailableCopies = 1

	// active rental outstanding: blocked
	svc, _ := newService(book, 1)
	_, err := svc.Rent(context.Background(), 1, 7, model.RentTwoWeeks)
	require.Equal(t, ordersvc.ErrUnavailable, ordersvc.Code(err))

	// clock advanced past end_date: the count query no longer sees the
	// rental and the same book record is eligible again
	svc, ledger := newService(book, 0)
	_, err = svc.Rent(context.Background(), 1, 7, model.RentTwoWeeks)
	require.NoError(t, err)
	require.Empty(t, ledger.tx.decrements)
}

func TestMyOrders_Passthrough(t *testing.T) {
	cat := &catalogMock{}
	ledger := &ledgerMock{
		listFn: func(ctx context.Context, userID int64, page int) ([]orderrepo.OrderRow, error) {
			require.EqualValues(t, 42, userID)
			require.Equal(t, 2, page)
			return []orderrepo.OrderRow{{}}, nil
		},
	}
	svc := ordersvc.New(cat, ledger)
	rows, err := svc.MyOrders(context.Background(), 42, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
