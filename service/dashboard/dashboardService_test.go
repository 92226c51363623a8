package dashboardsvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookstore/model"
	catalogrepo "bookstore/repository/catalog"
	orderrepo "bookstore/repository/order"
	dashboardsvc "bookstore/service/dashboard"
)

type catalogMock struct {
	lowFn func(ctx context.Context, limit int) ([]catalogrepo.BookRow, error)
}

func (m *catalogMock) LowStock(ctx context.Context, limit int) ([]catalogrepo.BookRow, error) {
	return m.lowFn(ctx, limit)
}

type ledgerMock struct {
	upcomingFn func(ctx context.Context, today time.Time, limit int) ([]orderrepo.ReturnRow, error)
}

func (m *ledgerMock) UpcomingReturns(ctx context.Context, today time.Time, limit int) ([]orderrepo.ReturnRow, error) {
	return m.upcomingFn(ctx, today, limit)
}

func TestOverview(t *testing.T) {
	today := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 2)

	books := &catalogMock{
		lowFn: func(ctx context.Context, limit int) ([]catalogrepo.BookRow, error) {
			require.Equal(t, dashboardsvc.Limit, limit)
			return []catalogrepo.BookRow{{Book: model.Book{Title: "War and Peace", AvailableCopies: 1}}}, nil
		},
	}
	ledger := &ledgerMock{
		upcomingFn: func(ctx context.Context, got time.Time, limit int) ([]orderrepo.ReturnRow, error) {
			require.Equal(t, today, got)
			require.Equal(t, dashboardsvc.Limit, limit)
			return []orderrepo.ReturnRow{{ItemID: 1, BookTitle: "1984", EndDate: end}}, nil
		},
	}

	ov, err := dashboardsvc.NewWithClock(books, ledger, func() time.Time { return today }).
		Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, ov.UpcomingReturns, 1)
	require.Len(t, ov.LowStock, 1)
	require.Equal(t, "1984", ov.UpcomingReturns[0].BookTitle)
}
