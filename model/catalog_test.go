package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookstore/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUnitsAvailableNow_NeverNegative(t *testing.T) {
	b := &model.Book{AvailableCopies: 2, Status: model.BookAvailable}

	require.EqualValues(t, 2, b.UnitsAvailableNow(0))
	require.EqualValues(t, 1, b.UnitsAvailableNow(1))
	require.EqualValues(t, 0, b.UnitsAvailableNow(2))
	// more outstanding rentals than base copies must floor at zero
	require.EqualValues(t, 0, b.UnitsAvailableNow(5))
}

func TestEligibility(t *testing.T) {
	cases := []struct {
		name    string
		status  model.BookStatus
		copies  int64
		rentals int64
		want    bool
	}{
		{"available with stock", model.BookAvailable, 1, 0, true},
		{"available but fully rented", model.BookAvailable, 1, 1, false},
		{"out of stock flag", model.BookOutOfStock, 3, 0, false},
		{"archived", model.BookArchived, 3, 0, false},
		{"zero copies", model.BookAvailable, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &model.Book{Status: tc.status, AvailableCopies: tc.copies}
			require.Equal(t, tc.want, b.CanBePurchased(tc.rentals))
			// renting and purchasing share the same eligibility rule
			require.Equal(t, tc.want, b.CanBeRented(tc.rentals))
		})
	}
}

func TestRentalPrice(t *testing.T) {
	b := &model.Book{
		PriceRent2W: decimal.RequireFromString("3.99"),
		PriceRent1M: decimal.RequireFromString("5.99"),
		PriceRent3M: decimal.RequireFromString("9.99"),
	}

	p, ok := b.RentalPrice(model.RentTwoWeeks)
	require.True(t, ok)
	require.True(t, p.Equal(decimal.RequireFromString("3.99")))

	p, ok = b.RentalPrice(model.RentOneMonth)
	require.True(t, ok)
	require.True(t, p.Equal(decimal.RequireFromString("5.99")))

	p, ok = b.RentalPrice(model.RentThreeMonths)
	require.True(t, ok)
	require.True(t, p.Equal(decimal.RequireFromString("9.99")))

	_, ok = b.RentalPrice(model.RentalDuration("6m"))
	require.False(t, ok)
}

func TestDurationDays(t *testing.T) {
	for d, want := range map[model.RentalDuration]int{
		model.RentTwoWeeks:    14,
		model.RentOneMonth:    30,
		model.RentThreeMonths: 90,
	} {
		got, ok := d.Days()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := model.RentalDuration("").Days()
	require.False(t, ok)
}

func TestIsActiveRental_Window(t *testing.T) {
	start := date(2025, 3, 1)
	end := date(2025, 3, 15)
	item := &model.OrderItem{Kind: model.KindRental, StartDate: &start, EndDate: &end}

	require.True(t, item.IsActiveRental(date(2025, 3, 1)))
	require.True(t, item.IsActiveRental(date(2025, 3, 10)))
	require.True(t, item.IsActiveRental(date(2025, 3, 15)))
	require.False(t, item.IsActiveRental(date(2025, 3, 16)))
	require.False(t, item.IsActiveRental(date(2025, 2, 28)))

	purchase := &model.OrderItem{Kind: model.KindPurchase}
	require.False(t, purchase.IsActiveRental(date(2025, 3, 10)))
}
