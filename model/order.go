// model/order.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderCompleted OrderStatus = "completed"
)

type ItemKind string

const (
	KindPurchase ItemKind = "purchase"
	KindRental   ItemKind = "rental"
)

type RentalDuration string

const (
	RentTwoWeeks    RentalDuration = "2w"
	RentOneMonth    RentalDuration = "1m"
	RentThreeMonths RentalDuration = "3m"
)

// Days the duration adds to the start date: 2w=14, 1m=30, 3m=90.
func (d RentalDuration) Days() (int, bool) {
	switch d {
	case RentTwoWeeks:
		return 14, true
	case RentOneMonth:
		return 30, true
	case RentThreeMonths:
		return 90, true
	}
	return 0, false
}

func (d RentalDuration) Valid() bool {
	_, ok := d.Days()
	return ok
}

type Order struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	Status    OrderStatus     `db:"status" json:"status"`
	Total     decimal.Decimal `db:"total" json:"total"`
}

type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	BookID    int64           `db:"book_id" json:"book_id"`
	Kind      ItemKind        `db:"kind" json:"kind"`
	Price     decimal.Decimal `db:"price" json:"price"`
	StartDate *time.Time      `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time      `db:"end_date" json:"end_date,omitempty"`
	Duration  RentalDuration  `db:"duration" json:"duration,omitempty"`
}

// IsActiveRental reports whether the item is a rental whose window contains
// today (date precision).
func (i *OrderItem) IsActiveRental(today time.Time) bool {
	if i.Kind != KindRental || i.StartDate == nil || i.EndDate == nil {
		return false
	}
	day := DateOnly(today)
	return !day.Before(DateOnly(*i.StartDate)) && !day.After(DateOnly(*i.EndDate))
}

// DateOnly truncates t to a calendar date in UTC. Rental windows and the
// reminder thresholds all compare at date precision.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
