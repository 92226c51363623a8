// model/catalog.go
package model

import "github.com/shopspring/decimal"

type BookStatus string

const (
	BookAvailable  BookStatus = "available"
	BookOutOfStock BookStatus = "out_of_stock"
	BookArchived   BookStatus = "archived"
)

func (s BookStatus) Valid() bool {
	switch s {
	case BookAvailable, BookOutOfStock, BookArchived:
		return true
	}
	return false
}

type Author struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Bio  string `db:"bio" json:"bio,omitempty"`
}

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

type Book struct {
	ID              int64           `db:"id" json:"id"`
	Title           string          `db:"title" json:"title"`
	AuthorID        int64           `db:"author_id" json:"author_id"`
	CategoryID      *int64          `db:"category_id" json:"category_id,omitempty"`
	Year            int             `db:"year" json:"year"`
	Description     string          `db:"description" json:"description,omitempty"`
	CoverURL        string          `db:"cover_url" json:"cover_url,omitempty"`
	Status          BookStatus      `db:"status" json:"status"`
	AvailableCopies int64           `db:"available_copies" json:"available_copies"`
	PricePurchase   decimal.Decimal `db:"price_purchase" json:"price_purchase"`
	PriceRent2W     decimal.Decimal `db:"price_rent_2w" json:"price_rent_2w"`
	PriceRent1M     decimal.Decimal `db:"price_rent_1m" json:"price_rent_1m"`
	PriceRent3M     decimal.Decimal `db:"price_rent_3m" json:"price_rent_3m"`
}

// UnitsAvailableNow is the derived inventory figure: base copies minus
// rentals that have not ended yet, floored at zero.
func (b *Book) UnitsAvailableNow(activeRentals int64) int64 {
	n := b.AvailableCopies - activeRentals
	if n < 0 {
		return 0
	}
	return n
}

func (b *Book) CanBePurchased(activeRentals int64) bool {
	return b.Status == BookAvailable && b.UnitsAvailableNow(activeRentals) > 0
}

// CanBeRented shares the purchase eligibility rule: renting does not consume
// available_copies, the outstanding rental count does the accounting.
func (b *Book) CanBeRented(activeRentals int64) bool {
	return b.CanBePurchased(activeRentals)
}

// RentalPrice returns the price field matching the duration.
func (b *Book) RentalPrice(d RentalDuration) (decimal.Decimal, bool) {
	switch d {
	case RentTwoWeeks:
		return b.PriceRent2W, true
	case RentOneMonth:
		return b.PriceRent1M, true
	case RentThreeMonths:
		return b.PriceRent3M, true
	}
	return decimal.Zero, false
}
