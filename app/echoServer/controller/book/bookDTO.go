package book

import "github.com/shopspring/decimal"

type CreateBookReq struct {
	Title           string          `json:"title" validate:"required"`
	AuthorID        int64           `json:"author_id" validate:"required,gt=0"`
	CategoryID      *int64          `json:"category_id,omitempty"`
	Year            int             `json:"year" validate:"required,gt=0"`
	Description     string          `json:"description"`
	CoverURL        string          `json:"cover_url"`
	Status          string          `json:"status" validate:"omitempty,oneof=available out_of_stock archived"`
	AvailableCopies int64           `json:"available_copies" validate:"gte=0"`
	PricePurchase   decimal.Decimal `json:"price_purchase"`
	PriceRent2W     decimal.Decimal `json:"price_rent_2w"`
	PriceRent1M     decimal.Decimal `json:"price_rent_1m"`
	PriceRent3M     decimal.Decimal `json:"price_rent_3m"`
}

type CreateAuthorReq struct {
	Name string `json:"name" validate:"required"`
	Bio  string `json:"bio"`
}

type CreateCategoryReq struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}
