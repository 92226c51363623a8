// repository/order/orderRepository.go
package orderrepo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"bookstore/model"
)

// HistoryPageSize is the fixed order-history page size.
const HistoryPageSize = 20

type ItemRow struct {
	model.OrderItem
	BookTitle string `db:"book_title" json:"book_title"`
}

type OrderRow struct {
	model.Order
	Items []ItemRow `json:"items"`
}

// ReminderRow is one rental the sweep may notify about, joined with the
// owning order's user and the book.
type ReminderRow struct {
	ItemID    int64     `db:"item_id" json:"item_id"`
	BookTitle string    `db:"book_title" json:"book_title"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
}

// ReturnRow is an upcoming rental return for the staff dashboard.
type ReturnRow struct {
	ItemID    int64      `db:"item_id" json:"item_id"`
	BookID    int64      `db:"book_id" json:"book_id"`
	BookTitle string     `db:"book_title" json:"book_title"`
	Username  string     `db:"username" json:"username"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   time.Time  `db:"end_date" json:"end_date"`
}

// Tx is the write side of a purchase or rental, executed inside one
// database transaction.
type Tx interface {
	InsertOrder(ctx context.Context, userID int64, total decimal.Decimal) (int64, error)
	InsertPurchaseItem(ctx context.Context, orderID, bookID int64, price decimal.Decimal) (int64, error)
	InsertRentalItem(ctx context.Context, orderID, bookID int64, price decimal.Decimal,
		d model.RentalDuration, start, end time.Time) (int64, error)

	// DecrementAvailableCopies is the atomic decrement-with-floor: it only
	// fires while available_copies > 0 and reports whether a row changed.
	DecrementAvailableCopies(ctx context.Context, bookID int64) (bool, error)
}

type Repo interface {
	InTx(ctx context.Context, fn func(Tx) error) error

	ListOrders(ctx context.Context, userID int64, page int) ([]OrderRow, error)

	RentalsEndingOn(ctx context.Context, date time.Time) ([]ReminderRow, error)
	RentalsOverdue(ctx context.Context, today time.Time) ([]ReminderRow, error)
	UpcomingReturns(ctx context.Context, today time.Time, limit int) ([]ReturnRow, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) Repo { return &repo{db} }

func (r *repo) InTx(ctx context.Context, fn func(Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(&orderTx{tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type orderTx struct{ tx *sqlx.Tx }

func (t *orderTx) InsertOrder(ctx context.Context, userID int64, total decimal.Decimal) (int64, error) {
	const q = `
INSERT INTO orders (user_id, total)
VALUES ($1, $2)
RETURNING id`
	var id int64
	err := t.tx.QueryRowxContext(ctx, q, userID, total).Scan(&id)
	return id, err
}

func (t *orderTx) InsertPurchaseItem(ctx context.Context, orderID, bookID int64, price decimal.Decimal) (int64, error) {
	const q = `
INSERT INTO order_items (order_id, book_id, kind, price)
VALUES ($1, $2, 'purchase', $3)
RETURNING id`
	var id int64
	err := t.tx.QueryRowxContext(ctx, q, orderID, bookID, price).Scan(&id)
	return id, err
}

func (t *orderTx) InsertRentalItem(ctx context.Context, orderID, bookID int64, price decimal.Decimal,
	d model.RentalDuration, start, end time.Time) (int64, error) {
	const q = `
INSERT INTO order_items (order_id, book_id, kind, price, start_date, end_date, duration)
VALUES ($1, $2, 'rental', $3, $4, $5, $6)
RETURNING id`
	var id int64
	err := t.tx.QueryRowxContext(ctx, q, orderID, bookID, price,
		model.DateOnly(start), model.DateOnly(end), d).Scan(&id)
	return id, err
}

func (t *orderTx) DecrementAvailableCopies(ctx context.Context, bookID int64) (bool, error) {
	const q = `
UPDATE books
SET available_copies = available_copies - 1
WHERE id = $1
  AND available_copies > 0`
	res, err := t.tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	return aff > 0, err
}

func (r *repo) ListOrders(ctx context.Context, userID int64, page int) ([]OrderRow, error) {
	if page < 1 {
		page = 1
	}
	const q = `
SELECT id, user_id, created_at, status, total
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	var orders []model.Order
	if err := r.db.SelectContext(ctx, &orders, q, userID, HistoryPageSize, (page-1)*HistoryPageSize); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	const qi = `
SELECT i.id, i.order_id, i.book_id, i.kind, i.price, i.start_date, i.end_date, i.duration,
       b.title AS book_title
FROM order_items i
JOIN books b ON b.id = i.book_id
WHERE i.order_id = ANY($1)
ORDER BY i.id`
	var items []ItemRow
	if err := r.db.SelectContext(ctx, &items, qi, ids); err != nil {
		return nil, err
	}

	byOrder := make(map[int64][]ItemRow, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	out := make([]OrderRow, len(orders))
	for i, o := range orders {
		out[i] = OrderRow{Order: o, Items: byOrder[o.ID]}
	}
	return out, nil
}

const reminderColumns = `
	i.id        AS item_id,
	b.title     AS book_title,
	u.username  AS username,
	u.email     AS email,
	i.end_date  AS end_date`

func (r *repo) RentalsEndingOn(ctx context.Context, date time.Time) ([]ReminderRow, error) {
	const q = `
SELECT` + reminderColumns + `
FROM order_items i
JOIN orders o ON o.id = i.order_id
JOIN users u ON u.id = o.user_id
JOIN books b ON b.id = i.book_id
WHERE i.kind = 'rental'
  AND i.end_date = $1
ORDER BY i.id`
	var out []ReminderRow
	if err := r.db.SelectContext(ctx, &out, q, model.DateOnly(date)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) RentalsOverdue(ctx context.Context, today time.Time) ([]ReminderRow, error) {
	const q = `
SELECT` + reminderColumns + `
FROM order_items i
JOIN orders o ON o.id = i.order_id
JOIN users u ON u.id = o.user_id
JOIN books b ON b.id = i.book_id
WHERE i.kind = 'rental'
  AND i.end_date < $1
ORDER BY i.end_date, i.id`
	var out []ReminderRow
	if err := r.db.SelectContext(ctx, &out, q, model.DateOnly(today)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) UpcomingReturns(ctx context.Context, today time.Time, limit int) ([]ReturnRow, error) {
	const q = `
SELECT i.id         AS item_id,
       i.book_id    AS book_id,
       b.title      AS book_title,
       u.username   AS username,
       i.start_date AS start_date,
       i.end_date   AS end_date
FROM order_items i
JOIN orders o ON o.id = i.order_id
JOIN users u ON u.id = o.user_id
JOIN books b ON b.id = i.book_id
WHERE i.kind = 'rental'
  AND i.end_date >= $1
ORDER BY i.end_date ASC, i.id ASC
LIMIT $2`
	var out []ReturnRow
	if err := r.db.SelectContext(ctx, &out, q, model.DateOnly(today), limit); err != nil {
		return nil, err
	}
	return out, nil
}
