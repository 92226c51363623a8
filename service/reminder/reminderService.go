package remindersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookstore/model"
	orderrepo "bookstore/repository/order"
	"bookstore/util/mailer"
)

// placeholder recipient for users without an email, mirrors the dev mail
// backend address
const placeholderEmail = "console@example.com"

const dateLayout = "2006-01-02"

// Result is the sweep outcome. Failed sends are logged and skipped, they
// never abort the batch.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type Repo interface {
	RentalsEndingOn(ctx context.Context, date time.Time) ([]orderrepo.ReminderRow, error)
	RentalsOverdue(ctx context.Context, today time.Time) ([]orderrepo.ReminderRow, error)
}

type Service interface {
	// Sweep notifies rentals ending in 3 days, ending tomorrow, and every
	// overdue rental. Overdue items are re-notified on every run; nothing
	// tracks what was already sent.
	Sweep(ctx context.Context) (Result, error)
}

type service struct {
	r   Repo
	m   mailer.Mailer
	log *slog.Logger
	now func() time.Time
}

func New(r Repo, m mailer.Mailer, log *slog.Logger) Service {
	return &service{r: r, m: m, log: log, now: time.Now}
}

func NewWithClock(r Repo, m mailer.Mailer, log *slog.Logger, now func() time.Time) Service {
	return &service{r: r, m: m, log: log, now: now}
}

func (s *service) Sweep(ctx context.Context) (Result, error) {
	today := model.DateOnly(s.now())
	var res Result

	for _, window := range []struct {
		days  int
		label string
	}{
		{3, "in 3 days"},
		{1, "tomorrow"},
	} {
		items, err := s.r.RentalsEndingOn(ctx, today.AddDate(0, 0, window.days))
		if err != nil {
			return res, err
		}
		for _, it := range items {
			s.dispatch(ctx, &res, it,
				fmt.Sprintf("Reminder: your rental of %q ends %s", it.BookTitle, it.EndDate.Format(dateLayout)),
				fmt.Sprintf("Hello %s!\n\nYour rental of %q ends %s (%s). "+
					"You can extend the rental or return the book.\n\n— Your bookstore",
					it.Username, it.BookTitle, window.label, it.EndDate.Format(dateLayout)))
		}
	}

	overdue, err := s.r.RentalsOverdue(ctx, today)
	if err != nil {
		return res, err
	}
	for _, it := range overdue {
		s.dispatch(ctx, &res, it,
			fmt.Sprintf("Rental overdue: %q (ended %s)", it.BookTitle, it.EndDate.Format(dateLayout)),
			fmt.Sprintf("Hello %s!\n\nYour rental of %q expired on %s. "+
				"Please return the book or contact us to extend the rental.\n\n— Your bookstore",
				it.Username, it.BookTitle, it.EndDate.Format(dateLayout)))
	}

	return res, nil
}

func (s *service) dispatch(ctx context.Context, res *Result, it orderrepo.ReminderRow, subject, body string) {
	to := it.Email
	if to == "" {
		to = placeholderEmail
	}
	err := s.m.Send(ctx, mailer.Message{To: to, Subject: subject, Body: body})
	if err != nil {
		s.log.Error("reminder send failed", "item_id", it.ItemID, "to", to, "err", err)
		res.Failed++
		return
	}
	res.Sent++
}
