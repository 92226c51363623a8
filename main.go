// Package main online bookstore API.
//
// @title           Bookstore API
// @version         1.0
// @description     Online bookstore (catalog, purchases, rentals, staff dashboard).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookstore/app/echoServer"
	authctrl "bookstore/app/echoServer/controller/auth"
	bookctrl "bookstore/app/echoServer/controller/book"
	dashboardctrl "bookstore/app/echoServer/controller/dashboard"
	orderctrl "bookstore/app/echoServer/controller/order"
	"bookstore/app/echoServer/validation"
	"bookstore/config"
	catalogrepo "bookstore/repository/catalog"
	orderrepo "bookstore/repository/order"
	userrepo "bookstore/repository/user"
	authsvc "bookstore/service/auth"
	catalogsvc "bookstore/service/catalog"
	dashboardsvc "bookstore/service/dashboard"
	ordersvc "bookstore/service/order"
	remindersvc "bookstore/service/reminder"
	"bookstore/util/database"
	"bookstore/util/mailer"
)

func main() {
	root := &cobra.Command{
		Use:   "bookstore",
		Short: "Online bookstore API and maintenance jobs",
	}
	root.AddCommand(serveCmd(), remindCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := newLogger()

			db, err := database.New(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				log.Error("db connect failed", "err", err)
				return err
			}
			defer db.Close()

			// repos
			cr := catalogrepo.New(db)
			or := orderrepo.New(db)
			ur := userrepo.New(db)

			// services
			as := authsvc.New(ur, cfg.JWTSecret)
			cs := catalogsvc.New(cr)
			osv := ordersvc.New(cr, or)
			ds := dashboardsvc.New(cr, or)

			// controllers
			v := validator.New()
			authC := &authctrl.Controller{Svc: as, V: v, Log: log}
			bookC := &bookctrl.Controller{Svc: cs, V: v, Log: log}
			orderC := &orderctrl.Controller{Svc: osv, V: v, Log: log}
			dashC := &dashboardctrl.Controller{Svc: ds, Log: log}

			e := echo.New()
			e.HideBanner = true
			echoServer.RegisterMiddlewares(e)
			e.Validator = validation.New()

			e.GET("/health", func(c echo.Context) error {
				return c.JSON(200, map[string]any{"status": "ok"})
			})
			e.GET("/metrics", echo.WrapHandler(echoServer.MetricsHandler()))
			e.GET("/swagger/*", echoSwagger.WrapHandler)

			echoServer.Register(e, echoServer.C{
				Auth:      authC,
				Book:      bookC,
				Order:     orderC,
				Dashboard: dashC,
				JWTSecret: cfg.JWTSecret,
			})

			log.Info("starting server", "port", cfg.Port, "env", cfg.Env)
			return e.Start(":" + cfg.Port)
		},
	}
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send rental return reminders and overdue notices, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := newLogger()
			ctx := cmd.Context()

			db, err := database.New(ctx, cfg.DatabaseURL)
			if err != nil {
				log.Error("db connect failed", "err", err)
				return err
			}
			defer db.Close()

			var m mailer.Mailer
			if cfg.SMTPHost != "" {
				m = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
			} else {
				// dev fallback, prints instead of sending
				m = &mailer.Log{L: log}
			}

			res, err := remindersvc.New(orderrepo.New(db), m, log).Sweep(ctx)
			if err != nil {
				log.Error("reminder sweep failed", "err", err)
				return err
			}
			log.Info("reminder sweep done", "sent", res.Sent, "failed", res.Failed)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load demo data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := newLogger()
			ctx := cmd.Context()

			db, err := database.New(ctx, cfg.DatabaseURL)
			if err != nil {
				log.Error("db connect failed", "err", err)
				return err
			}
			defer db.Close()

			if err := database.EnsureSchema(ctx, db); err != nil {
				log.Error("schema apply failed", "err", err)
				return err
			}
			if err := database.SeedDemo(ctx, db); err != nil {
				log.Error("seed failed", "err", err)
				return err
			}
			log.Info("schema applied and demo data seeded")
			return nil
		},
	}
}
