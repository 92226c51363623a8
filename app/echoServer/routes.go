package echoServer

import (
	"net/http"

	"bookstore/app/echoServer/controller/auth"
	"bookstore/app/echoServer/controller/book"
	"bookstore/app/echoServer/controller/dashboard"
	"bookstore/app/echoServer/controller/order"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Order     *order.Controller
	Dashboard *dashboard.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Catalog reads are public
	pub.GET("/books", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)
	pub.GET("/authors", c.Book.Authors)
	pub.GET("/categories", c.Book.Categories)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	auth.Use(claimsToContext)

	// Orders
	auth.POST("/books/:id/buy", c.Order.Buy)
	auth.POST("/books/:id/rent", c.Order.Rent)
	auth.GET("/my/orders", c.Order.MyOrders)

	// Staff endpoints (role checked in the controllers)
	auth.GET("/dashboard", c.Dashboard.Overview)
	auth.POST("/books", c.Book.Create)
	auth.POST("/authors", c.Book.CreateAuthor)
	auth.POST("/categories", c.Book.CreateCategory)
}

// claimsToContext pulls sub and role out of the verified token.
func claimsToContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		tok, ok := ctx.Get("user").(*jwt.Token)
		if !ok || tok == nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		ctx.Set("user_id", int64(sub))
		if role, ok := claims["role"].(string); ok {
			ctx.Set("role", role)
		}
		return next(ctx)
	}
}
