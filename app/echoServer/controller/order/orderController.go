package order

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"bookstore/app/echoServer/jwtx"
	"bookstore/model"
	ordersvc "bookstore/service/order"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func bookID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// POST /v1/books/:id/buy
func (h *Controller) Buy(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	rec, err := h.Svc.Purchase(c.Request().Context(), userID, id)
	if err != nil {
		return h.orderErr(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// POST /v1/books/:id/rent
func (h *Controller) Rent(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, ok := bookID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req RentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "duration must be one of 2w, 1m, 3m"})
	}

	rec, err := h.Svc.Rent(c.Request().Context(), userID, id, model.RentalDuration(req.Duration))
	if err != nil {
		return h.orderErr(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /v1/my/orders
func (h *Controller) MyOrders(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid page"})
		}
		page = p
	}

	rows, err := h.Svc.MyOrders(c.Request().Context(), userID, page)
	if err != nil {
		h.Log.Error("order history", "user_id", userID, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "page": page})
}

func (h *Controller) orderErr(c echo.Context, err error) error {
	switch ordersvc.Code(err) {
	case ordersvc.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	case ordersvc.ErrUnavailable:
		return c.JSON(http.StatusConflict, echo.Map{"message": "book is not available"})
	case ordersvc.ErrBadDuration:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "duration must be one of 2w, 1m, 3m"})
	}
	h.Log.Error("order", "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}
