package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookstore/app/echoServer/jwtx"
	dashboardsvc "bookstore/service/dashboard"
)

type Controller struct {
	Svc dashboardsvc.Service
	Log *slog.Logger
}

// GET /v1/dashboard  (staff)
func (h *Controller) Overview(c echo.Context) error {
	if !jwtx.IsStaff(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	ov, err := h.Svc.Overview(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, ov)
}
