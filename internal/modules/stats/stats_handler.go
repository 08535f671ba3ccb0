package stats

import (
	"errors"
	"net/http"

	"fasttrack-courier/internal/middleware"
	"fasttrack-courier/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for the stats endpoints.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new stats handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the stats routes.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	e.GET("/admin/stats", h.AdminStats, authMW, adminMW)
	e.GET("/admin/dashboard", h.Dashboard, authMW, adminMW)
	e.GET("/merchant/stats", h.MerchantStats, authMW)
}

func (h *Handler) AdminStats(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	stats, err := h.svc.AdminStats(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to compute stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Dashboard(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	stats, err := h.svc.DashboardStats(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to compute dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) MerchantStats(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	stats, err := h.svc.MerchantStats(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to compute merchant stats")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) respondError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, models.ErrForbidden) {
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: err.Error()})
	}
	c.Logger().Error("stats handler: ", err)
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
}
