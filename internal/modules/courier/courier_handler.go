package courier

import (
	"errors"
	"net/http"

	"fasttrack-courier/internal/middleware"
	"fasttrack-courier/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for couriers.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new courier handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the admin courier routes.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	g := e.Group("/admin/couriers", authMW, adminMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:courierId", h.Get)
}

func (h *Handler) Create(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.CreateCourierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	courier, err := h.svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return h.respondError(c, err, "Failed to create courier")
	}
	return c.JSON(http.StatusCreated, courier)
}

func (h *Handler) List(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	couriers, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to list couriers")
	}
	if couriers == nil {
		couriers = []*models.Courier{}
	}
	return c.JSON(http.StatusOK, couriers)
}

func (h *Handler) Get(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	courier, err := h.svc.Get(c.Request().Context(), actor, c.Param("courierId"))
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve courier")
	}
	return c.JSON(http.StatusOK, courier)
}

func (h *Handler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Courier not found"})
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: err.Error()})
	default:
		c.Logger().Error("courier handler: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
	}
}
