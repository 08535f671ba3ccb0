package parcel

import (
	"errors"
	"net/http"

	"fasttrack-courier/internal/middleware"
	"fasttrack-courier/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for parcels.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new parcel handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the parcel routes. Tracking is public; everything else
// requires a token, and the courier assignment shortcut is admin-only.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	e.GET("/parcels/tracking/:trackingId", h.Track)

	g := e.Group("/parcels", authMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/status/:status", h.ListByStatus)
	g.GET("/:parcelId", h.Get)
	g.PUT("/:parcelId", h.Update)
	g.DELETE("/:parcelId", h.Delete)
	g.PUT("/:parcelId/status", h.UpdateStatus)

	e.PUT("/admin/parcels/:parcelId/assign", h.AssignCourier, authMW, adminMW)
}

func (h *Handler) Create(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.CreateParcelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	parcel, err := h.svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return h.respondError(c, err, "Failed to create parcel")
	}

	return c.JSON(http.StatusCreated, parcel)
}

func (h *Handler) List(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	parcels, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve parcels")
	}
	if parcels == nil {
		parcels = []*models.Parcel{}
	}
	return c.JSON(http.StatusOK, parcels)
}

func (h *Handler) Get(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	parcel, err := h.svc.Get(c.Request().Context(), actor, c.Param("parcelId"))
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve parcel")
	}
	return c.JSON(http.StatusOK, parcel)
}

func (h *Handler) Update(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.UpdateParcelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	parcel, err := h.svc.Update(c.Request().Context(), actor, c.Param("parcelId"), req)
	if err != nil {
		return h.respondError(c, err, "Failed to update parcel")
	}
	return c.JSON(http.StatusOK, parcel)
}

func (h *Handler) Delete(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("parcelId")); err != nil {
		return h.respondError(c, err, "Failed to delete parcel")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Parcel deleted successfully"})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.UpdateParcelStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	parcel, err := h.svc.UpdateStatus(c.Request().Context(), actor, c.Param("parcelId"), req)
	if err != nil {
		return h.respondError(c, err, "Failed to update parcel status")
	}
	return c.JSON(http.StatusOK, parcel)
}

func (h *Handler) AssignCourier(c echo.Context) error {
	// Role check is done in middleware, the service re-checks via the policy.
	actor := middleware.ActorFromContext(c)

	parcel, err := h.svc.AssignCourier(c.Request().Context(), actor, c.Param("parcelId"))
	if err != nil {
		return h.respondError(c, err, "Failed to assign parcel")
	}
	return c.JSON(http.StatusOK, parcel)
}

func (h *Handler) Track(c echo.Context) error {
	info, err := h.svc.Track(c.Request().Context(), c.Param("trackingId"))
	if err != nil {
		return h.respondError(c, err, "Failed to track parcel")
	}
	return c.JSON(http.StatusOK, info)
}

func (h *Handler) Search(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	filter := models.ParcelSearchFilter{
		TrackingID:    c.QueryParam("tracking_id"),
		Status:        c.QueryParam("status"),
		RecipientName: c.QueryParam("recipient_name"),
	}
	parcels, err := h.svc.Search(c.Request().Context(), actor, filter)
	if err != nil {
		return h.respondError(c, err, "Failed to search parcels")
	}
	if parcels == nil {
		parcels = []*models.Parcel{}
	}
	return c.JSON(http.StatusOK, parcels)
}

func (h *Handler) ListByStatus(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	parcels, err := h.svc.Search(c.Request().Context(), actor, models.ParcelSearchFilter{Status: c.Param("status")})
	if err != nil {
		return h.respondError(c, err, "Failed to list parcels by status")
	}
	if parcels == nil {
		parcels = []*models.Parcel{}
	}
	return c.JSON(http.StatusOK, parcels)
}

// respondError maps domain errors onto HTTP statuses; anything unexpected is
// logged and reported as a 500 with the given fallback message.
func (h *Handler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Parcel not found"})
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrValidation):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrConflict):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrUpstream):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: err.Error()})
	default:
		c.Logger().Error("parcel handler: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
	}
}
