package pickup

import (
	"errors"
	"fmt"
	"net/http"

	"fasttrack-courier/internal/middleware"
	"fasttrack-courier/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for pickup requests and their parcel
// memberships.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new pickup-request handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the pickup-request routes. Approve/reject/complete and
// the pending queue are admin-only.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	g := e.Group("/pickup-requests", authMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:requestId", h.Get)
	g.DELETE("/:requestId", h.Delete)
	g.GET("/:requestId/parcels", h.ListParcels)
	g.POST("/:requestId/parcels", h.AttachParcels)

	e.GET("/merchants/parcels/available", h.AvailableParcels, authMW)

	admin := e.Group("/admin/pickup-requests", authMW, adminMW)
	admin.GET("/pending", h.ListPending)
	admin.PATCH("/:requestId/approve", h.Approve)
	admin.PATCH("/:requestId/reject", h.Reject)
	admin.PATCH("/:requestId/complete", h.Complete)
}

func (h *Handler) Create(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.CreatePickupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	request, err := h.svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return h.respondError(c, err, "Failed to create pickup request")
	}

	return c.JSON(http.StatusCreated, request)
}

func (h *Handler) List(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	requests, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve pickup requests")
	}
	if requests == nil {
		requests = []*models.PickupRequest{}
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) Get(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	request, err := h.svc.Get(c.Request().Context(), actor, c.Param("requestId"))
	if err != nil {
		return h.respondError(c, err, "Failed to retrieve pickup request")
	}
	return c.JSON(http.StatusOK, request)
}

func (h *Handler) Delete(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("requestId")); err != nil {
		return h.respondError(c, err, "Failed to delete pickup request")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Pickup request deleted successfully"})
}

func (h *Handler) ListParcels(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	parcels, err := h.svc.ListRequestParcels(c.Request().Context(), actor, c.Param("requestId"))
	if err != nil {
		return h.respondError(c, err, "Failed to list pickup request parcels")
	}
	if parcels == nil {
		parcels = []*models.Parcel{}
	}
	return c.JSON(http.StatusOK, parcels)
}

func (h *Handler) AttachParcels(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.AttachParcelsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	if err := h.svc.AttachParcels(c.Request().Context(), actor, c.Param("requestId"), req.ParcelIDs); err != nil {
		return h.respondError(c, err, "Failed to attach parcels")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Added %d parcels to pickup request", len(req.ParcelIDs)),
	})
}

func (h *Handler) AvailableParcels(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	parcels, err := h.svc.AvailableParcels(c.Request().Context(), actor)
	if err != nil {
		return h.respondError(c, err, "Failed to list available parcels")
	}
	if parcels == nil {
		parcels = []*models.Parcel{}
	}
	return c.JSON(http.StatusOK, parcels)
}

func (h *Handler) ListPending(c echo.Context) error {
	// Role check is done in middleware
	requests, err := h.svc.ListPending(c.Request().Context())
	if err != nil {
		return h.respondError(c, err, "Failed to list pending pickup requests")
	}
	if requests == nil {
		requests = []*models.PickupRequest{}
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) Approve(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.ApprovePickupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}

	request, err := h.svc.Approve(c.Request().Context(), actor, c.Param("requestId"), req)
	if err != nil {
		return h.respondError(c, err, "Failed to approve pickup request")
	}
	return c.JSON(http.StatusOK, request)
}

func (h *Handler) Reject(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	var req models.RejectPickupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	request, err := h.svc.Reject(c.Request().Context(), actor, c.Param("requestId"), req)
	if err != nil {
		return h.respondError(c, err, "Failed to reject pickup request")
	}
	return c.JSON(http.StatusOK, request)
}

func (h *Handler) Complete(c echo.Context) error {
	actor := middleware.ActorFromContext(c)

	request, err := h.svc.Complete(c.Request().Context(), actor, c.Param("requestId"))
	if err != nil {
		return h.respondError(c, err, "Failed to complete pickup request")
	}
	return c.JSON(http.StatusOK, request)
}

// respondError maps domain errors onto HTTP statuses; anything unexpected is
// logged and reported as a 500 with the given fallback message.
func (h *Handler) respondError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrForbidden):
		return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrValidation):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrConflict):
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrUpstream):
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{Message: err.Error()})
	default:
		c.Logger().Error("pickup handler: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: fallback})
	}
}
