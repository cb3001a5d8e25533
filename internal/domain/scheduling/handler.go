package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/washbay/washbay/internal/domain/billing"
	"github.com/washbay/washbay/internal/domain/catalog"
	"github.com/washbay/washbay/internal/domain/clients"
	"github.com/washbay/washbay/internal/domain/staff"
	"github.com/washbay/washbay/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/availability", h.Availability)
	g.POST("/appointments", h.Book)
	g.GET("/appointments", h.List)
	g.GET("/appointments/:id", h.Get)
	g.PUT("/appointments/:id/reschedule", h.Reschedule)
	g.PUT("/appointments/:id/status", h.UpdateStatus)
	g.DELETE("/appointments/:id", h.Cancel)
}

// GET /availability?service_id=...&date=YYYY-MM-DD&worker_id=...
func (h *Handler) Availability(c echo.Context) error {
	serviceID, err := uuid.Parse(c.QueryParam("service_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or missing service_id")
	}
	date, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	var workerID *uuid.UUID
	if raw := c.QueryParam("worker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid worker_id")
		}
		workerID = &id
	}

	out, err := h.svc.Availability(c.Request().Context(), serviceID, date, workerID)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, out)
}

type bookPayload struct {
	ServiceID uuid.UUID  `json:"service_id"`
	ClientID  uuid.UUID  `json:"client_id"`
	StartTime time.Time  `json:"start_time"`
	WorkerID  *uuid.UUID `json:"worker_id,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// POST /appointments
func (h *Handler) Book(c echo.Context) error {
	var payload bookPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if payload.ServiceID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "service_id is required")
	}
	if payload.ClientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "client_id is required")
	}

	res, err := h.svc.Book(c.Request().Context(), BookRequest{
		ServiceID: payload.ServiceID,
		ClientID:  payload.ClientID,
		StartTime: payload.StartTime,
		WorkerID:  payload.WorkerID,
		Notes:     payload.Notes,
	})
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

// GET /appointments?date=YYYY-MM-DD&worker_id=...&client_id=...&status=...
func (h *Handler) List(c echo.Context) error {
	var f ListFilter
	if raw := c.QueryParam("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		f.Date = &date
	}
	if raw := c.QueryParam("worker_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid worker_id")
		}
		f.WorkerID = &id
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		f.ClientID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		if !ValidStatus(raw) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		f.Status = raw
	}

	p := pagination.FromContext(c)
	appts, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, p.Limit, p.Offset))
}

// GET /appointments/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type reschedulePayload struct {
	StartTime time.Time  `json:"start_time"`
	WorkerID  *uuid.UUID `json:"worker_id,omitempty"`
}

// PUT /appointments/:id/reschedule
func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var payload reschedulePayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	appt, err := h.svc.Reschedule(c.Request().Context(), id, payload.StartTime, payload.WorkerID)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type statusPayload struct {
	Status string `json:"status"`
}

// PUT /appointments/:id/status
func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	var appt *Appointment
	if payload.Status == StatusCancelled {
		appt, err = h.svc.Cancel(c.Request().Context(), id)
	} else {
		appt, err = h.svc.UpdateStatus(c.Request().Context(), id, payload.Status)
	}
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

// DELETE /appointments/:id cancels the appointment; booking history is kept.
func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	appt, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

// mapError translates service failures into HTTP responses. Capacity
// exhaustion is a client-visible 400 with the conflict count; serialization
// failures surface as 409 so clients know to retry.
func (h *Handler) mapError(err error) error {
	var ve *ValidationError
	var na *NoAvailabilityError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.As(err, &na):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":     na.Reason,
			"conflicts": na.Conflicts,
		})
	case errors.Is(err, ErrConcurrencyConflict):
		return echo.NewHTTPError(http.StatusConflict, ErrConcurrencyConflict.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, staff.ErrNotFound),
		errors.Is(err, clients.ErrNotFound),
		errors.Is(err, billing.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	default:
		return err
	}
}
