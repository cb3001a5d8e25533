package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/washbay/washbay/internal/domain/billing"
	"github.com/washbay/washbay/internal/domain/catalog"
	"github.com/washbay/washbay/internal/domain/clients"
	"github.com/washbay/washbay/internal/domain/settings"
	"github.com/washbay/washbay/internal/domain/staff"
	"github.com/washbay/washbay/internal/platform/db"
	"github.com/washbay/washbay/internal/platform/metrics"
)

// Notifier dispatches booking messages without blocking the caller.
// notify.Dispatcher satisfies it; a nil Notifier disables notifications.
type Notifier interface {
	SendTemplateAsync(templateID string, data map[string]string, recipient string)
}

// Service orchestrates booking: it validates input, resolves a worker when
// needed, and runs the reservation check plus the writes inside one
// serializable transaction.
type Service struct {
	repo        Repository
	coordinator *Coordinator
	catalog     *catalog.Svc
	staff       *staff.Service
	clients     *clients.Service
	settings    *settings.Service
	billing     *billing.Service
	tx          db.TxRunner
	notifier    Notifier
	logger      zerolog.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewService(
	repo Repository,
	catalogSvc *catalog.Svc,
	staffSvc *staff.Service,
	clientsSvc *clients.Service,
	settingsSvc *settings.Service,
	billingSvc *billing.Service,
	tx db.TxRunner,
	notifier Notifier,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		coordinator: NewCoordinator(repo),
		catalog:     catalogSvc,
		staff:       staffSvc,
		clients:     clientsSvc,
		settings:    settingsSvc,
		billing:     billingSvc,
		tx:          tx,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// BookRequest is a booking attempt.
type BookRequest struct {
	ServiceID uuid.UUID
	ClientID  uuid.UUID
	StartTime time.Time
	WorkerID  *uuid.UUID
	Notes     *string
}

// BookingResult is a committed booking: the appointment plus its initial
// pending payment.
type BookingResult struct {
	Appointment *Appointment     `json:"appointment"`
	Payment     *billing.Payment `json:"payment"`
}

// Availability computes the bookable slots for a service on a date.
// Read-only and advisory: the answer can go stale the moment it is produced,
// which is why Book re-validates inside its transaction.
func (s *Service) Availability(ctx context.Context, serviceID uuid.UUID, date time.Time, workerID *uuid.UUID) (*DayAvailability, error) {
	metrics.IncAvailabilityRequest()

	svc, err := s.catalog.Get(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if workerID != nil {
		if _, err := s.staff.Get(ctx, *workerID); err != nil {
			return nil, err
		}
	}

	dayStart, dayEnd := DayWindow(date)
	existing, err := s.repo.ListActiveForDay(ctx, dayStart, dayEnd, nil)
	if err != nil {
		return nil, err
	}

	out := ComputeAvailability(date, svc.ID, svc.DurationMin, cfg, existing, workerID, s.now())
	return &out, nil
}

// Book reserves a slot and creates the appointment and its pending payment
// as one atomic unit.
func (s *Service) Book(ctx context.Context, req BookRequest) (*BookingResult, error) {
	if req.StartTime.IsZero() {
		return nil, newValidationError("start_time is required")
	}

	svc, err := s.catalog.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.DurationMin <= 0 {
		return nil, newValidationError("service duration must be positive")
	}
	client, err := s.clients.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.checkWindow(req.StartTime, svc.DurationMin, cfg); err != nil {
		return nil, err
	}

	workerID := req.WorkerID
	if workerID != nil {
		if _, err := s.staff.Get(ctx, *workerID); err != nil {
			return nil, err
		}
	} else if cfg.MultiWorkerEnabled {
		workerID, err = s.resolveWorker(ctx, req.StartTime, svc.DurationMin, cfg)
		if err != nil {
			return nil, err
		}
	}

	resource := PoolResource()
	if cfg.MultiWorkerEnabled && workerID != nil {
		resource = WorkerResource(*workerID)
	}

	appt := &Appointment{
		StartTime:   req.StartTime,
		DurationMin: svc.DurationMin,
		WorkerID:    workerID,
		Status:      StatusScheduled,
		ClientID:    client.ID,
		ServiceID:   svc.ID,
		Notes:       req.Notes,
	}
	var payment *billing.Payment

	err = s.tx.RunSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.coordinator.Reserve(txCtx, ReservationRequest{
			Start:         req.StartTime,
			DurationMin:   svc.DurationMin,
			Resource:      resource,
			MaxConcurrent: cfg.Capacity(),
		})
		if err != nil {
			return err
		}
		if !res.OK {
			return &NoAvailabilityError{Reason: res.Reason, Conflicts: res.Conflicts}
		}
		if err := s.repo.Create(txCtx, appt); err != nil {
			return err
		}
		payment, err = s.billing.CreatePending(txCtx, appt.ID, svc.Price)
		return err
	})
	if err != nil {
		return nil, s.mapReserveError(err)
	}

	mode := "pool"
	if !resource.IsPool() {
		mode = "worker"
	}
	metrics.IncAppointmentBooked(mode)
	s.notifyClient(client, "appointment-confirmed", svc.Name, appt.StartTime)

	return &BookingResult{Appointment: appt, Payment: payment}, nil
}

// Reschedule moves an appointment to a new start time and optionally a new
// worker, re-running the capacity check with the appointment excluded from
// its own count.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart time.Time, workerID *uuid.UUID) (*Appointment, error) {
	if newStart.IsZero() {
		return nil, newValidationError("start_time is required")
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appt.Active() {
		return nil, newValidationError("cannot reschedule a cancelled appointment")
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.checkWindow(newStart, appt.DurationMin, cfg); err != nil {
		return nil, err
	}

	if workerID != nil {
		if _, err := s.staff.Get(ctx, *workerID); err != nil {
			return nil, err
		}
	} else {
		workerID = appt.WorkerID
	}

	resource := PoolResource()
	if cfg.MultiWorkerEnabled && workerID != nil {
		resource = WorkerResource(*workerID)
	}

	err = s.tx.RunSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.coordinator.Reserve(txCtx, ReservationRequest{
			Start:                newStart,
			DurationMin:          appt.DurationMin,
			Resource:             resource,
			MaxConcurrent:        cfg.Capacity(),
			ExcludeAppointmentID: &appt.ID,
		})
		if err != nil {
			return err
		}
		if !res.OK {
			return &NoAvailabilityError{Reason: res.Reason, Conflicts: res.Conflicts}
		}
		appt.StartTime = newStart
		appt.WorkerID = workerID
		return s.repo.Update(txCtx, appt)
	})
	if err != nil {
		return nil, s.mapReserveError(err)
	}

	s.notifyAppointment(ctx, appt, "appointment-rescheduled")
	return appt, nil
}

// UpdateStatus moves an appointment along scheduled → in_progress →
// delivered. Cancellation goes through Cancel.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, newValidationError("invalid appointment status: %s", status)
	}
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(appt.Status, status) {
		return nil, newValidationError("cannot transition appointment from %s to %s", appt.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	appt.Status = status
	metrics.IncAppointmentStatusChanged(status)
	return appt, nil
}

// Cancel marks the appointment cancelled and voids its pending payments in
// one transaction. Cancelled appointments immediately stop counting toward
// capacity.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(appt.Status, StatusCancelled) {
		return nil, newValidationError("cannot cancel appointment in status %s", appt.Status)
	}

	err = s.tx.RunSerializable(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateStatus(txCtx, id, StatusCancelled); err != nil {
			return err
		}
		return s.billing.VoidForAppointment(txCtx, id)
	})
	if err != nil {
		return nil, s.mapReserveError(err)
	}

	appt.Status = StatusCancelled
	metrics.IncAppointmentCancelled()
	s.notifyAppointment(ctx, appt, "appointment-cancelled")
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// resolveWorker picks a candidate worker for auto-assignment. The selection
// is advisory; the Coordinator re-validates it inside the transaction.
func (s *Service) resolveWorker(ctx context.Context, start time.Time, durationMin int, cfg *settings.ScheduleConfig) (*uuid.UUID, error) {
	workers, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(workers) == 0 {
		// No roster: fall back to the shared pool.
		return nil, nil
	}

	dayStart, dayEnd := DayWindow(start)
	existing, err := s.repo.ListActiveForDay(ctx, dayStart, dayEnd, nil)
	if err != nil {
		return nil, err
	}

	w := PickWorker(start, durationMin, workers, existing, cfg.Capacity())
	if w == nil {
		return nil, &NoAvailabilityError{Reason: "no worker is free for the requested time"}
	}
	id := w.ID
	return &id, nil
}

// checkWindow validates the requested window against the schedule config.
func (s *Service) checkWindow(start time.Time, durationMin int, cfg *settings.ScheduleConfig) error {
	if start.Minute()%int(SlotStep/time.Minute) != 0 || start.Second() != 0 || start.Nanosecond() != 0 {
		return newValidationError("start_time %s is not on the %d-minute slot grid",
			start.Format("15:04"), int(SlotStep/time.Minute))
	}
	dateStr := start.Format("2006-01-02")
	if !cfg.IsWorkDay(start.Weekday()) || cfg.IsClosedDate(dateStr) {
		return &NoAvailabilityError{Reason: "the wash is closed on this date"}
	}
	workStart, workEnd := WorkingWindow(start, cfg.WorkStartHour, cfg.WorkEndHour)
	if start.Before(workStart) {
		return newValidationError("start_time %s is before opening at %s", start.Format("15:04"), workStart.Format("15:04"))
	}
	end := start.Add(time.Duration(durationMin) * time.Minute)
	if end.After(workEnd) {
		return newValidationError("service would run past closing at %s", workEnd.Format("15:04"))
	}
	return nil
}

// mapReserveError translates transaction-layer failures into the booking
// error taxonomy and records the rejection.
func (s *Service) mapReserveError(err error) error {
	var na *NoAvailabilityError
	switch {
	case errors.As(err, &na):
		metrics.IncReservationRejected(metrics.ReasonNoAvailability)
		return err
	case errors.Is(err, db.ErrTxConflict), errors.Is(err, db.ErrTxTimeout):
		metrics.IncReservationRejected(metrics.ReasonConflict)
		s.logger.Warn().Err(err).Msg("reservation transaction conflict")
		return fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
	default:
		return err
	}
}

func (s *Service) notifyClient(client *clients.Client, template, serviceName string, start time.Time) {
	if s.notifier == nil || client == nil {
		return
	}
	recipient := ""
	if client.Email != nil {
		recipient = *client.Email
	} else if client.Phone != nil {
		recipient = *client.Phone
	}
	s.notifier.SendTemplateAsync(template, map[string]string{
		"client_name": client.FullName,
		"service":     serviceName,
		"date":        start.Format("2006-01-02"),
		"time":        start.Format("15:04"),
	}, recipient)
}

func (s *Service) notifyAppointment(ctx context.Context, appt *Appointment, template string) {
	if s.notifier == nil {
		return
	}
	client, err := s.clients.Get(ctx, appt.ClientID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("loading client for notification")
		return
	}
	serviceName := ""
	if svc, err := s.catalog.Get(ctx, appt.ServiceID); err == nil {
		serviceName = svc.Name
	}
	s.notifyClient(client, template, serviceName, appt.StartTime)
}
