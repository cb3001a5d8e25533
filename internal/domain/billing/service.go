package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreatePending inserts the initial pending payment for an appointment. The
// booking flow calls this inside the reservation transaction.
func (s *Service) CreatePending(ctx context.Context, appointmentID uuid.UUID, amount float64) (*Payment, error) {
	if appointmentID == uuid.Nil {
		return nil, fmt.Errorf("appointment_id is required")
	}
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	p := &Payment{AppointmentID: appointmentID, Amount: amount, Status: StatusPending}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Payment, error) {
	return s.repo.ListByAppointment(ctx, appointmentID)
}

// Transition moves a payment to a new status, enforcing the status machine.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string) (*Payment, error) {
	if !ValidStatus(to) {
		return nil, fmt.Errorf("invalid payment status: %s", to)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(p.Status, to) {
		return nil, fmt.Errorf("cannot transition payment from %s to %s", p.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	p.Status = to
	return p, nil
}

// VoidForAppointment voids every pending payment tied to an appointment.
// Called when the appointment is cancelled, inside the same transaction.
func (s *Service) VoidForAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	payments, err := s.repo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	for _, p := range payments {
		if p.Status != StatusPending {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, p.ID, StatusVoided); err != nil {
			return err
		}
	}
	return nil
}
