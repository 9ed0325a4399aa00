package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/events"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/zone"
)

// HandoverService records the physical pickup/return exchange and drives the
// matching booking and vehicle transitions.
type HandoverService struct {
	BookingRepo repositories.BookingRepo
	VehicleRepo repositories.VehicleRepo
	Events      *events.Publisher
	DB          *sql.DB
	Now         func() time.Time
}

func (s HandoverService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s HandoverService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type HandoverInput struct {
	VerificationCode string   `json:"verification_code"`
	Odometer         int64    `json:"odometer"`
	FuelLevel        string   `json:"fuel_level"`
	ConditionNotes   string   `json:"condition_notes"`
	DamageNotes      string   `json:"damage_notes"`
	Photos           []string `json:"photos"`
	SignatureURL     string   `json:"signature_url"`
}

// ProcessPickup is legal only on a confirmed booking: it consumes the pickup
// code, activates the booking and moves the vehicle to rented.
func (s HandoverService) ProcessPickup(ctx context.Context, actor domain.Actor, bookingID int64, in HandoverInput) (models.Handover, error) {
	booking, vehicle, err := s.loadAndGuard(actor, bookingID)
	if err != nil {
		return models.Handover{}, err
	}
	if booking.BookingStatus != domain.BookingConfirmed {
		return models.Handover{}, domain.ConflictError{Resource: "booking", Msg: "pickup requires a confirmed booking"}
	}

	now := s.now()
	tx, err := s.db().Begin()
	if err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := s.BookingRepo.ConsumeVerificationCode(tx, bookingID, models.HandoverPickup, strings.TrimSpace(in.VerificationCode)); err != nil {
		return models.Handover{}, err
	}
	if err := s.BookingRepo.UpdateStatus(tx, bookingID, domain.BookingConfirmed, domain.BookingActive, ""); err != nil {
		return models.Handover{}, err
	}
	if err := s.BookingRepo.StampActualStart(tx, bookingID, now); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	if err := s.VehicleRepo.MarkRented(tx, vehicle.ID, bookingID); err != nil {
		return models.Handover{}, err
	}

	handover := models.Handover{
		BookingID:      bookingID,
		Kind:           models.HandoverPickup,
		WorkerID:       actor.UserID,
		Odometer:       in.Odometer,
		FuelLevel:      in.FuelLevel,
		ConditionNotes: in.ConditionNotes,
		Photos:         in.Photos,
		SignatureURL:   in.SignatureURL,
	}
	handoverID, err := s.BookingRepo.SaveHandover(tx, handover)
	if err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	if in.Odometer > 0 {
		if err := s.VehicleRepo.UpdateOdometer(tx, vehicle.ID, in.Odometer); err != nil {
			return models.Handover{}, domain.InternalError{Err: err}
		}
	}
	if err := s.BookingRepo.AppendStatusHistory(tx, models.StatusHistoryEntry{
		BookingID:  bookingID,
		FromStatus: domain.BookingConfirmed,
		ToStatus:   domain.BookingActive,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Reason:     "pickup handover",
	}); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}

	handover.ID = handoverID
	handover.CreatedAt = now
	s.Events.PublishStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:   bookingID,
		BookingCode: booking.BookingCode,
		VehicleID:   vehicle.ID,
		FromStatus:  domain.BookingConfirmed,
		ToStatus:    domain.BookingActive,
		ActorID:     actor.UserID,
	})
	return handover, nil
}

// ProcessReturn is legal only on an active booking: it consumes the drop
// code, completes the booking and frees the vehicle.
func (s HandoverService) ProcessReturn(ctx context.Context, actor domain.Actor, bookingID int64, in HandoverInput) (models.Handover, error) {
	booking, vehicle, err := s.loadAndGuard(actor, bookingID)
	if err != nil {
		return models.Handover{}, err
	}
	if booking.BookingStatus != domain.BookingActive {
		return models.Handover{}, domain.ConflictError{Resource: "booking", Msg: "return requires an active booking"}
	}

	now := s.now()
	tx, err := s.db().Begin()
	if err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := s.BookingRepo.ConsumeVerificationCode(tx, bookingID, models.HandoverReturn, strings.TrimSpace(in.VerificationCode)); err != nil {
		return models.Handover{}, err
	}
	if err := s.BookingRepo.UpdateStatus(tx, bookingID, domain.BookingActive, domain.BookingCompleted, ""); err != nil {
		return models.Handover{}, err
	}
	if err := s.BookingRepo.StampActualEnd(tx, bookingID, now); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	if err := s.VehicleRepo.Release(tx, vehicle.ID); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}

	handover := models.Handover{
		BookingID:      bookingID,
		Kind:           models.HandoverReturn,
		WorkerID:       actor.UserID,
		Odometer:       in.Odometer,
		FuelLevel:      in.FuelLevel,
		ConditionNotes: in.ConditionNotes,
		DamageNotes:    in.DamageNotes,
		Photos:         in.Photos,
		SignatureURL:   in.SignatureURL,
	}
	handoverID, err := s.BookingRepo.SaveHandover(tx, handover)
	if err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	if in.Odometer > 0 {
		if err := s.VehicleRepo.UpdateOdometer(tx, vehicle.ID, in.Odometer); err != nil {
			return models.Handover{}, domain.InternalError{Err: err}
		}
	}
	if strings.TrimSpace(in.DamageNotes) != "" {
		if err := s.VehicleRepo.AddDamageReport(tx, models.DamageReport{
			VehicleID: vehicle.ID,
			BookingID: bookingID,
			Notes:     in.DamageNotes,
			Photos:    in.Photos,
		}); err != nil {
			return models.Handover{}, domain.InternalError{Err: err}
		}
	}
	if err := s.BookingRepo.AppendStatusHistory(tx, models.StatusHistoryEntry{
		BookingID:  bookingID,
		FromStatus: domain.BookingActive,
		ToStatus:   domain.BookingCompleted,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Reason:     "return handover",
	}); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Handover{}, domain.InternalError{Err: err}
	}

	handover.ID = handoverID
	handover.CreatedAt = now
	s.Events.PublishStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:   bookingID,
		BookingCode: booking.BookingCode,
		VehicleID:   vehicle.ID,
		FromStatus:  domain.BookingActive,
		ToStatus:    domain.BookingCompleted,
		ActorID:     actor.UserID,
	})
	return handover, nil
}

// loadAndGuard fetches booking+vehicle and applies the zone guard against
// the vehicle's stored zone, never the caller's claim.
func (s HandoverService) loadAndGuard(actor domain.Actor, bookingID int64) (models.Booking, models.Vehicle, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, models.Vehicle{}, err
	}
	vehicle, err := s.VehicleRepo.GetByID(booking.VehicleID)
	if err != nil {
		return models.Booking{}, models.Vehicle{}, err
	}
	if err := zone.Authorize(actor, vehicle.ZoneCode); err != nil {
		return models.Booking{}, models.Vehicle{}, err
	}
	return booking, vehicle, nil
}
