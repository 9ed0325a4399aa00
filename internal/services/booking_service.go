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
	"rentalbackend/internal/gateway"
	"rentalbackend/internal/logger"
	"rentalbackend/internal/pricing"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/utils"
	"rentalbackend/internal/zone"
)

// BookingService drives the booking state machine and coordinates vehicle
// reservation with pricing and payment capture.
type BookingService struct {
	BookingRepo repositories.BookingRepo
	VehicleRepo repositories.VehicleRepo
	UserRepo    repositories.UserRepo
	Gateway     gateway.PaymentGateway
	CashGateway gateway.PaymentGateway
	Events      *events.Publisher
	Tiers       pricing.TierConfig
	DB          *sql.DB
	Now         func() time.Time
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) tiers() pricing.TierConfig {
	if s.Tiers.WeekThresholdDays > 0 {
		return s.Tiers
	}
	return pricing.DefaultTiers()
}

func (s BookingService) cashGateway() gateway.PaymentGateway {
	if s.CashGateway != nil {
		return s.CashGateway
	}
	return gateway.OfflineGateway{}
}

type CreateBookingInput struct {
	VehicleID     int64     `json:"vehicle_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Helmet        bool      `json:"helmet"`
	Insurance     bool      `json:"insurance"`
	AdvanceAmount int64     `json:"advance_amount"`
	PaymentMethod string    `json:"payment_method"` // cash | online

	// Walk-in fields; only honored for worker-created bookings.
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`

	// Optional caller-declared zone, cross-checked against the vehicle.
	ZoneCode string `json:"zone_code"`
}

// CreateBooking validates, prices, reserves and persists a booking in one
// transaction, then captures the advance. A capture failure triggers a
// compensating cancel+release so no vehicle stays reserved without a live
// booking.
func (s BookingService) CreateBooking(ctx context.Context, actor domain.Actor, in CreateBookingInput) (models.Booking, error) {
	if in.VehicleID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "vehicle_id", Msg: "required"}
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return models.Booking{}, domain.ValidationError{Field: "window", Msg: "start_time and end_time are required"}
	}
	if !in.EndTime.After(in.StartTime) {
		return models.Booking{}, domain.ValidationError{Field: "window", Msg: "return must be after pickup"}
	}

	vehicle, err := s.VehicleRepo.GetByID(in.VehicleID)
	if err != nil {
		return models.Booking{}, err
	}

	renterID := actor.UserID
	var workerID *int64
	if actor.IsWorker() {
		if err := zone.Authorize(actor, vehicle.ZoneCode); err != nil {
			return models.Booking{}, err
		}
		if err := zone.CheckDeclared(in.ZoneCode, vehicle.ZoneCode); err != nil {
			return models.Booking{}, err
		}
		guestID, err := s.UserRepo.FindOrCreateGuestByPhone(in.GuestName, in.GuestPhone)
		if err != nil {
			return models.Booking{}, err
		}
		renterID = guestID
		id := actor.UserID
		workerID = &id
	}
	if renterID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "user", Msg: "missing renter"}
	}

	quote, err := pricing.Compute(vehicle.Rates, s.tiers(), in.StartTime, in.EndTime, pricing.Extras{
		Helmet:    in.Helmet,
		Insurance: in.Insurance,
	})
	if err != nil {
		return models.Booking{}, err
	}

	advance := in.AdvanceAmount
	if advance == 0 && vehicle.Deposit.RequiredPercent > 0 {
		advance = quote.TotalAmount * vehicle.Deposit.RequiredPercent / 100
	}
	if advance < 0 || advance > quote.TotalAmount {
		return models.Booking{}, domain.ValidationError{Field: "advance_amount", Msg: "must be between 0 and total"}
	}

	status := domain.BookingConfirmed
	if vehicle.RequireConfirmation {
		status = domain.BookingPending
	}

	now := s.now()
	booking := models.Booking{
		BookingCode:   utils.NewBookingCode(now),
		UserID:        renterID,
		VehicleID:     vehicle.ID,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		BookingStatus: status,
		PaymentStatus: models.PaymentPending,
		TotalAmount:   quote.TotalAmount,
		AdvanceAmount: advance,
		PendingAmount: quote.TotalAmount - advance,
		Helmet:        in.Helmet,
		Insurance:     in.Insurance,
		PickupCode:    utils.NewVerificationCode(),
		DropCode:      utils.NewVerificationCode(),

		CreatedByWorkerID: workerID,
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	bookingID, err := s.BookingRepo.Create(tx, booking)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	booking.ID = bookingID

	if err := s.VehicleRepo.Reserve(tx, vehicle.ID, bookingID, domain.VehicleReserved); err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.AppendStatusHistory(tx, models.StatusHistoryEntry{
		BookingID: bookingID,
		ToStatus:  status,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Reason:    "booking created",
	}); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if advance > 0 {
		if err := s.captureAdvance(ctx, actor, &booking, in.PaymentMethod); err != nil {
			return models.Booking{}, err
		}
	}

	s.Events.PublishStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		VehicleID:   booking.VehicleID,
		ToStatus:    status,
		ActorID:     actor.UserID,
	})
	return s.BookingRepo.GetByID(booking.ID)
}

// captureAdvance runs the payment collaborator. On failure it compensates:
// cancel the booking and release the vehicle before surfacing the error.
func (s BookingService) captureAdvance(ctx context.Context, actor domain.Actor, b *models.Booking, method string) error {
	gw := s.Gateway
	if strings.EqualFold(method, models.PaymentMethodCash) {
		gw = s.cashGateway()
	}
	if gw == nil {
		gw = s.cashGateway()
	}

	ref, err := gw.Capture(ctx, b.BookingCode, b.AdvanceAmount)
	if err != nil {
		logger.WithFields(map[string]any{
			"booking_id": b.ID,
			"amount":     b.AdvanceAmount,
		}).Warnf("advance capture failed, compensating: %v", err)
		s.compensateFailedCapture(actor, b)
		return err
	}

	payMethod := models.PaymentMethodOnline
	if strings.EqualFold(method, models.PaymentMethodCash) {
		payMethod = models.PaymentMethodCash
	}
	if _, err := s.BookingRepo.AddPayment(nil, models.Payment{
		BookingID:  b.ID,
		Amount:     b.AdvanceAmount,
		Method:     payMethod,
		Status:     models.PaymentSuccess,
		GatewayRef: ref,
		PaidAt:     s.now(),
	}); err != nil {
		return domain.InternalError{Err: err}
	}
	return s.BookingRepo.SetPaymentStatus(nil, b.ID, "advance_paid")
}

func (s BookingService) compensateFailedCapture(actor domain.Actor, b *models.Booking) {
	if err := s.BookingRepo.UpdateStatus(nil, b.ID, b.BookingStatus, domain.BookingCancelled, "advance capture failed"); err != nil {
		logger.WithFields(map[string]any{"booking_id": b.ID}).Errorf("compensating cancel failed: %v", err)
		return
	}
	_ = s.BookingRepo.AppendStatusHistory(nil, models.StatusHistoryEntry{
		BookingID:  b.ID,
		FromStatus: b.BookingStatus,
		ToStatus:   domain.BookingCancelled,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Reason:     "advance capture failed",
	})
	if err := s.VehicleRepo.Release(nil, b.VehicleID); err != nil {
		logger.WithFields(map[string]any{"vehicle_id": b.VehicleID}).Errorf("compensating release failed: %v", err)
	}
}

// UpdateStatus applies one legal transition with an audit row. Cancelling a
// booking that still holds its vehicle releases it.
func (s BookingService) UpdateStatus(ctx context.Context, actor domain.Actor, bookingID int64, newStatus, reason string) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	vehicle, err := s.VehicleRepo.GetByID(booking.VehicleID)
	if err != nil {
		return models.Booking{}, err
	}
	if actor.IsWorker() {
		if err := zone.Authorize(actor, vehicle.ZoneCode); err != nil {
			return models.Booking{}, err
		}
	}
	if !domain.CanTransitionBooking(booking.BookingStatus, newStatus) {
		return models.Booking{}, domain.ConflictError{
			Resource: "booking",
			Msg:      "illegal transition " + booking.BookingStatus + " -> " + newStatus,
		}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := s.BookingRepo.UpdateStatus(tx, bookingID, booking.BookingStatus, newStatus, reason); err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.AppendStatusHistory(tx, models.StatusHistoryEntry{
		BookingID:  bookingID,
		FromStatus: booking.BookingStatus,
		ToStatus:   newStatus,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Reason:     reason,
	}); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if newStatus == domain.BookingCancelled && vehicle.CurrentBookingID != nil && *vehicle.CurrentBookingID == bookingID {
		if err := s.VehicleRepo.Release(tx, booking.VehicleID); err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	s.Events.PublishStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:   bookingID,
		BookingCode: booking.BookingCode,
		VehicleID:   booking.VehicleID,
		FromStatus:  booking.BookingStatus,
		ToStatus:    newStatus,
		ActorID:     actor.UserID,
	})
	return s.BookingRepo.GetByID(bookingID)
}

// MarkReturned completes an active booking against its drop verification
// code and frees the vehicle. Replaying a consumed code fails without
// touching vehicle state.
func (s BookingService) MarkReturned(ctx context.Context, actor domain.Actor, bookingID int64, code, condition, damageNotes string) (models.Booking, error) {
	if strings.TrimSpace(code) == "" {
		return models.Booking{}, domain.ValidationError{Field: "verification_code", Msg: "required"}
	}
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	vehicle, err := s.VehicleRepo.GetByID(booking.VehicleID)
	if err != nil {
		return models.Booking{}, err
	}
	if actor.IsWorker() {
		if err := zone.Authorize(actor, vehicle.ZoneCode); err != nil {
			return models.Booking{}, err
		}
	}
	if booking.BookingStatus != domain.BookingActive {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "not active"}
	}

	now := s.now()
	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if err := s.BookingRepo.ConsumeVerificationCode(tx, bookingID, models.HandoverReturn, strings.TrimSpace(code)); err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.UpdateStatus(tx, bookingID, domain.BookingActive, domain.BookingCompleted, condition); err != nil {
		return models.Booking{}, err
	}
	if err := s.BookingRepo.StampActualEnd(tx, bookingID, now); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.BookingRepo.AppendStatusHistory(tx, models.StatusHistoryEntry{
		BookingID:  bookingID,
		FromStatus: domain.BookingActive,
		ToStatus:   domain.BookingCompleted,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Reason:     "vehicle returned",
	}); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if err := s.VehicleRepo.Release(tx, booking.VehicleID); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if strings.TrimSpace(damageNotes) != "" {
		if err := s.VehicleRepo.AddDamageReport(tx, models.DamageReport{
			VehicleID: booking.VehicleID,
			BookingID: bookingID,
			Notes:     damageNotes,
		}); err != nil {
			return models.Booking{}, domain.InternalError{Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	s.Events.PublishStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:   bookingID,
		BookingCode: booking.BookingCode,
		VehicleID:   booking.VehicleID,
		FromStatus:  domain.BookingActive,
		ToStatus:    domain.BookingCompleted,
		ActorID:     actor.UserID,
	})
	return s.BookingRepo.GetByID(bookingID)
}

// GetBooking applies zone scoping for workers before returning a booking.
func (s BookingService) GetBooking(actor domain.Actor, bookingID int64) (models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if actor.IsWorker() {
		vehicle, err := s.VehicleRepo.GetByID(booking.VehicleID)
		if err != nil {
			return models.Booking{}, err
		}
		if err := zone.Authorize(actor, vehicle.ZoneCode); err != nil {
			return models.Booking{}, err
		}
	}
	return booking, nil
}
