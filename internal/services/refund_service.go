package services

import (
	"context"
	"strings"
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/gateway"
	"rentalbackend/internal/logger"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/utils"
)

// RefundService tracks money moving back to renters. Ledger entries are the
// core's own; the gateway call is just the external money movement.
type RefundService struct {
	RefundRepo  repositories.RefundRepo
	BookingRepo repositories.BookingRepo
	Gateway     gateway.PaymentGateway
	// ProcessingFee in whole rupees, deducted from the approved amount.
	ProcessingFee int64
	// CompletionDays drives estimated_completion_date.
	CompletionDays int
	Now            func() time.Time
}

func (s RefundService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s RefundService) completionDays() int {
	if s.CompletionDays > 0 {
		return s.CompletionDays
	}
	return 5
}

type RefundRequestInput struct {
	BookingID       int64  `json:"booking_id"`
	RequestedAmount int64  `json:"requested_amount"`
	Reason          string `json:"reason"`
	Method          string `json:"method"`
}

// RequestRefund opens a pending refund, bounded by the booking's paid
// amount. approved_amount starts equal to requested_amount; the process
// step re-validates before any money moves.
func (s RefundService) RequestRefund(actor domain.Actor, in RefundRequestInput) (models.Refund, error) {
	if in.BookingID <= 0 {
		return models.Refund{}, domain.ValidationError{Field: "booking_id", Msg: "required"}
	}
	if in.RequestedAmount <= 0 {
		return models.Refund{}, domain.ValidationError{Field: "requested_amount", Msg: "must be positive"}
	}
	booking, err := s.BookingRepo.GetByID(in.BookingID)
	if err != nil {
		return models.Refund{}, err
	}
	paid, err := s.BookingRepo.SumSuccessfulPayments(in.BookingID)
	if err != nil {
		return models.Refund{}, domain.InternalError{Err: err}
	}
	if paid <= 0 {
		return models.Refund{}, domain.ValidationError{Field: "booking_id", Msg: "booking has no successful payments"}
	}
	if in.RequestedAmount > paid {
		return models.Refund{}, domain.ValidationError{Field: "requested_amount", Msg: "exceeds paid amount"}
	}

	approved := in.RequestedAmount
	final := approved - s.ProcessingFee
	if final < 0 {
		final = 0
	}
	if final > paid {
		return models.Refund{}, domain.ValidationError{Field: "requested_amount", Msg: "refund exceeds paid amount"}
	}

	now := s.now()
	estimated := now.AddDate(0, 0, s.completionDays())
	rf := models.Refund{
		RefundID:  utils.NewRefundID(),
		BookingID: booking.ID,
		UserID:    booking.UserID,
		VehicleID: booking.VehicleID,

		OriginalAmount:    paid,
		RequestedAmount:   in.RequestedAmount,
		ApprovedAmount:    approved,
		ProcessingFee:     s.ProcessingFee,
		FinalRefundAmount: final,

		Status: models.RefundPending,
		Reason: strings.TrimSpace(in.Reason),
		Method: strings.TrimSpace(in.Method),

		RequestedBy:             actor.UserID,
		RequestedAt:             now,
		EstimatedCompletionDate: &estimated,
	}
	id, err := s.RefundRepo.Create(rf)
	if err != nil {
		return models.Refund{}, domain.InternalError{Err: err}
	}
	rf.ID = id
	return rf, nil
}

type RefundProcessInput struct {
	Action         string `json:"action"` // process | complete | fail | cancel
	ApprovedAmount int64  `json:"approved_amount"`
}

// ProcessRefund walks the refund machine. The final-amount bound is
// re-checked before the processing transition so an operator edit can never
// push the payout past what was collected.
func (s RefundService) ProcessRefund(ctx context.Context, actor domain.Actor, refundID string, in RefundProcessInput) (models.Refund, error) {
	rf, err := s.RefundRepo.GetByRefundID(refundID)
	if err != nil {
		return models.Refund{}, err
	}
	now := s.now()

	switch strings.ToLower(strings.TrimSpace(in.Action)) {
	case "process":
		approved := rf.ApprovedAmount
		if in.ApprovedAmount > 0 {
			approved = in.ApprovedAmount
		}
		final := approved - rf.ProcessingFee
		if final < 0 {
			final = 0
		}
		if final > rf.OriginalAmount {
			return models.Refund{}, domain.ValidationError{Field: "approved_amount", Msg: "refund exceeds paid amount"}
		}
		if !models.CanTransitionRefund(rf.Status, models.RefundProcessing) {
			return models.Refund{}, domain.ConflictError{Resource: "refund", Msg: "not pending"}
		}
		if err := s.RefundRepo.SetAmounts(refundID, approved, rf.ProcessingFee, final, actor.UserID); err != nil {
			return models.Refund{}, domain.InternalError{Err: err}
		}
		if err := s.RefundRepo.TransitionStatus(refundID, rf.Status, models.RefundProcessing, actor.UserID, now); err != nil {
			return models.Refund{}, err
		}

	case "complete":
		if !models.CanTransitionRefund(rf.Status, models.RefundCompleted) {
			return models.Refund{}, domain.ConflictError{Resource: "refund", Msg: "not processing"}
		}
		gw := s.Gateway
		if gw == nil {
			gw = gateway.OfflineGateway{}
		}
		ref, err := gw.Refund(ctx, rf.RefundID, rf.FinalRefundAmount)
		if err != nil {
			logger.WithFields(map[string]any{"refund_id": rf.RefundID}).
				Warnf("gateway refund failed: %v", err)
			return models.Refund{}, err
		}
		if err := s.RefundRepo.TransitionStatus(refundID, rf.Status, models.RefundCompleted, actor.UserID, now); err != nil {
			return models.Refund{}, err
		}
		if err := s.RefundRepo.SetGatewayRef(refundID, ref); err != nil {
			return models.Refund{}, domain.InternalError{Err: err}
		}

	case "fail":
		if !models.CanTransitionRefund(rf.Status, models.RefundFailed) {
			return models.Refund{}, domain.ConflictError{Resource: "refund", Msg: "not processing"}
		}
		if err := s.RefundRepo.TransitionStatus(refundID, rf.Status, models.RefundFailed, actor.UserID, now); err != nil {
			return models.Refund{}, err
		}

	case "cancel":
		if !models.CanTransitionRefund(rf.Status, models.RefundCancelled) {
			return models.Refund{}, domain.ConflictError{Resource: "refund", Msg: "not pending"}
		}
		if err := s.RefundRepo.TransitionStatus(refundID, rf.Status, models.RefundCancelled, actor.UserID, now); err != nil {
			return models.Refund{}, err
		}

	default:
		return models.Refund{}, domain.ValidationError{Field: "action", Msg: "expected process, complete, fail or cancel"}
	}

	return s.RefundRepo.GetByRefundID(refundID)
}
