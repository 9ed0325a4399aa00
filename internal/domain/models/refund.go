package models

import "time"

// Refund statuses.
const (
	RefundPending    = "pending"
	RefundProcessing = "processing"
	RefundCompleted  = "completed"
	RefundFailed     = "failed"
	RefundCancelled  = "cancelled"
)

// Refund tracks money moving back to a renter.
// Invariant: FinalRefundAmount <= OriginalAmount (the booking's paid amount).
type Refund struct {
	ID        int64  `json:"id"`
	RefundID  string `json:"refund_id"`
	BookingID int64  `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	VehicleID int64  `json:"vehicle_id"`

	OriginalAmount    int64 `json:"original_amount"`
	RequestedAmount   int64 `json:"requested_amount"`
	ApprovedAmount    int64 `json:"approved_amount"`
	ProcessingFee     int64 `json:"processing_fee"`
	FinalRefundAmount int64 `json:"final_refund_amount"`

	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Method string `json:"method,omitempty"`

	RequestedBy int64  `json:"requested_by"`
	ProcessedBy *int64 `json:"processed_by,omitempty"`
	ApprovedBy  *int64 `json:"approved_by,omitempty"`

	RequestedAt             time.Time  `json:"requested_at"`
	ProcessedAt             *time.Time `json:"processed_at,omitempty"`
	CompletedAt             *time.Time `json:"completed_at,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date,omitempty"`

	GatewayRef string `json:"gateway_ref,omitempty"`
}

// refundTransitions is the refund status graph.
var refundTransitions = map[string][]string{
	RefundPending:    {RefundProcessing, RefundCancelled},
	RefundProcessing: {RefundCompleted, RefundFailed},
	RefundCompleted:  {},
	RefundFailed:     {},
	RefundCancelled:  {},
}

func CanTransitionRefund(from, to string) bool {
	allowed, ok := refundTransitions[from]
	if !ok || from == to {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
