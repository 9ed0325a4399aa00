package models

import "time"

// Booking is one reservation of one vehicle for a time window.
// Invariant: PendingAmount = TotalAmount - AdvanceAmount after any mutation.
type Booking struct {
	ID          int64  `json:"id"`
	BookingCode string `json:"booking_code"`
	UserID      int64  `json:"user_id"`
	VehicleID   int64  `json:"vehicle_id"`

	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`

	BookingStatus string `json:"booking_status"`
	PaymentStatus string `json:"payment_status"`

	TotalAmount   int64 `json:"total_amount"`
	AdvanceAmount int64 `json:"advance_amount"`
	PendingAmount int64 `json:"pending_amount"`

	Helmet    bool `json:"helmet"`
	Insurance bool `json:"insurance"`

	PickupCode         string `json:"-"`
	PickupCodeVerified bool   `json:"pickup_code_verified"`
	DropCode           string `json:"-"`
	DropCodeVerified   bool   `json:"drop_code_verified"`

	CreatedByWorkerID *int64 `json:"created_by_worker_id,omitempty"`
	CancelReason      string `json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusHistoryEntry is one append-only audit row; never rewritten.
type StatusHistoryEntry struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    int64     `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingDocument is an uploaded proof; only the blob URL/identifier is kept.
type BookingDocument struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	DocType   string    `json:"doc_type"`
	URL       string    `json:"url"`
	BlobID    string    `json:"blob_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Payment is a captured money movement against a booking.
type Payment struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id"`
	Amount     int64     `json:"amount"`
	Method     string    `json:"method"` // cash | online
	Status     string    `json:"status"` // success | failed | pending
	GatewayRef string    `json:"gateway_ref,omitempty"`
	PaidAt     time.Time `json:"paid_at"`
}

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"

	PaymentSuccess = "success"
	PaymentFailed  = "failed"
	PaymentPending = "pending"
)

// Handover is the immutable pickup/return record embedded in a booking.
type Handover struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"booking_id"`
	Kind           string    `json:"kind"` // pickup | return
	WorkerID       int64     `json:"worker_id"`
	Odometer       int64     `json:"odometer"`
	FuelLevel      string    `json:"fuel_level"`
	ConditionNotes string    `json:"condition_notes"`
	DamageNotes    string    `json:"damage_notes,omitempty"`
	Photos         []string  `json:"photos,omitempty"`
	SignatureURL   string    `json:"signature_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	HandoverPickup = "pickup"
	HandoverReturn = "return"
)
