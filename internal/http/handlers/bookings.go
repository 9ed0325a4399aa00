package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/services"
)

func bookingService() services.BookingService {
	return services.BookingService{
		BookingRepo: repositories.BookingRepo{},
		VehicleRepo: repositories.VehicleRepo{},
		UserRepo:    repositories.UserRepo{},
		Gateway:     paymentGW,
		Events:      eventBus,
	}
}

type createBookingRequest struct {
	VehicleID     int64  `json:"vehicle_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Helmet        bool   `json:"helmet"`
	Insurance     bool   `json:"insurance"`
	AdvanceAmount int64  `json:"advance_amount"`
	PaymentMethod string `json:"payment_method"`
	GuestName     string `json:"guest_name"`
	GuestPhone    string `json:"guest_phone"`
	ZoneCode      string `json:"zone_code"`
}

// parseWhen accepts RFC3339 and the dashboard's "YYYY-MM-DD HH:MM:SS".
func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	start, err := parseWhen(req.StartTime)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "start_time", Msg: "expected RFC3339 or YYYY-MM-DD HH:MM:SS"})
		return
	}
	end, err := parseWhen(req.EndTime)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "end_time", Msg: "expected RFC3339 or YYYY-MM-DD HH:MM:SS"})
		return
	}

	booking, err := bookingService().CreateBooking(c.Request.Context(), middleware.GetActor(c), services.CreateBookingInput{
		VehicleID:     req.VehicleID,
		StartTime:     start,
		EndTime:       end,
		Helmet:        req.Helmet,
		Insurance:     req.Insurance,
		AdvanceAmount: req.AdvanceAmount,
		PaymentMethod: req.PaymentMethod,
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		ZoneCode:      req.ZoneCode,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, bookingView(booking, true))
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	actor := middleware.GetActor(c)
	booking, err := bookingService().GetBooking(actor, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	// Verification codes are only shown to the renter who owns them.
	RespondData(c, http.StatusOK, bookingView(booking, booking.UserID == actor.UserID))
}

// GET /api/bookings/:id/history
func GetBookingHistory(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	if _, err := bookingService().GetBooking(middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	history, err := repositories.BookingRepo{}.ListStatusHistory(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{"history": history})
}

type bookingStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// PUT /api/bookings/:id/status
func UpdateBookingStatus(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	var req bookingStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService().UpdateStatus(c.Request.Context(), middleware.GetActor(c), id, req.Status, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, bookingView(booking, false))
}

type returnRequest struct {
	VerificationCode string `json:"verification_code"`
	Condition        string `json:"condition"`
	DamageNotes      string `json:"damage_notes"`
}

// POST /api/bookings/:id/return
func MarkBookingReturned(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	var req returnRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	booking, err := bookingService().MarkReturned(c.Request.Context(), middleware.GetActor(c), id, req.VerificationCode, req.Condition, req.DamageNotes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, bookingView(booking, false))
}

// POST /api/bookings/:id/documents
func UploadBookingDocument(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	if _, err := bookingService().GetBooking(middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	if blobStore == nil {
		RespondDomainError(c, domain.ExternalDependencyError{Dependency: "blob store"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, 10<<20))
	if err != nil || len(data) == 0 {
		RespondDomainError(c, domain.ValidationError{Field: "body", Msg: "document bytes required"})
		return
	}
	url, blobID, err := blobStore.Upload(c.Request.Context(), c.ContentType(), data)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	docID, err := repositories.BookingRepo{}.AddDocument(models.BookingDocument{
		BookingID: id,
		DocType:   c.Query("type"),
		URL:       url,
		BlobID:    blobID,
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	RespondData(c, http.StatusCreated, gin.H{"id": docID, "url": url})
}

// bookingView hides verification codes from everyone but the renter. The
// worker learns them from the renter at the physical handover.
func bookingView(b models.Booking, withCodes bool) gin.H {
	view := gin.H{
		"id":             b.ID,
		"booking_code":   b.BookingCode,
		"user_id":        b.UserID,
		"vehicle_id":     b.VehicleID,
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
		"booking_status": b.BookingStatus,
		"payment_status": b.PaymentStatus,
		"total_amount":   b.TotalAmount,
		"advance_amount": b.AdvanceAmount,
		"pending_amount": b.PendingAmount,
		"helmet":         b.Helmet,
		"insurance":      b.Insurance,
		"created_at":     b.CreatedAt,
	}
	if b.ActualStartTime != nil {
		view["actual_start_time"] = b.ActualStartTime
	}
	if b.ActualEndTime != nil {
		view["actual_end_time"] = b.ActualEndTime
	}
	if b.CancelReason != "" {
		view["cancel_reason"] = b.CancelReason
	}
	if withCodes {
		view["pickup_code"] = b.PickupCode
		view["drop_code"] = b.DropCode
	}
	return view
}
