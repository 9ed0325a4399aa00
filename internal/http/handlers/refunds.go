package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/services"
)

func refundService() services.RefundService {
	return services.RefundService{
		RefundRepo:  repositories.RefundRepo{},
		BookingRepo: repositories.BookingRepo{},
		Gateway:     paymentGW,
	}
}

// POST /api/refunds
func RequestRefund(c *gin.Context) {
	var req services.RefundRequestInput
	if !BindJSONOrError(c, &req) {
		return
	}
	actor := middleware.GetActor(c)

	// Renters can only refund their own bookings; staff can act for anyone.
	if !actor.IsAdmin() && !actor.IsSeller() && !actor.IsWorker() {
		booking, err := repositories.BookingRepo{}.GetByID(req.BookingID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		if booking.UserID != actor.UserID {
			RespondDomainError(c, domain.AuthorizationError{Reason: "not your booking"})
			return
		}
	}

	rf, err := refundService().RequestRefund(actor, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, rf)
}

// GET /api/refunds/:id
func GetRefund(c *gin.Context) {
	refundID := c.Param("id")
	rf, err := repositories.RefundRepo{}.GetByRefundID(refundID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	actor := middleware.GetActor(c)
	if !actor.IsAdmin() && !actor.IsSeller() && rf.UserID != actor.UserID {
		RespondDomainError(c, domain.AuthorizationError{Reason: "not your refund"})
		return
	}
	RespondData(c, http.StatusOK, rf)
}

// PUT /api/refunds/:id/process
func ProcessRefund(c *gin.Context) {
	refundID := c.Param("id")
	var req services.RefundProcessInput
	if !BindJSONOrError(c, &req) {
		return
	}
	rf, err := refundService().ProcessRefund(c.Request.Context(), middleware.GetActor(c), refundID, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, rf)
}
