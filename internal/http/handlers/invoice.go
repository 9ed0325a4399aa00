package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/services"
)

// GET /api/bookings/:id/invoice
func GetBookingInvoicePDF(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	svc := services.InvoiceService{
		BookingRepo: repositories.BookingRepo{},
		VehicleRepo: repositories.VehicleRepo{},
		UserRepo:    repositories.UserRepo{},
	}
	pdfBytes, filename, err := svc.GenerateInvoice(middleware.GetActor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
