package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/utils"
	"rentalbackend/internal/zone"
)

// InvoiceService renders the booking invoice PDF.
type InvoiceService struct {
	BookingRepo repositories.BookingRepo
	VehicleRepo repositories.VehicleRepo
	UserRepo    repositories.UserRepo
}

// GenerateInvoice returns the PDF bytes plus a download filename. Renters get
// their own invoices; staff access is zone/ownership checked by the caller's
// role like every other booking read.
func (s InvoiceService) GenerateInvoice(actor domain.Actor, bookingID int64) ([]byte, string, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	vehicle, err := s.VehicleRepo.GetByID(booking.VehicleID)
	if err != nil {
		return nil, "", err
	}
	switch {
	case actor.IsWorker():
		if err := zone.Authorize(actor, vehicle.ZoneCode); err != nil {
			return nil, "", err
		}
	case actor.IsAdmin():
	case actor.IsSeller():
		if vehicle.SellerID != actor.UserID {
			return nil, "", domain.AuthorizationError{Reason: "not your fleet"}
		}
	default:
		if booking.UserID != actor.UserID {
			return nil, "", domain.AuthorizationError{Reason: "not your booking"}
		}
	}

	renter, err := s.UserRepo.GetByID(booking.UserID)
	if err != nil {
		return nil, "", err
	}
	return buildInvoicePDF(booking, vehicle, renter)
}

func buildInvoicePDF(b models.Booking, v models.Vehicle, renter models.User) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RENTAL INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : INV-"+b.BookingCode)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+safeText(renter.Name))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Phone : "+safeText(renter.Phone))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Booking:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Vehicle    : %s (%s)", safeText(v.RegistrationNumber), safeText(v.Category)),
		fmt.Sprintf("Zone       : %s", safeText(v.ZoneName)),
		fmt.Sprintf("Pickup     : %s", utils.FormatDateTime(b.StartTime)),
		fmt.Sprintf("Return     : %s", utils.FormatDateTime(b.EndTime)),
		fmt.Sprintf("Status     : %s / %s", b.BookingStatus, b.PaymentStatus),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Amounts:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	amounts := []string{
		"Total    : " + pdfRupee(b.TotalAmount),
		"Advance  : " + pdfRupee(b.AdvanceAmount),
		"Pending  : " + pdfRupee(b.PendingAmount),
	}
	if b.Helmet {
		amounts = append(amounts, "Includes helmet")
	}
	if b.Insurance {
		amounts = append(amounts, "Includes daily insurance")
	}
	for _, line := range amounts {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Pending amount is collected at pickup handover.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Err: err}
	}
	return buf.Bytes(), "INVOICE_" + b.BookingCode + ".pdf", nil
}

func safeText(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "-"
	}
	return v
}

// pdfRupee uses an ASCII prefix; the core PDF fonts cannot encode the rupee
// glyph.
func pdfRupee(v int64) string {
	return "Rs. " + strings.TrimPrefix(utils.FormatRupee(v), "₹")
}
