package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/services"
)

func handoverService() services.HandoverService {
	return services.HandoverService{
		BookingRepo: repositories.BookingRepo{},
		VehicleRepo: repositories.VehicleRepo{},
		Events:      eventBus,
	}
}

type handoverRequest struct {
	Kind             string   `json:"kind"` // pickup | return
	VerificationCode string   `json:"verification_code"`
	Odometer         int64    `json:"odometer"`
	FuelLevel        string   `json:"fuel_level"`
	ConditionNotes   string   `json:"condition_notes"`
	DamageNotes      string   `json:"damage_notes"`
	Photos           []string `json:"photos"`
	SignatureURL     string   `json:"signature_url"`
}

// POST /api/bookings/:id/handover
func ProcessHandover(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	var req handoverRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	in := services.HandoverInput{
		VerificationCode: req.VerificationCode,
		Odometer:         req.Odometer,
		FuelLevel:        req.FuelLevel,
		ConditionNotes:   req.ConditionNotes,
		DamageNotes:      req.DamageNotes,
		Photos:           req.Photos,
		SignatureURL:     req.SignatureURL,
	}

	var (
		h   models.Handover
		err error
	)
	actor := middleware.GetActor(c)
	switch strings.ToLower(strings.TrimSpace(req.Kind)) {
	case models.HandoverPickup:
		h, err = handoverService().ProcessPickup(c.Request.Context(), actor, id, in)
	case models.HandoverReturn:
		h, err = handoverService().ProcessReturn(c.Request.Context(), actor, id, in)
	default:
		err = domain.ValidationError{Field: "kind", Msg: "expected pickup or return"}
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, h)
}

// GET /api/bookings/:id/handover?kind=pickup|return
func GetHandover(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	kind := strings.ToLower(strings.TrimSpace(c.Query("kind")))
	if kind != models.HandoverPickup && kind != models.HandoverReturn {
		RespondDomainError(c, domain.ValidationError{Field: "kind", Msg: "expected pickup or return"})
		return
	}
	if _, err := bookingService().GetBooking(middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	h, err := repositories.BookingRepo{}.GetHandover(id, kind)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, h)
}
