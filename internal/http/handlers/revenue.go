package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/services"
)

// GET /api/revenue/analytics?period=&startDate=&endDate=&seller_id=
func GetRevenueAnalytics(c *gin.Context) {
	actor := middleware.GetActor(c)

	sellerID := actor.UserID
	if actor.IsAdmin() {
		if q := c.Query("seller_id"); q != "" {
			id, err := strconv.ParseInt(q, 10, 64)
			if err != nil || id <= 0 {
				RespondDomainError(c, domain.ValidationError{Field: "seller_id", Msg: "invalid id"})
				return
			}
			sellerID = id
		}
	} else if !actor.IsSeller() {
		RespondDomainError(c, domain.AuthorizationError{Reason: "revenue analytics is seller-only"})
		return
	}

	svc := services.LedgerService{
		BookingRepo: repositories.BookingRepo{},
		RefundRepo:  repositories.RefundRepo{},
		VehicleRepo: repositories.VehicleRepo{},
	}
	analytics, err := svc.GetRevenueAnalytics(services.RevenueQuery{
		SellerID:  sellerID,
		Period:    c.Query("period"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, analytics)
}
