package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/services"
)

func fleetService() services.FleetService {
	return services.FleetService{VehicleRepo: repositories.VehicleRepo{}}
}

// GET /api/vehicles
func GetVehicles(c *gin.Context) {
	sellerID, _ := strconv.ParseInt(c.Query("seller_id"), 10, 64)
	filter := models.VehicleFilter{
		ZoneCode: c.Query("zone"),
		SellerID: sellerID,
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	vehicles, err := fleetService().ListVehicles(middleware.GetActor(c), filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	v, err := fleetService().GetVehicle(middleware.GetActor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var v models.Vehicle
	if !BindJSONOrError(c, &v) {
		return
	}
	created, err := fleetService().CreateVehicle(middleware.GetActor(c), v)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, created)
}

// POST /api/vehicles/:id/maintenance
func RecordVehicleMaintenance(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	var in services.MaintenanceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	rec, err := fleetService().RecordMaintenance(middleware.GetActor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, rec)
}

// GET /api/vehicles/:id/maintenance
func ListVehicleMaintenance(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	if _, err := fleetService().GetVehicle(middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	records, err := repositories.VehicleRepo{}.ListMaintenance(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{"maintenance": records})
}

type vehicleStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/vehicles/:id/status
func SetVehicleStatus(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	var req vehicleStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := fleetService().SetVehicleStatus(middleware.GetActor(c), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, v)
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id := PathID(c)
	if id == 0 {
		return
	}
	if err := fleetService().DeleteVehicle(middleware.GetActor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{"deleted": true})
}
