package services

import (
	"strings"
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/repositories"
	"rentalbackend/internal/zone"
)

// FleetService owns vehicle records outside the reservation hot path.
type FleetService struct {
	VehicleRepo repositories.VehicleRepo
}

// ListVehicles scopes workers to their own zone regardless of what the
// filter asks for.
func (s FleetService) ListVehicles(actor domain.Actor, f models.VehicleFilter) ([]models.Vehicle, error) {
	if actor.IsWorker() {
		if strings.TrimSpace(actor.ZoneCode) == "" {
			return nil, domain.AuthorizationError{Reason: "worker has no zone assignment"}
		}
		f.ZoneCode = actor.ZoneCode
	}
	return s.VehicleRepo.List(f)
}

func (s FleetService) GetVehicle(actor domain.Actor, id int64) (models.Vehicle, error) {
	v, err := s.VehicleRepo.GetByID(id)
	if err != nil {
		return models.Vehicle{}, err
	}
	if actor.IsWorker() {
		if err := zone.Authorize(actor, v.ZoneCode); err != nil {
			return models.Vehicle{}, err
		}
	}
	return v, nil
}

// CreateVehicle is the seller onboarding entry point.
func (s FleetService) CreateVehicle(actor domain.Actor, v models.Vehicle) (models.Vehicle, error) {
	if !actor.IsSeller() && !actor.IsAdmin() {
		return models.Vehicle{}, domain.AuthorizationError{Reason: "only sellers can onboard vehicles"}
	}
	v.RegistrationNumber = strings.ToUpper(strings.TrimSpace(v.RegistrationNumber))
	if v.RegistrationNumber == "" {
		return models.Vehicle{}, domain.ValidationError{Field: "registration_number", Msg: "required"}
	}
	if strings.TrimSpace(v.ZoneCode) == "" {
		return models.Vehicle{}, domain.ValidationError{Field: "zone_code", Msg: "required"}
	}
	if v.Rates.Rate12Hr <= 0 && v.Rates.Rate24Hr <= 0 && v.Rates.RatePerDay <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "rates", Msg: "at least one base rate is required"}
	}
	if actor.IsSeller() {
		v.SellerID = actor.UserID
	}

	id, err := s.VehicleRepo.Create(v)
	if err != nil {
		return models.Vehicle{}, domain.InternalError{Err: err}
	}
	return s.VehicleRepo.GetByID(id)
}

type MaintenanceInput struct {
	Description   string `json:"description"`
	Cost          int64  `json:"cost"`
	Completed     bool   `json:"completed"`
	OutOfService  bool   `json:"out_of_service"`
	ServicingDate string `json:"servicing_date"` // YYYY-MM-DD, optional
}

// RecordMaintenance appends a service entry. Availability only changes when
// the entry explicitly takes the vehicle out of service.
func (s FleetService) RecordMaintenance(actor domain.Actor, vehicleID int64, in MaintenanceInput) (models.MaintenanceRecord, error) {
	v, err := s.VehicleRepo.GetByID(vehicleID)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	if actor.IsWorker() {
		if err := zone.Authorize(actor, v.ZoneCode); err != nil {
			return models.MaintenanceRecord{}, err
		}
	}
	if strings.TrimSpace(in.Description) == "" {
		return models.MaintenanceRecord{}, domain.ValidationError{Field: "description", Msg: "required"}
	}
	if in.Cost < 0 {
		return models.MaintenanceRecord{}, domain.ValidationError{Field: "cost", Msg: "must not be negative"}
	}

	rec := models.MaintenanceRecord{
		VehicleID:    vehicleID,
		Description:  strings.TrimSpace(in.Description),
		Cost:         in.Cost,
		Completed:    in.Completed,
		OutOfService: in.OutOfService,
	}
	if d := strings.TrimSpace(in.ServicingDate); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return models.MaintenanceRecord{}, domain.ValidationError{Field: "servicing_date", Msg: "expected YYYY-MM-DD"}
		}
		rec.LastServicingDate = &t
	}

	id, err := s.VehicleRepo.AddMaintenance(rec)
	if err != nil {
		return models.MaintenanceRecord{}, domain.InternalError{Err: err}
	}
	rec.ID = id

	if in.OutOfService && v.Status != domain.VehicleOutOfService {
		if !domain.CanTransitionVehicle(v.Status, domain.VehicleOutOfService) {
			return rec, domain.ConflictError{Resource: "vehicle", Msg: "cannot take out of service from " + v.Status}
		}
		if err := s.VehicleRepo.SetStatus(vehicleID, v.Status, domain.VehicleOutOfService); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// SetVehicleStatus applies a manual availability transition (maintenance
// hold, out-of-service reset). Reservation moves never come through here.
func (s FleetService) SetVehicleStatus(actor domain.Actor, vehicleID int64, newStatus string) (models.Vehicle, error) {
	v, err := s.VehicleRepo.GetByID(vehicleID)
	if err != nil {
		return models.Vehicle{}, err
	}
	if actor.IsWorker() {
		if err := zone.Authorize(actor, v.ZoneCode); err != nil {
			return models.Vehicle{}, err
		}
	}
	switch newStatus {
	case domain.VehicleInMaintenance, domain.VehicleOutOfService, domain.VehicleAvailable:
	default:
		return models.Vehicle{}, domain.ValidationError{Field: "status", Msg: "manual transitions are limited to maintenance and service states"}
	}
	if newStatus == domain.VehicleAvailable && v.CurrentBookingID != nil {
		return models.Vehicle{}, domain.ConflictError{Resource: "vehicle", Msg: "held by an active booking"}
	}
	if !domain.CanTransitionVehicle(v.Status, newStatus) {
		return models.Vehicle{}, domain.ConflictError{
			Resource: "vehicle",
			Msg:      "illegal transition " + v.Status + " -> " + newStatus,
		}
	}
	if err := s.VehicleRepo.SetStatus(vehicleID, v.Status, newStatus); err != nil {
		return models.Vehicle{}, err
	}
	return s.VehicleRepo.GetByID(vehicleID)
}

func (s FleetService) DeleteVehicle(actor domain.Actor, vehicleID int64) error {
	v, err := s.VehicleRepo.GetByID(vehicleID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && !(actor.IsSeller() && v.SellerID == actor.UserID) {
		return domain.AuthorizationError{Reason: "only the owning seller can remove a vehicle"}
	}
	if v.CurrentBookingID != nil {
		return domain.ConflictError{Resource: "vehicle", Msg: "held by an active booking"}
	}
	return s.VehicleRepo.SoftDelete(vehicleID)
}
