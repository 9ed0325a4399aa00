package models

import "time"

// Vehicle is one rentable unit. Availability status and CurrentBookingID are
// the single source of truth for reservation state; they move together and
// only through the fleet repository's reserve/release paths.
type Vehicle struct {
	ID                 int64      `json:"id"`
	RegistrationNumber string     `json:"registration_number"`
	Category           string     `json:"category"`
	FuelType           string     `json:"fuel_type"`
	SellerID           int64      `json:"seller_id"`
	ZoneID             int64      `json:"zone_id"`
	ZoneCode           string     `json:"zone_code"`
	ZoneName           string     `json:"zone_name"`
	Status             string     `json:"status"`
	CurrentBookingID   *int64     `json:"current_booking_id,omitempty"`
	Odometer           int64      `json:"odometer"`
	LastReturnedAt     *time.Time `json:"last_returned_at,omitempty"`

	Rates   VehicleRates  `json:"rates"`
	Deposit DepositPolicy `json:"deposit"`

	// Document statuses reported by the seller onboarding flow.
	RegistrationDoc string `json:"registration_doc"`
	InsuranceDoc    string `json:"insurance_doc"`
	PollutionDoc    string `json:"pollution_doc"`

	RequireConfirmation bool `json:"require_confirmation"`
	IsDeleted           bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleRates carries the tier rate table in whole rupees.
type VehicleRates struct {
	Rate12Hr           int64 `json:"rate_12hr"`
	Rate24Hr           int64 `json:"rate_24hr"`
	RateHourly         int64 `json:"rate_hourly"`
	RatePerDay         int64 `json:"rate_per_day"`
	RateWeekly         int64 `json:"rate_weekly"`
	RateMonthly        int64 `json:"rate_monthly"`
	HelmetFee          int64 `json:"helmet_fee"`
	DailyInsuranceRate int64 `json:"daily_insurance_rate"`
}

type DepositPolicy struct {
	Amount          int64  `json:"amount"`
	RequiredPercent int64  `json:"required_percent"`
	Collection      string `json:"collection"` // online | offline
}

// MaintenanceRecord is a service entry on a vehicle.
type MaintenanceRecord struct {
	ID                int64      `json:"id"`
	VehicleID         int64      `json:"vehicle_id"`
	Description       string     `json:"description"`
	Cost              int64      `json:"cost"`
	Completed         bool       `json:"completed"`
	OutOfService      bool       `json:"out_of_service"`
	LastServicingDate *time.Time `json:"last_servicing_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// DamageReport records damage observed at return handover.
type DamageReport struct {
	ID        int64     `json:"id"`
	VehicleID int64     `json:"vehicle_id"`
	BookingID int64     `json:"booking_id"`
	Notes     string    `json:"notes"`
	Photos    []string  `json:"photos,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VehicleFilter narrows fleet listings.
type VehicleFilter struct {
	ZoneCode       string
	SellerID       int64
	Status         string
	Category       string
	Search         string
	Sort           string // newest | oldest | price_asc | price_desc
	IncludeDeleted bool
}
