// Package pricing computes rental totals from a vehicle's rate table.
// It is pure: no storage, no clock, safe for concurrent use.
package pricing

import (
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
)

// TierConfig carries the duration breakpoints. These are business
// configuration, not law; vehicle categories may override them.
type TierConfig struct {
	WeekThresholdDays  int
	MonthThresholdDays int
	// HalfDayHours is the boundary under which a one-day booking is charged
	// at the 12-hour rate instead of the 24-hour rate.
	HalfDayHours int
}

// DefaultTiers matches the breakpoints the walk-in flow was built around.
func DefaultTiers() TierConfig {
	return TierConfig{
		WeekThresholdDays:  7,
		MonthThresholdDays: 30,
		HalfDayHours:       12,
	}
}

// Extras are the additive booking options.
type Extras struct {
	Helmet    bool
	Insurance bool
}

// Quote is the computed price breakdown in whole rupees.
type Quote struct {
	DurationDays int   `json:"duration_days"`
	BaseAmount   int64 `json:"base_amount"`
	HelmetFee    int64 `json:"helmet_fee"`
	InsuranceFee int64 `json:"insurance_fee"`
	TotalAmount  int64 `json:"total_amount"`
}

// Compute prices a window against a rate table. The only failure path is an
// invalid window. All arithmetic is in integer rupees, so no rounding step
// is needed.
func Compute(rates models.VehicleRates, cfg TierConfig, pickup, ret time.Time, extras Extras) (Quote, error) {
	if !ret.After(pickup) {
		return Quote{}, domain.ValidationError{Field: "window", Msg: "return must be after pickup"}
	}
	if cfg.WeekThresholdDays <= 0 || cfg.MonthThresholdDays <= cfg.WeekThresholdDays {
		cfg = DefaultTiers()
	}

	span := ret.Sub(pickup)
	days := int((span + 24*time.Hour - 1) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}

	perDay := rates.RatePerDay
	if perDay == 0 {
		perDay = rates.Rate12Hr
	}

	var base int64
	switch {
	case days == 1:
		base = singleDayRate(rates, cfg, span)
	case days <= cfg.WeekThresholdDays:
		base = int64(days) * perDay
	case days <= cfg.MonthThresholdDays:
		weeks := days / cfg.WeekThresholdDays
		rem := days % cfg.WeekThresholdDays
		base = int64(weeks)*weeklyRate(rates, cfg, perDay) + int64(rem)*perDay
	default:
		months := days / cfg.MonthThresholdDays
		rem := days % cfg.MonthThresholdDays
		base = int64(months)*monthlyRate(rates, cfg, perDay) + int64(rem)*perDay
	}

	q := Quote{
		DurationDays: days,
		BaseAmount:   base,
	}
	if extras.Helmet {
		q.HelmetFee = rates.HelmetFee
	}
	if extras.Insurance {
		q.InsuranceFee = int64(days) * rates.DailyInsuranceRate
	}
	q.TotalAmount = q.BaseAmount + q.HelmetFee + q.InsuranceFee
	return q, nil
}

func singleDayRate(rates models.VehicleRates, cfg TierConfig, span time.Duration) int64 {
	if span <= time.Duration(cfg.HalfDayHours)*time.Hour && rates.Rate12Hr > 0 {
		return rates.Rate12Hr
	}
	if rates.Rate24Hr > 0 {
		return rates.Rate24Hr
	}
	return rates.Rate12Hr
}

func weeklyRate(rates models.VehicleRates, cfg TierConfig, perDay int64) int64 {
	if rates.RateWeekly > 0 {
		return rates.RateWeekly
	}
	return int64(cfg.WeekThresholdDays) * perDay
}

func monthlyRate(rates models.VehicleRates, cfg TierConfig, perDay int64) int64 {
	if rates.RateMonthly > 0 {
		return rates.RateMonthly
	}
	return int64(cfg.MonthThresholdDays) * perDay
}
