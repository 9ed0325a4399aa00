package pricing

import (
	"testing"
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
)

func mustCompute(t *testing.T, rates models.VehicleRates, pickup, ret time.Time, extras Extras) Quote {
	t.Helper()
	q, err := Compute(rates, DefaultTiers(), pickup, ret, extras)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return q
}

func TestComputeSingleDay(t *testing.T) {
	rates := models.VehicleRates{Rate12Hr: 500}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	q := mustCompute(t, rates, pickup, pickup.Add(24*time.Hour), Extras{})
	if q.DurationDays != 1 {
		t.Fatalf("duration days = %d, want 1", q.DurationDays)
	}
	if q.TotalAmount != 500 {
		t.Fatalf("total = %d, want 500", q.TotalAmount)
	}
}

func TestComputeHalfDayUsesTwelveHourRate(t *testing.T) {
	rates := models.VehicleRates{Rate12Hr: 300, Rate24Hr: 500}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	q := mustCompute(t, rates, pickup, pickup.Add(8*time.Hour), Extras{})
	if q.TotalAmount != 300 {
		t.Fatalf("8h booking total = %d, want 300 (12h rate)", q.TotalAmount)
	}

	q = mustCompute(t, rates, pickup, pickup.Add(20*time.Hour), Extras{})
	if q.TotalAmount != 500 {
		t.Fatalf("20h booking total = %d, want 500 (24h rate)", q.TotalAmount)
	}
}

func TestComputeWeekPlusRemainder(t *testing.T) {
	rates := models.VehicleRates{RatePerDay: 500, RateWeekly: 2500}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	q := mustCompute(t, rates, pickup, pickup.Add(10*24*time.Hour), Extras{})
	if q.DurationDays != 10 {
		t.Fatalf("duration days = %d, want 10", q.DurationDays)
	}
	if q.TotalAmount != 4000 {
		t.Fatalf("total = %d, want 2500 + 3*500 = 4000", q.TotalAmount)
	}
}

func TestComputeMonthTier(t *testing.T) {
	rates := models.VehicleRates{RatePerDay: 500, RateMonthly: 9000}
	pickup := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	q := mustCompute(t, rates, pickup, pickup.Add(35*24*time.Hour), Extras{})
	if q.TotalAmount != 9000+5*500 {
		t.Fatalf("total = %d, want %d", q.TotalAmount, int64(9000+5*500))
	}
}

func TestComputeShortWeekUsesPerDay(t *testing.T) {
	rates := models.VehicleRates{Rate12Hr: 500}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// No explicit daily rate: per-day falls back to the 12h base.
	q := mustCompute(t, rates, pickup, pickup.Add(3*24*time.Hour), Extras{})
	if q.TotalAmount != 1500 {
		t.Fatalf("total = %d, want 3*500 = 1500", q.TotalAmount)
	}
}

func TestComputeExtras(t *testing.T) {
	rates := models.VehicleRates{RatePerDay: 400, HelmetFee: 50, DailyInsuranceRate: 30}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	q := mustCompute(t, rates, pickup, pickup.Add(3*24*time.Hour), Extras{Helmet: true, Insurance: true})
	if q.HelmetFee != 50 {
		t.Fatalf("helmet fee = %d, want 50", q.HelmetFee)
	}
	if q.InsuranceFee != 90 {
		t.Fatalf("insurance fee = %d, want 3*30 = 90", q.InsuranceFee)
	}
	if q.TotalAmount != 1200+50+90 {
		t.Fatalf("total = %d, want 1340", q.TotalAmount)
	}
}

func TestComputePartialDayRoundsUp(t *testing.T) {
	rates := models.VehicleRates{RatePerDay: 500}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	q := mustCompute(t, rates, pickup, pickup.Add(49*time.Hour), Extras{})
	if q.DurationDays != 3 {
		t.Fatalf("49h should bill 3 days, got %d", q.DurationDays)
	}
}

func TestComputeInvalidWindow(t *testing.T) {
	rates := models.VehicleRates{Rate12Hr: 500}
	pickup := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := Compute(rates, DefaultTiers(), pickup, pickup, Extras{})
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = Compute(rates, DefaultTiers(), pickup, pickup.Add(-time.Hour), Extras{})
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative window, got %v", err)
	}
}
