package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rentalbackend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var fixedNow = time.Date(2026, 8, 20, 10, 0, 0, 0, time.Local)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return db, mock
}

func vehicleTestRows(id int64, status, zoneCode string, currentBookingID any) *sqlmock.Rows {
	cols := []string{
		"id", "registration_number", "category", "fuel_type", "seller_id",
		"zone_id", "zone_code", "zone_name", "status", "current_booking_id",
		"odometer", "last_returned_at",
		"rate_12hr", "rate_24hr", "rate_hourly", "rate_per_day", "rate_weekly", "rate_monthly",
		"helmet_fee", "daily_insurance_rate",
		"deposit_amount", "deposit_percent", "deposit_collection",
		"registration_doc", "insurance_doc", "pollution_doc",
		"require_confirmation", "is_deleted", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		id, "KA01AB1234", "scooter", "petrol", int64(42),
		int64(1), zoneCode, "Indiranagar", status, currentBookingID,
		int64(1200), nil,
		int64(500), int64(800), int64(0), int64(0), int64(2500), int64(0),
		int64(0), int64(0),
		int64(0), int64(0), "online",
		"verified", "verified", "verified",
		false, false, fixedNow, fixedNow,
	)
}

func bookingTestRows(id, vehicleID int64, status string) *sqlmock.Rows {
	cols := []string{
		"id", "booking_code", "user_id", "vehicle_id",
		"start_time", "end_time", "actual_start_time", "actual_end_time",
		"booking_status", "payment_status",
		"total_amount", "advance_amount", "pending_amount",
		"helmet", "insurance",
		"pickup_code", "pickup_code_verified", "drop_code", "drop_code_verified",
		"created_by_worker_id", "cancel_reason", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).AddRow(
		id, "BK-20260820-TEST01", int64(9), vehicleID,
		fixedNow, fixedNow.AddDate(0, 0, 1), nil, nil,
		status, "pending",
		int64(800), int64(200), int64(600),
		false, false,
		"111111", false, "222222", false,
		nil, nil, fixedNow, fixedNow,
	)
}

func refundTestRows(id int64, refundID, status string, original, requested, approved, fee, final int64) *sqlmock.Rows {
	cols := []string{
		"id", "refund_id", "booking_id", "user_id", "vehicle_id",
		"original_amount", "requested_amount", "approved_amount", "processing_fee", "final_refund_amount",
		"status", "reason", "method",
		"requested_by", "processed_by", "approved_by",
		"requested_at", "processed_at", "completed_at", "estimated_completion_date", "gateway_ref",
	}
	return sqlmock.NewRows(cols).AddRow(
		id, refundID, int64(7), int64(9), int64(5),
		original, requested, approved, fee, final,
		status, "trip cancelled", "online",
		int64(9), nil, nil,
		fixedNow, nil, nil, nil, nil,
	)
}

type failingGateway struct{}

func (failingGateway) Capture(context.Context, string, int64) (string, error) {
	return "", domain.ExternalDependencyError{Dependency: "payment gateway"}
}

func (failingGateway) Refund(context.Context, string, int64) (string, error) {
	return "", domain.ExternalDependencyError{Dependency: "payment gateway"}
}

type stubGateway struct{ ref string }

func (g stubGateway) Capture(context.Context, string, int64) (string, error) { return g.ref, nil }
func (g stubGateway) Refund(context.Context, string, int64) (string, error)  { return g.ref, nil }
