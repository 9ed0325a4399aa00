package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newHandoverService(db *sql.DB) HandoverService {
	return HandoverService{
		BookingRepo: repositories.BookingRepo{DB: db},
		VehicleRepo: repositories.VehicleRepo{DB: db},
		DB:          db,
		Now:         func() time.Time { return fixedNow },
	}
}

func TestPickupHandoverActivatesBooking(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleReserved, "Z1", int64(7)))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET pickup_code_verified=1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET booking_status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET actual_start_time=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO handovers").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("UPDATE vehicles SET odometer=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := newHandoverService(db)
	worker := domain.Actor{UserID: 11, Role: domain.RoleWorker, ZoneID: 1, ZoneCode: "Z1"}
	h, err := svc.ProcessPickup(context.Background(), worker, 7, HandoverInput{
		VerificationCode: "111111",
		Odometer:         1350,
		FuelLevel:        "full",
	})
	if err != nil {
		t.Fatalf("pickup error: %v", err)
	}
	if h.ID != 3 || h.Kind != models.HandoverPickup {
		t.Fatalf("unexpected handover %+v", h)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReturnBeforePickupRejected(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleReserved, "Z1", int64(7)))

	svc := newHandoverService(db)
	worker := domain.Actor{UserID: 11, Role: domain.RoleWorker, ZoneID: 1, ZoneCode: "Z1"}
	_, err := svc.ProcessReturn(context.Background(), worker, 7, HandoverInput{VerificationCode: "222222"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHandoverOutsideZoneDenied(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleReserved, "Z1", int64(7)))

	svc := newHandoverService(db)
	worker := domain.Actor{UserID: 11, Role: domain.RoleWorker, ZoneID: 2, ZoneCode: "Z2"}
	_, err := svc.ProcessPickup(context.Background(), worker, 7, HandoverInput{VerificationCode: "111111"})
	if !domain.IsAuthorization(err) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReturnHandoverReplayedCodeConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingActive))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleRented, "Z1", int64(7)))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET drop_code_verified=1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT drop_code, drop_code_verified FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"drop_code", "drop_code_verified"}).AddRow("222222", true))
	mock.ExpectRollback()

	svc := newHandoverService(db)
	worker := domain.Actor{UserID: 11, Role: domain.RoleWorker, ZoneID: 1, ZoneCode: "Z1"}
	_, err := svc.ProcessReturn(context.Background(), worker, 7, HandoverInput{VerificationCode: "222222"})
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
