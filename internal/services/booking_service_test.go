package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newBookingService(db *sql.DB) BookingService {
	return BookingService{
		BookingRepo: repositories.BookingRepo{DB: db},
		VehicleRepo: repositories.VehicleRepo{DB: db},
		UserRepo:    repositories.UserRepo{DB: db},
		DB:          db,
		Now:         func() time.Time { return fixedNow },
	}
}

func TestCreateBookingReservesVehicle(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleAvailable, "Z1", nil))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingConfirmed))

	svc := newBookingService(db)
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	b, err := svc.CreateBooking(context.Background(), actor, CreateBookingInput{
		VehicleID: 5,
		StartTime: fixedNow,
		EndTime:   fixedNow.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("create booking error: %v", err)
	}
	if b.ID != 7 {
		t.Fatalf("expected booking id 7, got %d", b.ID)
	}
	if b.BookingStatus != domain.BookingConfirmed {
		t.Fatalf("expected confirmed, got %s", b.BookingStatus)
	}
	if b.PendingAmount != b.TotalAmount-b.AdvanceAmount {
		t.Fatalf("pending %d is not total %d minus advance %d", b.PendingAmount, b.TotalAmount, b.AdvanceAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingLosesReservationRace(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleAvailable, "Z1", nil))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	// Another booking won the conditional update between read and reserve.
	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM vehicles").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(domain.VehicleReserved))
	mock.ExpectRollback()

	svc := newBookingService(db)
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	_, err := svc.CreateBooking(context.Background(), actor, CreateBookingInput{
		VehicleID: 5,
		StartTime: fixedNow,
		EndTime:   fixedNow.AddDate(0, 0, 1),
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingCompensatesFailedCapture(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleAvailable, "Z1", nil))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	// Compensation after the gateway failure: cancel, audit, release.
	mock.ExpectExec("UPDATE bookings SET booking_status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := newBookingService(db)
	svc.Gateway = failingGateway{}
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	_, err := svc.CreateBooking(context.Background(), actor, CreateBookingInput{
		VehicleID:     5,
		StartTime:     fixedNow,
		EndTime:       fixedNow.AddDate(0, 0, 1),
		AdvanceAmount: 200,
		PaymentMethod: "online",
	})
	if !domain.IsExternalDependency(err) {
		t.Fatalf("expected ExternalDependencyError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelBookingReleasesVehicle(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleReserved, "Z1", int64(7)))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET booking_status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingCancelled))

	svc := newBookingService(db)
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	b, err := svc.UpdateStatus(context.Background(), actor, 7, domain.BookingCancelled, "change of plans")
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if b.BookingStatus != domain.BookingCancelled {
		t.Fatalf("expected cancelled, got %s", b.BookingStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingCompleted))
	mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id=").WithArgs(int64(5)).
		WillReturnRows(vehicleTestRows(5, domain.VehicleAvailable, "Z1", nil))

	svc := newBookingService(db)
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	_, err := svc.UpdateStatus(context.Background(), actor, 7, domain.BookingActive, "")
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
