package repositories

import (
	"testing"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestConsumeVerificationCodeOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET drop_code_verified=1").
		WithArgs(int64(7), "222222").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepo{DB: db}
	if err := repo.ConsumeVerificationCode(nil, 7, models.HandoverReturn, "222222"); err != nil {
		t.Fatalf("consume error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeVerificationCodeReplayConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET drop_code_verified=1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT drop_code, drop_code_verified FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"drop_code", "drop_code_verified"}).AddRow("222222", true))

	repo := BookingRepo{DB: db}
	err = repo.ConsumeVerificationCode(nil, 7, models.HandoverReturn, "222222")
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeVerificationCodeWrongCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET pickup_code_verified=1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT pickup_code, pickup_code_verified FROM bookings").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"pickup_code", "pickup_code_verified"}).AddRow("111111", false))

	repo := BookingRepo{DB: db}
	err = repo.ConsumeVerificationCode(nil, 7, models.HandoverPickup, "999999")
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatusGuardsOnExpectedState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET booking_status=").
		WithArgs(domain.BookingConfirmed, "", int64(7), domain.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepo{DB: db}
	err = repo.UpdateStatus(nil, 7, domain.BookingPending, domain.BookingConfirmed, "")
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
