package repositories

import (
	"testing"

	"rentalbackend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReserveWinsWhenAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE vehicles").
		WithArgs(domain.VehicleReserved, int64(7), int64(5), domain.VehicleAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := VehicleRepo{DB: db}
	if err := repo.Reserve(nil, 5, 7, domain.VehicleReserved); err != nil {
		t.Fatalf("reserve error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveLosesToCurrentHolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM vehicles").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(domain.VehicleRented))

	repo := VehicleRepo{DB: db}
	err = repo.Reserve(nil, 5, 7, domain.VehicleReserved)
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveMissingVehicleNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE vehicles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM vehicles").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	repo := VehicleRepo{DB: db}
	err = repo.Reserve(nil, 99, 7, domain.VehicleReserved)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatusGuardsOnCurrentState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE vehicles SET status=").
		WithArgs(domain.VehicleInMaintenance, int64(5), domain.VehicleAvailable).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := VehicleRepo{DB: db}
	err = repo.SetStatus(5, domain.VehicleAvailable, domain.VehicleInMaintenance)
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
