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

func newRefundService(db *sql.DB) RefundService {
	return RefundService{
		RefundRepo:  repositories.RefundRepo{DB: db},
		BookingRepo: repositories.BookingRepo{DB: db},
		Now:         func() time.Time { return fixedNow },
	}
}

func TestRequestRefundBoundedByPaidAmount(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingCancelled))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\),0\\) FROM payments").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(500)))

	svc := newRefundService(db)
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	_, err := svc.RequestRefund(actor, RefundRequestInput{
		BookingID:       7,
		RequestedAmount: 800,
		Reason:          "trip cancelled",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRefundAppliesProcessingFee(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(bookingTestRows(7, 5, domain.BookingCancelled))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\),0\\) FROM payments").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(1000)))
	mock.ExpectExec("INSERT INTO refunds").
		WillReturnResult(sqlmock.NewResult(4, 1))

	svc := newRefundService(db)
	svc.ProcessingFee = 50
	actor := domain.Actor{UserID: 9, Role: domain.RoleBuyer}
	rf, err := svc.RequestRefund(actor, RefundRequestInput{
		BookingID:       7,
		RequestedAmount: 500,
		Reason:          "trip cancelled",
		Method:          "online",
	})
	if err != nil {
		t.Fatalf("request refund error: %v", err)
	}
	if rf.Status != models.RefundPending {
		t.Fatalf("expected pending, got %s", rf.Status)
	}
	if rf.OriginalAmount != 1000 || rf.FinalRefundAmount != 450 {
		t.Fatalf("unexpected amounts original=%d final=%d", rf.OriginalAmount, rf.FinalRefundAmount)
	}
	if rf.FinalRefundAmount > rf.OriginalAmount {
		t.Fatalf("final %d exceeds original %d", rf.FinalRefundAmount, rf.OriginalAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessRefundCapsApprovedAmount(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM refunds WHERE refund_id=").WithArgs("RF-abc12345").
		WillReturnRows(refundTestRows(4, "RF-abc12345", models.RefundPending, 1000, 500, 500, 0, 500))

	svc := newRefundService(db)
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	_, err := svc.ProcessRefund(context.Background(), admin, "RF-abc12345", RefundProcessInput{
		Action:         "process",
		ApprovedAmount: 1500,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteRefundMovesMoneyThroughGateway(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM refunds WHERE refund_id=").WithArgs("RF-abc12345").
		WillReturnRows(refundTestRows(4, "RF-abc12345", models.RefundProcessing, 1000, 500, 500, 0, 500))
	mock.ExpectExec("UPDATE refunds SET status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refunds SET gateway_ref=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM refunds WHERE refund_id=").WithArgs("RF-abc12345").
		WillReturnRows(refundTestRows(4, "RF-abc12345", models.RefundCompleted, 1000, 500, 500, 0, 500))

	svc := newRefundService(db)
	svc.Gateway = stubGateway{ref: "pg-42"}
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	rf, err := svc.ProcessRefund(context.Background(), admin, "RF-abc12345", RefundProcessInput{Action: "complete"})
	if err != nil {
		t.Fatalf("complete error: %v", err)
	}
	if rf.Status != models.RefundCompleted {
		t.Fatalf("expected completed, got %s", rf.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
