package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
)

type RefundRepo struct {
	DB *sql.DB
}

func (r RefundRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const refundColumns = `
	id, refund_id, booking_id, user_id, vehicle_id,
	original_amount, requested_amount, approved_amount, processing_fee, final_refund_amount,
	status, reason, method,
	requested_by, processed_by, approved_by,
	requested_at, processed_at, completed_at, estimated_completion_date, gateway_ref`

func scanRefund(row interface{ Scan(...any) error }) (models.Refund, error) {
	var rf models.Refund
	var processedBy, approvedBy sql.NullInt64
	var processedAt, completedAt, estimated sql.NullTime
	var reason, method, gatewayRef sql.NullString
	err := row.Scan(
		&rf.ID, &rf.RefundID, &rf.BookingID, &rf.UserID, &rf.VehicleID,
		&rf.OriginalAmount, &rf.RequestedAmount, &rf.ApprovedAmount, &rf.ProcessingFee, &rf.FinalRefundAmount,
		&rf.Status, &reason, &method,
		&rf.RequestedBy, &processedBy, &approvedBy,
		&rf.RequestedAt, &processedAt, &completedAt, &estimated, &gatewayRef,
	)
	if err != nil {
		return models.Refund{}, err
	}
	rf.Reason = reason.String
	rf.Method = method.String
	rf.GatewayRef = gatewayRef.String
	if processedBy.Valid {
		rf.ProcessedBy = &processedBy.Int64
	}
	if approvedBy.Valid {
		rf.ApprovedBy = &approvedBy.Int64
	}
	if processedAt.Valid {
		t := processedAt.Time
		rf.ProcessedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		rf.CompletedAt = &t
	}
	if estimated.Valid {
		t := estimated.Time
		rf.EstimatedCompletionDate = &t
	}
	return rf, nil
}

func (r RefundRepo) GetByRefundID(refundID string) (models.Refund, error) {
	row := r.db().QueryRow(`SELECT `+refundColumns+` FROM refunds WHERE refund_id=? LIMIT 1`, refundID)
	rf, err := scanRefund(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Refund{}, domain.NotFoundError{Resource: "refund"}
	}
	return rf, err
}

func (r RefundRepo) Create(rf models.Refund) (int64, error) {
	var estimated any
	if rf.EstimatedCompletionDate != nil {
		estimated = *rf.EstimatedCompletionDate
	}
	res, err := r.db().Exec(`
		INSERT INTO refunds (
			refund_id, booking_id, user_id, vehicle_id,
			original_amount, requested_amount, approved_amount, processing_fee, final_refund_amount,
			status, reason, method, requested_by, requested_at, estimated_completion_date
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rf.RefundID, rf.BookingID, rf.UserID, rf.VehicleID,
		rf.OriginalAmount, rf.RequestedAmount, rf.ApprovedAmount, rf.ProcessingFee, rf.FinalRefundAmount,
		rf.Status, rf.Reason, rf.Method, rf.RequestedBy, rf.RequestedAt, estimated,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// TransitionStatus is guarded on the expected current status.
func (r RefundRepo) TransitionStatus(refundID string, from, to string, processedBy int64, now time.Time) error {
	set := `status=?, processed_by=?`
	args := []any{to, processedBy}
	switch to {
	case models.RefundProcessing:
		set += `, processed_at=?`
		args = append(args, now)
	case models.RefundCompleted:
		set += `, completed_at=?`
		args = append(args, now)
	}
	args = append(args, refundID, from)

	res, err := r.db().Exec(`UPDATE refunds SET `+set+` WHERE refund_id=? AND status=?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "refund", Msg: "status changed concurrently"}
	}
	return nil
}

func (r RefundRepo) SetAmounts(refundID string, approved, fee, final int64, approvedBy int64) error {
	_, err := r.db().Exec(`
		UPDATE refunds SET approved_amount=?, processing_fee=?, final_refund_amount=?, approved_by=?
		WHERE refund_id=?`,
		approved, fee, final, approvedBy, refundID,
	)
	return err
}

func (r RefundRepo) SetGatewayRef(refundID, ref string) error {
	_, err := r.db().Exec(`UPDATE refunds SET gateway_ref=? WHERE refund_id=?`, ref, refundID)
	return err
}

// RefundDayRow feeds the revenue ledger.
type RefundDayRow struct {
	Day    time.Time
	Amount int64
}

// ListCompletedByDay aggregates completed refunds per processed day across a
// seller's fleet.
func (r RefundRepo) ListCompletedByDay(sellerID int64, start, end time.Time) ([]RefundDayRow, error) {
	rows, err := r.db().Query(`
		SELECT DATE(rf.processed_at), COALESCE(SUM(rf.final_refund_amount),0)
		FROM refunds rf
		JOIN vehicles v ON v.id = rf.vehicle_id
		WHERE v.seller_id=? AND rf.status=? AND rf.processed_at >= ? AND rf.processed_at < ?
		GROUP BY DATE(rf.processed_at)`,
		sellerID, models.RefundCompleted, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RefundDayRow{}
	for rows.Next() {
		var row RefundDayRow
		if err := rows.Scan(&row.Day, &row.Amount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
