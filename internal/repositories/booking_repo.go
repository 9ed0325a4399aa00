package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `
	id, booking_code, user_id, vehicle_id,
	start_time, end_time, actual_start_time, actual_end_time,
	booking_status, payment_status,
	total_amount, advance_amount, pending_amount,
	helmet, insurance,
	pickup_code, pickup_code_verified, drop_code, drop_code_verified,
	created_by_worker_id, cancel_reason, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	var actualStart, actualEnd sql.NullTime
	var workerID sql.NullInt64
	var cancelReason sql.NullString
	err := row.Scan(
		&b.ID, &b.BookingCode, &b.UserID, &b.VehicleID,
		&b.StartTime, &b.EndTime, &actualStart, &actualEnd,
		&b.BookingStatus, &b.PaymentStatus,
		&b.TotalAmount, &b.AdvanceAmount, &b.PendingAmount,
		&b.Helmet, &b.Insurance,
		&b.PickupCode, &b.PickupCodeVerified, &b.DropCode, &b.DropCodeVerified,
		&workerID, &cancelReason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if actualStart.Valid {
		t := actualStart.Time
		b.ActualStartTime = &t
	}
	if actualEnd.Valid {
		t := actualEnd.Time
		b.ActualEndTime = &t
	}
	if workerID.Valid {
		b.CreatedByWorkerID = &workerID.Int64
	}
	b.CancelReason = strings.TrimSpace(cancelReason.String)
	return b, nil
}

func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

func (r BookingRepo) GetByCode(code string) (models.Booking, error) {
	row := r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE booking_code=? LIMIT 1`, code)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// Create inserts a booking row, normally inside the reserve transaction.
func (r BookingRepo) Create(ex Execer, b models.Booking) (int64, error) {
	if ex == nil {
		ex = r.db()
	}
	var workerID any
	if b.CreatedByWorkerID != nil {
		workerID = *b.CreatedByWorkerID
	}
	res, err := ex.Exec(`
		INSERT INTO bookings (
			booking_code, user_id, vehicle_id,
			start_time, end_time,
			booking_status, payment_status,
			total_amount, advance_amount, pending_amount,
			helmet, insurance,
			pickup_code, pickup_code_verified, drop_code, drop_code_verified,
			created_by_worker_id, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,0,?,0,?,NOW(),NOW())`,
		b.BookingCode, b.UserID, b.VehicleID,
		b.StartTime, b.EndTime,
		b.BookingStatus, b.PaymentStatus,
		b.TotalAmount, b.AdvanceAmount, b.PendingAmount,
		b.Helmet, b.Insurance,
		b.PickupCode, b.DropCode,
		workerID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateStatus moves a booking between states with a guard on the expected
// current state, so concurrent movers cannot both win.
func (r BookingRepo) UpdateStatus(ex Execer, id int64, from, to, cancelReason string) error {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`
		UPDATE bookings SET booking_status=?, cancel_reason=NULLIF(?,''), updated_at=NOW()
		WHERE id=? AND booking_status=?`,
		to, cancelReason, id, from,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "status changed concurrently"}
	}
	return nil
}

// AppendStatusHistory writes one audit row. History rows are append-only.
func (r BookingRepo) AppendStatusHistory(ex Execer, e models.StatusHistoryEntry) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		INSERT INTO booking_status_history (booking_id, from_status, to_status, actor_id, actor_role, reason, created_at)
		VALUES (?,?,?,?,?,?,NOW())`,
		e.BookingID, e.FromStatus, e.ToStatus, e.ActorID, e.ActorRole, e.Reason,
	)
	return err
}

func (r BookingRepo) ListStatusHistory(bookingID int64) ([]models.StatusHistoryEntry, error) {
	rows, err := r.db().Query(`
		SELECT id, booking_id, from_status, to_status, actor_id, actor_role, COALESCE(reason,''), created_at
		FROM booking_status_history WHERE booking_id=? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StatusHistoryEntry{}
	for rows.Next() {
		var e models.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.FromStatus, &e.ToStatus,
			&e.ActorID, &e.ActorRole, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r BookingRepo) StampActualStart(ex Execer, id int64, at time.Time) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`UPDATE bookings SET actual_start_time=?, updated_at=NOW() WHERE id=? AND actual_start_time IS NULL`, at, id)
	return err
}

func (r BookingRepo) StampActualEnd(ex Execer, id int64, at time.Time) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`UPDATE bookings SET actual_end_time=?, updated_at=NOW() WHERE id=? AND actual_end_time IS NULL`, at, id)
	return err
}

// ConsumeVerificationCode flips the verified flag for the pickup or drop code
// only when the code matches and has not been used. Replays lose the race:
// zero affected rows means wrong code or an already-consumed one.
func (r BookingRepo) ConsumeVerificationCode(ex Execer, bookingID int64, kind, code string) error {
	if ex == nil {
		ex = r.db()
	}
	codeCol, flagCol := "pickup_code", "pickup_code_verified"
	if kind == models.HandoverReturn {
		codeCol, flagCol = "drop_code", "drop_code_verified"
	}
	res, err := ex.Exec(`
		UPDATE bookings SET `+flagCol+`=1, updated_at=NOW()
		WHERE id=? AND `+codeCol+`=? AND `+flagCol+`=0`,
		bookingID, code,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var stored string
		var used bool
		err := ex.QueryRow(`SELECT `+codeCol+`, `+flagCol+` FROM bookings WHERE id=?`, bookingID).Scan(&stored, &used)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "booking"}
		}
		if err != nil {
			return err
		}
		if used {
			return domain.ConflictError{Resource: "verification code", Msg: "already used"}
		}
		return domain.ValidationError{Field: "verification_code", Msg: "invalid code"}
	}
	return nil
}

func (r BookingRepo) SaveHandover(ex Execer, h models.Handover) (int64, error) {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`
		INSERT INTO handovers
			(booking_id, kind, worker_id, odometer, fuel_level, condition_notes, damage_notes, photos, signature_url, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,NOW())`,
		h.BookingID, h.Kind, h.WorkerID, h.Odometer, h.FuelLevel,
		h.ConditionNotes, h.DamageNotes, strings.Join(h.Photos, ","), h.SignatureURL,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepo) GetHandover(bookingID int64, kind string) (models.Handover, error) {
	var h models.Handover
	var photos string
	err := r.db().QueryRow(`
		SELECT id, booking_id, kind, worker_id, odometer, fuel_level,
		       COALESCE(condition_notes,''), COALESCE(damage_notes,''), COALESCE(photos,''), COALESCE(signature_url,''), created_at
		FROM handovers WHERE booking_id=? AND kind=? LIMIT 1`, bookingID, kind).Scan(
		&h.ID, &h.BookingID, &h.Kind, &h.WorkerID, &h.Odometer, &h.FuelLevel,
		&h.ConditionNotes, &h.DamageNotes, &photos, &h.SignatureURL, &h.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Handover{}, domain.NotFoundError{Resource: "handover"}
	}
	if err != nil {
		return models.Handover{}, err
	}
	if photos != "" {
		h.Photos = strings.Split(photos, ",")
	}
	return h, nil
}

func (r BookingRepo) AddPayment(ex Execer, p models.Payment) (int64, error) {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`
		INSERT INTO payments (booking_id, amount, method, status, gateway_ref, paid_at)
		VALUES (?,?,?,?,?,?)`,
		p.BookingID, p.Amount, p.Method, p.Status, p.GatewayRef, p.PaidAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SumSuccessfulPayments returns the booking's paid amount, the refund bound.
func (r BookingRepo) SumSuccessfulPayments(bookingID int64) (int64, error) {
	var total int64
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(amount),0) FROM payments WHERE booking_id=? AND status=?`,
		bookingID, models.PaymentSuccess).Scan(&total)
	return total, err
}

// UpdateAmounts rewrites the money triple, keeping pending derived.
func (r BookingRepo) UpdateAmounts(ex Execer, id, total, advance int64) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		UPDATE bookings SET total_amount=?, advance_amount=?, pending_amount=?, updated_at=NOW() WHERE id=?`,
		total, advance, total-advance, id,
	)
	return err
}

func (r BookingRepo) SetPaymentStatus(ex Execer, id int64, status string) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`UPDATE bookings SET payment_status=?, updated_at=NOW() WHERE id=?`, status, id)
	return err
}

func (r BookingRepo) AddDocument(d models.BookingDocument) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO booking_documents (booking_id, doc_type, url, blob_id, created_at)
		VALUES (?,?,?,?,NOW())`,
		d.BookingID, d.DocType, d.URL, d.BlobID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PaymentDayRow feeds the revenue ledger.
type PaymentDayRow struct {
	Day    time.Time
	Method string
	Amount int64
	Count  int64
}

// ListPaymentsByDay aggregates successful payments per day and method across
// a seller's fleet.
func (r BookingRepo) ListPaymentsByDay(sellerID int64, start, end time.Time) ([]PaymentDayRow, error) {
	rows, err := r.db().Query(`
		SELECT DATE(p.paid_at), p.method, COALESCE(SUM(p.amount),0), COUNT(*)
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE v.seller_id=? AND p.status=? AND p.paid_at >= ? AND p.paid_at < ?
		GROUP BY DATE(p.paid_at), p.method`,
		sellerID, models.PaymentSuccess, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PaymentDayRow{}
	for rows.Next() {
		var row PaymentDayRow
		if err := rows.Scan(&row.Day, &row.Method, &row.Amount, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
