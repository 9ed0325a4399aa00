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

type VehicleRepo struct {
	DB *sql.DB
}

func (r VehicleRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `
	id, registration_number, category, fuel_type, seller_id,
	zone_id, zone_code, zone_name, status, current_booking_id,
	odometer, last_returned_at,
	rate_12hr, rate_24hr, rate_hourly, rate_per_day, rate_weekly, rate_monthly,
	helmet_fee, daily_insurance_rate,
	deposit_amount, deposit_percent, deposit_collection,
	registration_doc, insurance_doc, pollution_doc,
	require_confirmation, is_deleted, created_at, updated_at`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	var currentBooking sql.NullInt64
	var lastReturned sql.NullTime
	err := row.Scan(
		&v.ID, &v.RegistrationNumber, &v.Category, &v.FuelType, &v.SellerID,
		&v.ZoneID, &v.ZoneCode, &v.ZoneName, &v.Status, &currentBooking,
		&v.Odometer, &lastReturned,
		&v.Rates.Rate12Hr, &v.Rates.Rate24Hr, &v.Rates.RateHourly, &v.Rates.RatePerDay,
		&v.Rates.RateWeekly, &v.Rates.RateMonthly,
		&v.Rates.HelmetFee, &v.Rates.DailyInsuranceRate,
		&v.Deposit.Amount, &v.Deposit.RequiredPercent, &v.Deposit.Collection,
		&v.RegistrationDoc, &v.InsuranceDoc, &v.PollutionDoc,
		&v.RequireConfirmation, &v.IsDeleted, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return models.Vehicle{}, err
	}
	if currentBooking.Valid {
		v.CurrentBookingID = &currentBooking.Int64
	}
	if lastReturned.Valid {
		t := lastReturned.Time
		v.LastReturnedAt = &t
	}
	return v, nil
}

func (r VehicleRepo) GetByID(id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicle_id", Msg: "invalid id"}
	}
	row := r.db().QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, err
}

// List applies the fleet filters. Zone scoping for workers happens here so
// a worker never even sees out-of-zone rows.
func (r VehicleRepo) List(f models.VehicleFilter) ([]models.Vehicle, error) {
	where := []string{"1=1"}
	args := []any{}

	if !f.IncludeDeleted {
		where = append(where, "is_deleted=0")
	}
	if f.ZoneCode != "" {
		where = append(where, "zone_code=?")
		args = append(args, f.ZoneCode)
	}
	if f.SellerID > 0 {
		where = append(where, "seller_id=?")
		args = append(args, f.SellerID)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "category=?")
		args = append(args, f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(registration_number LIKE ? OR category LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like)
	}

	order := "created_at DESC"
	switch f.Sort {
	case "oldest":
		order = "created_at ASC"
	case "price_asc":
		order = "rate_24hr ASC"
	case "price_desc":
		order = "rate_24hr DESC"
	}

	rows, err := r.db().Query(
		`SELECT `+vehicleColumns+` FROM vehicles WHERE `+strings.Join(where, " AND ")+` ORDER BY `+order,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehicleRepo) Create(v models.Vehicle) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (
			registration_number, category, fuel_type, seller_id,
			zone_id, zone_code, zone_name, status, odometer,
			rate_12hr, rate_24hr, rate_hourly, rate_per_day, rate_weekly, rate_monthly,
			helmet_fee, daily_insurance_rate,
			deposit_amount, deposit_percent, deposit_collection,
			registration_doc, insurance_doc, pollution_doc,
			require_confirmation, is_deleted, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,0,NOW(),NOW())`,
		v.RegistrationNumber, v.Category, v.FuelType, v.SellerID,
		v.ZoneID, v.ZoneCode, v.ZoneName, domain.VehicleAvailable, v.Odometer,
		v.Rates.Rate12Hr, v.Rates.Rate24Hr, v.Rates.RateHourly, v.Rates.RatePerDay,
		v.Rates.RateWeekly, v.Rates.RateMonthly,
		v.Rates.HelmetFee, v.Rates.DailyInsuranceRate,
		v.Deposit.Amount, v.Deposit.RequiredPercent, v.Deposit.Collection,
		v.RegistrationDoc, v.InsuranceDoc, v.PollutionDoc,
		v.RequireConfirmation,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Reserve is the critical section of the whole core: a conditional update
// that only wins when the vehicle is still available. The losing racer sees
// zero affected rows and gets ConflictError, never a partial reservation.
func (r VehicleRepo) Reserve(ex Execer, vehicleID, bookingID int64, toStatus string) error {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`
		UPDATE vehicles
		SET status=?, current_booking_id=?, updated_at=NOW()
		WHERE id=? AND status=? AND is_deleted=0`,
		toStatus, bookingID, vehicleID, domain.VehicleAvailable,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var status string
		err := ex.QueryRow(`SELECT status FROM vehicles WHERE id=? AND is_deleted=0`, vehicleID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "vehicle"}
		}
		if err != nil {
			return err
		}
		return domain.ConflictError{Resource: "vehicle", Msg: "not available"}
	}
	return nil
}

// MarkRented moves a reserved vehicle to rented at pickup handover. The
// current booking must still own the vehicle.
func (r VehicleRepo) MarkRented(ex Execer, vehicleID, bookingID int64) error {
	if ex == nil {
		ex = r.db()
	}
	res, err := ex.Exec(`
		UPDATE vehicles
		SET status=?, updated_at=NOW()
		WHERE id=? AND status=? AND current_booking_id=?`,
		domain.VehicleRented, vehicleID, domain.VehicleReserved, bookingID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "vehicle", Msg: "not reserved by this booking"}
	}
	return nil
}

// Release clears ownership and stamps last_returned_at. It is written to be
// idempotent against retries: releasing an already-released vehicle is a no-op.
func (r VehicleRepo) Release(ex Execer, vehicleID int64) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		UPDATE vehicles
		SET status=?, current_booking_id=NULL, last_returned_at=NOW(), updated_at=NOW()
		WHERE id=? AND status IN (?,?)`,
		domain.VehicleAvailable, vehicleID, domain.VehicleReserved, domain.VehicleRented,
	)
	return err
}

func (r VehicleRepo) SetStatus(vehicleID int64, from, to string) error {
	res, err := r.db().Exec(`
		UPDATE vehicles SET status=?, updated_at=NOW() WHERE id=? AND status=?`,
		to, vehicleID, from,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "vehicle", Msg: "status changed concurrently"}
	}
	return nil
}

func (r VehicleRepo) UpdateOdometer(ex Execer, vehicleID, odometer int64) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`UPDATE vehicles SET odometer=?, updated_at=NOW() WHERE id=? AND odometer < ?`,
		odometer, vehicleID, odometer)
	return err
}

func (r VehicleRepo) SoftDelete(vehicleID int64) error {
	res, err := r.db().Exec(`UPDATE vehicles SET is_deleted=1, updated_at=NOW() WHERE id=? AND is_deleted=0`, vehicleID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func (r VehicleRepo) AddMaintenance(rec models.MaintenanceRecord) (int64, error) {
	var servicedAt any
	if rec.LastServicingDate != nil {
		servicedAt = *rec.LastServicingDate
	}
	res, err := r.db().Exec(`
		INSERT INTO maintenance_records
			(vehicle_id, description, cost, completed, out_of_service, last_servicing_date, created_at)
		VALUES (?,?,?,?,?,?,NOW())`,
		rec.VehicleID, rec.Description, rec.Cost, rec.Completed, rec.OutOfService, servicedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleRepo) ListMaintenance(vehicleID int64) ([]models.MaintenanceRecord, error) {
	rows, err := r.db().Query(`
		SELECT id, vehicle_id, description, cost, completed, out_of_service, last_servicing_date, created_at
		FROM maintenance_records WHERE vehicle_id=? ORDER BY created_at DESC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MaintenanceRecord{}
	for rows.Next() {
		var m models.MaintenanceRecord
		var serviced sql.NullTime
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.Description, &m.Cost, &m.Completed,
			&m.OutOfService, &serviced, &m.CreatedAt); err != nil {
			return nil, err
		}
		if serviced.Valid {
			t := serviced.Time
			m.LastServicingDate = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MaintenanceCostRow feeds the revenue ledger.
type MaintenanceCostRow struct {
	Day  time.Time
	Cost int64
}

// ListMaintenanceCosts returns completed maintenance spend per servicing day
// across a seller's fleet.
func (r VehicleRepo) ListMaintenanceCosts(sellerID int64, start, end time.Time) ([]MaintenanceCostRow, error) {
	rows, err := r.db().Query(`
		SELECT DATE(m.last_servicing_date), COALESCE(SUM(m.cost),0)
		FROM maintenance_records m
		JOIN vehicles v ON v.id = m.vehicle_id
		WHERE v.seller_id=? AND m.completed=1
		  AND m.last_servicing_date IS NOT NULL
		  AND m.last_servicing_date >= ? AND m.last_servicing_date < ?
		GROUP BY DATE(m.last_servicing_date)`,
		sellerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MaintenanceCostRow{}
	for rows.Next() {
		var row MaintenanceCostRow
		if err := rows.Scan(&row.Day, &row.Cost); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r VehicleRepo) AddDamageReport(ex Execer, d models.DamageReport) error {
	if ex == nil {
		ex = r.db()
	}
	_, err := ex.Exec(`
		INSERT INTO damage_reports (vehicle_id, booking_id, notes, photos, created_at)
		VALUES (?,?,?,?,NOW())`,
		d.VehicleID, d.BookingID, d.Notes, strings.Join(d.Photos, ","),
	)
	return err
}
