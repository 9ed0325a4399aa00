package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepo) GetByID(id int64) (models.User, error) {
	var u models.User
	var email, zoneCode, zoneName sql.NullString
	var zoneID sql.NullInt64
	err := r.db().QueryRow(`
		SELECT id, name, email, phone, password_hash, role, status, is_guest, zone_id, zone_code, zone_name, created_at
		FROM users WHERE id=? LIMIT 1`, id).Scan(
		&u.ID, &u.Name, &email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
		&u.IsGuest, &zoneID, &zoneCode, &zoneName, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, err
	}
	u.Email = email.String
	u.ZoneID = zoneID.Int64
	u.ZoneCode = zoneCode.String
	u.ZoneName = zoneName.String
	return u, nil
}

func (r UserRepo) GetByEmail(email string) (models.User, error) {
	var u models.User
	var zoneCode, zoneName sql.NullString
	var zoneID sql.NullInt64
	err := r.db().QueryRow(`
		SELECT id, name, email, phone, password_hash, role, status, is_guest, zone_id, zone_code, zone_name, created_at
		FROM users WHERE email=? LIMIT 1`, strings.TrimSpace(email)).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
		&u.IsGuest, &zoneID, &zoneCode, &zoneName, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, err
	}
	u.ZoneID = zoneID.Int64
	u.ZoneCode = zoneCode.String
	u.ZoneName = zoneName.String
	return u, nil
}

func (r UserRepo) Create(u models.User) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, phone, password_hash, role, status, is_guest, zone_id, zone_code, zone_name, created_at)
		VALUES (?,?,?,?,?,?,?,NULLIF(?,0),NULLIF(?,''),NULLIF(?,''),NOW())`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status, u.IsGuest,
		u.ZoneID, u.ZoneCode, u.ZoneName,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FindOrCreateGuestByPhone synthesizes a guest record for walk-in bookings.
// The upsert is atomic (unique key on phone), so two concurrent offline
// bookings for the same phone converge on one guest row.
func (r UserRepo) FindOrCreateGuestByPhone(name, phone string) (int64, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return 0, domain.ValidationError{Field: "phone", Msg: "required for walk-in bookings"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Guest " + phone
	}
	res, err := r.db().Exec(`
		INSERT INTO users (name, phone, password_hash, role, status, is_guest, created_at)
		VALUES (?,?,'',?, 'active', 1, NOW())
		ON DUPLICATE KEY UPDATE id=LAST_INSERT_ID(id), name=VALUES(name)`,
		name, phone, domain.RoleBuyer,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
