package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petgroom/booking-api/internal/usecase"
)

var ErrNotFound = errors.New("not found")

type MySQLBookingRepo struct{ db *sql.DB }

func NewMySQLBookingRepo(db *sql.DB) *MySQLBookingRepo { return &MySQLBookingRepo{db: db} }

func (r *MySQLBookingRepo) Create(ctx context.Context, b *usecase.BookingRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bookings (id,user_id,pet_id,groomer_id,booking_date_time,status,rating,idempotency_key,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,NOW(),NOW())
`, b.ID, b.UserID, b.PetID, b.GroomerID, b.DateTime, b.Status, b.Rating, b.IdempotencyKey)
	return err
}

func (r *MySQLBookingRepo) GetByID(ctx context.Context, id string) (*usecase.BookingRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,pet_id,groomer_id,booking_date_time,status,rating
FROM bookings WHERE id=?`, id)
	var rec usecase.BookingRecord
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.PetID, &rec.GroomerID, &rec.DateTime, &rec.Status, &rec.Rating); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MySQLBookingRepo) GetByUserAndIdemKey(ctx context.Context, userID, idemKey string) (*usecase.BookingRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,pet_id,groomer_id,booking_date_time,status,rating
FROM bookings WHERE user_id=? AND idempotency_key=?`, userID, idemKey)
	var rec usecase.BookingRecord
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.PetID, &rec.GroomerID, &rec.DateTime, &rec.Status, &rec.Rating); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MySQLBookingRepo) UpdateStatus(ctx context.Context, id, toStatus string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE bookings
        SET status = ?, updated_at = NOW()
        WHERE id = ?`,
		toStatus, id,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLBookingRepo) UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE bookings
        SET status = ?, updated_at = NOW()
        WHERE id = ? AND status = ?`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 → nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

var _ usecase.BookingRepo = (*MySQLBookingRepo)(nil)
