package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petgroom/booking-api/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

func (r *MySQLUserRepo) Create(ctx context.Context, u *usecase.UserRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id,first_name,last_name,email,phone,bookings_taken,created_at,updated_at)
VALUES (?,?,?,?,?,0,NOW(),NOW())
`, u.ID, u.FirstName, u.LastName, u.Email, u.Phone)
	return err
}

func (r *MySQLUserRepo) GetByID(ctx context.Context, id string) (*usecase.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,first_name,last_name,email,phone,bookings_taken
FROM users WHERE id=?`, id)
	var rec usecase.UserRecord
	if err := row.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Phone, &rec.BookingsTaken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
