package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/petgroom/booking-api/internal/usecase"
)

type MySQLPetRepo struct{ db *sql.DB }

func NewMySQLPetRepo(db *sql.DB) *MySQLPetRepo { return &MySQLPetRepo{db: db} }

func (r *MySQLPetRepo) Create(ctx context.Context, p *usecase.PetRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO pets (id,user_id,name,breed,species,age,weight,special_instructions,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,NOW(),NOW())
`, p.ID, p.UserID, p.Name, p.Breed, p.Species, p.Age, p.Weight, p.SpecialInstructions)
	return err
}

func (r *MySQLPetRepo) GetByID(ctx context.Context, id string) (*usecase.PetRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,name,breed,species,age,weight,special_instructions
FROM pets WHERE id=?`, id)
	rec, err := scanPet(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *MySQLPetRepo) ListByUser(ctx context.Context, userID string) ([]*usecase.PetRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,user_id,name,breed,species,age,weight,special_instructions
FROM pets WHERE user_id=? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*usecase.PetRecord
	for rows.Next() {
		rec, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanPet(scan func(dest ...any) error) (*usecase.PetRecord, error) {
	var rec usecase.PetRecord
	if err := scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Breed, &rec.Species, &rec.Age, &rec.Weight, &rec.SpecialInstructions); err != nil {
		return nil, err
	}
	return &rec, nil
}

var _ usecase.PetRepo = (*MySQLPetRepo)(nil)
