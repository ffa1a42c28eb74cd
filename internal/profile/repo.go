package profile

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const columns = `user_id, first_name, middle_name, last_name, location, phone_number, created_at, updated_at`

func scan(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.UserID, &p.FirstName, &p.MiddleName, &p.LastName, &p.Location, &p.PhoneNumber, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) Get(ctx context.Context, userID string) (Profile, error) {
	p, err := scan(r.DB.QueryRow(ctx, `SELECT `+columns+` FROM profiles WHERE user_id=$1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) Insert(ctx context.Context, p Profile) (Profile, bool, error) {
	out, err := scan(r.DB.QueryRow(ctx, `
		INSERT INTO profiles(user_id, first_name, middle_name, last_name, location, phone_number)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING `+columns,
		p.UserID, p.FirstName, p.MiddleName, p.LastName, p.Location, p.PhoneNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return out, true, nil
}

func (r *Repo) Update(ctx context.Context, p Profile) (Profile, error) {
	out, err := scan(r.DB.QueryRow(ctx, `
		UPDATE profiles SET first_name=$2, middle_name=$3, last_name=$4, location=$5, phone_number=$6, updated_at=now()
		WHERE user_id=$1
		RETURNING `+columns,
		p.UserID, p.FirstName, p.MiddleName, p.LastName, p.Location, p.PhoneNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return out, err
}
