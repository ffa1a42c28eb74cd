package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/profile"
	"github.com/jmoiron/sqlx"
)

type ProfileRepo struct{ DB *sqlx.DB }

func (r *ProfileRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	var p profile.Profile
	err := r.DB.GetContext(ctx, &p, `
		SELECT user_id, first_name, middle_name, last_name, location, phone_number, created_at, updated_at
		FROM profiles WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, err
}

func (r *ProfileRepo) Insert(ctx context.Context, p profile.Profile) (profile.Profile, bool, error) {
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts
	res, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO profiles(user_id, first_name, middle_name, last_name, location, phone_number, created_at, updated_at)
		VALUES (:user_id, :first_name, :middle_name, :last_name, :location, :phone_number, :created_at, :updated_at)
		ON CONFLICT(user_id) DO NOTHING`, p)
	if err != nil {
		return profile.Profile{}, false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profile.Profile{}, false, nil
	}
	out, err := r.Get(ctx, p.UserID)
	return out, err == nil, err
}

func (r *ProfileRepo) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	p.UpdatedAt = now()
	res, err := r.DB.NamedExecContext(ctx, `
		UPDATE profiles SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
			location = :location, phone_number = :phone_number, updated_at = :updated_at
		WHERE user_id = :user_id`, p)
	if err != nil {
		return profile.Profile{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profile.Profile{}, profile.ErrNotFound
	}
	return r.Get(ctx, p.UserID)
}
