package cart

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const lineColumns = `user_id, product_id, quantity, created_at, updated_at`

func scanLine(row pgx.Row) (Line, error) {
	var l Line
	err := row.Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *Repo) List(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+lineColumns+` FROM cart WHERE user_id=$1 ORDER BY created_at, product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID string, productID int64) (Line, error) {
	l, err := scanLine(r.DB.QueryRow(ctx, `SELECT `+lineColumns+` FROM cart WHERE user_id=$1 AND product_id=$2`, userID, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Line{}, ErrLineNotFound
	}
	if err != nil {
		return Line{}, fmt.Errorf("fetch cart line: %w", err)
	}
	return l, nil
}

func (r *Repo) Upsert(ctx context.Context, userID string, productID int64, qty int) (Line, error) {
	l, err := scanLine(r.DB.QueryRow(ctx, `
		INSERT INTO cart(user_id, product_id, quantity) VALUES ($1,$2,$3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()
		RETURNING `+lineColumns, userID, productID, qty))
	if err != nil {
		return Line{}, fmt.Errorf("save cart line: %w", err)
	}
	return l, nil
}

func (r *Repo) Delete(ctx context.Context, userID string, productID int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM cart WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}
