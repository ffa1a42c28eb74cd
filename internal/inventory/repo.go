package inventory

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Get(ctx context.Context, productID int64) (Record, error) {
	var rec Record
	err := r.DB.QueryRow(ctx, `SELECT product_id, quantity, updated_at FROM inventory WHERE product_id=$1`, productID).
		Scan(&rec.ProductID, &rec.Quantity, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("fetch inventory: %w", err)
	}
	return rec, nil
}

// Quantities returns the stocked quantity per product; products without a row are absent from the map.
func (r *Repo) Quantities(ctx context.Context, productIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT product_id, quantity FROM inventory WHERE product_id = ANY($1)`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

// Adjust applies delta in a single statement so concurrent restocks add up instead of
// overwriting each other. The row is left untouched when the result would be negative.
func (r *Repo) Adjust(ctx context.Context, productID int64, delta int) (previous, next int, err error) {
	err = r.DB.QueryRow(ctx, `
		UPDATE inventory SET quantity = quantity + $2, updated_at = now()
		WHERE product_id = $1 AND quantity + $2 >= 0
		RETURNING quantity`, productID, delta).Scan(&next)
	if err == nil {
		return next - delta, next, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, fmt.Errorf("update inventory: %w", err)
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM inventory WHERE product_id=$1)`, productID).Scan(&exists); err != nil {
		return 0, 0, fmt.Errorf("fetch inventory: %w", err)
	}
	if !exists {
		return 0, 0, ErrNotFound
	}
	return 0, 0, ErrInsufficientStock
}

// Put sets a product's stock outright, creating the row if needed.
func (r *Repo) Put(ctx context.Context, productID int64, qty int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO inventory(product_id, quantity) VALUES ($1,$2)
		ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`, productID, qty)
	if err != nil {
		return fmt.Errorf("put inventory: %w", err)
	}
	return nil
}
