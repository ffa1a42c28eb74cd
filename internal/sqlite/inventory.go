package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/inventory"
	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ DB *sqlx.DB }

func (r *InventoryRepo) Get(ctx context.Context, productID int64) (inventory.Record, error) {
	var rec inventory.Record
	err := r.DB.GetContext(ctx, &rec, `SELECT product_id, quantity, updated_at FROM inventory WHERE product_id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.Record{}, inventory.ErrNotFound
	}
	if err != nil {
		return inventory.Record{}, fmt.Errorf("fetch inventory: %w", err)
	}
	return rec, nil
}

func (r *InventoryRepo) Quantities(ctx context.Context, productIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT product_id, quantity FROM inventory WHERE product_id IN (?)`, productIDs)
	if err != nil {
		return nil, err
	}
	var recs []inventory.Record
	if err := r.DB.SelectContext(ctx, &recs, r.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	for _, rec := range recs {
		out[rec.ProductID] = rec.Quantity
	}
	return out, nil
}

func (r *InventoryRepo) Adjust(ctx context.Context, productID int64, delta int) (int, int, error) {
	var next int
	err := r.DB.GetContext(ctx, &next, `
		UPDATE inventory SET quantity = quantity + ?, updated_at = ?
		WHERE product_id = ? AND quantity + ? >= 0
		RETURNING quantity`, delta, now(), productID, delta)
	if err == nil {
		return next - delta, next, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, 0, fmt.Errorf("update inventory: %w", err)
	}

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM inventory WHERE product_id = ?)`, productID); err != nil {
		return 0, 0, fmt.Errorf("fetch inventory: %w", err)
	}
	if !exists {
		return 0, 0, inventory.ErrNotFound
	}
	return 0, 0, inventory.ErrInsufficientStock
}

// Put sets a product's stock outright, creating the row if needed.
func (r *InventoryRepo) Put(ctx context.Context, productID int64, qty int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO inventory(product_id, quantity, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(product_id) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		productID, qty, now())
	return err
}
