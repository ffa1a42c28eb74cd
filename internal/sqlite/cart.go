package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ DB *sqlx.DB }

const cartColumns = `user_id, product_id, quantity, created_at, updated_at`

func (r *CartRepo) List(ctx context.Context, userID string) ([]cart.Line, error) {
	var out []cart.Line
	err := r.DB.SelectContext(ctx, &out, `SELECT `+cartColumns+` FROM cart WHERE user_id = ? ORDER BY created_at, product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return out, nil
}

func (r *CartRepo) Get(ctx context.Context, userID string, productID int64) (cart.Line, error) {
	return getLine(ctx, r.DB, userID, productID)
}

func getLine(ctx context.Context, q sqlx.QueryerContext, userID string, productID int64) (cart.Line, error) {
	var l cart.Line
	err := sqlx.GetContext(ctx, q, &l, `SELECT `+cartColumns+` FROM cart WHERE user_id = ? AND product_id = ?`, userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return cart.Line{}, cart.ErrLineNotFound
	}
	if err != nil {
		return cart.Line{}, fmt.Errorf("fetch cart line: %w", err)
	}
	return l, nil
}

func (r *CartRepo) Upsert(ctx context.Context, userID string, productID int64, qty int) (cart.Line, error) {
	ts := now()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart(user_id, product_id, quantity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		userID, productID, qty, ts, ts)
	if err != nil {
		return cart.Line{}, fmt.Errorf("save cart line: %w", err)
	}
	return getLine(ctx, r.DB, userID, productID)
}

func (r *CartRepo) Delete(ctx context.Context, userID string, productID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cart WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Checkout runs in an immediate transaction, which holds the database write lock
// for its whole duration.
func (r *CartRepo) Checkout(ctx context.Context, userID string) ([]cart.Line, []cart.Shortfall, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var lines []cart.Line
	if err := tx.SelectContext(ctx, &lines, `SELECT `+cartColumns+` FROM cart WHERE user_id = ? ORDER BY product_id`, userID); err != nil {
		return nil, nil, fmt.Errorf("lock cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, cart.ErrEmptyCart
	}

	ts := now()
	var shortfalls []cart.Shortfall
	for _, l := range lines {
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory SET quantity = quantity - ?, updated_at = ?
			WHERE product_id = ? AND quantity >= ?`, l.Quantity, ts, l.ProductID, l.Quantity)
		if err != nil {
			return nil, nil, fmt.Errorf("reserve product %d: %w", l.ProductID, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			continue
		}

		var available int
		err = tx.GetContext(ctx, &available, `SELECT quantity FROM inventory WHERE product_id = ?`, l.ProductID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}
		shortfalls = append(shortfalls, cart.Shortfall{ProductID: l.ProductID, Required: l.Quantity, Available: available})
	}
	if len(shortfalls) > 0 {
		return nil, shortfalls, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart WHERE user_id = ?`, userID); err != nil {
		return nil, nil, fmt.Errorf("clear cart: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return lines, nil, nil
}
