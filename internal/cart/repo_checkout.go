package cart

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
)

// Checkout locks the user's lines in product order, then takes each quantity from
// inventory with a conditional decrement. Any shortfall rolls the whole thing back.
func (r *Repo) Checkout(ctx context.Context, userID string) ([]Line, []Shortfall, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+lineColumns+` FROM cart WHERE user_id=$1 ORDER BY product_id FOR UPDATE`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock cart: %w", err)
	}
	var lines []Line
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, ErrEmptyCart
	}

	var shortfalls []Shortfall
	for _, l := range lines {
		var left int
		err := tx.QueryRow(ctx, `
			UPDATE inventory SET quantity = quantity - $2, updated_at = now()
			WHERE product_id = $1 AND quantity >= $2
			RETURNING quantity`, l.ProductID, l.Quantity).Scan(&left)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("reserve product %d: %w", l.ProductID, err)
		}

		var available int
		err = tx.QueryRow(ctx, `SELECT quantity FROM inventory WHERE product_id=$1`, l.ProductID).Scan(&available)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}
		shortfalls = append(shortfalls, Shortfall{ProductID: l.ProductID, Required: l.Quantity, Available: available})
	}
	if len(shortfalls) > 0 {
		return nil, shortfalls, nil // rollback via defer
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id=$1`, userID); err != nil {
		return nil, nil, fmt.Errorf("clear cart: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return lines, nil, nil
}
