package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"aniverse/pkg/models"
)

// Repo persists carts as a cart-id -> item-list mapping, the server-side
// counterpart of the storefront's local cart storage key.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO carts (id, items, updated_at) VALUES (?, '[]', ?)
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*models.Cart, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, items, updated_at FROM carts WHERE id = ?
	`, id)

	var (
		c         models.Cart
		itemsJSON string
	)
	if err := row.Scan(&c.ID, &itemsJSON, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &c.Items); err != nil {
		// A corrupt row degrades to an empty cart instead of a dead one.
		c.Items = nil
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return &c, nil
}

// Save replaces the cart's item list. Returns (false, nil) when the cart
// does not exist.
func (r *Repo) Save(ctx context.Context, id string, items []models.CartItem) (bool, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("encode items: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE carts SET items = ?, updated_at = ? WHERE id = ?
	`, string(raw), time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("update cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
