package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aniverse/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, o models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, items, total, status, entry_uid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.CustomerName, o.CustomerEmail, string(items), o.Total, o.Status, o.EntryUID, o.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, items, total, status, entry_uid, created_at
		FROM orders
		WHERE id = ?
	`, id)

	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

type ListQuery struct {
	Status string
	Limit  int
	Offset int
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Order, error) {
	sqlStr := `
		SELECT id, customer_name, customer_email, items, total, status, entry_uid, created_at
		FROM orders
	`
	var args []any
	if s := strings.TrimSpace(q.Status); s != "" {
		sqlStr += " WHERE status = ?"
		args = append(args, strings.ToLower(s))
	}
	sqlStr += " ORDER BY created_at DESC LIMIT ? OFFSET ?"

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]models.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// UpdateStatus returns (false, nil) when the order does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *Repo) SetEntryUID(ctx context.Context, id, entryUID string) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE orders SET entry_uid = ? WHERE id = ?`, entryUID, id); err != nil {
		return fmt.Errorf("set entry uid: %w", err)
	}
	return nil
}

func scanOrder(scan func(...any) error) (*models.Order, error) {
	var (
		o         models.Order
		itemsJSON string
		entryUID  sql.NullString
		createdAt time.Time
	)
	if err := scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &itemsJSON, &o.Total, &o.Status, &entryUID, &createdAt); err != nil {
		return nil, err
	}
	o.EntryUID = entryUID.String
	o.CreatedAt = createdAt
	_ = json.Unmarshal([]byte(itemsJSON), &o.Items)
	return &o, nil
}
