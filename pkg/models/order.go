package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order is a placed manga order. ID is the public order id
// (ORD-<millis>-<suffix>); EntryUID is set when the order was mirrored into
// the content source.
type Order struct {
	ID            string      `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	EntryUID      string      `json:"entry_uid,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

type OrderItem struct {
	UID      string  `json:"uid"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
