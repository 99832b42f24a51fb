package models

import "time"

// Cart is a server-held shopping cart addressed by an opaque cart id the
// client stores locally.
type Cart struct {
	ID        string     `json:"cart_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	UID      string  `json:"uid"`
	Title    string  `json:"title"`
	Slug     string  `json:"slug,omitempty"`
	CoverURL string  `json:"cover_url,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Total is the sum of price*quantity over all items.
func (c Cart) Total() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Count is the total number of units in the cart.
func (c Cart) Count() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
