package entity

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
}

// Order is created by the checkout flow; this service only moves its
// status to completed or cancelled, never deletes it.
type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Items         []OrderItem   `json:"items"`
	TotalAmount   int64         `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        OrderStatus   `json:"status"`
	ReferralCode  string        `json:"referralCode,omitempty"`
	CreatedAt     int64         `json:"createdAt"`
}

func (o *Order) CourseIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func NowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}
