package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the statuses the backend accepts.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is the only per-line data sent to the backend; prices are never sent.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress string      `json:"shippingAddress"`
	Notes           string      `json:"notes,omitempty"`
}

// Order is the backend-owned record returned by the order API.
type Order struct {
	ID              int64           `json:"id"`
	Status          OrderStatus     `json:"status"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       Timestamp       `json:"createdAt"`
	UpdatedAt       Timestamp       `json:"updatedAt"`
}
