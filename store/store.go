// Package store provides the fixed-schema domain records behind the handler
// set: the product catalog plus order, complaint, refund, and delivery
// records, backed by SQLite.
package store

import (
	"context"
	"time"
)

// Product is a catalog entry. Identifiers are small integers in 1..100.
type Product struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Price    float64           `json:"price"`
	Rating   float64           `json:"rating"`
	Stock    int               `json:"stock"`
	Features map[string]string `json:"features,omitempty"`
}

// Order is a customer order, identified by an ORD-NNNN code.
type Order struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"`
	Items             []string  `json:"items"`
	Total             float64   `json:"total"`
	OrderedAt         time.Time `json:"ordered_at"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

// Complaint is a filed customer complaint. Identifiers are CMP-NNN codes
// allocated from a per-store counter.
type Complaint struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Refund is a refund request against an order. Identifiers are REF-NNN codes
// allocated from a per-store counter.
type Refund struct {
	ID                 string    `json:"id"`
	OrderID            string    `json:"order_id"`
	Amount             float64   `json:"amount"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	ExpectedCompletion time.Time `json:"expected_completion"`
}

// Delivery is the shipping record for an order.
type Delivery struct {
	OrderID           string    `json:"order_id"`
	Carrier           string    `json:"carrier"`
	TrackingNumber    string    `json:"tracking_number"`
	Status            string    `json:"status"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

// Store is the persistence contract the handlers depend on.
type Store interface {
	GetProduct(ctx context.Context, id int) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	CreateComplaint(ctx context.Context, orderID, details string) (*Complaint, error)
	GetComplaint(ctx context.Context, id string) (*Complaint, error)
	CreateRefund(ctx context.Context, orderID string) (*Refund, error)
	GetRefundByOrder(ctx context.Context, orderID string) (*Refund, error)
	GetDelivery(ctx context.Context, orderID string) (*Delivery, error)
	Close() error
}
