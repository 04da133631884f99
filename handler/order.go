package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/store"
)

const dateFormat = "Jan 2, 2006"

// OrderHandler answers order status queries.
type OrderHandler struct {
	store store.Store
}

// NewOrderHandler creates an order handler over the given store.
func NewOrderHandler(s store.Store) *OrderHandler {
	return &OrderHandler{store: s}
}

// Status looks up an order and formats its current state.
func (h *OrderHandler) Status(ctx context.Context, orderID string) (Result, error) {
	order, err := h.store.GetOrder(ctx, orderID)
	if err != nil {
		var nf *core.NotFoundError
		if errors.As(err, &nf) {
			return NotFound{Message: fmt.Sprintf("Order %s not found. Please check the order ID.", orderID)}, nil
		}
		return nil, err
	}

	message := fmt.Sprintf("Order %s is currently %s.", order.ID, order.Status)
	if !order.EstimatedDelivery.IsZero() {
		message += fmt.Sprintf(" Expected delivery: %s", order.EstimatedDelivery.Format(dateFormat))
	}

	return Found{
		Message: message,
		Fields: map[string]any{
			"order_id":   order.ID,
			"status":     order.Status,
			"total":      order.Total,
			"items":      order.Items,
			"order_date": order.OrderedAt.Format(time.RFC3339),
		},
	}, nil
}
