package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/store"
)

// DeliveryHandler answers shipment tracking queries.
type DeliveryHandler struct {
	store store.Store
}

// NewDeliveryHandler creates a delivery handler over the given store.
func NewDeliveryHandler(s store.Store) *DeliveryHandler {
	return &DeliveryHandler{store: s}
}

// Track formats the shipping record for an order. An order without a
// shipping record yet is not an error.
func (h *DeliveryHandler) Track(ctx context.Context, orderID string) (Result, error) {
	delivery, err := h.store.GetDelivery(ctx, orderID)
	if err != nil {
		var nf *core.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		if _, orderErr := h.store.GetOrder(ctx, orderID); orderErr != nil {
			if errors.As(orderErr, &nf) {
				return NotFound{Message: fmt.Sprintf("Order %s not found.", orderID)}, nil
			}
			return nil, orderErr
		}
		return Found{
			Message: fmt.Sprintf("Delivery information not yet available for order %s.", orderID),
		}, nil
	}

	return Found{
		Message: fmt.Sprintf("Order %s is currently %s. Estimated delivery: %s. Tracking number: %s (%s)",
			orderID, delivery.Status, delivery.EstimatedDelivery.Format(dateFormat),
			delivery.TrackingNumber, delivery.Carrier),
		Fields: map[string]any{
			"tracking_number": delivery.TrackingNumber,
			"carrier":         delivery.Carrier,
			"status":          delivery.Status,
		},
	}, nil
}
