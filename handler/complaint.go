package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/store"
)

// ComplaintHandler files customer complaints against orders.
type ComplaintHandler struct {
	store store.Store
}

// NewComplaintHandler creates a complaint handler over the given store.
func NewComplaintHandler(s store.Store) *ComplaintHandler {
	return &ComplaintHandler{store: s}
}

// File creates a complaint for the order. The user's message is stored as
// the complaint details.
func (h *ComplaintHandler) File(ctx context.Context, orderID, details string) (Result, error) {
	complaint, err := h.store.CreateComplaint(ctx, orderID, details)
	if err != nil {
		var nf *core.NotFoundError
		if errors.As(err, &nf) {
			return NotFound{Message: fmt.Sprintf("Order %s not found. Cannot create complaint.", orderID)}, nil
		}
		return nil, err
	}

	return Found{
		Message: fmt.Sprintf(
			"I'm sorry to hear about the issue with your order. I've created complaint %s. "+
				"Our support team will contact you within 24 hours to resolve this.", complaint.ID),
		Fields: map[string]any{
			"complaint_id": complaint.ID,
			"order_id":     complaint.OrderID,
			"status":       complaint.Status,
		},
	}, nil
}
