package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/store"
)

// initiateKeywords mark a refund message as a new request rather than a
// status check.
var initiateKeywords = []string{"want", "request", "initiate", "return"}

// RefundHandler initiates refunds and reports their status.
type RefundHandler struct {
	store store.Store
}

// NewRefundHandler creates a refund handler over the given store.
func NewRefundHandler(s store.Store) *RefundHandler {
	return &RefundHandler{store: s}
}

// Handle routes a refund message: messages containing an initiation keyword
// start a new refund, everything else checks status.
func (h *RefundHandler) Handle(ctx context.Context, orderID, message string) (Result, error) {
	lower := strings.ToLower(message)
	for _, kw := range initiateKeywords {
		if strings.Contains(lower, kw) {
			return h.initiate(ctx, orderID)
		}
	}
	return h.status(ctx, orderID)
}

func (h *RefundHandler) initiate(ctx context.Context, orderID string) (Result, error) {
	if existing, err := h.store.GetRefundByOrder(ctx, orderID); err == nil {
		return Found{
			Message: fmt.Sprintf("A refund request already exists for order %s (Status: %s)", orderID, existing.Status),
			Fields:  map[string]any{"refund_id": existing.ID, "status": existing.Status},
		}, nil
	}

	refund, err := h.store.CreateRefund(ctx, orderID)
	if err != nil {
		var nf *core.NotFoundError
		if errors.As(err, &nf) {
			return NotFound{Message: fmt.Sprintf("Order %s not found.", orderID)}, nil
		}
		return nil, err
	}

	return Found{
		Message: fmt.Sprintf("Refund request %s has been initiated. "+
			"Your refund of $%.2f will be processed within 5-7 business days.", refund.ID, refund.Amount),
		Fields: map[string]any{"refund_id": refund.ID, "amount": refund.Amount},
	}, nil
}

func (h *RefundHandler) status(ctx context.Context, orderID string) (Result, error) {
	refund, err := h.store.GetRefundByOrder(ctx, orderID)
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
			Message: fmt.Sprintf("No refund request found for order %s. Would you like to initiate a return?", orderID),
			Fields:  map[string]any{"has_refund": false},
		}, nil
	}

	var message string
	switch refund.Status {
	case "pending":
		message = "Your refund request is being processed."
	case "processing", "approved":
		message = "Your refund has been approved and is being processed."
	case "completed":
		message = fmt.Sprintf("Your refund of $%.2f has been completed.", refund.Amount)
	default:
		message = fmt.Sprintf("Refund status: %s", refund.Status)
	}
	if !refund.ExpectedCompletion.IsZero() {
		message += fmt.Sprintf(" Expected completion: %s", refund.ExpectedCompletion.Format(dateFormat))
	}

	return Found{
		Message: message,
		Fields:  map[string]any{"has_refund": true, "refund_id": refund.ID, "status": refund.Status},
	}, nil
}
