// Package server exposes the chat agent and the domain records over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hupe1980/shopagent/catalog"
	"github.com/hupe1980/shopagent/core"
	"github.com/hupe1980/shopagent/orchestrator"
	"github.com/hupe1980/shopagent/store"
)

// Handler serves the API routes.
type Handler struct {
	orch  *orchestrator.Orchestrator
	store store.Store
	graph *catalog.Graph
}

// NewHandler creates the API handler.
func NewHandler(orch *orchestrator.Orchestrator, s store.Store, graph *catalog.Graph) *Handler {
	return &Handler{orch: orch, store: s, graph: graph}
}

// New builds an Echo server with the standard middleware and all routes
// registered.
func New(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the API on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/api/chat", h.Chat)
	e.GET("/api/products", h.ListProducts)
	e.GET("/api/products/compare", h.CompareProducts)
	e.GET("/api/products/:id", h.GetProduct)
	e.GET("/api/orders/:id", h.GetOrder)
	e.POST("/api/complaints", h.CreateComplaint)
	e.POST("/api/refunds/:order_id", h.CreateRefund)
	e.GET("/api/refunds/:order_id", h.GetRefund)
	e.GET("/api/delivery/:order_id", h.GetDelivery)
	e.GET("/api/metrics", h.Metrics)
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Chat runs one conversational turn.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req core.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	resp := h.orch.Process(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}

// ListProducts returns the full catalog.
// GET /api/products
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.store.ListProducts(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list products"})
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products, "count": len(products)})
}

// GetProduct returns one catalog entry.
// GET /api/products/:id
func (h *Handler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	product, err := h.store.GetProduct(c.Request().Context(), id)
	if err != nil {
		return h.domainError(c, err, "Product not found")
	}
	return c.JSON(http.StatusOK, product)
}

// CompareProducts compares catalog entries by id.
// GET /api/products/compare?ids=3,7
func (h *Handler) CompareProducts(c echo.Context) error {
	ids, err := parseIDList(c.QueryParam("ids"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	cmp, err := h.graph.Compare(ids)
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Message})
		}
		return h.domainError(c, err, "Product not found")
	}
	return c.JSON(http.StatusOK, cmp)
}

// GetOrder returns one order.
// GET /api/orders/:id
func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.store.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.domainError(c, err, "Order not found")
	}
	return c.JSON(http.StatusOK, order)
}

// ComplaintRequest is the body for filing a complaint.
type ComplaintRequest struct {
	OrderID string `json:"order_id"`
	Details string `json:"details"`
}

// CreateComplaint files a complaint.
// POST /api/complaints
func (h *Handler) CreateComplaint(c echo.Context) error {
	var req ComplaintRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "order_id is required"})
	}

	complaint, err := h.store.CreateComplaint(c.Request().Context(), req.OrderID, req.Details)
	if err != nil {
		return h.domainError(c, err, "Order not found")
	}
	return c.JSON(http.StatusCreated, complaint)
}

// CreateRefund initiates a refund for an order.
// POST /api/refunds/:order_id
func (h *Handler) CreateRefund(c echo.Context) error {
	refund, err := h.store.CreateRefund(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return h.domainError(c, err, "Order not found")
	}
	return c.JSON(http.StatusCreated, refund)
}

// GetRefund returns the refund filed against an order.
// GET /api/refunds/:order_id
func (h *Handler) GetRefund(c echo.Context) error {
	refund, err := h.store.GetRefundByOrder(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return h.domainError(c, err, "Refund not found")
	}
	return c.JSON(http.StatusOK, refund)
}

// GetDelivery returns the shipping record for an order.
// GET /api/delivery/:order_id
func (h *Handler) GetDelivery(c echo.Context) error {
	delivery, err := h.store.GetDelivery(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		return h.domainError(c, err, "Delivery information not found")
	}
	return c.JSON(http.StatusOK, delivery)
}

// Metrics exposes index and session counters.
// GET /api/metrics
func (h *Handler) Metrics(c echo.Context) error {
	stats := h.orch.IndexStats()
	return c.JSON(http.StatusOK, map[string]any{
		"index_entries":   stats.Entries,
		"index_dimension": stats.Dimension,
		"sessions":        h.orch.SessionCount(),
		"products":        h.graph.Len(),
	})
}

func (h *Handler) domainError(c echo.Context, err error, notFoundMsg string) error {
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": notFoundMsg})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, &core.ValidationError{Message: "ids query parameter is required"}
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, &core.ValidationError{Message: "ids must be comma-separated integers"}
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// Start runs the server until ctx is cancelled.
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		return e.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
