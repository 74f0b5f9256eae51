package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/platform/httpx"
	"github.com/legendary-prints/api/internal/services"
)

const maxOrderBodySize = 64 * 1024

// OrderHandlers exposes the manual order submission endpoint.
type OrderHandlers struct {
	orders services.OrderService
}

// NewOrderHandlers constructs handlers over the order service.
func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Routes wires the /orders endpoints onto the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submitOrder)
}

type orderItemInput struct {
	ProductHandle string  `json:"productHandle,omitempty"`
	Title         string  `json:"title,omitempty"`
	Size          float64 `json:"size"`
	Quantity      int     `json:"quantity"`
	Finish        string  `json:"finish,omitempty"`
	DesignURL     string  `json:"designUrl,omitempty"`
}

type submitOrderRequest struct {
	CustomerEmail string           `json:"customerEmail"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Items         []orderItemInput `json:"items"`
}

type submitOrderResponse struct {
	Success           bool    `json:"success"`
	OrderID           string  `json:"orderId"`
	Message           string  `json:"message"`
	CustomerEmail     string  `json:"customerEmail"`
	Subtotal          float64 `json:"subtotal"`
	FormattedSubtotal string  `json:"formattedSubtotal"`
	ReceivedAt        string  `json:"receivedAt"`
}

func (h *OrderHandlers) submitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("orders_unavailable", "order service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxOrderBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req submitOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			ProductHandle: item.ProductHandle,
			Title:         item.Title,
			Size:          item.Size,
			Quantity:      item.Quantity,
			Finish:        item.Finish,
			DesignURL:     item.DesignURL,
		})
	}

	receipt, err := h.orders.Submit(ctx, services.SubmitOrderCommand{
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		h.writeOrderError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, submitOrderResponse{
		Success:           true,
		OrderID:           receipt.OrderID,
		Message:           receipt.Message,
		CustomerEmail:     receipt.CustomerEmail,
		Subtotal:          receipt.Subtotal,
		FormattedSubtotal: receipt.FormattedSubtotal,
		ReceivedAt:        receipt.ReceivedAt.UTC().Format(time.RFC3339),
	})
}

func (h *OrderHandlers) writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput):
		message := strings.TrimPrefix(err.Error(), services.ErrOrderInvalidInput.Error()+": ")
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", message, http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("order_error", "failed to submit order", http.StatusInternalServerError))
	}
}
