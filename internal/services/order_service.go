package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/legendary-prints/api/internal/domain"
)

const orderIDPrefix = "ORD-"

const orderConfirmationMessage = "Order received! We will send you a payment link shortly."

var (
	// ErrOrderInvalidInput indicates the submission is missing required data.
	ErrOrderInvalidInput = errors.New("order: invalid input")
)

// SubmitOrderCommand carries a manually processed order submission. Payment
// is collected out of band, so no payment details appear here.
type SubmitOrderCommand struct {
	CustomerEmail string
	CustomerName  string
	CustomerPhone string
	Notes         string
	Items         []domain.OrderItem
}

// OrderServiceDeps wires dependencies for the order service.
type OrderServiceDeps struct {
	Pricing *PricingEngine
	Clock   func() time.Time
	Entropy io.Reader
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	pricing *PricingEngine
	clock   func() time.Time
	entropy io.Reader
	logger  func(context.Context, string, map[string]any)
}

// NewOrderService constructs the order service with the supplied dependencies.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Pricing == nil {
		return nil, errors.New("order service: pricing engine is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	entropy := deps.Entropy
	if entropy == nil {
		entropy = rand.Reader
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &orderService{
		pricing: deps.Pricing,
		clock:   func() time.Time { return clock().UTC() },
		entropy: entropy,
		logger:  logger,
	}, nil
}

// Submit accepts an order, reprices every line server-side, and returns a
// receipt. Client-supplied totals are never trusted.
func (s *orderService) Submit(ctx context.Context, cmd SubmitOrderCommand) (domain.OrderReceipt, error) {
	if strings.TrimSpace(cmd.CustomerEmail) == "" {
		return domain.OrderReceipt{}, fmt.Errorf("%w: customer email is required", ErrOrderInvalidInput)
	}
	if strings.TrimSpace(cmd.CustomerName) == "" {
		return domain.OrderReceipt{}, fmt.Errorf("%w: customer name is required", ErrOrderInvalidInput)
	}
	if len(cmd.Items) == 0 {
		return domain.OrderReceipt{}, fmt.Errorf("%w: at least one item is required", ErrOrderInvalidInput)
	}

	var subtotal float64
	for i, item := range cmd.Items {
		if item.Quantity < 1 {
			return domain.OrderReceipt{}, fmt.Errorf("%w: item %d has invalid quantity %d", ErrOrderInvalidInput, i, item.Quantity)
		}
		total, err := s.pricing.TotalPrice(item.Size, item.Quantity, item.Finish)
		if err != nil {
			return domain.OrderReceipt{}, fmt.Errorf("%w: item %d: %v", ErrOrderInvalidInput, i, err)
		}
		subtotal += total
	}

	now := s.clock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("order: failed to generate id: %w", err)
	}

	receipt := domain.OrderReceipt{
		OrderID:           orderIDPrefix + id.String(),
		Message:           orderConfirmationMessage,
		CustomerEmail:     strings.TrimSpace(cmd.CustomerEmail),
		Subtotal:          subtotal,
		FormattedSubtotal: s.pricing.FormatCurrency(subtotal),
		ReceivedAt:        now,
	}

	s.logger(ctx, "order.submitted", map[string]any{
		"order_id": receipt.OrderID,
		"items":    len(cmd.Items),
		"subtotal": receipt.FormattedSubtotal,
	})
	return receipt, nil
}
