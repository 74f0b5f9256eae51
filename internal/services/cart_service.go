package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/storefront"
)

// Attribute keys carried on custom sticker cart lines. The fulfillment team
// reads these verbatim from the provider's order view, so the exact strings
// matter.
const (
	attrCustomDesignURL    = "Custom Design URL"
	attrDesignFilename     = "Design Filename"
	attrCustomSize         = "Custom Size"
	attrCustomQuantity     = "Custom Quantity"
	attrCustomPrice        = "Custom Price"
	attrCustomPricePerUnit = "Custom Price Per Unit"
)

var (
	// ErrCartInvalidInput indicates the caller supplied invalid cart data.
	ErrCartInvalidInput = errors.New("cart: invalid input")
	// ErrCartNotFound indicates the cart does not exist upstream.
	ErrCartNotFound = errors.New("cart: not found")
	// ErrCartUpstream wraps unexpected commerce provider failures.
	ErrCartUpstream = errors.New("cart: upstream failure")
)

// AddCustomItemCommand describes a configured custom sticker to add to a
// cart. A blank CartID creates a fresh cart carrying the item.
type AddCustomItemCommand struct {
	CartID         string
	MerchandiseID  string
	LineQuantity   int
	Size           float64
	Quantity       int
	Finish         string
	DesignURL      string
	DesignFilename string
}

// CartServiceDeps wires dependencies for the cart service.
type CartServiceDeps struct {
	Gateway CartGateway
	Pricing *PricingEngine
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

type cartService struct {
	gateway CartGateway
	pricing *PricingEngine
	logger  func(context.Context, string, map[string]any)
}

// NewCartService constructs the cart service with the supplied dependencies.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Gateway == nil {
		return nil, errors.New("cart service: cart gateway is required")
	}
	if deps.Pricing == nil {
		return nil, errors.New("cart service: pricing engine is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &cartService{
		gateway: deps.Gateway,
		pricing: deps.Pricing,
		logger:  logger,
	}, nil
}

func (s *cartService) CreateCart(ctx context.Context, lines []domain.CartLineInput) (domain.Cart, error) {
	cart, err := s.gateway.CreateCart(ctx, lines)
	if err != nil {
		return domain.Cart{}, s.mapGatewayError(err)
	}
	s.logger(ctx, "cart.created", map[string]any{"cart_id": cart.ID, "lines": len(lines)})
	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return domain.Cart{}, fmt.Errorf("%w: cart id is required", ErrCartInvalidInput)
	}
	cart, err := s.gateway.Cart(ctx, cartID)
	if err != nil {
		return domain.Cart{}, s.mapGatewayError(err)
	}
	return cart, nil
}

func (s *cartService) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (domain.Cart, error) {
	if err := validateCartLines(cartID, len(lines)); err != nil {
		return domain.Cart{}, err
	}
	cart, err := s.gateway.AddCartLines(ctx, cartID, lines)
	if err != nil {
		return domain.Cart{}, s.mapGatewayError(err)
	}
	return cart, nil
}

func (s *cartService) UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (domain.Cart, error) {
	if err := validateCartLines(cartID, len(lines)); err != nil {
		return domain.Cart{}, err
	}
	cart, err := s.gateway.UpdateCartLines(ctx, cartID, lines)
	if err != nil {
		return domain.Cart{}, s.mapGatewayError(err)
	}
	return cart, nil
}

func (s *cartService) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error) {
	if err := validateCartLines(cartID, len(lineIDs)); err != nil {
		return domain.Cart{}, err
	}
	cart, err := s.gateway.RemoveCartLines(ctx, cartID, lineIDs)
	if err != nil {
		return domain.Cart{}, s.mapGatewayError(err)
	}
	return cart, nil
}

// AddCustomItem validates a custom sticker configuration, prices it, and
// adds it to the cart with the fulfillment attributes attached.
func (s *cartService) AddCustomItem(ctx context.Context, cmd AddCustomItemCommand) (domain.Cart, error) {
	if strings.TrimSpace(cmd.MerchandiseID) == "" {
		return domain.Cart{}, fmt.Errorf("%w: merchandise id is required", ErrCartInvalidInput)
	}

	sizeValue := formatSize(cmd.Size)
	if result := ValidateCustomValue("Size", sizeValue); !result.Valid {
		return domain.Cart{}, fmt.Errorf("%w: %s", ErrCartInvalidInput, result.Reason)
	}
	if result := ValidateCustomValue("Quantity", strconv.Itoa(cmd.Quantity)); !result.Valid {
		return domain.Cart{}, fmt.Errorf("%w: %s", ErrCartInvalidInput, result.Reason)
	}

	breakdown, err := s.pricing.Breakdown(cmd.Size, cmd.Quantity, cmd.Finish)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %v", ErrCartInvalidInput, err)
	}
	if !breakdown.Valid {
		return domain.Cart{}, fmt.Errorf("%w: %s", ErrCartInvalidInput, breakdown.Error)
	}

	attributes := []domain.Attribute{
		{Key: attrCustomSize, Value: sizeValue + `"`},
		{Key: attrCustomQuantity, Value: strconv.Itoa(cmd.Quantity)},
		{Key: attrCustomPrice, Value: breakdown.FormattedTotalPrice},
		{Key: attrCustomPricePerUnit, Value: breakdown.FormattedPricePerUnit},
	}
	if cmd.DesignURL != "" {
		attributes = append(attributes, domain.Attribute{Key: attrCustomDesignURL, Value: cmd.DesignURL})
	}
	if cmd.DesignFilename != "" {
		attributes = append(attributes, domain.Attribute{Key: attrDesignFilename, Value: cmd.DesignFilename})
	}

	lineQuantity := cmd.LineQuantity
	if lineQuantity <= 0 {
		lineQuantity = 1
	}
	line := domain.CartLineInput{
		MerchandiseID: cmd.MerchandiseID,
		Quantity:      lineQuantity,
		Attributes:    attributes,
	}

	var cart domain.Cart
	if strings.TrimSpace(cmd.CartID) == "" {
		cart, err = s.gateway.CreateCart(ctx, []domain.CartLineInput{line})
	} else {
		cart, err = s.gateway.AddCartLines(ctx, cmd.CartID, []domain.CartLineInput{line})
	}
	if err != nil {
		return domain.Cart{}, s.mapGatewayError(err)
	}

	s.logger(ctx, "cart.custom_item.added", map[string]any{
		"cart_id":  cart.ID,
		"size":     cmd.Size,
		"quantity": cmd.Quantity,
		"total":    breakdown.FormattedTotalPrice,
	})
	return cart, nil
}

func validateCartLines(cartID string, lineCount int) error {
	if strings.TrimSpace(cartID) == "" {
		return fmt.Errorf("%w: cart id is required", ErrCartInvalidInput)
	}
	if lineCount == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrCartInvalidInput)
	}
	return nil
}

func (s *cartService) mapGatewayError(err error) error {
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrCartNotFound, err)
	case errors.Is(err, storefront.ErrUserError):
		return fmt.Errorf("%w: %v", ErrCartInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrCartUpstream, err)
	}
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}
