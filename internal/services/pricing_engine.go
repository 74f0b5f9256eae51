package services

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/legendary-prints/api/internal/domain"
)

const (
	// basePricePerUnit is calibrated to a 2-inch sticker.
	basePricePerUnit  = 0.20
	baseSizeInches    = 2.0
	minStickerSize    = 1.0
	maxStickerSize    = 50.0
	minimumOrderTotal = 20.00

	bulkTierQuantity     = 1000
	bulkTierDiscount     = 0.15
	standardTierQuantity = 500
	standardTierDiscount = 0.10
)

// ErrPricingInvalidSize indicates a sticker size outside the printable range.
// Sizes are validated at the edge, so hitting this deeper in the stack is a
// programming error rather than bad shopper input.
var ErrPricingInvalidSize = errors.New("pricing: size out of range")

var defaultFinishMultipliers = map[string]float64{
	"glossy":      1,
	"matte":       1,
	"holographic": 1,
	"clear":       1,
}

// PricingEngineDeps wires dependencies for the pricing engine.
type PricingEngineDeps struct {
	FinishMultipliers map[string]float64
}

// PricingEngine computes deterministic sticker prices with volume discounts
// and a minimum-order floor. It holds no mutable state and is safe for
// concurrent use.
type PricingEngine struct {
	finishMultipliers map[string]float64
	printer           *message.Printer
}

// NewPricingEngine constructs a pricing engine. A nil finish table falls back
// to the built-in one.
func NewPricingEngine(deps PricingEngineDeps) *PricingEngine {
	multipliers := deps.FinishMultipliers
	if multipliers == nil {
		multipliers = defaultFinishMultipliers
	}
	return &PricingEngine{
		finishMultipliers: multipliers,
		printer:           message.NewPrinter(language.AmericanEnglish),
	}
}

// SizeMultiplier scales the base unit price linearly with sticker diameter.
func (e *PricingEngine) SizeMultiplier(size float64) (float64, error) {
	if size < minStickerSize || size > maxStickerSize {
		return 0, fmt.Errorf("%w: %g inches (must be between %g and %g)", ErrPricingInvalidSize, size, minStickerSize, maxStickerSize)
	}
	return size / baseSizeInches, nil
}

// FinishMultiplier looks up the multiplier for a finish. Unknown finishes
// default to 1.
func (e *PricingEngine) FinishMultiplier(finish string) float64 {
	if m, ok := e.finishMultipliers[finish]; ok {
		return m
	}
	return 1
}

// QuantityDiscount returns the volume discount fraction for a quantity.
// Boundaries are inclusive of the higher tier.
func (e *PricingEngine) QuantityDiscount(quantity int) float64 {
	switch {
	case quantity >= bulkTierQuantity:
		return bulkTierDiscount
	case quantity >= standardTierQuantity:
		return standardTierDiscount
	default:
		return 0
	}
}

// TotalPrice computes the discounted order total, floored at the minimum
// order total.
func (e *PricingEngine) TotalPrice(size float64, quantity int, finish string) (float64, error) {
	sizeMult, err := e.SizeMultiplier(size)
	if err != nil {
		return 0, err
	}
	base := basePricePerUnit * float64(quantity) * sizeMult * e.FinishMultiplier(finish)
	total := base * (1 - e.QuantityDiscount(quantity))
	return math.Max(total, minimumOrderTotal), nil
}

// PricePerUnit computes the per-sticker price after discounts and the floor.
func (e *PricingEngine) PricePerUnit(size float64, quantity int, finish string) (float64, error) {
	total, err := e.TotalPrice(size, quantity, finish)
	if err != nil {
		return 0, err
	}
	if quantity < 1 {
		return 0, errors.New("pricing: quantity must be at least 1")
	}
	return round2(total / float64(quantity)), nil
}

// Breakdown computes the full quote for a sticker configuration.
//
// A size outside the printable range is a hard error. A quantity below 1 is
// an expected shopper mistake and comes back as a result with Valid false.
func (e *PricingEngine) Breakdown(size float64, quantity int, finish string) (domain.PricingBreakdown, error) {
	sizeMult, err := e.SizeMultiplier(size)
	if err != nil {
		return domain.PricingBreakdown{}, err
	}

	if quantity < 1 {
		return domain.PricingBreakdown{
			Valid:    false,
			Error:    "quantity must be at least 1",
			Size:     size,
			Quantity: quantity,
			Finish:   finish,
		}, nil
	}

	base := basePricePerUnit * float64(quantity) * sizeMult * e.FinishMultiplier(finish)
	discount := e.QuantityDiscount(quantity)
	discountAmount := base * discount
	total := math.Max(base-discountAmount, minimumOrderTotal)
	perUnit := round2(total / float64(quantity))

	return domain.PricingBreakdown{
		Valid:                   true,
		BaseTotal:               base,
		Discount:                discount,
		DiscountAmount:          discountAmount,
		TotalPrice:              total,
		PricePerUnit:            perUnit,
		FormattedBaseTotal:      e.FormatCurrency(base),
		FormattedDiscountAmount: e.FormatCurrency(discountAmount),
		FormattedTotalPrice:     e.FormatCurrency(total),
		FormattedPricePerUnit:   e.FormatCurrency(perUnit),
		Size:                    size,
		Quantity:                quantity,
		Finish:                  finish,
	}, nil
}

// FormatCurrency renders a USD amount with a dollar sign, thousands
// separators, and exactly two decimal places. Half cents round away from
// zero.
func (e *PricingEngine) FormatCurrency(amount float64) string {
	return e.printer.Sprintf("$%v", number.Decimal(round2(amount),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// QuantityTiers returns the public volume-discount table, lowest tier first.
func (e *PricingEngine) QuantityTiers() []domain.QuantityTier {
	return []domain.QuantityTier{
		{MinQuantity: 20, Label: "20-499", DiscountPercent: 0},
		{MinQuantity: standardTierQuantity, Label: "500-999", DiscountPercent: 10},
		{MinQuantity: bulkTierQuantity, Label: "1000+", DiscountPercent: 15},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
