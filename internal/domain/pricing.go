package domain

import "time"

// PricingBreakdown captures every component of a sticker price quote.
// Values are recomputed on each call and never persisted; amounts keep full
// float precision until the Formatted* fields round them for display.
type PricingBreakdown struct {
	Valid                   bool
	Error                   string
	BaseTotal               float64
	Discount                float64
	DiscountAmount          float64
	TotalPrice              float64
	PricePerUnit            float64
	FormattedBaseTotal      string
	FormattedDiscountAmount string
	FormattedTotalPrice     string
	FormattedPricePerUnit   string
	Size                    float64
	Quantity                int
	Finish                  string
}

// QuantityTier describes one row of the public volume-discount table.
type QuantityTier struct {
	MinQuantity     int
	Label           string
	DiscountPercent int
}

// CustomValueResult reports whether a shopper-supplied custom option value is
// acceptable. Failures are expected outcomes, never errors.
type CustomValueResult struct {
	Valid  bool
	Reason string
}

// OrderItem is a single configured sticker line on a manually submitted order.
type OrderItem struct {
	ProductHandle string
	Title         string
	Size          float64
	Quantity      int
	Finish        string
	DesignURL     string
	Total         float64
}

// OrderReceipt confirms a manual order submission back to the shopper.
type OrderReceipt struct {
	OrderID           string
	Message           string
	CustomerEmail     string
	Subtotal          float64
	FormattedSubtotal string
	ReceivedAt        time.Time
}
