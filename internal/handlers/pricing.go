package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/legendary-prints/api/internal/platform/httpx"
	"github.com/legendary-prints/api/internal/services"
)

// PricingHandlers exposes the sticker quote endpoints.
type PricingHandlers struct {
	pricing *services.PricingEngine
}

// NewPricingHandlers constructs handlers over the pricing engine.
func NewPricingHandlers(pricing *services.PricingEngine) *PricingHandlers {
	return &PricingHandlers{pricing: pricing}
}

// Routes wires the /pricing endpoints onto the provided router.
func (h *PricingHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/quote", h.quote)
	r.Get("/tiers", h.tiers)
}

type quoteResponse struct {
	Valid                   bool    `json:"valid"`
	Size                    float64 `json:"size"`
	Quantity                int     `json:"quantity"`
	Finish                  string  `json:"finish,omitempty"`
	BaseTotal               float64 `json:"baseTotal"`
	Discount                float64 `json:"discount"`
	DiscountAmount          float64 `json:"discountAmount"`
	TotalPrice              float64 `json:"totalPrice"`
	PricePerUnit            float64 `json:"pricePerUnit"`
	FormattedBaseTotal      string  `json:"formattedBaseTotal"`
	FormattedDiscountAmount string  `json:"formattedDiscountAmount"`
	FormattedTotalPrice     string  `json:"formattedTotalPrice"`
	FormattedPricePerUnit   string  `json:"formattedPricePerUnit"`
}

type tierPayload struct {
	MinQuantity     int    `json:"minQuantity"`
	Label           string `json:"label"`
	DiscountPercent int    `json:"discountPercent"`
}

type tiersResponse struct {
	Tiers []tierPayload `json:"tiers"`
}

func (h *PricingHandlers) quote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.pricing == nil {
		httpx.WriteError(ctx, w, httpx.NewError("pricing_unavailable", "pricing engine is unavailable", http.StatusServiceUnavailable))
		return
	}

	size, err := strconv.ParseFloat(r.URL.Query().Get("size"), 64)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "size must be a number", http.StatusBadRequest))
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "quantity must be an integer", http.StatusBadRequest))
		return
	}
	finish := r.URL.Query().Get("finish")

	breakdown, err := h.pricing.Breakdown(size, quantity, finish)
	if err != nil {
		if errors.Is(err, services.ErrPricingInvalidSize) {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_size", err.Error(), http.StatusBadRequest))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("pricing_error", "failed to compute quote", http.StatusInternalServerError))
		return
	}
	if !breakdown.Valid {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_quantity", breakdown.Error, http.StatusBadRequest))
		return
	}

	writeJSONResponse(w, http.StatusOK, quoteResponse{
		Valid:                   breakdown.Valid,
		Size:                    breakdown.Size,
		Quantity:                breakdown.Quantity,
		Finish:                  breakdown.Finish,
		BaseTotal:               breakdown.BaseTotal,
		Discount:                breakdown.Discount,
		DiscountAmount:          breakdown.DiscountAmount,
		TotalPrice:              breakdown.TotalPrice,
		PricePerUnit:            breakdown.PricePerUnit,
		FormattedBaseTotal:      breakdown.FormattedBaseTotal,
		FormattedDiscountAmount: breakdown.FormattedDiscountAmount,
		FormattedTotalPrice:     breakdown.FormattedTotalPrice,
		FormattedPricePerUnit:   breakdown.FormattedPricePerUnit,
	})
}

func (h *PricingHandlers) tiers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.pricing == nil {
		httpx.WriteError(ctx, w, httpx.NewError("pricing_unavailable", "pricing engine is unavailable", http.StatusServiceUnavailable))
		return
	}

	tiers := h.pricing.QuantityTiers()
	payload := tiersResponse{Tiers: make([]tierPayload, 0, len(tiers))}
	for _, tier := range tiers {
		payload.Tiers = append(payload.Tiers, tierPayload{
			MinQuantity:     tier.MinQuantity,
			Label:           tier.Label,
			DiscountPercent: tier.DiscountPercent,
		})
	}
	writeJSONResponse(w, http.StatusOK, payload)
}
