package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/platform/httpx"
	"github.com/legendary-prints/api/internal/services"
)

const maxCartBodySize = 16 * 1024

// CartHandlers exposes cart endpoints backed by the commerce provider.
type CartHandlers struct {
	carts services.CartService
}

// NewCartHandlers constructs handlers over the cart service.
func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.createCart)
	r.Get("/{cartID}", h.getCart)
	r.Post("/{cartID}/lines", h.addLines)
	r.Patch("/{cartID}/lines", h.updateLines)
	r.Delete("/{cartID}/lines", h.removeLines)
}

type attributeInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type lineInput struct {
	MerchandiseID string           `json:"merchandiseId"`
	Quantity      int              `json:"quantity"`
	Attributes    []attributeInput `json:"attributes,omitempty"`
}

type lineUpdateInput struct {
	ID         string           `json:"id"`
	Quantity   int              `json:"quantity"`
	Attributes []attributeInput `json:"attributes,omitempty"`
}

type customItemInput struct {
	MerchandiseID  string  `json:"merchandiseId"`
	LineQuantity   int     `json:"lineQuantity,omitempty"`
	Size           float64 `json:"size"`
	Quantity       int     `json:"quantity"`
	Finish         string  `json:"finish,omitempty"`
	DesignURL      string  `json:"designUrl,omitempty"`
	DesignFilename string  `json:"designFilename,omitempty"`
}

type createCartRequest struct {
	Lines      []lineInput      `json:"lines,omitempty"`
	CustomItem *customItemInput `json:"customItem,omitempty"`
}

type addLinesRequest struct {
	Lines      []lineInput      `json:"lines,omitempty"`
	CustomItem *customItemInput `json:"customItem,omitempty"`
}

type updateLinesRequest struct {
	Lines []lineUpdateInput `json:"lines"`
}

type removeLinesRequest struct {
	LineIDs []string `json:"lineIds"`
}

type cartResponse struct {
	Cart cartPayload `json:"cart"`
}

type cartPayload struct {
	ID            string            `json:"id"`
	CheckoutURL   string            `json:"checkoutUrl"`
	TotalQuantity int               `json:"totalQuantity"`
	Cost          cartCostPayload   `json:"cost"`
	Lines         []cartLinePayload `json:"lines"`
}

type cartCostPayload struct {
	SubtotalAmount moneyPayload  `json:"subtotalAmount"`
	TotalAmount    moneyPayload  `json:"totalAmount"`
	TotalTaxAmount *moneyPayload `json:"totalTaxAmount,omitempty"`
}

type cartLinePayload struct {
	ID          string                 `json:"id"`
	Quantity    int                    `json:"quantity"`
	Cost        moneyPayload           `json:"cost"`
	Attributes  []attributeInput       `json:"attributes,omitempty"`
	Merchandise cartMerchandisePayload `json:"merchandise"`
}

type cartMerchandisePayload struct {
	Variant variantPayload         `json:"variant"`
	Product cartLineProductPayload `json:"product"`
}

type cartLineProductPayload struct {
	ID            string        `json:"id"`
	Handle        string        `json:"handle"`
	Title         string        `json:"title"`
	FeaturedImage *imagePayload `json:"featuredImage,omitempty"`
}

func (h *CartHandlers) createCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	var req createCartRequest
	if ok := h.decodeBody(ctx, w, r, &req, true); !ok {
		return
	}

	if req.CustomItem != nil {
		cart, err := h.carts.AddCustomItem(ctx, buildCustomItemCommand("", *req.CustomItem))
		if err != nil {
			h.writeCartError(ctx, w, err)
			return
		}
		writeJSONResponse(w, http.StatusCreated, cartResponse{Cart: buildCartPayload(cart)})
		return
	}

	cart, err := h.carts.CreateCart(ctx, buildLineInputs(req.Lines))
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cart, err := h.carts.GetCart(ctx, chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) addLines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cartID := chi.URLParam(r, "cartID")
	var req addLinesRequest
	if ok := h.decodeBody(ctx, w, r, &req, false); !ok {
		return
	}

	if req.CustomItem != nil {
		cart, err := h.carts.AddCustomItem(ctx, buildCustomItemCommand(cartID, *req.CustomItem))
		if err != nil {
			h.writeCartError(ctx, w, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
		return
	}

	cart, err := h.carts.AddLines(ctx, cartID, buildLineInputs(req.Lines))
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) updateLines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cartID := chi.URLParam(r, "cartID")
	var req updateLinesRequest
	if ok := h.decodeBody(ctx, w, r, &req, false); !ok {
		return
	}

	lines := make([]domain.CartLineUpdateInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, domain.CartLineUpdateInput{
			LineID:     line.ID,
			Quantity:   line.Quantity,
			Attributes: buildAttributes(line.Attributes),
		})
	}

	cart, err := h.carts.UpdateLines(ctx, cartID, lines)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

func (h *CartHandlers) removeLines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	cartID := chi.URLParam(r, "cartID")
	var req removeLinesRequest
	if ok := h.decodeBody(ctx, w, r, &req, false); !ok {
		return
	}

	cart, err := h.carts.RemoveLines(ctx, cartID, req.LineIDs)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cartResponse{Cart: buildCartPayload(cart)})
}

// decodeBody reads and unmarshals the request body. When allowEmpty is set,
// a missing body decodes to the zero request.
func (h *CartHandlers) decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any, allowEmpty bool) bool {
	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		switch {
		case errors.Is(err, errEmptyBody) && allowEmpty:
			return true
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return false
	}
	return true
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartInvalidInput):
		message := strings.TrimPrefix(err.Error(), services.ErrCartInvalidInput.Error()+": ")
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", message, http.StatusBadRequest))
	case errors.Is(err, services.ErrCartNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("cart_not_found", "cart not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("upstream_error", "cart is temporarily unavailable", http.StatusBadGateway))
	}
}

func buildCustomItemCommand(cartID string, input customItemInput) services.AddCustomItemCommand {
	return services.AddCustomItemCommand{
		CartID:         cartID,
		MerchandiseID:  input.MerchandiseID,
		LineQuantity:   input.LineQuantity,
		Size:           input.Size,
		Quantity:       input.Quantity,
		Finish:         input.Finish,
		DesignURL:      input.DesignURL,
		DesignFilename: input.DesignFilename,
	}
}

func buildLineInputs(lines []lineInput) []domain.CartLineInput {
	out := make([]domain.CartLineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, domain.CartLineInput{
			MerchandiseID: line.MerchandiseID,
			Quantity:      line.Quantity,
			Attributes:    buildAttributes(line.Attributes),
		})
	}
	return out
}

func buildAttributes(attributes []attributeInput) []domain.Attribute {
	if len(attributes) == 0 {
		return nil
	}
	out := make([]domain.Attribute, 0, len(attributes))
	for _, attr := range attributes {
		out = append(out, domain.Attribute{Key: attr.Key, Value: attr.Value})
	}
	return out
}

func buildCartPayload(cart domain.Cart) cartPayload {
	lines := make([]cartLinePayload, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		attributes := make([]attributeInput, 0, len(line.Attributes))
		for _, attr := range line.Attributes {
			attributes = append(attributes, attributeInput{Key: attr.Key, Value: attr.Value})
		}
		lines = append(lines, cartLinePayload{
			ID:         line.ID,
			Quantity:   line.Quantity,
			Cost:       buildMoneyPayload(line.Cost),
			Attributes: attributes,
			Merchandise: cartMerchandisePayload{
				Variant: buildVariantPayload(line.Merchandise.Variant),
				Product: cartLineProductPayload{
					ID:            line.Merchandise.Product.ID,
					Handle:        line.Merchandise.Product.Handle,
					Title:         line.Merchandise.Product.Title,
					FeaturedImage: buildImagePointer(line.Merchandise.Product.FeaturedImage),
				},
			},
		})
	}
	return cartPayload{
		ID:            cart.ID,
		CheckoutURL:   cart.CheckoutURL,
		TotalQuantity: cart.TotalQuantity,
		Cost: cartCostPayload{
			SubtotalAmount: buildMoneyPayload(cart.Cost.SubtotalAmount),
			TotalAmount:    buildMoneyPayload(cart.Cost.TotalAmount),
			TotalTaxAmount: buildMoneyPointer(cart.Cost.TotalTaxAmount),
		},
		Lines: lines,
	}
}
