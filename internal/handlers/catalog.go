package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/platform/httpx"
	"github.com/legendary-prints/api/internal/services"
)

// CatalogHandlers exposes read-only product catalog endpoints.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs handlers over the catalog service.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// ProductRoutes wires the /products endpoints onto the provided router.
func (h *CatalogHandlers) ProductRoutes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/{handle}", h.getProduct)
}

// CollectionRoutes wires the /collections endpoints onto the provided router.
func (h *CatalogHandlers) CollectionRoutes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/{handle}/products", h.collectionProducts)
}

type productResponse struct {
	Product productPayload `json:"product"`
}

type productListResponse struct {
	Products []productPayload `json:"products"`
	Count    int              `json:"count"`
}

type collectionResponse struct {
	Collection collectionPayload `json:"collection"`
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	query := services.ListProductsQuery{
		Query:   strings.TrimSpace(r.URL.Query().Get("query")),
		SortKey: strings.TrimSpace(r.URL.Query().Get("sort")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "limit must be a positive integer", http.StatusBadRequest))
			return
		}
		query.Limit = limit
	}
	if raw := r.URL.Query().Get("reverse"); raw != "" {
		reverse, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "reverse must be a boolean", http.StatusBadRequest))
			return
		}
		query.Reverse = reverse
	}

	products, err := h.catalog.ListProducts(ctx, query)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	payload := productListResponse{Products: buildProductPayloads(products), Count: len(products)}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	handle := chi.URLParam(r, "handle")
	product, err := h.catalog.GetProduct(ctx, handle)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, productResponse{Product: buildProductPayload(product)})
}

func (h *CatalogHandlers) collectionProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	handle := chi.URLParam(r, "handle")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "limit must be a positive integer", http.StatusBadRequest))
			return
		}
		limit = parsed
	}

	collection, err := h.catalog.CollectionProducts(ctx, handle, limit)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, collectionResponse{Collection: buildCollectionPayload(collection)})
}

func (h *CatalogHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "product or collection not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("upstream_error", "catalog is temporarily unavailable", http.StatusBadGateway))
	}
}

type moneyPayload struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imagePayload struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type selectedOptionPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type variantPayload struct {
	ID                string                  `json:"id"`
	Title             string                  `json:"title"`
	AvailableForSale  bool                    `json:"availableForSale"`
	QuantityAvailable int                     `json:"quantityAvailable"`
	Price             moneyPayload            `json:"price"`
	CompareAtPrice    *moneyPayload           `json:"compareAtPrice,omitempty"`
	SelectedOptions   []selectedOptionPayload `json:"selectedOptions"`
	Image             *imagePayload           `json:"image,omitempty"`
}

type variantOptionPayload struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type productPayload struct {
	ID              string                 `json:"id"`
	Handle          string                 `json:"handle"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description,omitempty"`
	DescriptionHTML string                 `json:"descriptionHtml,omitempty"`
	Vendor          string                 `json:"vendor,omitempty"`
	ProductType     string                 `json:"productType,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	AvailableForSale bool                  `json:"availableForSale"`
	TotalInventory  int                    `json:"totalInventory"`
	FeaturedImage   *imagePayload          `json:"featuredImage,omitempty"`
	Images          []imagePayload         `json:"images,omitempty"`
	PriceRange      priceRangePayload      `json:"priceRange"`
	Options         []variantOptionPayload `json:"options"`
	Variants        []variantPayload       `json:"variants"`
}

type priceRangePayload struct {
	MinVariantPrice moneyPayload `json:"minVariantPrice"`
	MaxVariantPrice moneyPayload `json:"maxVariantPrice"`
}

type collectionPayload struct {
	ID              string           `json:"id"`
	Handle          string           `json:"handle"`
	Title           string           `json:"title"`
	DescriptionHTML string           `json:"descriptionHtml,omitempty"`
	Products        []productPayload `json:"products"`
}

func buildMoneyPayload(m domain.Money) moneyPayload {
	return moneyPayload{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

func buildMoneyPointer(m *domain.Money) *moneyPayload {
	if m == nil {
		return nil
	}
	payload := buildMoneyPayload(*m)
	return &payload
}

func buildImagePayload(img domain.Image) imagePayload {
	return imagePayload{URL: img.URL, AltText: img.AltText, Width: img.Width, Height: img.Height}
}

func buildImagePointer(img *domain.Image) *imagePayload {
	if img == nil {
		return nil
	}
	payload := buildImagePayload(*img)
	return &payload
}

func buildVariantPayload(v domain.Variant) variantPayload {
	options := make([]selectedOptionPayload, 0, len(v.SelectedOptions))
	for _, opt := range v.SelectedOptions {
		options = append(options, selectedOptionPayload{Name: opt.Name, Value: opt.Value})
	}
	return variantPayload{
		ID:                v.ID,
		Title:             v.Title,
		AvailableForSale:  v.AvailableForSale,
		QuantityAvailable: v.QuantityAvailable,
		Price:             buildMoneyPayload(v.Price),
		CompareAtPrice:    buildMoneyPointer(v.CompareAtPrice),
		SelectedOptions:   options,
		Image:             buildImagePointer(v.Image),
	}
}

func buildProductPayload(p domain.Product) productPayload {
	images := make([]imagePayload, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, buildImagePayload(img))
	}
	variants := make([]variantPayload, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, buildVariantPayload(v))
	}
	extracted := services.ExtractOptions(p)
	options := make([]variantOptionPayload, 0, len(extracted))
	for _, opt := range extracted {
		options = append(options, variantOptionPayload{Name: opt.Name, Values: opt.Values})
	}

	return productPayload{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.DescriptionHTML,
		Vendor:           p.Vendor,
		ProductType:      p.ProductType,
		Tags:             p.Tags,
		AvailableForSale: p.AvailableForSale,
		TotalInventory:   p.TotalInventory,
		FeaturedImage:    buildImagePointer(p.FeaturedImage),
		Images:           images,
		PriceRange: priceRangePayload{
			MinVariantPrice: buildMoneyPayload(p.PriceRange.MinVariantPrice),
			MaxVariantPrice: buildMoneyPayload(p.PriceRange.MaxVariantPrice),
		},
		Options:  options,
		Variants: variants,
	}
}

func buildProductPayloads(products []domain.Product) []productPayload {
	payloads := make([]productPayload, 0, len(products))
	for _, p := range products {
		payloads = append(payloads, buildProductPayload(p))
	}
	return payloads
}

func buildCollectionPayload(c domain.Collection) collectionPayload {
	return collectionPayload{
		ID:              c.ID,
		Handle:          c.Handle,
		Title:           c.Title,
		DescriptionHTML: c.DescriptionHTML,
		Products:        buildProductPayloads(c.Products),
	}
}
