package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/services"
)

type fakeCatalogService struct {
	products   []domain.Product
	product    domain.Product
	collection domain.Collection
	err        error
	lastQuery  services.ListProductsQuery
}

func (f *fakeCatalogService) ListProducts(ctx context.Context, query services.ListProductsQuery) ([]domain.Product, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalogService) GetProduct(ctx context.Context, handle string) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	return f.product, nil
}

func (f *fakeCatalogService) CollectionProducts(ctx context.Context, handle string, limit int) (domain.Collection, error) {
	if f.err != nil {
		return domain.Collection{}, f.err
	}
	return f.collection, nil
}

func newCatalogRouter(catalog services.CatalogService) chi.Router {
	handlers := NewCatalogHandlers(catalog)
	r := chi.NewRouter()
	r.Route("/products", handlers.ProductRoutes)
	r.Route("/collections", handlers.CollectionRoutes)
	return r
}

func testProduct() domain.Product {
	return domain.Product{
		ID:     "gid://shopify/Product/1",
		Handle: "custom-stickers",
		Title:  "Custom Stickers",
		Variants: []domain.Variant{
			{
				ID:               "v1",
				AvailableForSale: true,
				Price:            domain.Money{Amount: "14.00", CurrencyCode: "USD"},
				SelectedOptions: []domain.SelectedOption{
					{Name: "Size", Value: `3"`},
				},
			},
			{
				ID:    "v2",
				Price: domain.Money{Amount: "18.00", CurrencyCode: "USD"},
				SelectedOptions: []domain.SelectedOption{
					{Name: "Size", Value: `10"`},
				},
			},
		},
	}
}

func TestGetProductEndpoint(t *testing.T) {
	catalog := &fakeCatalogService{product: testProduct()}
	router := newCatalogRouter(catalog)

	req := httptest.NewRequest(http.MethodGet, "/products/custom-stickers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Product.Handle != "custom-stickers" {
		t.Errorf("handle = %q", resp.Product.Handle)
	}
	if len(resp.Product.Variants) != 2 {
		t.Errorf("variants = %d, want 2", len(resp.Product.Variants))
	}
	// Options are derived from variants with numerically sorted values.
	if len(resp.Product.Options) != 1 || resp.Product.Options[0].Name != "Size" {
		t.Fatalf("options = %+v", resp.Product.Options)
	}
	if got := resp.Product.Options[0].Values; len(got) != 2 || got[0] != `3"` || got[1] != `10"` {
		t.Errorf("size values = %v, want [3\" 10\"]", got)
	}
}

func TestGetProductEndpointNotFound(t *testing.T) {
	catalog := &fakeCatalogService{err: fmt.Errorf("%w: missing", services.ErrCatalogNotFound)}
	router := newCatalogRouter(catalog)

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListProductsEndpoint(t *testing.T) {
	catalog := &fakeCatalogService{products: []domain.Product{testProduct()}}
	router := newCatalogRouter(catalog)

	req := httptest.NewRequest(http.MethodGet, "/products?limit=5&query=sticker", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if catalog.lastQuery.Limit != 5 || catalog.lastQuery.Query != "sticker" {
		t.Errorf("query = %+v", catalog.lastQuery)
	}

	var resp productListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}
}

func TestListProductsEndpointRejectsBadLimit(t *testing.T) {
	router := newCatalogRouter(&fakeCatalogService{})

	for _, raw := range []string{"zero", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/products?limit="+raw, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestCollectionProductsEndpoint(t *testing.T) {
	catalog := &fakeCatalogService{
		collection: domain.Collection{Handle: "featured", Products: []domain.Product{testProduct()}},
	}
	router := newCatalogRouter(catalog)

	req := httptest.NewRequest(http.MethodGet, "/collections/featured/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var resp collectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Collection.Handle != "featured" {
		t.Errorf("handle = %q", resp.Collection.Handle)
	}
	if len(resp.Collection.Products) != 1 {
		t.Errorf("products = %d, want 1", len(resp.Collection.Products))
	}
}

func TestCatalogEndpointUpstreamFailure(t *testing.T) {
	catalog := &fakeCatalogService{err: fmt.Errorf("%w: boom", services.ErrCatalogUpstream)}
	router := newCatalogRouter(catalog)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
