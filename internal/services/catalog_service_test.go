package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/storefront"
)

type fakeProductGateway struct {
	products    []domain.Product
	product     domain.Product
	collection  domain.Collection
	err         error
	listCalls   int
	getCalls    int
	collectCall int
}

func (f *fakeProductGateway) Products(ctx context.Context, q storefront.ProductsQuery) ([]domain.Product, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeProductGateway) ProductByHandle(ctx context.Context, handle string) (domain.Product, error) {
	f.getCalls++
	if f.err != nil {
		return domain.Product{}, f.err
	}
	return f.product, nil
}

func (f *fakeProductGateway) CollectionProducts(ctx context.Context, handle string, first int) (domain.Collection, error) {
	f.collectCall++
	if f.err != nil {
		return domain.Collection{}, f.err
	}
	return f.collection, nil
}

func TestNewCatalogServiceRequiresGateway(t *testing.T) {
	if _, err := NewCatalogService(CatalogServiceDeps{}); err == nil {
		t.Fatal("NewCatalogService() without gateway should fail")
	}
}

func TestGetProductSanitizesHTML(t *testing.T) {
	gateway := &fakeProductGateway{
		product: domain.Product{
			Handle:          "custom-stickers",
			DescriptionHTML: `<p>Great stickers</p><script>alert("x")</script>`,
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Gateway: gateway})
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}

	product, err := svc.GetProduct(context.Background(), "custom-stickers")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if strings.Contains(product.DescriptionHTML, "<script>") {
		t.Fatalf("DescriptionHTML still contains script tag: %q", product.DescriptionHTML)
	}
	if !strings.Contains(product.DescriptionHTML, "Great stickers") {
		t.Fatalf("DescriptionHTML lost safe content: %q", product.DescriptionHTML)
	}
}

func TestGetProductCaches(t *testing.T) {
	gateway := &fakeProductGateway{product: domain.Product{Handle: "custom-stickers"}}
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewCatalogService(CatalogServiceDeps{
		Gateway:  gateway,
		CacheTTL: time.Hour,
		Now:      func() time.Time { return current },
	})
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.GetProduct(context.Background(), "custom-stickers"); err != nil {
			t.Fatalf("GetProduct() error = %v", err)
		}
	}
	if gateway.getCalls != 1 {
		t.Fatalf("gateway calls = %d, want 1 (cached)", gateway.getCalls)
	}

	// TTL expiry forces a refetch.
	current = current.Add(61 * time.Minute)
	if _, err := svc.GetProduct(context.Background(), "custom-stickers"); err != nil {
		t.Fatalf("GetProduct() after expiry error = %v", err)
	}
	if gateway.getCalls != 2 {
		t.Fatalf("gateway calls = %d, want 2 after TTL expiry", gateway.getCalls)
	}
}

func TestGetProductRequiresHandle(t *testing.T) {
	svc, err := NewCatalogService(CatalogServiceDeps{Gateway: &fakeProductGateway{}})
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), "  "); !errors.Is(err, ErrCatalogInvalidInput) {
		t.Fatalf("GetProduct() error = %v, want ErrCatalogInvalidInput", err)
	}
}

func TestGetProductMapsNotFound(t *testing.T) {
	gateway := &fakeProductGateway{err: fmt.Errorf("%w: product missing", storefront.ErrNotFound)}
	svc, err := NewCatalogService(CatalogServiceDeps{Gateway: gateway})
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), "missing"); !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("GetProduct() error = %v, want ErrCatalogNotFound", err)
	}
}

func TestListProductsClampsLimitAndCachesPerKey(t *testing.T) {
	gateway := &fakeProductGateway{products: []domain.Product{{Handle: "a"}, {Handle: "b"}}}
	svc, err := NewCatalogService(CatalogServiceDeps{Gateway: gateway, DefaultPageSize: 20, MaxPageSize: 250})
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}

	if _, err := svc.ListProducts(context.Background(), ListProductsQuery{}); err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if _, err := svc.ListProducts(context.Background(), ListProductsQuery{}); err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if gateway.listCalls != 1 {
		t.Fatalf("gateway calls = %d, want 1 for identical queries", gateway.listCalls)
	}

	// A different query key bypasses the cached entry.
	if _, err := svc.ListProducts(context.Background(), ListProductsQuery{Query: "sticker"}); err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if gateway.listCalls != 2 {
		t.Fatalf("gateway calls = %d, want 2 for distinct query", gateway.listCalls)
	}
}

func TestCollectionProducts(t *testing.T) {
	gateway := &fakeProductGateway{
		collection: domain.Collection{
			Handle: "featured",
			Products: []domain.Product{
				{Handle: "a", DescriptionHTML: `<img src=x onerror=alert(1)>safe`},
			},
		},
	}
	svc, err := NewCatalogService(CatalogServiceDeps{Gateway: gateway})
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}

	collection, err := svc.CollectionProducts(context.Background(), "featured", 10)
	if err != nil {
		t.Fatalf("CollectionProducts() error = %v", err)
	}
	if strings.Contains(collection.Products[0].DescriptionHTML, "onerror") {
		t.Fatalf("DescriptionHTML not sanitized: %q", collection.Products[0].DescriptionHTML)
	}

	if _, err := svc.CollectionProducts(context.Background(), "", 10); !errors.Is(err, ErrCatalogInvalidInput) {
		t.Fatalf("CollectionProducts() error = %v, want ErrCatalogInvalidInput", err)
	}
}
