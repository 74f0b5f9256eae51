package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/storefront"
)

const (
	defaultCatalogCacheTTL = time.Hour
	defaultCatalogPageSize = 20
	maxCatalogPageSize     = 250
)

var (
	// ErrCatalogInvalidInput indicates the caller supplied invalid query data.
	ErrCatalogInvalidInput = errors.New("catalog: invalid input")
	// ErrCatalogNotFound indicates the product or collection does not exist upstream.
	ErrCatalogNotFound = errors.New("catalog: not found")
	// ErrCatalogUpstream wraps unexpected commerce provider failures.
	ErrCatalogUpstream = errors.New("catalog: upstream failure")
)

// ListProductsQuery narrows a product listing request.
type ListProductsQuery struct {
	Limit   int
	Query   string
	SortKey string
	Reverse bool
}

// CatalogServiceDeps wires dependencies for the catalog service.
type CatalogServiceDeps struct {
	Gateway         ProductGateway
	HTMLPolicy      *bluemonday.Policy
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	Now             func() time.Time
	Logger          func(ctx context.Context, event string, fields map[string]any)
}

type catalogService struct {
	gateway     ProductGateway
	policy      *bluemonday.Policy
	defaultPage int
	maxPage     int
	logger      func(context.Context, string, map[string]any)

	products    *catalogCache[[]domain.Product]
	product     *catalogCache[domain.Product]
	collections *catalogCache[domain.Collection]
}

// NewCatalogService constructs the catalog service with the supplied dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Gateway == nil {
		return nil, errors.New("catalog service: product gateway is required")
	}
	policy := deps.HTMLPolicy
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}
	defaultPage := deps.DefaultPageSize
	if defaultPage <= 0 {
		defaultPage = defaultCatalogPageSize
	}
	maxPage := deps.MaxPageSize
	if maxPage <= 0 {
		maxPage = maxCatalogPageSize
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &catalogService{
		gateway:     deps.Gateway,
		policy:      policy,
		defaultPage: defaultPage,
		maxPage:     maxPage,
		logger:      logger,
		products:    newCatalogCache[[]domain.Product](ttl, now),
		product:     newCatalogCache[domain.Product](ttl, now),
		collections: newCatalogCache[domain.Collection](ttl, now),
	}, nil
}

func (s *catalogService) ListProducts(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	limit := s.clampLimit(query.Limit)
	key := fmt.Sprintf("%d|%s|%s|%t", limit, strings.TrimSpace(query.Query), query.SortKey, query.Reverse)
	if cached, ok := s.products.Get(key); ok {
		return cached, nil
	}

	products, err := s.gateway.Products(ctx, storefront.ProductsQuery{
		First:   limit,
		Query:   strings.TrimSpace(query.Query),
		SortKey: query.SortKey,
		Reverse: query.Reverse,
	})
	if err != nil {
		return nil, s.mapGatewayError(err)
	}

	for i := range products {
		s.sanitizeProduct(&products[i])
	}
	s.products.Put(key, products)
	s.logger(ctx, "catalog.products.fetched", map[string]any{"count": len(products)})
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, handle string) (domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Product{}, fmt.Errorf("%w: product handle is required", ErrCatalogInvalidInput)
	}
	if cached, ok := s.product.Get(handle); ok {
		return cached, nil
	}

	product, err := s.gateway.ProductByHandle(ctx, handle)
	if err != nil {
		return domain.Product{}, s.mapGatewayError(err)
	}

	s.sanitizeProduct(&product)
	s.product.Put(handle, product)
	return product, nil
}

func (s *catalogService) CollectionProducts(ctx context.Context, handle string, limit int) (domain.Collection, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Collection{}, fmt.Errorf("%w: collection handle is required", ErrCatalogInvalidInput)
	}
	limit = s.clampLimit(limit)
	key := fmt.Sprintf("%s|%d", handle, limit)
	if cached, ok := s.collections.Get(key); ok {
		return cached, nil
	}

	collection, err := s.gateway.CollectionProducts(ctx, handle, limit)
	if err != nil {
		return domain.Collection{}, s.mapGatewayError(err)
	}

	for i := range collection.Products {
		s.sanitizeProduct(&collection.Products[i])
	}
	s.collections.Put(key, collection)
	return collection, nil
}

func (s *catalogService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultPage
	}
	if limit > s.maxPage {
		return s.maxPage
	}
	return limit
}

// sanitizeProduct strips unsafe markup from vendor-supplied HTML before it
// reaches any rendering surface.
func (s *catalogService) sanitizeProduct(product *domain.Product) {
	if product.DescriptionHTML != "" {
		product.DescriptionHTML = s.policy.Sanitize(product.DescriptionHTML)
	}
}

func (s *catalogService) mapGatewayError(err error) error {
	switch {
	case errors.Is(err, storefront.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrCatalogNotFound, err)
	case errors.Is(err, storefront.ErrUserError):
		return fmt.Errorf("%w: %v", ErrCatalogInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrCatalogUpstream, err)
	}
}

type catalogCacheEntry[T any] struct {
	value   T
	expires time.Time
}

// catalogCache is a TTL map guarding repeated upstream reads. Snapshots are
// stored as-is and never mutated after insertion.
type catalogCache[T any] struct {
	ttl time.Duration
	now func() time.Time
	mu  sync.RWMutex
	m   map[string]catalogCacheEntry[T]
}

func newCatalogCache[T any](ttl time.Duration, now func() time.Time) *catalogCache[T] {
	return &catalogCache[T]{
		ttl: ttl,
		now: now,
		m:   make(map[string]catalogCacheEntry[T]),
	}
}

func (c *catalogCache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.RLock()
	entry, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return zero, false
	}
	return entry.value, true
}

func (c *catalogCache[T]) Put(key string, value T) {
	c.mu.Lock()
	c.m[key] = catalogCacheEntry[T]{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
