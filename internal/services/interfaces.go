package services

import (
	"context"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/storefront"
)

// ProductGateway reads catalog data from the commerce provider. The provider
// is the system of record; this layer never writes catalog state.
type ProductGateway interface {
	Products(ctx context.Context, q storefront.ProductsQuery) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (domain.Product, error)
	CollectionProducts(ctx context.Context, handle string, first int) (domain.Collection, error)
}

// CartGateway forwards cart mutations to the commerce provider.
type CartGateway interface {
	CreateCart(ctx context.Context, lines []domain.CartLineInput) (domain.Cart, error)
	Cart(ctx context.Context, cartID string) (domain.Cart, error)
	AddCartLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (domain.Cart, error)
	UpdateCartLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (domain.Cart, error)
	RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error)
}

// CatalogService serves sanitized catalog snapshots with short-lived caching.
type CatalogService interface {
	ListProducts(ctx context.Context, query ListProductsQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, handle string) (domain.Product, error)
	CollectionProducts(ctx context.Context, handle string, limit int) (domain.Collection, error)
}

// CartService manages shopper carts through the commerce provider.
type CartService interface {
	CreateCart(ctx context.Context, lines []domain.CartLineInput) (domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error)
	AddCustomItem(ctx context.Context, cmd AddCustomItemCommand) (domain.Cart, error)
}

// OrderService accepts manually processed orders.
type OrderService interface {
	Submit(ctx context.Context, cmd SubmitOrderCommand) (domain.OrderReceipt, error)
}
