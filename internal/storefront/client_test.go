package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/legendary-prints/api/internal/platform/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.StorefrontConfig{
		Domain:      "test-shop.myshopify.com",
		AccessToken: "token",
	}, zap.NewNop(), WithEndpoint(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, server
}

func TestNewClientNormalizesDomain(t *testing.T) {
	client, err := NewClient(config.StorefrontConfig{
		Domain:      "https://test-shop.myshopify.com/",
		AccessToken: "token",
		APIVersion:  "2026-01",
	}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	want := "https://test-shop.myshopify.com/api/2026-01/graphql.json"
	if client.endpoint != want {
		t.Fatalf("endpoint = %q, want %q", client.endpoint, want)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.StorefrontConfig{AccessToken: "token"}, nil); err == nil {
		t.Fatal("NewClient() without domain should fail")
	}
	if _, err := NewClient(config.StorefrontConfig{Domain: "shop.example.com"}, nil); err == nil {
		t.Fatal("NewClient() without access token should fail")
	}
}

func TestProductByHandle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Storefront-Access-Token"); got != "token" {
			t.Errorf("access token header = %q, want %q", got, "token")
		}
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Variables["handle"] != "custom-stickers" {
			t.Errorf("handle variable = %v, want custom-stickers", req.Variables["handle"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"product":{
			"id":"gid://shopify/Product/1",
			"handle":"custom-stickers",
			"title":"Custom Stickers",
			"availableForSale":true,
			"variants":{"edges":[{"node":{
				"id":"gid://shopify/ProductVariant/11",
				"title":"3\" / 50",
				"availableForSale":true,
				"price":{"amount":"14.00","currencyCode":"USD"},
				"selectedOptions":[{"name":"Size","value":"3\""},{"name":"Quantity","value":"50"}]
			}}]}
		}}}`))
	})

	product, err := client.ProductByHandle(context.Background(), "custom-stickers")
	if err != nil {
		t.Fatalf("ProductByHandle() error = %v", err)
	}
	if product.Handle != "custom-stickers" {
		t.Errorf("Handle = %q, want %q", product.Handle, "custom-stickers")
	}
	if len(product.Variants) != 1 {
		t.Fatalf("len(Variants) = %d, want 1", len(product.Variants))
	}
	variant := product.Variants[0]
	if variant.Price.Amount != "14.00" {
		t.Errorf("Price.Amount = %q, want %q", variant.Price.Amount, "14.00")
	}
	if len(variant.SelectedOptions) != 2 || variant.SelectedOptions[0].Name != "Size" {
		t.Errorf("SelectedOptions = %+v", variant.SelectedOptions)
	}
}

func TestProductByHandleNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"product":null}}`))
	})

	_, err := client.ProductByHandle(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ProductByHandle() error = %v, want ErrNotFound", err)
	}
}

func TestProductsClampsFirst(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if got := req.Variables["first"]; got != float64(250) {
			t.Errorf("first variable = %v, want 250", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"products":{"edges":[]}}}`))
	})

	products, err := client.Products(context.Background(), ProductsQuery{First: 9999})
	if err != nil {
		t.Fatalf("Products() error = %v", err)
	}
	if len(products) != 0 {
		t.Errorf("len(products) = %d, want 0", len(products))
	}
}

func TestExecuteSurfacesGraphQLErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":null,"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	})

	_, err := client.ProductByHandle(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected graphql error")
	}
}

func TestExecuteSurfacesHTTPErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	})

	_, err := client.ProductByHandle(context.Background(), "anything")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want 503", apiErr.Status)
	}
}

func TestCreateCartUserError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"cartCreate":{"cart":null,"userErrors":[{"field":["lines"],"message":"Invalid merchandise id"}]}}}`))
	})

	_, err := client.CreateCart(context.Background(), nil)
	if !errors.Is(err, ErrUserError) {
		t.Fatalf("CreateCart() error = %v, want ErrUserError", err)
	}
}

func TestAddCartLinesValidatesInput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	if _, err := client.AddCartLines(context.Background(), "", nil); !errors.Is(err, ErrUserError) {
		t.Fatalf("AddCartLines() error = %v, want ErrUserError", err)
	}
}

func TestCartRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"cart":{
			"id":"gid://shopify/Cart/abc",
			"checkoutUrl":"https://test-shop.myshopify.com/checkout",
			"totalQuantity":50,
			"cost":{"subtotalAmount":{"amount":"20.00","currencyCode":"USD"},"totalAmount":{"amount":"20.00","currencyCode":"USD"}},
			"lines":{"edges":[{"node":{
				"id":"gid://shopify/CartLine/1",
				"quantity":50,
				"attributes":[{"key":"Custom Size","value":"3\""}],
				"merchandise":{
					"id":"gid://shopify/ProductVariant/11",
					"title":"3\" / 50",
					"price":{"amount":"0.40","currencyCode":"USD"},
					"product":{"handle":"custom-stickers","title":"Custom Stickers"}
				}
			}}]}
		}}}`))
	})

	cart, err := client.Cart(context.Background(), "gid://shopify/Cart/abc")
	if err != nil {
		t.Fatalf("Cart() error = %v", err)
	}
	if cart.TotalQuantity != 50 {
		t.Errorf("TotalQuantity = %d, want 50", cart.TotalQuantity)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Merchandise.Product.Handle != "custom-stickers" {
		t.Errorf("Product.Handle = %q", line.Merchandise.Product.Handle)
	}
	if len(line.Attributes) != 1 || line.Attributes[0].Key != "Custom Size" {
		t.Errorf("Attributes = %+v", line.Attributes)
	}
}
