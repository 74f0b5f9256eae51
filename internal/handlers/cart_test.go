package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/services"
)

type fakeCartService struct {
	cart          domain.Cart
	err           error
	createdLines  []domain.CartLineInput
	customCommand services.AddCustomItemCommand
	removedIDs    []string
}

func (f *fakeCartService) CreateCart(ctx context.Context, lines []domain.CartLineInput) (domain.Cart, error) {
	f.createdLines = lines
	if f.err != nil {
		return domain.Cart{}, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	if f.err != nil {
		return domain.Cart{}, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) AddLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (domain.Cart, error) {
	if f.err != nil {
		return domain.Cart{}, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) UpdateLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (domain.Cart, error) {
	if f.err != nil {
		return domain.Cart{}, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error) {
	f.removedIDs = lineIDs
	if f.err != nil {
		return domain.Cart{}, f.err
	}
	return f.cart, nil
}

func (f *fakeCartService) AddCustomItem(ctx context.Context, cmd services.AddCustomItemCommand) (domain.Cart, error) {
	f.customCommand = cmd
	if f.err != nil {
		return domain.Cart{}, f.err
	}
	return f.cart, nil
}

func newCartRouter(carts services.CartService) chi.Router {
	handlers := NewCartHandlers(carts)
	r := chi.NewRouter()
	r.Route("/cart", handlers.Routes)
	return r
}

func TestCreateCartEndpoint(t *testing.T) {
	carts := &fakeCartService{cart: domain.Cart{ID: "gid://shopify/Cart/1"}}
	router := newCartRouter(carts)

	body := `{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/11","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if len(carts.createdLines) != 1 || carts.createdLines[0].Quantity != 2 {
		t.Fatalf("created lines = %+v", carts.createdLines)
	}

	var resp cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Cart.ID != "gid://shopify/Cart/1" {
		t.Errorf("cart id = %q", resp.Cart.ID)
	}
}

func TestCreateCartEndpointEmptyBody(t *testing.T) {
	carts := &fakeCartService{cart: domain.Cart{ID: "gid://shopify/Cart/1"}}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodPost, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 for empty cart; body %s", rec.Code, rec.Body.String())
	}
	if len(carts.createdLines) != 0 {
		t.Errorf("created lines = %+v, want none", carts.createdLines)
	}
}

func TestCreateCartEndpointCustomItem(t *testing.T) {
	carts := &fakeCartService{cart: domain.Cart{ID: "gid://shopify/Cart/1"}}
	router := newCartRouter(carts)

	body := `{"customItem":{"merchandiseId":"gid://shopify/ProductVariant/11","size":3,"quantity":500,"finish":"glossy","designUrl":"https://cdn.example.com/d.png"}}`
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if carts.customCommand.CartID != "" {
		t.Errorf("CartID = %q, want empty for new cart", carts.customCommand.CartID)
	}
	if carts.customCommand.Size != 3 || carts.customCommand.Quantity != 500 {
		t.Errorf("command = %+v", carts.customCommand)
	}
}

func TestAddLinesEndpointCustomItem(t *testing.T) {
	carts := &fakeCartService{cart: domain.Cart{ID: "gid://shopify/Cart/1"}}
	router := newCartRouter(carts)

	body := `{"customItem":{"merchandiseId":"gid://shopify/ProductVariant/11","size":5,"quantity":100}}`
	req := httptest.NewRequest(http.MethodPost, "/cart/some-cart/lines", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if carts.customCommand.CartID == "" {
		t.Error("CartID is empty, want path cart id")
	}
}

func TestGetCartEndpointNotFound(t *testing.T) {
	carts := &fakeCartService{err: fmt.Errorf("%w: gone", services.ErrCartNotFound)}
	router := newCartRouter(carts)

	req := httptest.NewRequest(http.MethodGet, "/cart/some-cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRemoveLinesEndpoint(t *testing.T) {
	carts := &fakeCartService{cart: domain.Cart{ID: "gid://shopify/Cart/1"}}
	router := newCartRouter(carts)

	body := `{"lineIds":["gid://shopify/CartLine/1","gid://shopify/CartLine/2"]}`
	req := httptest.NewRequest(http.MethodDelete, "/cart/some-cart/lines", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if len(carts.removedIDs) != 2 {
		t.Fatalf("removed ids = %v", carts.removedIDs)
	}
}

func TestCartEndpointInvalidJSON(t *testing.T) {
	router := newCartRouter(&fakeCartService{})

	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCartEndpointInvalidInputEnvelope(t *testing.T) {
	carts := &fakeCartService{err: fmt.Errorf("%w: Minimum quantity is 20", services.ErrCartInvalidInput)}
	router := newCartRouter(carts)

	body := `{"customItem":{"merchandiseId":"v1","size":3,"quantity":10}}`
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if msg, _ := envelope["message"].(string); !strings.Contains(msg, "Minimum quantity") {
		t.Errorf("message = %v, want validation reason", envelope["message"])
	}
}
