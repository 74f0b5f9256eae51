package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/legendary-prints/api/internal/domain"
	"github.com/legendary-prints/api/internal/platform/config"
)

var (
	// ErrNotFound indicates the requested product, collection, or cart does not exist.
	ErrNotFound = errors.New("storefront: not found")
	// ErrUserError indicates the storefront rejected the request data (cart mutation userErrors).
	ErrUserError = errors.New("storefront: user error")
)

// APIError describes a non-200 response from the storefront endpoint.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: API error: status %d, body: %s", e.Status, e.Body)
}

// Client talks to the commerce provider's Storefront GraphQL API.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoint overrides the GraphQL endpoint URL, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if strings.TrimSpace(endpoint) != "" {
			c.endpoint = endpoint
		}
	}
}

// NewClient constructs a storefront client from configuration.
func NewClient(cfg config.StorefrontConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	domainName := strings.TrimSpace(cfg.Domain)
	domainName = strings.TrimPrefix(domainName, "https://")
	domainName = strings.TrimPrefix(domainName, "http://")
	domainName = strings.TrimSuffix(domainName, "/")
	if domainName == "" {
		return nil, errors.New("storefront: store domain is required")
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("storefront: access token is required")
	}
	version := strings.TrimSpace(cfg.APIVersion)
	if version == "" {
		version = "2026-01"
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", domainName, version),
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("storefront: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("storefront: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("storefront: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("storefront API error",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
		return &APIError{Status: resp.StatusCode, Body: truncateBody(body)}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("storefront: failed to decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, gqlErr := range envelope.Errors {
			messages = append(messages, gqlErr.Message)
		}
		return fmt.Errorf("storefront: graphql errors: %s", strings.Join(messages, "; "))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("storefront: failed to decode data: %w", err)
	}
	return nil
}

// ProductsQuery narrows and orders a product listing request.
type ProductsQuery struct {
	First   int
	Query   string
	SortKey string
	Reverse bool
}

// Products fetches up to First products matching the optional search query.
func (c *Client) Products(ctx context.Context, q ProductsQuery) ([]domain.Product, error) {
	first := q.First
	if first <= 0 {
		first = 20
	}
	if first > 250 {
		first = 250
	}
	variables := map[string]any{"first": first}
	if strings.TrimSpace(q.Query) != "" {
		variables["query"] = q.Query
	}
	if strings.TrimSpace(q.SortKey) != "" {
		variables["sortKey"] = strings.ToUpper(strings.TrimSpace(q.SortKey))
		variables["reverse"] = q.Reverse
	}

	var data productsData
	if err := c.execute(ctx, queryProducts, variables, &data); err != nil {
		return nil, err
	}
	return data.Products.toDomain(), nil
}

// ProductByHandle fetches a single product, returning ErrNotFound when absent.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Product{}, fmt.Errorf("%w: product handle is required", ErrUserError)
	}

	var data productByHandleData
	if err := c.execute(ctx, queryProductByHandle, map[string]any{"handle": handle}, &data); err != nil {
		return domain.Product{}, err
	}
	if data.Product == nil {
		return domain.Product{}, fmt.Errorf("%w: product %q", ErrNotFound, handle)
	}
	return data.Product.toDomain(), nil
}

// CollectionProducts fetches the products of a collection by handle.
func (c *Client) CollectionProducts(ctx context.Context, handle string, first int) (domain.Collection, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Collection{}, fmt.Errorf("%w: collection handle is required", ErrUserError)
	}
	if first <= 0 {
		first = 20
	}
	if first > 250 {
		first = 250
	}

	var data collectionProductsData
	if err := c.execute(ctx, queryCollectionProducts, map[string]any{"handle": handle, "first": first}, &data); err != nil {
		return domain.Collection{}, err
	}
	if data.Collection == nil {
		return domain.Collection{}, fmt.Errorf("%w: collection %q", ErrNotFound, handle)
	}
	return data.Collection.toDomain(), nil
}

// CreateCart creates a new cart with the optional initial lines.
func (c *Client) CreateCart(ctx context.Context, lines []domain.CartLineInput) (domain.Cart, error) {
	input := map[string]any{}
	if len(lines) > 0 {
		input["lines"] = lineInputVariables(lines)
	}

	var data cartCreateData
	if err := c.execute(ctx, mutationCartCreate, map[string]any{"input": input}, &data); err != nil {
		return domain.Cart{}, err
	}
	return cartFromPayload(data.CartCreate)
}

// Cart fetches an existing cart by its storefront ID.
func (c *Client) Cart(ctx context.Context, cartID string) (domain.Cart, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("%w: cart id is required", ErrUserError)
	}

	var data cartData
	if err := c.execute(ctx, queryCart, map[string]any{"cartId": cartID}, &data); err != nil {
		return domain.Cart{}, err
	}
	if data.Cart == nil {
		return domain.Cart{}, fmt.Errorf("%w: cart %q", ErrNotFound, cartID)
	}
	return data.Cart.toDomain(), nil
}

// AddCartLines appends lines to the cart.
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []domain.CartLineInput) (domain.Cart, error) {
	if err := requireCartAndLines(cartID, len(lines)); err != nil {
		return domain.Cart{}, err
	}

	variables := map[string]any{"cartId": cartID, "lines": lineInputVariables(lines)}
	var data cartLinesAddData
	if err := c.execute(ctx, mutationCartLinesAdd, variables, &data); err != nil {
		return domain.Cart{}, err
	}
	return cartFromPayload(data.CartLinesAdd)
}

// UpdateCartLines changes quantities or attributes on existing lines.
func (c *Client) UpdateCartLines(ctx context.Context, cartID string, lines []domain.CartLineUpdateInput) (domain.Cart, error) {
	if err := requireCartAndLines(cartID, len(lines)); err != nil {
		return domain.Cart{}, err
	}

	variables := map[string]any{"cartId": cartID, "lines": lineUpdateVariables(lines)}
	var data cartLinesUpdateData
	if err := c.execute(ctx, mutationCartLinesUpdate, variables, &data); err != nil {
		return domain.Cart{}, err
	}
	return cartFromPayload(data.CartLinesUpdate)
}

// RemoveCartLines deletes lines from the cart.
func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (domain.Cart, error) {
	if err := requireCartAndLines(cartID, len(lineIDs)); err != nil {
		return domain.Cart{}, err
	}

	variables := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	var data cartLinesRemoveData
	if err := c.execute(ctx, mutationCartLinesRemove, variables, &data); err != nil {
		return domain.Cart{}, err
	}
	return cartFromPayload(data.CartLinesRemove)
}

func requireCartAndLines(cartID string, lineCount int) error {
	if strings.TrimSpace(cartID) == "" {
		return fmt.Errorf("%w: cart id is required", ErrUserError)
	}
	if lineCount == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrUserError)
	}
	return nil
}

func cartFromPayload(payload cartMutationPayload) (domain.Cart, error) {
	if len(payload.UserErrors) > 0 {
		first := payload.UserErrors[0]
		return domain.Cart{}, fmt.Errorf("%w: %s", ErrUserError, first.Message)
	}
	if payload.Cart == nil {
		return domain.Cart{}, fmt.Errorf("%w: cart missing from mutation payload", ErrNotFound)
	}
	return payload.Cart.toDomain(), nil
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
