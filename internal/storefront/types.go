package storefront

import (
	domain "github.com/legendary-prints/api/internal/domain"
)

// Wire shapes mirror the GraphQL edges/node envelopes so responses decode
// directly; conversion to the flat domain model happens immediately after.

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type imageNode struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type selectedOptionNode struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type variantNode struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	AvailableForSale  bool                 `json:"availableForSale"`
	QuantityAvailable int                  `json:"quantityAvailable"`
	Price             moneyNode            `json:"price"`
	CompareAtPrice    *moneyNode           `json:"compareAtPrice"`
	SelectedOptions   []selectedOptionNode `json:"selectedOptions"`
	Image             *imageNode           `json:"image"`
}

type imageEdges struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

type variantEdges struct {
	Edges []struct {
		Node variantNode `json:"node"`
	} `json:"edges"`
}

type priceRangeNode struct {
	MinVariantPrice moneyNode `json:"minVariantPrice"`
	MaxVariantPrice moneyNode `json:"maxVariantPrice"`
}

type productNode struct {
	ID               string         `json:"id"`
	Handle           string         `json:"handle"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	DescriptionHTML  string         `json:"descriptionHtml"`
	Vendor           string         `json:"vendor"`
	ProductType      string         `json:"productType"`
	Tags             []string       `json:"tags"`
	AvailableForSale bool           `json:"availableForSale"`
	TotalInventory   int            `json:"totalInventory"`
	FeaturedImage    *imageNode     `json:"featuredImage"`
	Images           imageEdges     `json:"images"`
	PriceRange       priceRangeNode `json:"priceRange"`
	Variants         variantEdges   `json:"variants"`
}

type productEdges struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
}

type productsData struct {
	Products productEdges `json:"products"`
}

type productByHandleData struct {
	Product *productNode `json:"product"`
}

type collectionNode struct {
	ID              string       `json:"id"`
	Handle          string       `json:"handle"`
	Title           string       `json:"title"`
	DescriptionHTML string       `json:"descriptionHtml"`
	Products        productEdges `json:"products"`
}

type collectionProductsData struct {
	Collection *collectionNode `json:"collection"`
}

type attributeNode struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type cartLineNode struct {
	ID         string          `json:"id"`
	Quantity   int             `json:"quantity"`
	Attributes []attributeNode `json:"attributes"`
	Cost       struct {
		TotalAmount moneyNode `json:"totalAmount"`
	} `json:"cost"`
	Merchandise struct {
		variantNode
		Product struct {
			ID            string     `json:"id"`
			Handle        string     `json:"handle"`
			Title         string     `json:"title"`
			FeaturedImage *imageNode `json:"featuredImage"`
		} `json:"product"`
	} `json:"merchandise"`
}

type cartNode struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		SubtotalAmount moneyNode  `json:"subtotalAmount"`
		TotalAmount    moneyNode  `json:"totalAmount"`
		TotalTaxAmount *moneyNode `json:"totalTaxAmount"`
	} `json:"cost"`
	Lines struct {
		Edges []struct {
			Node cartLineNode `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type userErrorNode struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartMutationPayload struct {
	Cart       *cartNode       `json:"cart"`
	UserErrors []userErrorNode `json:"userErrors"`
}

type cartData struct {
	Cart *cartNode `json:"cart"`
}

type cartCreateData struct {
	CartCreate cartMutationPayload `json:"cartCreate"`
}

type cartLinesAddData struct {
	CartLinesAdd cartMutationPayload `json:"cartLinesAdd"`
}

type cartLinesUpdateData struct {
	CartLinesUpdate cartMutationPayload `json:"cartLinesUpdate"`
}

type cartLinesRemoveData struct {
	CartLinesRemove cartMutationPayload `json:"cartLinesRemove"`
}

func (n moneyNode) toDomain() domain.Money {
	return domain.Money{Amount: n.Amount, CurrencyCode: n.CurrencyCode}
}

func (n imageNode) toDomain() domain.Image {
	return domain.Image{ID: n.ID, URL: n.URL, AltText: n.AltText, Width: n.Width, Height: n.Height}
}

func toDomainImagePtr(n *imageNode) *domain.Image {
	if n == nil {
		return nil
	}
	img := n.toDomain()
	return &img
}

func toDomainMoneyPtr(n *moneyNode) *domain.Money {
	if n == nil {
		return nil
	}
	m := n.toDomain()
	return &m
}

func (n variantNode) toDomain() domain.Variant {
	options := make([]domain.SelectedOption, 0, len(n.SelectedOptions))
	for _, opt := range n.SelectedOptions {
		options = append(options, domain.SelectedOption{Name: opt.Name, Value: opt.Value})
	}
	return domain.Variant{
		ID:                n.ID,
		Title:             n.Title,
		AvailableForSale:  n.AvailableForSale,
		QuantityAvailable: n.QuantityAvailable,
		Price:             n.Price.toDomain(),
		CompareAtPrice:    toDomainMoneyPtr(n.CompareAtPrice),
		SelectedOptions:   options,
		Image:             toDomainImagePtr(n.Image),
	}
}

func (n productNode) toDomain() domain.Product {
	images := make([]domain.Image, 0, len(n.Images.Edges))
	for _, edge := range n.Images.Edges {
		images = append(images, edge.Node.toDomain())
	}
	variants := make([]domain.Variant, 0, len(n.Variants.Edges))
	for _, edge := range n.Variants.Edges {
		variants = append(variants, edge.Node.toDomain())
	}
	return domain.Product{
		ID:               n.ID,
		Handle:           n.Handle,
		Title:            n.Title,
		Description:      n.Description,
		DescriptionHTML:  n.DescriptionHTML,
		Vendor:           n.Vendor,
		ProductType:      n.ProductType,
		Tags:             n.Tags,
		AvailableForSale: n.AvailableForSale,
		TotalInventory:   n.TotalInventory,
		FeaturedImage:    toDomainImagePtr(n.FeaturedImage),
		Images:           images,
		PriceRange: domain.PriceRange{
			MinVariantPrice: n.PriceRange.MinVariantPrice.toDomain(),
			MaxVariantPrice: n.PriceRange.MaxVariantPrice.toDomain(),
		},
		Variants: variants,
	}
}

func (e productEdges) toDomain() []domain.Product {
	products := make([]domain.Product, 0, len(e.Edges))
	for _, edge := range e.Edges {
		products = append(products, edge.Node.toDomain())
	}
	return products
}

func (n collectionNode) toDomain() domain.Collection {
	return domain.Collection{
		ID:              n.ID,
		Handle:          n.Handle,
		Title:           n.Title,
		DescriptionHTML: n.DescriptionHTML,
		Products:        n.Products.toDomain(),
	}
}

func (n cartLineNode) toDomain() domain.CartLine {
	attributes := make([]domain.Attribute, 0, len(n.Attributes))
	for _, attr := range n.Attributes {
		attributes = append(attributes, domain.Attribute{Key: attr.Key, Value: attr.Value})
	}
	return domain.CartLine{
		ID:         n.ID,
		Quantity:   n.Quantity,
		Attributes: attributes,
		Cost:       n.Cost.TotalAmount.toDomain(),
		Merchandise: domain.CartMerchandise{
			Variant: n.Merchandise.variantNode.toDomain(),
			Product: domain.CartLineProduct{
				ID:            n.Merchandise.Product.ID,
				Handle:        n.Merchandise.Product.Handle,
				Title:         n.Merchandise.Product.Title,
				FeaturedImage: toDomainImagePtr(n.Merchandise.Product.FeaturedImage),
			},
		},
	}
}

func (n cartNode) toDomain() domain.Cart {
	lines := make([]domain.CartLine, 0, len(n.Lines.Edges))
	for _, edge := range n.Lines.Edges {
		lines = append(lines, edge.Node.toDomain())
	}
	return domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		TotalQuantity: n.TotalQuantity,
		Cost: domain.CartCost{
			SubtotalAmount: n.Cost.SubtotalAmount.toDomain(),
			TotalAmount:    n.Cost.TotalAmount.toDomain(),
			TotalTaxAmount: toDomainMoneyPtr(n.Cost.TotalTaxAmount),
		},
		Lines: lines,
	}
}

func lineInputVariables(lines []domain.CartLineInput) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		entry := map[string]any{
			"merchandiseId": line.MerchandiseID,
			"quantity":      line.Quantity,
		}
		if len(line.Attributes) > 0 {
			entry["attributes"] = attributeVariables(line.Attributes)
		}
		out = append(out, entry)
	}
	return out
}

func lineUpdateVariables(lines []domain.CartLineUpdateInput) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		entry := map[string]any{
			"id":       line.LineID,
			"quantity": line.Quantity,
		}
		if len(line.Attributes) > 0 {
			entry["attributes"] = attributeVariables(line.Attributes)
		}
		out = append(out, entry)
	}
	return out
}

func attributeVariables(attributes []domain.Attribute) []map[string]any {
	out := make([]map[string]any, 0, len(attributes))
	for _, attr := range attributes {
		out = append(out, map[string]any{"key": attr.Key, "value": attr.Value})
	}
	return out
}
