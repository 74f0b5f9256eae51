package domain

// Money represents a decimal amount as returned by the storefront API.
// Amounts stay strings end to end; this service never does arithmetic on them.
type Money struct {
	Amount       string
	CurrencyCode string
}

// SelectedOption is a single name/value assignment on a variant's selection vector.
type SelectedOption struct {
	Name  string
	Value string
}

// Image carries storefront-hosted image metadata.
type Image struct {
	ID      string
	URL     string
	AltText string
	Width   int
	Height  int
}

// Variant is one purchasable configuration of a product.
type Variant struct {
	ID                string
	Title             string
	AvailableForSale  bool
	QuantityAvailable int
	Price             Money
	CompareAtPrice    *Money
	SelectedOptions   []SelectedOption
	Image             *Image
}

// PriceRange spans the cheapest and most expensive variant of a product.
type PriceRange struct {
	MinVariantPrice Money
	MaxVariantPrice Money
}

// Product is an immutable catalog snapshot fetched from the storefront API.
type Product struct {
	ID               string
	Handle           string
	Title            string
	Description      string
	DescriptionHTML  string
	Vendor           string
	ProductType      string
	Tags             []string
	AvailableForSale bool
	TotalInventory   int
	FeaturedImage    *Image
	Images           []Image
	PriceRange       PriceRange
	Variants         []Variant
}

// VariantOption is one named axis of product configuration with its observed values.
type VariantOption struct {
	Name   string
	Values []string
}

// Collection groups products under a storefront collection handle.
type Collection struct {
	ID              string
	Handle          string
	Title           string
	DescriptionHTML string
	Products        []Product
}

// Attribute is a free-form key/value pair attached to a cart line.
type Attribute struct {
	Key   string
	Value string
}

// CartCost aggregates the monetary totals the storefront computed for a cart.
type CartCost struct {
	SubtotalAmount Money
	TotalAmount    Money
	TotalTaxAmount *Money
}

// CartLineProduct is the slim product projection embedded in cart merchandise.
type CartLineProduct struct {
	ID            string
	Handle        string
	Title         string
	FeaturedImage *Image
}

// CartMerchandise is the variant a cart line points at, plus its owning product.
type CartMerchandise struct {
	Variant
	Product CartLineProduct
}

// CartLine is a single entry in a storefront cart.
type CartLine struct {
	ID          string
	Quantity    int
	Attributes  []Attribute
	Cost        Money
	Merchandise CartMerchandise
}

// Cart mirrors the storefront cart. The storefront API owns this state; the
// service only reads and forwards it.
type Cart struct {
	ID            string
	CheckoutURL   string
	TotalQuantity int
	Cost          CartCost
	Lines         []CartLine
}

// CartLineInput describes a line to add to a cart.
type CartLineInput struct {
	MerchandiseID string
	Quantity      int
	Attributes    []Attribute
}

// CartLineUpdateInput describes an in-place change to an existing cart line.
type CartLineUpdateInput struct {
	LineID     string
	Quantity   int
	Attributes []Attribute
}
