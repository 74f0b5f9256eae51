package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/legendary-prints/api/internal/domain"
)

// customValueSentinel marks an option value that tells the storefront to
// collect a free-form override instead of matching a catalog value.
const customValueSentinel = "custom"

const minCustomQuantity = 20

// The resolver functions below are pure queries over an immutable product
// snapshot. "No matching variant" is an expected outcome and is reported as
// an absence, never as an error.

// ExtractOptions scans a product's variants and collects the distinct option
// names with their observed values. Names keep first-seen order; values sort
// numerically when both parse as numbers, lexicographically otherwise.
func ExtractOptions(product domain.Product) []domain.VariantOption {
	names := make([]string, 0, 4)
	valuesByName := make(map[string]map[string]struct{})
	orderByName := make(map[string][]string)

	for _, variant := range product.Variants {
		for _, opt := range variant.SelectedOptions {
			seen, ok := valuesByName[opt.Name]
			if !ok {
				seen = make(map[string]struct{})
				valuesByName[opt.Name] = seen
				names = append(names, opt.Name)
			}
			if _, dup := seen[opt.Value]; !dup {
				seen[opt.Value] = struct{}{}
				orderByName[opt.Name] = append(orderByName[opt.Name], opt.Value)
			}
		}
	}

	options := make([]domain.VariantOption, 0, len(names))
	for _, name := range names {
		values := orderByName[name]
		sort.SliceStable(values, func(i, j int) bool {
			a, aOK := parseLeadingFloat(values[i])
			b, bOK := parseLeadingFloat(values[j])
			if aOK && bOK {
				return a < b
			}
			return values[i] < values[j]
		})
		options = append(options, domain.VariantOption{Name: name, Values: values})
	}
	return options
}

// FindVariant returns the first variant in catalog order whose selection
// vector matches every name/value pair in selections.
func FindVariant(product domain.Product, selections map[string]string) (domain.Variant, bool) {
	for _, variant := range product.Variants {
		if variantMatches(variant, selections) {
			return variant, true
		}
	}
	return domain.Variant{}, false
}

func variantMatches(variant domain.Variant, selections map[string]string) bool {
	for name, value := range selections {
		matched := false
		for _, opt := range variant.SelectedOptions {
			if opt.Name == name && opt.Value == value {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// DefaultVariant returns the first available-for-sale variant, falling back
// to the first variant when none is available.
func DefaultVariant(product domain.Product) (domain.Variant, bool) {
	for _, variant := range product.Variants {
		if variant.AvailableForSale {
			return variant, true
		}
	}
	if len(product.Variants) > 0 {
		return product.Variants[0], true
	}
	return domain.Variant{}, false
}

// NormalizeCustomValue canonicalizes a shopper-supplied override when the
// selected value is the "Custom" sentinel. Size overrides get an inch mark
// appended to bare numbers; quantity overrides are coerced to an integer
// string. Other options pass the override through unchanged. When the value
// is not the sentinel, or the override is empty, the value itself is
// returned.
func NormalizeCustomValue(optionName, value, customValue string) string {
	if !strings.EqualFold(value, customValueSentinel) || customValue == "" {
		return value
	}

	switch strings.ToLower(optionName) {
	case "size":
		if _, ok := parseLeadingFloat(customValue); ok {
			if !strings.Contains(customValue, `"`) && !strings.Contains(customValue, "inch") {
				return customValue + `"`
			}
		}
	case "quantity":
		if n, ok := parseLeadingInt(customValue); ok {
			return strconv.Itoa(n)
		}
	}
	return customValue
}

// ValidateCustomValue checks a shopper-supplied override against the
// storefront's bounds. Failures are expected outcomes and come back as a
// result with a human-readable reason, never an error.
func ValidateCustomValue(optionName, value string) domain.CustomValueResult {
	if strings.TrimSpace(value) == "" {
		return domain.CustomValueResult{Valid: false, Reason: "Please enter a value"}
	}

	switch strings.ToLower(optionName) {
	case "size":
		num, ok := parseLeadingFloat(value)
		if !ok || num <= 0 {
			return domain.CustomValueResult{Valid: false, Reason: "Please enter a valid size number"}
		}
		if num > 100 {
			return domain.CustomValueResult{Valid: false, Reason: "Size seems too large. Please verify."}
		}
	case "quantity":
		num, ok := parseLeadingInt(value)
		if !ok || num <= 0 {
			return domain.CustomValueResult{Valid: false, Reason: "Please enter a valid quantity"}
		}
		if num < minCustomQuantity {
			return domain.CustomValueResult{Valid: false, Reason: "Minimum quantity is 20"}
		}
	}
	return domain.CustomValueResult{Valid: true}
}

// BuildSelections normalizes a full selection map, substituting custom
// overrides wherever an option's value is the "Custom" sentinel.
func BuildSelections(selections, customValues map[string]string) map[string]string {
	normalized := make(map[string]string, len(selections))
	for name, value := range selections {
		normalized[name] = NormalizeCustomValue(name, value, customValues[name])
	}
	return normalized
}

// HasCustomValue reports whether any of an option's values is the "Custom"
// sentinel.
func HasCustomValue(option domain.VariantOption) bool {
	for _, value := range option.Values {
		if strings.EqualFold(value, customValueSentinel) {
			return true
		}
	}
	return false
}

// OptionCombinations expands the full cartesian product of option values,
// one selection map per combination. Useful for building a variant matrix.
func OptionCombinations(options []domain.VariantOption) []map[string]string {
	if len(options) == 0 {
		return nil
	}
	combinations := []map[string]string{{}}
	for _, option := range options {
		next := make([]map[string]string, 0, len(combinations)*len(option.Values))
		for _, base := range combinations {
			for _, value := range option.Values {
				combo := make(map[string]string, len(base)+1)
				for k, v := range base {
					combo[k] = v
				}
				combo[option.Name] = value
				next = append(next, combo)
			}
		}
		combinations = next
	}
	return combinations
}

// IsCombinationAvailable reports whether the selections resolve to a variant
// that is available for sale.
func IsCombinationAvailable(product domain.Product, selections map[string]string) bool {
	variant, ok := FindVariant(product, selections)
	return ok && variant.AvailableForSale
}

// VariantPrice returns the price of the variant matching the selections.
func VariantPrice(product domain.Product, selections map[string]string) (domain.Money, bool) {
	variant, ok := FindVariant(product, selections)
	if !ok {
		return domain.Money{}, false
	}
	return variant.Price, true
}

// ParseVariantTitle splits a "size / material / quantity" variant title into
// a selection map. This is a fallback for catalogs that omit selectedOptions.
func ParseVariantTitle(title string) map[string]string {
	parts := strings.Split(title, " / ")
	parsed := make(map[string]string, 3)
	keys := []string{"Size", "Material", "Quantity"}
	for i, part := range parts {
		if i >= len(keys) {
			break
		}
		parsed[keys[i]] = strings.TrimSpace(part)
	}
	return parsed
}

// parseLeadingFloat parses the longest numeric prefix of s, so values like
// `3"` or `5 inch` compare numerically. Returns false when s has no numeric
// prefix.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
			end = i + 1
		case (r == '+' || r == '-') && i == 0:
			end = i + 1
		default:
			goto done
		}
	}
done:
	if !seenDigit {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// parseLeadingInt parses the longest integer prefix of s, so "150.7" and
// "150pcs" both coerce to 150.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case (r == '+' || r == '-') && i == 0:
			end = i + 1
		default:
			goto done
		}
	}
done:
	if !seenDigit {
		return 0, false
	}
	num, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return num, true
}
