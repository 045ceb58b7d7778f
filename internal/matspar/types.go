package matspar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Ore is a price in öre, the minor unit of SEK. Matspar encodes prices as
// integer öre, but some payload versions string-encode the numbers; decode
// both. null and empty decode to zero, which callers treat as "no price".
type Ore int64

func (o *Ore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = 0
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			*o = 0
			return nil
		}
		n, err := strconv.ParseInt(encoded, 10, 64)
		if err != nil {
			return fmt.Errorf("decode string-encoded öre value %q: %w", encoded, err)
		}
		*o = Ore(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode öre value: %w", err)
	}
	*o = Ore(n)
	return nil
}

// Promo is one supplier's promotion entry for a product. Type "multi" is a
// buy-Count-for-Price offer; anything else is a flat sale price.
type Promo struct {
	Price Ore    `json:"price"`
	Type  string `json:"type"`
	Count int64  `json:"count,omitempty"`
}

// Product is a raw matspar product row. Prices and Promo are keyed by the
// numeric supplier ID as a string; StorePrices and StorePromo carry the
// optional per-warehouse overrides keyed by matspar's store identifier.
type Product struct {
	ProductID    int64            `json:"productid"`
	Name         string           `json:"name"`
	Brand        string           `json:"brand"`
	WeightPretty string           `json:"weight_pretty"`
	Slug         string           `json:"slug"`
	Price        Ore              `json:"price"`
	MedianPrice  Ore              `json:"median_price"`
	Prices       map[string]Ore   `json:"prices"`
	Promo        map[string]Promo `json:"promo"`
	StorePrices  map[string]Ore   `json:"store_prices"`
	StorePromo   map[string]Promo `json:"store_promo"`
}

// Store is a matspar store entry from a page payload's stores map.
type Store struct {
	Supplier string `json:"supplier"`
	Name     string `json:"name"`
}

// CategoryContainer nests products under a sub-category ID on category pages.
type CategoryContainer struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// CategoryPage is the payload of a POST /slug response for a category page.
// Category pages nest products under sub-category IDs; search responses are
// a bare product list.
type CategoryPage struct {
	Categories map[string]CategoryContainer `json:"categories"`
	Products   []Product                    `json:"products"`
	Stores     map[string]Store             `json:"stores"`
}

// Supplier is one entry of the GET /suppliers response.
type Supplier struct {
	Name       string   `json:"name"`
	LongName   string   `json:"longname"`
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
	Active     bool     `json:"active"`
}

type slugResponse struct {
	Payload json.RawMessage `json:"payload"`
}

// ParseCategoryPage unmarshals a /slug response payload from either the
// category-page object shape or the bare product-list shape.
func ParseCategoryPage(data []byte) (*CategoryPage, error) {
	var resp slugResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal slug response: %w", err)
	}
	payload := resp.Payload
	if len(payload) == 0 {
		// Some callers hand us the payload directly.
		payload = data
	}

	var page CategoryPage
	if err := json.Unmarshal(payload, &page); err == nil {
		if page.Categories != nil || page.Products != nil || page.Stores != nil {
			return &page, nil
		}
	}

	var products []Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, fmt.Errorf("unmarshal slug payload: %w", err)
	}
	return &CategoryPage{Products: products}, nil
}

// ParseSuppliers unmarshals the GET /suppliers response.
func ParseSuppliers(data []byte) (map[string]Supplier, error) {
	var suppliers map[string]Supplier
	if err := json.Unmarshal(data, &suppliers); err != nil {
		return nil, fmt.Errorf("unmarshal suppliers: %w", err)
	}
	return suppliers, nil
}

// AllProducts flattens a category page: sub-category containers first, then
// top-level products, deduplicated by product ID.
func (p *CategoryPage) AllProducts() []Product {
	seen := map[int64]struct{}{}
	var out []Product

	add := func(prod Product) {
		if prod.ProductID != 0 {
			if _, dup := seen[prod.ProductID]; dup {
				return
			}
			seen[prod.ProductID] = struct{}{}
		}
		out = append(out, prod)
	}

	for _, id := range sortedKeys(p.Categories) {
		for _, prod := range p.Categories[id].Products {
			add(prod)
		}
	}
	for _, prod := range p.Products {
		add(prod)
	}
	return out
}

func sortedKeys(m map[string]CategoryContainer) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic iteration keeps reconciliation runs reproducible.
	sort.Strings(keys)
	return keys
}
