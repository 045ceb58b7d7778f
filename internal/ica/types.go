package ica

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Source is the identifier this adapter stamps on its records.
const Source = "ica"

// ChainID is ICA's source-local chain identifier. The reconciler maps it to
// a canonical chain through the injected table.
const ChainID = "ica"

// StoreRecord is a store listing reduced to a plain record by the external
// HTML parser. The engine never touches markup.
type StoreRecord struct {
	StoreID string `json:"store_id"`
	Name    string `json:"store_name"`
	Slug    string `json:"slug"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// OfferRecord is one weekly offer reduced to a plain record: the product
// name, the raw offer text ("3 för 50 kr", "29,90"), and optionally the
// regular price text and a category label.
type OfferRecord struct {
	StoreID      string `json:"store_id"`
	ProductName  string `json:"product_name"`
	OfferText    string `json:"offer_text"`
	RegularPrice string `json:"regular_price,omitempty"`
	Category     string `json:"category,omitempty"`
}

// ParseStoreRecords unmarshals a store listing payload from array or
// wrapped shapes.
func ParseStoreRecords(data []byte) ([]StoreRecord, error) {
	var stores []StoreRecord
	if err := json.Unmarshal(data, &stores); err == nil {
		return stores, nil
	}

	var wrapped struct {
		Stores []StoreRecord `json:"stores"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("unmarshal store records: %w", err)
	}
	return wrapped.Stores, nil
}

// ParseOfferRecords unmarshals an offer listing payload from array or
// wrapped shapes.
func ParseOfferRecords(data []byte) ([]OfferRecord, error) {
	var offers []OfferRecord
	if err := json.Unmarshal(data, &offers); err == nil {
		return offers, nil
	}

	var wrapped struct {
		Offers []OfferRecord `json:"offers"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("unmarshal offer records: %w", err)
	}
	return wrapped.Offers, nil
}

var trailingStoreIDRe = regexp.MustCompile(`-\d+$`)

// SlugFromHref extracts the store slug from the final path segment of a
// store page URL, stripping the trailing numeric store ID:
// "maxi-ica-stormarknad-karlskrona-1004028" -> "maxi-ica-stormarknad-karlskrona".
func SlugFromHref(href string) string {
	last := strings.TrimRight(href, "/")
	if idx := strings.LastIndex(last, "/"); idx >= 0 {
		last = last[idx+1:]
	}
	return trailingStoreIDRe.ReplaceAllString(last, "")
}

// NameFromSlug turns "maxi-ica-stormarknad-karlskrona" into
// "Maxi Ica Stormarknad Karlskrona".
func NameFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
