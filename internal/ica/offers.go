package ica

import (
	"regexp"
	"strconv"
	"strings"

	"cookwise/internal/catalog"
)

// OfferPricing is the decoded discount model of one offer text.
type OfferPricing struct {
	Kind catalog.PromotionKind
	// SaleOre is the flat sale price for FIXED offers.
	SaleOre int64
	// UnitCount and TotalOre describe X_FOR_FIXED multi-buy offers.
	UnitCount int64
	TotalOre  int64
}

var (
	// "3 för 50 kr", "2 st 35,90 kr"
	multiBuyRe = regexp.MustCompile(`(?i)(\d+)\s*(?:för|st)\s*(\d+(?:[,.:]\d{1,2})?)\s*kr`)
	// "29,90", "29:90 kr"
	fixedDecimalRe = regexp.MustCompile(`(\d+)[,.:](\d{1,2})(?:\s*kr)?`)
	// "15 kr" — bare integers without a unit are too ambiguous to trust
	fixedKronorRe = regexp.MustCompile(`(?i)(\d+)\s*kr`)
)

// ParseOfferPricing decodes ICA offer text into the tagged discount model.
// The second return is false when no price pattern is present.
func ParseOfferPricing(text string) (OfferPricing, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return OfferPricing{}, false
	}

	if m := multiBuyRe.FindStringSubmatch(text); m != nil {
		count, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || count < 1 {
			return OfferPricing{}, false
		}
		total, ok := kronorToOre(m[2])
		if !ok {
			return OfferPricing{}, false
		}
		return OfferPricing{
			Kind:      catalog.PromotionXForFixed,
			UnitCount: count,
			TotalOre:  total,
		}, true
	}

	if m := fixedDecimalRe.FindStringSubmatch(text); m != nil {
		ore, ok := kronorToOre(m[1] + "," + m[2])
		if !ok || ore == 0 {
			return OfferPricing{}, false
		}
		return OfferPricing{Kind: catalog.PromotionFixed, SaleOre: ore}, true
	}

	if m := fixedKronorRe.FindStringSubmatch(text); m != nil {
		ore, ok := kronorToOre(m[1])
		if !ok || ore == 0 {
			return OfferPricing{}, false
		}
		return OfferPricing{Kind: catalog.PromotionFixed, SaleOre: ore}, true
	}

	return OfferPricing{}, false
}

// kronorToOre converts a Swedish price string ("29,90", "29:90", "50") to
// öre. Decimal comma, colon, and point are all seen in the wild.
func kronorToOre(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	whole := s
	frac := "0"
	for _, sep := range []string{",", ":", "."} {
		if idx := strings.Index(s, sep); idx >= 0 {
			whole = s[:idx]
			frac = s[idx+len(sep):]
			break
		}
	}

	kronor, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, false
	}

	switch len(frac) {
	case 1:
		frac += "0"
	case 2:
	default:
		if frac == "0" {
			frac = "00"
		} else {
			return 0, false
		}
	}
	ore, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, false
	}
	return kronor*100 + ore, true
}
