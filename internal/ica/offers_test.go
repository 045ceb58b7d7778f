package ica

import (
	"testing"

	"cookwise/internal/catalog"
)

func TestParseOfferPricing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want OfferPricing
		ok   bool
	}{
		{
			name: "multi-buy with för",
			text: "3 för 50 kr",
			want: OfferPricing{Kind: catalog.PromotionXForFixed, UnitCount: 3, TotalOre: 5000},
			ok:   true,
		},
		{
			name: "multi-buy with st and decimal total",
			text: "2 st 35,90 kr",
			want: OfferPricing{Kind: catalog.PromotionXForFixed, UnitCount: 2, TotalOre: 3590},
			ok:   true,
		},
		{
			name: "bare decimal price",
			text: "29,90",
			want: OfferPricing{Kind: catalog.PromotionFixed, SaleOre: 2990},
			ok:   true,
		},
		{
			name: "colon separated price with unit",
			text: "29:90 kr",
			want: OfferPricing{Kind: catalog.PromotionFixed, SaleOre: 2990},
			ok:   true,
		},
		{
			name: "whole kronor with unit",
			text: "15 kr",
			want: OfferPricing{Kind: catalog.PromotionFixed, SaleOre: 1500},
			ok:   true,
		},
		{
			name: "percentage discount is not a price",
			text: "Spara 10%",
			ok:   false,
		},
		{
			name: "bare integer without unit is ambiguous",
			text: "Max 3 per hushåll",
			ok:   false,
		},
		{
			name: "empty text",
			text: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseOfferPricing(tt.text)
			if ok != tt.ok {
				t.Fatalf("ParseOfferPricing(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseOfferPricing(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKronorToOre(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{in: "29,90", want: 2990, ok: true},
		{in: "29:90", want: 2990, ok: true},
		{in: "29.90", want: 2990, ok: true},
		{in: "29,9", want: 2990, ok: true},
		{in: "50", want: 5000, ok: true},
		{in: " 12,50 ", want: 1250, ok: true},
		{in: "29,999", ok: false},
		{in: "abc", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		tt := tt
		got, ok := kronorToOre(tt.in)
		if ok != tt.ok {
			t.Fatalf("kronorToOre(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("kronorToOre(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSlugFromHref(t *testing.T) {
	t.Parallel()

	tests := []struct {
		href string
		want string
	}{
		{href: "/butiker/maxi/karlskrona/maxi-ica-stormarknad-karlskrona-1004028/", want: "maxi-ica-stormarknad-karlskrona"},
		{href: "ica-nara-pottholmen-1004031", want: "ica-nara-pottholmen"},
		{href: "/butiker/kvantum/lund/ica-kvantum-malmborgs-lund", want: "ica-kvantum-malmborgs-lund"},
	}
	for _, tt := range tests {
		tt := tt
		if got := SlugFromHref(tt.href); got != tt.want {
			t.Fatalf("SlugFromHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestNameFromSlug(t *testing.T) {
	t.Parallel()

	if got := NameFromSlug("maxi-ica-stormarknad-karlskrona"); got != "Maxi Ica Stormarknad Karlskrona" {
		t.Fatalf("unexpected name: %q", got)
	}
}
