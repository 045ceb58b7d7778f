package catalog

import (
	"errors"
	"testing"
)

func TestEvaluatePromotion_NoPromotion(t *testing.T) {
	t.Parallel()

	got, err := EvaluatePromotion(1200, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Round() != 1200 {
		t.Fatalf("unexpected effective price: %d", got.Round())
	}
}

func TestEvaluatePromotion_Fixed(t *testing.T) {
	t.Parallel()

	promo := &Promotion{ProductID: "P2", Kind: PromotionFixed, TargetMinorUnits: 990}
	got, err := EvaluatePromotion(1200, promo)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.Round() != 990 {
		t.Fatalf("unexpected effective price: %d", got.Round())
	}
}

func TestEvaluatePromotion_FixedRaisingPriceRejected(t *testing.T) {
	t.Parallel()

	promo := &Promotion{ProductID: "P2", Kind: PromotionFixed, TargetMinorUnits: 1500}
	got, err := EvaluatePromotion(1200, promo)
	if err == nil {
		t.Fatal("expected error")
	}
	var invalid *InvalidPromotionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidPromotionError, got %T", err)
	}
	if got.Round() != 1200 {
		t.Fatalf("base price must be returned unchanged, got %d", got.Round())
	}
}

func TestEvaluatePromotion_XForFixed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		base      int64
		unitCount int64
		total     int64
		want      int64
	}{
		{
			name:      "three for thirty kronor",
			base:      1200,
			unitCount: 3,
			total:     3000,
			want:      1000,
		},
		{
			name:      "non-divisible total rounds to nearest öre",
			base:      500,
			unitCount: 3,
			total:     1000,
			want:      333,
		},
		{
			name:      "rounds half up",
			base:      500,
			unitCount: 2,
			total:     575,
			want:      288, // 287.50 öre
		},
		{
			name:      "single unit",
			base:      500,
			unitCount: 1,
			total:     450,
			want:      450,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			promo := &Promotion{Kind: PromotionXForFixed, UnitCount: tt.unitCount, TotalMinorUnits: tt.total}
			got, err := EvaluatePromotion(tt.base, promo)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if got.Round() != tt.want {
				t.Fatalf("effective unit price = %d, want %d", got.Round(), tt.want)
			}

			// Repeated evaluation must be stable.
			again, err := EvaluatePromotion(tt.base, promo)
			if err != nil {
				t.Fatalf("re-evaluate: %v", err)
			}
			if again != got {
				t.Fatalf("evaluation not idempotent: %d != %d", again, got)
			}
		})
	}
}

func TestEvaluatePromotion_XForFixedInvalidParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		promo Promotion
	}{
		{name: "zero unit count", promo: Promotion{Kind: PromotionXForFixed, UnitCount: 0, TotalMinorUnits: 1000}},
		{name: "negative total", promo: Promotion{Kind: PromotionXForFixed, UnitCount: 2, TotalMinorUnits: -100}},
		{name: "unknown kind", promo: Promotion{Kind: PromotionKind("BOGOF")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := EvaluatePromotion(800, &tt.promo)
			if err == nil {
				t.Fatal("expected error")
			}
			if got.Round() != 800 {
				t.Fatalf("base price must be returned unchanged, got %d", got.Round())
			}
		})
	}
}

func TestScaledAmount_Round(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scaled ScaledAmount
		want   int64
	}{
		{scaled: 33333, want: 333},
		{scaled: 33350, want: 334},
		{scaled: 0, want: 0},
		{scaled: 100, want: 1},
		{scaled: -150, want: -2},
	}
	for _, tt := range tests {
		tt := tt
		if got := tt.scaled.Round(); got != tt.want {
			t.Fatalf("Round(%d) = %d, want %d", tt.scaled, got, tt.want)
		}
	}
}
