package catalog

// ScaledAmount is a price in minor units carrying two extra fixed-point
// digits, so repeated per-unit computations never compound rounding error.
// Rounding to minor units happens only at presentation time.
type ScaledAmount int64

const scaleFactor = 100

// Scaled lifts an exact minor-unit amount into fixed-point space.
func Scaled(minorUnits int64) ScaledAmount {
	return ScaledAmount(minorUnits * scaleFactor)
}

// Round converts back to minor units, half away from zero.
func (a ScaledAmount) Round() int64 {
	if a < 0 {
		return int64((a - scaleFactor/2) / scaleFactor)
	}
	return int64((a + scaleFactor/2) / scaleFactor)
}

// EvaluatePromotion computes the effective unit price for a base price and
// zero-or-one applicable promotion. Pure function; a nil promotion returns
// the base unchanged.
//
// A FIXED promotion raising the price and an X_FOR_FIXED promotion with a
// nonsensical unit count are rejected with InvalidPromotionError; callers
// fall back to the base price rather than failing the product.
func EvaluatePromotion(baseMinorUnits int64, promo *Promotion) (ScaledAmount, error) {
	if promo == nil {
		return Scaled(baseMinorUnits), nil
	}

	switch promo.Kind {
	case PromotionFixed:
		if promo.TargetMinorUnits < 0 {
			return Scaled(baseMinorUnits), &InvalidPromotionError{
				ProductID: promo.ProductID,
				Kind:      promo.Kind,
				Reason:    "negative target price",
			}
		}
		if promo.TargetMinorUnits > baseMinorUnits {
			return Scaled(baseMinorUnits), &InvalidPromotionError{
				ProductID: promo.ProductID,
				Kind:      promo.Kind,
				Reason:    "target price exceeds base price",
			}
		}
		return Scaled(promo.TargetMinorUnits), nil

	case PromotionXForFixed:
		if promo.UnitCount < 1 {
			return Scaled(baseMinorUnits), &InvalidPromotionError{
				ProductID: promo.ProductID,
				Kind:      promo.Kind,
				Reason:    "unit count must be at least 1",
			}
		}
		if promo.TotalMinorUnits < 0 {
			return Scaled(baseMinorUnits), &InvalidPromotionError{
				ProductID: promo.ProductID,
				Kind:      promo.Kind,
				Reason:    "negative total price",
			}
		}
		return ScaledAmount(promo.TotalMinorUnits * scaleFactor / promo.UnitCount), nil

	default:
		return Scaled(baseMinorUnits), &InvalidPromotionError{
			ProductID: promo.ProductID,
			Kind:      promo.Kind,
			Reason:    "unknown promotion kind",
		}
	}
}

// selectPromotion picks the applicable promotion for a (product, warehouse)
// pair with the same precedence as price resolution: warehouse scope wins
// over chain scope.
func selectPromotion(promos []Promotion, productID, warehouseID, chainID string) *Promotion {
	var chainMatch *Promotion
	for i := range promos {
		p := &promos[i]
		if p.ProductID != productID {
			continue
		}
		switch p.Scope {
		case ScopeWarehouse:
			if p.ScopeID == warehouseID {
				return p
			}
		case ScopeChain:
			if p.ScopeID == chainID && chainMatch == nil {
				chainMatch = p
			}
		}
	}
	return chainMatch
}
