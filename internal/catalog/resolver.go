package catalog

import (
	"errors"
	"sort"

	"github.com/samber/lo"
)

type pairKey struct {
	productID string
	scopeID   string
}

// ResolvePrices merges chain-level and warehouse-level price records into one
// authoritative price per (product, warehouse) pair and evaluates the
// applicable promotion for each.
//
// A warehouse-scope record always wins over the chain-scope record of the
// warehouse's owning chain. A pair with no record in either scope produces
// no output: absence means "not sold here" or "not observed", never zero.
func ResolvePrices(warehouses []Warehouse, prices []PriceRecord, promos []Promotion, diags *Diagnostics) []ResolvedPrice {
	warehouseScoped := map[pairKey]PriceRecord{}
	for _, pr := range prices {
		if pr.Scope != ScopeWarehouse {
			continue
		}
		key := pairKey{pr.ProductID, pr.ScopeID}
		existing, ok := warehouseScoped[key]
		if !ok {
			warehouseScoped[key] = pr
			continue
		}
		// Duplicate warehouse record is a data-quality anomaly: keep the
		// numerically lowest amount and warn.
		diags.PriceConflicts = append(diags.PriceConflicts, ConflictingPriceRecordsWarning{
			ProductID:   pr.ProductID,
			WarehouseID: pr.ScopeID,
			Amounts:     []int64{existing.AmountMinorUnits, pr.AmountMinorUnits},
		})
		if pr.AmountMinorUnits < existing.AmountMinorUnits {
			warehouseScoped[key] = pr
		}
	}

	chainScoped := map[pairKey]PriceRecord{}
	for _, pr := range prices {
		if pr.Scope != ScopeChain {
			continue
		}
		key := pairKey{pr.ProductID, pr.ScopeID}
		if existing, ok := chainScoped[key]; !ok || pr.AmountMinorUnits < existing.AmountMinorUnits {
			chainScoped[key] = pr
		}
	}

	productIDs := lo.Uniq(lo.Map(prices, func(pr PriceRecord, _ int) string { return pr.ProductID }))
	sort.Strings(productIDs)

	var resolved []ResolvedPrice
	for _, productID := range productIDs {
		for _, wh := range warehouses {
			base, granularity, ok := baseFor(productID, wh, warehouseScoped, chainScoped)
			if !ok {
				continue
			}

			rp := ResolvedPrice{
				ProductID:      productID,
				WarehouseID:    wh.WarehouseID,
				BaseMinorUnits: base.AmountMinorUnits,
				Currency:       base.Currency,
				Granularity:    granularity,
			}

			promo := selectPromotion(promos, productID, wh.WarehouseID, wh.ChainID)
			effective, err := EvaluatePromotion(base.AmountMinorUnits, promo)
			if err != nil {
				var invalid *InvalidPromotionError
				if errors.As(err, &invalid) {
					diags.IgnoredPromotions = append(diags.IgnoredPromotions, *invalid)
				}
				promo = nil
			}
			rp.EffectiveMinorUnits = effective.Round()
			rp.Promotion = promo
			resolved = append(resolved, rp)
		}
	}

	sort.Slice(resolved, func(i, j int) bool {
		if resolved[i].ProductID != resolved[j].ProductID {
			return resolved[i].ProductID < resolved[j].ProductID
		}
		return resolved[i].WarehouseID < resolved[j].WarehouseID
	})
	return resolved
}

func baseFor(productID string, wh Warehouse, warehouseScoped, chainScoped map[pairKey]PriceRecord) (PriceRecord, Granularity, bool) {
	if pr, ok := warehouseScoped[pairKey{productID, wh.WarehouseID}]; ok {
		return pr, GranularityWarehouseOverride, true
	}
	if pr, ok := chainScoped[pairKey{productID, wh.ChainID}]; ok {
		return pr, GranularityChainDefault, true
	}
	return PriceRecord{}, "", false
}
