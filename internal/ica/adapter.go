package ica

import (
	"fmt"
	"strings"

	"cookwise/internal/catalog"
)

// Adapt converts ICA's HTML-derived store and offer records plus the
// store-locator payload into the common entity sets. All records are
// warehouse-scoped: ICA publishes offers per store, never chain-wide.
//
// Warehouses are the union of listing stores and locator stores, merged by
// store ID, with coordinates taken from the locator when present. A locator
// store with no offers stays a valid location-only warehouse.
func Adapt(stores []StoreRecord, locator []LocatorStore, offers []OfferRecord) *catalog.SourceRecords {
	rec := &catalog.SourceRecords{Source: Source}

	warehouseIdx := map[string]int{}

	for _, store := range stores {
		if strings.TrimSpace(store.StoreID) == "" {
			rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
				Source: Source,
				Reason: fmt.Sprintf("store %q missing store ID", store.Name),
			})
			continue
		}
		if _, dup := warehouseIdx[store.StoreID]; dup {
			continue
		}

		name := store.Name
		if name == "" && store.Slug != "" {
			// Listing records sometimes carry only the store page href.
			name = NameFromSlug(SlugFromHref(store.Slug))
		}
		warehouseIdx[store.StoreID] = len(rec.Warehouses)
		rec.Warehouses = append(rec.Warehouses, catalog.Warehouse{
			WarehouseID: store.StoreID,
			ChainID:     ChainID,
			Name:        name,
			Address:     store.Address,
			City:        store.City,
		})
	}

	for _, loc := range locator {
		if strings.TrimSpace(loc.StoreID) == "" {
			rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
				Source: Source,
				Reason: fmt.Sprintf("locator store %q missing store ID", loc.Name),
			})
			continue
		}

		var coords *catalog.Coordinates
		if loc.Coordinates.Present {
			coords = &catalog.Coordinates{
				Longitude: loc.Coordinates.Longitude,
				Latitude:  loc.Coordinates.Latitude,
			}
		}

		if idx, ok := warehouseIdx[loc.StoreID]; ok {
			wh := &rec.Warehouses[idx]
			wh.Coordinates = coords
			if wh.Address == "" {
				wh.Address = loc.Address
			}
			if wh.City == "" {
				wh.City = loc.City
			}
			continue
		}

		warehouseIdx[loc.StoreID] = len(rec.Warehouses)
		rec.Warehouses = append(rec.Warehouses, catalog.Warehouse{
			WarehouseID: loc.StoreID,
			ChainID:     ChainID,
			Name:        loc.Name,
			Address:     loc.Address,
			City:        loc.City,
			Coordinates: coords,
		})
	}

	seenProducts := map[string]string{} // normalized name -> product ID
	seenCategories := map[string]struct{}{}
	nextProduct := 1

	for _, offer := range offers {
		if strings.TrimSpace(offer.StoreID) == "" {
			rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
				Source: Source,
				Reason: fmt.Sprintf("offer %q missing store ID", offer.ProductName),
			})
			continue
		}
		name := strings.TrimSpace(offer.ProductName)
		if name == "" {
			rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
				Source: Source,
				Reason: "offer missing product name",
			})
			continue
		}

		pricing, ok := ParseOfferPricing(offer.OfferText)
		if !ok {
			rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
				Source: Source,
				Reason: fmt.Sprintf("offer %q has no parseable price in %q", name, offer.OfferText),
			})
			continue
		}

		categoryID := categoryFor(rec, offer.Category, seenCategories)

		productID, known := seenProducts[catalog.NormalizeName(name)]
		if !known {
			productID = fmt.Sprintf("offer-%04d", nextProduct)
			nextProduct++
			seenProducts[catalog.NormalizeName(name)] = productID
			rec.Products = append(rec.Products, catalog.Product{
				ProductID:  productID,
				Name:       name,
				CategoryID: categoryID,
			})
		}

		adaptOfferPricing(rec, productID, offer, pricing)
	}

	// The chain entity is synthesized, not observed. Registering it for a run
	// where every payload came back empty would make a dead source look like
	// a healthy catalog with nothing on sale.
	if len(rec.Warehouses) > 0 || len(rec.Products) > 0 {
		rec.Chains = append(rec.Chains, catalog.StoreChain{
			ChainID:     ChainID,
			DisplayName: "ICA",
		})
	}

	return rec
}

// categoryFor registers an offer's category label the first time it is seen
// and returns the source-local category ID. Offers without a label go
// uncategorized; the reconciler sorts that out.
func categoryFor(rec *catalog.SourceRecords, label string, seen map[string]struct{}) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	slug := slugify(label)
	if _, dup := seen[slug]; !dup {
		seen[slug] = struct{}{}
		rec.Categories = append(rec.Categories, catalog.Category{
			CategoryID: slug,
			Slug:       slug,
			Path:       []string{label},
		})
	}
	return slug
}

// adaptOfferPricing maps one decoded offer onto price and promotion records.
//
// With a regular price, the regular price is the warehouse base and the
// offer becomes a promotion against it. Without one, a flat sale price is
// the only observed price and becomes the base itself, while a multi-buy
// stays a bare promotion: the base may still arrive from another source and
// be matched during reconciliation.
func adaptOfferPricing(rec *catalog.SourceRecords, productID string, offer OfferRecord, pricing OfferPricing) {
	regularOre, hasRegular := kronorToOre(strings.TrimSuffix(strings.TrimSpace(offer.RegularPrice), " kr"))
	if hasRegular && regularOre > 0 {
		rec.Prices = append(rec.Prices, catalog.PriceRecord{
			ProductID:        productID,
			Scope:            catalog.ScopeWarehouse,
			ScopeID:          offer.StoreID,
			AmountMinorUnits: regularOre,
			Currency:         "SEK",
		})
	}

	switch pricing.Kind {
	case catalog.PromotionXForFixed:
		rec.Promotions = append(rec.Promotions, catalog.Promotion{
			ProductID:       productID,
			Scope:           catalog.ScopeWarehouse,
			ScopeID:         offer.StoreID,
			Kind:            catalog.PromotionXForFixed,
			UnitCount:       pricing.UnitCount,
			TotalMinorUnits: pricing.TotalOre,
		})

	case catalog.PromotionFixed:
		if hasRegular && regularOre > 0 {
			rec.Promotions = append(rec.Promotions, catalog.Promotion{
				ProductID:        productID,
				Scope:            catalog.ScopeWarehouse,
				ScopeID:          offer.StoreID,
				Kind:             catalog.PromotionFixed,
				TargetMinorUnits: pricing.SaleOre,
			})
			return
		}
		// Sale price with no regular price: the sale IS the observed price.
		rec.Prices = append(rec.Prices, catalog.PriceRecord{
			ProductID:        productID,
			Scope:            catalog.ScopeWarehouse,
			ScopeID:          offer.StoreID,
			AmountMinorUnits: pricing.SaleOre,
			Currency:         "SEK",
		})
	}
}

func slugify(label string) string {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = strings.Join(strings.Fields(slug), "-")
	replacer := strings.NewReplacer("å", "a", "ä", "a", "ö", "o", "é", "e")
	return replacer.Replace(slug)
}
