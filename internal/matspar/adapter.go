package matspar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cookwise/internal/catalog"
)

// Source is the identifier this adapter stamps on its records. Chain mapping
// keys are qualified with it ("matspar:17").
const Source = "matspar"

// CategoryFetch pairs one category slug with its fetched page payload.
type CategoryFetch struct {
	Slug string
	Page *CategoryPage
}

// Adapt converts raw matspar payloads into the common entity sets. It owns
// all source-specific renaming, öre normalization, and flattening of the
// nested category containers; it performs no I/O.
//
// Only suppliers of type "store" carrying the grocery category register as
// chains. Records missing a product ID are dropped and counted, never
// coerced into a guessed identity.
func Adapt(suppliers map[string]Supplier, fetches []CategoryFetch) *catalog.SourceRecords {
	rec := &catalog.SourceRecords{Source: Source}

	for _, sid := range supplierIDs(suppliers) {
		sup := suppliers[sid]
		if sup.Type != "store" || !hasGrocery(sup.Categories) {
			continue
		}
		name := sup.LongName
		if name == "" {
			name = sup.Name
		}
		rec.Chains = append(rec.Chains, catalog.StoreChain{
			ChainID:     sid,
			DisplayName: name,
		})
	}

	seenProducts := map[int64]struct{}{}
	seenWarehouses := map[string]struct{}{}

	for _, fetch := range fetches {
		slug := catalog.NormalizeSlug(fetch.Slug)
		rec.Categories = append(rec.Categories, catalog.Category{
			CategoryID: slug,
			Slug:       slug,
			Path:       []string{titleFromSlug(slug)},
		})

		for wid, store := range fetch.Page.Stores {
			if _, dup := seenWarehouses[wid]; dup {
				continue
			}
			if store.Supplier == "" {
				rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
					Source: Source,
					Reason: fmt.Sprintf("store %q missing supplier ID", wid),
				})
				continue
			}
			seenWarehouses[wid] = struct{}{}
			rec.Warehouses = append(rec.Warehouses, catalog.Warehouse{
				WarehouseID: wid,
				ChainID:     store.Supplier,
				Name:        store.Name,
			})
		}

		for _, raw := range fetch.Page.AllProducts() {
			if raw.ProductID == 0 {
				rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
					Source: Source,
					Reason: fmt.Sprintf("product %q missing product ID", raw.Name),
				})
				continue
			}
			if strings.TrimSpace(raw.Name) == "" {
				rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
					Source: Source,
					Reason: fmt.Sprintf("product %d missing name", raw.ProductID),
				})
				continue
			}
			if _, dup := seenProducts[raw.ProductID]; dup {
				continue
			}
			seenProducts[raw.ProductID] = struct{}{}

			productID := strconv.FormatInt(raw.ProductID, 10)
			rec.Products = append(rec.Products, catalog.Product{
				ProductID:  productID,
				Name:       raw.Name,
				Brand:      raw.Brand,
				Weight:     raw.WeightPretty,
				CategoryID: slug,
			})

			adaptPrices(rec, productID, raw)
		}
	}

	sortRecords(rec)
	return rec
}

func adaptPrices(rec *catalog.SourceRecords, productID string, raw Product) {
	for _, sid := range sortedStringKeys(raw.Prices) {
		appendPrice(rec, productID, catalog.ScopeChain, sid, int64(raw.Prices[sid]))
	}
	for _, wid := range sortedStringKeys(raw.StorePrices) {
		appendPrice(rec, productID, catalog.ScopeWarehouse, wid, int64(raw.StorePrices[wid]))
	}

	for _, sid := range sortedPromoKeys(raw.Promo) {
		appendPromo(rec, productID, catalog.ScopeChain, sid, raw.Promo[sid])
	}
	for _, wid := range sortedPromoKeys(raw.StorePromo) {
		appendPromo(rec, productID, catalog.ScopeWarehouse, wid, raw.StorePromo[wid])
	}
}

func appendPrice(rec *catalog.SourceRecords, productID string, scope catalog.Scope, scopeID string, ore int64) {
	if ore == 0 {
		// Null or zero means the supplier does not carry the product.
		return
	}
	if ore < 0 {
		rec.Diagnostics.DroppedRecords = append(rec.Diagnostics.DroppedRecords, catalog.MalformedSourceDataError{
			Source: Source,
			Reason: fmt.Sprintf("negative price %d for product %s at %s %s", ore, productID, scope, scopeID),
		})
		return
	}
	rec.Prices = append(rec.Prices, catalog.PriceRecord{
		ProductID:        productID,
		Scope:            scope,
		ScopeID:          scopeID,
		AmountMinorUnits: ore,
		Currency:         "SEK",
	})
}

func appendPromo(rec *catalog.SourceRecords, productID string, scope catalog.Scope, scopeID string, promo Promo) {
	if promo.Price <= 0 {
		return
	}
	if promo.Type == "multi" {
		rec.Promotions = append(rec.Promotions, catalog.Promotion{
			ProductID:       productID,
			Scope:           scope,
			ScopeID:         scopeID,
			Kind:            catalog.PromotionXForFixed,
			UnitCount:       promo.Count,
			TotalMinorUnits: int64(promo.Price),
		})
		return
	}
	rec.Promotions = append(rec.Promotions, catalog.Promotion{
		ProductID:        productID,
		Scope:            scope,
		ScopeID:          scopeID,
		Kind:             catalog.PromotionFixed,
		TargetMinorUnits: int64(promo.Price),
	})
}

func hasGrocery(categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(c, "grocery") {
			return true
		}
	}
	return false
}

// titleFromSlug turns "frukt-gront" into "Frukt Gront" for category paths.
func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func supplierIDs(suppliers map[string]Supplier) []string {
	ids := make([]string, 0, len(suppliers))
	for id := range suppliers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedStringKeys(m map[string]Ore) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPromoKeys(m map[string]Promo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortRecords(rec *catalog.SourceRecords) {
	sort.Slice(rec.Warehouses, func(i, j int) bool {
		return rec.Warehouses[i].WarehouseID < rec.Warehouses[j].WarehouseID
	})
}
