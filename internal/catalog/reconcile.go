package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// UnclassifiedSlug is the synthetic category products land in when their
// source category slug is not recognized.
const UnclassifiedSlug = "unclassified"

// Matcher decides when two products from different sources are the same
// real-world item. It is a heuristic, not a guarantee, so it is swappable:
// stricter or fuzzier strategies can be substituted without touching the
// resolver or evaluator.
type Matcher interface {
	Key(name string, categoryPath []string) string
}

// NameCategoryMatcher is the conservative default: case-folded,
// whitespace-collapsed name within the same resolved category path.
// Precision over recall; it never merges on fuzzy similarity.
type NameCategoryMatcher struct{}

func (NameCategoryMatcher) Key(name string, categoryPath []string) string {
	return NormalizeName(name) + "|" + strings.Join(categoryPath, "/")
}

// NormalizeName case-folds and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizeSlug lowercases, trims, and strips the category URL prefix some
// sources carry.
func NormalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	return strings.TrimPrefix(slug, "kategori/")
}

// Reconciler merges entity identities across sources and assembles the
// unified view. The chain mapping and recognized slug set are injected
// values, never process-wide state, so concurrent runs with different
// mappings do not interfere.
type Reconciler struct {
	chainMapping map[string]string
	slugs        map[string]struct{}
	matcher      Matcher
	currency     string
}

// NewReconciler builds a reconciler from the injected identity
// configuration. chainMapping keys are "source:chainID"; values are
// canonical chain identifiers. A nil matcher gets the conservative default.
func NewReconciler(chainMapping map[string]string, recognizedSlugs []string, currency string, matcher Matcher) *Reconciler {
	if matcher == nil {
		matcher = NameCategoryMatcher{}
	}
	slugs := make(map[string]struct{}, len(recognizedSlugs))
	for _, s := range recognizedSlugs {
		slugs[NormalizeSlug(s)] = struct{}{}
	}
	return &Reconciler{
		chainMapping: chainMapping,
		slugs:        slugs,
		matcher:      matcher,
		currency:     currency,
	}
}

// UnifiedView is the reconciled output consumed by the meal planner: every
// entity set cross-referenced by stable internal IDs decoupled from any
// source's native scheme.
type UnifiedView struct {
	Chains     []StoreChain    `json:"chains"`
	Warehouses []Warehouse     `json:"warehouses"`
	Categories []Category      `json:"categories"`
	Products   []Product       `json:"products"`
	Prices     []ResolvedPrice `json:"prices"`
}

type reconcileState struct {
	chains       map[string]StoreChain // canonical chain ID -> chain
	warehouseIDs map[string]string     // "source|warehouseID" -> internal ID
	warehouses   []Warehouse
	categoryIDs  map[string]string // "source|categoryID" -> internal ID
	categories   map[string]Category
	slugIDs      map[string]string // normalized slug -> internal category ID
	productIDs     map[string]string // "source|productID" -> internal ID
	productKeys    map[string]string // matcher key -> internal ID
	productNames   map[string]string // normalized name -> internal ID
	productSources map[string]string // internal ID -> first-seen source
	products       map[string]Product
}

// Reconcile merges all sources' entity sets into one unified view. Per-record
// problems are collected into the returned diagnostics; the only error is
// the fatal empty-source condition.
func (r *Reconciler) Reconcile(sources []SourceRecords) (*UnifiedView, *Diagnostics, error) {
	diags := &Diagnostics{}

	for _, src := range sources {
		diags.Merge(src.Diagnostics)
		if len(src.Chains) == 0 && len(src.Warehouses) == 0 && len(src.Products) == 0 {
			return nil, diags, &EmptySourceError{Source: src.Source}
		}
	}

	st := &reconcileState{
		chains:         map[string]StoreChain{},
		warehouseIDs:   map[string]string{},
		categoryIDs:    map[string]string{},
		categories:     map[string]Category{},
		slugIDs:        map[string]string{},
		productIDs:     map[string]string{},
		productKeys:    map[string]string{},
		productNames:   map[string]string{},
		productSources: map[string]string{},
		products:       map[string]Product{},
	}

	for _, src := range sources {
		r.mergeChains(st, src)
	}
	for _, src := range sources {
		r.mergeWarehouses(st, src)
	}
	for _, src := range sources {
		r.mergeCategories(st, src, diags)
	}
	for _, src := range sources {
		r.mergeProducts(st, src, diags)
	}

	var prices []PriceRecord
	var promos []Promotion
	for _, src := range sources {
		prices = append(prices, r.remapPrices(st, src, diags)...)
		promos = append(promos, r.remapPromotions(st, src, diags)...)
	}

	resolved := ResolvePrices(st.warehouses, prices, promos, diags)

	view := &UnifiedView{
		Chains:     lo.Values(st.chains),
		Warehouses: st.warehouses,
		Categories: lo.Values(st.categories),
		Products:   lo.Values(st.products),
		Prices:     resolved,
	}
	sort.Slice(view.Chains, func(i, j int) bool { return view.Chains[i].ChainID < view.Chains[j].ChainID })
	sort.Slice(view.Categories, func(i, j int) bool { return view.Categories[i].CategoryID < view.Categories[j].CategoryID })
	sort.Slice(view.Products, func(i, j int) bool { return view.Products[i].ProductID < view.Products[j].ProductID })

	return view, diags, nil
}

// canonicalChain maps a source-specific chain identifier through the fixed
// configuration table. Unmapped chains stay source-qualified rather than
// being guessed into an existing identity.
func (r *Reconciler) canonicalChain(source, chainID string) string {
	if canonical, ok := r.chainMapping[source+":"+chainID]; ok {
		return canonical
	}
	return source + ":" + chainID
}

func (r *Reconciler) mergeChains(st *reconcileState, src SourceRecords) {
	for _, chain := range src.Chains {
		canonical := r.canonicalChain(src.Source, chain.ChainID)
		if _, ok := st.chains[canonical]; ok {
			continue
		}
		st.chains[canonical] = StoreChain{
			ChainID:     canonical,
			DisplayName: chain.DisplayName,
		}
	}
}

func (r *Reconciler) mergeWarehouses(st *reconcileState, src SourceRecords) {
	for _, wh := range src.Warehouses {
		sourceKey := src.Source + "|" + wh.WarehouseID
		if _, ok := st.warehouseIDs[sourceKey]; ok {
			continue
		}
		canonical := r.canonicalChain(src.Source, wh.ChainID)
		if _, ok := st.chains[canonical]; !ok {
			// Location-only sources may introduce a chain we have no price
			// feed for. Register it so the warehouse stays addressable.
			st.chains[canonical] = StoreChain{ChainID: canonical, DisplayName: wh.ChainID}
		}
		internal := fmt.Sprintf("STR-%04d", len(st.warehouses)+1)
		st.warehouseIDs[sourceKey] = internal

		merged := wh
		merged.WarehouseID = internal
		merged.ChainID = canonical
		st.warehouses = append(st.warehouses, merged)
	}
}

func (r *Reconciler) unclassified(st *reconcileState) Category {
	if cat, ok := st.categories[UnclassifiedSlug]; ok {
		return cat
	}
	cat := Category{
		CategoryID: "CAT-0000",
		Path:       []string{"Unclassified"},
		Slug:       UnclassifiedSlug,
	}
	st.categories[UnclassifiedSlug] = cat
	st.slugIDs[UnclassifiedSlug] = cat.CategoryID
	return cat
}

func (r *Reconciler) mergeCategories(st *reconcileState, src SourceRecords, diags *Diagnostics) {
	for _, cat := range src.Categories {
		sourceKey := src.Source + "|" + cat.CategoryID
		if _, ok := st.categoryIDs[sourceKey]; ok {
			continue
		}

		slug := NormalizeSlug(cat.Slug)
		if _, recognized := r.slugs[slug]; !recognized {
			diags.UnknownCategories = append(diags.UnknownCategories, UnknownCategoryWarning{
				Source: src.Source,
				Slug:   cat.Slug,
			})
			st.categoryIDs[sourceKey] = r.unclassified(st).CategoryID
			continue
		}

		if internal, ok := st.slugIDs[slug]; ok {
			st.categoryIDs[sourceKey] = internal
			continue
		}

		internal := fmt.Sprintf("CAT-%04d", len(st.slugIDs)+1)
		merged := cat
		merged.CategoryID = internal
		merged.Slug = slug
		st.categories[slug] = merged
		st.slugIDs[slug] = internal
		st.categoryIDs[sourceKey] = internal
	}
}

func (r *Reconciler) categoryPath(st *reconcileState, internalCategoryID string) []string {
	for _, cat := range st.categories {
		if cat.CategoryID == internalCategoryID {
			return cat.Path
		}
	}
	return nil
}

func (r *Reconciler) mergeProducts(st *reconcileState, src SourceRecords, diags *Diagnostics) {
	for _, p := range src.Products {
		sourceKey := src.Source + "|" + p.ProductID
		if _, ok := st.productIDs[sourceKey]; ok {
			continue
		}

		categoryID, ok := st.categoryIDs[src.Source+"|"+p.CategoryID]
		if !ok {
			categoryID = r.unclassified(st).CategoryID
		}
		path := r.categoryPath(st, categoryID)
		key := r.matcher.Key(p.Name, path)

		if internal, ok := st.productKeys[key]; ok {
			st.productIDs[sourceKey] = internal
			continue
		}

		// Same normalized name under a different category path, arriving
		// from a different source: first-seen category wins and the conflict
		// is logged. Within one source a differing category path means two
		// distinct products, not a miscategorization.
		if internal, ok := st.productNames[NormalizeName(p.Name)]; ok && st.productSources[internal] != src.Source {
			existing := st.products[internal]
			diags.CategoryConflicts = append(diags.CategoryConflicts, CategoryConflictWarning{
				ProductName: p.Name,
				KeptPath:    strings.Join(r.categoryPath(st, existing.CategoryID), "/"),
				IgnoredPath: strings.Join(path, "/"),
			})
			st.productIDs[sourceKey] = internal
			continue
		}

		internal := fmt.Sprintf("PRD-%04d", len(st.products)+1)
		merged := p
		merged.ProductID = internal
		merged.CategoryID = categoryID
		st.products[internal] = merged
		st.productIDs[sourceKey] = internal
		st.productKeys[key] = internal
		st.productSources[internal] = src.Source
		if _, taken := st.productNames[NormalizeName(p.Name)]; !taken {
			st.productNames[NormalizeName(p.Name)] = internal
		}
	}
}

func (r *Reconciler) remapScope(st *reconcileState, source string, scope Scope, scopeID string) (string, bool) {
	switch scope {
	case ScopeChain:
		return r.canonicalChain(source, scopeID), true
	case ScopeWarehouse:
		internal, ok := st.warehouseIDs[source+"|"+scopeID]
		return internal, ok
	default:
		return "", false
	}
}

func (r *Reconciler) remapPrices(st *reconcileState, src SourceRecords, diags *Diagnostics) []PriceRecord {
	var out []PriceRecord
	for _, pr := range src.Prices {
		productID, ok := st.productIDs[src.Source+"|"+pr.ProductID]
		if !ok {
			diags.DroppedRecords = append(diags.DroppedRecords, MalformedSourceDataError{
				Source: src.Source,
				Reason: fmt.Sprintf("price record references unknown product %q", pr.ProductID),
			})
			continue
		}
		scopeID, ok := r.remapScope(st, src.Source, pr.Scope, pr.ScopeID)
		if !ok {
			diags.DroppedRecords = append(diags.DroppedRecords, MalformedSourceDataError{
				Source: src.Source,
				Reason: fmt.Sprintf("price record references unknown %s scope %q", pr.Scope, pr.ScopeID),
			})
			continue
		}

		remapped := pr
		remapped.ProductID = productID
		remapped.ScopeID = scopeID
		if remapped.Currency == "" {
			remapped.Currency = r.currency
		}
		out = append(out, remapped)
	}
	return out
}

func (r *Reconciler) remapPromotions(st *reconcileState, src SourceRecords, diags *Diagnostics) []Promotion {
	var out []Promotion
	for _, promo := range src.Promotions {
		productID, ok := st.productIDs[src.Source+"|"+promo.ProductID]
		if !ok {
			diags.DroppedRecords = append(diags.DroppedRecords, MalformedSourceDataError{
				Source: src.Source,
				Reason: fmt.Sprintf("promotion references unknown product %q", promo.ProductID),
			})
			continue
		}
		scopeID, ok := r.remapScope(st, src.Source, promo.Scope, promo.ScopeID)
		if !ok {
			diags.DroppedRecords = append(diags.DroppedRecords, MalformedSourceDataError{
				Source: src.Source,
				Reason: fmt.Sprintf("promotion references unknown %s scope %q", promo.Scope, promo.ScopeID),
			})
			continue
		}

		remapped := promo
		remapped.ProductID = productID
		remapped.ScopeID = scopeID
		out = append(out, remapped)
	}
	return out
}

// PricesForProduct returns every resolved price for one product.
func (v *UnifiedView) PricesForProduct(productID string) []ResolvedPrice {
	return lo.Filter(v.Prices, func(rp ResolvedPrice, _ int) bool {
		return rp.ProductID == productID
	})
}

// PricesAtWarehouse returns every resolved price available at one warehouse.
func (v *UnifiedView) PricesAtWarehouse(warehouseID string) []ResolvedPrice {
	return lo.Filter(v.Prices, func(rp ResolvedPrice, _ int) bool {
		return rp.WarehouseID == warehouseID
	})
}

// ProductsInCategory returns products whose category path matches exactly.
func (v *UnifiedView) ProductsInCategory(path ...string) []Product {
	var categoryID string
	for _, cat := range v.Categories {
		if len(cat.Path) != len(path) {
			continue
		}
		match := true
		for i := range path {
			if !strings.EqualFold(cat.Path[i], path[i]) {
				match = false
				break
			}
		}
		if match {
			categoryID = cat.CategoryID
			break
		}
	}
	if categoryID == "" {
		return nil
	}
	return lo.Filter(v.Products, func(p Product, _ int) bool {
		return p.CategoryID == categoryID
	})
}
