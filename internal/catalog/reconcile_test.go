package catalog

import (
	"errors"
	"reflect"
	"testing"
)

var testChainMapping = map[string]string{
	"matspar:17": "ica",
	"matspar:15": "willys",
	"ica:ica":    "ica",
}

var testSlugs = []string{"frukt-gront", "mejeri-ost-agg"}

func matsparRecords() SourceRecords {
	return SourceRecords{
		Source: "matspar",
		Chains: []StoreChain{
			{ChainID: "17", DisplayName: "ICA"},
			{ChainID: "15", DisplayName: "Willys"},
		},
		Categories: []Category{
			{CategoryID: "frukt-gront", Slug: "frukt-gront", Path: []string{"Frukt Gront"}},
		},
		Products: []Product{
			{ProductID: "1001", Name: "Bananer Eko", CategoryID: "frukt-gront"},
		},
		Prices: []PriceRecord{
			{ProductID: "1001", Scope: ScopeChain, ScopeID: "17", AmountMinorUnits: 2000, Currency: "SEK"},
			{ProductID: "1001", Scope: ScopeChain, ScopeID: "15", AmountMinorUnits: 1900, Currency: "SEK"},
		},
	}
}

func icaRecords() SourceRecords {
	return SourceRecords{
		Source: "ica",
		Chains: []StoreChain{
			{ChainID: "ica", DisplayName: "ICA"},
		},
		Warehouses: []Warehouse{
			{WarehouseID: "1004028", ChainID: "ica", Name: "Maxi ICA Stormarknad Karlskrona"},
		},
		Categories: []Category{
			{CategoryID: "frukt-gront", Slug: "frukt-gront", Path: []string{"Frukt Gront"}},
		},
		Products: []Product{
			{ProductID: "offer-0001", Name: "bananer  eko", CategoryID: "frukt-gront"},
		},
		Prices: []PriceRecord{
			{ProductID: "offer-0001", Scope: ScopeWarehouse, ScopeID: "1004028", AmountMinorUnits: 1800, Currency: "SEK"},
		},
	}
}

func TestReconcile_MergesProductAcrossSources(t *testing.T) {
	t.Parallel()

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	view, diags, err := r.Reconcile([]SourceRecords{matsparRecords(), icaRecords()})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %s", diags.Summary())
	}

	// "Bananer Eko" and "bananer  eko" in the same category are one product.
	if len(view.Products) != 1 {
		t.Fatalf("expected one merged product, got %d", len(view.Products))
	}
	product := view.Products[0]

	prices := view.PricesForProduct(product.ProductID)
	if len(prices) != 1 {
		t.Fatalf("expected one resolved price, got %d", len(prices))
	}

	// ICA's warehouse price overrides matspar's chain price for the same
	// canonical chain.
	rp := prices[0]
	if rp.BaseMinorUnits != 1800 {
		t.Fatalf("base = %d, want warehouse override 1800", rp.BaseMinorUnits)
	}
	if rp.Granularity != GranularityWarehouseOverride {
		t.Fatalf("granularity = %s, want %s", rp.Granularity, GranularityWarehouseOverride)
	}
}

func TestReconcile_ChainPriceAppliesToOtherSourcesWarehouses(t *testing.T) {
	t.Parallel()

	matspar := matsparRecords()
	ica := icaRecords()
	ica.Prices = nil // no warehouse override; the chain default must apply

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	view, _, err := r.Reconcile([]SourceRecords{matspar, ica})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(view.Prices) != 1 {
		t.Fatalf("expected one resolved price, got %d", len(view.Prices))
	}
	rp := view.Prices[0]
	if rp.BaseMinorUnits != 2000 {
		t.Fatalf("base = %d, want matspar ICA chain price 2000", rp.BaseMinorUnits)
	}
	if rp.Granularity != GranularityChainDefault {
		t.Fatalf("granularity = %s, want %s", rp.Granularity, GranularityChainDefault)
	}
}

func TestReconcile_UnknownCategorySlug(t *testing.T) {
	t.Parallel()

	src := matsparRecords()
	src.Categories = []Category{
		{CategoryID: "frukt-och-gront", Slug: "frukt-och-gront", Path: []string{"Frukt Och Gront"}},
	}
	src.Products[0].CategoryID = "frukt-och-gront"

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	view, diags, err := r.Reconcile([]SourceRecords{src})
	if err != nil {
		t.Fatalf("run must still succeed: %v", err)
	}

	if len(diags.UnknownCategories) != 1 {
		t.Fatalf("expected one UnknownCategoryWarning, got %d", len(diags.UnknownCategories))
	}
	if diags.UnknownCategories[0].Slug != "frukt-och-gront" {
		t.Fatalf("unexpected warning slug: %q", diags.UnknownCategories[0].Slug)
	}

	if len(view.Products) != 1 {
		t.Fatalf("product must be retained, got %d products", len(view.Products))
	}
	unclassified := view.ProductsInCategory("Unclassified")
	if len(unclassified) != 1 {
		t.Fatalf("expected product under unclassified, got %d", len(unclassified))
	}
}

func TestReconcile_CategoryConflictFirstSeenWins(t *testing.T) {
	t.Parallel()

	first := matsparRecords()

	second := icaRecords()
	second.Categories = []Category{
		{CategoryID: "mejeri-ost-agg", Slug: "mejeri-ost-agg", Path: []string{"Mejeri Ost Agg"}},
	}
	second.Products = []Product{
		{ProductID: "offer-0001", Name: "Bananer Eko", CategoryID: "mejeri-ost-agg"},
	}
	second.Prices = nil

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	view, diags, err := r.Reconcile([]SourceRecords{first, second})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(view.Products) != 1 {
		t.Fatalf("expected one product, got %d", len(view.Products))
	}
	if len(diags.CategoryConflicts) != 1 {
		t.Fatalf("expected one CategoryConflictWarning, got %d", len(diags.CategoryConflicts))
	}

	kept := view.ProductsInCategory("Frukt Gront")
	if len(kept) != 1 {
		t.Fatal("first-seen category must win")
	}
}

func TestReconcile_SameSourceSameNameStaysDistinct(t *testing.T) {
	t.Parallel()

	src := matsparRecords()
	src.Categories = append(src.Categories, Category{
		CategoryID: "mejeri-ost-agg", Slug: "mejeri-ost-agg", Path: []string{"Mejeri Ost Agg"},
	})
	// One source listing the same name under two categories describes two
	// products (e.g. a drink and a dairy item sharing a brand name).
	src.Products = append(src.Products, Product{
		ProductID: "1002", Name: "Bananer Eko", CategoryID: "mejeri-ost-agg",
	})

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	view, diags, err := r.Reconcile([]SourceRecords{src})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(view.Products) != 2 {
		t.Fatalf("expected two distinct products, got %d: %+v", len(view.Products), view.Products)
	}
	if len(diags.CategoryConflicts) != 0 {
		t.Fatalf("same-source records must not log a category conflict, got %+v", diags.CategoryConflicts)
	}
}

func TestReconcile_EmptySourceIsFatal(t *testing.T) {
	t.Parallel()

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	_, _, err := r.Reconcile([]SourceRecords{matsparRecords(), {Source: "ica"}})
	if err == nil {
		t.Fatal("expected fatal error for empty source")
	}
	var empty *EmptySourceError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySourceError, got %T: %v", err, err)
	}
	if empty.Source != "ica" {
		t.Fatalf("unexpected source in error: %q", empty.Source)
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	t.Parallel()

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)

	sources := func() []SourceRecords {
		return []SourceRecords{matsparRecords(), icaRecords()}
	}

	first, _, err := r.Reconcile(sources())
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	second, _, err := r.Reconcile(sources())
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reconciliation is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestReconcile_LocationOnlyWarehouseIsValid(t *testing.T) {
	t.Parallel()

	src := icaRecords()
	src.Warehouses = append(src.Warehouses, Warehouse{
		WarehouseID: "1004031",
		ChainID:     "ica",
		Name:        "ICA Nära Pottholmen",
		Coordinates: &Coordinates{Longitude: 15.5866, Latitude: 56.1621},
	})

	r := NewReconciler(testChainMapping, testSlugs, "SEK", nil)
	view, _, err := r.Reconcile([]SourceRecords{src})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if len(view.Warehouses) != 2 {
		t.Fatalf("expected both warehouses, got %d", len(view.Warehouses))
	}
	var locationOnly *Warehouse
	for i := range view.Warehouses {
		if view.Warehouses[i].Name == "ICA Nära Pottholmen" {
			locationOnly = &view.Warehouses[i]
		}
	}
	if locationOnly == nil {
		t.Fatal("location-only warehouse missing from unified view")
	}
	if len(view.PricesAtWarehouse(locationOnly.WarehouseID)) != 0 {
		t.Fatal("location-only warehouse must have no resolved prices")
	}
}
