package catalog

// Scope identifies the granularity a price or promotion applies at.
type Scope string

const (
	// ScopeChain applies to every warehouse of a chain unless overridden.
	ScopeChain Scope = "CHAIN"
	// ScopeWarehouse applies to one physical store location.
	ScopeWarehouse Scope = "WAREHOUSE"
)

// Granularity records which scope a resolved price came from, so consumers
// can reason about confidence.
type Granularity string

const (
	GranularityChainDefault      Granularity = "CHAIN_DEFAULT"
	GranularityWarehouseOverride Granularity = "WAREHOUSE_OVERRIDE"
)

// StoreChain is a retail brand. Immutable once registered during adapter
// bootstrap.
type StoreChain struct {
	ChainID     string `json:"chainId"`
	DisplayName string `json:"displayName"`
}

// Coordinates is a WGS84 point for a warehouse.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Warehouse is one physical store location belonging to exactly one chain.
// A warehouse from a store-locator source may carry no price data at all;
// that is a valid, location-only record.
type Warehouse struct {
	WarehouseID string       `json:"warehouseId"`
	ChainID     string       `json:"chainId"`
	Name        string       `json:"name,omitempty"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Category is a hierarchical product grouping. Slug is the source-facing
// identifier and is treated as unstable: it is validated against the
// recognized set at reconciliation time, never trusted blindly.
type Category struct {
	CategoryID string   `json:"categoryId"`
	Path       []string `json:"path"`
	Slug       string   `json:"slug"`
}

// Product is a sellable item. The same real-world product may surface under
// different ProductIDs from different sources; merging those identities is
// the reconciler's job.
type Product struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Brand      string `json:"brand,omitempty"`
	Weight     string `json:"weight,omitempty"`
	CategoryID string `json:"categoryId"`
}

// PriceRecord is the price of one product at one granularity. Amounts are
// integer minor currency units (öre); never a float.
type PriceRecord struct {
	ProductID        string `json:"productId"`
	Scope            Scope  `json:"scope"`
	ScopeID          string `json:"scopeId"`
	AmountMinorUnits int64  `json:"amountMinorUnits"`
	Currency         string `json:"currency"`
}

// PromotionKind tags the closed set of discount encodings.
type PromotionKind string

const (
	// PromotionFixed is a flat reduced price.
	PromotionFixed PromotionKind = "FIXED"
	// PromotionXForFixed is buy N units for a fixed total.
	PromotionXForFixed PromotionKind = "X_FOR_FIXED"
)

// Promotion is a discount applicable to a price record. Parameter fields are
// kind-specific: FIXED uses TargetMinorUnits, X_FOR_FIXED uses UnitCount and
// TotalMinorUnits.
type Promotion struct {
	ProductID        string        `json:"productId"`
	Scope            Scope         `json:"scope"`
	ScopeID          string        `json:"scopeId"`
	Kind             PromotionKind `json:"kind"`
	TargetMinorUnits int64         `json:"targetMinorUnits,omitempty"`
	UnitCount        int64         `json:"unitCount,omitempty"`
	TotalMinorUnits  int64         `json:"totalMinorUnits,omitempty"`
}

// ResolvedPrice is the engine's output unit: one authoritative price per
// (product, warehouse) pair, after promotion evaluation.
type ResolvedPrice struct {
	ProductID           string      `json:"productId"`
	WarehouseID         string      `json:"warehouseId"`
	BaseMinorUnits      int64       `json:"baseMinorUnits"`
	EffectiveMinorUnits int64       `json:"effectiveMinorUnits"`
	Currency            string      `json:"currency"`
	Promotion           *Promotion  `json:"promotion,omitempty"`
	Granularity         Granularity `json:"sourceGranularity"`
}

// SourceRecords is one adapter's full output: the common entity sets plus
// the per-record diagnostics the adapter collected while translating.
type SourceRecords struct {
	Source      string
	Chains      []StoreChain
	Warehouses  []Warehouse
	Categories  []Category
	Products    []Product
	Prices      []PriceRecord
	Promotions  []Promotion
	Diagnostics Diagnostics
}
