package catalog

import (
	"fmt"
	"strings"
)

// MalformedSourceDataError reports a raw record missing a required identity
// field or carrying an impossible value. The record is dropped and counted;
// the run continues.
type MalformedSourceDataError struct {
	Source string
	Reason string
}

func (e *MalformedSourceDataError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: malformed source record: %s", e.Source, e.Reason)
}

// InvalidPromotionError reports a promotion whose parameters make no sense
// (raising the price, zero units). The promotion is ignored and the base
// price used instead.
type InvalidPromotionError struct {
	ProductID string
	Kind      PromotionKind
	Reason    string
}

func (e *InvalidPromotionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("invalid %s promotion for product %s: %s", e.Kind, e.ProductID, e.Reason)
}

// EmptySourceError is the only fatal condition: an adapter returned no
// entities at all where at least one was expected. An empty catalog would
// otherwise look like "nothing on sale" rather than "ingestion failed".
type EmptySourceError struct {
	Source string
}

func (e *EmptySourceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("source %s returned no entities", e.Source)
}

// ConflictingPriceRecordsWarning flags multiple warehouse-scope records for
// the same (product, warehouse). The resolver keeps the lowest amount.
type ConflictingPriceRecordsWarning struct {
	ProductID   string
	WarehouseID string
	Amounts     []int64
}

func (w ConflictingPriceRecordsWarning) String() string {
	return fmt.Sprintf("conflicting warehouse prices for product %s at %s: %v (kept lowest)",
		w.ProductID, w.WarehouseID, w.Amounts)
}

// UnknownCategoryWarning flags a category slug not in the recognized set.
// Its products are retained under the synthetic unclassified category.
type UnknownCategoryWarning struct {
	Source string
	Slug   string
}

func (w UnknownCategoryWarning) String() string {
	return fmt.Sprintf("%s: unknown category slug %q, products kept as unclassified", w.Source, w.Slug)
}

// CategoryConflictWarning flags a product surfacing under two different
// category paths across sources. The first-seen category wins.
type CategoryConflictWarning struct {
	ProductName string
	KeptPath    string
	IgnoredPath string
}

func (w CategoryConflictWarning) String() string {
	return fmt.Sprintf("product %q categorized as %q and %q, kept first-seen",
		w.ProductName, w.KeptPath, w.IgnoredPath)
}

// Diagnostics collects per-record problems for a whole reconciliation run.
// Nothing here aborts the run; the caller decides whether data quality is
// acceptable.
type Diagnostics struct {
	DroppedRecords    []MalformedSourceDataError
	IgnoredPromotions []InvalidPromotionError
	PriceConflicts    []ConflictingPriceRecordsWarning
	UnknownCategories []UnknownCategoryWarning
	CategoryConflicts []CategoryConflictWarning
}

// Merge appends all of other's entries onto d.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.DroppedRecords = append(d.DroppedRecords, other.DroppedRecords...)
	d.IgnoredPromotions = append(d.IgnoredPromotions, other.IgnoredPromotions...)
	d.PriceConflicts = append(d.PriceConflicts, other.PriceConflicts...)
	d.UnknownCategories = append(d.UnknownCategories, other.UnknownCategories...)
	d.CategoryConflicts = append(d.CategoryConflicts, other.CategoryConflicts...)
}

// Empty reports whether the run produced no diagnostics at all.
func (d *Diagnostics) Empty() bool {
	return len(d.DroppedRecords) == 0 &&
		len(d.IgnoredPromotions) == 0 &&
		len(d.PriceConflicts) == 0 &&
		len(d.UnknownCategories) == 0 &&
		len(d.CategoryConflicts) == 0
}

// Summary renders a short human-readable digest for reports and logs.
func (d *Diagnostics) Summary() string {
	if d.Empty() {
		return "no diagnostics"
	}
	var parts []string
	if n := len(d.DroppedRecords); n > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped records", n))
	}
	if n := len(d.IgnoredPromotions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d ignored promotions", n))
	}
	if n := len(d.PriceConflicts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d price conflicts", n))
	}
	if n := len(d.UnknownCategories); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown categories", n))
	}
	if n := len(d.CategoryConflicts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d category conflicts", n))
	}
	return strings.Join(parts, ", ")
}
