package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cookwise/internal/catalog"
	"cookwise/internal/config"
)

// Source couples an external fetch layer with its record adapter. The core
// never sees transport or markup; it only receives the adapted entity sets.
type Source interface {
	Name() string
	Records(ctx context.Context) (*catalog.SourceRecords, error)
}

// Run adapts every source concurrently, joins at the reconciliation barrier,
// and returns the unified view with its run-level diagnostics.
//
// Each source's output is independent of the others, so the fan-out is safe;
// the identity-mapping step is the only serialization point. Cancellation is
// observed at the barrier and partial results are simply discarded.
func Run(ctx context.Context, cfg config.CatalogConfig, sources []Source) (*catalog.UnifiedView, *catalog.Diagnostics, error) {
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("no sources configured")
	}

	records := make([]catalog.SourceRecords, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			rec, err := src.Records(gctx)
			if err != nil {
				return fmt.Errorf("adapt source %s: %w", src.Name(), err)
			}
			records[i] = *rec
			slog.InfoContext(gctx, "adapted source",
				"source", src.Name(),
				"chains", len(rec.Chains),
				"warehouses", len(rec.Warehouses),
				"products", len(rec.Products),
				"prices", len(rec.Prices),
				"promotions", len(rec.Promotions),
				"dropped", len(rec.Diagnostics.DroppedRecords),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Barrier: all sources are in. Bail out before assembling anything if
	// the run was cancelled while sources were being adapted.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	reconciler := catalog.NewReconciler(cfg.ChainMapping, cfg.RecognizedSlugs, cfg.Currency, nil)
	view, diags, err := reconciler.Reconcile(records)
	if err != nil {
		return nil, diags, fmt.Errorf("reconcile sources: %w", err)
	}

	if !diags.Empty() {
		slog.WarnContext(ctx, "reconciliation finished with diagnostics", "summary", diags.Summary())
	}
	return view, diags, nil
}
