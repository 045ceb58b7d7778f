package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"cookwise/internal/cache"
	"cookwise/internal/catalog"
	"cookwise/internal/config"
	"cookwise/internal/ingest"
)

func main() {
	var (
		matsparFixture = flag.String("matspar-fixture", "", "path to a matspar fixture file (live fetch when empty)")
		icaStores      = flag.String("ica-stores", "", "path to ICA store records (HTML-derived JSON)")
		icaLocator     = flag.String("ica-locator", "", "path to ICA store-locator JSON")
		icaOffers      = flag.String("ica-offers", "", "path to ICA offer records (HTML-derived JSON)")
		snapshot       = flag.Bool("snapshot", true, "write the unified view to the snapshot cache")
		timeout        = flag.Duration("timeout", 5*time.Minute, "overall timeout for the ingestion run")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitErr(fmt.Errorf("load configuration: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var sources []ingest.Source
	sources = append(sources, &matsparSource{
		cfg:         cfg.Matspar,
		fixturePath: *matsparFixture,
	})
	if *icaStores != "" || *icaLocator != "" || *icaOffers != "" {
		sources = append(sources, &icaSource{
			storesPath:  *icaStores,
			locatorPath: *icaLocator,
			offersPath:  *icaOffers,
		})
	}

	view, diags, err := ingest.Run(ctx, cfg.Catalog, sources)
	if err != nil {
		exitErr(err)
	}

	printReport(view, diags)

	if *snapshot {
		if err := writeSnapshot(ctx, cfg.Snapshot.Dir, view); err != nil {
			exitErr(fmt.Errorf("write snapshot: %w", err))
		}
	}
}

func writeSnapshot(ctx context.Context, dir string, view *catalog.UnifiedView) error {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("encode unified view: %w", err)
	}
	key := fmt.Sprintf("runs/%s.json", time.Now().Format("2006-01-02"))
	store := cache.MakeCache(dir)
	if exists, err := store.Exists(ctx, key); err == nil && exists {
		fmt.Printf("\nReplacing today's snapshot %s\n", key)
	}
	if err := store.Put(ctx, key, string(data)); err != nil {
		return err
	}
	fmt.Printf("\nSnapshot written to %s/%s\n", dir, key)

	if runs, err := store.List(ctx, "runs/"); err == nil && len(runs) > 1 {
		fmt.Printf("%d run snapshots recorded, oldest %s\n", len(runs), runs[0])
	}
	return nil
}

func printReport(view *catalog.UnifiedView, diags *catalog.Diagnostics) {
	fmt.Println("==============================================")
	fmt.Println("  COOKWISE INGESTION RESULTS")
	fmt.Println("==============================================")
	fmt.Printf("Chains:     %d\n", len(view.Chains))
	fmt.Printf("Warehouses: %d\n", len(view.Warehouses))
	fmt.Printf("Categories: %d\n", len(view.Categories))
	fmt.Printf("Products:   %d\n", len(view.Products))
	fmt.Printf("Prices:     %d\n", len(view.Prices))
	fmt.Printf("Diagnostics: %s\n", diags.Summary())

	byName := lo.KeyBy(view.Products, func(p catalog.Product) string { return p.ProductID })
	warehouses := lo.KeyBy(view.Warehouses, func(w catalog.Warehouse) string { return w.WarehouseID })

	byProduct := lo.GroupBy(view.Prices, func(rp catalog.ResolvedPrice) string { return rp.ProductID })
	productIDs := lo.Keys(byProduct)
	sort.Strings(productIDs)

	fmt.Println("\n--- SAMPLE PRICES ---")
	shown := 0
	for _, pid := range productIDs {
		if shown >= 15 {
			fmt.Printf("... and %d more products\n", len(productIDs)-shown)
			break
		}
		shown++
		fmt.Printf("%s (%s)\n", byName[pid].Name, pid)
		for _, rp := range byProduct[pid] {
			label := warehouses[rp.WarehouseID].Name
			if label == "" {
				label = rp.WarehouseID
			}
			promo := ""
			if rp.Promotion != nil {
				promo = fmt.Sprintf(" [%s]", rp.Promotion.Kind)
			}
			fmt.Printf("  %-40s %s%s (%s)\n", label, formatKronor(rp.EffectiveMinorUnits), promo, rp.Granularity)
		}
	}
}

func formatKronor(ore int64) string {
	return fmt.Sprintf("%d,%02d kr", ore/100, ore%100)
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
