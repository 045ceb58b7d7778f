package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"MATSPAR_BASE_URL", "MATSPAR_CATEGORIES", "CATALOG_CURRENCY", "CATALOG_CHAIN_MAPPING"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Matspar.BaseURL != "https://api.matspar.se" {
		t.Fatalf("unexpected base URL: %q", cfg.Matspar.BaseURL)
	}
	if cfg.Catalog.Currency != "SEK" {
		t.Fatalf("unexpected currency: %q", cfg.Catalog.Currency)
	}
	if len(cfg.Matspar.CategorySlugs) == 0 {
		t.Fatal("default category slugs missing")
	}
	if cfg.Catalog.ChainMapping["matspar:17"] != "ica" {
		t.Fatalf("unexpected chain mapping: %+v", cfg.Catalog.ChainMapping)
	}
	if cfg.Catalog.ChainMapping["ica:ica"] != "ica" {
		t.Fatalf("ICA's own chain must map to the canonical chain: %+v", cfg.Catalog.ChainMapping)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MATSPAR_BASE_URL", "http://localhost:8080")
	t.Setenv("MATSPAR_CATEGORIES", "frukt-gront, dryck")
	t.Setenv("CATALOG_CURRENCY", "EUR")
	t.Setenv("CATALOG_CHAIN_MAPPING", "matspar:21=lidl, matspar:17=ica-overridden")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Matspar.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base URL: %q", cfg.Matspar.BaseURL)
	}
	if len(cfg.Matspar.CategorySlugs) != 2 || cfg.Matspar.CategorySlugs[1] != "dryck" {
		t.Fatalf("unexpected category slugs: %v", cfg.Matspar.CategorySlugs)
	}
	if cfg.Catalog.Currency != "EUR" {
		t.Fatalf("unexpected currency: %q", cfg.Catalog.Currency)
	}
	if cfg.Catalog.ChainMapping["matspar:21"] != "lidl" {
		t.Fatalf("extra mapping entry missing: %+v", cfg.Catalog.ChainMapping)
	}
	if cfg.Catalog.ChainMapping["matspar:17"] != "ica-overridden" {
		t.Fatalf("env mapping must override the default: %+v", cfg.Catalog.ChainMapping)
	}
	if cfg.Catalog.ChainMapping["matspar:13"] != "coop" {
		t.Fatalf("untouched defaults must survive the merge: %+v", cfg.Catalog.ChainMapping)
	}
}

func TestLoad_InvalidChainMapping(t *testing.T) {
	t.Setenv("CATALOG_CHAIN_MAPPING", "matspar:21")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for mapping entry without a value")
	}
}

func TestParseChainMapping(t *testing.T) {
	t.Parallel()

	mapping, err := parseChainMapping(" matspar:17 = ica ,, ica:ica=ica ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("expected 2 entries, got %v", mapping)
	}
	if mapping["matspar:17"] != "ica" {
		t.Fatalf("whitespace must be trimmed: %v", mapping)
	}
}
