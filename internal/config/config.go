package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Matspar  MatsparConfig  `json:"matspar"`
	Catalog  CatalogConfig  `json:"catalog"`
	Snapshot SnapshotConfig `json:"snapshot"`
}

type MatsparConfig struct {
	BaseURL       string   `json:"base_url"`
	CategorySlugs []string `json:"category_slugs"`
}

// CatalogConfig is the identity configuration the reconciler consumes: the
// fixed chain mapping table and the recognized category slug set. It is
// passed by value into reconciliation runs, never held as process state.
type CatalogConfig struct {
	Currency        string            `json:"currency"`
	ChainMapping    map[string]string `json:"chain_mapping"`
	RecognizedSlugs []string          `json:"recognized_slugs"`
}

type SnapshotConfig struct {
	Dir string `json:"dir"`
}

// defaultCategorySlugs are the grocery categories scraped from matspar.
var defaultCategorySlugs = []string{
	"frukt-gront",
	"mejeri-ost-agg",
	"kott-fagel-chark",
	"fisk-skaldjur",
	"brod-bageri",
	"skafferi",
	"dryck",
}

// defaultChainMapping maps source-specific chain identifiers to canonical
// chains. Supplier IDs are stable per source but meaningless across sources,
// so the table is explicit, never inferred.
var defaultChainMapping = map[string]string{
	"matspar:17": "ica",
	"matspar:13": "coop",
	"matspar:15": "willys",
	"matspar:16": "hemkop",
	"matspar:11": "mathem",
	"matspar:18": "citygross",
	"ica:ica":    "ica",
}

func Load() (*Config, error) {
	config := &Config{
		Matspar: MatsparConfig{
			BaseURL:       getEnvOrDefault("MATSPAR_BASE_URL", "https://api.matspar.se"),
			CategorySlugs: splitEnvOrDefault("MATSPAR_CATEGORIES", defaultCategorySlugs),
		},
		Catalog: CatalogConfig{
			Currency:        getEnvOrDefault("CATALOG_CURRENCY", "SEK"),
			ChainMapping:    copyMapping(defaultChainMapping),
			RecognizedSlugs: splitEnvOrDefault("CATALOG_CATEGORY_SLUGS", defaultCategorySlugs),
		},
		Snapshot: SnapshotConfig{
			Dir: getEnvOrDefault("SNAPSHOT_DIR", "snapshots"),
		},
	}

	if extra := os.Getenv("CATALOG_CHAIN_MAPPING"); extra != "" {
		mapping, err := parseChainMapping(extra)
		if err != nil {
			return nil, fmt.Errorf("parse CATALOG_CHAIN_MAPPING: %w", err)
		}
		for k, v := range mapping {
			config.Catalog.ChainMapping[k] = v
		}
	}

	return config, nil
}

// parseChainMapping parses "matspar:17=ica,matspar:13=coop" pairs.
func parseChainMapping(raw string) (map[string]string, error) {
	mapping := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("invalid mapping entry %q", pair)
		}
		mapping[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return mapping, nil
}

func copyMapping(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitEnvOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
