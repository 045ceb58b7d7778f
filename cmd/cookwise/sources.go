package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"cookwise/internal/catalog"
	"cookwise/internal/config"
	"cookwise/internal/ica"
	"cookwise/internal/matspar"
)

// matsparSource fetches the aggregator API (or replays a fixture) and hands
// the payloads to the matspar adapter.
type matsparSource struct {
	cfg         config.MatsparConfig
	fixturePath string
}

func (s *matsparSource) Name() string { return matspar.Source }

type matsparFixture struct {
	Suppliers map[string]matspar.Supplier `json:"suppliers"`
	Pages     map[string]json.RawMessage  `json:"pages"`
}

func (s *matsparSource) Records(ctx context.Context) (*catalog.SourceRecords, error) {
	if s.fixturePath != "" {
		return s.fromFixture()
	}

	client := matspar.NewClient(s.cfg.BaseURL)
	suppliers, err := client.Suppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch suppliers: %w", err)
	}

	var fetches []matspar.CategoryFetch
	for _, slug := range s.cfg.CategorySlugs {
		page, err := client.CategoryPage(ctx, "kategori/"+slug)
		if err != nil {
			return nil, fmt.Errorf("fetch category %s: %w", slug, err)
		}
		fetches = append(fetches, matspar.CategoryFetch{Slug: slug, Page: page})
	}

	return matspar.Adapt(suppliers, fetches), nil
}

func (s *matsparSource) fromFixture() (*catalog.SourceRecords, error) {
	data, err := os.ReadFile(s.fixturePath)
	if err != nil {
		return nil, fmt.Errorf("read matspar fixture: %w", err)
	}
	var fixture matsparFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("unmarshal matspar fixture: %w", err)
	}

	var fetches []matspar.CategoryFetch
	for _, slug := range sortedFixtureSlugs(fixture.Pages) {
		page, err := matspar.ParseCategoryPage(fixture.Pages[slug])
		if err != nil {
			return nil, fmt.Errorf("parse fixture page %s: %w", slug, err)
		}
		fetches = append(fetches, matspar.CategoryFetch{Slug: slug, Page: page})
	}

	return matspar.Adapt(fixture.Suppliers, fetches), nil
}

// icaSource replays HTML-derived records and locator payloads from files and
// hands them to the ICA adapter. The HTML retrieval and parsing themselves
// live outside this program.
type icaSource struct {
	storesPath  string
	locatorPath string
	offersPath  string
}

func (s *icaSource) Name() string { return ica.Source }

func (s *icaSource) Records(_ context.Context) (*catalog.SourceRecords, error) {
	var stores []ica.StoreRecord
	if s.storesPath != "" {
		data, err := os.ReadFile(s.storesPath)
		if err != nil {
			return nil, fmt.Errorf("read ICA stores: %w", err)
		}
		if stores, err = ica.ParseStoreRecords(data); err != nil {
			return nil, err
		}
	}

	var locator []ica.LocatorStore
	if s.locatorPath != "" {
		data, err := os.ReadFile(s.locatorPath)
		if err != nil {
			return nil, fmt.Errorf("read ICA locator payload: %w", err)
		}
		if locator, err = ica.ParseLocatorStores(data); err != nil {
			return nil, err
		}
	}

	var offers []ica.OfferRecord
	if s.offersPath != "" {
		data, err := os.ReadFile(s.offersPath)
		if err != nil {
			return nil, fmt.Errorf("read ICA offers: %w", err)
		}
		if offers, err = ica.ParseOfferRecords(data); err != nil {
			return nil, err
		}
	}

	return ica.Adapt(stores, locator, offers), nil
}

func sortedFixtureSlugs(pages map[string]json.RawMessage) []string {
	slugs := make([]string, 0, len(pages))
	for slug := range pages {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
