package ica

import (
	"encoding/json"
	"fmt"
)

// LocatorStore is one entry of the store-locator API payload. A locator
// store with no matching offer data is a valid, location-only warehouse.
type LocatorStore struct {
	StoreID     string      `json:"storeId"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
}

// Coordinates stores the locator's [longitude, latitude] coordinate tuple.
type Coordinates struct {
	Longitude float64
	Latitude  float64
	Present   bool
}

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Coordinates{}
		return nil
	}
	var tuple []float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("unmarshal coordinates: %w", err)
	}
	if len(tuple) == 0 {
		*c = Coordinates{}
		return nil
	}
	if len(tuple) != 2 {
		return fmt.Errorf("coordinates must contain [longitude, latitude], got %d values", len(tuple))
	}
	c.Longitude = tuple[0]
	c.Latitude = tuple[1]
	c.Present = true
	return nil
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	if !c.Present {
		return []byte("null"), nil
	}
	return json.Marshal([]float64{c.Longitude, c.Latitude})
}

// ParseLocatorStores unmarshals store-locator payloads from array or
// wrapped shapes.
func ParseLocatorStores(data []byte) ([]LocatorStore, error) {
	var stores []LocatorStore
	if err := json.Unmarshal(data, &stores); err == nil {
		return stores, nil
	}

	var wrapped struct {
		Stores  []LocatorStore `json:"stores"`
		Results []LocatorStore `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("unmarshal locator payload: %w", err)
	}
	if len(wrapped.Stores) > 0 {
		return wrapped.Stores, nil
	}
	return wrapped.Results, nil
}
