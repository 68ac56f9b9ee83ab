package config

import (
	"fmt"
	"os"

	"github.com/matst80/slask-boutique/pkg/types"
	"gopkg.in/yaml.v3"
)

type priceBandFile struct {
	Bands []string `yaml:"bands"`
}

func float(v float64) *float64 {
	return &v
}

// DefaultPriceBands are offered by the facet endpoint when no file is configured.
func DefaultPriceBands() []types.PriceBand {
	return []types.PriceBand{
		{Min: 0, Max: float(1000)},
		{Min: 1000, Max: float(2500)},
		{Min: 2500, Max: float(5000)},
		{Min: 5000, Max: float(10000)},
		{Min: 10000},
	}
}

// ParsePriceBands reads a yaml document of the form
//
//	bands:
//	  - 0-1000
//	  - 1000-2500
//	  - 2500-
//
// Invalid entries are an error here, unlike in filter requests.
func ParsePriceBands(data []byte) ([]types.PriceBand, error) {
	var f priceBandFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	bands := make([]types.PriceBand, 0, len(f.Bands))
	for _, s := range f.Bands {
		band, ok := types.ParsePriceBand(s)
		if !ok {
			return nil, fmt.Errorf("invalid price band %q", s)
		}
		bands = append(bands, band)
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("no price bands defined")
	}
	return bands, nil
}

// LoadPriceBands falls back to the defaults when path is empty.
func LoadPriceBands(path string) ([]types.PriceBand, error) {
	if path == "" {
		return DefaultPriceBands(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePriceBands(data)
}
