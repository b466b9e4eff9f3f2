package specproxy

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed data/devicespecs.json
var fallbackFS embed.FS

// Dataset is the bundled device-specification data served when the upstream
// is unreachable.
type Dataset struct {
	Brands []string                     `json:"brands"`
	Models map[string][]string          `json:"models"`
	Specs  map[string]map[string]string `json:"specs"`
}

// LoadFallback parses the embedded dataset.
func LoadFallback() (Dataset, error) {
	raw, err := fallbackFS.ReadFile("data/devicespecs.json")
	if err != nil {
		return Dataset{}, fmt.Errorf("specproxy: read fallback dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("specproxy: parse fallback dataset: %w", err)
	}
	return ds, nil
}

// ModelsFor returns the fallback model list for a brand, or an empty list.
func (d Dataset) ModelsFor(brand string) []string {
	if models, ok := d.Models[brand]; ok {
		return models
	}
	return []string{}
}

// SpecsFor returns the fallback spec map for a brand/model pair, or an empty
// map.
func (d Dataset) SpecsFor(brand, model string) map[string]string {
	if specs, ok := d.Specs[brand+"/"+model]; ok {
		return specs
	}
	return map[string]string{}
}
