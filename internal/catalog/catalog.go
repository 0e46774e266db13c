package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Metric describes one monthly metric chapters set goals for.
type Metric struct {
	Key          string `yaml:"key" json:"key"`
	Label        string `yaml:"label" json:"label"`
	Description  string `yaml:"description" json:"description"`
	UnitLabel    string `yaml:"unit_label" json:"unitLabel"`
	GoalMin      int    `yaml:"goal_min" json:"goalMin"`
	SuggestedMax int    `yaml:"suggested_max" json:"suggestedMax"`
}

// Region groups the chapters an operator can pick from.
type Region struct {
	Name     string   `yaml:"name" json:"name"`
	Chapters []string `yaml:"chapters" json:"chapters"`
}

// Catalog is the static application catalog: regions, metrics and reason chips.
type Catalog struct {
	AppVersion  string   `yaml:"app_version" json:"appVersion"`
	Regions     []Region `yaml:"regions" json:"regions"`
	Metrics     []Metric `yaml:"metrics" json:"metrics"`
	ReasonChips []string `yaml:"reason_chips" json:"reasonChips"`
}

// Load returns the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Metrics) == 0 {
		return nil, fmt.Errorf("catalog defines no metrics")
	}
	return &c, nil
}

// MetricKeys returns the allowed metric keys in catalog order.
func (c *Catalog) MetricKeys() []string {
	keys := make([]string, len(c.Metrics))
	for i, m := range c.Metrics {
		keys[i] = m.Key
	}
	return keys
}

// FindMetric returns the metric definition for key, or nil if unknown.
func (c *Catalog) FindMetric(key string) *Metric {
	for i := range c.Metrics {
		if c.Metrics[i].Key == key {
			return &c.Metrics[i]
		}
	}
	return nil
}
