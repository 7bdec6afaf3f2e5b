package alerting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

// rulesFile is the on-disk YAML layout:
//
//	rules:
//	  - id: "1"
//	    name: High Temperature Alert
//	    kpi: temperature
//	    condition: above
//	    threshold: 2.0
//	    severity: critical
//	    channels: [dashboard, email, slack]
//	    enabled: true
type rulesFile struct {
	Rules []domain.AlertRule `yaml:"rules"`
}

// LoadRules reads and validates alert rules from a YAML file. An empty path
// returns the built-in defaults.
func LoadRules(path string) ([]domain.AlertRule, error) {
	if path == "" {
		return domain.DefaultAlertRules(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alert rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes and validates a YAML rule document.
func ParseRules(b []byte) ([]domain.AlertRule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse alert rules: %w", err)
	}

	seen := make(map[string]bool, len(f.Rules))
	for _, r := range f.Rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("alert rule %s: duplicate id", r.ID)
		}
		seen[r.ID] = true
	}
	return f.Rules, nil
}
