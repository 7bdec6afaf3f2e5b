package alerting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

const validRules = `
rules:
  - id: heat
    name: Extreme Heat
    kpi: temperature
    condition: above
    threshold: 1.8
    severity: high
    channels: [dashboard, push]
    enabled: true
  - id: drought
    name: Drying Trend
    kpi: precipitation
    condition: below
    threshold: 0
    severity: medium
    channels: [email]
    enabled: false
`

func TestLoadRules_DefaultWhenPathEmpty(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAlertRules(), rules)
}

func TestLoadRules_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validRules), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, domain.AlertRule{
		ID:        "heat",
		Name:      "Extreme Heat",
		KPI:       domain.KPITemperature,
		Condition: domain.ConditionAbove,
		Threshold: 1.8,
		Severity:  domain.SeverityHigh,
		Channels:  []domain.NotificationChannel{domain.ChannelDashboard, domain.ChannelPush},
		Enabled:   true,
	}, rules[0])
	assert.False(t, rules[1].Enabled)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read alert rules")
}

func TestParseRules_Invalid(t *testing.T) {
	_, err := ParseRules([]byte("rules: [not: valid: yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse alert rules")

	_, err = ParseRules([]byte("rules:\n  - id: x\n    kpi: humidity\n    condition: above\n    severity: low\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kpi")

	dup := "rules:\n" +
		"  - {id: a, kpi: temperature, condition: above, severity: low}\n" +
		"  - {id: a, kpi: sea_level, condition: above, severity: low}\n"
	_, err = ParseRules([]byte(dup))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}
