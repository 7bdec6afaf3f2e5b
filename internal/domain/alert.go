package domain

import (
	"fmt"
	"time"
)

// KPI names a projected metric that alert rules can watch.
type KPI string

const (
	KPITemperature   KPI = "temperature"
	KPIPrecipitation KPI = "precipitation"
	KPISeaLevel      KPI = "sea_level"
	KPIExtremeEvents KPI = "extreme_events"
)

// Valid reports whether k is a known KPI.
func (k KPI) Valid() bool {
	switch k {
	case KPITemperature, KPIPrecipitation, KPISeaLevel, KPIExtremeEvents:
		return true
	}
	return false
}

// Label returns the human-readable metric name.
func (k KPI) Label() string {
	switch k {
	case KPITemperature:
		return "Temperature"
	case KPIPrecipitation:
		return "Precipitation"
	case KPISeaLevel:
		return "Sea level"
	case KPIExtremeEvents:
		return "Extreme events"
	}
	return string(k)
}

// Unit returns the display unit for k.
func (k KPI) Unit() string {
	switch k {
	case KPITemperature:
		return "°C"
	case KPISeaLevel:
		return "cm"
	case KPIPrecipitation, KPIExtremeEvents:
		return "%"
	}
	return ""
}

// AlertSeverity ranks how urgent an alert is.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityMedium   AlertSeverity = "medium"
	SeverityLow      AlertSeverity = "low"
)

// Valid reports whether s is a known severity.
func (s AlertSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	StatusActive   AlertStatus = "active"
	StatusSnoozed  AlertStatus = "snoozed"
	StatusResolved AlertStatus = "resolved"
)

// NotificationChannel is a delivery target for alerts.
type NotificationChannel string

const (
	ChannelDashboard NotificationChannel = "dashboard"
	ChannelEmail     NotificationChannel = "email"
	ChannelSMS       NotificationChannel = "sms"
	ChannelSlack     NotificationChannel = "slack"
	ChannelPush      NotificationChannel = "push"
)

// Valid reports whether c is a known channel.
func (c NotificationChannel) Valid() bool {
	switch c {
	case ChannelDashboard, ChannelEmail, ChannelSMS, ChannelSlack, ChannelPush:
		return true
	}
	return false
}

// Condition compares a metric value against a rule threshold.
type Condition string

const (
	ConditionAbove  Condition = "above"
	ConditionBelow  Condition = "below"
	ConditionEquals Condition = "equals"
)

// Alert is a raised threshold breach for a region.
type Alert struct {
	ID           string                `json:"id"`
	RuleID       string                `json:"rule_id"`
	Title        string                `json:"title"`
	Message      string                `json:"message"`
	Severity     AlertSeverity         `json:"severity"`
	Timestamp    time.Time             `json:"timestamp"`
	Status       AlertStatus           `json:"status"`
	KPI          KPI                   `json:"kpi"`
	Value        float64               `json:"value"`
	Threshold    float64               `json:"threshold"`
	Region       Region                `json:"region"`
	Year         int                   `json:"year"`
	Channels     []NotificationChannel `json:"channels,omitempty"`
	SnoozedUntil time.Time             `json:"snoozed_until,omitzero"`
}

// AlertRule watches one KPI and raises alerts when its condition holds.
type AlertRule struct {
	ID        string                `json:"id" yaml:"id"`
	Name      string                `json:"name" yaml:"name"`
	KPI       KPI                   `json:"kpi" yaml:"kpi"`
	Condition Condition             `json:"condition" yaml:"condition"`
	Threshold float64               `json:"threshold" yaml:"threshold"`
	Severity  AlertSeverity         `json:"severity" yaml:"severity"`
	Channels  []NotificationChannel `json:"channels" yaml:"channels"`
	Enabled   bool                  `json:"enabled" yaml:"enabled"`
}

// Matches reports whether value satisfies the rule's condition. Equality is
// checked at the one-decimal resolution projections are reported in.
func (r AlertRule) Matches(value float64) bool {
	switch r.Condition {
	case ConditionAbove:
		return value > r.Threshold
	case ConditionBelow:
		return value < r.Threshold
	case ConditionEquals:
		return RoundOneDecimal(value) == RoundOneDecimal(r.Threshold)
	}
	return false
}

// Validate checks that the rule is well formed.
func (r AlertRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("alert rule %q: id is required", r.Name)
	}
	if !r.KPI.Valid() {
		return fmt.Errorf("alert rule %s: unknown kpi %q", r.ID, r.KPI)
	}
	switch r.Condition {
	case ConditionAbove, ConditionBelow, ConditionEquals:
	default:
		return fmt.Errorf("alert rule %s: unknown condition %q", r.ID, r.Condition)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("alert rule %s: unknown severity %q", r.ID, r.Severity)
	}
	for _, c := range r.Channels {
		if !c.Valid() {
			return fmt.Errorf("alert rule %s: unknown channel %q", r.ID, c)
		}
	}
	return nil
}

// DefaultAlertRules returns the built-in rule set.
func DefaultAlertRules() []AlertRule {
	return []AlertRule{
		{
			ID:        "1",
			Name:      "High Temperature Alert",
			KPI:       KPITemperature,
			Condition: ConditionAbove,
			Threshold: 2.0,
			Severity:  SeverityCritical,
			Channels:  []NotificationChannel{ChannelDashboard, ChannelEmail, ChannelSlack},
			Enabled:   true,
		},
		{
			ID:        "2",
			Name:      "Sea Level Warning",
			KPI:       KPISeaLevel,
			Condition: ConditionAbove,
			Threshold: 12.0,
			Severity:  SeverityHigh,
			Channels:  []NotificationChannel{ChannelDashboard, ChannelEmail},
			Enabled:   true,
		},
	}
}

// AlertMessage describes a breach of rule by value in region for year.
func AlertMessage(rule AlertRule, region Region, year int, value float64) string {
	return fmt.Sprintf("%s of %s%s projected for %s by %d (threshold %s%s)",
		rule.KPI.Label(), FormatOneDecimal(value), rule.KPI.Unit(), region, year,
		FormatOneDecimal(rule.Threshold), rule.KPI.Unit())
}
