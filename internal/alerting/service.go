// Package alerting raises and tracks threshold alerts over climate projections.
package alerting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/observability"
)

var (
	// ErrAlertNotFound is returned when an alert id is unknown.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrRuleNotFound is returned when a rule id is unknown.
	ErrRuleNotFound = errors.New("alert rule not found")
)

// Service evaluates alert rules against projections and owns the resulting
// alert history. It is safe for concurrent use.
type Service struct {
	clock   clockwork.Clock
	snooze  time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics

	mu     sync.Mutex
	rules  []domain.AlertRule
	alerts []domain.Alert // newest first
}

// NewService creates a Service with the given rules. A nil clock uses real time.
func NewService(rules []domain.AlertRule, snooze time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		clock:   clock,
		snooze:  snooze,
		logger:  logger,
		metrics: metrics,
		rules:   slices.Clone(rules),
	}
}

// Evaluate checks every enabled rule against the projection and raises an alert
// for each match. A rule that already has an open (active or snoozed) alert for
// the region is not raised again. The newly raised alerts are returned.
func (s *Service) Evaluate(ctx context.Context, year int, region domain.Region, p domain.ProjectionResult) []domain.Alert {
	_, span := observability.Tracer().Start(ctx, "alerting.Evaluate")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wakeLocked()

	var raised []domain.Alert
	for _, rule := range s.rules {
		if !rule.Enabled {
			continue
		}
		value, ok := p.Value(rule.KPI)
		if !ok || !rule.Matches(value) {
			continue
		}
		if s.openLocked(rule.ID, region) {
			continue
		}

		alert := domain.Alert{
			ID:        uuid.NewString(),
			RuleID:    rule.ID,
			Title:     rule.Name,
			Message:   domain.AlertMessage(rule, region, year, value),
			Severity:  rule.Severity,
			Timestamp: s.clock.Now().UTC(),
			Status:    domain.StatusActive,
			KPI:       rule.KPI,
			Value:     value,
			Threshold: rule.Threshold,
			Region:    region,
			Year:      year,
			Channels:  slices.Clone(rule.Channels),
		}
		s.alerts = slices.Insert(s.alerts, 0, alert)
		raised = append(raised, alert)

		s.metrics.AlertsRaised.WithLabelValues(string(alert.Severity)).Inc()
		s.logger.Info("alert raised",
			"alert_id", alert.ID,
			"rule_id", rule.ID,
			"region", region,
			"year", year,
			"kpi", rule.KPI,
			"value", value,
		)
	}
	s.updateGaugeLocked()
	return raised
}

// Active returns alerts currently in the active state, newest first.
func (s *Service) Active() []domain.Alert {
	return s.filter(func(a domain.Alert) bool { return a.Status == domain.StatusActive })
}

// History returns every alert that has not been dismissed, newest first.
func (s *Service) History() []domain.Alert {
	return s.filter(func(domain.Alert) bool { return true })
}

// ByStatus returns alerts with the given status, newest first.
func (s *Service) ByStatus(status domain.AlertStatus) []domain.Alert {
	return s.filter(func(a domain.Alert) bool { return a.Status == status })
}

// Dismiss removes an alert from the history.
func (s *Service) Dismiss(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("dismiss %s: %w", id, ErrAlertNotFound)
	}
	s.alerts = slices.Delete(s.alerts, i, i+1)
	s.updateGaugeLocked()
	return nil
}

// Snooze silences an alert for the configured snooze duration, after which it
// becomes active again.
func (s *Service) Snooze(id string) (domain.Alert, error) {
	return s.transition(id, "snooze", func(a *domain.Alert) {
		a.Status = domain.StatusSnoozed
		a.SnoozedUntil = s.clock.Now().UTC().Add(s.snooze)
	})
}

// Resolve marks an alert as resolved. Resolved alerts stay in the history and
// no longer block the rule from raising again.
func (s *Service) Resolve(id string) (domain.Alert, error) {
	return s.transition(id, "resolve", func(a *domain.Alert) {
		a.Status = domain.StatusResolved
		a.SnoozedUntil = time.Time{}
	})
}

// Rules returns a copy of the configured rules.
func (s *Service) Rules() []domain.AlertRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rules)
}

// ToggleRule flips a rule's enabled flag and returns the updated rule.
func (s *Service) ToggleRule(id string) (domain.AlertRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules[i].Enabled = !s.rules[i].Enabled
			s.logger.Info("alert rule toggled", "rule_id", id, "enabled", s.rules[i].Enabled)
			return s.rules[i], nil
		}
	}
	return domain.AlertRule{}, fmt.Errorf("toggle %s: %w", id, ErrRuleNotFound)
}

func (s *Service) transition(id, op string, apply func(a *domain.Alert)) (domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wakeLocked()
	i := s.indexLocked(id)
	if i < 0 {
		return domain.Alert{}, fmt.Errorf("%s %s: %w", op, id, ErrAlertNotFound)
	}
	apply(&s.alerts[i])
	s.updateGaugeLocked()
	return s.alerts[i], nil
}

func (s *Service) filter(keep func(domain.Alert) bool) []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wakeLocked()
	out := make([]domain.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// wakeLocked returns expired snoozes to the active state.
func (s *Service) wakeLocked() {
	now := s.clock.Now()
	changed := false
	for i := range s.alerts {
		a := &s.alerts[i]
		if a.Status == domain.StatusSnoozed && !now.Before(a.SnoozedUntil) {
			a.Status = domain.StatusActive
			a.SnoozedUntil = time.Time{}
			changed = true
		}
	}
	if changed {
		s.updateGaugeLocked()
	}
}

func (s *Service) openLocked(ruleID string, region domain.Region) bool {
	return slices.ContainsFunc(s.alerts, func(a domain.Alert) bool {
		return a.RuleID == ruleID && a.Region == region && a.Status != domain.StatusResolved
	})
}

func (s *Service) indexLocked(id string) int {
	return slices.IndexFunc(s.alerts, func(a domain.Alert) bool { return a.ID == id })
}

func (s *Service) updateGaugeLocked() {
	active := 0
	for _, a := range s.alerts {
		if a.Status == domain.StatusActive {
			active++
		}
	}
	s.metrics.AlertsActive.Set(float64(active))
}
