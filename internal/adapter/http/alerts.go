package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/couchcryptid/climate-projection-service/internal/alerting"
	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

var errUnknownStatus = errors.New("unknown alert status")

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	var alerts []domain.Alert
	switch status := domain.AlertStatus(r.URL.Query().Get("status")); status {
	case "", "all":
		alerts = s.deps.Alerts.History()
	case domain.StatusActive, domain.StatusSnoozed, domain.StatusResolved:
		alerts = s.deps.Alerts.ByStatus(status)
	default:
		s.writeError(w, http.StatusBadRequest, "invalid_status", fmt.Errorf("%w: %q", errUnknownStatus, status))
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Alerts.Dismiss(r.PathValue("id")); err != nil {
		s.writeAlertError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnoozeAlert(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Alerts.Snooze(r.PathValue("id"))
	if err != nil {
		s.writeAlertError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Alerts.Resolve(r.PathValue("id"))
	if err != nil {
		s.writeAlertError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAlertRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Alerts.Rules())
}

func (s *Server) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.deps.Alerts.ToggleRule(r.PathValue("id"))
	if err != nil {
		s.writeAlertError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) writeAlertError(w http.ResponseWriter, err error) {
	if errors.Is(err, alerting.ErrAlertNotFound) || errors.Is(err, alerting.ErrRuleNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	s.writeError(w, http.StatusInternalServerError, "internal", err)
}
