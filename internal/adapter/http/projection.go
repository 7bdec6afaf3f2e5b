package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
)

var errInvalidYear = errors.New("year must be an integer")

type regionResponse struct {
	Region  domain.Region          `json:"region"`
	Factors domain.RegionalFactors `json:"factors"`
}

type projectionResponse struct {
	Year       int                     `json:"year"`
	Region     domain.Region           `json:"region"`
	Projection domain.ProjectionResult `json:"projection"`
}

type seriesResponse struct {
	Region domain.Region                  `json:"region"`
	Series []domain.HistoricalSeriesPoint `json:"series"`
}

type dashboardResponse struct {
	Year         int                            `json:"year"`
	Region       domain.Region                  `json:"region"`
	Projection   domain.ProjectionResult        `json:"projection"`
	Metrics      []domain.MetricDisplay         `json:"metrics"`
	Series       []domain.HistoricalSeriesPoint `json:"series"`
	Globe        domain.GlobeOverlay            `json:"globe"`
	Scenarios    []domain.Scenario              `json:"scenarios"`
	RaisedAlerts []domain.Alert                 `json:"raised_alerts"`
	ActiveAlerts []domain.Alert                 `json:"active_alerts"`
}

// selection parses the year and region query parameters. A missing year
// selects the target year and a missing region selects Global. The returned
// reason labels the rejection for metrics.
func selection(r *http.Request) (year int, region domain.Region, reason string, err error) {
	year = domain.TargetYear
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			return 0, "", "invalid_year", fmt.Errorf("%w: %q", errInvalidYear, v)
		}
	}
	if err := domain.ValidateYear(year); err != nil {
		return 0, "", "year_out_of_range", err
	}

	region, err = domain.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		return 0, "", "unknown_region", err
	}
	return year, region, "", nil
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	regions := domain.Regions()
	out := make([]regionResponse, len(regions))
	for i, r := range regions {
		out[i] = regionResponse{Region: r, Factors: domain.Factors(r)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	year, region, reason, err := selection(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, reason, err)
		return
	}
	s.deps.Metrics.ProjectionsComputed.WithLabelValues(string(region), "http").Inc()
	writeJSON(w, http.StatusOK, projectionResponse{
		Year:       year,
		Region:     region,
		Projection: domain.Project(year, region),
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	region, err := domain.ParseRegion(r.URL.Query().Get("region"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unknown_region", err)
		return
	}
	writeJSON(w, http.StatusOK, seriesResponse{Region: region, Series: domain.HistoricalSeries(region)})
}

// handleDashboard returns everything the dashboard renders for one selection
// and evaluates alert rules against it.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, region, reason, err := selection(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, reason, err)
		return
	}
	ctx := r.Context()

	p := domain.Project(year, region)
	s.deps.Metrics.ProjectionsComputed.WithLabelValues(string(region), "http").Inc()

	resp := dashboardResponse{
		Year:         year,
		Region:       region,
		Projection:   p,
		Metrics:      domain.Display(year, region, p),
		Series:       domain.HistoricalSeries(region),
		Globe:        domain.BuildGlobeOverlay(ctx, year, region, s.deps.Geocoder, s.logger),
		Scenarios:    domain.Scenarios(),
		RaisedAlerts: []domain.Alert{},
		ActiveAlerts: []domain.Alert{},
	}
	if s.deps.Alerts != nil {
		if raised := s.deps.Alerts.Evaluate(ctx, year, region, p); len(raised) > 0 {
			resp.RaisedAlerts = raised
		}
		if active := s.deps.Alerts.Active(); len(active) > 0 {
			resp.ActiveAlerts = active
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGlobe(w http.ResponseWriter, r *http.Request) {
	year, region, reason, err := selection(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, reason, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.BuildGlobeOverlay(r.Context(), year, region, s.deps.Geocoder, s.logger))
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Scenarios())
}
