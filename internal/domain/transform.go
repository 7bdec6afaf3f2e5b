package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseRawEvent deserializes a RawEvent's value into a validated ProjectionRequest.
// A missing region defaults to Global; the year must lie in the supported range.
func ParseRawEvent(raw RawEvent) (ProjectionRequest, Region, error) {
	var req ProjectionRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return ProjectionRequest{}, "", fmt.Errorf("parse projection request: %w", err)
	}

	region, err := ParseRegion(req.Region)
	if err != nil {
		return ProjectionRequest{}, "", fmt.Errorf("parse projection request: %w", err)
	}
	if err := ValidateYear(req.Year); err != nil {
		return ProjectionRequest{}, "", fmt.Errorf("parse projection request: %w", err)
	}
	if req.RequestID == "" && len(raw.Key) > 0 {
		req.RequestID = string(raw.Key)
	}
	return req, region, nil
}

// BuildProjectionEvent runs the model for year and region and stamps the result.
func BuildProjectionEvent(requestID string, year int, region Region) ProjectionEvent {
	p := Project(year, region)
	return ProjectionEvent{
		ID:          ProjectionID(year, region),
		RequestID:   requestID,
		Year:        year,
		Region:      region,
		Factors:     Factors(region),
		Projection:  p,
		Display:     Display(year, region, p),
		Series:      HistoricalSeries(region),
		ProcessedAt: Now(),
	}
}

// ProjectionID is the stable key for a (year, region) projection.
func ProjectionID(year int, region Region) string {
	return fmt.Sprintf("%s:%d", strings.ReplaceAll(foldKey(string(region)), " ", "-"), year)
}

// SerializeProjectionEvent marshals a ProjectionEvent into an OutputEvent
// keyed by projection id.
func SerializeProjectionEvent(event ProjectionEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize projection event: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.ID),
		Value: data,
		Headers: map[string]string{
			"region":       string(event.Region),
			"year":         strconv.Itoa(event.Year),
			"alert_count":  strconv.Itoa(len(event.Alerts)),
			"processed_at": event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}

// SerializeAlert marshals an Alert into an OutputEvent for topic.
func SerializeAlert(topic string, alert Alert) (OutputEvent, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize alert: %w", err)
	}
	return OutputEvent{
		Topic: topic,
		Key:   []byte(alert.ID),
		Value: data,
		Headers: map[string]string{
			"severity": string(alert.Severity),
			"region":   string(alert.Region),
			"kpi":      string(alert.KPI),
		},
	}, nil
}
