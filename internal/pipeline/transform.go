package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/observability"
)

// AlertEvaluator raises alerts for a projection.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, year int, region domain.Region, p domain.ProjectionResult) []domain.Alert
}

// ProjectionTransformer implements Transformer: it projects the requested
// (year, region), evaluates alert rules, and serializes the results.
type ProjectionTransformer struct {
	alerts     AlertEvaluator
	alertTopic string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewTransformer creates a ProjectionTransformer. Pass a nil evaluator to
// skip alerting.
func NewTransformer(alerts AlertEvaluator, alertTopic string, logger *slog.Logger, metrics *observability.Metrics) *ProjectionTransformer {
	return &ProjectionTransformer{
		alerts:     alerts,
		alertTopic: alertTopic,
		logger:     logger,
		metrics:    metrics,
	}
}

func (t *ProjectionTransformer) Transform(ctx context.Context, raw domain.RawEvent) ([]domain.OutputEvent, error) {
	req, region, err := domain.ParseRawEvent(raw)
	if err != nil {
		return nil, err
	}

	event := domain.BuildProjectionEvent(req.RequestID, req.Year, region)
	t.metrics.ProjectionsComputed.WithLabelValues(string(region), "pipeline").Inc()

	if t.alerts != nil {
		event.Alerts = t.alerts.Evaluate(ctx, event.Year, region, event.Projection)
	}

	projection, err := domain.SerializeProjectionEvent(event)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OutputEvent, 0, 1+len(event.Alerts))
	out = append(out, projection)

	for _, a := range event.Alerts {
		alert, err := domain.SerializeAlert(t.alertTopic, a)
		if err != nil {
			return nil, err
		}
		out = append(out, alert)
	}

	if len(event.Alerts) > 0 {
		t.logger.Info("projection raised alerts",
			"region", region,
			"year", event.Year,
			"alerts", len(event.Alerts),
		)
	}
	return out, nil
}
