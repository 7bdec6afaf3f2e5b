package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ProjectionRequest is the JSON payload published to the source topic
// whenever a consumer changes its year or region selection.
type ProjectionRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Year      int    `json:"year"`
	Region    string `json:"region"`
}

// ProjectionEvent is the enriched projection written to the sink topic.
type ProjectionEvent struct {
	ID          string                  `json:"id"`
	RequestID   string                  `json:"request_id,omitempty"`
	Year        int                     `json:"year"`
	Region      Region                  `json:"region"`
	Factors     RegionalFactors         `json:"factors"`
	Projection  ProjectionResult        `json:"projection"`
	Display     []MetricDisplay         `json:"display"`
	Series      []HistoricalSeriesPoint `json:"series"`
	Alerts      []Alert                 `json:"alerts,omitempty"`
	ProcessedAt time.Time               `json:"processed_at"`
}

// OutputEvent is the serialized form destined for a sink topic.
type OutputEvent struct {
	Topic   string // empty means the writer's default topic
	Key     []byte
	Value   []byte
	Headers map[string]string
}
