package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding replaces the overlay centre with the geocoded region
// centre. If geocoder is nil, the region is Global, or the lookup fails, the
// overlay is returned unchanged (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, overlay GlobeOverlay, geocoder Geocoder, logger *slog.Logger) GlobeOverlay {
	if geocoder == nil || overlay.Rect == nil {
		return overlay
	}

	result, err := geocoder.ForwardGeocode(ctx, string(overlay.Region))
	if err != nil {
		logger.Warn("forward geocoding failed",
			"region", overlay.Region,
			"error", err,
		)
		return overlay
	}
	if result.Lat == 0 && result.Lon == 0 {
		return overlay
	}

	overlay.Center = Geo{Lat: result.Lat, Lon: result.Lon}
	overlay.CenterFrom = "geocoder"
	return overlay
}
