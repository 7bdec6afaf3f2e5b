package domain

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (s *stubGeocoder) ForwardGeocode(_ context.Context, _ string) (GeocodingResult, error) {
	s.calls++
	return s.result, s.err
}

func TestTemperatureBand(t *testing.T) {
	assert.Equal(t, ColorHot, TemperatureBand(2.1))
	assert.Equal(t, ColorWarm, TemperatureBand(2.0))
	assert.Equal(t, ColorWarm, TemperatureBand(1.1))
	assert.Equal(t, ColorModerate, TemperatureBand(1.0))
	assert.Equal(t, ColorModerate, TemperatureBand(-0.2))
}

func TestRect_Center(t *testing.T) {
	rect, ok := RegionRect(RegionEurope)
	require.True(t, ok)

	c := rect.Center()
	assert.InDelta(t, 54.84375, c.Lat, 1e-9)
	assert.InDelta(t, 4.5703125, c.Lon, 1e-9)

	_, ok = RegionRect(RegionGlobal)
	assert.False(t, ok)
}

func TestBuildGlobeOverlay_Canvas(t *testing.T) {
	overlay := BuildGlobeOverlay(context.Background(), 2050, RegionAsia, nil, slog.Default())

	assert.Equal(t, RegionAsia, overlay.Region)
	assert.Equal(t, "2.1", overlay.Temperature)
	assert.Equal(t, ColorHot, overlay.Color)
	require.NotNil(t, overlay.Rect)
	assert.Equal(t, Rect{X: 1200, Y: 100, Width: 500, Height: 400}, *overlay.Rect)
	assert.Equal(t, "canvas", overlay.CenterFrom)
}

func TestBuildGlobeOverlay_Global(t *testing.T) {
	geo := &stubGeocoder{result: GeocodingResult{Lat: 1, Lon: 1}}
	overlay := BuildGlobeOverlay(context.Background(), 2050, RegionGlobal, geo, slog.Default())

	assert.Nil(t, overlay.Rect)
	assert.Equal(t, ColorWarm, overlay.Color)
	assert.Equal(t, Geo{}, overlay.Center)
	assert.Zero(t, geo.calls, "global has no region to geocode")
}

func TestBuildGlobeOverlay_Geocoded(t *testing.T) {
	geo := &stubGeocoder{result: GeocodingResult{Lat: 34.05, Lon: 100.62, PlaceName: "Asia"}}
	overlay := BuildGlobeOverlay(context.Background(), 2030, RegionAsia, geo, slog.Default())

	assert.Equal(t, Geo{Lat: 34.05, Lon: 100.62}, overlay.Center)
	assert.Equal(t, "geocoder", overlay.CenterFrom)
	assert.Equal(t, 1, geo.calls)
}

func TestBuildGlobeOverlay_GeocoderFailureFallsBack(t *testing.T) {
	geo := &stubGeocoder{err: errors.New("timeout")}
	overlay := BuildGlobeOverlay(context.Background(), 2030, RegionEurope, geo, slog.Default())

	assert.Equal(t, "canvas", overlay.CenterFrom)
	assert.InDelta(t, 54.84375, overlay.Center.Lat, 1e-9)
}

func TestBuildGlobeOverlay_EmptyGeocodeResultFallsBack(t *testing.T) {
	geo := &stubGeocoder{}
	overlay := BuildGlobeOverlay(context.Background(), 2030, RegionEurope, geo, slog.Default())

	assert.Equal(t, "canvas", overlay.CenterFrom)
}
