package domain

import (
	"context"
	"log/slog"
	"strconv"
)

// Globe texture dimensions. The texture is an equirectangular projection:
// x spans longitude -180..180, y spans latitude 90..-90.
const (
	CanvasWidth  = 2048
	CanvasHeight = 1024
)

// Temperature band colours.
const (
	ColorHot      = "#ef4444"
	ColorWarm     = "#f97316"
	ColorModerate = "#22c55e"
)

// Rect is a pixel rectangle on the globe texture.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GlobeOverlay describes how the globe highlights the selected region.
type GlobeOverlay struct {
	Region      Region `json:"region"`
	Year        int    `json:"year"`
	Temperature string `json:"temperature"`
	Color       string `json:"color"`
	Rect        *Rect  `json:"rect,omitempty"` // nil for Global
	Center      Geo    `json:"center"`
	CenterFrom  string `json:"center_source"` // "geocoder" or "canvas"
}

var regionRects = map[Region]Rect{
	RegionNorthAmerica: {X: 400, Y: 100, Width: 600, Height: 300},
	RegionEurope:       {X: 900, Y: 100, Width: 300, Height: 200},
	RegionAsia:         {X: 1200, Y: 100, Width: 500, Height: 400},
	RegionAfrica:       {X: 900, Y: 300, Width: 300, Height: 400},
	RegionSouthAmerica: {X: 600, Y: 400, Width: 300, Height: 400},
	RegionOceania:      {X: 1400, Y: 500, Width: 400, Height: 300},
}

// TemperatureBand returns the highlight colour for a projected temperature rise.
func TemperatureBand(t float64) string {
	switch {
	case t > 2:
		return ColorHot
	case t > 1:
		return ColorWarm
	default:
		return ColorModerate
	}
}

// RegionRect returns the texture rectangle for r. Global has none.
func RegionRect(r Region) (Rect, bool) {
	rect, ok := regionRects[r]
	return rect, ok
}

// Center converts the rectangle's midpoint to geographic coordinates.
func (r Rect) Center() Geo {
	cx := float64(r.X) + float64(r.Width)/2
	cy := float64(r.Y) + float64(r.Height)/2
	return Geo{
		Lat: 90 - cy/CanvasHeight*180,
		Lon: cx/CanvasWidth*360 - 180,
	}
}

// BuildGlobeOverlay projects year for region and derives the globe highlight.
// When geocoder is non-nil the region centre is looked up by name; failures
// fall back to the rectangle centroid.
func BuildGlobeOverlay(ctx context.Context, year int, region Region, geocoder Geocoder, logger *slog.Logger) GlobeOverlay {
	p := Project(year, region)
	temp, _ := strconv.ParseFloat(p.Temperature, 64)

	overlay := GlobeOverlay{
		Region:      region,
		Year:        year,
		Temperature: p.Temperature,
		Color:       TemperatureBand(temp),
		CenterFrom:  "canvas",
	}
	if rect, ok := RegionRect(region); ok {
		overlay.Rect = &rect
		overlay.Center = rect.Center()
	}

	return EnrichWithGeocoding(ctx, overlay, geocoder, logger)
}
