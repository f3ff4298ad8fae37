package navigator

import (
	"time"

	"github.com/sells-group/regionmap/internal/region"
)

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FitOptions controls a fit-bounds call.
type FitOptions struct {
	Padding  int           `json:"padding"`
	MaxZoom  int           `json:"max_zoom,omitempty"`
	Animate  bool          `json:"animate"`
	Duration time.Duration `json:"duration,omitempty"`
}

// ViewOptions controls a set-view call.
type ViewOptions struct {
	Animate  bool          `json:"animate"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Viewport is the external interactive-map handle. Calls are fire-and-forget;
// the last call wins when several are issued in quick succession.
type Viewport interface {
	FitBounds(c *region.Collection, opts FitOptions)
	SetView(center LatLng, zoom int, opts ViewOptions)
}

// Defaults for the country-wide view and drill-down fitting.
var (
	DefaultCenter     = LatLng{Lat: -2.0, Lng: 118.0}
	DefaultZoom       = 5
	DefaultFitOptions = FitOptions{Padding: 50, MaxZoom: 10, Animate: true, Duration: time.Second}
)
