package session

import (
	"sync"

	"github.com/sells-group/regionmap/internal/navigator"
	"github.com/sells-group/regionmap/internal/region"
)

// Viewport command ops.
const (
	OpFitBounds = "fit_bounds"
	OpSetView   = "set_view"
)

// Command is one viewport instruction for the map widget.
type Command struct {
	Op string `json:"op"`

	// fit_bounds: [minLng, minLat, maxLng, maxLat]
	Bounds  *[4]float64 `json:"bounds,omitempty"`
	Padding int         `json:"padding,omitempty"`
	MaxZoom int         `json:"max_zoom,omitempty"`

	// set_view
	Center *navigator.LatLng `json:"center,omitempty"`
	Zoom   int               `json:"zoom,omitempty"`

	Animate    bool  `json:"animate"`
	DurationMS int64 `json:"duration_ms,omitempty"`
}

// ViewportRecorder implements navigator.Viewport by queuing commands until the
// widget drains them.
type ViewportRecorder struct {
	mu       sync.Mutex
	commands []Command
}

var _ navigator.Viewport = (*ViewportRecorder)(nil)

// FitBounds queues a fit_bounds command. An empty collection has no bounds
// and is dropped.
func (r *ViewportRecorder) FitBounds(c *region.Collection, opts navigator.FitOptions) {
	b := c.Bounds()
	if b == nil {
		return
	}
	bounds := [4]float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}
	r.push(Command{
		Op:         OpFitBounds,
		Bounds:     &bounds,
		Padding:    opts.Padding,
		MaxZoom:    opts.MaxZoom,
		Animate:    opts.Animate,
		DurationMS: opts.Duration.Milliseconds(),
	})
}

// SetView queues a set_view command.
func (r *ViewportRecorder) SetView(center navigator.LatLng, zoom int, opts navigator.ViewOptions) {
	r.push(Command{
		Op:         OpSetView,
		Center:     &center,
		Zoom:       zoom,
		Animate:    opts.Animate,
		DurationMS: opts.Duration.Milliseconds(),
	})
}

func (r *ViewportRecorder) push(c Command) {
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}

// Drain returns the queued commands in issue order and empties the queue.
func (r *ViewportRecorder) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.commands
	r.commands = nil
	if out == nil {
		out = []Command{}
	}
	return out
}
