// Package render projects the navigator's active collection into a styled
// layer: one path per region, with hover and click behavior and an optional
// hover tooltip.
package render

import (
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/regionmap/internal/navigator"
	"github.com/sells-group/regionmap/internal/region"
)

// DefaultTooltipMinWidth is the viewport width above which tooltips are shown.
const DefaultTooltipMinWidth = 768

// Tooltip is the label shown while hovering a region.
type Tooltip struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
	Permanent bool   `json:"permanent"`
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme replaces the default palette.
func WithTheme(t Theme) Option {
	return func(r *Renderer) { r.theme = t }
}

// WithTooltipMinWidth sets the tooltip width threshold.
func WithTooltipMinWidth(w int) Option {
	return func(r *Renderer) { r.tooltipMinWidth = w }
}

// Renderer builds layers. It holds no per-session state and may be shared.
type Renderer struct {
	theme           Theme
	tooltipMinWidth int
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		theme:           DefaultTheme(),
		tooltipMinWidth: DefaultTooltipMinWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the renderer palette.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Style is the resting style of a feature: the selected style when its code
// at level equals selectedCode, the base style otherwise.
func (r *Renderer) Style(f *geojson.Feature, level region.Level, selectedCode string) Style {
	if r.isSelected(f, level, selectedCode) {
		return r.theme.Selected
	}
	return r.theme.Base
}

func (r *Renderer) hoverStyle(f *geojson.Feature, level region.Level, selectedCode string) Style {
	if r.isSelected(f, level, selectedCode) {
		return r.theme.HoverSelected
	}
	return r.theme.Hover
}

func (r *Renderer) isSelected(f *geojson.Feature, level region.Level, selectedCode string) bool {
	if selectedCode == "" {
		return false
	}
	code, ok := region.ResolveCode(f, level)
	return ok && code == selectedCode
}

// Build creates the layer for the navigator's current state. selectedCode is
// the host's controlled province selection and width the viewport width in
// pixels.
func (r *Renderer) Build(nav *navigator.Navigator, selectedCode string, width int) *Layer {
	level := nav.Level()
	active := nav.Active()

	l := &Layer{
		Key:      nav.LayerKey(),
		Version:  nav.Version(),
		Level:    level,
		Selected: selectedCode,
		Width:    width,
		nav:      nav,
		r:        r,
	}
	if active == nil {
		return l
	}

	showTooltip := width > r.tooltipMinWidth
	l.Paths = make([]*Path, 0, active.Len())
	for i, f := range active.Features {
		code, _ := region.ResolveCode(f, level)
		name := region.ResolveName(f, level)
		p := &Path{
			Index:   i,
			Code:    code,
			Name:    name,
			Style:   r.Style(f, level, selectedCode),
			Order:   i,
			feature: f,
		}
		if showTooltip {
			p.Tooltip = &Tooltip{Text: name, Direction: "top"}
		}
		l.Paths = append(l.Paths, p)
	}
	l.top = len(l.Paths) - 1
	return l
}
