package render

import (
	"github.com/sells-group/regionmap/internal/navigator"
)

// View keeps the current layer of one navigator. The layer is rebuilt from
// scratch whenever the layer key, the host selection or the viewport width
// changes.
type View struct {
	r     *Renderer
	nav   *navigator.Navigator
	width int

	layer  *Layer
	builds int
}

// NewView creates a view for nav.
func NewView(r *Renderer, nav *navigator.Navigator, width int) *View {
	return &View{r: r, nav: nav, width: width}
}

// Layer returns the current layer, rebuilding it if it is out of date.
func (v *View) Layer(selectedCode string) *Layer {
	if v.layer == nil ||
		v.layer.Key != v.nav.LayerKey() ||
		v.layer.Selected != selectedCode ||
		v.layer.Width != v.width {
		v.layer = v.r.Build(v.nav, selectedCode, v.width)
		v.builds++
	}
	return v.layer
}

// Current returns the last built layer without rebuilding. It is nil before
// the first call to Layer.
func (v *View) Current() *Layer {
	return v.layer
}

// Resize sets the viewport width used for the next build.
func (v *View) Resize(width int) {
	v.width = width
}

// Width returns the viewport width.
func (v *View) Width() int {
	return v.width
}
