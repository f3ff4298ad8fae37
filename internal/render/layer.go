package render

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/regionmap/internal/navigator"
	"github.com/sells-group/regionmap/internal/region"
)

// Layer errors.
var (
	// ErrStaleLayer is returned for events on a layer built under a previous
	// layer key. The event is dropped.
	ErrStaleLayer = eris.New("render: stale layer")
	// ErrNoPath is returned for an out-of-range path index.
	ErrNoPath = eris.New("render: no such region")
)

// Path is one drawn region.
type Path struct {
	Index   int      `json:"index"`
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Style   Style    `json:"style"`
	Order   int      `json:"order"`
	Hovered bool     `json:"hovered"`
	Tooltip *Tooltip `json:"tooltip,omitempty"`

	feature *geojson.Feature
}

// Feature returns the underlying feature.
func (p *Path) Feature() *geojson.Feature {
	return p.feature
}

// Layer is the set of paths built for one layer key. Event handlers are bound
// to the navigator; once the navigator's key moves on the layer is stale and
// ignores events.
type Layer struct {
	Key      string
	Version  uint64
	Level    region.Level
	Selected string
	Width    int
	Paths    []*Path

	nav *navigator.Navigator
	r   *Renderer
	top int
}

// Stale reports whether the navigator has moved past this layer's key.
func (l *Layer) Stale() bool {
	return l.nav.LayerKey() != l.Key
}

func (l *Layer) path(i int) (*Path, error) {
	if l.Stale() {
		return nil, ErrStaleLayer
	}
	if i < 0 || i >= len(l.Paths) {
		return nil, eris.Wrapf(ErrNoPath, "index %d", i)
	}
	return l.Paths[i], nil
}

// Hover applies the hover style to path i and draws it above its siblings.
func (l *Layer) Hover(i int) error {
	p, err := l.path(i)
	if err != nil {
		return err
	}
	p.Style = l.r.hoverStyle(p.feature, l.Level, l.Selected)
	p.Hovered = true
	if p.Order != l.top {
		l.top++
		p.Order = l.top
	}
	return nil
}

// Leave restores path i to its resting style.
func (l *Layer) Leave(i int) error {
	p, err := l.path(i)
	if err != nil {
		return err
	}
	p.Style = l.r.Style(p.feature, l.Level, l.Selected)
	p.Hovered = false
	return nil
}

// Click forwards a click on path i to the navigator.
func (l *Layer) Click(i int) (navigator.Outcome, error) {
	p, err := l.path(i)
	if err != nil {
		return navigator.OutcomeIgnored, err
	}
	return l.nav.SelectRegion(p.feature), nil
}

// ResetControl reports whether the "back to provinces" control is shown.
func (l *Layer) ResetControl() bool {
	return l.Level == region.LevelRegency
}

type layerJSON struct {
	Type         string         `json:"type"`
	Key          string         `json:"key"`
	Version      uint64         `json:"version"`
	Level        region.Level   `json:"level"`
	ResetControl bool           `json:"reset_control"`
	Features     []layerFeature `json:"features"`
}

type layerFeature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties *Path             `json:"properties"`
}

// MarshalJSON encodes the layer as a GeoJSON FeatureCollection whose feature
// properties carry the path attributes.
func (l *Layer) MarshalJSON() ([]byte, error) {
	out := layerJSON{
		Type:         "FeatureCollection",
		Key:          l.Key,
		Version:      l.Version,
		Level:        l.Level,
		ResetControl: l.ResetControl(),
		Features:     make([]layerFeature, 0, len(l.Paths)),
	}
	for _, p := range l.Paths {
		lf := layerFeature{Type: "Feature", Properties: p}
		if p.feature != nil && p.feature.Geometry != nil {
			g, err := geojson.Encode(p.feature.Geometry)
			if err != nil {
				return nil, eris.Wrapf(err, "render: encode geometry of %q", p.Code)
			}
			lf.Geometry = g
		}
		out.Features = append(out.Features, lf)
	}
	return json.Marshal(out)
}
