package region

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Collection is an ordered set of features sharing one administrative level.
type Collection struct {
	Level    Level
	Features []*geojson.Feature
}

// NewCollection creates a collection at the given level.
func NewCollection(level Level, features []*geojson.Feature) *Collection {
	if features == nil {
		features = []*geojson.Feature{}
	}
	return &Collection{Level: level, Features: features}
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Empty reports whether the collection has no features.
func (c *Collection) Empty() bool {
	return c.Len() == 0
}

// Feature returns the i-th feature, or nil when i is out of range.
func (c *Collection) Feature(i int) *geojson.Feature {
	if c == nil || i < 0 || i >= len(c.Features) {
		return nil
	}
	return c.Features[i]
}

// Find returns the first feature whose resolved code at the collection's
// level equals code.
func (c *Collection) Find(code string) (*geojson.Feature, int, bool) {
	if c == nil || code == "" {
		return nil, -1, false
	}
	for i, f := range c.Features {
		if got, ok := ResolveCode(f, c.Level); ok && got == code {
			return f, i, true
		}
	}
	return nil, -1, false
}

// Codes returns the resolved code of every feature that has one, in order.
func (c *Collection) Codes() []string {
	if c == nil {
		return nil
	}
	codes := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		if code, ok := ResolveCode(f, c.Level); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// Bounds returns the union of all feature geometry bounds, or nil when no
// feature has a geometry.
func (c *Collection) Bounds() *geom.Bounds {
	if c == nil {
		return nil
	}
	b := geom.NewBounds(geom.XY)
	for _, f := range c.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b.Extend(f.Geometry)
	}
	if b.IsEmpty() {
		return nil
	}
	return b
}

// FeatureCollection returns the collection as a GeoJSON feature collection.
func (c *Collection) FeatureCollection() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	if c != nil {
		fc.Features = c.Features
	}
	return fc
}

// MarshalJSON encodes the collection as a GeoJSON FeatureCollection.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.FeatureCollection())
}
