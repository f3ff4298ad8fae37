package region

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Locate returns the index of the first feature in c whose geometry contains
// the point. Only polygonal geometries are considered.
func Locate(c *Collection, lng, lat float64) (int, bool) {
	if c == nil {
		return -1, false
	}
	pt := orb.Point{lng, lat}
	for i, f := range c.Features {
		mp := toMultiPolygon(f)
		if mp == nil || !mp.Bound().Contains(pt) {
			continue
		}
		if planar.MultiPolygonContains(mp, pt) {
			return i, true
		}
	}
	return -1, false
}

// toMultiPolygon converts a feature geometry to an orb multipolygon, or nil
// for non-polygonal geometries.
func toMultiPolygon(f *geojson.Feature) orb.MultiPolygon {
	if f == nil || f.Geometry == nil {
		return nil
	}
	switch g := f.Geometry.(type) {
	case *geom.Polygon:
		return orb.MultiPolygon{toPolygon(g)}
	case *geom.MultiPolygon:
		mp := make(orb.MultiPolygon, 0, g.NumPolygons())
		for i := 0; i < g.NumPolygons(); i++ {
			mp = append(mp, toPolygon(g.Polygon(i)))
		}
		return mp
	default:
		return nil
	}
}

func toPolygon(p *geom.Polygon) orb.Polygon {
	poly := make(orb.Polygon, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		ring := make(orb.Ring, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, orb.Point{c.X(), c.Y()})
		}
		poly = append(poly, ring)
	}
	return poly
}
