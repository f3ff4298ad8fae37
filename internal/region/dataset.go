package region

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/text/cases"
)

// Dataset is the static boundary source: every province and every regency
// nationwide. It is immutable after construction and safe for concurrent use.
type Dataset struct {
	provinces *Collection
	regencies *Collection
}

// NewDataset builds a dataset from the two collections. The province
// collection must not be empty.
func NewDataset(provinces, regencies []*geojson.Feature) (*Dataset, error) {
	if len(provinces) == 0 {
		return nil, eris.New("region: province collection is empty")
	}
	return &Dataset{
		provinces: NewCollection(LevelProvince, provinces),
		regencies: NewCollection(LevelRegency, regencies),
	}, nil
}

// Provinces returns the full province collection.
func (d *Dataset) Provinces() *Collection {
	return d.provinces
}

// Regencies returns the nationwide regency collection.
func (d *Dataset) Regencies() *Collection {
	return d.regencies
}

// RegenciesOf returns the regencies owned by the given province, in source
// order. The result is empty, never nil, when nothing matches.
func (d *Dataset) RegenciesOf(provinceCode string) *Collection {
	var matched []*geojson.Feature
	for _, f := range d.regencies.Features {
		if BelongsTo(f, provinceCode) {
			matched = append(matched, f)
		}
	}
	return NewCollection(LevelRegency, matched)
}

// Match is a search hit.
type Match struct {
	Level        Level  `json:"level"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProvinceCode string `json:"province_code,omitempty"`
}

// Search returns features whose resolved name contains query, compared with
// Unicode case folding. Provinces are listed before regencies. A limit <= 0
// means no limit.
func (d *Dataset) Search(query string, limit int) []Match {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var out []Match
	for _, c := range []*Collection{d.provinces, d.regencies} {
		for _, f := range c.Features {
			code, ok := ResolveCode(f, c.Level)
			if !ok {
				continue
			}
			name := ResolveName(f, c.Level)
			if !strings.Contains(fold.String(name), needle) {
				continue
			}
			m := Match{Level: c.Level, Code: code, Name: name}
			if c.Level == LevelRegency {
				m.ProvinceCode, _ = ProvinceCodeOf(f)
			}
			out = append(out, m)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

// Locate hit-tests a coordinate against the provinces, or against one
// province's regencies when level is LevelRegency. Unknown levels never match.
func (d *Dataset) Locate(level Level, provinceCode string, lng, lat float64) (*geojson.Feature, bool) {
	if !level.Valid() {
		return nil, false
	}
	c := d.provinces
	if level == LevelRegency {
		c = d.RegenciesOf(provinceCode)
	}
	i, ok := Locate(c, lng, lat)
	if !ok {
		return nil, false
	}
	return c.Feature(i), true
}
