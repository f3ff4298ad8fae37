package region

import "sort"

// Report summarizes dataset consistency.
type Report struct {
	Provinces int `json:"provinces"`
	Regencies int `json:"regencies"`

	// Indices of features without a resolvable code.
	UnresolvedProvinces []int `json:"unresolved_provinces,omitempty"`
	UnresolvedRegencies []int `json:"unresolved_regencies,omitempty"`

	// Regency indices whose province code matches no province.
	OrphanRegencies []int `json:"orphan_regencies,omitempty"`

	// Province codes with no mapped regencies; selecting one stays at
	// province level.
	ChildlessProvinces []string `json:"childless_provinces,omitempty"`

	// Regency counts keyed by province code.
	RegencyCounts map[string]int `json:"regency_counts"`
}

// Clean reports whether every feature resolved a code and every regency has
// an owning province.
func (r Report) Clean() bool {
	return len(r.UnresolvedProvinces) == 0 && len(r.UnresolvedRegencies) == 0 && len(r.OrphanRegencies) == 0
}

// Validate inspects the dataset.
func (d *Dataset) Validate() Report {
	r := Report{
		Provinces:     d.provinces.Len(),
		Regencies:     d.regencies.Len(),
		RegencyCounts: make(map[string]int),
	}

	known := make(map[string]bool, d.provinces.Len())
	for i, f := range d.provinces.Features {
		code, ok := ResolveCode(f, LevelProvince)
		if !ok {
			r.UnresolvedProvinces = append(r.UnresolvedProvinces, i)
			continue
		}
		known[code] = true
		r.RegencyCounts[code] = 0
	}

	for i, f := range d.regencies.Features {
		if _, ok := ResolveCode(f, LevelRegency); !ok {
			r.UnresolvedRegencies = append(r.UnresolvedRegencies, i)
		}
		owner := ""
		for _, key := range lookups[LevelProvince].codes {
			if v, ok := prop(f, key); ok && known[v] {
				owner = v
				break
			}
		}
		if owner == "" {
			r.OrphanRegencies = append(r.OrphanRegencies, i)
			continue
		}
		r.RegencyCounts[owner]++
	}

	for code, n := range r.RegencyCounts {
		if n == 0 {
			r.ChildlessProvinces = append(r.ChildlessProvinces, code)
		}
	}
	sort.Strings(r.ChildlessProvinces)

	return r
}
