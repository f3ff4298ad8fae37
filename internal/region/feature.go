// Package region holds the administrative boundary data model: province and
// regency features, the code/name resolution policy and the dataset that
// filters regencies by their owning province.
package region

import (
	"math"
	"strconv"

	"github.com/twpayne/go-geom/encoding/geojson"
)

// Level is an administrative level of the map.
type Level string

// Administrative levels. Nothing below regency is supported.
const (
	LevelProvince Level = "province"
	LevelRegency  Level = "regency"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l == LevelProvince || l == LevelRegency
}

// Property keys. "kemendagri" is the official registry scheme and is
// preferred; "bps" is the statistics agency scheme used as fallback.
const (
	PropProvinceCode    = "province_kemendagri_code"
	PropProvinceName    = "province_kemendagri_name"
	PropProvinceBPSCode = "province_bps_code"
	PropProvinceBPSName = "province_bps_name"
	PropRegencyCode     = "regency_kemendagri_code"
	PropRegencyName     = "regency_kemendagri_name"
	PropRegencyBPSCode  = "regency_bps_code"
	PropRegencyBPSName  = "regency_bps_name"
)

// Name placeholders used when neither scheme carries a name.
const (
	UnknownProvinceName = "Provinsi"
	UnknownRegencyName  = "Kab/Kota"
)

type lookup struct {
	codes       []string
	names       []string
	placeholder string
}

var lookups = map[Level]lookup{
	LevelProvince: {
		codes:       []string{PropProvinceCode, PropProvinceBPSCode},
		names:       []string{PropProvinceName, PropProvinceBPSName},
		placeholder: UnknownProvinceName,
	},
	LevelRegency: {
		codes:       []string{PropRegencyCode, PropRegencyBPSCode},
		names:       []string{PropRegencyName, PropRegencyBPSName},
		placeholder: UnknownRegencyName,
	},
}

// ResolveCode returns the feature's code at the given level. The official
// registry code wins over the statistics agency code. ok is false when
// neither is present; an empty string is never returned with ok == true.
func ResolveCode(f *geojson.Feature, level Level) (code string, ok bool) {
	l, known := lookups[level]
	if !known {
		return "", false
	}
	return firstProp(f, l.codes)
}

// ResolveName returns the feature's display name at the given level, falling
// back to a fixed placeholder.
func ResolveName(f *geojson.Feature, level Level) string {
	l, known := lookups[level]
	if !known {
		return ""
	}
	if name, ok := firstProp(f, l.names); ok {
		return name
	}
	return l.placeholder
}

// BelongsTo reports whether a regency feature is owned by the province with
// the given code. Both code schemes are checked.
func BelongsTo(f *geojson.Feature, provinceCode string) bool {
	if provinceCode == "" {
		return false
	}
	for _, key := range lookups[LevelProvince].codes {
		if v, ok := prop(f, key); ok && v == provinceCode {
			return true
		}
	}
	return false
}

// ProvinceCodeOf returns the owning province code of a regency feature.
func ProvinceCodeOf(f *geojson.Feature) (string, bool) {
	return ResolveCode(f, LevelProvince)
}

func firstProp(f *geojson.Feature, keys []string) (string, bool) {
	for _, key := range keys {
		if v, ok := prop(f, key); ok {
			return v, true
		}
	}
	return "", false
}

// prop reads a non-empty string property. Integral JSON numbers are accepted
// because some exports store codes as numbers.
func prop(f *geojson.Feature, key string) (string, bool) {
	if f == nil || f.Properties == nil {
		return "", false
	}
	switch v := f.Properties[key].(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		// Codes must round-trip through int64.
		if v != math.Trunc(v) || v < -(1<<63) || v >= 1<<63 {
			return "", false
		}
		return strconv.FormatInt(int64(v), 10), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
