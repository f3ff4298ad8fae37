package region

import (
	"context"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed data/provinces.geojson data/regencies.geojson
var embedded embed.FS

const (
	embeddedProvinces = "data/provinces.geojson"
	embeddedRegencies = "data/regencies.geojson"
)

// Source selects where boundary collections come from. An empty path uses
// the embedded dataset for that collection. Paths ending in .shp are read as
// shapefiles, anything else as GeoJSON.
type Source struct {
	ProvincesPath string
	RegenciesPath string
	// FieldMap renames shapefile DBF fields; nil uses DefaultFieldMap.
	FieldMap map[string]string
}

// Load reads both collections concurrently and builds the dataset.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "region.loader"))

	var provinces, regencies []*geojson.Feature

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fs, err := readCollection(gctx, src.ProvincesPath, embeddedProvinces, src.FieldMap)
		if err != nil {
			return eris.Wrap(err, "region: load provinces")
		}
		provinces = fs
		return nil
	})
	g.Go(func() error {
		fs, err := readCollection(gctx, src.RegenciesPath, embeddedRegencies, src.FieldMap)
		if err != nil {
			return eris.Wrap(err, "region: load regencies")
		}
		regencies = fs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds, err := NewDataset(provinces, regencies)
	if err != nil {
		return nil, err
	}

	log.Info("boundary dataset loaded",
		zap.Int("provinces", len(provinces)),
		zap.Int("regencies", len(regencies)),
		zap.Bool("embedded", src.ProvincesPath == "" && src.RegenciesPath == ""),
	)
	return ds, nil
}

// LoadEmbedded builds the dataset compiled into the binary.
func LoadEmbedded() (*Dataset, error) {
	return Load(context.Background(), Source{})
}

func readCollection(ctx context.Context, path, fallback string, fieldMap map[string]string) ([]*geojson.Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "region: context cancelled")
	}

	if path == "" {
		data, err := embedded.ReadFile(fallback)
		if err != nil {
			return nil, eris.Wrapf(err, "region: read embedded %s", fallback)
		}
		return ParseGeoJSON(data)
	}

	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return ReadShapefile(path, fieldMap)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: read %s", path)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON decodes a GeoJSON FeatureCollection.
func ParseGeoJSON(data []byte) ([]*geojson.Feature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "region: parse geojson")
	}
	return fc.Features, nil
}
