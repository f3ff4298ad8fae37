package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/regionmap/internal/config"
	"github.com/sells-group/regionmap/internal/navigator"
	"github.com/sells-group/regionmap/internal/region"
	"github.com/sells-group/regionmap/internal/render"
	"github.com/sells-group/regionmap/internal/session"
)

// loadDataset loads the boundary dataset named by the data config, or the
// embedded one.
func loadDataset(ctx context.Context, c *config.Config) (*region.Dataset, error) {
	ds, err := region.Load(ctx, region.Source{
		ProvincesPath: c.Data.ProvincesPath,
		RegenciesPath: c.Data.RegenciesPath,
		FieldMap:      c.Data.FieldMap,
	})
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}
	zap.L().Info("dataset loaded",
		zap.Int("provinces", ds.Provinces().Len()),
		zap.Int("regencies", ds.Regencies().Len()),
	)
	return ds, nil
}

// sessionOptions builds the renderer and viewport defaults from config.
func sessionOptions(c *config.Config) (session.Options, error) {
	theme := render.DefaultTheme()
	if c.Render.ThemePath != "" {
		t, err := render.LoadTheme(c.Render.ThemePath)
		if err != nil {
			return session.Options{}, err
		}
		theme = t
	}

	minWidth := c.Render.TooltipMinWidth
	if minWidth <= 0 {
		minWidth = render.DefaultTooltipMinWidth
	}

	fit := navigator.DefaultFitOptions
	fit.Padding = c.Map.FitPadding
	fit.MaxZoom = c.Map.FitMaxZoom

	return session.Options{
		Renderer: render.New(render.WithTheme(theme), render.WithTooltipMinWidth(minWidth)),
		Center:   navigator.LatLng{Lat: c.Map.CenterLat, Lng: c.Map.CenterLng},
		Zoom:     c.Map.Zoom,
		Fit:      fit,
	}, nil
}
