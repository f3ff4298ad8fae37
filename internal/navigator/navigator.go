// Package navigator implements the two-level map navigation state machine:
// the country-wide province view and the regency view of one selected
// province.
//
// A Navigator is driven by one event at a time (mount, click, reset, external
// selection) and is not safe for concurrent use; callers that share one
// across goroutines serialize access themselves.
package navigator

import (
	"fmt"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/regionmap/internal/region"
)

// Selection identifies a selected province.
type Selection struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// State is a snapshot of the navigation state.
type State struct {
	Level    region.Level       `json:"level"`
	Active   *region.Collection `json:"-"`
	Selected *Selection         `json:"selected_province,omitempty"`
	Loading  bool               `json:"loading"`
}

// Outcome reports what a selection event did.
type Outcome string

// Selection outcomes.
const (
	// OutcomeIgnored: no code resolved, wrong level, or a redundant external
	// selection. Nothing changed and nobody was notified.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeDrilled: the province has regencies and the map switched to them.
	OutcomeDrilled Outcome = "drilled"
	// OutcomeProvinceSelected: the province has no mapped regencies; the map
	// stays at province level.
	OutcomeProvinceSelected Outcome = "province_selected"
	// OutcomeCitySelected: a regency was chosen.
	OutcomeCitySelected Outcome = "city_selected"
)

// Option configures a Navigator.
type Option func(*Navigator)

// WithViewport injects the viewport controller.
func WithViewport(v Viewport) Option {
	return func(n *Navigator) { n.viewport = v }
}

// WithListener sets the host callback receiver.
func WithListener(l Listener) Option {
	return func(n *Navigator) { n.listener = l }
}

// WithDefaultView sets the country-wide view used by Reset.
func WithDefaultView(center LatLng, zoom int) Option {
	return func(n *Navigator) {
		n.center = center
		n.zoom = zoom
	}
}

// WithFitOptions sets the options used when zooming to a province.
func WithFitOptions(opts FitOptions) Option {
	return func(n *Navigator) { n.fit = opts }
}

// Navigator owns the navigation state.
type Navigator struct {
	ds       *region.Dataset
	viewport Viewport
	listener Listener

	center LatLng
	zoom   int
	fit    FitOptions

	state   State
	key     string
	version uint64

	log *zap.Logger
}

// New creates a navigator over the dataset. Call Initialize before use.
func New(ds *region.Dataset, opts ...Option) *Navigator {
	n := &Navigator{
		ds:     ds,
		center: DefaultCenter,
		zoom:   DefaultZoom,
		fit:    DefaultFitOptions,
		state:  State{Level: region.LevelProvince, Loading: true},
		log:    zap.L().With(zap.String("component", "navigator")),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.key = layerKey(n.state)
	return n
}

// SetViewport injects the viewport controller once the map widget mounts.
// A nil viewport disables recentering.
func (n *Navigator) SetViewport(v Viewport) {
	n.viewport = v
}

// Initialize activates the full province collection.
func (n *Navigator) Initialize() {
	n.state.Loading = true
	n.commit(region.LevelProvince, n.ds.Provinces(), nil)
	n.state.Loading = false
}

// State returns a copy of the navigation state.
func (n *Navigator) State() State {
	s := n.state
	if s.Selected != nil {
		sel := *s.Selected
		s.Selected = &sel
	}
	return s
}

// Level returns the current administrative level.
func (n *Navigator) Level() region.Level {
	return n.state.Level
}

// Active returns the collection currently rendered.
func (n *Navigator) Active() *region.Collection {
	return n.state.Active
}

// LayerKey identifies the drawn layer. It changes exactly when the level or
// the selected province changes; a layer built under another key is stale.
func (n *Navigator) LayerKey() string {
	return n.key
}

// Version counts layer key changes.
func (n *Navigator) Version() uint64 {
	return n.version
}

// SelectRegion handles a click on a feature of the active collection.
func (n *Navigator) SelectRegion(f *geojson.Feature) Outcome {
	if n.state.Level == region.LevelRegency {
		return n.selectCity(f)
	}
	return n.selectProvince(f)
}

func (n *Navigator) selectProvince(f *geojson.Feature) Outcome {
	code, ok := region.ResolveCode(f, region.LevelProvince)
	if !ok {
		n.log.Warn("navigator: province feature has no code, ignoring click")
		return OutcomeIgnored
	}
	name := region.ResolveName(f, region.LevelProvince)
	selected := &Selection{Code: code, Name: name}

	regencies := n.ds.RegenciesOf(code)
	if regencies.Empty() {
		n.log.Info("navigator: province has no mapped regencies",
			zap.String("province", code),
		)
		n.commit(region.LevelProvince, n.state.Active, selected)
		n.notifyProvince(code, name)
		return OutcomeProvinceSelected
	}

	n.log.Debug("navigator: drilling into province",
		zap.String("province", code),
		zap.Int("regencies", regencies.Len()),
	)
	n.commit(region.LevelRegency, regencies, selected)
	n.fitBounds(regencies)
	n.notifyProvince(code, name)
	return OutcomeDrilled
}

func (n *Navigator) selectCity(f *geojson.Feature) Outcome {
	code, ok := region.ResolveCode(f, region.LevelRegency)
	if !ok {
		n.log.Warn("navigator: regency feature has no code, ignoring click")
		return OutcomeIgnored
	}
	if n.state.Selected == nil {
		return OutcomeIgnored
	}
	provinceCode := n.state.Selected.Code
	cityCode := CityCode(provinceCode, code)
	name := region.ResolveName(f, region.LevelRegency)

	if n.listener != nil {
		n.listener.CitySelected(cityCode, name, provinceCode)
	}
	return OutcomeCitySelected
}

// Reset returns to the country-wide province view and tells the host that
// nothing is selected. Calling it repeatedly is harmless.
func (n *Navigator) Reset() {
	n.commit(region.LevelProvince, n.ds.Provinces(), nil)

	if n.viewport != nil {
		n.viewport.SetView(n.center, n.zoom, ViewOptions{Animate: true, Duration: n.fit.Duration})
	} else {
		n.log.Debug("navigator: viewport not ready, skipping set view")
	}

	if n.listener != nil {
		n.listener.ProvinceSelected("", "")
		n.listener.CitySelected("", "", "")
	}
}

// SyncExternalSelection mirrors a province chosen outside the map. It only
// acts at province level, and ignores the province already selected so a host
// that feeds callbacks back in does not loop.
func (n *Navigator) SyncExternalSelection(code string) Outcome {
	if code == "" || n.state.Level != region.LevelProvince {
		return OutcomeIgnored
	}
	if n.state.Selected != nil && n.state.Selected.Code == code {
		return OutcomeIgnored
	}
	f, _, ok := n.state.Active.Find(code)
	if !ok {
		n.log.Debug("navigator: external selection not found", zap.String("province", code))
		return OutcomeIgnored
	}
	return n.selectProvince(f)
}

// CityCode builds the composite regency key "{province}.{regency}".
func CityCode(provinceCode, regencyCode string) string {
	return provinceCode + "." + regencyCode
}

func (n *Navigator) commit(level region.Level, active *region.Collection, selected *Selection) {
	n.state.Level = level
	n.state.Active = active
	n.state.Selected = selected

	if key := layerKey(n.state); key != n.key {
		n.key = key
		n.version++
	}
}

func (n *Navigator) fitBounds(c *region.Collection) {
	if n.viewport == nil {
		n.log.Debug("navigator: viewport not ready, skipping fit bounds")
		return
	}
	n.viewport.FitBounds(c, n.fit)
}

func (n *Navigator) notifyProvince(code, name string) {
	if n.listener != nil {
		n.listener.ProvinceSelected(code, name)
	}
}

func layerKey(s State) string {
	selected := "none"
	if s.Selected != nil {
		selected = s.Selected.Code
	}
	return fmt.Sprintf("%s-%s", s.Level, selected)
}
