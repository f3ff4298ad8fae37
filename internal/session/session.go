// Package session hosts interactive map sessions: a navigator, the host's
// selection tracker, a render view and the queued viewport commands, mutated
// one event at a time.
package session

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/regionmap/internal/navigator"
	"github.com/sells-group/regionmap/internal/region"
	"github.com/sells-group/regionmap/internal/render"
)

// Callback kinds reported in a snapshot.
const (
	CallbackProvince = "province_selected"
	CallbackCity     = "city_selected"
)

// Callback is one host notification fired by the navigator.
type Callback struct {
	Kind         string `json:"kind"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProvinceCode string `json:"province_code,omitempty"`
}

// Snapshot is what the widget needs after an event: the state, the layer to
// draw and everything fired since the previous snapshot.
type Snapshot struct {
	ID        string                   `json:"id"`
	Outcome   navigator.Outcome        `json:"outcome,omitempty"`
	State     navigator.State          `json:"state"`
	Province  *navigator.Selection     `json:"selected_province"`
	City      *navigator.CitySelection `json:"selected_city"`
	Layer     *render.Layer            `json:"layer"`
	Commands  []Command                `json:"commands"`
	Callbacks []Callback               `json:"callbacks"`
}

// Options configure new sessions.
type Options struct {
	Renderer *render.Renderer
	Center   navigator.LatLng
	Zoom     int
	Fit      navigator.FitOptions
}

// DefaultOptions uses the default renderer and view.
func DefaultOptions() Options {
	return Options{
		Renderer: render.New(),
		Center:   navigator.DefaultCenter,
		Zoom:     navigator.DefaultZoom,
		Fit:      navigator.DefaultFitOptions,
	}
}

// Session is one map instance. All methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	nav       *navigator.Navigator
	tracker   *navigator.Tracker
	view      *render.View
	recorder  *ViewportRecorder
	callbacks []Callback
}

// New creates and initializes a session over ds.
func New(id string, ds *region.Dataset, width int, opts Options) *Session {
	if opts.Renderer == nil {
		opts.Renderer = render.New()
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		tracker:   &navigator.Tracker{},
		recorder:  &ViewportRecorder{},
	}
	record := navigator.ListenerFuncs{
		Province: func(code, name string) {
			s.callbacks = append(s.callbacks, Callback{Kind: CallbackProvince, Code: code, Name: name})
		},
		City: func(code, name, provinceCode string) {
			s.callbacks = append(s.callbacks, Callback{Kind: CallbackCity, Code: code, Name: name, ProvinceCode: provinceCode})
		},
	}
	s.nav = navigator.New(ds,
		navigator.WithViewport(s.recorder),
		navigator.WithListener(navigator.Listeners(s.tracker, record)),
		navigator.WithDefaultView(opts.Center, opts.Zoom),
		navigator.WithFitOptions(opts.Fit),
	)
	s.nav.Initialize()
	s.view = render.NewView(opts.Renderer, s.nav, width)
	return s
}

// Snapshot returns the current state and drains pending commands and
// callbacks.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot("")
}

// Click handles a click on path index of the layer identified by key. An
// empty key means the current layer.
func (s *Session) Click(key string, index int) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layer(key)
	if err != nil {
		return nil, err
	}
	out, err := l.Click(index)
	if err != nil {
		return nil, err
	}
	return s.snapshot(out), nil
}

// ClickAt handles a click at a map coordinate. A point outside every active
// region is ignored.
func (s *Session) ClickAt(lng, lat float64) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := region.Locate(s.nav.Active(), lng, lat)
	if !ok {
		return s.snapshot(navigator.OutcomeIgnored)
	}
	out, err := s.current().Click(i)
	if err != nil {
		return s.snapshot(navigator.OutcomeIgnored)
	}
	return s.snapshot(out)
}

// Hover highlights path index.
func (s *Session) Hover(key string, index int) (*Snapshot, error) {
	return s.pathEvent(key, index, (*render.Layer).Hover)
}

// Leave restores path index.
func (s *Session) Leave(key string, index int) (*Snapshot, error) {
	return s.pathEvent(key, index, (*render.Layer).Leave)
}

func (s *Session) pathEvent(key string, index int, fn func(*render.Layer, int) error) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.layer(key)
	if err != nil {
		return nil, err
	}
	if err := fn(l, index); err != nil {
		return nil, err
	}
	return s.snapshot(""), nil
}

// Reset is the "back to provinces" control.
func (s *Session) Reset() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nav.Reset()
	return s.snapshot("")
}

// Select mirrors a province chosen outside the map. The host's tracker is
// updated first, the way a controlled selector would be, then fed back to the
// navigator.
func (s *Session) Select(code, name string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code == "" {
		s.tracker.ProvinceSelected("", "")
		return s.snapshot(navigator.OutcomeIgnored)
	}
	if name == "" {
		if f, _, ok := s.nav.Active().Find(code); ok {
			name = region.ResolveName(f, region.LevelProvince)
		}
	}
	s.tracker.ProvinceSelected(code, name)
	return s.snapshot(s.nav.SyncExternalSelection(code))
}

// Resize records a new viewport width.
func (s *Session) Resize(width int) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Resize(width)
	return s.snapshot("")
}

func (s *Session) current() *render.Layer {
	return s.view.Layer(s.tracker.ProvinceCode())
}

// layer returns the layer events are addressed to. A key that no longer
// matches the navigator is stale.
func (s *Session) layer(key string) (*render.Layer, error) {
	if key != "" && key != s.nav.LayerKey() {
		return nil, eris.Wrapf(render.ErrStaleLayer, "key %s", key)
	}
	return s.current(), nil
}

func (s *Session) snapshot(out navigator.Outcome) *Snapshot {
	callbacks := s.callbacks
	s.callbacks = nil
	if callbacks == nil {
		callbacks = []Callback{}
	}
	return &Snapshot{
		ID:        s.ID,
		Outcome:   out,
		State:     s.nav.State(),
		Province:  s.tracker.Province(),
		City:      s.tracker.City(),
		Layer:     s.current(),
		Commands:  s.recorder.Drain(),
		Callbacks: callbacks,
	}
}
