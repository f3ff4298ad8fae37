package session

import (
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/regionmap/internal/navigator"
	"github.com/sells-group/regionmap/internal/region"
	"github.com/sells-group/regionmap/internal/render"
)

func testDataset(t *testing.T) *region.Dataset {
	t.Helper()
	ds, err := region.LoadEmbedded()
	require.NoError(t, err)
	return ds
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New("test", testDataset(t), 1024, DefaultOptions())
}

func pathIndex(t *testing.T, l *render.Layer, code string) int {
	t.Helper()
	for _, p := range l.Paths {
		if p.Code == code {
			return p.Index
		}
	}
	require.Failf(t, "path not found", "code %s", code)
	return -1
}

func TestNew_InitialSnapshot(t *testing.T) {
	s := newTestSession(t)

	snap := s.Snapshot()
	assert.Equal(t, "test", snap.ID)
	assert.Equal(t, region.LevelProvince, snap.State.Level)
	assert.False(t, snap.State.Loading)
	assert.Nil(t, snap.Province)
	assert.Nil(t, snap.City)
	assert.Equal(t, "province-none", snap.Layer.Key)
	assert.Len(t, snap.Layer.Paths, 6)
	assert.Empty(t, snap.Commands)
	assert.Empty(t, snap.Callbacks)
}

func TestClick_DrillAndCity(t *testing.T) {
	s := newTestSession(t)
	l := s.Snapshot().Layer

	snap, err := s.Click(l.Key, pathIndex(t, l, "31"))
	require.NoError(t, err)

	assert.Equal(t, navigator.OutcomeDrilled, snap.Outcome)
	assert.Equal(t, "regency-31", snap.Layer.Key)
	assert.Len(t, snap.Layer.Paths, 5)
	assert.True(t, snap.Layer.ResetControl())
	assert.Equal(t, &navigator.Selection{Code: "31", Name: "DKI Jakarta"}, snap.Province)
	assert.Equal(t, []Callback{{Kind: CallbackProvince, Code: "31", Name: "DKI Jakarta"}}, snap.Callbacks)

	require.Len(t, snap.Commands, 1)
	cmd := snap.Commands[0]
	assert.Equal(t, OpFitBounds, cmd.Op)
	assert.Equal(t, 50, cmd.Padding)
	assert.Equal(t, 10, cmd.MaxZoom)
	assert.True(t, cmd.Animate)
	assert.Equal(t, int64(1000), cmd.DurationMS)
	require.NotNil(t, cmd.Bounds)
	assert.InDelta(t, 106.68, cmd.Bounds[0], 1e-9)
	assert.InDelta(t, 106.98, cmd.Bounds[2], 1e-9)

	// Commands and callbacks are drained.
	again := s.Snapshot()
	assert.Empty(t, again.Commands)
	assert.Empty(t, again.Callbacks)

	snap, err = s.Click(snap.Layer.Key, pathIndex(t, snap.Layer, "71"))
	require.NoError(t, err)
	assert.Equal(t, navigator.OutcomeCitySelected, snap.Outcome)
	assert.Equal(t, "regency-31", snap.Layer.Key)
	require.NotNil(t, snap.City)
	assert.Equal(t, "31.71", snap.City.Code)
	assert.Equal(t, "31", snap.City.ProvinceCode)
	assert.Equal(t, []Callback{{Kind: CallbackCity, Code: "31.71", Name: snap.City.Name, ProvinceCode: "31"}}, snap.Callbacks)
}

func TestClick_StaleKey(t *testing.T) {
	s := newTestSession(t)
	old := s.Snapshot().Layer

	_, err := s.Click(old.Key, pathIndex(t, old, "31"))
	require.NoError(t, err)

	_, err = s.Click(old.Key, 0)
	assert.True(t, eris.Is(err, render.ErrStaleLayer))

	_, err = s.Hover(old.Key, 0)
	assert.True(t, eris.Is(err, render.ErrStaleLayer))

	assert.Equal(t, "regency-31", s.Snapshot().Layer.Key)
}

func TestClick_BadIndex(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Click("", 42)
	assert.True(t, eris.Is(err, render.ErrNoPath))
}

func TestReset(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Click("", 1)
	require.NoError(t, err)

	snap := s.Reset()
	assert.Equal(t, "province-none", snap.Layer.Key)
	assert.Nil(t, snap.Province)
	assert.Nil(t, snap.City)
	assert.Equal(t, []Callback{
		{Kind: CallbackProvince},
		{Kind: CallbackCity},
	}, snap.Callbacks)

	require.Len(t, snap.Commands, 1)
	cmd := snap.Commands[0]
	assert.Equal(t, OpSetView, cmd.Op)
	assert.Equal(t, &navigator.LatLng{Lat: -2.0, Lng: 118.0}, cmd.Center)
	assert.Equal(t, 5, cmd.Zoom)
}

func TestClickAt(t *testing.T) {
	s := newTestSession(t)

	snap := s.ClickAt(96.5, 4.0)
	assert.Equal(t, navigator.OutcomeProvinceSelected, snap.Outcome)
	assert.Equal(t, "province-11", snap.Layer.Key)
	assert.Empty(t, snap.Commands)
	assert.Equal(t, "11", snap.Province.Code)

	aceh := snap.Layer.Paths[pathIndex(t, snap.Layer, "11")]
	assert.Equal(t, render.DefaultTheme().Selected, aceh.Style)

	snap = s.ClickAt(0, 0)
	assert.Equal(t, navigator.OutcomeIgnored, snap.Outcome)
	assert.Empty(t, snap.Callbacks)
}

func TestSelect_External(t *testing.T) {
	s := newTestSession(t)

	snap := s.Select("32", "")
	assert.Equal(t, navigator.OutcomeDrilled, snap.Outcome)
	assert.Equal(t, "regency-32", snap.Layer.Key)
	assert.Equal(t, &navigator.Selection{Code: "32", Name: "Jawa Barat"}, snap.Province)
	assert.Len(t, snap.Callbacks, 1)
	assert.Len(t, snap.Commands, 1)

	// At regency level the external value is recorded but the map stays.
	snap = s.Select("36", "Banten")
	assert.Equal(t, navigator.OutcomeIgnored, snap.Outcome)
	assert.Equal(t, "regency-32", snap.Layer.Key)
	assert.Equal(t, "36", snap.Province.Code)
}

func TestSelect_ChildlessDoesNotLoop(t *testing.T) {
	s := newTestSession(t)

	snap := s.Select("65", "")
	assert.Equal(t, navigator.OutcomeProvinceSelected, snap.Outcome)
	assert.Len(t, snap.Callbacks, 1)

	snap = s.Select("65", "")
	assert.Equal(t, navigator.OutcomeIgnored, snap.Outcome)
	assert.Empty(t, snap.Callbacks)

	snap = s.Select("", "")
	assert.Nil(t, snap.Province)
}

func TestHoverLeave(t *testing.T) {
	s := newTestSession(t)

	snap, err := s.Hover("", 2)
	require.NoError(t, err)
	assert.True(t, snap.Layer.Paths[2].Hovered)
	assert.Equal(t, render.DefaultTheme().Hover, snap.Layer.Paths[2].Style)

	snap, err = s.Leave("", 2)
	require.NoError(t, err)
	assert.False(t, snap.Layer.Paths[2].Hovered)
	assert.Equal(t, render.DefaultTheme().Base, snap.Layer.Paths[2].Style)
}

func TestResize_Tooltips(t *testing.T) {
	s := newTestSession(t)
	assert.NotNil(t, s.Snapshot().Layer.Paths[0].Tooltip)

	snap := s.Resize(640)
	assert.Nil(t, snap.Layer.Paths[0].Tooltip)
}

func TestSnapshot_JSON(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Click("", 1)
	require.NoError(t, err)

	data, err := json.Marshal(s.Reset())
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "test", got["id"])
	assert.Nil(t, got["selected_province"])

	layer, ok := got["layer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "province-none", layer["key"])

	cmds, ok := got["commands"].([]interface{})
	require.True(t, ok)
	require.Len(t, cmds, 1)
	assert.Equal(t, "set_view", cmds[0].(map[string]interface{})["op"])
}

func TestViewportRecorder_EmptyCollectionDropped(t *testing.T) {
	r := &ViewportRecorder{}
	r.FitBounds(region.NewCollection(region.LevelRegency, nil), navigator.DefaultFitOptions)
	assert.Empty(t, r.Drain())
}
