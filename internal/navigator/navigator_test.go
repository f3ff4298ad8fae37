package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/regionmap/internal/region"
)

func testDataset(t *testing.T) *region.Dataset {
	t.Helper()
	ds, err := region.LoadEmbedded()
	require.NoError(t, err)
	return ds
}

func newTestNavigator(t *testing.T) (*Navigator, *mockViewport, *mockListener) {
	t.Helper()
	vp := &mockViewport{}
	ls := &mockListener{}
	n := New(testDataset(t), WithViewport(vp), WithListener(ls))
	n.Initialize()
	return n, vp, ls
}

func province(t *testing.T, n *Navigator, code string) *geojson.Feature {
	t.Helper()
	f, _, ok := n.ds.Provinces().Find(code)
	require.True(t, ok, "province %s not in dataset", code)
	return f
}

func TestInitialize(t *testing.T) {
	ds := testDataset(t)
	n := New(ds)
	assert.True(t, n.State().Loading)

	n.Initialize()

	s := n.State()
	assert.Equal(t, region.LevelProvince, s.Level)
	assert.Same(t, ds.Provinces(), s.Active)
	assert.Nil(t, s.Selected)
	assert.False(t, s.Loading)
	assert.Equal(t, "province-none", n.LayerKey())
}

func TestSelectProvince_DrillsIntoRegencies(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.AnythingOfType("*region.Collection"), mock.AnythingOfType("navigator.FitOptions")).Return()
	ls.On("ProvinceSelected", "31", "DKI Jakarta").Return()

	out := n.SelectRegion(province(t, n, "31"))

	assert.Equal(t, OutcomeDrilled, out)
	s := n.State()
	assert.Equal(t, region.LevelRegency, s.Level)
	require.NotNil(t, s.Selected)
	assert.Equal(t, Selection{Code: "31", Name: "DKI Jakarta"}, *s.Selected)
	require.Equal(t, 5, s.Active.Len())
	for _, f := range s.Active.Features {
		assert.True(t, region.BelongsTo(f, "31"))
	}

	vp.AssertNumberOfCalls(t, "FitBounds", 1)
	fitted := vp.Calls[0].Arguments.Get(0).(*region.Collection)
	opts := vp.Calls[0].Arguments.Get(1).(FitOptions)
	assert.Equal(t, 5, fitted.Len())
	assert.Equal(t, 10, opts.MaxZoom)
	assert.Equal(t, 50, opts.Padding)
	assert.True(t, opts.Animate)
	ls.AssertNumberOfCalls(t, "ProvinceSelected", 1)
	assert.Equal(t, "regency-31", n.LayerKey())
}

func TestSelectProvince_NoRegenciesStaysAtProvinceLevel(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	ls.On("ProvinceSelected", "65", "Kalimantan Utara").Return()

	out := n.SelectRegion(province(t, n, "65"))

	assert.Equal(t, OutcomeProvinceSelected, out)
	s := n.State()
	assert.Equal(t, region.LevelProvince, s.Level)
	assert.Same(t, n.ds.Provinces(), s.Active)
	require.NotNil(t, s.Selected)
	assert.Equal(t, "65", s.Selected.Code)

	ls.AssertNumberOfCalls(t, "ProvinceSelected", 1)
	ls.AssertExpectations(t)
	vp.AssertNotCalled(t, "FitBounds", mock.Anything, mock.Anything)
}

func TestSelectProvince_EveryChildlessProvinceNotifiesOnce(t *testing.T) {
	ds := testDataset(t)
	for _, code := range ds.Validate().ChildlessProvinces {
		t.Run(code, func(t *testing.T) {
			var calls [][2]string
			n := New(ds, WithListener(ListenerFuncs{Province: func(c, name string) {
				calls = append(calls, [2]string{c, name})
			}}))
			n.Initialize()

			f, _, ok := ds.Provinces().Find(code)
			require.True(t, ok)
			n.SelectRegion(f)

			require.Len(t, calls, 1)
			assert.Equal(t, code, calls[0][0])
			assert.Equal(t, region.ResolveName(f, region.LevelProvince), calls[0][1])
			assert.Equal(t, region.LevelProvince, n.Level())
		})
	}
}

func TestSelectProvince_EveryProvinceWithRegenciesDrills(t *testing.T) {
	ds := testDataset(t)
	for code, count := range ds.Validate().RegencyCounts {
		if count == 0 {
			continue
		}
		t.Run(code, func(t *testing.T) {
			n := New(ds)
			n.Initialize()
			f, _, ok := ds.Provinces().Find(code)
			require.True(t, ok)

			assert.Equal(t, OutcomeDrilled, n.SelectRegion(f))
			assert.Equal(t, region.LevelRegency, n.Level())
			assert.Equal(t, ds.RegenciesOf(code).Features, n.Active().Features)
		})
	}
}

func TestSelectProvince_UnresolvableCodeIsIgnored(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	versionBefore := n.Version()

	out := n.SelectRegion(&geojson.Feature{Properties: map[string]interface{}{
		region.PropProvinceName: "Nameless",
	}})

	assert.Equal(t, OutcomeIgnored, out)
	assert.Equal(t, region.LevelProvince, n.Level())
	assert.Nil(t, n.State().Selected)
	assert.Equal(t, versionBefore, n.Version())
	vp.AssertNotCalled(t, "FitBounds", mock.Anything, mock.Anything)
	ls.AssertNotCalled(t, "ProvinceSelected", mock.Anything, mock.Anything)
}

func TestSelectProvince_StatisticsCodeFallback(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", "51", "BALI").Return()

	// Bali only carries bps properties.
	out := n.SelectRegion(province(t, n, "51"))

	assert.Equal(t, OutcomeDrilled, out)
	assert.Equal(t, 2, n.Active().Len())
	ls.AssertExpectations(t)
}

func TestSelectCity_CompositeCode(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", "32", "Jawa Barat").Return()
	ls.On("CitySelected", "32.01", "Bogor", "32").Return()

	n.SelectRegion(province(t, n, "32"))
	versionBefore := n.Version()

	bogor, _, ok := n.Active().Find("01")
	require.True(t, ok)
	out := n.SelectRegion(bogor)

	assert.Equal(t, OutcomeCitySelected, out)
	assert.Equal(t, region.LevelRegency, n.Level())
	assert.Equal(t, versionBefore, n.Version())
	ls.AssertExpectations(t)
}

func TestSelectCity_StatisticsFallback(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", mock.Anything, mock.Anything).Return()
	ls.On("CitySelected", "32.73", "KOTA BANDUNG", "32").Return()

	n.SelectRegion(province(t, n, "32"))
	kotaBandung, _, ok := n.Active().Find("73")
	require.True(t, ok)
	n.SelectRegion(kotaBandung)

	ls.AssertCalled(t, "CitySelected", "32.73", "KOTA BANDUNG", "32")
}

func TestSelectCity_UnresolvableCodeIsIgnored(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", mock.Anything, mock.Anything).Return()
	n.SelectRegion(province(t, n, "31"))

	out := n.SelectRegion(&geojson.Feature{Properties: map[string]interface{}{}})

	assert.Equal(t, OutcomeIgnored, out)
	ls.AssertNotCalled(t, "CitySelected", mock.Anything, mock.Anything, mock.Anything)
}

func TestCityCode(t *testing.T) {
	assert.Equal(t, "32.01", CityCode("32", "01"))
}

func TestReset_FromRegencyLevel(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	vp.On("SetView", DefaultCenter, DefaultZoom, mock.AnythingOfType("navigator.ViewOptions")).Return()
	ls.On("ProvinceSelected", "31", "DKI Jakarta").Return()
	ls.On("ProvinceSelected", "", "").Return()
	ls.On("CitySelected", "", "", "").Return()

	n.SelectRegion(province(t, n, "31"))
	n.Reset()

	s := n.State()
	assert.Equal(t, region.LevelProvince, s.Level)
	assert.Nil(t, s.Selected)
	assert.Same(t, n.ds.Provinces(), s.Active)
	assert.Equal(t, "province-none", n.LayerKey())

	ls.AssertNumberOfCalls(t, "ProvinceSelected", 2)
	ls.AssertNumberOfCalls(t, "CitySelected", 1)
	assert.Equal(t, 1, countCalls(&ls.Mock, "ProvinceSelected", "", ""))
	assert.Equal(t, 1, countCalls(&ls.Mock, "CitySelected", "", "", ""))
	vp.AssertNumberOfCalls(t, "SetView", 1)
	opts := vp.Calls[1].Arguments.Get(2).(ViewOptions)
	assert.True(t, opts.Animate)
}

func TestReset_Idempotent(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	vp.On("SetView", mock.Anything, mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", mock.Anything, mock.Anything).Return()
	ls.On("CitySelected", mock.Anything, mock.Anything, mock.Anything).Return()

	n.SelectRegion(province(t, n, "36"))

	n.Reset()
	once := n.State()
	onceVersion := n.Version()

	n.Reset()
	assert.Equal(t, once, n.State())
	assert.Equal(t, onceVersion, n.Version())
	// The viewport is still recentered.
	vp.AssertNumberOfCalls(t, "SetView", 2)
}

func TestWithoutViewportTransitionsStillComplete(t *testing.T) {
	n := New(testDataset(t))
	n.Initialize()

	f, _, _ := n.ds.Provinces().Find("31")
	assert.Equal(t, OutcomeDrilled, n.SelectRegion(f))
	assert.Equal(t, region.LevelRegency, n.Level())

	n.Reset()
	assert.Equal(t, region.LevelProvince, n.Level())
}

func TestSetViewportAfterConstruction(t *testing.T) {
	n := New(testDataset(t))
	n.Initialize()

	vp := &mockViewport{}
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	n.SetViewport(vp)

	n.SelectRegion(province(t, n, "31"))
	vp.AssertNumberOfCalls(t, "FitBounds", 1)
}

func TestCustomViewOptions(t *testing.T) {
	vp := &mockViewport{}
	center := LatLng{Lat: -6.2, Lng: 106.8}
	fit := FitOptions{Padding: 20, MaxZoom: 8}
	vp.On("FitBounds", mock.Anything, fit).Return()
	vp.On("SetView", center, 7, mock.Anything).Return()

	n := New(testDataset(t), WithViewport(vp), WithDefaultView(center, 7), WithFitOptions(fit))
	n.Initialize()
	n.SelectRegion(province(t, n, "32"))
	n.Reset()

	vp.AssertExpectations(t)
}

func TestSyncExternalSelection_Drills(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", "36", "Banten").Return()

	out := n.SyncExternalSelection("36")

	assert.Equal(t, OutcomeDrilled, out)
	assert.Equal(t, region.LevelRegency, n.Level())
	assert.Equal(t, 3, n.Active().Len())
}

func TestSyncExternalSelection_NoReentryAtRegencyLevel(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", mock.Anything, mock.Anything).Return()

	n.SyncExternalSelection("31")
	out := n.SyncExternalSelection("31")

	assert.Equal(t, OutcomeIgnored, out)
	vp.AssertNumberOfCalls(t, "FitBounds", 1)
	ls.AssertNumberOfCalls(t, "ProvinceSelected", 1)
}

func TestSyncExternalSelection_ChildlessNotRepeated(t *testing.T) {
	n, _, ls := newTestNavigator(t)
	ls.On("ProvinceSelected", "11", "Aceh").Return()

	assert.Equal(t, OutcomeProvinceSelected, n.SyncExternalSelection("11"))
	// The host echoes the selection back.
	assert.Equal(t, OutcomeIgnored, n.SyncExternalSelection("11"))

	ls.AssertNumberOfCalls(t, "ProvinceSelected", 1)
}

func TestSyncExternalSelection_Ignored(t *testing.T) {
	n, vp, ls := newTestNavigator(t)

	assert.Equal(t, OutcomeIgnored, n.SyncExternalSelection(""))
	assert.Equal(t, OutcomeIgnored, n.SyncExternalSelection("99"))
	assert.Equal(t, region.LevelProvince, n.Level())
	vp.AssertNotCalled(t, "FitBounds", mock.Anything, mock.Anything)
	ls.AssertNotCalled(t, "ProvinceSelected", mock.Anything, mock.Anything)
}

func TestSyncExternalSelection_BeforeInitialize(t *testing.T) {
	n := New(testDataset(t))
	assert.Equal(t, OutcomeIgnored, n.SyncExternalSelection("31"))
}

func TestVersionTracksLayerKey(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	vp.On("SetView", mock.Anything, mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", mock.Anything, mock.Anything).Return()
	ls.On("CitySelected", mock.Anything, mock.Anything, mock.Anything).Return()

	v0 := n.Version()
	n.SelectRegion(province(t, n, "31"))
	assert.Equal(t, v0+1, n.Version())

	n.Reset()
	assert.Equal(t, v0+2, n.Version())

	n.SelectRegion(province(t, n, "65"))
	assert.Equal(t, "province-65", n.LayerKey())
	assert.Equal(t, v0+3, n.Version())
}

func TestStateReturnsCopy(t *testing.T) {
	n, vp, ls := newTestNavigator(t)
	vp.On("FitBounds", mock.Anything, mock.Anything).Return()
	ls.On("ProvinceSelected", mock.Anything, mock.Anything).Return()
	n.SelectRegion(province(t, n, "31"))

	s := n.State()
	s.Selected.Code = "99"

	assert.Equal(t, "31", n.State().Selected.Code)
}
