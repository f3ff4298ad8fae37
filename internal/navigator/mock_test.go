package navigator

import (
	"reflect"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/regionmap/internal/region"
)

// --- Viewport Mock ---

type mockViewport struct {
	mock.Mock
}

func (m *mockViewport) FitBounds(c *region.Collection, opts FitOptions) {
	m.Called(c, opts)
}

func (m *mockViewport) SetView(center LatLng, zoom int, opts ViewOptions) {
	m.Called(center, zoom, opts)
}

// --- Listener Mock ---

type mockListener struct {
	mock.Mock
}

func (m *mockListener) ProvinceSelected(code, name string) {
	m.Called(code, name)
}

func (m *mockListener) CitySelected(code, name, provinceCode string) {
	m.Called(code, name, provinceCode)
}

// countCalls counts recorded calls of method made with exactly args.
func countCalls(m *mock.Mock, method string, args ...interface{}) int {
	n := 0
	for _, c := range m.Calls {
		if c.Method == method && reflect.DeepEqual([]interface{}(c.Arguments), args) {
			n++
		}
	}
	return n
}
