package navigator

import "sync"

// Listener receives the host-facing selection callbacks. Empty strings mean
// "nothing selected".
type Listener interface {
	ProvinceSelected(code, name string)
	CitySelected(code, name, provinceCode string)
}

// ListenerFuncs adapts plain functions to a Listener. Nil funcs are skipped.
type ListenerFuncs struct {
	Province func(code, name string)
	City     func(code, name, provinceCode string)
}

// ProvinceSelected implements Listener.
func (l ListenerFuncs) ProvinceSelected(code, name string) {
	if l.Province != nil {
		l.Province(code, name)
	}
}

// CitySelected implements Listener.
func (l ListenerFuncs) CitySelected(code, name, provinceCode string) {
	if l.City != nil {
		l.City(code, name, provinceCode)
	}
}

type multiListener []Listener

func (m multiListener) ProvinceSelected(code, name string) {
	for _, l := range m {
		l.ProvinceSelected(code, name)
	}
}

func (m multiListener) CitySelected(code, name, provinceCode string) {
	for _, l := range m {
		l.CitySelected(code, name, provinceCode)
	}
}

// Listeners fans callbacks out to every non-nil listener in order.
func Listeners(ls ...Listener) Listener {
	var m multiListener
	for _, l := range ls {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

// Tracker mirrors the host view's selection cards: the selected province and
// the selected city. Choosing a province clears the city. It is safe for
// concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	province *Selection
	city     *CitySelection
}

// CitySelection is the host's selected regency/city.
type CitySelection struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProvinceCode string `json:"province_code"`
}

// ProvinceSelected implements Listener.
func (t *Tracker) ProvinceSelected(code, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.city = nil
	if code == "" {
		t.province = nil
		return
	}
	t.province = &Selection{Code: code, Name: name}
}

// CitySelected implements Listener.
func (t *Tracker) CitySelected(code, name, provinceCode string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if code == "" {
		t.city = nil
		return
	}
	t.city = &CitySelection{Code: code, Name: name, ProvinceCode: provinceCode}
}

// Province returns the selected province, or nil.
func (t *Tracker) Province() *Selection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.province == nil {
		return nil
	}
	p := *t.province
	return &p
}

// City returns the selected city, or nil.
func (t *Tracker) City() *CitySelection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.city == nil {
		return nil
	}
	c := *t.city
	return &c
}

// ProvinceCode returns the selected province code, or "" when none. This is
// the controlled "selected province" value a host feeds back to the map.
func (t *Tracker) ProvinceCode() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.province == nil {
		return ""
	}
	return t.province.Code
}
