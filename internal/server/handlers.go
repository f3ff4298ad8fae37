package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/regionmap/internal/region"
	"github.com/sells-group/regionmap/internal/session"
)

// ErrNoRegency is returned when a province has no mapped regencies.
var ErrNoRegency = eris.New("server: province has no mapped regencies")

const defaultSearchLimit = 20

func (s *Server) handleProvinces(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ds.Provinces())
}

func (s *Server) handleRegencies(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	regencies := s.ds.RegenciesOf(code)
	if regencies.Empty() {
		writeError(w, http.StatusNotFound, eris.Wrapf(ErrNoRegency, "province %s", code).Error())
		return
	}
	writeJSON(w, http.StatusOK, regencies)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   q,
		"matches": s.ds.Search(q, limit),
	})
}

type locateResponse struct {
	Province region.Match  `json:"province"`
	Regency  *region.Match `json:"regency,omitempty"`
}

// handleLocate reports the province, and the regency when one is mapped, that
// contains the lng/lat query point.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if errLng != nil || errLat != nil {
		writeError(w, http.StatusBadRequest, "lng and lat must be numbers")
		return
	}

	prov, ok := s.ds.Locate(region.LevelProvince, "", lng, lat)
	if !ok {
		writeError(w, http.StatusNotFound, "no province contains the point")
		return
	}
	provCode, _ := region.ResolveCode(prov, region.LevelProvince)
	resp := locateResponse{Province: region.Match{
		Level: region.LevelProvince,
		Code:  provCode,
		Name:  region.ResolveName(prov, region.LevelProvince),
	}}

	if reg, ok := s.ds.Locate(region.LevelRegency, provCode, lng, lat); ok {
		code, _ := region.ResolveCode(reg, region.LevelRegency)
		resp.Regency = &region.Match{
			Level:        region.LevelRegency,
			Code:         code,
			Name:         region.ResolveName(reg, region.LevelRegency),
			ProvinceCode: provCode,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type widthRequest struct {
	Width int `json:"width"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req widthRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Width <= 0 {
		req.Width = DefaultWidth
	}
	sess := s.store.Create(req.Width)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleSessionStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

// withSession resolves the {id} route parameter.
func (s *Server) withSession(fn func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.store.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		fn(w, r, sess)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
		writeJSON(w, http.StatusOK, sess.Snapshot())
	})(w, r)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pathRequest struct {
	Key   string   `json:"key"`
	Index *int     `json:"index"`
	Lng   *float64 `json:"lng"`
	Lat   *float64 `json:"lat"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var req pathRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		switch {
		case req.Index != nil:
			snap, err := sess.Click(req.Key, *req.Index)
			if err != nil {
				s.writeDomainError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, snap)
		case req.Lng != nil && req.Lat != nil:
			writeJSON(w, http.StatusOK, sess.ClickAt(*req.Lng, *req.Lat))
		default:
			writeError(w, http.StatusBadRequest, "index or lng/lat is required")
		}
	})(w, r)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	s.pathEvent(w, r, (*session.Session).Hover)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.pathEvent(w, r, (*session.Session).Leave)
}

func (s *Server) pathEvent(w http.ResponseWriter, r *http.Request, fn func(*session.Session, string, int) (*session.Snapshot, error)) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var req pathRequest
		if err := decodeBody(r, &req); err != nil || req.Index == nil {
			writeError(w, http.StatusBadRequest, "index is required")
			return
		}
		snap, err := fn(sess, req.Key, *req.Index)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	})(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
		writeJSON(w, http.StatusOK, sess.Reset())
	})(w, r)
}

type selectionRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var req selectionRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, sess.Select(req.Code, req.Name))
	})(w, r)
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	s.withSession(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var req widthRequest
		if err := decodeBody(r, &req); err != nil || req.Width <= 0 {
			writeError(w, http.StatusBadRequest, "width must be a positive integer")
			return
		}
		writeJSON(w, http.StatusOK, sess.Resize(req.Width))
	})(w, r)
}
