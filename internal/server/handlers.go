package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bookstack/pkg/book"
	"github.com/matzehuels/bookstack/pkg/buildinfo"
	errs "github.com/matzehuels/bookstack/pkg/errors"
	"github.com/matzehuels/bookstack/pkg/render/sink"
	"github.com/matzehuels/bookstack/pkg/stack/ordering"
	"github.com/matzehuels/bookstack/pkg/stack/store"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Loaded  bool   `json:"loaded"`
	Books   int    `json:"books"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	resp := healthResponse{Status: "ok", Version: buildinfo.Version, Loaded: snap.Loaded, Books: len(snap.Arrangement.Books)}
	if s.store.Err() != nil {
		resp.Status = "no content"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type loginRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Authenticated bool `json:"authenticated"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		s.writeJSON(w, http.StatusOK, authResponse{Authenticated: true})
		return
	}
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.gate.Login(r.Context(), deviceFrom(r.Context()), req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, authResponse{Authenticated: true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.gate != nil {
		if err := s.gate.Logout(r.Context(), deviceFrom(r.Context())); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// engine returns the loaded engine or a NO_CONTENT error.
func (s *Server) engine() (*ordering.Engine, error) {
	if err := s.store.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeNoContent, err, "no books available")
	}
	e := s.store.Engine()
	if e == nil {
		return nil, errs.New(errs.ErrCodeNoContent, "books are still loading")
	}
	return e, nil
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	e, err := s.engine()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Books []book.Book `json:"books"`
	}{e.Books()})
}

func (s *Server) handleSorts(w http.ResponseWriter, r *http.Request) {
	e, err := s.engine()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Active ordering.Key         `json:"active"`
		Sorts  []ordering.SortOrder `json:"sorts"`
	}{s.store.Snapshot().Sort, e.Orders()})
}

// snapshot returns the current view, failing when nothing is loaded.
func (s *Server) snapshot() (store.Snapshot, error) {
	if _, err := s.engine(); err != nil {
		return store.Snapshot{}, err
	}
	return s.store.Snapshot(), nil
}

// view returns the shared snapshot, or a read-only arrangement when the
// request names a sort or q parameter. Missing parameters fall back to the
// shared sort and query.
func (s *Server) view(r *http.Request) (store.Snapshot, error) {
	snap, err := s.snapshot()
	if err != nil {
		return store.Snapshot{}, err
	}
	params := r.URL.Query()
	if !params.Has("sort") && !params.Has("q") {
		return snap, nil
	}
	k, q := snap.Sort, snap.Query
	if params.Has("sort") {
		if k, err = ordering.ParseKey(params.Get("sort")); err != nil {
			return store.Snapshot{}, err
		}
	}
	if params.Has("q") {
		q = params.Get("q")
	}
	return s.store.View(k, q)
}

func (s *Server) writeStack(w http.ResponseWriter, r *http.Request, snap store.Snapshot) {
	data, err := sink.RenderJSON(snap.Arrangement, sink.WithJSONOffsets(snap.Offsets))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Stack-Version", strconv.FormatUint(snap.Version, 10))
	_, _ = w.Write(data)
}

func (s *Server) handleStack(w http.ResponseWriter, r *http.Request) {
	snap, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeStack(w, r, snap)
}

type stackUpdate struct {
	Sort  *string `json:"sort"`
	Query *string `json:"query"`
}

func (s *Server) handleUpdateStack(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine(); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req stackUpdate
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Sort != nil {
		k, err := ordering.ParseKey(*req.Sort)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.store.SetSort(k)
	}
	if req.Query != nil {
		s.store.SetSearch(*req.Query)
	}
	s.writeStack(w, r, s.store.Snapshot())
}

func (s *Server) handleStackSVG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := []sink.SVGOption{sink.WithOffsets(snap.Offsets)}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "scale must be a positive number"))
			return
		}
		opts = append(opts, sink.WithScale(scale))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Stack-Version", strconv.FormatUint(snap.Version, 10))
	_, _ = w.Write(sink.RenderSVG(snap.Arrangement, opts...))
}

type focusResponse struct {
	Focus   string `json:"focus"`
	Version uint64 `json:"version"`
	Changed *bool  `json:"changed,omitempty"`
}

func (s *Server) writeFocus(w http.ResponseWriter, changed *bool) {
	snap := s.store.Snapshot()
	s.writeJSON(w, http.StatusOK, focusResponse{Focus: snap.Focus, Version: snap.Version, Changed: changed})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.snapshot(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFocus(w, nil)
}

func (s *Server) handleSetFocus(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Focus(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFocus(w, nil)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	changed, err := s.store.Click(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFocus(w, &changed)
}

func (s *Server) handleClearFocus(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.store.ClearFocus()
	w.WriteHeader(http.StatusNoContent)
}
