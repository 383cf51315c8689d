package server

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/store"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// createResponse is the body of POST /v1/layouts.
type createResponse struct {
	ID          string       `json:"id"`
	DatasetHash string       `json:"dataset_hash"`
	Cached      bool         `json:"cached"`
	Unreached   []string     `json:"unreached,omitempty"`
	Layout      graph.Layout `json:"layout"`
}

type listResponse struct {
	Layouts []store.Summary `json:"layouts"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

// createLayout handles POST /v1/layouts.
func (s *Server) createLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := layoutOptions(r.URL.Query())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ds, err := family.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Code:      string(errors.ErrCodeInvalidInput),
				Message:   "dataset exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
				RequestID: requestIDFrom(ctx),
			})
			return
		}
		s.respondError(w, r, err)
		return
	}
	if err := ds.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	hash, err := pipeline.HashDataset(ds)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	g := pipeline.Build(ctx, ds)
	l, hit, err := s.runner.LayoutWithCacheInfo(ctx, hash, g, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec := store.NewRecord(hash, l)
	if err := s.store.Save(ctx, rec); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save layout"))
		return
	}

	resp := createResponse{ID: rec.ID, DatasetHash: hash, Cached: hit, Layout: l}
	for _, n := range g.Unreached() {
		resp.Unreached = append(resp.Unreached, n.ID)
	}

	s.logger.Debug("layout created",
		"id", rec.ID, "people", len(l.Nodes), "cached", hit, "algorithm", l.Algorithm)

	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// layoutOptions reads the seed, iterations and refresh query parameters.
func layoutOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid seed %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid iterations %q (must be a positive integer)", v)
		}
		opts.Layout.Iterations = n
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid refresh %q", v)
		}
		opts.Refresh = refresh
	}
	return opts, nil
}

// listLayouts handles GET /v1/layouts.
func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	summaries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list layouts"))
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Layouts: summaries})
}

// getLayout handles GET /v1/layouts/{id}.
func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// renderLayout returns a handler that renders a stored layout in format.
// ?detailed=true adds generation and position details to node labels.
func (s *Server) renderLayout(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.lookup(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

		artifacts, err := s.runner.Render(r.Context(), rec.Layout, pipeline.Options{
			Formats:  []string{format},
			Detailed: detailed,
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}

func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "layout %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get layout %s", id)
	}
	return rec, nil
}
