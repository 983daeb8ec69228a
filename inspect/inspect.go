// Package inspect serves read-only view of nanodi container bindings over HTTP.
//
//	mux.Mount("/debug/di", inspect.Handler(container))
//
// Routes:
//
//	GET /bindings       - all bindings sorted by identifier
//	GET /bindings/{id}  - single binding, 404 if id is not bound
//	GET /healthz        - 200 if container validates, 409 with the error otherwise
package inspect

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andriiyaremenko/nanodi"
)

// Source is implemented by nanodi.Container.
type Source interface {
	Bindings() []nanodi.BindingInfo
	Validate() error
}

type envelope map[string]any

func Handler(source Source) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/bindings", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, source.Bindings())
	})

	r.Get("/bindings/{id}", func(w http.ResponseWriter, req *http.Request) {
		// chi matches on RawPath when it is set, so only then is the param still escaped.
		id := chi.URLParam(req, "id")
		if req.URL.RawPath != "" {
			unescaped, err := url.PathUnescape(id)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, envelope{"error": err.Error()})
				return
			}

			id = unescaped
		}

		for _, info := range source.Bindings() {
			if info.Identifier == id {
				writeJSON(w, http.StatusOK, info)
				return
			}
		}

		writeJSON(w, http.StatusNotFound, envelope{"error": "no binding found for identifier: " + id})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := source.Validate(); err != nil {
			writeJSON(w, http.StatusConflict, envelope{"status": "invalid", "error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, envelope{"status": "ok"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
