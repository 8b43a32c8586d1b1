package adapthttp

import (
	"net/http"

	"pourover/internal/app"
)

func (s *Server) handleRecipeTarget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	elapsed, err := floatQuery(r, "t", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	scale, err := app.ParseScale(r.URL.Query().Get("scale"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.brew.Target(r.Context(), id, elapsed, scale)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRecipeScaled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	factor, err := app.ParseScale(r.URL.Query().Get("factor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	recipe, err := s.brew.Scaled(r.Context(), id, factor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleRecipeChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	elapsed, err := floatQuery(r, "t", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	step, err := floatQuery(r, "step", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	scale, err := app.ParseScale(q.Get("scale"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	chart, err := s.brew.Chart(r.Context(), id, elapsed, scale, step)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
