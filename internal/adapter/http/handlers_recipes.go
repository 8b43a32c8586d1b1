package adapthttp

import (
	"fmt"
	"io"
	"net/http"

	recipefile "pourover/internal/adapter/yaml"
	"pourover/internal/domain"
)

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.recipes.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		s.requireAuth(s.createRecipe)(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var in domain.RecipeInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	created, err := s.recipes.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/recipes/%d", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		recipe, err := s.recipes.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recipe)
	case http.MethodPut, http.MethodPatch:
		s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			var in domain.RecipeInput
			if err := parseJSON(r, &in); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			updated, err := s.recipes.Update(r.Context(), id, in)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, updated)
		})(w, r)
	case http.MethodDelete:
		s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			if err := s.recipes.Delete(r.Context(), id); err != nil {
				writeServiceError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleRecipeExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	recipe, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"recipe-%d.yaml\"", recipe.ID))
	if err := recipefile.EncodeRecipe(w, *recipe); err != nil {
		writeServiceError(w, r, err)
	}
}

func (s *Server) handleRecipeImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ins, err := recipefile.ParseRecipes(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := s.recipes.Import(r.Context(), ins)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"items": created})
	})(w, r)
}
