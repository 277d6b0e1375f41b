package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, s.store.Categories())
	case http.MethodPost:
		s.handleCreateCategory(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var cat core.Category
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&cat); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}

	if err := s.store.AddCategory(cat); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.InfoContext(r.Context(), "Category created",
		"category_id", cat.ID, "name", cat.Name)

	writeJSON(w, r, http.StatusCreated, cat)
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/categories/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		// The reserved "running" id resolves to the synthesized
		// display category.
		cat, ok := s.store.Category(id)
		if !ok {
			writeError(w, r, http.StatusNotFound, "category not found")
			return
		}
		writeJSON(w, r, http.StatusOK, cat)

	case http.MethodPut, http.MethodPatch:
		patch, err := parseCategoryPatch(r.Body)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		cat, ok, err := s.store.UpdateCategory(id, patch)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if !ok {
			writeError(w, r, http.StatusNotFound, "category not found")
			return
		}

		slog.InfoContext(r.Context(), "Category updated", "category_id", id)
		writeJSON(w, r, http.StatusOK, cat)

	case http.MethodDelete:
		s.store.DeleteCategory(id)
		slog.InfoContext(r.Context(), "Category deleted", "category_id", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, PATCH, DELETE")
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, s.store.Projects())
	case http.MethodPost:
		var proj core.Project
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&proj); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if proj.ID == "" {
			proj.ID = uuid.NewString()
		}
		if err := s.store.AddProject(proj); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.InfoContext(r.Context(), "Project created",
			"project_id", proj.ID, "name", proj.Name)
		writeJSON(w, r, http.StatusCreated, proj)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}
