// internal/api/gdpr_handler.go
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleExportData returns every record stored under the given email,
// wrapped with export metadata.
func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Email est requis",
		})
		return
	}

	export, err := s.gdpr.ExportData(r.Context(), email)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    export,
	})
}

// handleUpdateData applies a partial canonical-flat fragment to a stored
// record.
func (s *Server) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	fragment, ok := s.decodePayload(w, r)
	if !ok {
		return
	}

	updated, err := s.gdpr.UpdateData(r.Context(), id, fragment)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    updated,
	})
}

// handleDeleteData anonymizes a record by default; ?anonymize=false
// removes it entirely.
func (s *Server) handleDeleteData(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("anonymize") == "false" {
		if err := s.gdpr.DeleteData(r.Context(), id); err != nil {
			s.errHandler.WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Données supprimées avec succès",
		})
		return
	}

	anonymized, err := s.gdpr.AnonymizeData(r.Context(), id)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Données anonymisées avec succès",
		"data":    anonymized,
	})
}

func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "ID est requis",
		})
		return 0, false
	}
	return id, true
}
