// internal/api/candidature_handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	stderrors "candidature-api/internal/common/errors"
)

// handleCreateCandidature accepts a raw submission in any recognized
// shape and responds 201 with the persisted summary.
func (s *Server) handleCreateCandidature(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.decodePayload(w, r)
	if !ok {
		return
	}

	saved, err := s.candidature.Create(r.Context(), payload)
	if err != nil {
		s.errHandler.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    saved.Summary(),
		"message": "Candidature soumise avec succès",
	})
}

// decodePayload reads the request body as a JSON object, translating
// decode failures into the matching client error.
func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]interface{}{
				"success": false,
				"message": "Payload trop volumineux",
			})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "JSON invalide",
		})
		return nil, false
	}
	if payload == nil {
		s.errHandler.WriteError(w, stderrors.NewFormatNotRecognizedError("empty payload"))
		return nil, false
	}
	return payload, true
}
