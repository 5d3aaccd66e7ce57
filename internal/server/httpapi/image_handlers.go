package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/prodshot/prodshot/internal/common"
)

type saveImagesRequest struct {
	Images []string `json:"images"`
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthorized)
		return
	}

	records, err := s.images.List(r.Context(), userID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, records)
}

// handleSaveImages accepts a batch of base64 payloads. A batch where every
// payload was skipped still gets a 201; only an empty batch is a 400.
func (s *Server) handleSaveImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthorized)
		return
	}

	var req saveImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, common.ErrorValidation)
		return
	}

	if _, err := s.images.Save(r.Context(), userID, req.Images); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusCreated, map[string]bool{"ok": true})
}

func (s *Server) handleImageFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthorized)
		return
	}

	name := mux.Vars(r)["name"]

	data, err := s.images.Fetch(r.Context(), userID, name)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error(r.Context(), "image write failed", "error", err.Error())
	}
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrorUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(r.Context(), w, common.ErrorValidation)
		return
	}

	if err := s.images.Delete(r.Context(), userID, id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]bool{"ok": true})
}
