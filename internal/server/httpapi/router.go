package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router builds the route table. Everything under /api/images plus
// /api/auth/me requires a valid bearer token.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/api/auth/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/api/images", s.handleListImages).Methods(http.MethodGet)
	authed.HandleFunc("/api/images", s.handleSaveImages).Methods(http.MethodPost)
	authed.HandleFunc("/api/images/file/{name}", s.handleImageFile).Methods(http.MethodGet)
	authed.HandleFunc("/api/images/{id:[0-9]+}", s.handleDeleteImage).Methods(http.MethodDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
