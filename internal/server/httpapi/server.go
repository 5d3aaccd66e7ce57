// Package httpapi exposes the REST surface: registration, login, and the
// authenticated per-user image gallery.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/logging"
	"github.com/prodshot/prodshot/internal/server/models"
)

// UserService is the authentication surface the handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	GetByID(ctx context.Context, id int64) (*models.PublicUser, error)
}

// ImageService is the gallery surface the handlers need.
type ImageService interface {
	Save(ctx context.Context, ownerID int64, payloads []string) (int, error)
	List(ctx context.Context, ownerID int64) ([]*models.ImageRecord, error)
	Fetch(ctx context.Context, ownerID int64, filename string) ([]byte, error)
	Delete(ctx context.Context, ownerID int64, id int64) error
}

// Server wires the services into an http.Server.
type Server struct {
	addr      string
	jwtSecret []byte
	logger    logging.Logger
	users     UserService
	images    ImageService
}

func NewServer(addr string, jwtSecret []byte, logger logging.Logger, users UserService, images ImageService) *Server {
	return &Server{addr: addr, jwtSecret: jwtSecret, logger: logger, users: users, images: images}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// writeJSON encodes v with the given status. Encoding failures are logged
// but cannot be reported to the client anymore.
func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "response encoding failed", "error", err.Error())
	}
}

// writeError maps the error taxonomy onto HTTP statuses with an opaque
// message; internal details never reach the client.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg = http.StatusConflict, "email already registered"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "not found"
	default:
		status, msg = http.StatusInternalServerError, "internal error"
		s.logger.Error(ctx, "request failed", "error", err.Error())
	}

	s.writeJSON(ctx, w, status, map[string]string{"error": msg})
}
