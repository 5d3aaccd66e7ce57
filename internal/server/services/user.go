// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, and
// issuing session JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/server/auth"
	"github.com/prodshot/prodshot/internal/server/config"
	"github.com/prodshot/prodshot/internal/server/models"
	"github.com/prodshot/prodshot/internal/server/repositories/repomanager"
)

// bcryptCost matches the work factor the rest of the stack expects.
const bcryptCost = 10

// UserService provides authentication-related operations:
//   - Register: create users with a bcrypt-hashed password
//   - Login: verify credentials and mint a session token
//   - GetByID: resolve the authenticated user's public fields
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user. An already-registered email yields
// common.ErrorAlreadyExists; empty fields yield common.ErrorValidation.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	repo := s.repomanager.Users(s.db)

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return u, nil
}

// Login verifies the credentials and, on success, returns a signed session
// token plus the public user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Name, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.LoginResult{Token: token, User: user.Public()}, nil
}

// GetByID returns the public fields for the given user id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	pub := user.Public()
	return &pub, nil
}
