package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/server/models"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestCreate_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ana", "ana@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := NewPostgresRepository(db)
	u, err := repo.Create(context.Background(), &models.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID != 7 {
		t.Fatalf("want id 7, got %d", u.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPostgresRepository(db)
	_, err := repo.Create(context.Background(), &models.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, email, password_hash FROM users").
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresRepository(db)
	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).
		AddRow(int64(3), "Bob", "bob@x.com", "h")
	mock.ExpectQuery("SELECT id, name, email, password_hash FROM users").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	u, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if u.Email != "bob@x.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
}
