package repomanager

import (
	"context"
	"database/sql"

	"github.com/prodshot/prodshot/internal/dbx"
	"github.com/prodshot/prodshot/internal/server/repositories/images"
	"github.com/prodshot/prodshot/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Images(db dbx.DBTX) images.Repository
}
