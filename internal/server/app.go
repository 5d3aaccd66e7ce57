// Package server initializes and runs the application server: database,
// migrations, blob storage backend, services, and the HTTP API, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prodshot/prodshot/internal/logging"
	"github.com/prodshot/prodshot/internal/server/config"
	"github.com/prodshot/prodshot/internal/server/httpapi"
	"github.com/prodshot/prodshot/internal/server/repositories/repomanager"
	"github.com/prodshot/prodshot/internal/server/services"
	"github.com/prodshot/prodshot/internal/server/storage"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	imageService *services.ImageService
}

// newBlobStore selects the blob backend from config.
func newBlobStore(ctx context.Context, c *config.Config) (storage.BlobStore, error) {
	switch c.StorageBackend {
	case config.StorageBackendS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case config.StorageBackendDisk:
		return storage.NewDiskStore(c.ImageDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	is := services.NewImageService(db, rm, blobs, logger)

	return &App{config: c, logger: logger, db: db, userService: us, imageService: is}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, []byte(app.config.SecretKey), app.logger, app.userService, app.imageService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
