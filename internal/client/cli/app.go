// Package cli implements the interactive prodshot client: account
// management, the photo generation flow, and the gallery, driven from a
// small REPL.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/prodshot/prodshot/internal/client/api"
	"github.com/prodshot/prodshot/internal/client/config"
	"github.com/prodshot/prodshot/internal/client/gallery"
	"github.com/prodshot/prodshot/internal/client/genai"
	"github.com/prodshot/prodshot/internal/client/metadata"
	"github.com/prodshot/prodshot/internal/client/studio"
	"github.com/prodshot/prodshot/internal/logging"

	_ "modernc.org/sqlite"
)

// apiClient is the server surface the App commands need.
type apiClient interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Me(ctx context.Context) (*api.User, error)
	SetToken(token string)
	Token() string
}

type App struct {
	config   *config.Config
	api      apiClient
	machine  *studio.Machine
	gallery  *gallery.Presenter
	meta     metadata.Repository
	db       *sql.DB
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewText(os.Stderr)

	db, err := metadata.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	meta := metadata.NewSQLiteRepository(db)
	apiClient := api.NewClient(c.ServerEndpointAddr)
	generator := genai.NewClient(c.GenAIAPIKey, c.GenAIModel)

	app := &App{
		config:  c,
		api:     apiClient,
		machine: studio.NewMachine(generator, apiClient, logger),
		gallery: gallery.NewPresenter(apiClient, c.DownloadDir, logger),
		meta:    meta,
		db:      db,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	app.restoreSession(ctx)

	return app, nil
}

// restoreSession installs a cached token from the previous run, if any,
// and verifies it against the server. A stale token is dropped silently.
func (a *App) restoreSession(ctx context.Context) {
	token, err := a.meta.Get(ctx, metadata.KeyAuthToken)
	if err != nil || len(token) == 0 {
		return
	}

	a.api.SetToken(string(token))
	user, err := a.api.Me(ctx)
	if err != nil {
		a.api.SetToken("")
		_ = a.meta.Delete(ctx, metadata.KeyAuthToken)
		return
	}
	a.userName = user.Name
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to prodshot CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName
	}
	if step := a.machine.Step(); step != studio.StepUpload {
		if s != "" {
			s += " "
		}
		s += string(step)
	}
	if s != "" {
		s = "(" + s + ")"
	}
	return s
}

func (a *App) Close() {
	a.gallery.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}
