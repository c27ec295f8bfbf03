package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/schoolrecords/internal/client/api"
	"github.com/dmitrijs2005/schoolrecords/internal/client/config"
	"github.com/dmitrijs2005/schoolrecords/internal/client/localdb"
	"github.com/dmitrijs2005/schoolrecords/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/schoolrecords/internal/client/session"
	"github.com/dmitrijs2005/schoolrecords/internal/client/sink"
	"github.com/dmitrijs2005/schoolrecords/internal/client/stores"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
)

type App struct {
	session  *session.Store
	users    *stores.UserStore
	students *stores.StudentStore
	files    *stores.FileStore
	logger   logging.Logger

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
}

// NewApp opens local storage, builds the API client and restores the
// session. Call Close when done.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := localdb.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	app, err := newAppWithDB(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newAppWithDB(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	client, err := api.New(api.Options{BaseURL: c.BaseURL, Timeout: c.RequestTimeout})
	if err != nil {
		return nil, err
	}
	client.UseRequest(api.RequestID())
	client.UseResponse(api.LogExchanges(logger))

	sess, err := session.New(ctx, client, metadata.NewSQLiteRepository(db), logger)
	if err != nil {
		return nil, err
	}

	target, err := newSink(ctx, c)
	if err != nil {
		return nil, err
	}

	a := newApp(sess, client, target, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newSink(ctx context.Context, c *config.Config) (sink.Sink, error) {
	if c.DownloadSink == config.SinkS3 {
		return sink.NewS3Sink(ctx, sink.S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
	}
	return sink.NewDirSink(c.DownloadDir), nil
}

func newApp(sess *session.Store, client stores.Sender, target sink.Sink, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	return &App{
		session:  sess,
		users:    stores.NewUserStore(client, logger),
		students: stores.NewStudentStore(client, logger),
		files:    stores.NewFileStore(client, target, logger),
		logger:   logger,
		reader:   reader,
		out:      out,
	}
}

// Run validates any restored session and then blocks in the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the school records CLI (type 'help' for commands)")

	if err := a.session.InitializeAuth(ctx); err != nil {
		a.logger.Warn(ctx, "could not clear stale session", "error", err)
	}
	if user, ok := a.session.User(); ok {
		fmt.Fprintf(a.out, "Signed in as %s\n", user.Username)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) status() string {
	if user, ok := a.session.User(); ok {
		return user.Username
	}
	if a.session.IsLoggedIn() {
		return "signed in"
	}
	return "anonymous"
}
