package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/fsbackup/internal/client/client"
	"github.com/dmitrijs2005/fsbackup/internal/client/config"
	"github.com/dmitrijs2005/fsbackup/internal/client/repositories/history"
	"github.com/dmitrijs2005/fsbackup/internal/client/session"
	"github.com/dmitrijs2005/fsbackup/internal/client/storage"
	"github.com/dmitrijs2005/fsbackup/internal/logging"
	"github.com/dmitrijs2005/fsbackup/internal/netx"

	_ "modernc.org/sqlite"
)

// console is the terminal the App talks to.
type console struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

type App struct {
	config      *config.Config
	ctl         *session.Controller
	api         client.Client
	db          *sql.DB
	history     history.Repository
	logger      logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewApp wires the application on top of the process' stdin/stdout. Logs go
// to stderr.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, console{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	})
}

func newApp(ctx context.Context, c *config.Config, con console) (*App, error) {
	logger := logging.NewTextLogger(con.errOut, c.LogLevel)

	httpClient, err := netx.NewHTTPClient(netx.Options{Timeout: c.RequestTimeout, Proxy: c.Proxy})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	api := client.NewHTTPClient(c.ServiceURL, httpClient, logger)

	var saver storage.Saver = storage.NewDirSaver(c.DownloadDir)
	if c.S3.Enabled() {
		s3c, err := storage.NewS3Client(ctx, c.S3)
		if err != nil {
			return nil, err
		}
		saver = storage.NewMirrorSaver(logger, saver, storage.NewS3Saver(s3c, c.S3.Bucket, c.S3.Prefix))
	}

	var db *sql.DB
	var hist history.Repository
	if c.HistoryDSN != "" {
		db, err = client.InitDatabase(ctx, c.HistoryDSN)
		if err != nil {
			logger.Error(ctx, "error initializing history database", "dsn", c.HistoryDSN, "error", err)
			return nil, err
		}
		hist = history.NewSQLiteRepository(db, history.DefaultKeep)
	}

	out := &lockedWriter{w: con.out}
	ctl := session.New(session.Deps{
		Client:   api,
		Saver:    saver,
		Notifier: consoleNotifier{w: out},
		History:  hist,
		Logger:   logger,
	})

	return &App{
		config:      c,
		ctl:         ctl,
		api:         api,
		db:          db,
		history:     hist,
		logger:      logger,
		reader:      bufio.NewReader(con.in),
		out:         out,
		interactive: con.interactive,
	}, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	if a.interactive {
		fmt.Fprintln(a.out, "Firestore backup CLI (type 'help' for commands)")
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out, a.interactive)
}

// Close cancels in-flight calls and releases the client and the database.
func (a *App) Close(ctx context.Context) {
	var errs []error
	if err := a.ctl.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.api.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn(ctx, "shutdown", "error", err)
	}
}

func (a *App) getStatus() string {
	s := a.ctl.Snapshot()
	if s.CredentialName == "" {
		return "(no key)"
	}

	phase := s.Phase.String()
	if s.Phase == session.PhaseReady {
		phase = fmt.Sprintf("%d/%d selected", s.Selection.SelectedCount(), s.Selection.Len())
	}
	return fmt.Sprintf("(%s %s)", s.CredentialName, phase)
}
