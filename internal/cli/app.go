package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twirer/twirer/internal/config"
	"github.com/twirer/twirer/internal/digest"
	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/history"
	"github.com/twirer/twirer/internal/launcher"
	"github.com/twirer/twirer/internal/notify"
	"github.com/twirer/twirer/internal/progress"
	"github.com/twirer/twirer/internal/search"
	"github.com/twirer/twirer/internal/store"
)

// app carries what a command needs: the configuration, the record store
// and the terminal streams.
type app struct {
	cfg    *config.Configuration
	log    *zap.Logger
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	records store.Store
	hist    *historyRecorder
	notify  *notify.Handler
	// searcher overrides the GitHub client; tests set it.
	searcher digest.Searcher
}

// newApp loads the configuration named by the --config flag.
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, twerrors.MissingConfigFile(configPath)
		}
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, twerrors.WrapWithMessage(err, twerrors.Configuration, "loading configuration",
			"Run 'twirer config show' after fixing the file to check the result")
	}
	recorder.configure(cfg.StateDir, cfg.MaxHistoryEntries)
	notifier.Configure(cfg.Notify, logger)

	return &app{
		cfg:    cfg,
		log:    logger,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		hist:   recorder,
		notify: notifier,
	}, nil
}

// store opens the record store on first use.
func (a *app) store() (store.Store, error) {
	if a.records != nil {
		return a.records, nil
	}
	st, err := store.Open(a.cfg.Store.Backend, a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}
	a.records = st
	return st, nil
}

// Close releases the record store.
func (a *app) Close() error {
	if a.records == nil {
		return nil
	}
	return a.records.Close()
}

// search returns the GitHub client, asking for a token when GH_TOKEN is
// not set.
func (a *app) search() (digest.Searcher, error) {
	if a.searcher != nil {
		return a.searcher, nil
	}
	token, err := search.Token(a.in, a.out)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	client, err := search.New(search.Options{
		Token:   token,
		PerPage: a.cfg.Search.PerPage,
		BaseURL: a.cfg.Search.BaseURL,
		Logger:  a.log,
	})
	if err != nil {
		return nil, err
	}
	a.searcher = client
	return client, nil
}

// pipeline builds the digest pipeline. The GitHub client is only set up
// when withSearch is true.
func (a *app) pipeline(withSearch bool) (*digest.Pipeline, error) {
	st, err := a.store()
	if err != nil {
		return nil, err
	}

	cfg := digest.Config{
		Store:   st,
		Org:     a.cfg.Org,
		Aliases: a.cfg.Aliases(),
		Display: progress.NewDisplay(a.out, progress.Detect()),
		Logger:  a.log,
	}
	if withSearch {
		if cfg.Search, err = a.search(); err != nil {
			return nil, err
		}
	}
	return digest.New(cfg), nil
}

func (a *app) rules() digest.Rules {
	return digest.Rules{
		Ignore:    a.cfg.Ignore,
		Order:     a.cfg.Order,
		CodeWords: a.cfg.CodeKeywords,
	}
}

func (a *app) launcher() (*launcher.Launcher, error) {
	return launcher.New(launcher.Options{
		Editor:  a.cfg.Editor,
		Browser: a.cfg.Browser,
		Stdin:   a.in,
		Stdout:  a.out,
		Stderr:  a.errOut,
		Logger:  a.log,
	})
}

// noteWeek attaches the week window to this command's history entry.
func (a *app) noteWeek(ctx context.Context) {
	p, err := a.pipeline(false)
	if err != nil {
		return
	}
	if w, err := p.Window(ctx); err == nil {
		a.hist.week = w.String()
	}
}

// historyRecorder writes every finished command to the history file once
// a configuration told it where.
type historyRecorder struct {
	stateDir   string
	maxEntries int
	week       string
}

var (
	recorder = &historyRecorder{}
	// notifier raises desktop notifications for long commands and for
	// lint state changes under check --watch.
	notifier = notify.NewHandler()
)

func (h *historyRecorder) configure(stateDir string, maxEntries int) {
	h.stateDir = stateDir
	h.maxEntries = maxEntries
}

// OnCommandComplete implements lifecycle.CommandHandler.
func (h *historyRecorder) OnCommandComplete(name string, err error, duration time.Duration) {
	if h.stateDir == "" {
		return
	}
	history.NewWriter(h.stateDir, h.maxEntries).LogCommand(name, h.week, ExitCode(err), duration)
}
