package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/carescreen/internal/app"
	"github.com/abhisek/carescreen/internal/config"
	"github.com/abhisek/carescreen/internal/llm"
	"github.com/abhisek/carescreen/internal/logging"
	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/riskmodel"
	"github.com/abhisek/carescreen/internal/store"
	"github.com/abhisek/carescreen/internal/suggest"
	"github.com/abhisek/carescreen/internal/web"
	"github.com/abhisek/carescreen/internal/wizard"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the questionnaire in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetString("page")
		return runTUI(cmd, page)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func init() {
	tuiCmd.Flags().String("page", "", "Open on this page (Home, Assessment, Results, Feedback)")
	serveCmd.Flags().String("addr", "", "Listen address (overrides CARESCREEN_ADDR)")
}

// deps holds everything both surfaces share. Close releases the store and
// the log file.
type deps struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	catalog   *questionnaire.Catalog
	model     *riskmodel.Model
	suggester *suggest.Service
	closers   []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
}

// buildDeps loads configuration, trains the placeholder model and wires the
// suggestion service. Logs go to logOut; nil means a file next to the
// database, for the terminal UI which owns stdout and stderr.
func buildDeps(cmd *cobra.Command, logOut io.Writer) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	d := &deps{cfg: cfg, catalog: questionnaire.Default()}
	if logOut == nil {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "carescreen.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		d.closers = append(d.closers, f)
		logOut = f
	}
	d.logger = logging.New(cfg.LogLevel, cfg.LogFormat, logOut)

	if err := riskmodel.Configure(cfg.ModelRows, cfg.ModelSeed); err != nil {
		d.Close()
		return nil, fmt.Errorf("configure model: %w", err)
	}
	d.model = riskmodel.Default()

	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, st)

	var provider llm.Provider
	if llmCfg, ok := llm.LoadConfig(); ok {
		provider, err = llm.New(cmd.Context(), llmCfg, st.EventRepo(), d.logger)
		if err != nil {
			d.logger.Warn("LLM provider unavailable, suggestions will be static", "error", err)
		}
	}
	d.suggester = suggest.NewService(provider, d.catalog, suggest.Config{Timeout: cfg.SuggestTimeout}, d.logger)
	return d, nil
}

// runTUI launches the terminal questionnaire, optionally on page.
func runTUI(cmd *cobra.Command, page string) error {
	sess := wizard.New()
	if page != "" {
		p, err := wizard.ParsePage(page)
		if err != nil {
			return err
		}
		sess.Goto(p)
	}

	d, err := buildDeps(cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()

	d.logger.Info("starting terminal ui", "page", sess.Page().String(), "suggestions_llm", d.suggester.Personalized())
	return app.Run(cmd.Context(), sess, app.Options{
		Catalog:   d.catalog,
		Model:     d.model,
		Suggester: d.suggester,
	})
}

// runServer serves the browser questionnaire until interrupted.
func runServer(cmd *cobra.Command) error {
	d, err := buildDeps(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer d.Close()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		d.cfg.Addr = addr
	}

	srv, err := web.New(d.cfg,
		web.WithLogger(d.logger),
		web.WithCatalog(d.catalog),
		web.WithModel(d.model),
		web.WithSuggester(d.suggester),
		web.WithVersion(version),
	)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	return srv.Run(cmd.Context())
}
