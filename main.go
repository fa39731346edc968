package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"recipeviewer/config"
	"recipeviewer/handlers"
	"recipeviewer/loader"
	"recipeviewer/render"
	"recipeviewer/viewer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "recipeviewer",
	Short: "Browse a recipe collection published as a single JSON file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the index and recipe pages over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var searchCategory string

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "List recipes matching a query, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

var (
	showSlug string
	showID   int64
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one recipe by --slug or --id",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	searchCmd.Flags().StringVar(&searchCategory, "category", "", "only list recipes in this category")
	showCmd.Flags().StringVar(&showSlug, "slug", "", "recipe slug")
	showCmd.Flags().Int64Var(&showID, "id", 0, "recipe id (used when --slug is not given)")

	rootCmd.AddCommand(serveCmd, searchCmd, showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// newPage builds the page bootstrap around the configured data source. The
// returned closer releases the source's client.
func newPage(ctx context.Context, reg prometheus.Registerer) (viewer.Page, func() error, error) {
	source, closer, err := loader.NewSource(ctx, cfg.Data)
	if err != nil {
		return viewer.Page{}, closer, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return viewer.Page{}, closer, err
	}
	var opts []loader.Option
	if reg != nil {
		opts = append(opts, loader.WithMetrics(reg))
	}
	return viewer.Page{
		Loader: loader.New(source, logger.Named("loader"), opts...),
		Time:   viewer.TimeFormat{Layout: cfg.Display.TimeLayout, Location: loc},
	}, closer, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	page, closer, err := newPage(ctx, reg)
	defer closer()
	if err != nil {
		return err
	}

	deps := &handlers.Deps{
		Page:        page,
		Renderer:    render.New(render.DefaultPaths),
		Logger:      logger.Named("http"),
		Metrics:     handlers.NewMetrics(reg),
		ThumbHeight: cfg.Thumbnails.Height,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.NewRouter(deps, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", cfg.Server.Addr), zap.String("source", cfg.Data.Source))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	page, closer, err := newPage(cmd.Context(), nil)
	defer closer()
	if err != nil {
		return err
	}

	vs := page.InitPage(cmd.Context(), render.IndexDocument, viewer.Values{})
	if len(args) == 1 {
		vs.SetQuery(args[0])
	}
	if searchCategory != "" {
		vs.SetCategory(searchCategory)
	}
	return printIndex(cmd.OutOrStdout(), vs.Index.Model())
}

func runShow(cmd *cobra.Command, args []string) error {
	params := viewer.Values{}
	switch {
	case showSlug != "":
		params["slug"] = []string{showSlug}
	case cmd.Flags().Changed("id"):
		params["id"] = []string{strconv.FormatInt(showID, 10)}
	default:
		return errors.New("one of --slug or --id is required")
	}

	page, closer, err := newPage(cmd.Context(), nil)
	defer closer()
	if err != nil {
		return err
	}

	vs := page.InitPage(cmd.Context(), render.DetailDocument, params)
	return printDetail(cmd.OutOrStdout(), vs)
}

func printIndex(w io.Writer, m viewer.IndexModel) error {
	if m.Empty {
		_, err := fmt.Fprintln(w, "No recipes match your search.")
		return err
	}
	for _, c := range m.Cards {
		if _, err := fmt.Fprintf(w, "%s\n  %s\n  %s\n", c.Title, c.Meta, c.Target.Query()); err != nil {
			return err
		}
	}
	return nil
}

func printDetail(w io.Writer, vs viewer.ViewState) error {
	if vs.Detail == nil {
		_, err := fmt.Fprintln(w, vs.Message)
		return err
	}
	d := vs.Detail
	fmt.Fprintf(w, "%s\n%s\n", d.Title, d.Meta)
	if len(d.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(d.Tags, ", "))
	}
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	fmt.Fprintf(w, "\nPrep: %s  Cook: %s  Difficulty: %s\n", d.PrepTime, d.CookTime, d.Difficulty)
	fmt.Fprintln(w, "\nIngredients")
	for _, ing := range d.Ingredients {
		if ing.Bold() {
			fmt.Fprintf(w, "  - %s %s\n", ing.Qty, ing.Item)
		} else {
			fmt.Fprintf(w, "  - %s\n", ing.Item)
		}
	}
	fmt.Fprintln(w, "\nMethod")
	for i, s := range d.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
	if d.HasNotes() {
		fmt.Fprintf(w, "\nNotes\n%s\n", d.Notes)
	}
	return nil
}
