// Package main provides the studyplan CLI: it extracts the study-plan page
// into its data script, inlines the data back into the page, and serves a
// local preview.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/studyplan/internal/api"
	"github.com/dgallion1/studyplan/internal/config"
	"github.com/dgallion1/studyplan/internal/pipeline"
	"github.com/dgallion1/studyplan/internal/plan"
	"github.com/dgallion1/studyplan/internal/report"
	"github.com/spf13/cobra"
)

var (
	rootDir    string
	configFile string
	addr       string
	inline     bool
	asHTML     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "studyplan",
		Short:         "Extract the study plan page into window.data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Site directory (default: $STUDYPLAN_ROOT or .)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML overlay with extra labels and key order")

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Write data.global.js from index.html",
		Args:  cobra.NoArgs,
		RunE:  runExtract,
	}
	extractCmd.Flags().BoolVar(&inline, "inline", false, "Also inline the data into the page")

	inlineCmd := &cobra.Command{
		Use:   "inline",
		Short: "Write data.min.json and inline it into index.html",
		Args:  cobra.NoArgs,
		RunE:  runInline,
	}

	outlineCmd := &cobra.Command{
		Use:   "outline",
		Short: "Print the grouped plan as Markdown",
		Args:  cobra.NoArgs,
		RunE:  runOutline,
	}
	outlineCmd.Flags().BoolVar(&asHTML, "html", false, "Render the outline to HTML")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with a live JSON view of the plan",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $STUDYPLAN_ADDR or :8090)")

	rootCmd.AddCommand(extractCmd, inlineCmd, outlineCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, err
	}
	if configFile != "" {
		if err := cfg.ApplyOverlay(configFile); err != nil {
			return cfg, nil, err
		}
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lvl, _ := cfg.Level()
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	return cfg, log, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	p := pipeline.New(cfg, log)

	sum, err := p.Run()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d items to %s\n", sum.Items, sum.Output)

	if !inline {
		return nil
	}
	res, err := p.Inline()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Inlined %d items into %s\n", res.Items, cfg.InputPath())
	return nil
}

func runInline(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	res, err := pipeline.New(cfg, log).Inline()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Inlined %d items into %s\n", res.Items, cfg.InputPath())
	return nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ex, err := pipeline.New(cfg, log).Extract()
	if err != nil {
		return err
	}

	groups := plan.Group(ex.Items)
	out := report.Markdown("Study plan", groups)
	if asHTML {
		if out, err = report.HTML("Study plan", groups); err != nil {
			return err
		}
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	srv := api.NewServer(pipeline.New(cfg, log), cfg.Root, log)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting studyplan preview", "addr", cfg.Addr, "root", cfg.Root)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
