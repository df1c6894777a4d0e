package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/D4v4N/qrtool/api"
	"github.com/D4v4N/qrtool/config"
	"github.com/D4v4N/qrtool/qrgen"
	"github.com/D4v4N/qrtool/store"
)

var version = "v1.0.0"

// generateFlags carries the generate command's flag values. Unset string
// flags fall back to config defaults; unset numeric flags use -1 as the
// "not given" sentinel so that 0 stays expressible.
type generateFlags struct {
	configPath string
	out        string
	format     string
	level      string
	svgMethod  string
	boxSize    int
	border     int
	logo       string
	terminal   bool
	quiet      bool
}

func main() {
	root := &cobra.Command{
		Use:   "qrtool",
		Short: "Generate QR codes as PNG or SVG",
	}

	// --- generate command ----------------------------------------------------
	var gf generateFlags
	generateCmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate a QR code and write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], gf)
		},
	}
	generateCmd.Flags().StringVarP(&gf.configPath, "config", "c", "config.yaml", "Path to config file")
	generateCmd.Flags().StringVarP(&gf.out, "output", "o", "", "Output path (defaults to qr_output.<format> in the output dir)")
	generateCmd.Flags().StringVar(&gf.format, "format", "", "Output format: png or svg")
	generateCmd.Flags().StringVar(&gf.level, "ec-level", "", "Error-correction level: L, M, Q or H")
	generateCmd.Flags().StringVar(&gf.svgMethod, "svg-method", "", "SVG rendering method: path, basic or fragment")
	generateCmd.Flags().IntVar(&gf.boxSize, "box-size", -1, "Pixels per module")
	generateCmd.Flags().IntVar(&gf.border, "border", -1, "Quiet-zone width in modules")
	generateCmd.Flags().StringVar(&gf.logo, "logo", "", "Image composited over the symbol center (PNG output, level H)")
	generateCmd.Flags().BoolVar(&gf.terminal, "terminal", false, "Print the QR as text-art instead of writing a file")
	generateCmd.Flags().BoolVarP(&gf.quiet, "quiet", "q", false, "Suppress console output")
	root.AddCommand(generateCmd)

	// --- serve command -------------------------------------------------------
	var serveConfigPath string
	var servePort int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveConfigPath, servePort)
		},
	}
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "config.yaml", "Path to config file")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (overrides config)")
	root.AddCommand(serveCmd)

	// --- history command -----------------------------------------------------
	var historyConfigPath, historySearch string
	var historyLimit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(historyConfigPath, historySearch, historyLimit)
		},
	}
	historyCmd.Flags().StringVarP(&historyConfigPath, "config", "c", "config.yaml", "Path to config file")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "Only show payloads containing this text")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum records to show")
	root.AddCommand(historyCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrtool %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger builds the process logger from the configured level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
	return log
}

// buildRequest merges the generate flags with the configured defaults.
func buildRequest(payload string, gf generateFlags, d config.Defaults) (qrgen.Request, error) {
	level, err := qrgen.ParseLevel(firstNonEmpty(gf.level, d.Level))
	if err != nil {
		return qrgen.Request{}, err
	}
	format, err := qrgen.ParseFormat(firstNonEmpty(gf.format, d.Format))
	if err != nil {
		return qrgen.Request{}, err
	}
	method, err := qrgen.ParseSVGMethod(firstNonEmpty(gf.svgMethod, d.SVGMethod))
	if err != nil {
		return qrgen.Request{}, err
	}

	req := qrgen.Request{
		Payload:   payload,
		Level:     level,
		Format:    format,
		SVGMethod: method,
		BoxSize:   d.BoxSize,
		Border:    d.Border,
		LogoPath:  gf.logo,
	}
	if gf.boxSize >= 0 {
		req.BoxSize = gf.boxSize
	}
	if gf.border >= 0 {
		req.Border = gf.border
	}
	return req, nil
}

// runGenerate is the single-shot CLI path: one request, one artifact.
func runGenerate(payload string, gf generateFlags) error {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req, err := buildRequest(payload, gf, cfg.Defaults)
	if err != nil {
		return err
	}

	if gf.terminal {
		return qrgen.WriteTerminal(os.Stdout, req.Payload, req.Level)
	}

	artifact, err := qrgen.Generate(req)
	if err != nil {
		return err
	}

	out := gf.out
	if out == "" {
		out = filepath.Join(cfg.OutputDir, "qr_output."+string(req.Format))
	} else {
		out = ensureOutExtension(out, req.Format)
	}
	if err := artifact.Save(out); err != nil {
		return err
	}

	if cfg.History.Enabled {
		if err := recordGeneration(cfg, req, artifact, out); err != nil {
			// History is a convenience; a failed record must not fail
			// the generation that already succeeded.
			slog.Warn("record generation", "error", err)
		}
	}

	if !gf.quiet {
		fmt.Printf("Saved: %s (%dx%d px, %d modules)\n", out, artifact.Side, artifact.Side, artifact.Modules)
	}
	return nil
}

// ensureOutExtension swaps the extension to match the chosen format, the
// same way the web surface names its files.
func ensureOutExtension(path string, format qrgen.Format) string {
	want := "." + string(format)
	ext := filepath.Ext(path)
	if ext == want {
		return path
	}
	if ext == "" {
		return path + want
	}
	return path[:len(path)-len(ext)] + want
}

func recordGeneration(cfg *config.Config, req qrgen.Request, artifact *qrgen.Artifact, out string) error {
	if err := cfg.EnsureDataDir(); err != nil {
		return err
	}
	hs, err := store.NewHistoryStore(cfg.HistoryDBPath())
	if err != nil {
		return err
	}
	defer hs.Close()

	rec := store.Generation{
		Payload:    req.Payload,
		Level:      string(req.Level),
		Format:     string(req.Format),
		BoxSize:    req.BoxSize,
		Border:     req.Border,
		Side:       artifact.Side,
		OutputPath: out,
	}
	if req.Format == qrgen.FormatSVG {
		rec.SVGMethod = string(req.SVGMethod)
	}
	if err := hs.Add(&rec); err != nil {
		return err
	}
	return hs.Prune(cfg.History.Keep)
}

// runServe is the web UI entrypoint that wires all components together.
func runServe(configPath string, portOverride int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if portOverride != 0 {
		cfg.Port = portOverride
	}

	log := setupLogger(cfg.LogLevel)
	log.Info("starting qrtool", "version", version, "port", cfg.Port, "output_dir", cfg.OutputDir)

	var hs *store.HistoryStore
	if cfg.History.Enabled {
		if err := cfg.EnsureDataDir(); err != nil {
			return fmt.Errorf("ensure data dir: %w", err)
		}
		hs, err = store.NewHistoryStore(cfg.HistoryDBPath())
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer hs.Close()
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Store:     hs,
			Defaults:  cfg.Defaults,
			OutputDir: cfg.OutputDir,
			Log:       log,
			Version:   version,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("web UI is running", "url", fmt.Sprintf("http://localhost:%d/", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

// runHistory prints recent generations from the history store.
func runHistory(configPath, search string, limit int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in config")
	}

	hs, err := store.NewHistoryStore(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hs.Close()

	var gens []store.Generation
	if search != "" {
		gens, err = hs.Search(search, limit)
	} else {
		gens, err = hs.Recent(limit)
	}
	if err != nil {
		return err
	}

	if len(gens) == 0 {
		fmt.Println("No generations recorded yet.")
		return nil
	}
	for _, g := range gens {
		when := time.Unix(g.CreatedAt, 0).Format("2006-01-02 15:04:05")
		fmt.Printf("%s  %-4s %-3s  %s -> %s\n", when, g.Format, g.Level, g.Payload, g.OutputPath)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
