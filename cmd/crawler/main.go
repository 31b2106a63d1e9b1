package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-corpus-crawler/config"
	"github.com/aluiziolira/go-corpus-crawler/crawler"
	"github.com/aluiziolira/go-corpus-crawler/fetcher"
	"github.com/aluiziolira/go-corpus-crawler/models"
)

func main() {
	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.MinPages
	if value, ok, err := config.EnvInt("CRAWLER_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CRAWLER_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	limitDefault := defaultCfg.CollectLimit
	if value, ok, err := config.EnvInt("CRAWLER_LIMIT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CRAWLER_LIMIT: %v\n", err)
		os.Exit(1)
	} else if ok {
		limitDefault = value
	}
	outDirDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("CRAWLER_OUT_DIR"); ok {
		outDirDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("CRAWLER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Base URL of the archive site")
	seedPath := flag.String("seed-path", defaultCfg.SeedPath, "Path of the author-listing seed page")
	minPages := flag.Int("pages", pagesDefault, "Minimum number of documents to download")
	collectLimit := flag.Int("limit", limitDefault, "Soft cap on collected text-page URLs")
	timeoutSec := flag.Int("timeout", int(defaultCfg.Timeout/time.Second), "Fetch timeout (seconds)")
	minDelayMs := flag.Int("min-delay", int(defaultCfg.MinDelay/time.Millisecond), "Minimum politeness delay (milliseconds)")
	maxDelayMs := flag.Int("max-delay", int(defaultCfg.MaxDelay/time.Millisecond), "Maximum politeness delay (milliseconds)")
	maxBytes := flag.Int("max-bytes", defaultCfg.MaxBodyBytes, "Maximum accepted body size (bytes)")
	minChars := flag.Int("min-chars", defaultCfg.MinDocChars, "Minimum accepted document length (characters)")
	outputDir := flag.String("out-dir", outDirDefault, "Directory for downloaded documents")
	urlsFile := flag.String("urls-file", defaultCfg.URLsFile, "Path of the collected URL list")
	indexFile := flag.String("index-file", defaultCfg.IndexFile, "Path of the sequence-number index")
	respectRobots := flag.Bool("respect-robots", false, "Respect robots.txt directives")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.SeedPath = *seedPath
	cfg.MinPages = *minPages
	cfg.CollectLimit = *collectLimit
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.MinDelay = time.Duration(*minDelayMs) * time.Millisecond
	cfg.MaxDelay = time.Duration(*maxDelayMs) * time.Millisecond
	cfg.MaxBodyBytes = *maxBytes
	cfg.MinDocChars = *minChars
	cfg.OutputDir = *outputDir
	cfg.URLsFile = *urlsFile
	cfg.IndexFile = *indexFile
	cfg.RespectRobotsTxt = *respectRobots
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting crawl",
		slog.String("seed", cfg.SeedURL()),
		slog.Int("pages", cfg.MinPages),
		slog.Int("limit", cfg.CollectLimit),
	)

	governor := fetcher.NewGovernor(cfg.MinDelay, cfg.MaxDelay)
	f, err := fetcher.New(cfg, governor)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}

	c, err := crawler.New(cfg, f)
	if err != nil {
		slog.Error("initialising crawler", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current fetch")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && c.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(c.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, err := c.Run(ctx)
	if err != nil {
		slog.Error("crawl failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, cfg)
}

func printSummary(result *models.CrawlResult, cfg *config.Config) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Crawl complete")

	fmt.Printf("  Authors found:     %d\n", result.AuthorsFound)
	fmt.Printf("  Authors processed: %d\n", result.AuthorsProcessed)
	fmt.Printf("  URLs collected:    %d\n", result.URLsCollected)
	fmt.Printf("  Documents saved:   %d / %d required\n", result.Saved, result.Required)
	if len(result.SkipsByReason) > 0 {
		fmt.Printf("  Skips:             %v\n", result.SkipsByReason)
	}
	fmt.Printf("  Duration:          %v\n", result.EndTime.Sub(result.StartTime).Round(time.Second))
	fmt.Printf("  Documents:         %s\n", cfg.OutputDir)
	fmt.Printf("  Index:             %s\n", cfg.IndexFile)
	if short := result.Shortfall(); short > 0 {
		fmt.Printf("  Shortfall:         %d pages; raise -limit or re-run later\n", short)
	}
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
