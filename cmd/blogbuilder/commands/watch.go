package commands

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// watchDebounce coalesces filesystem event bursts into a single rebuild.
const watchDebounce = 2 * time.Second

// WatchCmd implements the 'watch' command: a long-running loop that rebuilds
// the site when the local source tree changes or on a fixed interval.
type WatchCmd struct {
	Repo          string        `short:"r" help:"Git repository URL holding the content tree" xor:"src"`
	Source        string        `short:"s" help:"Local content tree to watch" xor:"src"`
	Output        string        `short:"o" help:"Output directory for the generated site"`
	Interval      time.Duration `help:"Rebuild on a fixed interval; required for repository sources"`
	Workers       int           `help:"Parallel render workers; 0 uses all CPUs"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address, e.g. :9090"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	w.apply(cfg)
	if err := validateSourceConfig(cfg); err != nil {
		return err
	}
	// A repository source has no local tree to watch, so change detection
	// degrades to periodic re-clones.
	if cfg.Source.Repository != "" && w.Interval <= 0 {
		return blderrors.ValidationFailed("interval",
			"--interval is required when watching a repository source")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.Recorder(metrics.NoopRecorder{})
	if w.MetricsListen != "" {
		registry := prometheus.NewRegistry()
		rec = metrics.NewPrometheusRecorder(registry)
		serveMetrics(ctx, w.MetricsListen, registry)
	}

	trigger := make(chan string, 1)

	if cfg.Source.Path != "" {
		watcher, err := newSourceWatcher(cfg.Source.Path, trigger)
		if err != nil {
			return blderrors.Wrap(err, blderrors.CategorySource, blderrors.SeverityFatal,
				"failed to watch source tree: "+err.Error())
		}
		defer func() {
			_ = watcher.Close()
		}()
		go watcher.Run(ctx)
	}

	if w.Interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return blderrors.InternalError("failed to create scheduler", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(w.Interval),
			gocron.NewTask(func() { requestRebuild(trigger, "interval") }),
			gocron.WithName("rebuild"),
		)
		if err != nil {
			return blderrors.InternalError("failed to schedule rebuild job", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching for changes",
		logfields.Source(watchLabel(cfg)),
		slog.Duration("interval", w.Interval))

	// Initial build. Failures are logged and watching continues; a broken
	// commit must not take the loop down.
	runRebuild(ctx, cfg, rec, "startup")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case reason := <-trigger:
			runRebuild(ctx, cfg, rec, reason)
		}
	}
}

// apply folds command-line flags over the loaded configuration.
func (w *WatchCmd) apply(cfg *config.Config) {
	if w.Repo != "" {
		cfg.Source.Repository = w.Repo
		cfg.Source.Path = ""
	}
	if w.Source != "" {
		cfg.Source.Path = w.Source
		cfg.Source.Repository = ""
	}
	if w.Output != "" {
		cfg.Output.Directory = w.Output
	}
	if w.Workers > 0 {
		cfg.Build.Workers = w.Workers
	}
}

func watchLabel(cfg *config.Config) string {
	if cfg.Source.Repository != "" {
		return cfg.Source.Repository
	}
	return cfg.Source.Path
}

// runRebuild executes one watch-loop build and keeps the loop alive on failure.
func runRebuild(ctx context.Context, cfg *config.Config, rec metrics.Recorder, reason string) {
	if ctx.Err() != nil {
		return
	}
	slog.Info("Rebuilding site", slog.String("trigger", reason))
	if err := RunBuild(ctx, cfg, rec); err != nil {
		slog.Error("Rebuild failed", slog.String("trigger", reason), logfields.Error(err))
	}
}

// requestRebuild queues a rebuild unless one is already pending; a queued
// rebuild absorbs further triggers.
func requestRebuild(trigger chan<- string, reason string) {
	select {
	case trigger <- reason:
	default:
	}
}

// sourceWatcher forwards debounced filesystem events from the content tree
// to the rebuild trigger.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	trigger chan<- string
}

// newSourceWatcher registers every directory under root; fsnotify does not
// recurse on its own. Hidden directories are skipped like discovery does.
func newSourceWatcher(root string, trigger chan<- string) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return watcher.Add(p)
	})
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return &sourceWatcher{watcher: watcher, trigger: trigger}, nil
}

func (sw *sourceWatcher) Close() error { return sw.watcher.Close() }

// Run consumes raw events until the context ends. Bursts are debounced: the
// trigger fires once the tree has been quiet for watchDebounce.
func (sw *sourceWatcher) Run(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			// Directories created mid-watch must be registered or edits
			// inside them go unseen.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = sw.watcher.Add(event.Name)
				}
			}
			slog.Debug("Source change detected",
				logfields.Path(event.Name),
				slog.String("op", event.Op.String()))
			if debounce == nil {
				debounce = time.AfterFunc(watchDebounce, func() {
					requestRebuild(sw.trigger, "filesystem")
				})
			} else {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// serveMetrics exposes the Prometheus registry until the context ends.
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
