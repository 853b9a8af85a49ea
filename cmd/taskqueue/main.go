// Command taskqueue runs a configurable workload through a single-worker
// task manager and reports how every submitted task resolved.
//
// Configuration comes from ./taskqueue.yaml (or -config) and TASKQUEUE_*
// environment variables, for example:
//
//	TASKQUEUE_QUEUE_SHUTDOWN_POLICY=discard TASKQUEUE_DEMO_SHUTDOWN_AFTER=100ms taskqueue
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jzx17/gotaskqueue/internal/config"
	"github.com/jzx17/gotaskqueue/internal/logger"
	"github.com/jzx17/gotaskqueue/pkg/metrics"
	"github.com/jzx17/gotaskqueue/pkg/worker"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	blue   = color.New(color.FgBlue)
	faint  = color.New(color.Faint)
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		red.Fprintf(os.Stderr, "taskqueue: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.Setup(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	policy, err := cfg.Queue.Policy()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry := metrics.NewRegistry(reg)

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("metrics server shutdown", "error", err)
			}
		}()
	}

	managerConfig := worker.DefaultConfig()
	managerConfig.Name = cfg.Queue.Name
	managerConfig.Policy = policy
	managerConfig.Logger = log
	managerConfig.Observer = registry.ManagerObserver(cfg.Queue.Name)
	managerConfig.ErrorHandler = func(err error) error {
		log.Warn("task failed", "manager", cfg.Queue.Name, "error", err)
		return nil
	}

	manager, err := worker.NewManager[string](managerConfig)
	if err != nil {
		return err
	}
	defer manager.Close()

	bold.Printf("Running %d tasks on %q (policy %s, %d producers)\n",
		cfg.Demo.Tasks, cfg.Queue.Name, policy, cfg.Demo.Producers)

	if cfg.Demo.ShutdownAfter > 0 {
		timer := time.AfterFunc(cfg.Demo.ShutdownAfter, func() {
			log.Info("early shutdown", "after", cfg.Demo.ShutdownAfter)
			_ = manager.Shutdown()
		})
		defer timer.Stop()
	}

	futures, err := submitAll(ctx, manager, cfg.Demo, newLimiter(cfg.Demo))
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("submitting tasks: %w", err)
	}

	if err := manager.Shutdown(); err != nil {
		return err
	}

	bar := newProgressBar(len(futures))
	results := collect(futures, cfg.Demo.ResultTimeout, func() { _ = bar.Add(1) })
	_ = bar.Finish()

	printResults(os.Stdout, results)
	return renderStats(os.Stdout, manager.Stats())
}

func serveMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Awaiting results"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func printResults(w io.Writer, results []taskResult) {
	for _, r := range results {
		switch r.Outcome {
		case outcomeSucceeded:
			green.Fprintf(w, "task %3d  %-9s %s\n", r.Index, r.Outcome, r.Value)
		case outcomeFailed:
			red.Fprintf(w, "task %3d  %-9s %v\n", r.Index, r.Outcome, r.Err)
		case outcomeAbandoned:
			yellow.Fprintf(w, "task %3d  %-9s %v\n", r.Index, r.Outcome, r.Err)
		case outcomeTimedOut:
			blue.Fprintf(w, "task %3d  %-9s %v\n", r.Index, r.Outcome, r.Err)
		default:
			faint.Fprintf(w, "task %3d  %-9s\n", r.Index, r.Outcome)
		}
	}
}

func renderStats(w io.Writer, stats worker.Stats) error {
	table := tablewriter.NewWriter(w)
	table.Header("Manager", "Policy", "Submitted", "Rejected", "Processed", "Failed", "Abandoned", "Success Rate")

	if err := table.Append(
		stats.Name,
		stats.Policy.String(),
		fmt.Sprint(stats.Submitted),
		fmt.Sprint(stats.Rejected),
		fmt.Sprint(stats.Processed),
		fmt.Sprint(stats.Failed),
		fmt.Sprint(stats.Abandoned),
		fmt.Sprintf("%.1f%%", stats.GetSuccessRate()*100),
	); err != nil {
		return err
	}

	return table.Render()
}
