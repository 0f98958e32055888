package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/logging"
	"github.com/sudorandom/co2-atlas/pkg/metrics"
	"github.com/sudorandom/co2-atlas/pkg/report"
	"github.com/sudorandom/co2-atlas/pkg/server"
	"github.com/sudorandom/co2-atlas/pkg/session"
	"github.com/sudorandom/co2-atlas/pkg/sources"
)

var cli struct {
	Sources sources.Flags `embed:""`
	Log     logging.Flags `embed:"" prefix:"log-"`

	Listen     string        `help:"HTTP listen address." default:":8080" env:"CO2_LISTEN"`
	Year       int           `help:"Initial year." default:"1960"`
	Interval   time.Duration `help:"Time between playback steps." default:"500ms"`
	Autoplay   bool          `help:"Start the default session playing. New connections copy its year and playing state."`
	AssetsHost string        `help:"Where the report page loads echarts from." default:"https://go-echarts.github.io/go-echarts-assets/assets/" env:"CO2_ASSETS_HOST"`
	TopN       int           `help:"Number of emitters in the report's ranking." default:"15"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("co2-server"),
		kong.Description("Serves the CO2 emissions map state over HTTP and websockets."))

	logger, err := cli.Log.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	start := time.Now()
	ds, err := cli.Sources.Load(ctx, logger)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	m.LoadDuration.Observe(time.Since(start).Seconds())

	ctrl := session.NewController(cli.Interval, logger, m)
	defer ctrl.Close()
	if _, err := ctrl.Load(ds.Data(cli.Sources.MinYear, cli.Sources.MaxYear), cli.Year); err != nil {
		return err
	}

	srv := server.New(ctrl, server.Config{
		Logger:   logger,
		Metrics:  m,
		Gatherer: reg,
		Report:   report.Options{AssetsHost: cli.AssetsHost, TopN: cli.TopN},
		Interval: cli.Interval,
	})
	defer srv.Close()

	if cli.Autoplay {
		if _, err := ctrl.Dispatch(emissions.Play{}); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              cli.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cli.Listen))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
