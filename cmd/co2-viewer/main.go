package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"go.uber.org/zap"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
	"github.com/sudorandom/co2-atlas/pkg/logging"
	"github.com/sudorandom/co2-atlas/pkg/mapengine"
	"github.com/sudorandom/co2-atlas/pkg/session"
	"github.com/sudorandom/co2-atlas/pkg/sources"
)

var cli struct {
	Sources sources.Flags `embed:""`
	Log     logging.Flags `embed:"" prefix:"log-"`

	Year     int           `help:"Initial year." default:"1960"`
	Interval time.Duration `help:"Time between playback steps." default:"500ms"`
	Autoplay bool          `help:"Start playing immediately."`

	Width       int     `help:"Internal rendering width." default:"1000"`
	MapHeight   int     `help:"Internal height of the map area." default:"700"`
	PanelHeight int     `help:"Internal height of the chart panel." default:"320"`
	WindowScale float64 `help:"Initial window size relative to the rendering size." default:"1.0"`
	TPS         int     `help:"Ticks per second (engine updates)." default:"30"`
	CaptureDir  string  `help:"Directory for frames captured with the P key." default:"captures"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("co2-viewer"),
		kong.Description("Interactive map of CO2 emissions per country."))

	logger, err := cli.Log.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("viewer failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ds, err := cli.Sources.Load(context.Background(), logger)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	ctrl, err := startSession(ds.Data(cli.Sources.MinYear, cli.Sources.MaxYear), cli.Year, cli.Autoplay, cli.Interval, logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	engine := mapengine.NewEngine(cli.Width, cli.MapHeight, cli.PanelHeight, ds.Features, ctrl, logger)
	engine.FrameCaptureDir = cli.CaptureDir

	ebiten.SetTPS(cli.TPS)
	ebiten.SetWindowSize(int(float64(cli.Width)*cli.WindowScale), int(float64(cli.MapHeight+cli.PanelHeight)*cli.WindowScale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("CO2 Emissions Map")
	if err := ebiten.RunGame(engine); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

// startSession loads d into a new controller. The controller is closed again
// when loading fails.
func startSession(d emissions.Data, year int, autoplay bool, interval time.Duration, logger *zap.Logger) (*session.Controller, error) {
	ctrl := session.NewController(interval, logger, nil)
	if _, err := ctrl.Load(d, year); err != nil {
		ctrl.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}
	if autoplay {
		if _, err := ctrl.Dispatch(emissions.Play{}); err != nil {
			logger.Warn("autoplay failed", zap.Error(err))
		}
	}
	return ctrl, nil
}
