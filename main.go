package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/termgol/boards"
	"github.com/sheikhrachel/termgol/model"
	"github.com/sheikhrachel/termgol/utils"
)

const (
	flagBoard           = "board"
	flagInput           = "input"
	flagAliveProportion = "alive-proportion"
	flagWrapAround      = "wrap-around"
	flagFrameTime       = "frame-time"
	flagSeed            = "seed"
	flagWidth           = "width"
	flagHeight          = "height"
	flagMaxGenerations  = "max-generations"
	flagHaltOnCycle     = "halt-on-cycle"
	flagCycleWindow     = "cycle-window"
	flagConfig          = "config"
	flagMetricsAddr     = "metrics-addr"
	flagLogLevel        = "log-level"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gol:", err)
		os.Exit(1)
	}
}

// newApp wires the command line to the simulation, painting frames to stdout and logging to stderr
func newApp(stdout, stderr io.Writer) *cli.App {
	defaults := utils.DefaultConfig()

	app := cli.NewApp()
	app.Name = "gol"
	app.Usage = "a simple terminal simulator for Conway's Game of Life"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  flagBoard + ", b",
			Value: defaults.Board,
			Usage: fmt.Sprintf("starting board: %s, %s or %s",
				strings.Join(boards.Names(), ", "), utils.BoardCustom, utils.BoardRandom),
		},
		cli.StringFlag{
			Name:  flagInput + ", i",
			Usage: "txt file of 1s and 0s arranged in rows, only applies to the custom board",
		},
		cli.Float64Flag{
			Name:  flagAliveProportion + ", a",
			Value: defaults.AliveProportion,
			Usage: "proportion (between 0 and 1) of cells to be alive, only applies to the random board",
		},
		cli.BoolFlag{
			Name:  flagWrapAround + ", w",
			Usage: "wrap around the edges of the board so opposite edges connect",
		},
		cli.Float64Flag{
			Name:  flagFrameTime + ", f",
			Value: defaults.FrameTime,
			Usage: "seconds between frames",
		},
		cli.Int64Flag{
			Name:  flagSeed,
			Usage: "seed for the random board, 0 picks one from the clock",
		},
		cli.IntFlag{
			Name:  flagWidth,
			Value: defaults.RandomWidth,
			Usage: "width of the random board",
		},
		cli.IntFlag{
			Name:  flagHeight,
			Value: defaults.RandomHeight,
			Usage: "height of the random board",
		},
		cli.IntFlag{
			Name:  flagMaxGenerations,
			Usage: "stop after this many generations, 0 runs until interrupted",
		},
		cli.BoolFlag{
			Name:  flagHaltOnCycle,
			Usage: "stop once the board settles into a still life or short oscillator",
		},
		cli.IntFlag{
			Name:  flagCycleWindow,
			Value: defaults.CycleWindow,
			Usage: "longest oscillator period detected",
		},
		cli.StringFlag{
			Name:  flagConfig,
			Usage: "JSON configuration file, flags override its values",
		},
		cli.StringFlag{
			Name:  flagMetricsAddr,
			Usage: "address to serve Prometheus metrics on, empty disables",
		},
		cli.StringFlag{
			Name:  flagLogLevel,
			Value: defaults.LogLevel,
			Usage: "debug, info, warn or error",
		},
	}
	app.Action = func(c *cli.Context) error {
		return run(c, stdout, stderr)
	}
	return app
}

func run(c *cli.Context, stdout, stderr io.Writer) error {
	config, err := configFromContext(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, config.LogLevel)
	if err != nil {
		return err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	board, err := initializeBoard(config, rand.New(rand.NewSource(seed)), model.NewGridPool())
	if err != nil {
		level.Error(logger).Log("msg", "failed to initialize board", "err", err)
		return err
	}
	level.Info(logger).Log(
		"msg", "starting simulation",
		"board", config.Board,
		"width", board.Width(),
		"height", board.Height(),
		"wrap_around", board.WrapAround(),
		"seed", seed,
	)

	renderer := model.NewTerminalRenderer(stdout)
	if err = renderer.Clear(); err != nil {
		return err
	}
	_ = renderer.HideCursor()
	defer renderer.ShowCursor()

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		metrics = utils.NewMetrics()
		stats   *utils.Stats
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		var err error
		stats, err = runSimulation(ctx, config, board, renderer, metrics, logger)
		return err
	})

	if config.MetricsAddr != "" {
		srv := newMetricsServer(config.MetricsAddr, metrics)
		level.Info(logger).Log("msg", "metrics endpoint listening", "addr", config.MetricsAddr)
		eg.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "[run] metrics server failed")
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err = eg.Wait(); err != nil {
		level.Error(logger).Log("msg", "simulation stopped", "err", err)
		return err
	}

	level.Info(logger).Log(
		"msg", "simulation finished",
		"generations", stats.TotalGenerations,
		"runtime", stats.Runtime().Round(time.Millisecond),
		"population", stats.Population,
		"avg_population", fmt.Sprintf("%.1f", stats.AveragePopulation),
	)
	return nil
}
