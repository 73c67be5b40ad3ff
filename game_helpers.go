package main

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/sheikhrachel/termgol/boards"
	"github.com/sheikhrachel/termgol/model"
	"github.com/sheikhrachel/termgol/utils"
)

// frameDrawer paints one textual frame
type frameDrawer interface {
	Draw(frame string) error
}

// newLogger builds a logfmt logger filtered at the named level
func newLogger(w io.Writer, name string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(name) {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, errors.Errorf("[newLogger] unknown log level %q", name)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, opt), nil
}

// configFromContext layers explicitly set flags over the config file or the defaults
func configFromContext(c *cli.Context) (utils.Config, error) {
	config := utils.DefaultConfig()
	if c.IsSet(flagConfig) {
		var err error
		if config, err = utils.LoadConfig(c.String(flagConfig)); err != nil {
			return config, err
		}
	}

	if c.IsSet(flagBoard) {
		config.Board = c.String(flagBoard)
	}
	if c.IsSet(flagInput) {
		config.Input = c.String(flagInput)
	}
	if c.IsSet(flagAliveProportion) {
		config.AliveProportion = c.Float64(flagAliveProportion)
	}
	if c.IsSet(flagWrapAround) {
		config.WrapAround = c.Bool(flagWrapAround)
	}
	if c.IsSet(flagFrameTime) {
		config.FrameTime = c.Float64(flagFrameTime)
	}
	if c.IsSet(flagSeed) {
		config.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagWidth) {
		config.RandomWidth = c.Int(flagWidth)
	}
	if c.IsSet(flagHeight) {
		config.RandomHeight = c.Int(flagHeight)
	}
	if c.IsSet(flagMaxGenerations) {
		config.MaxGenerations = c.Int(flagMaxGenerations)
	}
	if c.IsSet(flagHaltOnCycle) {
		config.HaltOnCycle = c.Bool(flagHaltOnCycle)
	}
	if c.IsSet(flagCycleWindow) {
		config.CycleWindow = c.Int(flagCycleWindow)
	}
	if c.IsSet(flagMetricsAddr) {
		config.MetricsAddr = c.String(flagMetricsAddr)
	}
	if c.IsSet(flagLogLevel) {
		config.LogLevel = c.String(flagLogLevel)
	}

	return config, config.Validate(isPreset)
}

func isPreset(name string) bool {
	for _, n := range boards.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// initializeBoard builds the starting board selected by config
func initializeBoard(config utils.Config, rng *rand.Rand, pool *model.GridPool) (*model.Board, error) {
	board, err := model.NewBoard(config.RandomWidth, config.RandomHeight, config.WrapAround,
		model.WithRand(rng),
		model.WithPool(pool),
	)
	if err != nil {
		return nil, err
	}

	if config.Board == utils.BoardRandom {
		return board.RandomState(0, 0, 1-config.AliveProportion), nil
	}

	var src io.ReadCloser
	if config.Board == utils.BoardCustom {
		if src, err = os.Open(config.Input); err != nil {
			return nil, errors.Wrapf(err, "[initializeBoard] failed to open board file: %+v", config.Input)
		}
	} else if src, err = boards.Open(config.Board); err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err = board.LoadFromReader(src); err != nil {
		return nil, errors.Wrapf(err, "[initializeBoard] failed to load board %q", config.Board)
	}
	return board, nil
}

// runSimulation draws, steps and sleeps until the context ends or a stop condition is met
func runSimulation(
	ctx context.Context,
	config utils.Config,
	board *model.Board,
	renderer frameDrawer,
	metrics *utils.Metrics,
	logger log.Logger,
) (*utils.Stats, error) {
	var (
		stats     = utils.NewStats()
		detector  = model.NewCycleDetector(config.CycleWindow)
		delay     = config.FrameDelay()
		lastFrame = time.Now()
	)

	for generation := 0; ; generation++ {
		if err := renderer.Draw(board.String()); err != nil {
			return stats, err
		}

		population := board.Population()
		stats.Update(generation, population, time.Since(lastFrame))
		lastFrame = time.Now()
		metrics.ObservePopulation(population)

		if period, ok := detector.Observe(board.Hash()); ok {
			level.Debug(logger).Log("msg", "cycle detected", "generation", generation, "period", period, "population", population)
			if config.HaltOnCycle {
				level.Info(logger).Log("msg", "halting on cycle", "generation", generation, "period", period)
				return stats, nil
			}
		}

		// Check for max generations limit
		if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
			level.Info(logger).Log("msg", "reached maximum generations", "generations", config.MaxGenerations)
			return stats, nil
		}

		start := time.Now()
		board.Iterate()
		metrics.ObserveStep(time.Since(start))

		select {
		case <-ctx.Done():
			return stats, nil
		case <-time.After(delay):
		}
	}
}

// newMetricsServer returns an HTTP server exposing metrics on /metrics
func newMetricsServer(addr string, metrics *utils.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
