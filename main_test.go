package main

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/termgol/model"
	"github.com/sheikhrachel/termgol/utils"
)

type recordingDrawer struct {
	frames []string
}

func (r *recordingDrawer) Draw(frame string) error {
	r.frames = append(r.frames, frame)
	return nil
}

func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = newApp(&out, &errOut).Run(append([]string{"gol"}, args...))
	return out.String(), errOut.String(), err
}

func writeBoard(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.txt")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAppRunsPresetForMaxGenerations(t *testing.T) {
	stdout, stderr, err := runApp(t, "-b", "blinker", "-f", "0", "--max-generations", "3")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "┌──────────┐") {
		t.Errorf("stdout has no board frame: %q", stdout)
	}
	if !strings.Contains(stderr, "generations=3") {
		t.Errorf("stderr missing final stats: %s", stderr)
	}
}

func TestAppCustomBoard(t *testing.T) {
	path := writeBoard(t, "0000\n0110\n0110\n0000\n")
	_, stderr, err := runApp(t, "--board", "custom", "--input", path, "-f", "0", "--halt-on-cycle")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "halting on cycle") {
		t.Errorf("block did not halt as a still life: %s", stderr)
	}
}

func TestAppRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"custom without input", []string{"-b", "custom"}, utils.ErrInvalidConfig},
		{"proportion out of range", []string{"-b", "random", "-a", "1.5"}, utils.ErrInvalidConfig},
		{"negative frame time", []string{"-f", "-0.5"}, utils.ErrInvalidConfig},
		{"unknown board", []string{"-b", "spaceship"}, utils.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runApp(t, tt.args...); !errors.Is(err, tt.want) {
				t.Fatalf("run error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAppRejectsMalformedBoardFile(t *testing.T) {
	ragged := writeBoard(t, "010\n01\n")
	if _, _, err := runApp(t, "-b", "custom", "-i", ragged, "-f", "0"); !errors.Is(err, model.ErrShape) {
		t.Errorf("ragged board error = %v, want ErrShape", err)
	}

	digits := writeBoard(t, "010\n021\n")
	if _, _, err := runApp(t, "-b", "custom", "-i", digits, "-f", "0"); !errors.Is(err, model.ErrValue) {
		t.Errorf("bad digit error = %v, want ErrValue", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, _, err := runApp(t, "-b", "custom", "-i", missing, "-f", "0"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want ErrNotExist", err)
	}
}

func TestAppFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"board": "random", "alive_proportion": 7, "max_generations": 2, "frame_time": 0}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runApp(t, "--config", path); !errors.Is(err, utils.ErrInvalidConfig) {
		t.Fatalf("config with bad proportion error = %v", err)
	}
	_, stderr, err := runApp(t, "--config", path, "-a", "0.3", "--seed", "9", "--width", "8", "--height", "4")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "width=8") || !strings.Contains(stderr, "height=4") || !strings.Contains(stderr, "seed=9") {
		t.Errorf("flags did not override config: %s", stderr)
	}
}

func TestInitializeBoardRandomIsSeeded(t *testing.T) {
	config := utils.DefaultConfig()
	config.Board = utils.BoardRandom
	config.AliveProportion = 0.4

	a, err := initializeBoard(config, rand.New(rand.NewSource(3)), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := initializeBoard(config, rand.New(rand.NewSource(3)), model.NewGridPool())
	if err != nil {
		t.Fatal(err)
	}
	if a.Width() != 32 || a.Height() != 18 {
		t.Errorf("random board is %dx%d, want 32x18", a.Width(), a.Height())
	}
	if a.Hash() != b.Hash() {
		t.Error("same seed produced different random boards")
	}
}

func TestInitializeBoardFullyAlive(t *testing.T) {
	config := utils.DefaultConfig()
	config.Board = utils.BoardRandom
	config.AliveProportion = 1
	config.RandomWidth, config.RandomHeight = 4, 2

	board, err := initializeBoard(config, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if board.Population() != 8 {
		t.Errorf("alive proportion 1 gave %d live cells, want 8", board.Population())
	}
}

func TestRunSimulationDrawsThenSteps(t *testing.T) {
	config := utils.DefaultConfig()
	config.FrameTime = 0
	config.MaxGenerations = 2

	board, err := model.NewBoard(1, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = board.SetState([][]int{{0, 0, 0}, {1, 1, 1}, {0, 0, 0}}); err != nil {
		t.Fatal(err)
	}
	horizontal := board.String()

	drawer := &recordingDrawer{}
	stats, err := runSimulation(context.Background(), config, board, drawer, utils.NewMetrics(), log.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(drawer.frames) != 3 {
		t.Fatalf("drew %d frames, want 3", len(drawer.frames))
	}
	if drawer.frames[0] != horizontal || drawer.frames[2] != horizontal || drawer.frames[1] == horizontal {
		t.Errorf("blinker frames do not alternate:\n%s", strings.Join(drawer.frames, "\n"))
	}
	if stats.TotalGenerations != 2 || stats.Population != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunSimulationStopsOnCancel(t *testing.T) {
	config := utils.DefaultConfig()
	config.FrameTime = 60

	board, err := model.NewBoard(3, 3, true)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	drawer := &recordingDrawer{}
	if _, err = runSimulation(ctx, config, board, drawer, utils.NewMetrics(), log.NewNopLogger()); err != nil {
		t.Fatal(err)
	}
	if len(drawer.frames) != 1 {
		t.Errorf("drew %d frames after cancellation, want 1", len(drawer.frames))
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	_ = level.Info(logger).Log("msg", "hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %s", buf.String())
	}
	_ = level.Warn(logger).Log("msg", "shown")
	if !strings.Contains(buf.String(), "msg=shown") || !strings.Contains(buf.String(), "level=warn") {
		t.Errorf("warn line = %q", buf.String())
	}
	if _, err = newLogger(&buf, "loud"); err == nil {
		t.Error("unknown level accepted")
	}
}
