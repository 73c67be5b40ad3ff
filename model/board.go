package model

import (
	"bufio"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/termgol/rules"
)

const (
	Dead  = 0
	Alive = 1

	// invalidCell marks a character in a board file that is not a digit
	invalidCell = -1
)

var (
	// ErrShape is returned for empty grids and grids whose rows differ in length
	ErrShape = errors.New("invalid board shape")
	// ErrValue is returned for cells that are neither 0 nor 1
	ErrValue = errors.New("invalid cell value")
)

// Board is a Game of Life grid. It is not safe for concurrent use.
type Board struct {
	width      int
	height     int
	cells      [][]int
	wrapAround bool

	rng     *rand.Rand
	pool    *GridPool
	workers int
}

// Option configures optional Board collaborators
type Option func(*Board)

// WithRand sets the random source used by RandomState
func WithRand(rng *rand.Rand) Option {
	return func(b *Board) { b.rng = rng }
}

// WithPool makes the board recycle generation buffers through pool
func WithPool(pool *GridPool) Option {
	return func(b *Board) { b.pool = pool }
}

// WithWorkers sets how many goroutines Iterate fans out to
func WithWorkers(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBoard creates an all-dead board with the specified dimensions
func NewBoard(width, height int, wrapAround bool, opts ...Option) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, errors.Wrapf(ErrShape, "[NewBoard] dimensions must be positive, got %dx%d", width, height)
	}
	b := &Board{
		width:      width,
		height:     height,
		wrapAround: wrapAround,
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b.cells = newCells(b.pool, width, height)
	return b, nil
}

// Width returns the width of the board
func (b *Board) Width() int {
	return b.width
}

// Height returns the height of the board
func (b *Board) Height() int {
	return b.height
}

// WrapAround reports whether opposite edges of the board are connected
func (b *Board) WrapAround() bool {
	return b.wrapAround
}

// Get returns the value of a cell, or Dead outside the board
func (b *Board) Get(row, col int) int {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return Dead
	}
	return b.cells[row][col]
}

// State returns a copy of the current grid
func (b *Board) State() [][]int {
	state := make([][]int, b.height)
	for i, row := range b.cells {
		state[i] = append([]int(nil), row...)
	}
	return state
}

// SetState validates matrix and installs a copy of it as the new grid.
// The board is left untouched when validation fails.
func (b *Board) SetState(matrix [][]int) (*Board, error) {
	if err := validate(matrix); err != nil {
		return b, err
	}

	height, width := len(matrix), len(matrix[0])
	cells := newCells(b.pool, width, height)
	for i, row := range matrix {
		copy(cells[i], row)
	}
	b.install(cells, width, height)
	return b, nil
}

// validate checks the shape of every row before looking at any value
func validate(matrix [][]int) error {
	if len(matrix) < 1 {
		return errors.Wrap(ErrShape, "[SetState] state cannot be empty")
	}
	width := len(matrix[0])
	if width < 1 {
		return errors.Wrap(ErrShape, "[SetState] rows cannot be empty")
	}
	for i, row := range matrix {
		if len(row) != width {
			return errors.Wrapf(ErrShape, "[SetState] row %d has length %d, want %d", i, len(row), width)
		}
	}
	for i, row := range matrix {
		for j, cell := range row {
			if cell != Dead && cell != Alive {
				return errors.Wrapf(ErrValue, "[SetState] cell (%d, %d) is %d, must be 0 or 1", i, j, cell)
			}
		}
	}
	return nil
}

// install swaps in a new grid and retires the previous one
func (b *Board) install(cells [][]int, width, height int) {
	old := b.cells
	b.cells = cells
	b.width = width
	b.height = height
	cellsToPool(b.pool, old)
}

// DeadState fills the board with dead cells, optionally resizing it
func (b *Board) DeadState(width, height int) *Board {
	return b.RandomState(width, height, 1.0)
}

// RandomState fills the board with cells that are each dead with probability deadCellProportion.
// Positive width and height replace the current dimensions. The proportion is not range checked.
func (b *Board) RandomState(width, height int, deadCellProportion float64) *Board {
	if width <= 0 {
		width = b.width
	}
	if height <= 0 {
		height = b.height
	}

	cells := newCells(b.pool, width, height)
	for i := range cells {
		for j := range cells[i] {
			if b.rng.Float64() < deadCellProportion {
				cells[i][j] = Dead
			} else {
				cells[i][j] = Alive
			}
		}
	}
	b.install(cells, width, height)
	return b
}

// LoadFromLines parses one row per line of '0' and '1' characters and installs the result
func (b *Board) LoadFromLines(lines []string) (*Board, error) {
	matrix := make([][]int, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		row := make([]int, 0, len(line))
		for _, ch := range line {
			row = append(row, parseCell(ch))
		}
		matrix = append(matrix, row)
	}
	return b.SetState(matrix)
}

// LoadFromReader reads a board definition line by line and installs it
func (b *Board) LoadFromReader(r io.Reader) (*Board, error) {
	var (
		lines   []string
		scanner = bufio.NewScanner(r)
	)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return b, errors.Wrap(err, "[LoadFromReader] failed to read board")
	}
	return b.LoadFromLines(lines)
}

func parseCell(ch rune) int {
	if ch >= '0' && ch <= '9' {
		return int(ch - '0')
	}
	return invalidCell
}

// CountAliveNeighbors counts live cells in the Moore neighborhood of (row, col)
func (b *Board) CountAliveNeighbors(row, col int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.wrapAround {
				r = mod(r, b.height)
				c = mod(c, b.width)
			} else if r < 0 || r >= b.height || c < 0 || c >= b.width {
				continue
			}
			if b.cells[r][c] == Alive {
				count++
			}
		}
	}
	return count
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

// Iterate advances the board by one generation.
// Every cell is computed from the previous grid into a separate buffer which then replaces it.
func (b *Board) Iterate() *Board {
	next := newCells(b.pool, b.width, b.height)

	var (
		eg            errgroup.Group
		numWorkers    = min(b.workers, b.height)
		rowsPerWorker = (b.height + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := 0; i < numWorkers; i++ {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, b.height)
		)
		if startRow >= b.height {
			break
		}

		eg.Go(func() error {
			for row := startRow; row < endRow; row++ {
				for col := 0; col < b.width; col++ {
					alive := b.cells[row][col] == Alive
					if rules.ApplyConwayRules(b.CountAliveNeighbors(row, col), alive) {
						next[row][col] = Alive
					}
				}
			}
			return nil
		})
	}
	// Workers never fail
	_ = eg.Wait()

	b.install(next, b.width, b.height)
	return b
}

// Population returns the number of live cells
func (b *Board) Population() (count int) {
	for _, row := range b.cells {
		for _, cell := range row {
			count += cell
		}
	}
	return
}

// Hash returns an MD5 fingerprint of the grid and its dimensions
func (b *Board) Hash() string {
	h := md5.New()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(b.width))
	binary.BigEndian.PutUint64(dims[8:], uint64(b.height))
	h.Write(dims[:])
	for _, row := range b.cells {
		for _, cell := range row {
			h.Write([]byte{byte(cell)})
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
