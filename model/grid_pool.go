package model

import "sync"

// GridPool recycles cell buffers between generations
type GridPool struct {
	pool sync.Pool
}

func NewGridPool() *GridPool {
	return &GridPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([][]int)
			},
		},
	}
}

// Get retrieves a zeroed buffer of the given dimensions, reshaping a pooled one if needed
func (p *GridPool) Get(width, height int) [][]int {
	ref := p.pool.Get().(*[][]int)
	cells := *ref

	// Resize rows if needed
	if len(cells) != height {
		cells = make([][]int, height)
	}
	for i := range cells {
		if len(cells[i]) != width {
			cells[i] = make([]int, width)
		} else {
			clear(cells[i])
		}
	}
	return cells
}

// Put returns a buffer to the pool
func (p *GridPool) Put(cells [][]int) {
	if cells == nil {
		return
	}
	p.pool.Put(&cells)
}

// newCells allocates from the pool when one is configured
func newCells(pool *GridPool, width, height int) [][]int {
	if pool != nil {
		return pool.Get(width, height)
	}
	cells := make([][]int, height)
	for i := range cells {
		cells[i] = make([]int, width)
	}
	return cells
}

// cellsToPool hands a retired buffer back to the pool, if any
func cellsToPool(pool *GridPool, cells [][]int) {
	if pool == nil {
		return
	}
	pool.Put(cells)
}
