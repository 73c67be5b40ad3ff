package model

import "testing"

func TestGridPoolReturnsZeroedBuffers(t *testing.T) {
	p := NewGridPool()

	cells := p.Get(3, 2)
	if len(cells) != 2 || len(cells[0]) != 3 {
		t.Fatalf("Get(3, 2) shape = %dx%d", len(cells[0]), len(cells))
	}
	cells[1][2] = Alive
	p.Put(cells)

	for _, dims := range [][2]int{{3, 2}, {5, 4}, {1, 1}} {
		got := p.Get(dims[0], dims[1])
		if len(got) != dims[1] {
			t.Fatalf("Get(%d, %d) returned %d rows", dims[0], dims[1], len(got))
		}
		for _, row := range got {
			if len(row) != dims[0] {
				t.Fatalf("Get(%d, %d) returned row of %d", dims[0], dims[1], len(row))
			}
			for _, cell := range row {
				if cell != Dead {
					t.Fatalf("Get(%d, %d) returned a dirty buffer", dims[0], dims[1])
				}
			}
		}
		p.Put(got)
	}
}

func TestBoardWithPoolKeepsGenerationsApart(t *testing.T) {
	pool := NewGridPool()
	b := mustBoard(t, [][]int{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}}, false, WithPool(pool))

	snapshot := b.State()
	b.Iterate()
	b.Iterate()

	if got := b.State(); !equalGrids(got, snapshot) {
		t.Errorf("blinker with pooled buffers = %v, want %v", got, snapshot)
	}
}
