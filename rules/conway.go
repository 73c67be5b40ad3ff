package rules

// Outcome names what happens to a single cell between two generations
type Outcome int

const (
	// Dormant is a dead cell that stays dead
	Dormant Outcome = iota
	// Underpopulation kills a live cell with fewer than two live neighbors
	Underpopulation
	// Survival keeps a live cell with two or three live neighbors
	Survival
	// Overpopulation kills a live cell with more than three live neighbors
	Overpopulation
	// Reproduction brings a dead cell with exactly three live neighbors to life
	Reproduction
)

var outcomeNames = [...]string{
	Dormant:         "dormant",
	Underpopulation: "underpopulation",
	Survival:        "survival",
	Overpopulation:  "overpopulation",
	Reproduction:    "reproduction",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Alive reports whether the cell is alive after the outcome is applied
func (o Outcome) Alive() bool {
	return o == Survival || o == Reproduction
}

// Classify returns the B3/S23 outcome for a cell given its previous state and live neighbor count
func Classify(alive bool, neighbors int) Outcome {
	switch {
	case alive && neighbors < 2:
		return Underpopulation
	case alive && neighbors <= 3:
		return Survival
	case alive:
		return Overpopulation
	case neighbors == 3:
		return Reproduction
	default:
		return Dormant
	}
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return Classify(alive, neighbors).Alive()
}
