package model

// CycleDetector remembers recent generation fingerprints to spot still lifes and oscillators
type CycleDetector struct {
	window  int
	history []string
}

// NewCycleDetector keeps the last window fingerprints, at least one
func NewCycleDetector(window int) *CycleDetector {
	return &CycleDetector{window: max(window, 1)}
}

// Observe records hash and returns the smallest period after which it repeats.
// A period of 1 is a still life.
func (d *CycleDetector) Observe(hash string) (period int, ok bool) {
	for p := 1; p <= len(d.history); p++ {
		if d.history[len(d.history)-p] == hash {
			period, ok = p, true
			break
		}
	}

	d.history = append(d.history, hash)
	// Keep only the last window states
	if len(d.history) > d.window {
		d.history = d.history[1:]
	}
	return period, ok
}

// Reset forgets every recorded fingerprint
func (d *CycleDetector) Reset() {
	d.history = nil
}
