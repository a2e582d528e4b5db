package quantum

// Counts is the normalized execution result: measured bitstring to number of
// shots that produced it. Bitstrings are big-endian over the measured
// qubits: the leftmost character is the highest measured qubit index. Every
// adapter produces this shape regardless of the engine's native ordering.
type Counts map[string]int

// Shots returns the total number of recorded shots.
func (c Counts) Shots() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Probabilities converts counts to empirical frequencies.
func (c Counts) Probabilities() map[string]float64 {
	total := c.Shots()
	probs := make(map[string]float64, len(c))
	if total == 0 {
		return probs
	}
	for outcome, n := range c {
		probs[outcome] = float64(n) / float64(total)
	}
	return probs
}

// MarginalOne returns the empirical probability that the bit at the given
// position (counted from the right, i.e. qubit order) measured 1.
func (c Counts) MarginalOne(position int) float64 {
	total := 0
	ones := 0
	for outcome, n := range c {
		total += n
		idx := len(outcome) - 1 - position
		if idx >= 0 && idx < len(outcome) && outcome[idx] == '1' {
			ones += n
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ones) / float64(total)
}
