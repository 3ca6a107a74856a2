package puzzle

// TraceLine returns the cells on the straight line from start to end, both
// included. Only horizontal, vertical and 45° diagonal lines are traced; any
// other vector yields just start. The result is not bounds-checked.
func TraceLine(start, end Coord) []Coord {
	dr, dc := end.Row-start.Row, end.Col-start.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return []Coord{start}
	}

	steps := max(abs(dr), abs(dc))
	if steps == 0 {
		return []Coord{start}
	}

	// On a valid line dr/steps and dc/steps are exactly -1, 0 or 1.
	step := Direction{DRow: dr / steps, DCol: dc / steps}
	out := make([]Coord, steps+1)
	for i := 0; i <= steps; i++ {
		out[i] = start.Add(step, i)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
