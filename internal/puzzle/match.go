package puzzle

// MinMatchLen is the shortest selection that can match a word.
const MinMatchLen = 2

// CheckMatch reports which placed word, if any, the selection spells.
//
// The selection may run either way along the word, but it must cover exactly
// the placement's cells: the same letters spelled along some other path are
// not a match. When several placements qualify the first one wins.
func CheckMatch(sel []Coord, g *Grid, placements []Placement) (string, bool) {
	if len(sel) < MinMatchLen {
		return "", false
	}

	letters := make([]byte, len(sel))
	for i, c := range sel {
		if !g.InBounds(c) {
			return "", false
		}
		letters[i] = g.Letter(c)
	}
	forward := string(letters)
	reversed := reverse(letters)

	for _, p := range placements {
		if forward != p.Normalized && reversed != p.Normalized {
			continue
		}
		if sameCells(sel, p.Cells) {
			return p.Word, true
		}
	}
	return "", false
}

// sameCells compares a and b as sets.
func sameCells(a, b []Coord) bool {
	if len(a) != len(b) {
		return false
	}
	want := make(map[Coord]int, len(b))
	for _, c := range b {
		want[c]++
	}
	for _, c := range a {
		if want[c] == 0 {
			return false
		}
		want[c]--
	}
	return true
}

func reverse(b []byte) string {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return string(out)
}
