package puzzle

// Direction is a unit step between consecutive letters of a placed word.
type Direction struct {
	Name string `json:"name"`
	DRow int    `json:"dRow"`
	DCol int    `json:"dCol"`
}

// Directions lists the eight supported placement directions.
var Directions = [8]Direction{
	{Name: "horizontal", DRow: 0, DCol: 1},
	{Name: "horizontal-rev", DRow: 0, DCol: -1},
	{Name: "vertical", DRow: 1, DCol: 0},
	{Name: "vertical-rev", DRow: -1, DCol: 0},
	{Name: "diagonal", DRow: 1, DCol: 1},
	{Name: "diagonal-rev", DRow: -1, DCol: -1},
	{Name: "anti-diagonal", DRow: 1, DCol: -1},
	{Name: "anti-diagonal-rev", DRow: -1, DCol: 1},
}

// DirectionByName looks up one of Directions.
func DirectionByName(name string) (Direction, bool) {
	for _, d := range Directions {
		if d.Name == name {
			return d, true
		}
	}
	return Direction{}, false
}
