package puzzle

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultWords = []string{"meow", "unreal", "perchance", "baby", "I love you", "strawberries", "waffles"}

func newTestPlacer(size int, seed int64) *Placer {
	return NewPlacer(size, DefaultRetries, rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ILOVEYOU", Normalize("I love you"))
	assert.Equal(t, "MEOW", Normalize("\tmeow \n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestGenerateFillsEveryCell(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g, _ := newTestPlacer(DefaultSize, seed).Generate(defaultWords)
		require.Equal(t, DefaultSize, g.Size)
		require.Len(t, g.Cells, DefaultSize)
		for _, row := range g.Cells {
			require.Len(t, row, DefaultSize)
		}
		assert.True(t, g.Complete(), "seed %d left an empty or non-letter cell", seed)
	}
}

func TestPlacementsSpellTheirWords(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g, placements := newTestPlacer(DefaultSize, seed).Generate(defaultWords)
		for _, p := range placements {
			require.Equal(t, Normalize(p.Word), p.Normalized)
			require.Len(t, p.Cells, len(p.Normalized))

			for i, c := range p.Cells {
				require.True(t, g.InBounds(c), "%s cell %v off grid", p.Word, c)
				assert.Equal(t, p.Normalized[i], g.Letter(c), "%s letter %d", p.Word, i)
				if i > 0 {
					prev := p.Cells[i-1]
					assert.Equal(t, p.Direction.DRow, c.Row-prev.Row)
					assert.Equal(t, p.Direction.DCol, c.Col-prev.Col)
				}
			}
			_, known := DirectionByName(p.Direction.Name)
			assert.True(t, known)
		}
	}
}

func TestPlacementsKeepInputOrder(t *testing.T) {
	_, placements := newTestPlacer(DefaultSize, 7).Generate(defaultWords)
	idx := map[string]int{}
	for i, w := range defaultWords {
		idx[w] = i
	}
	for i := 1; i < len(placements); i++ {
		assert.Less(t, idx[placements[i-1].Word], idx[placements[i].Word])
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	g1, p1 := newTestPlacer(DefaultSize, 42).Generate(defaultWords)
	g2, p2 := newTestPlacer(DefaultSize, 42).Generate(defaultWords)
	assert.Equal(t, g1.Rows(), g2.Rows())
	assert.Equal(t, p1, p2)
}

func TestGenerateSkipsUnplaceableWord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlacer(4, DefaultRetries, rand.New(rand.NewSource(3)), zerolog.New(&buf))

	g, placements := p.Generate([]string{"cat", "elephant"})

	require.Len(t, placements, 1)
	assert.Equal(t, "cat", placements[0].Word)
	assert.True(t, g.Complete())
	assert.Contains(t, buf.String(), "could not place word")
	assert.Contains(t, buf.String(), "elephant")
	assert.NotContains(t, buf.String(), `"word":"cat"`)
	assert.Contains(t, buf.String(), `"attempts":0`)
	assert.Contains(t, buf.String(), `"reason":"too long"`)
}

func TestGenerateLogsAttemptsWhenGridIsFull(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlacer(2, 5, rand.New(rand.NewSource(7)), zerolog.New(&buf))

	// Three words of two distinct letters need six cells; a 2x2 grid has four.
	_, placements := p.Generate([]string{"ab", "cd", "ef"})

	assert.Less(t, len(placements), 3)
	assert.Contains(t, buf.String(), `"reason":"no room"`)
	assert.Contains(t, buf.String(), `"attempts":5`)
	assert.NotContains(t, buf.String(), `"attempts":0`)
}

func TestGenerateSingleWordScenario(t *testing.T) {
	g, placements := newTestPlacer(DefaultSize, 99).Generate([]string{"CAT"})
	require.Len(t, placements, 1)

	cells := placements[0].Cells
	require.Len(t, cells, 3)

	word, ok := CheckMatch(cells, g, placements)
	require.True(t, ok)
	assert.Equal(t, "CAT", word)

	rev := []Coord{cells[2], cells[1], cells[0]}
	word, ok = CheckMatch(rev, g, placements)
	require.True(t, ok)
	assert.Equal(t, "CAT", word)

	// The traced line between the end points is the placement itself.
	assert.Equal(t, cells, TraceLine(cells[0], cells[2]))
}

func TestFitsAllowsSharedLetters(t *testing.T) {
	g := NewGrid(5)
	g.Cells[0][2].Letter = 'T'

	cells, ok := fits(g, "TOP", Coord{Row: 0, Col: 2}, Directions[2])
	require.True(t, ok)
	assert.Equal(t, []Coord{{0, 2}, {1, 2}, {2, 2}}, cells)

	_, ok = fits(g, "CAR", Coord{Row: 0, Col: 0}, Directions[0])
	assert.False(t, ok, "R must not overwrite T")

	_, ok = fits(g, "CAT", Coord{Row: 0, Col: 4}, Directions[0])
	assert.False(t, ok, "runs off the right edge")

	_, ok = fits(g, "CAT", Coord{Row: 1, Col: 1}, Directions[5])
	assert.False(t, ok, "runs off the top-left corner")
}

func TestNewPlacerDefaults(t *testing.T) {
	p := NewPlacer(0, 0, rand.New(rand.NewSource(1)), zerolog.Nop())
	assert.Equal(t, DefaultSize, p.Size)
	assert.Equal(t, DefaultRetries, p.Retries)
}
