package exam

// Kind distinguishes the two question families.
type Kind string

const (
	KindAddition       Kind = "addition"
	KindMultiplication Kind = "multiplication"
)

// Level is one row of the fixed difficulty table. Addition levels are shaped
// by operand digit width and row count; multiplication levels by the digit
// pairing of their two factors.
type Level struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"desc"`
	Kind        Kind   `json:"kind"`

	// Addition shape.
	Digits int `json:"-"`
	Rows   int `json:"-"`

	// Multiplication factor ranges, inclusive.
	Factor1Min int `json:"-"`
	Factor1Max int `json:"-"`
	Factor2Min int `json:"-"`
	Factor2Max int `json:"-"`
}

var levels = []Level{
	{ID: "junior", Label: "Junior", Description: "1-digit, 3-5 rows", Kind: KindAddition, Digits: 1, Rows: 3},
	{ID: "1", Label: "Level 1", Description: "1-digit, 5-8 rows", Kind: KindAddition, Digits: 1, Rows: 6},
	{ID: "2", Label: "Level 2", Description: "2-digit, 3-5 rows", Kind: KindAddition, Digits: 2, Rows: 4},
	{ID: "3", Label: "Level 3", Description: "2-digit, 5-8 rows", Kind: KindAddition, Digits: 2, Rows: 6},
	{ID: "4", Label: "Level 4", Description: "3-digit, 3-5 rows", Kind: KindAddition, Digits: 3, Rows: 4},
	{ID: "5", Label: "Level 5", Description: "3-digit, 5-8 rows", Kind: KindAddition, Digits: 3, Rows: 6},
	{ID: "6", Label: "Level 6", Description: "Mixed 2/3-digits", Kind: KindAddition, Digits: 3, Rows: 8},
	{ID: "7", Label: "Level 7", Description: "Mixed 3/4-digits", Kind: KindAddition, Digits: 4, Rows: 8},
	{ID: "8", Label: "Level 8", Description: "Multiplication (2x1)", Kind: KindMultiplication, Factor1Min: 10, Factor1Max: 99, Factor2Min: 2, Factor2Max: 9},
	{ID: "9", Label: "Level 9", Description: "Multiplication (3x1)", Kind: KindMultiplication, Factor1Min: 100, Factor1Max: 999, Factor2Min: 2, Factor2Max: 9},
	{ID: "10", Label: "Level 10", Description: "Advanced Mixed", Kind: KindMultiplication, Factor1Min: 10, Factor1Max: 99, Factor2Min: 10, Factor2Max: 99},
}

var levelsByID = func() map[string]Level {
	m := make(map[string]Level, len(levels))
	for _, l := range levels {
		m[l.ID] = l
	}
	return m
}()

// Levels returns the full difficulty table in display order.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelByID looks up a level by its id.
func LevelByID(id string) (Level, bool) {
	l, ok := levelsByID[id]
	return l, ok
}
