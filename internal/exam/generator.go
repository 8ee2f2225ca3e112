package exam

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Question is the server-side representation of one exam question, answer
// included. It must never leave the process in this form; clients only ever
// see the sanitized view built by the orchestrator.
type Question struct {
	ID         string
	Type       Kind
	Numbers    []int  // signed operands for addition; subtraction folded in as negatives
	Expression string // display expression for multiplication, e.g. "34 × 7"
	Answer     int
	Options    []int // exactly 4 distinct values, Answer among them, shuffled
}

const (
	optionCount = 4
	// maxDistractorDelta bounds the random perturbation applied to the answer
	// when drawing a distractor.
	maxDistractorDelta = 10
	// maxDistractorTries caps the random search before the deterministic
	// fallback takes over, so option generation always terminates.
	maxDistractorTries = 64
)

// Generator produces questions for a level. The randomness source is injected
// so tests can run with a fixed seed. Generate is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds one question for the given level id.
func (g *Generator) Generate(levelID string) (Question, error) {
	level, ok := LevelByID(levelID)
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrUnknownLevel, levelID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	q := Question{ID: uuid.NewString(), Type: level.Kind}
	switch level.Kind {
	case KindMultiplication:
		n1 := g.intn(level.Factor1Min, level.Factor1Max)
		n2 := g.intn(level.Factor2Min, level.Factor2Max)
		q.Expression = fmt.Sprintf("%d × %d", n1, n2)
		q.Answer = n1 * n2
	default:
		min, max := int(math.Pow10(level.Digits-1)), int(math.Pow10(level.Digits))-1
		if level.ID == "junior" {
			min, max = 1, 9
		}
		for i := 0; i < level.Rows; i++ {
			val := g.intn(min, max)
			// Subtraction is only offered when it keeps the running total
			// non-negative; the final running total is the answer.
			if i > 0 && g.rng.Intn(2) == 1 && q.Answer > val {
				q.Numbers = append(q.Numbers, -val)
				q.Answer -= val
			} else {
				q.Numbers = append(q.Numbers, val)
				q.Answer += val
			}
		}
	}

	q.Options = g.buildOptions(q.Answer)
	return q, nil
}

// buildOptions collects four distinct values around the answer. The random
// perturbation search is bounded; past the bound, sequential offsets fill the
// remaining slots so the loop cannot spin forever.
func (g *Generator) buildOptions(answer int) []int {
	seen := map[int]bool{answer: true}
	opts := []int{answer}

	for tries := 0; len(opts) < optionCount && tries < maxDistractorTries; tries++ {
		sign := 1
		if g.rng.Intn(2) == 1 {
			sign = -1
		}
		candidate := answer + sign*g.intn(1, maxDistractorDelta)
		if !seen[candidate] {
			seen[candidate] = true
			opts = append(opts, candidate)
		}
	}
	for offset := maxDistractorDelta + 1; len(opts) < optionCount; offset++ {
		candidate := answer + offset
		if !seen[candidate] {
			seen[candidate] = true
			opts = append(opts, candidate)
		}
	}

	g.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts
}

// intn draws uniformly from [min, max].
func (g *Generator) intn(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}
