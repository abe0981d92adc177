// Package names produces the human-readable identifiers eventgate hands out
// as session cookies.
package names

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Separator joins the word parts of a generated name.
const Separator = "-"

var letterWords = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta",
	"theta", "iota", "kappa", "lambda", "mu", "nu", "xi", "omicron",
	"pi", "rho", "sigma", "tau", "upsilon", "phi", "chi", "psi",
	"omega",
}

var colourWords = []string{
	"red", "orange", "yellow", "green", "blue", "violet",
}

// Generator yields an endless sequence of candidate names by enumerating
// Cartesian products over a letter vocabulary and a colour vocabulary.
//
// The first stage enumerates every (letter, colour) pair in product order
// after a one-time shuffle of each vocabulary. When a stage is exhausted both
// vocabularies are re-shuffled and another letter factor is appended, so the
// next stage enumerates letter×…×letter×colour with one more letter. Each
// stage is 24 times larger than the last and the sequence never terminates.
//
// Every name in stage k has k+2 parts, so the full sequence is duplicate-free
// across stages as well as within one. The generator does no uniqueness
// bookkeeping against names obtained elsewhere; that is the registry's job.
//
// Safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	letters []string
	colours []string

	// factors is the current stage's factor list. All letter factors alias
	// the same slice, so a stage-advance reshuffle reorders them together,
	// but the list is never reordered mid-stage.
	factors [][]string
	cursor  []int
}

// New returns a generator seeded from the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a generator with a deterministic shuffle order.
func NewSeeded(seed int64) *Generator {
	g := &Generator{
		rng:     rand.New(rand.NewSource(seed)),
		letters: append([]string(nil), letterWords...),
		colours: append([]string(nil), colourWords...),
	}
	g.shuffle(g.letters)
	g.shuffle(g.colours)
	g.factors = [][]string{g.letters, g.colours}
	g.cursor = []int{0, 0}
	return g
}

// Next returns the next candidate name. It never fails and never runs out.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	parts := make([]string, len(g.factors))
	for i, factor := range g.factors {
		parts[i] = factor[g.cursor[i]]
	}
	g.advance()
	return strings.Join(parts, Separator)
}

// advance steps the product cursor, last factor fastest. When the whole
// stage is exhausted it grows the factor list and starts the next stage.
func (g *Generator) advance() {
	for i := len(g.cursor) - 1; i >= 0; i-- {
		g.cursor[i]++
		if g.cursor[i] < len(g.factors[i]) {
			return
		}
		g.cursor[i] = 0
	}
	g.grow()
}

// grow re-shuffles both vocabularies and appends another letter factor.
// Aliased letter factors pick up the new order together, which is fine:
// the previous stage has already been fully enumerated.
func (g *Generator) grow() {
	g.shuffle(g.letters)
	g.shuffle(g.colours)
	g.factors = append(g.factors, g.letters)
	g.cursor = append(g.cursor, 0)
}

func (g *Generator) shuffle(words []string) {
	g.rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}
