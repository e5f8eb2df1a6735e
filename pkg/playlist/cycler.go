// Package playlist hands out audio files to one session without repeating any
// file until every file of the current shuffle has been served.
package playlist

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"audio-eval-be/pkg/store"
)

var ErrNoFiles = errors.New("no audio files available")

// Step is the outcome of one Advance call.
type Step struct {
	File string
	// CycleComplete is true on the call that consumed the last file of the shuffle.
	CycleComplete bool
	// Reinitialized is true when this call had to start a new shuffle first.
	Reinitialized bool
}

// Cycler is stateless apart from its random source; all mutable state lives in
// the *store.PlaylistState passed to each call.
type Cycler struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewCycler uses rng for shuffling. A nil rng gets a randomly seeded PCG.
func NewCycler(rng *rand.Rand) *Cycler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Cycler{rng: rng, now: time.Now}
}

// Initialize starts a new cycle from files. all_files and remaining_files get
// independent copies; remaining_files is shuffled uniformly.
func (c *Cycler) Initialize(state *store.PlaylistState, files []string) {
	state.AllFiles = append([]string{}, files...)
	state.RemainingFiles = append([]string{}, files...)
	state.PlayedFiles = []string{}
	state.CurrentFile = nil
	state.Initialized = true
	state.Cycle++
	state.UpdatedAt = c.now()

	c.mu.Lock()
	c.rng.Shuffle(len(state.RemainingFiles), func(i, j int) {
		state.RemainingFiles[i], state.RemainingFiles[j] = state.RemainingFiles[j], state.RemainingFiles[i]
	})
	c.mu.Unlock()
}

// Advance serves the next file. When the queue is empty it starts a new cycle
// from live, the current listing of the source. A cycle in progress keeps its
// snapshot even if live has changed.
func (c *Cycler) Advance(state *store.PlaylistState, live []string) (Step, error) {
	var step Step

	if len(state.RemainingFiles) == 0 {
		if len(live) == 0 {
			return Step{}, ErrNoFiles
		}
		c.Initialize(state, live)
		step.Reinitialized = true
	}

	next := state.RemainingFiles[0]
	state.RemainingFiles = state.RemainingFiles[1:]

	if state.CurrentFile != nil {
		state.PlayedFiles = append(state.PlayedFiles, *state.CurrentFile)
	}
	state.CurrentFile = &next
	state.UpdatedAt = c.now()

	step.File = next
	step.CycleComplete = len(state.RemainingFiles) == 0
	return step, nil
}
