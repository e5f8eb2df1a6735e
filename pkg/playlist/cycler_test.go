package playlist

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"audio-eval-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCycler(seed uint64) *Cycler {
	return NewCycler(rand.New(rand.NewPCG(seed, seed+1)))
}

func makeFiles(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("sample_%02d.wav", i)
	}
	return files
}

func TestAdvanceVisitsEveryFileOnce(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 57} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			c := newTestCycler(uint64(n))
			files := makeFiles(n)
			state := store.NewPlaylistState("s")
			c.Initialize(state, files)

			seen := make(map[string]bool)
			for i := 0; i < n; i++ {
				step, err := c.Advance(state, files)
				require.NoError(t, err)
				assert.False(t, seen[step.File], "file %s served twice within one cycle", step.File)
				seen[step.File] = true
			}
			assert.Len(t, seen, n)
		})
	}
}

func TestInitializeThenAdvanceAll(t *testing.T) {
	c := newTestCycler(7)
	files := makeFiles(5)
	state := store.NewPlaylistState("s")

	c.Initialize(state, files)
	assert.Equal(t, store.PhaseActive, state.Phase())
	assert.Equal(t, files, state.AllFiles)
	assert.ElementsMatch(t, files, state.RemainingFiles)
	assert.Empty(t, state.PlayedFiles)
	assert.Nil(t, state.CurrentFile)

	var last string
	for range files {
		step, err := c.Advance(state, files)
		require.NoError(t, err)
		last = step.File
	}

	assert.Empty(t, state.RemainingFiles)
	assert.Len(t, state.PlayedFiles, len(files)-1)
	assert.Equal(t, last, state.Current())
	assert.NotContains(t, state.PlayedFiles, last)
	assert.Equal(t, store.PhaseExhausted, state.Phase())
}

func TestInitializeCopiesInput(t *testing.T) {
	c := newTestCycler(1)
	files := []string{"a.wav", "b.wav", "c.wav"}
	state := store.NewPlaylistState("s")

	c.Initialize(state, files)
	files[0] = "mutated.wav"

	assert.NotContains(t, state.AllFiles, "mutated.wav")
	assert.NotContains(t, state.RemainingFiles, "mutated.wav")

	state.RemainingFiles[0] = "other.wav"
	assert.NotContains(t, state.AllFiles, "other.wav")
}

func TestCycleCompleteAndRestart(t *testing.T) {
	c := newTestCycler(42)
	files := []string{"A", "B", "C"}
	state := store.NewPlaylistState("s")
	c.Initialize(state, files)

	var first []string
	for i := 0; i < 3; i++ {
		step, err := c.Advance(state, files)
		require.NoError(t, err)
		first = append(first, step.File)
		assert.Equal(t, i == 2, step.CycleComplete, "cycle_complete on call %d", i+1)
		assert.False(t, step.Reinitialized)
	}
	sorted := append([]string{}, first...)
	sort.Strings(sorted)
	assert.Equal(t, files, sorted)
	assert.Equal(t, 1, state.Cycle)

	step, err := c.Advance(state, files)
	require.NoError(t, err)
	assert.True(t, step.Reinitialized)
	assert.False(t, step.CycleComplete)
	assert.Contains(t, files, step.File)
	assert.Equal(t, 2, state.Cycle)
	assert.Len(t, state.RemainingFiles, 2)
	assert.Empty(t, state.PlayedFiles)
}

func TestAdvanceUninitializedStartsCycle(t *testing.T) {
	c := newTestCycler(3)
	state := store.NewPlaylistState("s")
	assert.Equal(t, store.PhaseUninitialized, state.Phase())
	assert.Equal(t, 0, state.Cycle)

	step, err := c.Advance(state, []string{"only.wav"})
	require.NoError(t, err)
	assert.Equal(t, "only.wav", step.File)
	assert.True(t, step.Reinitialized)
	assert.True(t, step.CycleComplete)
	// the first shuffle is cycle 1 even though it has just completed
	assert.Equal(t, 1, state.Cycle)
}

func TestAdvanceWithNoFiles(t *testing.T) {
	c := newTestCycler(9)
	state := store.NewPlaylistState("s")

	// the provider failing twice in a row with nothing cached
	for i := 0; i < 2; i++ {
		_, err := c.Advance(state, nil)
		assert.ErrorIs(t, err, ErrNoFiles)
	}

	c.Initialize(state, []string{})
	assert.Equal(t, store.PhaseExhausted, state.Phase())
	_, err := c.Advance(state, []string{})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestMidCycleSourceChangeIsIgnored(t *testing.T) {
	c := newTestCycler(11)
	state := store.NewPlaylistState("s")
	c.Initialize(state, []string{"a", "b"})

	_, err := c.Advance(state, []string{"a", "b"})
	require.NoError(t, err)

	step, err := c.Advance(state, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Contains(t, []string{"a", "b"}, step.File)
	assert.True(t, step.CycleComplete)

	step, err = c.Advance(state, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Contains(t, []string{"x", "y", "z"}, step.File)
	assert.Equal(t, []string{"x", "y", "z"}, state.AllFiles)
}

func TestShuffleIsUniformish(t *testing.T) {
	c := newTestCycler(2024)
	files := []string{"a", "b", "c"}
	counts := make(map[string]int)

	const rounds = 6000
	for i := 0; i < rounds; i++ {
		state := store.NewPlaylistState("s")
		c.Initialize(state, files)
		counts[state.RemainingFiles[0]]++
	}

	for _, f := range files {
		share := float64(counts[f]) / rounds
		assert.InDelta(t, 1.0/3.0, share, 0.05, "first position share for %s", f)
	}
}
