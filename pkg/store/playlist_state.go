package store

import "time"

// PlaylistState is the per-session record the cycler mutates. It is owned by
// the request layer and persisted through a session repository.
type PlaylistState struct {
	ID string `json:"id"`

	// Snapshot taken by the last initialization
	AllFiles []string `json:"all_files"`

	// THE QUEUE (shuffled, consumed from the front)
	RemainingFiles []string `json:"remaining_files"`

	// Append-only within one cycle
	PlayedFiles []string `json:"played_files"`

	CurrentFile *string `json:"current_file"`

	// Ordinal of the shuffle in progress, 0 before the first initialization
	Cycle       int       `json:"cycle"`
	Initialized bool      `json:"initialized"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Phase string

const (
	PhaseUninitialized Phase = "UNINITIALIZED"
	PhaseActive        Phase = "ACTIVE"
	PhaseExhausted     Phase = "EXHAUSTED"
)

func NewPlaylistState(id string) *PlaylistState {
	return &PlaylistState{
		ID:             id,
		AllFiles:       []string{},
		RemainingFiles: []string{},
		PlayedFiles:    []string{},
	}
}

func (s *PlaylistState) Phase() Phase {
	switch {
	case !s.Initialized:
		return PhaseUninitialized
	case len(s.RemainingFiles) == 0:
		return PhaseExhausted
	default:
		return PhaseActive
	}
}

// Current returns the current file name or "" when none is selected.
func (s *PlaylistState) Current() string {
	if s.CurrentFile == nil {
		return ""
	}
	return *s.CurrentFile
}
