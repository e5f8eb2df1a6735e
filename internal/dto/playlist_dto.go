package dto

// Playlist API DTOs

type NextAudioResponse struct {
	AudioFile        string `json:"audio_file"`
	AudioURL         string `json:"audio_url"`
	SamplesEvaluated int    `json:"samples_evaluated"`
	TotalSamples     int    `json:"total_samples"`
	RemainingSamples int    `json:"remaining_samples"`
	CycleComplete    bool   `json:"cycle_complete"`
	FormURL          string `json:"form_url,omitempty"`
}

type ProgressResponse struct {
	SamplesEvaluated int      `json:"samples_evaluated"`
	TotalSamples     int      `json:"total_samples"`
	RemainingSamples int      `json:"remaining_samples"`
	CurrentFile      *string  `json:"current_file"`
	PlayedFiles      []string `json:"played_files"`
	Cycle            int      `json:"cycle"`
}

type MetadataRequest struct {
	Filename string `validate:"required,max=255"`
}

// MetadataResponse is a placeholder; no audio analysis is performed.
type MetadataResponse struct {
	Filename        string `json:"filename"`
	Duration        string `json:"duration"`
	Language        string `json:"language"`
	SpeakerId       string `json:"speaker_id"`
	GenerationModel string `json:"generation_model"`
}

// PageView feeds the index template.
type PageView struct {
	AudioFile        string
	AudioURL         string
	FormURL          string
	Subfolders       []string
	SamplesEvaluated int
	TotalSamples     int
	RemainingSamples int
	Cycle            int
}
