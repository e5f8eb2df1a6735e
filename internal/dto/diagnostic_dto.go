package dto

type DiagnosticResponse struct {
	Status   string             `json:"status"`
	Source   SourceDiagnostic   `json:"source"`
	Form     FormDiagnostic     `json:"form"`
	Session  SessionDiagnostic  `json:"session"`
	Feedback FeedbackDiagnostic `json:"feedback"`
}

type SourceDiagnostic struct {
	Provider      string   `json:"provider"`
	Location      string   `json:"location"`
	FilesFound    int      `json:"files_found"`
	SampleFiles   []string `json:"sample_files"`
	Error         string   `json:"error,omitempty"`
	Stale         bool     `json:"stale"`
	CacheDuration string   `json:"cache_duration,omitempty"`
	FetchedAt     string   `json:"fetched_at,omitempty"`
}

type FormDiagnostic struct {
	Configured bool   `json:"configured"`
	Prefills   bool   `json:"prefills_filename"`
	SampleURL  string `json:"sample_url,omitempty"`
}

type SessionDiagnostic struct {
	ID               string `json:"id"`
	Phase            string `json:"phase"`
	SamplesEvaluated int    `json:"samples_evaluated"`
	TotalSamples     int    `json:"total_samples"`
	RemainingSamples int    `json:"remaining_samples"`
	ActiveSessions   int    `json:"active_sessions"`
}

type FeedbackDiagnostic struct {
	File            string         `json:"file"`
	StoredRecords   int            `json:"stored_records"`
	SubmittedByFile map[string]int `json:"submitted_since_start"`
}
