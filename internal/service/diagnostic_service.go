package service

import (
	"context"
	"time"

	"audio-eval-be/internal/dto"
	"audio-eval-be/pkg/formurl"
	"audio-eval-be/pkg/session"
	"audio-eval-be/pkg/source"
	"audio-eval-be/pkg/store"
)

const diagnosticSampleSize = 5

// FeedbackStore reports what the feedback sink holds.
type FeedbackStore interface {
	Path() string
	Count(ctx context.Context) int
}

type IDiagnosticService interface {
	Snapshot(ctx context.Context, sessionID string) *dto.DiagnosticResponse
}

type diagnosticService struct {
	source   source.Source
	sessions *session.Manager
	forms    *formurl.Builder
	feedback FeedbackStore
	consumer IConsumerService
}

// NewDiagnosticService accepts a nil consumer; the per-file tally is then empty.
func NewDiagnosticService(
	src source.Source,
	sessions *session.Manager,
	forms *formurl.Builder,
	feedback FeedbackStore,
	consumer IConsumerService,
) IDiagnosticService {
	return &diagnosticService{
		source:   src,
		sessions: sessions,
		forms:    forms,
		feedback: feedback,
		consumer: consumer,
	}
}

func (s *diagnosticService) Snapshot(ctx context.Context, sessionID string) *dto.DiagnosticResponse {
	resp := &dto.DiagnosticResponse{Status: "ok"}

	res := s.source.ListFiles(ctx)
	names := res.Names()
	sample := names
	if len(sample) > diagnosticSampleSize {
		sample = sample[:diagnosticSampleSize]
	}
	resp.Source = dto.SourceDiagnostic{
		Provider:    s.source.Name(),
		Location:    s.source.Location(),
		FilesFound:  len(names),
		SampleFiles: append([]string{}, sample...),
		Stale:       res.Stale,
	}
	if !res.FetchedAt.IsZero() {
		resp.Source.FetchedAt = res.FetchedAt.Format(time.RFC3339)
	}
	if cached, ok := s.source.(*source.CachedSource); ok {
		resp.Source.CacheDuration = cached.TTL().String()
	}
	if !res.OK() {
		resp.Status = "degraded"
		resp.Source.Error = res.Err.Error()
	}

	resp.Form = dto.FormDiagnostic{
		Configured: s.forms.Configured(),
		Prefills:   s.forms.Prefills(),
	}
	if len(names) > 0 {
		resp.Form.SampleURL = s.forms.EmbedURL(names[0])
	}

	resp.Session = dto.SessionDiagnostic{ID: sessionID, Phase: string(store.PhaseUninitialized)}
	if state, found, err := s.sessions.Find(ctx, sessionID); err == nil && found {
		resp.Session.Phase = string(state.Phase())
		resp.Session.SamplesEvaluated = len(state.PlayedFiles)
		resp.Session.TotalSamples = len(state.AllFiles)
		resp.Session.RemainingSamples = len(state.RemainingFiles)
	}
	if n, err := s.sessions.Count(ctx); err == nil {
		resp.Session.ActiveSessions = n
	}

	resp.Feedback = dto.FeedbackDiagnostic{
		File:            s.feedback.Path(),
		StoredRecords:   s.feedback.Count(ctx),
		SubmittedByFile: map[string]int{},
	}
	if s.consumer != nil {
		resp.Feedback.SubmittedByFile = s.consumer.Tally()
	}
	return resp
}
