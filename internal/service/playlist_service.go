package service

import (
	"context"
	"net/url"

	"audio-eval-be/internal/dto"
	"audio-eval-be/internal/observability"
	"audio-eval-be/internal/pkg/logger"
	"audio-eval-be/pkg/formurl"
	"audio-eval-be/pkg/playlist"
	"audio-eval-be/pkg/session"
	"audio-eval-be/pkg/source"
	"audio-eval-be/pkg/store"
)

const unknownMetadata = "Unknown"

type IPlaylistService interface {
	Page(ctx context.Context, sessionID string) (*dto.PageView, error)
	// Next returns playlist.ErrNoFiles when the provider has nothing to serve.
	Next(ctx context.Context, sessionID string) (*dto.NextAudioResponse, error)
	Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
	Reset(ctx context.Context, sessionID string) error
	Metadata(ctx context.Context, filename string) *dto.MetadataResponse
}

type playlistService struct {
	source        source.Source
	sessions      *session.Manager
	cycler        *playlist.Cycler
	forms         *formurl.Builder
	audioBasePath string
	metrics       *observability.Metrics
	logger        logger.ILogger
}

// NewPlaylistService serves files from src. audioBasePath is the URL prefix
// the browser fetches audio from ("/static/" or "/audio/").
func NewPlaylistService(
	src source.Source,
	sessions *session.Manager,
	cycler *playlist.Cycler,
	forms *formurl.Builder,
	audioBasePath string,
	metrics *observability.Metrics,
	log logger.ILogger,
) IPlaylistService {
	return &playlistService{
		source:        src,
		sessions:      sessions,
		cycler:        cycler,
		forms:         forms,
		audioBasePath: audioBasePath,
		metrics:       metrics,
		logger:        log,
	}
}

func (s *playlistService) Page(ctx context.Context, sessionID string) (*dto.PageView, error) {
	state, err := s.sessions.LoadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !state.Initialized || state.CurrentFile == nil {
		names := listNames(ctx, s.source, s.metrics, s.logger)
		if !state.Initialized {
			s.cycler.Initialize(state, names)
			s.logger.Info("Playlist", "Session initialized", map[string]interface{}{
				"session_id": sessionID,
				"files":      len(names),
			})
		}
		if state.CurrentFile == nil {
			// an empty source leaves the page without a file
			if step, err := s.cycler.Advance(state, names); err == nil {
				s.metrics.AudioServed(step.CycleComplete)
			}
		}
		if err := s.sessions.Save(ctx, state); err != nil {
			return nil, err
		}
	}

	current := state.Current()
	view := &dto.PageView{
		AudioFile:        current,
		FormURL:          s.forms.EmbedURL(current),
		Subfolders:       subfolders(ctx, s.source),
		SamplesEvaluated: len(state.PlayedFiles),
		TotalSamples:     len(state.AllFiles),
		RemainingSamples: len(state.RemainingFiles),
		Cycle:            state.Cycle,
	}
	if current != "" {
		view.AudioURL = s.audioURL(current)
	}
	return view, nil
}

func (s *playlistService) Next(ctx context.Context, sessionID string) (*dto.NextAudioResponse, error) {
	state, err := s.sessions.LoadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	names := listNames(ctx, s.source, s.metrics, s.logger)
	step, err := s.cycler.Advance(state, names)
	if err != nil {
		s.logger.Warn("Playlist", "No audio files to serve", map[string]interface{}{
			"session_id": sessionID,
			"provider":   s.source.Name(),
		})
		return nil, err
	}

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, err
	}
	s.metrics.AudioServed(step.CycleComplete)

	if step.Reinitialized {
		s.logger.Info("Playlist", "New cycle started", map[string]interface{}{
			"session_id": sessionID,
			"cycle":      state.Cycle,
			"files":      len(state.AllFiles),
		})
	}
	if step.CycleComplete {
		s.logger.Info("Playlist", "Cycle complete", map[string]interface{}{
			"session_id": sessionID,
			"cycle":      state.Cycle,
			"files":      len(state.AllFiles),
		})
	}

	return &dto.NextAudioResponse{
		AudioFile:        step.File,
		AudioURL:         s.audioURL(step.File),
		SamplesEvaluated: len(state.PlayedFiles),
		TotalSamples:     len(state.AllFiles),
		RemainingSamples: len(state.RemainingFiles),
		CycleComplete:    step.CycleComplete,
		FormURL:          s.forms.EmbedURL(step.File),
	}, nil
}

func (s *playlistService) Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	state, err := s.sessions.LoadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return progressOf(state), nil
}

func (s *playlistService) Reset(ctx context.Context, sessionID string) error {
	state, err := s.sessions.Reset(ctx, sessionID)
	if err != nil {
		return err
	}

	names := listNames(ctx, s.source, s.metrics, s.logger)
	s.cycler.Initialize(state, names)
	if err := s.sessions.Save(ctx, state); err != nil {
		return err
	}

	s.logger.Info("Playlist", "Session reset", map[string]interface{}{
		"session_id": sessionID,
		"files":      len(names),
	})
	return nil
}

func (s *playlistService) Metadata(ctx context.Context, filename string) *dto.MetadataResponse {
	return &dto.MetadataResponse{
		Filename:        filename,
		Duration:        unknownMetadata,
		Language:        unknownMetadata,
		SpeakerId:       unknownMetadata,
		GenerationModel: unknownMetadata,
	}
}

func (s *playlistService) audioURL(name string) string {
	return s.audioBasePath + url.PathEscape(name)
}

func progressOf(state *store.PlaylistState) *dto.ProgressResponse {
	return &dto.ProgressResponse{
		SamplesEvaluated: len(state.PlayedFiles),
		TotalSamples:     len(state.AllFiles),
		RemainingSamples: len(state.RemainingFiles),
		CurrentFile:      state.CurrentFile,
		PlayedFiles:      append([]string{}, state.PlayedFiles...),
		Cycle:            state.Cycle,
	}
}

// listNames asks the provider for its files. Failures are logged and counted;
// whatever the provider still returned (stale cache or nothing) is used.
func listNames(ctx context.Context, src source.Source, metrics *observability.Metrics, log logger.ILogger) []string {
	res := src.ListFiles(ctx)
	if !res.OK() {
		metrics.SourceError(src.Name(), res.Stale)
		log.Error("Source", "File listing failed", map[string]interface{}{
			"provider":       src.Name(),
			"location":       src.Location(),
			"error":          res.Err.Error(),
			"stale":          res.Stale,
			"files_returned": len(res.Files),
		})
	}
	return res.Names()
}

func subfolders(ctx context.Context, src source.Source) []string {
	if fl, ok := src.(source.FolderLister); ok {
		return fl.Subfolders(ctx)
	}
	return []string{"default"}
}
