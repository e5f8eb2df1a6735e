package service

import (
	"context"
	"io"

	"audio-eval-be/internal/observability"
	"audio-eval-be/internal/pkg/logger"
	"audio-eval-be/pkg/source"
)

type IAudioService interface {
	// Open streams a listed file. Names not in the current listing yield
	// source.ErrFileNotFound.
	Open(ctx context.Context, filename string) (io.ReadCloser, string, error)
}

type audioService struct {
	source  source.Source
	metrics *observability.Metrics
	logger  logger.ILogger
}

func NewAudioService(src source.Source, metrics *observability.Metrics, log logger.ILogger) IAudioService {
	return &audioService{
		source:  src,
		metrics: metrics,
		logger:  log,
	}
}

func (s *audioService) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	res := s.source.ListFiles(ctx)
	if !res.OK() {
		s.metrics.SourceError(s.source.Name(), res.Stale)
	}

	file, ok := res.Find(filename)
	if !ok {
		return nil, "", source.ErrFileNotFound
	}

	body, contentType, err := s.source.Open(ctx, file)
	if err != nil {
		s.logger.Error("Audio", "Failed to open audio file", map[string]interface{}{
			"provider": s.source.Name(),
			"filename": filename,
			"error":    err.Error(),
		})
		return nil, "", err
	}
	return body, contentType, nil
}
