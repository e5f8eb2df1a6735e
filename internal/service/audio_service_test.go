package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"audio-eval-be/pkg/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioOpenListedFile(t *testing.T) {
	src := newFakeSource("a.wav", "b.mp3")
	svc := NewAudioService(src, nil, newTestLogger())

	body, contentType, err := svc.Open(context.Background(), "b.mp3")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "RIFFb.mp3", string(data))
	assert.Equal(t, "audio/mpeg", contentType)
}

func TestAudioOpenUnlistedFile(t *testing.T) {
	src := newFakeSource("a.wav")
	svc := NewAudioService(src, nil, newTestLogger())

	_, _, err := svc.Open(context.Background(), "../etc/passwd")
	assert.True(t, errors.Is(err, source.ErrFileNotFound))
	assert.Empty(t, src.opens)
}

func TestAudioOpenProviderFailure(t *testing.T) {
	svc := NewAudioService(newFakeSource("broken.wav"), nil, newTestLogger())

	_, _, err := svc.Open(context.Background(), "broken.wav")
	require.Error(t, err)
	assert.False(t, errors.Is(err, source.ErrFileNotFound))
}
