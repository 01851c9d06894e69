package tts

import (
	"context"
	"errors"
)

// Engine turns text into raw audio bytes for one voice.
// Implementations fail with transient network errors or return
// undersized audio when the upstream silently produced nothing.
type Engine interface {
	Name() string
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ErrEmptyResult marks a synthesis call that returned no usable audio
var ErrEmptyResult = errors.New("engine returned empty audio")
