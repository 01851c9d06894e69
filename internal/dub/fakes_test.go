package dub

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Lyn123456-cs/VideoTranslator/internal/media"
)

// fakeToolset stands in for ffmpeg. It records calls and fabricates
// output files so the pipeline's file checks hold.
type fakeToolset struct {
	mu sync.Mutex

	videoDuration   time.Duration
	naturalDuration time.Duration
	probeErr        error

	adjustPlans []media.AdjustPlan
	adjustErr   error

	mixClips    []media.MixClip
	mixTotal    time.Duration
	mixCalls    int
	mixErr      error

	burnCalls int
	burnErr   error

	muxCalls  int
	muxOutput string
	muxErr    error
	muxErrFor string // fail the mux only for outputs containing this marker
}

func newFakeToolset() *fakeToolset {
	return &fakeToolset{
		videoDuration:   60 * time.Second,
		naturalDuration: 2 * time.Second,
	}
}

func (f *fakeToolset) ProbeDuration(_ context.Context, path string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	if _, err := os.Stat(path); err == nil {
		// clip probes hit real temp files; the video path does not exist
		return f.naturalDuration, nil
	}
	return f.videoDuration, nil
}

func (f *fakeToolset) AdjustSegment(_ context.Context, _, output string, plan media.AdjustPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.adjustPlans = append(f.adjustPlans, plan)
	return os.WriteFile(output, []byte("clip"), 0644)
}

func (f *fakeToolset) MixSegments(_ context.Context, clips []media.MixClip, total time.Duration, output string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mixCalls++
	if f.mixErr != nil {
		return f.mixErr
	}
	f.mixClips = append([]media.MixClip(nil), clips...)
	f.mixTotal = total
	return os.WriteFile(output, []byte("mixed"), 0644)
}

func (f *fakeToolset) BurnSubtitles(_ context.Context, _, _, output string, _ media.BurnStyle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.burnCalls++
	if f.burnErr != nil {
		return f.burnErr
	}
	return os.WriteFile(output, []byte("video"), 0644)
}

func (f *fakeToolset) MuxAudio(_ context.Context, _, _, output string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muxCalls++
	if f.muxErr != nil {
		return f.muxErr
	}
	if f.muxErrFor != "" && strings.Contains(output, f.muxErrFor) {
		return errors.New("mux failed: exit status 1")
	}
	f.muxOutput = output
	return os.WriteFile(output, []byte("final"), 0644)
}

// stubEngine implements tts.Engine with canned behavior
type stubEngine struct {
	mu       sync.Mutex
	name     string
	failures int // fail this many calls before succeeding
	calls    int
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("engine unavailable")
	}
	return make([]byte, 4096), nil
}
