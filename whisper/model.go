package whisper

import (
	"context"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/transcribe"
)

// Transcriber is the client seam the model facade sends requests through.
type Transcriber interface {
	Transcribe(ctx context.Context, req transcribe.Request) (*transcribe.Result, error)
}

// Options are the per-call transcription options. Zero-valued fields fall
// back to the model's defaults.
type Options struct {
	// Language is the expected audio language, or "auto" for detection.
	Language string
	// Task selects transcription or translation.
	Task transcribe.Task
	// WordTimestamps requests per-word timing.
	WordTimestamps bool
}

// Model is a facade bound to one catalog entry. It merges call options over
// the model defaults, gates unsupported tasks before any upload, and stamps
// the model ID onto every request.
type Model struct {
	info     ModelInfo
	client   Transcriber
	defaults Options
}

// ID returns the model identifier.
func (m *Model) ID() string { return m.info.ID }

// Info returns the catalog entry this model is bound to.
func (m *Model) Info() ModelInfo { return m.info }

// Transcribe runs one transcription call through the bound client.
func (m *Model) Transcribe(ctx context.Context, audio []byte, filename string, opts *Options) (*transcribe.Result, error) {
	merged := m.defaults
	if opts != nil {
		if opts.Language != "" {
			merged.Language = opts.Language
		}
		if opts.Task != "" {
			merged.Task = opts.Task
		}
		if opts.WordTimestamps {
			merged.WordTimestamps = true
		}
	}
	if merged.Task == "" {
		merged.Task = transcribe.TaskTranscribe
	}

	if merged.Task == transcribe.TaskTranslate && !m.info.Supports(CapabilityTranslate) {
		return nil, errors.UnsupportedCapability(m.info.ID, string(merged.Task))
	}
	if !m.info.Multilingual && merged.Language != "" && merged.Language != transcribe.LanguageAuto && merged.Language != "en" {
		return nil, errors.UnsupportedCapability(m.info.ID, "language:"+merged.Language).
			WithDetail("language", merged.Language)
	}

	return m.client.Transcribe(ctx, transcribe.Request{
		Audio:          audio,
		Filename:       filename,
		Language:       merged.Language,
		Task:           merged.Task,
		WordTimestamps: merged.WordTimestamps,
		Model:          m.info.ID,
	})
}
