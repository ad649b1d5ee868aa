package provider

import "context"

// Provider is the base interface all speech-to-text providers implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider can take transcription
	// requests right now. It must fail closed: any doubt means false.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from raw configuration. Factories
// must reject configuration maps with unknown keys.
type Factory[T Provider] func(cfg map[string]any) (T, error)
