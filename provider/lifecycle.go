package provider

import "context"

// Closeable is optionally implemented by providers that hold local resources
// requiring explicit cleanup, such as a runtime API client or pooled HTTP
// connections. Whoever constructs a provider should Close it when done.
// Closing releases handles only; it never stops a running service.
type Closeable interface {
	Close(ctx context.Context) error
}
