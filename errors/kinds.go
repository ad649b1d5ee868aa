package errors

// Kind is a machine-readable error classification.
type Kind string

// Request validation errors (detected before any I/O).
const (
	// KindUnsupportedFormat indicates the audio filename extension is outside
	// the supported input set.
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	// KindPayloadTooLarge indicates the audio payload exceeds the size limit.
	KindPayloadTooLarge Kind = "PAYLOAD_TOO_LARGE"
	// KindUnsupportedCapability indicates the bound model does not advertise
	// the requested task.
	KindUnsupportedCapability Kind = "UNSUPPORTED_CAPABILITY"
)

// Transport/availability errors (retryable).
const (
	// KindServiceUnavailable indicates the service is not Running, the
	// endpoint is missing, or all transport retries were exhausted.
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
)

// Remote application errors (terminal, never retried).
const (
	// KindInvalidRequest indicates a request the service cannot take: a
	// remote 4xx rejection (bad language code, malformed options) or a
	// request body that could not be built locally.
	KindInvalidRequest Kind = "INVALID_REQUEST"
	// KindMalformedResponse indicates a 2xx response whose body could not be
	// parsed or is missing required fields.
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
)

// Lifecycle errors.
const (
	// KindEndpointUnavailable indicates the service reported zero exposed
	// ports at resolution time.
	KindEndpointUnavailable Kind = "ENDPOINT_UNAVAILABLE"
	// KindLifecycle indicates a start/stop orchestration failure.
	KindLifecycle Kind = "LIFECYCLE_ERROR"
)

var retryableKinds = map[Kind]bool{
	KindServiceUnavailable: true,
}

// IsRetryableKind reports whether the kind indicates a transport-class
// failure that may succeed on a later attempt.
func IsRetryableKind(kind Kind) bool {
	return retryableKinds[kind]
}
