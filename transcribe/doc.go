// Package transcribe implements the request pipeline against the remote
// speech-to-text service: format and size validation, lifecycle gating,
// multipart upload, transport-only retry, and normalization of the remote
// response into a typed result.
//
// Validation failures are detected before any network I/O and carry their
// own error kinds; transport failures are retried per the configured policy
// and only surfaced after exhaustion.
package transcribe
