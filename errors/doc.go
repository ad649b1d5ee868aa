// Package errors provides typed error handling for the whisperbox subsystem.
// Every failure mode crossing a package boundary carries a machine-readable
// Kind so callers can branch on cause (retry on SERVICE_UNAVAILABLE, give up
// on UNSUPPORTED_FORMAT) instead of matching on message strings.
package errors
