// Package resilience provides bounded retry with configurable backoff for
// transport-class failures. Validation and application errors must never be
// retried; callers express that through the RetryIf predicate.
package resilience
