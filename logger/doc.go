// Package logger provides structured logging for whisperbox, built on
// zerolog. Loggers are tagged per component (lifecycle, transcribe, docker)
// and carry field maps rather than printf-style arguments.
package logger
