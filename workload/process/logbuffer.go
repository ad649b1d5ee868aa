package process

import (
	"bytes"
	"sync"
)

// logBuffer is an io.Writer that keeps the most recent output lines of the
// child process for diagnostics.
type logBuffer struct {
	mu      sync.Mutex
	lines   []string
	partial bytes.Buffer
	max     int
}

func newLogBuffer(max int) *logBuffer {
	return &logBuffer{max: max}
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.partial.Write(p)
	for {
		data := b.partial.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		b.appendLine(string(bytes.TrimRight(data[:idx], "\r")))
		b.partial.Next(idx + 1)
	}
	return len(p), nil
}

func (b *logBuffer) appendLine(line string) {
	b.lines = append(b.lines, line)
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
}

// tail returns up to n most recent complete lines, oldest first.
func (b *logBuffer) tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n <= 0 || len(b.lines) == 0 {
		return nil
	}
	if n > len(b.lines) {
		n = len(b.lines)
	}
	out := make([]string, n)
	copy(out, b.lines[len(b.lines)-n:])
	return out
}
