package transcribe

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/whisperbox/errors"
)

// MaxAudioBytes is the maximum accepted audio payload size.
const MaxAudioBytes = 25 << 20 // 25 MB

var supportedFormats = map[string]bool{
	"mp3":  true,
	"wav":  true,
	"flac": true,
	"m4a":  true,
	"ogg":  true,
	"wma":  true,
	"aac":  true,
	"opus": true,
	"webm": true,
}

// SupportedFormats returns the accepted audio file extensions, sorted.
func SupportedFormats() []string {
	formats := make([]string, 0, len(supportedFormats))
	for f := range supportedFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// normalizeExt extracts the lowercase extension without the leading dot.
func normalizeExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// validate checks the request before any network I/O and applies defaults.
// Order: format, then size; both fail fast with their own error kind.
func validate(req *Request) error {
	ext := normalizeExt(req.Filename)
	if !supportedFormats[ext] {
		return errors.UnsupportedFormat(ext, SupportedFormats())
	}

	if int64(len(req.Audio)) > MaxAudioBytes {
		return errors.PayloadTooLarge(int64(len(req.Audio)), MaxAudioBytes)
	}

	if req.Language == "" {
		req.Language = LanguageAuto
	}
	if req.Task == "" {
		req.Task = TaskTranscribe
	}
	return nil
}
