package transcribe

// Task selects what the remote service does with the audio.
type Task string

const (
	// TaskTranscribe produces text in the spoken language.
	TaskTranscribe Task = "transcribe"
	// TaskTranslate produces English text regardless of the spoken language.
	TaskTranslate Task = "translate"
)

// LanguageAuto asks the service to detect the spoken language.
const LanguageAuto = "auto"

// Request holds one transcription call. It is immutable once constructed
// and validated before any network I/O.
type Request struct {
	// Audio is the raw audio payload.
	Audio []byte `json:"-"`
	// Filename carries the original file name; its extension determines
	// format validation.
	Filename string `json:"filename"`
	// Language is the expected audio language, or "auto" for detection.
	Language string `json:"language,omitempty"`
	// Task selects transcription or translation.
	Task Task `json:"task,omitempty"`
	// WordTimestamps requests per-word timing from the service.
	WordTimestamps bool `json:"word_timestamps,omitempty"`
	// Model is the model identifier the bound facade selected.
	Model string `json:"model,omitempty"`
}

// Segment is a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Confidence is the per-segment confidence, if the service reports one.
	Confidence *float64 `json:"confidence,omitempty"`
}

// Result is the normalized outcome of one transcription call. Results are
// produced fresh per request and never cached.
type Result struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Language is the detected or requested language.
	Language string `json:"language"`
	// Confidence is the overall confidence, clamped to [0, 1].
	Confidence float64 `json:"confidence"`
	// Segments contains time-aligned transcript segments. Never nil; an
	// absent segments field normalizes to an empty slice.
	Segments []Segment `json:"segments"`
	// Duration is the audio duration in seconds as reported by the service.
	Duration float64 `json:"duration,omitempty"`
	// ProcessingTimeMs is the locally measured wall time of the call.
	ProcessingTimeMs int64 `json:"processing_time_ms"`
	// ModelID identifies the model that produced the result.
	ModelID string `json:"model_id"`
}
