package whisper

import "sort"

// Capability names a task a model can perform.
type Capability string

const (
	// CapabilityTranscribe produces text in the spoken language.
	CapabilityTranscribe Capability = "transcribe"
	// CapabilityTranslate produces English text from any spoken language.
	CapabilityTranslate Capability = "translate"
)

// DefaultModelID is used when configuration names no model.
const DefaultModelID = "base"

// ModelInfo describes one catalog entry.
type ModelInfo struct {
	// ID is the model identifier as the inference service knows it.
	ID string `json:"id"`
	// Multilingual reports whether the model handles non-English audio.
	Multilingual bool `json:"multilingual"`
	// Parameters is the approximate parameter count, for display.
	Parameters string `json:"parameters"`
}

// Capabilities returns the tasks this model supports. English-only models
// cannot translate.
func (m ModelInfo) Capabilities() []Capability {
	if m.Multilingual {
		return []Capability{CapabilityTranscribe, CapabilityTranslate}
	}
	return []Capability{CapabilityTranscribe}
}

// Supports reports whether the model advertises the given capability.
func (m ModelInfo) Supports(c Capability) bool {
	for _, have := range m.Capabilities() {
		if have == c {
			return true
		}
	}
	return false
}

// catalog mirrors the faster-whisper model families. The .en variants are
// English-only distillations of their multilingual siblings.
var catalog = map[string]ModelInfo{
	"tiny":           {ID: "tiny", Multilingual: true, Parameters: "39M"},
	"tiny.en":        {ID: "tiny.en", Multilingual: false, Parameters: "39M"},
	"base":           {ID: "base", Multilingual: true, Parameters: "74M"},
	"base.en":        {ID: "base.en", Multilingual: false, Parameters: "74M"},
	"small":          {ID: "small", Multilingual: true, Parameters: "244M"},
	"small.en":       {ID: "small.en", Multilingual: false, Parameters: "244M"},
	"medium":         {ID: "medium", Multilingual: true, Parameters: "769M"},
	"medium.en":      {ID: "medium.en", Multilingual: false, Parameters: "769M"},
	"large-v2":       {ID: "large-v2", Multilingual: true, Parameters: "1550M"},
	"large-v3":       {ID: "large-v3", Multilingual: true, Parameters: "1550M"},
	"large-v3-turbo": {ID: "large-v3-turbo", Multilingual: true, Parameters: "809M"},
}

// Models returns the full catalog sorted by model ID.
func Models() []ModelInfo {
	models := make([]ModelInfo, 0, len(catalog))
	for _, info := range catalog {
		models = append(models, info)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models
}

// Lookup returns the catalog entry for the given model ID.
func Lookup(id string) (ModelInfo, bool) {
	info, ok := catalog[id]
	return info, ok
}
