// Package whisper is the faster-whisper provider: it binds the lifecycle
// controller, the transcription client and the model catalog into a single
// provider that can be registered and created by name.
//
// Models come from a fixed catalog. Multilingual models transcribe and
// translate; English-only models (the .en variants) only transcribe, and a
// translation request against one fails before any audio is uploaded.
package whisper
