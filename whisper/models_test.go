package whisper

import (
	"sort"
	"strings"
	"testing"
)

func TestModels_SortedCatalog(t *testing.T) {
	models := Models()
	if len(models) == 0 {
		t.Fatal("expected non-empty catalog")
	}
	if !sort.SliceIsSorted(models, func(i, j int) bool { return models[i].ID < models[j].ID }) {
		t.Error("expected models sorted by ID")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("base"); !ok {
		t.Error("expected base model in catalog")
	}
	if _, ok := Lookup("gigantic-v9"); ok {
		t.Error("expected unknown model to miss")
	}
}

func TestModelInfo_EnglishOnlyCannotTranslate(t *testing.T) {
	for _, info := range Models() {
		englishOnly := strings.HasSuffix(info.ID, ".en")
		if englishOnly == info.Multilingual {
			t.Errorf("model %s: multilingual flag inconsistent with .en suffix", info.ID)
		}
		if got := info.Supports(CapabilityTranslate); got == englishOnly {
			t.Errorf("model %s: Supports(translate) = %v", info.ID, got)
		}
		if !info.Supports(CapabilityTranscribe) {
			t.Errorf("model %s: every model must transcribe", info.ID)
		}
	}
}

func TestDefaultModelInCatalog(t *testing.T) {
	if _, ok := Lookup(DefaultModelID); !ok {
		t.Fatalf("default model %q missing from catalog", DefaultModelID)
	}
}
