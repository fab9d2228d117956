package gemini

import "testing"

func TestKnownModelsNotEmpty(t *testing.T) {
	if len(KnownModels) == 0 {
		t.Fatal("expected at least one known model")
	}
	for _, id := range KnownModels {
		if id == "" {
			t.Fatal("expected no empty model ids in catalog")
		}
	}
}
