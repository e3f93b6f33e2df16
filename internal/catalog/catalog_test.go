package catalog

import (
	"testing"

	"github.com/parleyhq/parley/internal/infra/llm"
)

func TestList_CoversEveryServableModel(t *testing.T) {
	t.Parallel()

	list := List()
	if len(list) != len(llm.Models()) {
		t.Fatalf("len = %d; want %d", len(list), len(llm.Models()))
	}
	for _, m := range list {
		if !llm.Supported(m.ID) {
			t.Errorf("catalog offers unservable model %q", m.ID)
		}
		if m.Name == "" {
			t.Errorf("%s: empty display name", m.ID)
		}
		if m.Provider != llm.ProviderOpenAI && m.Provider != llm.ProviderAnthropic {
			t.Errorf("%s: unexpected provider %q", m.ID, m.Provider)
		}
	}
}

func TestList_StableOrder(t *testing.T) {
	t.Parallel()

	a, b := List(), List()
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("order not stable at %d: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestByProvider(t *testing.T) {
	t.Parallel()

	groups := ByProvider()
	if len(groups[llm.ProviderOpenAI]) != 5 {
		t.Errorf("openai group = %d; want 5", len(groups[llm.ProviderOpenAI]))
	}
	if len(groups[llm.ProviderAnthropic]) != 3 {
		t.Errorf("anthropic group = %d; want 3", len(groups[llm.ProviderAnthropic]))
	}
}
