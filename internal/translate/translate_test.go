package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFactoryReturnsGeminiTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Vietnamese"}
	translator, err := Factory(ctx, ProviderGemini, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderGemini) returned error: %v", err)
	}
	if _, ok := translator.(*GeminiTranslator); !ok {
		t.Errorf("expected *GeminiTranslator, got %T", translator)
	}
}

func TestFactoryReturnsOpenAITranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := translator.(*OpenAITranslator); !ok {
		t.Errorf("expected *OpenAITranslator, got %T", translator)
	}
}

func TestFactoryReturnsAnthropicTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	translator, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := translator.(ConcurrentTranslator); !ok {
		t.Errorf("expected ConcurrentTranslator, got %T", translator)
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, ProviderGemini, "fake-key", Options{})
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(ctx, Provider("unknown"), "fake-key", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewTextTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "vi"}

	tests := []struct {
		provider Provider
		apiKey   string
		check    func(TextTranslator) bool
		wantErr  bool
	}{
		{ProviderGoogle, "", func(tt TextTranslator) bool {
			_, ok := tt.(*GoogleTranslator)
			return ok
		}, false},
		{ProviderDeepL, "key:fx", func(tt TextTranslator) bool {
			_, ok := tt.(*DeepLTranslator)
			return ok
		}, false},
		{ProviderDeepL, "", nil, true},
		{ProviderOpenAI, "fake-key", func(tt TextTranslator) bool {
			_, ok := tt.(*ItemAdapter)
			return ok
		}, false},
		{ProviderOpenAI, "", nil, true},
		{Provider("babel"), "key", nil, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%q", tt.provider, tt.apiKey), func(t *testing.T) {
			translator, err := NewTextTranslator(ctx, tt.provider, tt.apiKey, opts)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(translator) {
				t.Errorf("unexpected translator type %T", translator)
			}
		})
	}
}

func TestProviderAPIKeyEnv(t *testing.T) {
	if got := ProviderGemini.APIKeyEnv(); got != "GEMINI_API_KEY" {
		t.Errorf("gemini env = %q", got)
	}
	if got := ProviderGoogle.APIKeyEnv(); got != "" {
		t.Errorf("google should need no key, got %q", got)
	}
}

// upper-cases every item; fails on texts listed in failOn
type fakeBatchTranslator struct {
	calls  atomic.Int32
	failOn map[string]bool
}

func (f *fakeBatchTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	f.calls.Add(1)
	results := make([]TranslationResult, 0, len(items))
	for _, item := range items {
		if f.failOn[item.Text] {
			return nil, fmt.Errorf("cannot translate %q", item.Text)
		}
		results = append(results, TranslationResult{
			Index: item.Index,
			Text:  strings.ToUpper(item.Text),
		})
	}
	return results, nil
}

func TestItemAdapter(t *testing.T) {
	fake := &fakeBatchTranslator{failOn: map[string]bool{"bad": true}}
	adapter := NewItemAdapter(fake)
	ctx := context.Background()

	got, err := adapter.TranslateText(ctx, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "HELLO" {
		t.Errorf("got %q, want HELLO", got)
	}

	if got, err := adapter.TranslateText(ctx, ""); err != nil || got != "" {
		t.Errorf("empty text: got %q, %v", got, err)
	}

	if _, err := adapter.TranslateText(ctx, "bad"); err == nil {
		t.Error("expected error from failing translator")
	}
	if calls := fake.calls.Load(); calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func makeItems(n int) []TranslationItem {
	items := make([]TranslationItem, n)
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: fmt.Sprintf("cue %d", i)}
	}
	return items
}

func TestTranslateConcurrentKeepsOrder(t *testing.T) {
	fake := &fakeBatchTranslator{}
	items := makeItems(23)

	results, err := translateConcurrent(
		context.Background(), items, 5, 3, fake.Translate,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Text != strings.ToUpper(items[i].Text) {
			t.Errorf("result %d = %+v", i, r)
		}
	}
	if calls := fake.calls.Load(); calls != 5 {
		t.Errorf("expected 5 batch calls, got %d", calls)
	}
}

func TestTranslateConcurrentFailsFast(t *testing.T) {
	fake := &fakeBatchTranslator{failOn: map[string]bool{"cue 7": true}}

	_, err := translateConcurrent(
		context.Background(), makeItems(20), 4, 2, fake.Translate,
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "batch 1 failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTranslateConcurrentHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := translateConcurrent(
		ctx, makeItems(10), 2, 2, (&fakeBatchTranslator{}).Translate,
	)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestTranslateSequential(t *testing.T) {
	fake := &fakeBatchTranslator{}
	results, err := translateSequential(
		context.Background(), makeItems(7), 3, fake.Translate,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 7 || results[6].Text != "CUE 6" {
		t.Errorf("unexpected results %+v", results)
	}

	empty, err := translateSequential(
		context.Background(), nil, 3, fake.Translate,
	)
	if err != nil || len(empty) != 0 {
		t.Errorf("empty input: got %v, %v", empty, err)
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITextTranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	translator, err := NewTextTranslator(
		ctx, ProviderOpenAI, apiKey, Options{TargetLanguage: "Vietnamese"},
	)
	if err != nil {
		t.Fatalf("NewTextTranslator error: %v", err)
	}

	got, err := translator.TranslateText(ctx, "Hello")
	if err != nil {
		t.Fatalf("TranslateText error: %v", err)
	}
	if got == "" {
		t.Error("expected non-empty translation")
	}
}
