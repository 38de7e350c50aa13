package cli

import (
	"fmt"
	"strings"

	"github.com/mgpai22/dualsub/internal/translate"
)

var geminiModels = []string{
	"gemini-3-pro-preview",
	"gemini-3-flash-preview",
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
}

var openAIModels = []string{
	"o1", "o3-mini", "o1-pro", "o3",
	"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
	"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
}

func isValidGeminiModel(model string) bool {
	return containsModel(geminiModels, model)
}

func isValidOpenAIModel(model string) bool {
	return containsModel(openAIModels, model)
}

func containsModel(models []string, model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}

// rejects models the provider is not known to serve, unless overridden
func validateModel(provider translate.Provider, model string, override bool) error {
	if model == "" || override {
		return nil
	}
	switch provider {
	case translate.ProviderGemini:
		if !isValidGeminiModel(model) {
			return fmt.Errorf(
				"unsupported Gemini model %q: valid models are %s (use --model-override to bypass)",
				model,
				strings.Join(geminiModels, ", "),
			)
		}
	case translate.ProviderOpenAI:
		if !isValidOpenAIModel(model) {
			return fmt.Errorf(
				"unsupported OpenAI model %q: valid models are %s (use --model-override to bypass)",
				model,
				strings.Join(openAIModels, ", "),
			)
		}
	case translate.ProviderGoogle, translate.ProviderDeepL:
		return fmt.Errorf("provider %s does not take a model", provider)
	}
	return nil
}
