package translate

import (
	"context"
	"fmt"
)

// ItemAdapter turns a batch Translator into a TextTranslator by sending each
// text as a one-item batch.
type ItemAdapter struct {
	translator Translator
}

func NewItemAdapter(translator Translator) *ItemAdapter {
	return &ItemAdapter{translator: translator}
}

func (a *ItemAdapter) TranslateText(
	ctx context.Context,
	text string,
) (string, error) {
	if text == "" {
		return "", nil
	}

	results, err := a.translator.Translate(ctx, []TranslationItem{
		{Index: 0, Text: text},
	})
	if err != nil {
		return "", err
	}
	if len(results) != 1 {
		return "", fmt.Errorf("expected 1 result, got %d", len(results))
	}
	return results[0].Text, nil
}
