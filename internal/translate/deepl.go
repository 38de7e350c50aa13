package translate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	deeplFreeURL = "https://api-free.deepl.com/v2/translate"
	deeplProURL  = "https://api.deepl.com/v2/translate"
)

// DeepLTranslator translates cue texts using the DeepL API
type DeepLTranslator struct {
	apiKey     string
	endpoint   string
	source     string
	target     string
	httpClient *http.Client
}

func NewDeepLTranslator(apiKey string, opts Options) (*DeepLTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	endpoint := opts.BaseURL
	if endpoint == "" {
		// free-tier keys carry the :fx suffix
		endpoint = deeplProURL
		if strings.HasSuffix(apiKey, ":fx") {
			endpoint = deeplFreeURL
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	return &DeepLTranslator{
		apiKey:     apiKey,
		endpoint:   endpoint,
		source:     strings.ToUpper(strings.TrimSpace(opts.InputLanguage)),
		target:     deeplLangCode(opts.TargetLanguage),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (d *DeepLTranslator) TranslateText(
	ctx context.Context,
	text string,
) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", d.target)
	form.Set("preserve_formatting", "1")
	if d.source != "" && d.source != "AUTO" {
		form.Set("source_lang", d.source)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("DeepL request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read DeepL response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"DeepL API error (status %d): %s",
			resp.StatusCode,
			truncateString(string(body), 200),
		)
	}

	translated := gjson.GetBytes(body, "translations.0.text")
	if !translated.Exists() {
		return "", fmt.Errorf(
			"unexpected DeepL response: %s",
			truncateString(string(body), 200),
		)
	}
	return translated.String(), nil
}

// DeepL expects upper-case target codes with a region for English and Portuguese
func deeplLangCode(lang string) string {
	code := strings.ToUpper(strings.TrimSpace(lang))
	switch code {
	case "EN":
		return "EN-US"
	case "PT":
		return "PT-BR"
	case "ZH-CN", "ZH-HANS":
		return "ZH"
	default:
		return code
	}
}
