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

const googleWebURL = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator calls the keyless web translation endpoint. The reply is
// a nested array whose first element lists [translated, original, ...]
// segments, one per sentence.
type GoogleTranslator struct {
	endpoint   string
	source     string
	target     string
	httpClient *http.Client
}

func NewGoogleTranslator(opts Options) *GoogleTranslator {
	endpoint := opts.BaseURL
	if endpoint == "" {
		endpoint = googleWebURL
	}
	source := opts.InputLanguage
	if source == "" {
		source = "auto"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GoogleTranslator{
		endpoint:   endpoint,
		source:     source,
		target:     opts.TargetLanguage,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *GoogleTranslator) TranslateText(
	ctx context.Context,
	text string,
) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", g.source)
	query.Set("tl", g.target)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		g.endpoint+"?"+query.Encode(),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"translation endpoint returned %s: %s",
			resp.Status,
			truncateString(string(body), 200),
		)
	}

	return parseGoogleResponse(body)
}

func parseGoogleResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf(
			"invalid JSON from translation endpoint: %s",
			truncateString(string(body), 200),
		)
	}

	segments := gjson.GetBytes(body, "0")
	if !segments.IsArray() {
		return "", fmt.Errorf("unexpected response shape: missing segment list")
	}

	var sb strings.Builder
	for _, segment := range segments.Array() {
		translated := segment.Get("0")
		if translated.Type == gjson.String {
			sb.WriteString(translated.String())
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no translated text in response")
	}
	return sb.String(), nil
}
