package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepLTranslator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key secret:fx" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if got := r.PostForm.Get("target_lang"); got != "EN-US" {
			t.Errorf("target_lang = %q, want EN-US", got)
		}
		if got := r.PostForm.Get("source_lang"); got != "VI" {
			t.Errorf("source_lang = %q, want VI", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"VI","text":"Hello"}]}`))
	}))
	defer server.Close()

	translator, err := NewDeepLTranslator("secret:fx", Options{
		InputLanguage:  "vi",
		TargetLanguage: "en",
		BaseURL:        server.URL,
	})
	if err != nil {
		t.Fatalf("NewDeepLTranslator: %v", err)
	}

	got, err := translator.TranslateText(context.Background(), "Xin chào")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q, want Hello", got)
	}
}

func TestDeepLTranslatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"quota exceeded", 456, `{"message":"Quota exceeded"}`},
		{"missing translations", http.StatusOK, `{"message":"ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			translator, err := NewDeepLTranslator("k", Options{TargetLanguage: "de", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("NewDeepLTranslator: %v", err)
			}
			if _, err := translator.TranslateText(context.Background(), "Hello"); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestDeepLEndpointSelection(t *testing.T) {
	free, _ := NewDeepLTranslator("abc:fx", Options{TargetLanguage: "de"})
	if free.endpoint != deeplFreeURL {
		t.Errorf("free key endpoint = %q", free.endpoint)
	}
	pro, _ := NewDeepLTranslator("abc", Options{TargetLanguage: "de"})
	if pro.endpoint != deeplProURL {
		t.Errorf("pro key endpoint = %q", pro.endpoint)
	}
}

func TestDeepLLangCode(t *testing.T) {
	tests := map[string]string{
		"en":      "EN-US",
		" pt ":    "PT-BR",
		"zh-hans": "ZH",
		"vi":      "VI",
		"de":      "DE",
	}
	for in, want := range tests {
		if got := deeplLangCode(in); got != want {
			t.Errorf("deeplLangCode(%q) = %q, want %q", in, got, want)
		}
	}
}
