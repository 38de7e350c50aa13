package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleTranslatorUnwrapsSegments(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"client": q.Get("client"),
			"sl":     q.Get("sl"),
			"tl":     q.Get("tl"),
			"q":      q.Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[["Xin chào. ","Hello. ",null,null,10],["Thế giới","World",null,null,10]],null,"en",null,null,null,1]`))
	}))
	defer server.Close()

	translator := NewGoogleTranslator(Options{
		TargetLanguage: "vi",
		BaseURL:        server.URL,
	})

	got, err := translator.TranslateText(context.Background(), "Hello. World")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Xin chào. Thế giới" {
		t.Errorf("got %q", got)
	}

	want := map[string]string{"client": "gtx", "sl": "auto", "tl": "vi", "q": "Hello. World"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestGoogleTranslatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusTooManyRequests, `rate limited`},
		{"not json", http.StatusOK, `<html>blocked</html>`},
		{"wrong shape", http.StatusOK, `{"error": "nope"}`},
		{"no segments", http.StatusOK, `[[],null,"en"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			translator := NewGoogleTranslator(Options{TargetLanguage: "vi", BaseURL: server.URL})
			if _, err := translator.TranslateText(context.Background(), "Hello"); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestGoogleTranslatorSkipsBlankText(t *testing.T) {
	translator := NewGoogleTranslator(Options{TargetLanguage: "vi", BaseURL: "http://127.0.0.1:0"})
	got, err := translator.TranslateText(context.Background(), "  ")
	if err != nil || got != "  " {
		t.Errorf("got %q, %v", got, err)
	}
}
