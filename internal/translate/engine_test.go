package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleEngine_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sl"); got != "en" {
			t.Errorf("sl = %q, want %q", got, "en")
		}
		if got := r.URL.Query().Get("tl"); got != "hi" {
			t.Errorf("tl = %q, want %q", got, "hi")
		}
		if got := r.URL.Query().Get("q"); got != "hello world" {
			t.Errorf("q = %q, want %q", got, "hello world")
		}
		w.Write([]byte(`[[["नमस्ते ","hello ",null,null],["दुनिया","world",null,null]],null,"en"]`))
	}))
	defer server.Close()

	engine := NewGoogleEngine(GoogleEngineConfig{EndpointURL: server.URL})
	got, err := engine.Translate(context.Background(), "hello world", "en", "hi")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "नमस्ते दुनिया" {
		t.Errorf("Translate = %q, want %q", got, "नमस्ते दुनिया")
	}
}

func TestGoogleEngine_Translate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	engine := NewGoogleEngine(GoogleEngineConfig{EndpointURL: server.URL})
	if _, err := engine.Translate(context.Background(), "hello", "en", "hi"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestGoogleEngine_Translate_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer server.Close()

	engine := NewGoogleEngine(GoogleEngineConfig{EndpointURL: server.URL})
	if _, err := engine.Translate(context.Background(), "hello", "en", "hi"); err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestParseGoogleResponse_EmptySegments(t *testing.T) {
	if _, err := parseGoogleResponse([]byte(`[[],null,"en"]`)); err == nil {
		t.Error("expected error for response with no segments")
	}
}
