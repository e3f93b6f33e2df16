package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicChat_Success(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" || r.Method != http.MethodPost {
			http.Error(w, "unexpected route", http.StatusNotFound)
			return
		}
		gotHeaders = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [{"type": "text", "text": "bonjour"}],
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewAdapterWithBaseURLs(srv.URL, srv.URL)
	res, err := a.Send(context.Background(),
		"claude-3-haiku",
		[]Message{
			{Role: RoleSystem, Content: "Answer in French"},
			{Role: RoleUser, Content: "Say hello"},
			{Role: RoleAssistant, Content: "bonjour"},
			{Role: "tool", Content: "unknown role turn"},
		},
		Credentials{Anthropic: "sk-ant-test"},
		Options{},
	)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotHeaders.Get("x-api-key") != "sk-ant-test" {
		t.Errorf("x-api-key = %q", gotHeaders.Get("x-api-key"))
	}
	if gotHeaders.Get("anthropic-version") != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotHeaders.Get("anthropic-version"))
	}

	if gotBody["model"] != "claude-3-haiku-20240307" {
		t.Errorf("wire model = %v; want dated identifier", gotBody["model"])
	}
	if gotBody["system"] != "Answer in French" {
		t.Errorf("system = %v", gotBody["system"])
	}
	if gotBody["max_tokens"] != float64(1024) {
		t.Errorf("max_tokens = %v; want Anthropic default 1024", gotBody["max_tokens"])
	}

	msgs := gotBody["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("wire messages = %d; want 3 (system split out)", len(msgs))
	}
	roles := make([]string, len(msgs))
	for i, m := range msgs {
		roles[i] = m.(map[string]any)["role"].(string)
	}
	// non-assistant roles are coerced to user
	if roles[0] != "user" || roles[1] != "assistant" || roles[2] != "user" {
		t.Errorf("wire roles = %v", roles)
	}

	if res.Content != "bonjour" || res.Provider != ProviderAnthropic {
		t.Errorf("result = %+v", res)
	}
	if res.Usage == nil || res.Usage.TotalTokens != 15 {
		t.Errorf("Usage = %+v; want total 15", res.Usage)
	}
}

func TestAnthropicChat_UpstreamErrorPreserved(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "max_tokens is too large"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewAdapterWithBaseURLs(srv.URL, srv.URL)
	_, err := a.Send(context.Background(), "claude-3-opus", []Message{{Role: RoleUser, Content: "hi"}}, Credentials{Anthropic: "sk-ant"}, Options{})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v; want *ProviderError", err)
	}
	if provErr.Message != "max_tokens is too large" {
		t.Errorf("upstream message not preserved: %q", provErr.Message)
	}
}

func TestAnthropicChat_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	a := NewAdapterWithBaseURLs(srv.URL, srv.URL)
	_, err := a.Send(context.Background(), "claude-3-sonnet", []Message{{Role: RoleUser, Content: "hi"}}, Credentials{Anthropic: "sk-ant"}, Options{})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v; want *ProviderError", err)
	}
}

func TestAnthropicChat_EmptyContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewAdapterWithBaseURLs(srv.URL, srv.URL)
	_, err := a.Send(context.Background(), "claude-3-haiku", []Message{{Role: RoleUser, Content: "hi"}}, Credentials{Anthropic: "sk-ant"}, Options{})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("error = %v; want *ProviderError", err)
	}
}
