// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakePNG is a minimal payload standing in for generated image bytes.
var fakePNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func imageSuccessBody(t *testing.T) string {
	t.Helper()
	return `{"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(fakePNG) + `"}]}`
}

func TestOpenAIGenerateImage_Success(t *testing.T) {
	var gotPath string
	var gotBody openAIImageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, imageSuccessBody(t))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	data, contentType, err := p.GenerateImage(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(data) != string(fakePNG) {
		t.Errorf("image bytes: got %v, want %v", data, fakePNG)
	}
	if contentType != "image/png" {
		t.Errorf("content type: got %q, want %q", contentType, "image/png")
	}
	if gotPath != "/images/generations" {
		t.Errorf("request path: got %q, want %q", gotPath, "/images/generations")
	}
	if gotBody.Model != "dall-e-3" {
		t.Errorf("request model: got %q, want %q", gotBody.Model, "dall-e-3")
	}
	if gotBody.Prompt != "a red fox" {
		t.Errorf("request prompt: got %q, want %q", gotBody.Prompt, "a red fox")
	}
	if gotBody.ResponseFormat != "b64_json" {
		t.Errorf("response_format: got %q, want %q", gotBody.ResponseFormat, "b64_json")
	}
}

func TestOpenAIGenerateImage_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest, []byte(`{"error":{"message":"content policy violation"}}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, _, err := p.GenerateImage(context.Background(), "bad prompt")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Errorf("error should include status code, got: %v", err)
	}
	if !strings.Contains(err.Error(), "content policy violation") {
		t.Errorf("error should include response body, got: %v", err)
	}
}

func TestOpenAIGenerateImage_EmptyData(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"data":[]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, _, err := p.GenerateImage(context.Background(), "a red fox")
	if err == nil {
		t.Fatal("expected error for empty data, got nil")
	}
}

func TestOpenAIGenerateImage_BadBase64(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, []byte(`{"data":[{"b64_json":"not-valid-base64!!!"}]}`))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	_, _, err := p.GenerateImage(context.Background(), "a red fox")
	if err == nil {
		t.Fatal("expected base64 decode error, got nil")
	}
}

// imageCapableMock implements both Provider and ImageGenerator.
type imageCapableMock struct {
	mockProvider
	imageData []byte
	imageErr  error
	calls     int
}

func (m *imageCapableMock) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	m.calls++
	if m.imageErr != nil {
		return nil, "", m.imageErr
	}
	return m.imageData, "image/png", nil
}

func TestRegistryGenerateImage_PrefersActiveProvider(t *testing.T) {
	active := &imageCapableMock{mockProvider: mockProvider{name: "openai"}, imageData: fakePNG}
	other := &imageCapableMock{mockProvider: mockProvider{name: "other"}, imageData: []byte("wrong")}

	reg := NewRegistry("openai", nil)
	reg.Register("openai", active)
	reg.Register("other", other)

	data, _, err := reg.GenerateImage(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(data) != string(fakePNG) {
		t.Errorf("expected active provider's image, got %q", data)
	}
	if active.calls != 1 {
		t.Errorf("active provider calls: got %d, want 1", active.calls)
	}
	if other.calls != 0 {
		t.Errorf("other provider calls: got %d, want 0", other.calls)
	}
}

func TestRegistryGenerateImage_FallsBackToCapableProvider(t *testing.T) {
	// Active provider is text-only; the registry should find the one
	// provider that can generate images.
	capable := &imageCapableMock{mockProvider: mockProvider{name: "openai"}, imageData: fakePNG}

	reg := NewRegistry("claude", nil)
	reg.Register("claude", &mockProvider{name: "claude"})
	reg.Register("openai", capable)

	data, contentType, err := reg.GenerateImage(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(data) != string(fakePNG) {
		t.Errorf("image bytes: got %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("content type: got %q", contentType)
	}
}

func TestRegistryGenerateImage_NoCapableProvider(t *testing.T) {
	reg := NewRegistry("claude", nil)
	reg.Register("claude", &mockProvider{name: "claude"})

	_, _, err := reg.GenerateImage(context.Background(), "a red fox")
	if err == nil {
		t.Fatal("expected error when no provider supports images, got nil")
	}
}

func TestRegistrySupportsImageGeneration(t *testing.T) {
	reg := NewRegistry("claude", nil)
	reg.Register("claude", &mockProvider{name: "claude"})
	if reg.SupportsImageGeneration() {
		t.Error("text-only registry should not report image support")
	}

	reg.Register("openai", &imageCapableMock{mockProvider: mockProvider{name: "openai"}})
	if !reg.SupportsImageGeneration() {
		t.Error("registry with an image-capable provider should report support")
	}
}
