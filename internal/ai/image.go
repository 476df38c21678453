// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
)

// ImageGenerator is an optional interface that AI providers can implement
// to support image generation. The deck pipeline falls back to it when
// image search yields nothing for a keyword. Not all providers have this
// capability (Claude, Gemini, and Mistral are text-only here).
type ImageGenerator interface {
	// GenerateImage creates an image from a text prompt. Returns the raw
	// image bytes and the MIME content type (e.g., "image/png").
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// GenerateImage prefers the active provider's image generation, then falls
// back to any configured provider that supports it. The original keyword
// is used as the generation prompt unmodified.
func (r *Registry) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if p, err := r.Active(); err == nil {
		if ig, ok := p.(ImageGenerator); ok {
			return ig.GenerateImage(ctx, prompt)
		}
	}

	r.mu.RLock()
	var ig ImageGenerator
	for _, p := range r.providers {
		if cand, ok := p.(ImageGenerator); ok {
			ig = cand
			break
		}
	}
	r.mu.RUnlock()

	if ig == nil {
		return nil, "", fmt.Errorf("ai: no configured provider supports image generation")
	}
	return ig.GenerateImage(ctx, prompt)
}

// SupportsImageGeneration returns true if any configured provider can
// generate images.
func (r *Registry) SupportsImageGeneration() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if _, ok := p.(ImageGenerator); ok {
			return true
		}
	}
	return false
}
