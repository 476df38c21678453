// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package deck turns a user prompt into a fully resolved presentation.
// The pipeline asks the active LLM for a structured slide deck, extracts
// and validates the JSON payload, then resolves every image keyword to a
// concrete URL (Unsplash search first, AI generation as fallback).
package deck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"visiondeck/internal/images"
	"visiondeck/internal/models"
	"visiondeck/internal/slug"
)

var (
	// ErrNoJSONPayload is returned when the LLM response does not contain
	// a payload between the JSON delimiters.
	ErrNoJSONPayload = errors.New("deck: no JSON payload in model response")

	// ErrTooFewSlides is returned when the model produced fewer slides
	// than the prompt demands. Short decks are rejected outright rather
	// than padded.
	ErrTooFewSlides = errors.New("deck: too few slides generated")
)

// MinSlides is the minimum deck length the system prompt demands.
const MinSlides = 8

// PromptVersion identifies the active system prompt. Bump when the
// prompt text changes so stored decks can be traced to the prompt that
// produced them.
const PromptVersion = 1

const (
	jsonBeginMarker = "###BEGIN_JSON###"
	jsonEndMarker   = "###END_JSON###"
)

// systemPromptV1 shapes the LLM output into the slide JSON the rest of
// the pipeline consumes. The delimiters make extraction robust against
// conversational filler around the payload.
const systemPromptV1 = `You are an exceptionally advanced AI specialized in generating high-quality presentation content. The user will provide a prompt, and your task is to create a comprehensive and well-structured JSON object that outlines the content of each slide in the presentation. Each section in the JSON represents a slide. Adhere to the following structure and guidelines to ensure the highest quality and relevance.

Output only the JSON object, enclosed between the delimiters ` + jsonBeginMarker + ` and ` + jsonEndMarker + `.

1. **Presentation Structure:**
   - The presentation must consist of a minimum of 8 slides.
   - At least 3 slides should contain images; the remaining slides should primarily focus on textual content.
   - Each slide must contain either text or images, not both.
   - Ensure that slides with images are placed after meaningful text slides and are not at the beginning or the end of the presentation.

2. **Slide Representation:**
   - Each slide should be represented as an object within the "slides" array.
   - The structure of each slide object should be as follows:
   {
       "title": "Title of the section or slide",
       "background": {
           "transition": "default | fade | zoom | concave | linear | none",
           "theme": "sky | beige | moon | night | serif | simple | solarized"
       },
       "elements": [
           {
               "type": "text" | "image",
               "text": "Content of the text element (only for type 'text')",
               "path": "Keyword for the image content (only for type 'image')"
           }
       ]
   }

3. **Content Guidelines:**
   - **Title:** Ensure the title of each slide is concise yet descriptive.
   - **Elements:** Each element in the slide should be clear, well-structured, and contribute to the overall message of the slide.
   - **Text Content:** Each text element should include a "color" property. If the color is not specified, use the default value "#000000".
   - **Image Content:** Use a keyword in English that describes the content of the image instead of a random link. This keyword will be used to search for relevant images.

4. **Quality and Consistency:**
   - Generate the content in the same language as the user prompt to maintain coherence and relevance.
   - Utilize a consistent and professional tone across all slides.

5. **Overall Objective:** Create a professional and visually appealing presentation based on the user prompt.

` + jsonBeginMarker + `
<Output your JSON object here>
` + jsonEndMarker + `
`

// ImageSearcher resolves a keyword to an image URL. Implemented by the
// Unsplash client.
type ImageSearcher interface {
	SearchByQuery(ctx context.Context, query string, index int) (string, error)
}

// ImageGenerator produces image bytes from a prompt. Implemented by the
// AI registry.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// TextGenerator produces LLM completions. Implemented by the AI registry.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageStore uploads generated images and returns public URLs.
// Implemented by the S3 storage client.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Generator runs the prompt-to-presentation pipeline.
type Generator struct {
	llm      TextGenerator
	searcher ImageSearcher
	imageGen ImageGenerator
	store    ImageStore // may be nil; generation fallback then fails
	workers  int
	now      func() time.Time
}

// NewGenerator wires the pipeline. searcher, imageGen, and store may be
// nil individually; image slides then fail when that stage is needed.
// workers bounds concurrent image resolution.
func NewGenerator(llm TextGenerator, searcher ImageSearcher, imageGen ImageGenerator, store ImageStore, workers int) *Generator {
	if workers < 1 {
		workers = 4
	}
	return &Generator{
		llm:      llm,
		searcher: searcher,
		imageGen: imageGen,
		store:    store,
		workers:  workers,
		now:      time.Now,
	}
}

// deckPayload matches the JSON shape the system prompt requests.
type deckPayload struct {
	PresentationTitle string         `json:"presentationTitle"`
	Slides            []models.Slide `json:"slides"`
}

// Generate produces a fully resolved presentation from a user prompt.
// All image keywords are replaced by concrete URLs before the
// presentation is returned; a deck is never stored half-resolved.
func (g *Generator) Generate(ctx context.Context, userPrompt string) (*models.Presentation, error) {
	raw, err := g.llm.Generate(ctx, systemPromptV1, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("deck: llm generate: %w", err)
	}

	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed deckPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("deck: parse payload: %w", err)
	}

	if len(parsed.Slides) < MinSlides {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewSlides, len(parsed.Slides), MinSlides)
	}

	title := strings.TrimSpace(parsed.PresentationTitle)
	if title == "" {
		title = userPrompt
	}

	p := &models.Presentation{
		Title:  title,
		Slides: parsed.Slides,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("deck: invalid payload: %w", err)
	}

	if err := g.resolveImages(ctx, p); err != nil {
		return nil, err
	}

	applyTextDefaults(p)

	return p, nil
}

// extractJSON pulls the payload out of the delimited region of the model
// response. Stray markdown code fences inside the region are stripped,
// since models add them despite instructions.
func extractJSON(raw string) (string, error) {
	begin := strings.Index(raw, jsonBeginMarker)
	if begin < 0 {
		return "", ErrNoJSONPayload
	}
	rest := raw[begin+len(jsonBeginMarker):]
	end := strings.Index(rest, jsonEndMarker)
	if end < 0 {
		return "", ErrNoJSONPayload
	}

	payload := strings.TrimSpace(rest[:end])
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSuffix(payload, "```")
	payload = strings.TrimSpace(payload)

	if payload == "" {
		return "", ErrNoJSONPayload
	}
	return payload, nil
}

// resolveImages replaces every image element's keyword with a concrete
// URL. Unsplash is tried first; on an empty result the keyword goes to
// the AI image generator and the bytes are uploaded to storage. Work is
// fanned out across slides with a bounded group; any failure cancels the
// rest and aborts the generation.
func (g *Generator) resolveImages(ctx context.Context, p *models.Presentation) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)

	ordinal := 0
	for si := range p.Slides {
		for ei := range p.Slides[si].Elements {
			el := &p.Slides[si].Elements[ei]
			if el.Type != models.ElementImage || el.Path == "" {
				continue
			}
			idx := ordinal
			ordinal++
			grp.Go(func() error {
				url, err := g.resolveOne(ctx, el.Path, idx)
				if err != nil {
					return fmt.Errorf("deck: resolve image %q: %w", el.Path, err)
				}
				el.Path = url
				return nil
			})
		}
	}

	return grp.Wait()
}

// resolveOne resolves a single keyword. idx spreads repeated keywords
// across distinct search results.
func (g *Generator) resolveOne(ctx context.Context, keyword string, idx int) (string, error) {
	if g.searcher != nil {
		url, err := g.searcher.SearchByQuery(ctx, keyword, idx)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, images.ErrNoResults) {
			return "", err
		}
		slog.Info("no search results, generating image", "keyword", keyword)
	}

	if g.imageGen == nil {
		return "", fmt.Errorf("no image source available for %q", keyword)
	}
	data, contentType, err := g.imageGen.GenerateImage(ctx, keyword)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if g.store == nil {
		return "", errors.New("image storage not configured")
	}

	ext := "png"
	if contentType == "image/jpeg" {
		ext = "jpeg"
	}
	key := slug.ObjectKey(keyword, ext, g.now().UnixNano())
	if err := g.store.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return g.store.FileURL(key), nil
}

// applyTextDefaults fills the default color on text elements that came
// back without one.
func applyTextDefaults(p *models.Presentation) {
	for si := range p.Slides {
		for ei := range p.Slides[si].Elements {
			el := &p.Slides[si].Elements[ei]
			if el.Type == models.ElementText && el.Color == "" {
				el.Color = models.DefaultTextColor
			}
		}
	}
}
