// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package viewer

import (
	"bytes"
	"strings"
	"testing"

	"visiondeck/internal/models"
)

func testDeck() *models.Presentation {
	return &models.Presentation{
		Title: "Renewable Energy",
		Slides: []models.Slide{
			{
				Title:      "Intro",
				Background: models.Background{Transition: "fade", Theme: "sky"},
				Elements: []models.Element{
					{Type: models.ElementText, Text: "Why **renewables** matter", Color: "#112233"},
				},
			},
			{
				Title:      "A Solar Farm",
				Background: models.Background{Transition: "zoom", Theme: "moon"},
				Elements: []models.Element{
					{Type: models.ElementImage, Path: "https://img.example/solar.jpg"},
				},
			},
		},
	}
}

func TestRenderDeck(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	if err := v.RenderDeck(&buf, "deck-1", testDeck(), false); err != nil {
		t.Fatalf("RenderDeck: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, "<title>Renewable Energy</title>") {
		t.Error("missing page title")
	}
	// Theme background colors carried per section.
	if !strings.Contains(html, `data-background-color="#87CEEB"`) {
		t.Error("sky background color missing")
	}
	if !strings.Contains(html, `data-background-color="#002b36"`) {
		t.Error("moon background color missing")
	}
	// Transitions carried per section.
	if !strings.Contains(html, `data-transition="fade"`) {
		t.Error("fade transition missing")
	}
	// Markdown rendered, element color applied.
	if !strings.Contains(html, "<strong>renewables</strong>") {
		t.Error("markdown not rendered")
	}
	if !strings.Contains(html, "#112233") {
		t.Error("element color missing")
	}
	// Image element present.
	if !strings.Contains(html, `src="https://img.example/solar.jpg"`) {
		t.Error("image element missing")
	}
	// Toolbar present outside print mode, with export links.
	if !strings.Contains(html, "/api/pptx/deck-1/generate") {
		t.Error("pptx export link missing")
	}
	// First slide's theme picks the page stylesheet.
	if !strings.Contains(html, "theme/sky.css") {
		t.Error("page theme stylesheet missing")
	}
}

func TestRenderDeck_PrintPDF(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	if err := v.RenderDeck(&buf, "deck-1", testDeck(), true); err != nil {
		t.Fatalf("RenderDeck: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, "print/pdf.css") {
		t.Error("print stylesheet missing in print mode")
	}
	if strings.Contains(html, "vd-toolbar\"") && strings.Contains(html, "<select") {
		t.Error("toolbar should not render in print mode")
	}
}

func TestRenderDeck_EscapesSlideText(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := &models.Presentation{
		Title: "<script>alert(1)</script>",
		Slides: []models.Slide{{
			Title:      "safe",
			Background: models.Background{Transition: "none", Theme: "simple"},
			Elements: []models.Element{
				{Type: models.ElementText, Text: "<script>alert(2)</script>"},
			},
		}},
	}

	var buf bytes.Buffer
	if err := v.RenderDeck(&buf, "deck-1", p, false); err != nil {
		t.Fatalf("RenderDeck: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(") {
		t.Error("script content must be escaped")
	}
}

func TestRenderNotFound(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	if err := v.RenderNotFound(&buf); err != nil {
		t.Fatalf("RenderNotFound: %v", err)
	}
	if !strings.Contains(buf.String(), "404") {
		t.Error("missing 404 marker")
	}
}
