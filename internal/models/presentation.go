// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the presentation document schema shared by the
// generator, the store, the web viewer, and the binary exporters. A
// Presentation owns its Slides and, transitively, their Elements; nothing
// here is shared across documents.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ElementType distinguishes the three kinds of slide content.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementShape ElementType = "shape"
)

// DefaultTextColor is applied to text elements that arrive without a color.
const DefaultTextColor = "#000000"

// Presentation is the root document: the originating prompt as title plus
// an ordered sequence of slides.
type Presentation struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slide is one panel of the deck. Every slide carries at least one element.
type Slide struct {
	Title      string     `json:"title"`
	Background Background `json:"background"`
	Elements   []Element  `json:"elements"`
}

// Background holds the symbolic theme/transition pair consumed by the
// viewer and the PPTX theme table. This is the canonical background shape;
// the legacy flat {"color": "#rrggbb"} form still found in old documents is
// accepted on decode and mapped onto the default theme.
type Background struct {
	Transition string `json:"transition"`
	Theme      string `json:"theme"`
}

// legacyBackground is the pre-theme schema: a single background color.
type legacyBackground struct {
	Transition *string `json:"transition"`
	Theme      *string `json:"theme"`
	Color      *string `json:"color"`
}

// UnmarshalJSON accepts both the canonical {transition, theme} pair and the
// legacy {color} variant. Legacy documents decode as the default theme with
// no transition; the color itself is discarded because every renderer reads
// colors from the theme table.
func (b *Background) UnmarshalJSON(data []byte) error {
	var raw legacyBackground
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Theme == nil && raw.Transition == nil && raw.Color != nil {
		b.Theme = DefaultTheme
		b.Transition = DefaultTransition
		return nil
	}

	if raw.Transition != nil {
		b.Transition = *raw.Transition
	}
	if raw.Theme != nil {
		b.Theme = *raw.Theme
	}
	return nil
}

// Element is a tagged variant over text, image, and shape content.
// Text elements carry Text and Color; image elements carry Path (a resolved
// URL once generation completes, a search keyword before that); shape
// elements carry ShapeType.
type Element struct {
	Type      ElementType     `json:"type"`
	Text      string          `json:"text,omitempty"`
	Color     string          `json:"color,omitempty"`
	Path      string          `json:"path,omitempty"`
	ShapeType string          `json:"shapeType,omitempty"`
	Options   *ElementOptions `json:"options,omitempty"`
}

// ElementOptions is the free-form layout and style bag. Coordinates and
// sizes are in viewer pixels; the PPTX writer converts them to EMU.
type ElementOptions struct {
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	W        float64 `json:"w,omitempty"`
	H        float64 `json:"h,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Align    string  `json:"align,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
}

// Validate checks the structural invariants the rest of the system relies
// on: at least one slide, at least one element per slide, and only known
// element types. It does not check image URLs — establishing those is the
// generator's job.
func (p *Presentation) Validate() error {
	if len(p.Slides) == 0 {
		return fmt.Errorf("presentation has no slides")
	}
	for i, s := range p.Slides {
		if len(s.Elements) == 0 {
			return fmt.Errorf("slide %d has no elements", i)
		}
		for j, el := range s.Elements {
			switch el.Type {
			case ElementText, ElementImage, ElementShape:
			default:
				return fmt.Errorf("slide %d element %d has unknown type %q", i, j, el.Type)
			}
		}
	}
	return nil
}

// SlidePatch carries a partial slide update. Only fields present in the
// request body overwrite the stored slide; absent fields are preserved.
// Pointer fields distinguish "absent" from "set to zero value".
type SlidePatch struct {
	Title      *string     `json:"title,omitempty"`
	Background *Background `json:"background,omitempty"`
	Elements   []Element   `json:"elements,omitempty"`
}

// Apply shallow-merges the patch onto the slide.
func (p *SlidePatch) Apply(s *Slide) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Background != nil {
		s.Background = *p.Background
	}
	if p.Elements != nil {
		s.Elements = p.Elements
	}
}
