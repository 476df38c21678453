// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package viewer renders the server-side reveal.js presentation page.
// The same page doubles as the PDF exporter's print source when opened
// with ?print-pdf.
package viewer

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"visiondeck/internal/markdown"
	"visiondeck/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Viewer renders presentation pages from embedded templates.
type Viewer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Viewer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("viewer: parse templates: %w", err)
	}
	return &Viewer{tmpl: tmpl}, nil
}

// elementView is one rendered slide element.
type elementView struct {
	IsText  bool
	IsImage bool
	HTML    template.HTML // rendered markdown, text elements only
	Color   string
	Path    string
}

// slideView is one rendered slide section.
type slideView struct {
	Title      string
	BGColor    string
	TextColor  string
	FontFace   string
	Transition string
	Elements   []elementView
}

// pageData feeds the deck template.
type pageData struct {
	ID          string
	Title       string
	PrintPDF    bool
	Slides      []slideView
	Themes      []string
	Transitions []string
	Theme       string // current deck-wide theme (first slide's)
	Transition  string
}

// RenderDeck writes the presentation page. printPDF switches reveal.js
// into its print layout for the PDF exporter.
func (v *Viewer) RenderDeck(w io.Writer, id string, p *models.Presentation, printPDF bool) error {
	data := pageData{
		ID:          id,
		Title:       p.Title,
		PrintPDF:    printPDF,
		Themes:      models.ThemeNames(),
		Transitions: models.TransitionNames(),
		Theme:       models.DefaultTheme,
		Transition:  models.DefaultTransition,
	}
	if len(p.Slides) > 0 {
		data.Theme = p.Slides[0].Background.Theme
		data.Transition = p.Slides[0].Background.Transition
	}

	for _, s := range p.Slides {
		style := models.LookupTheme(s.Background.Theme)
		sv := slideView{
			Title:      s.Title,
			BGColor:    style.BGColor,
			TextColor:  style.TextColor,
			FontFace:   style.FontFace,
			Transition: s.Background.Transition,
		}
		for _, el := range s.Elements {
			switch el.Type {
			case models.ElementText:
				html, err := markdown.ToHTML(el.Text)
				if err != nil {
					return fmt.Errorf("viewer: render text: %w", err)
				}
				color := el.Color
				if color == "" {
					color = style.TextColor
				}
				sv.Elements = append(sv.Elements, elementView{
					IsText: true,
					HTML:   template.HTML(html),
					Color:  color,
				})
			case models.ElementImage:
				sv.Elements = append(sv.Elements, elementView{
					IsImage: true,
					Path:    el.Path,
				})
			}
		}
		data.Slides = append(data.Slides, sv)
	}

	return v.tmpl.ExecuteTemplate(w, "deck.html", data)
}

// RenderNotFound writes the 404 page for unknown presentation ids.
func (v *Viewer) RenderNotFound(w io.Writer) error {
	return v.tmpl.ExecuteTemplate(w, "notfound.html", nil)
}
