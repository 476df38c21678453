// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// The theme and transition names mirror the reveal.js vocabulary the
// generator instructs the model to use. Both tables are process-wide and
// read-only; concurrent reads need no locking.

const (
	DefaultTheme      = "simple"
	DefaultTransition = "none"
)

// ThemeStyle maps a symbolic theme name to the concrete rendering
// parameters used by the PPTX writer and the web viewer.
type ThemeStyle struct {
	BGColor   string // slide background, #rrggbb
	TextColor string // body and title text, #rrggbb
	FontFace  string // PPTX font face
}

var themeStyles = map[string]ThemeStyle{
	"moon":      {BGColor: "#002b36", TextColor: "#ffffff", FontFace: "Arial"},
	"night":     {BGColor: "#111111", TextColor: "#ffffff", FontFace: "Arial"},
	"sky":       {BGColor: "#87CEEB", TextColor: "#000000", FontFace: "Comic Sans MS"},
	"solarized": {BGColor: "#fdf6e3", TextColor: "#657b83", FontFace: "Courier New"},
	"serif":     {BGColor: "#f0f1eb", TextColor: "#000000", FontFace: "Times New Roman"},
	"simple":    {BGColor: "#ffffff", TextColor: "#000000", FontFace: "Helvetica"},
	"beige":     {BGColor: "#f7f3de", TextColor: "#000000", FontFace: "Georgia"},
}

// defaultStyle is returned for unrecognized theme names so an export never
// fails on a bad symbolic value.
var defaultStyle = ThemeStyle{BGColor: "#ffffff", TextColor: "#000000", FontFace: "Arial"}

// LookupTheme resolves a symbolic theme name, falling back to a plain
// white style when the name is unknown.
func LookupTheme(name string) ThemeStyle {
	if s, ok := themeStyles[name]; ok {
		return s
	}
	return defaultStyle
}

// ThemeNames returns all known theme names. Used by the viewer's theme
// switcher.
func ThemeNames() []string {
	return []string{"sky", "beige", "moon", "night", "serif", "simple", "solarized"}
}

// TransitionNames returns all known transition names.
func TransitionNames() []string {
	return []string{"default", "fade", "zoom", "concave", "linear", "none"}
}

// transitionToPPTX maps reveal.js transition names to the OOXML slide
// transition element emitted by the PPTX writer. Empty means no transition
// element at all.
var transitionToPPTX = map[string]string{
	"default": "",
	"none":    "",
	"fade":    "fade",
	"zoom":    "zoom",
	"concave": "circle",
	"linear":  "push",
}

// LookupTransition resolves a reveal transition name to its PPTX
// counterpart. Unknown names map to no transition.
func LookupTransition(name string) string {
	return transitionToPPTX[name]
}
