// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation, used for naming
// generated image objects in storage.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Solar Panels, 2026!" → "solar-panels-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ObjectKey builds a storage object key for a generated image: the
// slugified keyword plus a unix timestamp and extension. The timestamp
// keeps repeated generations for the same keyword from overwriting each
// other.
func ObjectKey(keyword, ext string, ts int64) string {
	s := Generate(keyword)
	if s == "" {
		s = "image"
	}
	return fmt.Sprintf("%s-%d.%s", s, ts, ext)
}
