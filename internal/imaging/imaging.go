// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects downloaded image bytes before they are embedded
// in a PPTX archive. OOXML needs the pixel dimensions and a declared
// content type for every media part, and sources (Unsplash, DALL-E, S3)
// deliver a mix of JPEG, PNG, GIF, and WebP.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Info describes a decoded image header.
type Info struct {
	Width       int
	Height      int
	Format      string // "jpeg", "png", "gif", "webp"
	ContentType string // e.g. "image/jpeg"
	Ext         string // file extension without dot, e.g. "jpeg"
}

// Inspect reads the image header and returns its dimensions and format.
// Only the header is decoded, so large photos stay cheap.
func Inspect(data []byte) (*Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode header: %w", err)
	}

	info := &Info{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}

	switch format {
	case "jpeg":
		info.ContentType = "image/jpeg"
		info.Ext = "jpeg"
	case "png":
		info.ContentType = "image/png"
		info.Ext = "png"
	case "gif":
		info.ContentType = "image/gif"
		info.Ext = "gif"
	case "webp":
		info.ContentType = "image/webp"
		info.Ext = "webp"
	default:
		return nil, fmt.Errorf("imaging: unsupported format %q", format)
	}

	return info, nil
}
