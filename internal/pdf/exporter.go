// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pdf prints the web viewer's print-pdf rendering of a deck to a
// PDF via a headless Chromium controlled with rod.
package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultImageWait bounds how long the exporter waits for all images in
// the viewer page to finish loading before printing.
const DefaultImageWait = 30 * time.Second

// imagesCompleteJS mirrors what the viewer shows: printing before every
// image has decoded produces blank rectangles in the PDF.
const imagesCompleteJS = `() => {
	const images = Array.from(document.images);
	return images.every((img) => img.complete && img.naturalHeight !== 0);
}`

// A4 paper size in inches.
const (
	paperWidthA4  = 8.27
	paperHeightA4 = 11.69
)

// Exporter prints viewer pages to PDF. A fresh browser is launched per
// export; decks are printed rarely enough that keeping a warm browser
// around is not worth the lifecycle handling.
type Exporter struct {
	viewerBaseURL string
	browserBin    string // optional explicit Chromium binary
	imageWait     time.Duration
}

// NewExporter creates a PDF exporter. viewerBaseURL is the externally
// reachable base of this service's own viewer (e.g. http://localhost:8080).
// browserBin may be empty; rod then resolves or downloads a browser.
func NewExporter(viewerBaseURL, browserBin string, imageWait time.Duration) *Exporter {
	if imageWait <= 0 {
		imageWait = DefaultImageWait
	}
	return &Exporter{
		viewerBaseURL: viewerBaseURL,
		browserBin:    browserBin,
		imageWait:     imageWait,
	}
}

// Export renders the deck's print view and returns the PDF bytes. The
// image wait is bounded: a deck referencing a dead image URL fails the
// export instead of hanging it.
func (e *Exporter) Export(ctx context.Context, id string) ([]byte, error) {
	url := fmt.Sprintf("%s/view/%s?print-pdf", e.viewerBaseURL, id)

	l := launcher.New().Headless(true)
	if e.browserBin != "" {
		l = l.Bin(e.browserBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("pdf: launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("pdf: connect browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("pdf: open page: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("pdf: wait load: %w", err)
	}

	if err := e.waitForImages(ctx, page); err != nil {
		return nil, err
	}

	printBackground := true
	paperWidth := paperWidthA4
	paperHeight := paperHeightA4
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: printBackground,
		PaperWidth:      &paperWidth,
		PaperHeight:     &paperHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("pdf: print: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("pdf: read stream: %w", err)
	}

	slog.Info("pdf exported", "id", id, "bytes", len(data))
	return data, nil
}

// waitForImages polls the page until every image has decoded or the
// bounded wait expires.
func (e *Exporter) waitForImages(ctx context.Context, page *rod.Page) error {
	deadline := time.Now().Add(e.imageWait)
	for {
		res, err := page.Eval(imagesCompleteJS)
		if err != nil {
			return fmt.Errorf("pdf: poll images: %w", err)
		}
		if res.Value.Bool() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("pdf: images not loaded within %s", e.imageWait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}
