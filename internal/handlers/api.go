// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the VisionDeck API and
// viewer. Handlers receive their dependencies through small interfaces so
// tests can run against in-memory fakes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"visiondeck/internal/ai"
	"visiondeck/internal/cache"
	"visiondeck/internal/deck"
	"visiondeck/internal/models"
	"visiondeck/internal/store"
	"visiondeck/internal/viewer"
)

// PresentationStore is the persistence surface the handlers need.
type PresentationStore interface {
	Create(p *models.Presentation) (*models.Presentation, error)
	FindByID(id uuid.UUID) (*models.Presentation, error)
	ReplaceSlide(id uuid.UUID, index int, patch *models.SlidePatch) (*models.Presentation, error)
	ApplyGlobalStyle(id uuid.UUID, theme, transition *string) (*models.Presentation, error)
}

// DeckGenerator runs the prompt-to-presentation pipeline.
type DeckGenerator interface {
	Generate(ctx context.Context, userPrompt string) (*models.Presentation, error)
}

// PromptChecker screens prompts before they reach the generator.
type PromptChecker interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// PPTXBuilder assembles the binary PPTX for a presentation.
type PPTXBuilder interface {
	Build(ctx context.Context, p *models.Presentation) ([]byte, error)
}

// PDFExporter prints a presentation's viewer page to PDF.
type PDFExporter interface {
	Export(ctx context.Context, id string) ([]byte, error)
}

// ExportCache stores finished export artifacts. Kept optional; a nil
// cache just means every export is rebuilt.
type ExportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// API groups the JSON API and viewer handlers.
type API struct {
	store     PresentationStore
	generator DeckGenerator
	moderator PromptChecker
	pptx      PPTXBuilder
	pdf       PDFExporter // may be nil when no browser is available
	cache     ExportCache // may be nil
	viewer    *viewer.Viewer
}

// NewAPI creates the handler group. pdf and cache may be nil.
func NewAPI(st PresentationStore, gen DeckGenerator, mod PromptChecker, pptx PPTXBuilder, pdf PDFExporter, cache ExportCache, vw *viewer.Viewer) *API {
	return &API{
		store:     st,
		generator: gen,
		moderator: mod,
		pptx:      pptx,
		pdf:       pdf,
		cache:     cache,
		viewer:    vw,
	}
}

// createRequest is the POST /api/pptx body.
type createRequest struct {
	UserPrompt string `json:"userPrompt"`
}

// CreatePresentation generates a deck from a prompt and stores it.
// POST /api/pptx
func (a *API) CreatePresentation(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if msg := validatePrompt(req.UserPrompt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	prompt := strings.TrimSpace(req.UserPrompt)

	if a.moderator != nil {
		result, err := a.moderator.CheckPrompt(r.Context(), prompt)
		if err != nil {
			// Moderation being down must not take generation with it.
			slog.Warn("prompt moderation unavailable", "error", err)
		} else if !result.Safe {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":      "prompt rejected by content moderation",
				"categories": result.Categories,
			})
			return
		}
	}

	p, err := a.generator.Generate(r.Context(), prompt)
	if err != nil {
		slog.Error("deck generation failed", "error", err)
		switch {
		case errors.Is(err, deck.ErrNoJSONPayload), errors.Is(err, deck.ErrTooFewSlides):
			writeError(w, http.StatusBadGateway, "the model returned an unusable presentation, try again")
		default:
			writeError(w, http.StatusBadGateway, "presentation generation failed")
		}
		return
	}

	saved, err := a.store.Create(p)
	if err != nil {
		slog.Error("store presentation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store presentation")
		return
	}

	slog.Info("presentation created", "id", saved.ID, "slides", len(saved.Slides))
	writeJSON(w, http.StatusCreated, saved)
}

// GetPresentation returns a stored deck.
// GET /api/pptx/{id}
func (a *API) GetPresentation(w http.ResponseWriter, r *http.Request) {
	p, ok := a.findByParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateSlide merges a partial slide update into one slide.
// PUT /api/pptx/{id}/slide/{slideIndex}
func (a *API) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "presentation not found")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "slideIndex"))
	if err != nil {
		writeError(w, http.StatusNotFound, "slide not found")
		return
	}

	var patch models.SlidePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p, err := a.store.ReplaceSlide(id, index, &patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "presentation not found")
		return
	case errors.Is(err, store.ErrInvalidIndex):
		writeError(w, http.StatusNotFound, "slide not found")
		return
	case err != nil:
		slog.Error("update slide failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update slide")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// styleRequest is the PUT /api/pptx/{id} body. Either field may be
// omitted; present fields are applied to every slide.
type styleRequest struct {
	Theme      *string `json:"theme"`
	Transition *string `json:"transition"`
}

// UpdatePresentation applies a deck-wide theme and/or transition.
// PUT /api/pptx/{id}
func (a *API) UpdatePresentation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "presentation not found")
		return
	}

	var req styleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Theme == nil && req.Transition == nil {
		writeError(w, http.StatusBadRequest, "provide theme, transition, or both")
		return
	}
	if req.Theme != nil && !contains(models.ThemeNames(), *req.Theme) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown theme %q", *req.Theme))
		return
	}
	if req.Transition != nil && !contains(models.TransitionNames(), *req.Transition) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown transition %q", *req.Transition))
		return
	}

	p, err := a.store.ApplyGlobalStyle(id, req.Theme, req.Transition)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "presentation not found")
		return
	case err != nil:
		slog.Error("update presentation failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update presentation")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// GeneratePPTX streams the PPTX export.
// GET /api/pptx/{id}/generate
func (a *API) GeneratePPTX(w http.ResponseWriter, r *http.Request) {
	p, ok := a.findByParam(w, r)
	if !ok {
		return
	}

	key := exportKey("pptx", p)
	if a.cache != nil {
		if data, hit := a.cache.Get(r.Context(), key); hit {
			servePPTX(w, p.ID.String(), data)
			return
		}
	}

	data, err := a.pptx.Build(r.Context(), p)
	if err != nil {
		slog.Error("pptx build failed", "id", p.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build PPTX")
		return
	}
	if a.cache != nil {
		a.cache.Set(r.Context(), key, data)
	}

	servePPTX(w, p.ID.String(), data)
}

// GeneratePDF streams the PDF export.
// GET /api/pptx/{id}/pdf
func (a *API) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	p, ok := a.findByParam(w, r)
	if !ok {
		return
	}
	if a.pdf == nil {
		writeError(w, http.StatusNotImplemented, "PDF export is not configured")
		return
	}

	key := exportKey("pdf", p)
	if a.cache != nil {
		if data, hit := a.cache.Get(r.Context(), key); hit {
			servePDF(w, p.ID.String(), data)
			return
		}
	}

	data, err := a.pdf.Export(r.Context(), p.ID.String())
	if err != nil {
		slog.Error("pdf export failed", "id", p.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export PDF")
		return
	}
	if a.cache != nil {
		a.cache.Set(r.Context(), key, data)
	}

	servePDF(w, p.ID.String(), data)
}

// ViewPresentation serves the reveal.js viewer page.
// GET /view/{id}
func (a *API) ViewPresentation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.renderNotFound(w)
		return
	}
	p, err := a.store.FindByID(id)
	if err != nil {
		slog.Error("find presentation failed", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		a.renderNotFound(w)
		return
	}

	_, printPDF := r.URL.Query()["print-pdf"]
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.viewer.RenderDeck(w, p.ID.String(), p, printPDF); err != nil {
		slog.Error("render deck failed", "id", id, "error", err)
	}
}

// Health reports liveness.
// GET /health
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---

// findByParam loads the presentation named in the id URL parameter,
// writing the 404 response itself when absent.
func (a *API) findByParam(w http.ResponseWriter, r *http.Request) (*models.Presentation, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "presentation not found")
		return nil, false
	}
	p, err := a.store.FindByID(id)
	if err != nil {
		slog.Error("find presentation failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "presentation not found")
		return nil, false
	}
	return p, true
}

func (a *API) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := a.viewer.RenderNotFound(w); err != nil {
		slog.Error("render not found page failed", "error", err)
	}
}

func exportKey(kind string, p *models.Presentation) string {
	return cache.Key(kind, p.ID.String(), p.UpdatedAt)
}

func servePPTX(w http.ResponseWriter, id string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pptx", id))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func servePDF(w http.ResponseWriter, id string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", id))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
