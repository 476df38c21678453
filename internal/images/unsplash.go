// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images resolves slide keywords to image URLs via the Unsplash
// search API. When a keyword yields no results the deck pipeline falls
// back to AI image generation instead.
package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoResults is returned when Unsplash has no photos for a query.
var ErrNoResults = errors.New("images: no results for query")

// Client talks to the Unsplash API with a single access key.
type Client struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

// NewClient creates an Unsplash client. baseURL overrides the API host
// for tests; pass "" for production.
func NewClient(accessKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &Client{
		accessKey: accessKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchByQuery looks up photos matching query and returns the full-size
// URL of the result at index. The index wraps around the result count, so
// slide 7 of a deck still gets a distinct photo when only 3 match.
func (c *Client) SearchByQuery(ctx context.Context, query string, index int) (string, error) {
	if index < 0 {
		index = -index
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=30", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unsplash read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("unsplash unmarshal: %w", err)
	}

	if len(result.Results) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoResults, query)
	}

	photo := result.Results[index%len(result.Results)]
	if photo.URLs.Full == "" {
		return "", fmt.Errorf("%w: %q (missing url)", ErrNoResults, query)
	}
	return photo.URLs.Full, nil
}

// Random returns the full-size URL of a random Unsplash photo. Used by
// the viewer for placeholder backgrounds.
func (c *Client) Random(ctx context.Context) (string, error) {
	endpoint := c.baseURL + "/photos/random"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unsplash read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unsplash API error (status %d): %s", resp.StatusCode, string(body))
	}

	var photo photoResult
	if err := json.Unmarshal(body, &photo); err != nil {
		return "", fmt.Errorf("unsplash unmarshal: %w", err)
	}
	if photo.URLs.Full == "" {
		return "", ErrNoResults
	}
	return photo.URLs.Full, nil
}

// --- Unsplash API response types ---

type searchResponse struct {
	Results []photoResult `json:"results"`
}

type photoResult struct {
	URLs photoURLs `json:"urls"`
}

type photoURLs struct {
	Full    string `json:"full"`
	Regular string `json:"regular"`
}
