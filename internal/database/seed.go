package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: one small
// demo presentation so the viewer and the exporters have something to
// render before the first prompt is submitted. No-op if any presentation
// already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM presentations").Scan(&count); err != nil {
		return fmt.Errorf("seed check presentations: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	slides := []map[string]any{
		{
			"title":      "Welcome to VisionDeck",
			"background": map[string]string{"transition": "fade", "theme": "night"},
			"elements": []map[string]any{
				{"type": "text", "text": "Type a prompt, get a deck.", "color": "#ffffff"},
			},
		},
		{
			"title":      "Edit, retheme, export",
			"background": map[string]string{"transition": "zoom", "theme": "sky"},
			"elements": []map[string]any{
				{"type": "text", "text": "Every slide can be patched in place. The whole deck exports to PPTX or PDF.", "color": "#000000"},
			},
		},
	}

	payload, err := json.Marshal(slides)
	if err != nil {
		return fmt.Errorf("seed marshal slides: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO presentations (title, slides)
		VALUES ($1, $2)
	`, "VisionDeck demo", payload)
	if err != nil {
		return fmt.Errorf("seed insert demo presentation: %w", err)
	}

	slog.Info("database seeded with demo presentation")
	return nil
}
