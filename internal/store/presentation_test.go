package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"visiondeck/internal/models"
)

func testDeck() *models.Presentation {
	return &models.Presentation{
		Title: "the solar system",
		Slides: []models.Slide{
			{
				Title:      "Intro",
				Background: models.Background{Transition: "fade", Theme: "night"},
				Elements: []models.Element{
					{Type: models.ElementText, Text: "Eight planets.", Color: "#ffffff"},
				},
			},
			{
				Title:      "Jupiter",
				Background: models.Background{Transition: "zoom", Theme: "moon"},
				Elements: []models.Element{
					{Type: models.ElementImage, Path: "https://images.example.com/jupiter.jpg"},
				},
			},
		},
	}
}

func TestPresentationStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	created, err := s.Create(testDeck())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanPresentation(t, db, created.ID) })

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Title != "the solar system" {
		t.Errorf("title: got %q", created.Title)
	}

	// Round-trip: the fetched document is structurally equal to the input,
	// identifier and timestamps aside.
	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("FindByID returned nil for created presentation")
	}
	if !reflect.DeepEqual(found.Slides, testDeck().Slides) {
		t.Errorf("slides round-trip mismatch:\ngot  %+v\nwant %+v", found.Slides, testDeck().Slides)
	}
}

func TestPresentationStoreFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	found, err := s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for unknown id, got %+v", found)
	}
}

func TestReplaceSlideMergesOnlyPatchedFields(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	created, err := s.Create(testDeck())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanPresentation(t, db, created.ID) })

	newTitle := "Jupiter, the giant"
	updated, err := s.ReplaceSlide(created.ID, 1, &models.SlidePatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("ReplaceSlide: %v", err)
	}

	if updated.Slides[1].Title != newTitle {
		t.Errorf("slide 1 title: got %q, want %q", updated.Slides[1].Title, newTitle)
	}
	// Unpatched fields of slide 1 survive.
	if updated.Slides[1].Background.Theme != "moon" {
		t.Errorf("slide 1 background clobbered: %+v", updated.Slides[1].Background)
	}
	if len(updated.Slides[1].Elements) != 1 || updated.Slides[1].Elements[0].Path == "" {
		t.Errorf("slide 1 elements clobbered: %+v", updated.Slides[1].Elements)
	}
	// Slide 0 is untouched.
	if updated.Slides[0].Title != "Intro" {
		t.Errorf("slide 0 modified: got title %q", updated.Slides[0].Title)
	}
}

func TestReplaceSlideInvalidIndexLeavesDocumentUnchanged(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	created, err := s.Create(testDeck())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanPresentation(t, db, created.ID) })

	bad := "should never land"
	for _, idx := range []int{-1, 2, 99} {
		_, err := s.ReplaceSlide(created.ID, idx, &models.SlidePatch{Title: &bad})
		if !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("index %d: got err %v, want ErrInvalidIndex", idx, err)
		}
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	for i, sl := range found.Slides {
		if sl.Title == bad {
			t.Errorf("slide %d was modified by rejected patch", i)
		}
	}
}

func TestReplaceSlideUnknownID(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	title := "x"
	_, err := s.ReplaceSlide(uuid.New(), 0, &models.SlidePatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestApplyGlobalStyleBroadcastsTheme(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	created, err := s.Create(testDeck())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanPresentation(t, db, created.ID) })

	theme := "night"
	updated, err := s.ApplyGlobalStyle(created.ID, &theme, nil)
	if err != nil {
		t.Fatalf("ApplyGlobalStyle: %v", err)
	}

	for i, sl := range updated.Slides {
		if sl.Background.Theme != "night" {
			t.Errorf("slide %d theme: got %q, want night", i, sl.Background.Theme)
		}
	}
	// Transition is untouched when omitted.
	if updated.Slides[0].Background.Transition != "fade" {
		t.Errorf("slide 0 transition changed: got %q", updated.Slides[0].Background.Transition)
	}
	if updated.Slides[1].Background.Transition != "zoom" {
		t.Errorf("slide 1 transition changed: got %q", updated.Slides[1].Background.Transition)
	}
}

func TestApplyGlobalStyleBothFields(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	created, err := s.Create(testDeck())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanPresentation(t, db, created.ID) })

	theme, transition := "serif", "linear"
	updated, err := s.ApplyGlobalStyle(created.ID, &theme, &transition)
	if err != nil {
		t.Fatalf("ApplyGlobalStyle: %v", err)
	}

	for i, sl := range updated.Slides {
		if sl.Background.Theme != "serif" || sl.Background.Transition != "linear" {
			t.Errorf("slide %d background: got %+v", i, sl.Background)
		}
	}
}

func TestApplyGlobalStyleUnknownID(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	theme := "sky"
	_, err := s.ApplyGlobalStyle(uuid.New(), &theme, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestLegacyBackgroundCanonicalizedOnRead(t *testing.T) {
	db := testDB(t)
	s := NewPresentationStore(db)

	// Insert a legacy-format document directly: flat background color.
	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO presentations (title, slides)
		VALUES ($1, $2)
		RETURNING id
	`, "legacy deck", `[{"title":"old","background":{"color":"#123456"},"elements":[{"type":"text","text":"hi"}]}]`).Scan(&id)
	if err != nil {
		t.Skipf("skipping: cannot insert legacy row: %v", err)
	}
	t.Cleanup(func() { cleanPresentation(t, db, id) })

	found, err := s.FindByID(id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Slides[0].Background.Theme != models.DefaultTheme {
		t.Errorf("legacy background theme: got %q, want %q",
			found.Slides[0].Background.Theme, models.DefaultTheme)
	}
}
