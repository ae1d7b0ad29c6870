package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"ArtistSync/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeDraftRepo struct {
	draft      *model.EventDraft
	rejectedID uint64
}

func (f *fakeDraftRepo) Create(ctx context.Context, draft *model.EventDraft) error { return nil }

func (f *fakeDraftRepo) GetByUUID(ctx context.Context, draftUUID string) (*model.EventDraft, error) {
	if f.draft == nil || f.draft.DraftUUID != draftUUID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.draft, nil
}

func (f *fakeDraftRepo) ListByStatus(ctx context.Context, status string) ([]*model.EventDraft, error) {
	return nil, nil
}

func (f *fakeDraftRepo) MarkRejected(ctx context.Context, id uint64) error {
	f.rejectedID = id
	return nil
}

type fakeEventRepo struct {
	existingSlugs map[string]bool
	savedEvent    *model.Event
	savedVenue    *model.Venue
	savedArtists  []string
	savedDraftID  uint64
}

func (f *fakeEventRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return f.existingSlugs[slug], nil
}

func (f *fakeEventRepo) SaveApprovedEvent(ctx context.Context, event *model.Event, venue *model.Venue, artistNames []string, placeholder string, draftID uint64) error {
	f.savedEvent = event
	f.savedVenue = venue
	f.savedArtists = artistNames
	f.savedDraftID = draftID
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newReviewServiceForTest(drafts *fakeDraftRepo, events *fakeEventRepo) *ReviewService {
	return &ReviewService{
		logger:      testLogger(),
		draftRepo:   drafts,
		eventRepo:   events,
		defaultTime: "20:00",
	}
}

func pendingDraft(t *testing.T, parsed *model.ParsedEvent) *model.EventDraft {
	t.Helper()
	draft := &model.EventDraft{
		ID:         7,
		DraftUUID:  "draft-uuid-1",
		Status:     model.DraftStatusPending,
		Source:     "email",
		RawPayload: datatypes.JSON(`{"body":"..."}`),
	}
	if parsed != nil {
		draft.Parsed = mustJSON(parsed)
	}
	return draft
}

func TestReviewApprove(t *testing.T) {
	parsed := &model.ParsedEvent{
		Title:     "Spring Fling",
		Date:      "Friday, March 14",
		Time:      "9pm",
		VenueName: "The Venue",
		Artists:   []string{"DJ A", "DJ B"},
		Genre:     "house",
		Price:     "$15",
		Promoter:  "Night Owl Presents",
		TicketURL: "https://tickets.example.com/x",
	}
	drafts := &fakeDraftRepo{draft: pendingDraft(t, parsed)}
	events := &fakeEventRepo{existingSlugs: map[string]bool{}}
	svc := newReviewServiceForTest(drafts, events)

	event, err := svc.Review(context.Background(), "draft-uuid-1", DecisionApprove, nil)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if event == nil || events.savedEvent == nil {
		t.Fatal("approved event not persisted")
	}

	wantDate := fmt.Sprintf("%d-03-14", time.Now().Year())
	if event.Date != wantDate {
		t.Errorf("Date = %q, want %q", event.Date, wantDate)
	}
	if event.Time != "21:00" {
		t.Errorf("Time = %q, want 21:00", event.Time)
	}
	if wantSlug := "spring-fling-" + wantDate + "-the-venue"; event.Slug != wantSlug {
		t.Errorf("Slug = %q, want %q", event.Slug, wantSlug)
	}
	if event.Category != "music" || event.Status != "active" {
		t.Errorf("Category/Status = %q/%q", event.Category, event.Status)
	}
	if events.savedVenue.Name != "The Venue" {
		t.Errorf("venue = %q", events.savedVenue.Name)
	}
	if len(events.savedArtists) != 2 {
		t.Errorf("artists = %v", events.savedArtists)
	}
	if events.savedDraftID != 7 {
		t.Errorf("draft id = %d, want 7", events.savedDraftID)
	}
}

func TestReviewApproveFallbacks(t *testing.T) {
	// 无场地、无艺人、无主办方：场地回退TBA，艺人回退标题
	parsed := &model.ParsedEvent{Title: "Mystery Rave"}
	drafts := &fakeDraftRepo{draft: pendingDraft(t, parsed)}
	events := &fakeEventRepo{existingSlugs: map[string]bool{}}
	svc := newReviewServiceForTest(drafts, events)

	event, err := svc.Review(context.Background(), "draft-uuid-1", DecisionApprove, nil)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if events.savedVenue.Name != "TBA" {
		t.Errorf("venue = %q, want TBA", events.savedVenue.Name)
	}
	if len(events.savedArtists) != 1 || events.savedArtists[0] != "Mystery Rave" {
		t.Errorf("artists = %v, want [Mystery Rave]", events.savedArtists)
	}
	if event.Time != "20:00" {
		t.Errorf("Time = %q, want default 20:00", event.Time)
	}
	if event.Description == "" {
		t.Error("description template should be filled in")
	}
}

func TestReviewApproveSlugCollision(t *testing.T) {
	parsed := &model.ParsedEvent{Title: "Spring Fling", Date: "2026-03-14", VenueName: "The Venue"}
	base := "spring-fling-2026-03-14-the-venue"
	drafts := &fakeDraftRepo{draft: pendingDraft(t, parsed)}
	events := &fakeEventRepo{existingSlugs: map[string]bool{
		base:        true,
		base + "-1": true,
	}}
	svc := newReviewServiceForTest(drafts, events)

	event, err := svc.Review(context.Background(), "draft-uuid-1", DecisionApprove, nil)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if want := base + "-2"; event.Slug != want {
		t.Errorf("Slug = %q, want %q", event.Slug, want)
	}
}

func TestReviewApproveOverrides(t *testing.T) {
	parsed := &model.ParsedEvent{Title: "Draft Title", Time: "8pm"}
	drafts := &fakeDraftRepo{draft: pendingDraft(t, parsed)}
	events := &fakeEventRepo{existingSlugs: map[string]bool{}}
	svc := newReviewServiceForTest(drafts, events)

	overrides := &model.ParsedEvent{Title: "Final Title", Genre: "techno"}
	event, err := svc.Review(context.Background(), "draft-uuid-1", DecisionApprove, overrides)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if event.Title != "Final Title" {
		t.Errorf("Title = %q, want override", event.Title)
	}
	if event.Genre != "techno" {
		t.Errorf("Genre = %q, want techno", event.Genre)
	}
	if event.Time != "20:00" {
		t.Errorf("Time = %q, want 20:00 from draft field", event.Time)
	}
}

func TestReviewReject(t *testing.T) {
	drafts := &fakeDraftRepo{draft: pendingDraft(t, &model.ParsedEvent{Title: "X"})}
	events := &fakeEventRepo{existingSlugs: map[string]bool{}}
	svc := newReviewServiceForTest(drafts, events)

	event, err := svc.Review(context.Background(), "draft-uuid-1", DecisionReject, nil)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if event != nil {
		t.Error("reject must not produce an event")
	}
	if drafts.rejectedID != 7 {
		t.Errorf("rejected id = %d, want 7", drafts.rejectedID)
	}
	if events.savedEvent != nil {
		t.Error("reject must not write events")
	}
}

func TestReviewTerminalStates(t *testing.T) {
	for _, status := range []string{model.DraftStatusApproved, model.DraftStatusRejected} {
		draft := pendingDraft(t, &model.ParsedEvent{Title: "X"})
		draft.Status = status
		svc := newReviewServiceForTest(&fakeDraftRepo{draft: draft}, &fakeEventRepo{})

		_, err := svc.Review(context.Background(), "draft-uuid-1", DecisionApprove, nil)
		if !errors.Is(err, ErrDraftNotPending) {
			t.Errorf("status %s: err = %v, want ErrDraftNotPending", status, err)
		}
	}
}

func TestReviewEmptyDraft(t *testing.T) {
	drafts := &fakeDraftRepo{draft: pendingDraft(t, nil)}
	svc := newReviewServiceForTest(drafts, &fakeEventRepo{})

	_, err := svc.Review(context.Background(), "draft-uuid-1", DecisionApprove, nil)
	if !errors.Is(err, ErrEmptyDraft) {
		t.Errorf("err = %v, want ErrEmptyDraft", err)
	}
}

func TestReviewUnknownDecision(t *testing.T) {
	drafts := &fakeDraftRepo{draft: pendingDraft(t, &model.ParsedEvent{Title: "X"})}
	svc := newReviewServiceForTest(drafts, &fakeEventRepo{})

	_, err := svc.Review(context.Background(), "draft-uuid-1", "maybe", nil)
	if !errors.Is(err, ErrUnknownDecision) {
		t.Errorf("err = %v, want ErrUnknownDecision", err)
	}
}

func TestReviewDraftNotFound(t *testing.T) {
	svc := newReviewServiceForTest(&fakeDraftRepo{}, &fakeEventRepo{})

	_, err := svc.Review(context.Background(), "missing", DecisionApprove, nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want wrapped gorm.ErrRecordNotFound", err)
	}
}
