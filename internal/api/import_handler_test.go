package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArtistSync/internal/model"
	"ArtistSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeIngestor struct {
	draftID    string
	err        error
	gotSource  string
	gotPayload []byte
	drafts     []*model.EventDraft
}

func (f *fakeIngestor) Ingest(ctx context.Context, raw json.RawMessage, source string) (string, error) {
	f.gotSource = source
	f.gotPayload = raw
	return f.draftID, f.err
}

func (f *fakeIngestor) ListDrafts(ctx context.Context, status string) ([]*model.EventDraft, error) {
	return f.drafts, f.err
}

type fakeReviewer struct {
	event       *model.Event
	err         error
	gotDecision string
}

func (f *fakeReviewer) Review(ctx context.Context, draftUUID string, decision string, overrides *model.ParsedEvent) (*model.Event, error) {
	f.gotDecision = decision
	return f.event, f.err
}

func newImportRouter(ing *fakeIngestor, rev *fakeReviewer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := &ImportHandler{ingestService: ing, reviewService: rev, logger: logger}

	router := gin.New()
	router.POST("/api/imports", h.IngestHandler)
	router.GET("/api/imports", h.ListDraftsHandler)
	router.PUT("/api/imports/:draft_id", h.ReviewHandler)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestHandlerSourceResolution(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantSource string
	}{
		{"query参数优先", "/api/imports?source=extension", `{"source":"bookmarklet","title":"X"}`, "extension"},
		{"载荷source字段其次", "/api/imports", `{"source":"bookmarklet","title":"X"}`, "bookmarklet"},
		{"兜底email", "/api/imports", `{"email_subject":"X"}`, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := &fakeIngestor{draftID: "draft-uuid-1"}
			router := newImportRouter(ing, &fakeReviewer{})

			w := doRequest(t, router, http.MethodPost, tt.target, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if ing.gotSource != tt.wantSource {
				t.Errorf("source = %q, want %q", ing.gotSource, tt.wantSource)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response: %v", err)
			}
			if resp["draft_id"] != "draft-uuid-1" {
				t.Errorf("draft_id = %q", resp["draft_id"])
			}
		})
	}
}

func TestListDraftsHandler(t *testing.T) {
	ing := &fakeIngestor{drafts: []*model.EventDraft{
		{ID: 2, DraftUUID: "b", Status: model.DraftStatusPending},
		{ID: 1, DraftUUID: "a", Status: model.DraftStatusPending},
	}}
	router := newImportRouter(ing, &fakeReviewer{})

	w := doRequest(t, router, http.MethodGet, "/api/imports?status=pending_review", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Drafts []*model.EventDraft `json:"drafts"`
		Total  int                 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.Total != 2 || len(resp.Drafts) != 2 {
		t.Errorf("total = %d, drafts = %d", resp.Total, len(resp.Drafts))
	}
}

func TestReviewHandlerApprove(t *testing.T) {
	rev := &fakeReviewer{event: &model.Event{ID: 31, Slug: "spring-fling-2026-03-14-the-venue"}}
	router := newImportRouter(&fakeIngestor{}, rev)

	w := doRequest(t, router, http.MethodPut, "/api/imports/draft-uuid-1", `{"decision":"approve"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if rev.gotDecision != service.DecisionApprove {
		t.Errorf("decision = %q", rev.gotDecision)
	}
	var resp struct {
		Status string       `json:"status"`
		Event  *model.Event `json:"event"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp.Status != model.DraftStatusApproved || resp.Event == nil || resp.Event.ID != 31 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestReviewHandlerReject(t *testing.T) {
	router := newImportRouter(&fakeIngestor{}, &fakeReviewer{})

	w := doRequest(t, router, http.MethodPut, "/api/imports/draft-uuid-1", `{"decision":"reject"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response: %v", err)
	}
	if resp["status"] != model.DraftStatusRejected {
		t.Errorf("status = %v", resp["status"])
	}
	if _, ok := resp["event"]; ok {
		t.Error("reject response must not carry an event")
	}
}

func TestReviewHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"草稿不存在", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"非待审核", service.ErrDraftNotPending, http.StatusBadRequest},
		{"空草稿", service.ErrEmptyDraft, http.StatusBadRequest},
		{"未知决策", service.ErrUnknownDecision, http.StatusBadRequest},
		{"落库失败", gorm.ErrInvalidTransaction, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newImportRouter(&fakeIngestor{}, &fakeReviewer{err: tt.err})

			w := doRequest(t, router, http.MethodPut, "/api/imports/x", `{"decision":"approve"}`)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
