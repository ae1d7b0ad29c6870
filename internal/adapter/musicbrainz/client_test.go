package musicbrainz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ArtistSync/internal/config"
	"ArtistSync/internal/model"

	"github.com/sirupsen/logrus"
)

const testUserAgent = "ArtistSync/1.0 (ops@example.com)"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Client{
		cfg: &config.SourceConfig{
			BaseURL:   srv.URL,
			UserAgent: testUserAgent,
		},
		httpClient: srv.Client(),
		logger:     logger,
	}
}

func TestSearchArtistFollowsUpWithRelations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/artist", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != testUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, testUserAgent)
		}
		if q := r.URL.Query().Get("query"); !strings.Contains(q, "Bonobo") {
			t.Errorf("query = %q", q)
		}
		_ = json.NewEncoder(w).Encode(model.MusicbrainzSearchResponse{
			Artists: []model.MusicbrainzArtist{{ID: "mb1", Name: "Bonobo", Score: 100}},
			Count:   1,
		})
	})
	mux.HandleFunc("/artist/mb1", func(w http.ResponseWriter, r *http.Request) {
		if inc := r.URL.Query().Get("inc"); inc != "url-rels" {
			t.Errorf("inc = %q, want url-rels", inc)
		}
		_ = json.NewEncoder(w).Encode(model.MusicbrainzArtist{
			ID:   "mb1",
			Name: "Bonobo",
			Area: &model.MusicbrainzArea{Name: "Brighton"},
			Relations: []model.MusicbrainzRelation{
				{Type: "official homepage", URL: &model.MusicbrainzURL{Resource: "https://bonobomusic.com"}},
			},
		})
	})
	client := newTestClient(t, mux)

	artist, err := client.SearchArtist(context.Background(), "Bonobo")
	if err != nil {
		t.Fatalf("SearchArtist: %v", err)
	}
	if artist == nil || artist.ID != "mb1" {
		t.Fatalf("artist = %+v", artist)
	}
	if len(artist.Relations) != 1 {
		t.Errorf("Relations = %v, want url-rels from the by-id lookup", artist.Relations)
	}
	if artist.Area == nil || artist.Area.Name != "Brighton" {
		t.Errorf("Area = %+v", artist.Area)
	}
}

func TestSearchArtistNoMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/artist", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.MusicbrainzSearchResponse{})
	})
	client := newTestClient(t, mux)

	artist, err := client.SearchArtist(context.Background(), "nobody at all")
	if err != nil {
		t.Fatalf("SearchArtist: %v", err)
	}
	if artist != nil {
		t.Errorf("artist = %+v, want nil on no match", artist)
	}
}

func TestSearchArtistDetailFailureFallsBackToSearchHit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/artist", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.MusicbrainzSearchResponse{
			Artists: []model.MusicbrainzArtist{{
				ID:   "mb1",
				Name: "Bonobo",
				Area: &model.MusicbrainzArea{Name: "Brighton"},
			}},
			Count: 1,
		})
	})
	mux.HandleFunc("/artist/mb1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := newTestClient(t, mux)

	artist, err := client.SearchArtist(context.Background(), "Bonobo")
	if err != nil {
		t.Fatalf("SearchArtist: %v", err)
	}
	if artist == nil || artist.Area == nil || artist.Area.Name != "Brighton" {
		t.Fatalf("artist = %+v, want search hit with area kept", artist)
	}
}
