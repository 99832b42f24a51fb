package contentsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aniverse/pkg/models"
	"aniverse/pkg/utils"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		HTTP:        srv.Client(),
		BaseURL:     srv.URL,
		APIKey:      "key-123",
		Token:       "tok-456",
		Environment: "production",
	}
}

func TestFetchAllQueryShape(t *testing.T) {
	var seen *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(r.Context())
		w.Write([]byte(`{"entries": [{"uid": "a1", "title": "Clannad"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv)
	var out []models.Anime
	err := c.FetchAll(context.Background(), KindAnime, Options{
		IncludeReferences: []string{"genres", "related"},
		SortBy:            "rating",
		Descending:        true,
		Limit:             5,
	}, &out)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if seen.URL.Path != "/v3/content_types/anime/entries" {
		t.Errorf("path = %q", seen.URL.Path)
	}
	q := seen.URL.Query()
	if q.Get("environment") != "production" {
		t.Errorf("environment = %q", q.Get("environment"))
	}
	if got := q["include[]"]; len(got) != 2 || got[0] != "genres" || got[1] != "related" {
		t.Errorf("include[] = %v", got)
	}
	if q.Get("desc") != "rating" || q.Has("asc") {
		t.Errorf("sort params = desc:%q asc:%q", q.Get("desc"), q.Get("asc"))
	}
	if q.Get("limit") != "5" {
		t.Errorf("limit = %q", q.Get("limit"))
	}
	if seen.Header.Get("api_key") != "key-123" || seen.Header.Get("access_token") != "tok-456" {
		t.Errorf("auth headers missing: %v", seen.Header)
	}

	if len(out) != 1 || out[0].UID != "a1" || out[0].Title != "Clannad" {
		t.Errorf("decoded entries = %+v", out)
	}
}

func TestFetchAllQueryPredicate(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"entries": []}`))
	}))
	defer srv.Close()

	c := testClient(srv)
	var out []models.Episode
	err := c.FetchAll(context.Background(), KindEpisode, Options{
		Equals:      map[string]any{"slug": "episode-1"},
		ReferenceIn: map[string]string{"anime_reference": "anime-42"},
	}, &out)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	var pred map[string]any
	if err := json.Unmarshal([]byte(rawQuery), &pred); err != nil {
		t.Fatalf("query param is not JSON: %q", rawQuery)
	}
	if pred["slug"] != "episode-1" {
		t.Errorf("equality predicate = %v", pred["slug"])
	}
	ref, ok := pred["anime_reference"].(map[string]any)
	if !ok {
		t.Fatalf("reference predicate = %v", pred["anime_reference"])
	}
	inq, ok := ref["$in_query"].(map[string]any)
	if !ok || inq["uid"] != "anime-42" {
		t.Errorf("$in_query = %v", ref["$in_query"])
	}
}

func TestFetchAllEmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	out := []models.Anime{{UID: "stale"}}
	if err := testClient(srv).FetchAll(context.Background(), KindAnime, Options{}, &out); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	// dst is left untouched when the envelope has no entries key
	if len(out) != 1 {
		t.Errorf("dst modified on empty envelope: %+v", out)
	}
}

func TestFetchAllUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_message": "invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out []models.Anime
	err := testClient(srv).FetchAll(context.Background(), KindAnime, Options{}, &out)
	if err == nil {
		t.Fatal("non-200 status must surface as an error")
	}
}

func TestFetchAllContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"entries": []}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out []models.Anime
	if err := testClient(srv).FetchAll(ctx, KindAnime, Options{}, &out); err == nil {
		t.Fatal("cancelled context must surface as an error")
	}
}

func TestFetchOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/content_types/anime/entries/blt123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"entry": {"uid": "blt123", "title": "Mushishi"}}`))
	}))
	defer srv.Close()

	var a models.Anime
	if err := testClient(srv).FetchOne(context.Background(), KindAnime, "blt123", &a); err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if a.UID != "blt123" || a.Title != "Mushishi" {
		t.Errorf("decoded entry = %+v", a)
	}
}

func TestFetchOneMissingEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var a models.Anime
	if err := testClient(srv).FetchOne(context.Background(), KindAnime, "blt999", &a); err == nil {
		t.Fatal("empty entry envelope must surface as an error")
	}
}

func TestCreateOrderEntry(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/content_types/order/entries" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("authorization") != "mgmt-tok" {
			t.Errorf("authorization = %q", r.Header.Get("authorization"))
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"entry": {"uid": "blt_order_1"}}`))
	}))
	defer srv.Close()

	m := &ManagementClient{
		HTTP:    srv.Client(),
		BaseURL: srv.URL,
		APIKey:  "key-123",
		Token:   "mgmt-tok",
	}
	uid, err := m.CreateOrderEntry(context.Background(), models.Order{
		ID:            "ORD-1756700000000-AB12C",
		CustomerName:  "Rin",
		CustomerEmail: "rin@example.com",
		Total:         59.98,
		Status:        models.OrderStatusPending,
		Items: []models.OrderItem{
			{UID: "m1", Title: "Vol 1", Quantity: 2, Price: 29.99},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrderEntry: %v", err)
	}
	if uid != "blt_order_1" {
		t.Errorf("uid = %q", uid)
	}

	var entry orderEntry
	if err := json.Unmarshal(gotBody["entry"], &entry); err != nil {
		t.Fatalf("entry payload: %v", err)
	}
	if entry.OrderID != "ORD-1756700000000-AB12C" || entry.Total != 59.98 {
		t.Errorf("entry = %+v", entry)
	}
	var items []models.OrderItem
	if err := json.Unmarshal([]byte(entry.Items), &items); err != nil || len(items) != 1 {
		t.Errorf("items must be a JSON string field: %q (%v)", entry.Items, err)
	}
}

func TestNewManagementClientDisabled(t *testing.T) {
	cfg := utils.ContentstackConfig{APIKey: "key", DeliveryToken: "tok"}
	if m := NewManagementClient(cfg); m != nil {
		t.Error("client must be nil without a management token")
	}
}
