package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/napatsiri/go-biolink/pkg/adapters/handler"
	"github.com/napatsiri/go-biolink/pkg/adapters/notify"
	"github.com/napatsiri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/napatsiri/go-biolink/pkg/config"
	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/core/services"
)

func TestIntegration(t *testing.T) {
	// 1. Setup DB (modernc sqlite supports shared in-memory databases)
	dbURL := "file:memdbe2e?mode=memory&cache=shared"
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "e2e-secret",
		AppEnv:    "local",
	}

	// 2. Setup Services and Router
	hub := notify.NewHub(nil)
	entryService := services.NewEntryService(repo, hub)
	profileService := services.NewProfileService(repo, repo, hub)
	marketService := services.NewMarketService(repo)
	accountService := services.NewAccountService(repo)
	mux := handler.NewRouter(cfg, entryService, profileService, marketService, accountService, hub, nil)

	server := httptest.NewServer(mux)
	defer server.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	postJSON := func(path string, payload interface{}) *http.Response {
		t.Helper()
		body, _ := json.Marshal(payload)
		resp, err := client.Post(server.URL+path, "application/json", bytes.NewBuffer(body))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		return resp
	}

	// TEST 1: Unauthenticated API request is rejected
	resp, err := client.Get(server.URL + "/api/v1/entries")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without cookie, got %d", resp.StatusCode)
	}

	// TEST 2: Signup sets the auth cookie
	resp = postJSON("/api/v1/auth/signup", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "hunter22",
		"username": "jane",
		"fullname": "Jane Doe",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Signup expected 201, got %d", resp.StatusCode)
	}
	var profile domain.Profile
	json.NewDecoder(resp.Body).Decode(&profile)
	if profile.UserID == "" || profile.Template != "default" {
		t.Fatalf("Unexpected profile: %+v", profile)
	}

	// TEST 3: Subscribe over websocket before editing
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/subscribe"
	wsHeader := http.Header{}
	for _, c := range jar.Cookies(mustParseURL(t, server.URL)) {
		wsHeader.Add("Cookie", c.Name+"="+c.Value)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, wsHeader)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	// TEST 4: Create entries
	var created []domain.Entry
	for _, label := range []string{"https://a.example", "https://b.example", "About"} {
		resp = postJSON("/api/v1/entries", map[string]interface{}{
			"label":   label,
			"is_link": !strings.HasPrefix(label, "About"),
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Create expected 201, got %d", resp.StatusCode)
		}
		var e domain.Entry
		json.NewDecoder(resp.Body).Decode(&e)
		created = append(created, e)
	}
	if created[2].Position != 2 {
		t.Errorf("Third entry position: got %d want 2", created[2].Position)
	}

	// The websocket stream saw the inserts in order.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := range created {
		var ev domain.ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event %d: %v", i, err)
		}
		if ev.Kind != domain.ChangeInserted || ev.ID != created[i].ID {
			t.Errorf("event %d: got %s/%s want inserted/%s", i, ev.Kind, ev.ID, created[i].ID)
		}
	}

	// TEST 5: Reorder (move first to the end) and verify contiguity
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/v1/entries/reorder",
		bytes.NewBufferString(`{"from":0,"to":2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Reorder expected 200, got %d", resp.StatusCode)
	}
	var reordered struct {
		Data []domain.Entry `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&reordered)
	wantOrder := []string{created[1].ID, created[2].ID, created[0].ID}
	for i, e := range reordered.Data {
		if e.ID != wantOrder[i] {
			t.Errorf("order at %d: got %s want %s", i, e.ID, wantOrder[i])
		}
		if e.Position != i {
			t.Errorf("position at %d: got %d", i, e.Position)
		}
	}

	// TEST 6: Activate one entry and fetch the public page
	req, _ = http.NewRequest(http.MethodPatch, server.URL+"/api/v1/entries/"+created[0].ID,
		bytes.NewBufferString(`{"active":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Update expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/u/jane")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Public page expected 200, got %d", resp.StatusCode)
	}
	var page domain.PublicPage
	json.NewDecoder(resp.Body).Decode(&page)
	if len(page.Entries) != 1 || page.Entries[0].ID != created[0].ID {
		t.Errorf("Public page should show only the active entry, got %v", page.Entries)
	}
	if page.Template != "default" {
		t.Errorf("Public page template: got %s", page.Template)
	}

	// TEST 7: Delete then reorder closes the position gap
	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/api/v1/entries/"+created[1].ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Delete expected 204, got %d", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodPut, server.URL+"/api/v1/entries/reorder",
		bytes.NewBufferString(`{"from":0,"to":0}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	json.NewDecoder(resp.Body).Decode(&reordered)
	if len(reordered.Data) != 2 {
		t.Fatalf("Expected 2 entries after delete, got %d", len(reordered.Data))
	}
	for i, e := range reordered.Data {
		if e.Position != i {
			t.Errorf("gap not closed at %d: position %d", i, e.Position)
		}
	}

	// TEST 8: Marketplace is public and seeded
	resp, err = http.Get(server.URL + "/api/v1/marketplace")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Marketplace expected 200, got %d", resp.StatusCode)
	}
	var listings struct {
		Data []domain.Listing `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&listings)
	if len(listings.Data) == 0 {
		t.Error("Marketplace catalog is empty")
	}

	// TEST 9: Feedback requires content
	resp = postJSON("/api/v1/feedback", map[string]string{"content": ""})
	if resp.StatusCode != http.StatusInternalServerError && resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Empty feedback: got %d", resp.StatusCode)
	}
	resp = postJSON("/api/v1/feedback", map[string]string{"content": "love it"})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Feedback expected 201, got %d", resp.StatusCode)
	}

	// TEST 10: Social links fan out on the same owner channel
	resp = postJSON("/api/v1/social-links", map[string]string{
		"platform": "github",
		"url":      "https://github.com/jane",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Social link expected 201, got %d", resp.StatusCode)
	}
	var link domain.SocialLink
	json.NewDecoder(resp.Body).Decode(&link)

	// Skip the entry events still buffered from the edits above.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var ev domain.ChangeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("waiting for social link event: %v", err)
		}
		if ev.Resource != domain.ResourceSocialLink {
			continue
		}
		if ev.Kind != domain.ChangeInserted || ev.ID != link.ID || ev.SocialLink == nil || ev.SocialLink.Platform != "github" {
			t.Errorf("unexpected social link event: %+v", ev)
		}
		break
	}
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}
