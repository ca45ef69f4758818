package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campushub/internal/achievements"
	"campushub/internal/announcements"
	"campushub/internal/clubs"
	"campushub/internal/config"
	"campushub/internal/events"
	"campushub/internal/identity"
	"campushub/internal/queue"
	"campushub/internal/registrations"
)

var testClock = time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)

func testConfig() config.App {
	return config.App{
		Env:             "test",
		JWTIssuer:       "campushub-test",
		JWTSigningKey:   "test-signing-key",
		AccessTTL:       time.Hour,
		RateLimitPerMin: 10000,
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	log := zerolog.Nop()
	now := func() time.Time { return testClock }

	eventStore := events.NewMemoryStore()
	regStore := registrations.NewMemoryStore(eventStore)
	clubStore := clubs.NewMemoryStore()
	achStore := achievements.NewMemoryStore()

	eventSvc := events.NewService(eventStore, achStore, regStore, log, now)
	regSvc := registrations.NewService(regStore, eventSvc, queue.NewInMemory(16), log, now)
	achSvc := achievements.NewService(achStore, eventSvc, log, now)
	clubSvc := clubs.NewService(clubStore, log, now)
	annSvc := announcements.NewService(announcements.NewMemoryStore(), clubStore, log, now)

	srv := New(cfg, log, eventSvc, regSvc, clubSvc, achSvc, annSvc, nil, nil)
	return srv.Router()
}

func token(t *testing.T, userID string, role identity.Role, department string, year int) string {
	t.Helper()
	cfg := testConfig()
	tok, _, err := identity.Issue(userID, role, department, year, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/v1/events", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestEventRegistrationFlow(t *testing.T) {
	r := newTestRouter(t)
	faculty := token(t, "f1", identity.RoleFaculty, "CSE", 0)
	student := token(t, "s1", identity.RoleStudent, "CSE", 2)

	w := doJSON(t, r, http.MethodPost, "/v1/events", faculty, gin.H{
		"title":   "Tech Fest",
		"startAt": "2026-03-02T09:00:00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create event: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		ID      string `json:"id"`
		StartAt string `json:"startAt"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// a naive timestamp is stored as UTC
	if created.StartAt != "2026-03-02T09:00:00Z" {
		t.Fatalf("startAt = %q", created.StartAt)
	}

	// students cannot create events
	w = doJSON(t, r, http.MethodPost, "/v1/events", student, gin.H{"title": "x", "startAt": "2026-03-02T09:00:00"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("student create: %d", w.Code)
	}

	reg := gin.H{
		"name":               "Asha Rao",
		"registrationNumber": "21CSE042",
		"branch":             "CSE",
		"section":            "B",
		"contact":            "asha@example.edu",
	}
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+created.ID+"/registrations", student, reg)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+created.ID+"/registrations", student, reg)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d", w.Code)
	}

	// the student's listing carries the registration flag
	w = doJSON(t, r, http.MethodGet, "/v1/events", student, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var listing struct {
		Active []struct {
			ID           string `json:"id"`
			IsRegistered bool   `json:"isRegistered"`
		} `json:"active"`
		Archived []json.RawMessage `json:"archived"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing.Active) != 1 || !listing.Active[0].IsRegistered {
		t.Fatalf("listing = %s", w.Body.String())
	}

	// only the owner sees and exports registrations
	w = doJSON(t, r, http.MethodGet, "/v1/events/"+created.ID+"/registrations", student, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student list registrations: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/v1/events/"+created.ID+"/registrations", faculty, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner list registrations: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/v1/events/"+created.ID+"/registrations/export", faculty, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "registrations_Tech Fest.csv") {
		t.Fatalf("content-disposition = %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "RegistrationNumber,") {
		t.Fatalf("csv body = %q", w.Body.String())
	}

	// withdrawal then a clean re-register
	w = doJSON(t, r, http.MethodDelete, "/v1/events/"+created.ID+"/registrations", student, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("unregister: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/v1/events/"+created.ID+"/registrations", student, reg)
	if w.Code != http.StatusCreated {
		t.Fatalf("re-register: %d", w.Code)
	}
}

func TestEventValidationErrors(t *testing.T) {
	r := newTestRouter(t)
	faculty := token(t, "f1", identity.RoleFaculty, "CSE", 0)

	w := doJSON(t, r, http.MethodPost, "/v1/events", faculty, gin.H{"title": "x", "startAt": "not-a-time"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad startAt: %d", w.Code)
	}
	var resp struct {
		Field string `json:"field"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Field != "startAt" {
		t.Fatalf("field = %q (%v)", resp.Field, err)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/events", faculty, gin.H{
		"title":             "x",
		"startAt":           "2026-03-02T09:00:00",
		"participationType": "team",
		"minTeamSize":       4,
		"maxTeamSize":       2,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad team bounds: %d %s", w.Code, w.Body.String())
	}
}

func TestClubFlow(t *testing.T) {
	r := newTestRouter(t)
	admin := token(t, "a1", identity.RoleAdmin, "", 0)
	lead := token(t, "lead1", identity.RoleStudent, "CSE", 3)

	w := doJSON(t, r, http.MethodPost, "/v1/clubs", admin, gin.H{
		"name":       "Robotics Club",
		"category":   "Technical",
		"leadUserId": "lead1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create club: %d %s", w.Code, w.Body.String())
	}
	var club struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &club)

	// the seeded lead can create a club event
	w = doJSON(t, r, http.MethodPost, "/v1/events", lead, gin.H{
		"title":   "Robo Race",
		"startAt": "2026-03-05T10:00:00",
		"clubId":  club.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("lead club event: %d %s", w.Code, w.Body.String())
	}

	// but not a campus-wide one
	w = doJSON(t, r, http.MethodPost, "/v1/events", lead, gin.H{
		"title":   "Campus Takeover",
		"startAt": "2026-03-05T10:00:00",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("lead campus event: %d", w.Code)
	}

	// membership role change with an invalid role is rejected at binding
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/v1/clubs/%s/members/%s/role", club.ID, "lead1"), admin, gin.H{"role": "emperor"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid role: %d", w.Code)
	}
}
