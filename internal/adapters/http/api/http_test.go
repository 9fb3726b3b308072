package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchpulse/liveticker/internal/adapters/http/api"
	service "github.com/matchpulse/liveticker/internal/app"
	"github.com/matchpulse/liveticker/internal/auth"
	"github.com/matchpulse/liveticker/internal/domain/model"
	"github.com/matchpulse/liveticker/pkg/logger"
)

const testSecret = "test-secret"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, auth.NewJWTVerifier(testSecret), svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc
}

func mintToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.SignToken(testSecret, auth.Principal{Subject: "user-1", Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func postCommentary(t *testing.T, srv *httptest.Server, token string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/live-commentary", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func validBody() map[string]any {
	return map[string]any{
		"matchId":    "match-001",
		"teamHome":   "Lakers",
		"teamAway":   "Warriors",
		"scoreHome":  98,
		"scoreAway":  95,
		"commentary": "crucial three-pointer",
		"matchTime":  "Q4 10:00",
	}
}

func TestListCommentary(t *testing.T) {
	srv, svc := startTestServer(t)
	svc.SeedDemo(context.Background())

	resp, err := http.Get(srv.URL + "/api/live-commentary")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q, want application/json", ct)
	}

	var feed []model.Event
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(feed))
	}
	if feed[0].CreatedAt.Before(feed[1].CreatedAt) {
		t.Fatal("feed is not newest-first")
	}
}

func TestListCommentaryLimit(t *testing.T) {
	srv, svc := startTestServer(t)
	svc.SeedDemo(context.Background())

	resp, err := http.Get(srv.URL + "/api/live-commentary?limit=1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var feed []model.Event
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(feed))
	}
}

func TestListCommentaryInvalidLimit(t *testing.T) {
	srv, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/api/live-commentary?limit=abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubmitCommentary(t *testing.T) {
	srv, svc := startTestServer(t)

	resp := postCommentary(t, srv, mintToken(t, auth.RoleEditor), validBody())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var ev model.Event
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.ID == "" {
		t.Fatal("event id not assigned")
	}
	if !ev.IsActive {
		t.Fatal("isActive should default to true when absent")
	}
	if ev.MatchTime == nil || *ev.MatchTime != "Q4 10:00" {
		t.Fatalf("matchTime = %v, want Q4 10:00", ev.MatchTime)
	}

	if got := svc.ReadActive(context.Background(), 0); len(got) != 1 {
		t.Fatalf("feed length = %d, want 1", len(got))
	}
}

func TestSubmitCommentaryWithoutToken(t *testing.T) {
	srv, svc := startTestServer(t)

	resp := postCommentary(t, srv, "", validBody())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if got := svc.ReadActive(context.Background(), 0); len(got) != 0 {
		t.Fatal("rejected submission reached the feed")
	}
}

func TestSubmitCommentaryWithBadToken(t *testing.T) {
	srv, _ := startTestServer(t)

	token, err := auth.SignToken("wrong-secret", auth.Principal{Subject: "user-1", Role: auth.RoleEditor}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	resp := postCommentary(t, srv, token, validBody())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestSubmitCommentaryAsReader(t *testing.T) {
	srv, _ := startTestServer(t)

	resp := postCommentary(t, srv, mintToken(t, auth.RoleReader), validBody())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestSubmitCommentaryValidation(t *testing.T) {
	srv, _ := startTestServer(t)

	body := validBody()
	body["matchId"] = ""
	resp := postCommentary(t, srv, mintToken(t, auth.RoleEditor), body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.Code == "" {
		t.Fatal("error response has no code")
	}
}

func TestSubmitCommentaryMalformedBody(t *testing.T) {
	srv, _ := startTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/live-commentary", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+mintToken(t, auth.RoleEditor))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUnknownMethod(t *testing.T) {
	srv, _ := startTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/live-commentary", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, svc := startTestServer(t)
	svc.SeedDemo(context.Background())

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["started"] != true {
		t.Fatalf("stats started = %v, want true", stats["started"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := startTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
