package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ytheys/agency-radar/internal/auth"
	"github.com/ytheys/agency-radar/internal/config"
	"github.com/ytheys/agency-radar/internal/directory"
	"github.com/ytheys/agency-radar/internal/enrich"
	"github.com/ytheys/agency-radar/internal/model"
	"github.com/ytheys/agency-radar/internal/monitoring"
	"github.com/ytheys/agency-radar/pkg/github/mocks"
)

func floatPtr(f float64) *float64 { return &f }

func testService(t *testing.T) (*directory.Service, *enrich.Loader) {
	t.Helper()

	client := mocks.NewMockClient(t)
	client.On("Overview", mock.Anything, "webworks/site").
		Return(&model.RepoOverview{Language: "TypeScript", Description: "Modern web platforms."}, nil).Maybe()
	client.On("Overview", mock.Anything, "cloudsmiths/infra").
		Return(&model.RepoOverview{Language: "Go", Description: "Terraform consulting."}, nil).Maybe()

	loader := enrich.NewLoader(client)
	svc := directory.NewService(loader, []model.SeedRecord{
		{Company: "Webworks", Repo: "webworks/site", RatingCount: floatPtr(4.9), ProjectsCount: intPtr(2000)},
		{Company: "Cloudsmiths", Repo: "cloudsmiths/infra", RatingCount: floatPtr(4.6), ProjectsCount: intPtr(400)},
	})
	require.NoError(t, svc.Load(context.Background()))
	return svc, loader
}

func intPtr(i int) *int { return &i }

func testAuth(bypass bool) *auth.Service {
	return auth.NewService(auth.Config{
		Email:    "test@ossean.in",
		Password: "devpass123",
		Secret:   "test-secret",
		Bypass:   bypass,
	})
}

// newTestServer spins up the full router and returns the test server
// plus a valid bearer token.
func newTestServer(t *testing.T, bypass bool) (*httptest.Server, string) {
	t.Helper()

	svc, loader := testService(t)
	authSvc := testAuth(bypass)
	collector := monitoring.NewCollector(svc, loader, nil, nil)

	srv := New(config.ServerConfig{
		AllowedOrigins: []string{"*"},
		DebounceMillis: 50,
	}, svc, authSvc, collector)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	token, err := authSvc.SignIn("test@ossean.in", "devpass123")
	require.NoError(t, err)
	return ts, token
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp := get(t, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestSignIn_Success(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp := postJSON(t, ts.URL+"/api/auth/signin", "", map[string]string{
		"email":    "test@ossean.in",
		"password": "devpass123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestSignIn_BadCredentials(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp := postJSON(t, ts.URL+"/api/auth/signin", "", map[string]string{
		"email":    "test@ossean.in",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "invalid email or password", body["error"])
}

func TestSignIn_BadBody(t *testing.T) {
	ts, _ := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/signin", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAgencies_RequiresAuth(t *testing.T) {
	ts, token := newTestServer(t, false)

	resp := get(t, ts.URL+"/api/agencies", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, ts.URL+"/api/agencies", "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, ts.URL+"/api/agencies", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string][]model.Agency](t, resp)
	assert.Len(t, body["agencies"], 2)
}

func TestAgencies_BypassSkipsAuth(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp := get(t, ts.URL+"/api/agencies", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMatch(t *testing.T) {
	ts, token := newTestServer(t, false)

	resp := postJSON(t, ts.URL+"/api/match", token, map[string]string{
		"prompt": "I need help with cloud infrastructure",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[directory.MatchResult](t, resp)
	assert.NotEmpty(t, body.ID)
	assert.Contains(t, body.Message, "highly suitable agencies")
	require.NotEmpty(t, body.Matches)
	assert.Equal(t, "Cloudsmiths", body.Matches[0].Agency.Name)
}

func TestTrending(t *testing.T) {
	ts, token := newTestServer(t, false)

	resp := get(t, ts.URL+"/api/trending", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string][]model.TrendingEntry](t, resp)
	require.Len(t, body["entries"], 2)
	assert.Equal(t, "Webworks", body["entries"][0].Agency.Name)
}

func TestTrending_Filtered(t *testing.T) {
	ts, token := newTestServer(t, false)

	resp := get(t, ts.URL+"/api/trending?domain=DevOps+%26+Cloud", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string][]model.TrendingEntry](t, resp)
	require.Len(t, body["entries"], 1)
	assert.Equal(t, "Cloudsmiths", body["entries"][0].Agency.Name)

	resp = get(t, ts.URL+"/api/trending?popularity=legendary", token)
	body = decode[map[string][]model.TrendingEntry](t, resp)
	require.Len(t, body["entries"], 1)
	assert.Equal(t, "Webworks", body["entries"][0].Agency.Name)
}

func TestStats(t *testing.T) {
	ts, token := newTestServer(t, false)

	resp := get(t, ts.URL+"/api/stats", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[monitoring.MetricsSnapshot](t, resp)
	assert.True(t, snap.DirectoryLoaded)
	assert.Equal(t, 2, snap.AgencyCount)
}
