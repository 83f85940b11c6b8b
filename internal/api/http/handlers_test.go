package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/wishmachine/internal/manifest"
	"github.com/xtding233/wishmachine/internal/profile"
	"github.com/xtding233/wishmachine/internal/wish"
)

type fixedEngines map[string]*manifest.Engine

func (f fixedEngines) Engine(name string) (*manifest.Engine, error) {
	if e, ok := f[name]; ok {
		return e, nil
	}
	return nil, profile.ErrNotFound
}

func newTestRouter(t *testing.T) nethttp.Handler {
	t.Helper()
	e, err := manifest.NewEngine(manifest.DefaultConfig())
	require.NoError(t, err)
	svc := wish.NewService(fixedEngines{profile.DefaultProfile: e}, "", nil)
	return NewRouter(svc, RouterOptions{})
}

func do(t *testing.T, h nethttp.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type resultBody struct {
	Wish              string          `json:"wish"`
	Profile           string          `json:"profile"`
	Seed              string          `json:"seed"`
	Intensity         int             `json:"intensity"`
	Layout            manifest.Layout `json:"layout"`
	BaselineHistogram []int           `json:"baseline_histogram"`
	TrialHistogram    []int           `json:"trial_histogram"`
	OutcomePercent    float64         `json:"outcome_percent"`
	Summary           struct {
		ManifestedPercent float64 `json:"manifested_percent"`
	} `json:"summary"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestMakeWish(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, nethttp.MethodPost, "/api/wishes", `{"wish":"sunny weekend","intensity":75,"seed":"18446744073709551615"}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[resultBody](t, rec)
	assert.Equal(t, "sunny weekend", body.Wish)
	assert.Equal(t, profile.DefaultProfile, body.Profile)
	assert.Equal(t, "18446744073709551615", body.Seed)
	assert.Equal(t, 75, body.Intensity)
	assert.Equal(t, manifest.DefaultLayout(), body.Layout)
	assert.Len(t, body.BaselineHistogram, manifest.DefaultBuckets)
	assert.Len(t, body.TrialHistogram, manifest.DefaultBuckets)
	assert.Equal(t, manifest.DefaultSamples, manifest.Histogram(body.TrialHistogram).Total())
	assert.NotZero(t, body.TrialHistogram[body.Layout.Bucket(body.OutcomePercent)])
}

func TestMakeWishDefaultsIntensity(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, nethttp.MethodPost, "/api/wishes", `{"wish":"anything"}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, wish.DefaultIntensity, decode[resultBody](t, rec).Intensity)
}

func TestMakeWishValidation(t *testing.T) {
	h := newTestRouter(t)
	cases := map[string]string{
		"intensity zero":   `{"wish":"x","intensity":0}`,
		"intensity 101":    `{"wish":"x","intensity":101}`,
		"fractional":       `{"wish":"x","intensity":50.5}`,
		"missing wish":     `{"intensity":50}`,
		"long wish":        `{"wish":"` + strings.Repeat("w", wish.MaxWishLength+1) + `","intensity":50}`,
		"bad json":         `{"wish":`,
		"not a number":     `{"wish":"x","intensity":"lots"}`,
		"negative seed":    `{"wish":"x","intensity":50,"seed":-1}`,
		"bad profile name": `{"wish":"x","intensity":50,"profile":"../x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, nethttp.MethodPost, "/api/wishes", body)
			assert.Equal(t, nethttp.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestSimulateQuery(t *testing.T) {
	h := newTestRouter(t)
	a := do(t, h, nethttp.MethodGet, "/api/simulate?intensity=10&seed=7", "")
	require.Equal(t, nethttp.StatusOK, a.Code, a.Body.String())
	b := do(t, h, nethttp.MethodGet, "/api/simulate?intensity=10&seed=7", "")
	require.Equal(t, nethttp.StatusOK, b.Code)
	assert.JSONEq(t, a.Body.String(), b.Body.String())

	assert.Equal(t, nethttp.StatusBadRequest, do(t, h, nethttp.MethodGet, "/api/simulate?intensity=abc", "").Code)
	assert.Equal(t, nethttp.StatusBadRequest, do(t, h, nethttp.MethodGet, "/api/simulate?intensity=0", "").Code)
	assert.Equal(t, nethttp.StatusNotFound, do(t, h, nethttp.MethodGet, "/api/simulate?profile=nope", "").Code)
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, nethttp.MethodGet, "/api/layout", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode[layoutResponse](t, rec)
	assert.Equal(t, profile.DefaultProfile, body.Profile)
	assert.Equal(t, manifest.DefaultLayout(), body.Layout)
	assert.Equal(t, 1.0, body.BucketWidth)
	require.Len(t, body.Positions, manifest.DefaultBuckets)
	assert.Equal(t, 0.0, body.Positions[0])
	assert.Equal(t, 1.0, body.Positions[manifest.DefaultBuckets-1])
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t), nethttp.MethodGet, "/healthz", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(nethttp.MethodOptions, "/api/wishes", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
