package wish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/wishmachine/internal/manifest"
	"github.com/xtding233/wishmachine/internal/profile"
)

type stubEngines map[string]*manifest.Engine

func (s stubEngines) Engine(name string) (*manifest.Engine, error) {
	if name == "broken" {
		return nil, errors.New("decode default.yaml: bad indent")
	}
	e, ok := s[name]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return e, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	e, err := manifest.NewEngine(manifest.DefaultConfig())
	require.NoError(t, err)
	return NewService(stubEngines{profile.DefaultProfile: e}, "", nil)
}

func seed(v uint64) *uint64 { return &v }

func TestValidate(t *testing.T) {
	cases := map[string]Request{
		"intensity zero":     {Intensity: 0},
		"intensity too high": {Intensity: 101},
		"missing wish":       {Intensity: 50, RequireWish: true, Wish: "   "},
		"wish too long":      {Intensity: 50, Wish: strings.Repeat("a", MaxWishLength+1)},
		"bad profile":        {Intensity: 50, Profile: "../secrets"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(req), ErrValidation)
		})
	}

	assert.NoError(t, Validate(Request{Intensity: 1}))
	assert.NoError(t, Validate(Request{Intensity: 100, RequireWish: true, Wish: strings.Repeat("é", MaxWishLength)}))
}

func TestSimulateReturnsReplayableResult(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Simulate(ctx, Request{Wish: "  a new bike ", Intensity: 80, Seed: seed(12)})
	require.NoError(t, err)
	assert.Equal(t, "a new bike", a.Wish)
	assert.Equal(t, profile.DefaultProfile, a.Profile)
	assert.Equal(t, uint64(12), a.Seed)
	assert.Equal(t, 80, a.Intensity)
	assert.NoError(t, a.Verify())

	b, err := svc.Simulate(ctx, Request{Intensity: 80, Seed: seed(12)})
	require.NoError(t, err)
	assert.Equal(t, a.SimulationResult, b.SimulationResult)
}

func TestSimulateWithoutSeedReportsOne(t *testing.T) {
	svc := newTestService(t)
	res, err := svc.Simulate(context.Background(), Request{Intensity: 30})
	require.NoError(t, err)

	replay, err := svc.Simulate(context.Background(), Request{Intensity: 30, Seed: seed(res.Seed)})
	require.NoError(t, err)
	assert.Equal(t, res.OutcomePercent, replay.OutcomePercent)
}

func TestSimulateRejectsInvalidInput(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Simulate(context.Background(), Request{Intensity: 101})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, manifest.ErrInvalidIntensity)
}

func TestSimulateUnknownProfile(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Simulate(context.Background(), Request{Intensity: 50, Profile: "missing"})
	assert.ErrorIs(t, err, ErrUnknownProfile)

	_, err = svc.Simulate(context.Background(), Request{Intensity: 50, Profile: "broken"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownProfile)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestSimulateDiscardsResultAfterCancel(t *testing.T) {
	cfg := manifest.DefaultConfig()
	cfg.Layout.Samples = 200000
	slow, err := manifest.NewEngine(cfg)
	require.NoError(t, err)
	svc := NewService(stubEngines{"slow": slow}, "slow", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := svc.Simulate(ctx, Request{Intensity: 50})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestLayout(t *testing.T) {
	svc := newTestService(t)
	l, err := svc.Layout("")
	require.NoError(t, err)
	assert.Equal(t, manifest.DefaultLayout(), l)

	_, err = svc.Layout("missing")
	assert.ErrorIs(t, err, ErrUnknownProfile)
	_, err = svc.Layout("Bad Name")
	assert.ErrorIs(t, err, ErrValidation)
}
