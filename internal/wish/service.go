// Package wish validates wish submissions and runs them through the engine of
// the requested profile.
package wish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/xtding233/wishmachine/internal/manifest"
	"github.com/xtding233/wishmachine/internal/profile"
	"github.com/xtding233/wishmachine/internal/telemetry"
)

const (
	DefaultIntensity = 50
	MaxWishLength    = 500
)

var (
	// ErrValidation marks user-input problems; the message is safe to show.
	ErrValidation = errors.New("invalid wish")
	// ErrUnknownProfile marks a profile that could not be resolved.
	ErrUnknownProfile = errors.New("unknown profile")
)

// EngineSource hands out the engine for a profile.
type EngineSource interface {
	Engine(name string) (*manifest.Engine, error)
}

// Request is one simulation request. Wish text is required when RequireWish is set.
type Request struct {
	Wish        string
	RequireWish bool
	Intensity   int
	Profile     string
	Seed        *uint64
}

// Response carries the engine result with the request context needed to replay it.
type Response struct {
	Wish    string `json:"wish,omitempty"`
	Profile string `json:"profile"`
	Seed    uint64 `json:"seed,string"`
	*manifest.SimulationResult
}

// Service runs wish simulations.
type Service struct {
	engines        EngineSource
	defaultProfile string
	metrics        *telemetry.Recorder
}

func NewService(engines EngineSource, defaultProfile string, metrics *telemetry.Recorder) *Service {
	if defaultProfile == "" {
		defaultProfile = profile.DefaultProfile
	}
	return &Service{engines: engines, defaultProfile: defaultProfile, metrics: metrics}
}

// DefaultProfile is the profile used when a request names none.
func (s *Service) DefaultProfile() string { return s.defaultProfile }

// Validate checks a request before any engine work.
func Validate(req Request) error {
	wish := strings.TrimSpace(req.Wish)
	if req.RequireWish && wish == "" {
		return fmt.Errorf("%w: wish text is required", ErrValidation)
	}
	if utf8.RuneCountInString(wish) > MaxWishLength {
		return fmt.Errorf("%w: wish text must be %d characters or less", ErrValidation, MaxWishLength)
	}
	if err := manifest.ValidateIntensity(req.Intensity); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if req.Profile != "" {
		if err := profile.ValidateName(req.Profile); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

type runOutcome struct {
	res *manifest.SimulationResult
	err error
}

// Simulate validates req and runs it. The engine runs off the caller's
// goroutine; if ctx ends first the in-flight result is discarded.
func (s *Service) Simulate(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	name := req.Profile
	if name == "" {
		name = s.defaultProfile
	}

	if err := Validate(req); err != nil {
		s.metrics.RecordRun(ctx, name, telemetry.ResultInvalid, 0, time.Since(started))
		return nil, err
	}
	engine, err := s.engine(name)
	if err != nil {
		result := telemetry.ResultInternal
		if errors.Is(err, ErrUnknownProfile) {
			result = telemetry.ResultInvalid
		}
		s.metrics.RecordRun(ctx, name, result, 0, time.Since(started))
		return nil, err
	}

	var rng manifest.RandomSource
	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
		rng = manifest.NewSeededRNG(seed)
	} else {
		rng, seed = manifest.NewRNG()
	}

	done := make(chan runOutcome, 1)
	go func() {
		res, err := engine.Run(req.Intensity, rng)
		done <- runOutcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		s.metrics.RecordRun(ctx, name, telemetry.ResultTimeout, 0, time.Since(started))
		return nil, fmt.Errorf("simulate: %w", ctx.Err())
	case out := <-done:
		if out.err != nil {
			s.metrics.RecordRun(ctx, name, telemetry.ResultInternal, 0, time.Since(started))
			log.WithFields(log.Fields{
				"profile":   name,
				"intensity": req.Intensity,
				"seed":      seed,
			}).Errorf("Simulation aborted: %v", out.err)
			return nil, out.err
		}
		s.metrics.RecordRun(ctx, name, telemetry.ResultOK, out.res.OutcomePercent, time.Since(started))
		log.WithFields(log.Fields{
			"profile":   name,
			"intensity": req.Intensity,
			"seed":      seed,
			"outcome":   out.res.OutcomePercent,
		}).Debug("Simulation complete")
		return &Response{
			Wish:             strings.TrimSpace(req.Wish),
			Profile:          name,
			Seed:             seed,
			SimulationResult: out.res,
		}, nil
	}
}

// Layout returns the binning contract of a profile.
func (s *Service) Layout(name string) (manifest.Layout, error) {
	if name == "" {
		name = s.defaultProfile
	}
	if err := profile.ValidateName(name); err != nil {
		return manifest.Layout{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	engine, err := s.engine(name)
	if err != nil {
		return manifest.Layout{}, err
	}
	return engine.Layout(), nil
}

// engine resolves a profile; a missing profile is ErrUnknownProfile, anything
// else is a broken deployment.
func (s *Service) engine(name string) (*manifest.Engine, error) {
	engine, err := s.engines.Engine(name)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	if err != nil {
		log.WithField("profile", name).Errorf("Failed to resolve profile: %v", err)
		return nil, fmt.Errorf("resolve profile %s: %w", name, err)
	}
	return engine, nil
}
