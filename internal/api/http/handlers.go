package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/xtding233/wishmachine/internal/manifest"
	"github.com/xtding233/wishmachine/internal/wish"
)

// Handlers only; routes live in router.go.
type Handlers struct {
	svc *wish.Service
}

type wishRequest struct {
	Wish      string      `json:"wish"`
	Intensity json.Number `json:"intensity"`
	Profile   string      `json:"profile"`
	Seed      json.Number `json:"seed"`
}

type layoutResponse struct {
	Profile string          `json:"profile"`
	Layout  manifest.Layout `json:"layout"`
	manifest.Geometry
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w nethttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Internal details stay in the log.
func writeError(w nethttp.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wish.ErrValidation):
		writeJSON(w, nethttp.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, wish.ErrUnknownProfile):
		writeJSON(w, nethttp.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeJSON(w, nethttp.StatusGatewayTimeout, errorResponse{Error: "simulation timed out"})
	default:
		log.Errorf("Error making wish: %v", err)
		writeJSON(w, nethttp.StatusInternalServerError, errorResponse{Error: "An error occurred processing your wish"})
	}
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", wish.ErrValidation, msg)
}

// parseIntensity accepts integers only; empty means the default intensity.
func parseIntensity(s string) (int, error) {
	if s == "" {
		return wish.DefaultIntensity, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, validationError("intensity must be an integer between 1 and 100")
	}
	return v, nil
}

// parseSeed returns nil for an empty seed.
func parseSeed(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, validationError("seed must be an unsigned 64-bit integer")
	}
	return &v, nil
}

// MakeWish handles POST /api/wishes.
func (h *Handlers) MakeWish(w nethttp.ResponseWriter, r *nethttp.Request) {
	var body wishRequest
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&body); err != nil {
		writeError(w, validationError("bad json"))
		return
	}
	intensity, err := parseIntensity(body.Intensity.String())
	if err != nil {
		writeError(w, err)
		return
	}
	seed, err := parseSeed(body.Seed.String())
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.svc.Simulate(r.Context(), wish.Request{
		Wish:        body.Wish,
		RequireWish: true,
		Intensity:   intensity,
		Profile:     body.Profile,
		Seed:        seed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

// Simulate handles GET /api/simulate?intensity=&profile=&seed=.
func (h *Handlers) Simulate(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	intensity, err := parseIntensity(q.Get("intensity"))
	if err != nil {
		writeError(w, err)
		return
	}
	seed, err := parseSeed(q.Get("seed"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.svc.Simulate(r.Context(), wish.Request{
		Intensity: intensity,
		Profile:   q.Get("profile"),
		Seed:      seed,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, resp)
}

// Layout handles GET /api/layout?profile=.
func (h *Handlers) Layout(w nethttp.ResponseWriter, r *nethttp.Request) {
	name := r.URL.Query().Get("profile")
	if name == "" {
		name = h.svc.DefaultProfile()
	}
	layout, err := h.svc.Layout(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, layoutResponse{
		Profile:  name,
		Layout:   layout,
		Geometry: layout.Geometry(),
	})
}
